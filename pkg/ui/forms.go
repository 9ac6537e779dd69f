package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/model"
)

// formKind identifies which dialog is open.
type formKind int

const (
	formNone formKind = iota
	formConnection
	formBulkDelete
	formUnsaved
	formEdit
	formCloseTab
)

func (k formKind) String() string {
	switch k {
	case formConnection:
		return "connection"
	case formBulkDelete:
		return "bulk-delete"
	case formUnsaved:
		return "unsaved"
	case formEdit:
		return "edit"
	case formCloseTab:
		return "close-tab"
	}
	return "none"
}

// exitChoice is the answer to the unsaved-changes prompt.
type exitChoice string

const (
	exitSaveAll exitChoice = "save"
	exitDiscard exitChoice = "discard"
	exitCancel  exitChoice = "cancel"
)

// formValues receives the fields of whichever dialog is open. It lives on
// the heap so the huh fields can keep pointers into it across Model copies.
type formValues struct {
	kind    model.ConnectionKind
	role    model.FamilyRole
	confirm bool
	exit    exitChoice

	name     string
	surname  string
	nickname string
	notes    string

	personID string
	tabID    string
}

// dialog is an open huh form and the values it writes to.
type dialog struct {
	kind   formKind
	form   *huh.Form
	values *formValues
}

func newDialog(kind formKind, values *formValues, groups ...*huh.Group) *dialog {
	f := huh.NewForm(groups...).
		WithTheme(huh.ThemeCatppuccin()).
		WithShowHelp(true).
		WithWidth(50)
	return &dialog{kind: kind, form: f, values: values}
}

func connectionDialog(lang model.Lang) *dialog {
	v := &formValues{kind: model.KindFriend, role: model.RoleBrother}
	kinds := make([]huh.Option[model.ConnectionKind], 0, len(model.ConnectionKinds))
	for _, k := range model.ConnectionKinds {
		kinds = append(kinds, huh.NewOption(i18n.KindLabel(lang, k), k))
	}
	roles := make([]huh.Option[model.FamilyRole], 0, len(model.FamilyRoles))
	for _, r := range model.FamilyRoles {
		roles = append(roles, huh.NewOption(i18n.RoleLabel(lang, r), r))
	}
	return newDialog(formConnection, v,
		huh.NewGroup(
			huh.NewSelect[model.ConnectionKind]().
				Title(i18n.S(lang, "linkTitle")).
				Description(i18n.S(lang, "linkChoose")).
				Options(kinds...).
				Value(&v.kind),
		),
		huh.NewGroup(
			huh.NewSelect[model.FamilyRole]().
				Title(i18n.S(lang, "chooseRole")).
				Options(roles...).
				Value(&v.role),
		).WithHideFunc(func() bool { return v.kind != model.KindFamily }),
	)
}

// connectionChoice is the kind and role picked in the connection dialog.
func (v *formValues) connectionChoice() (model.ConnectionKind, model.FamilyRole) {
	if v.kind != model.KindFamily {
		return v.kind, ""
	}
	return v.kind, v.role
}

func bulkDeleteDialog(lang model.Lang, n int) *dialog {
	v := &formValues{}
	return newDialog(formBulkDelete, v,
		huh.NewGroup(
			huh.NewConfirm().
				Title(i18n.S(lang, "confirmDeleteTitle")).
				Description(i18n.T(lang, "confirmDeleteBody", map[string]string{"n": strconv.Itoa(n)})).
				Affirmative(i18n.S(lang, "delete")).
				Negative(i18n.S(lang, "cancel")).
				Value(&v.confirm),
		),
	)
}

func unsavedDialog(lang model.Lang, n int) *dialog {
	v := &formValues{exit: exitSaveAll}
	return newDialog(formUnsaved, v,
		huh.NewGroup(
			huh.NewSelect[exitChoice]().
				Title(i18n.S(lang, "unsavedTitle")).
				Description(i18n.T(lang, "unsavedBody", map[string]string{"n": strconv.Itoa(n)})).
				Options(
					huh.NewOption(i18n.S(lang, "saveAll"), exitSaveAll),
					huh.NewOption(i18n.S(lang, "discard"), exitDiscard),
					huh.NewOption(i18n.S(lang, "cancel"), exitCancel),
				).
				Value(&v.exit),
		),
	)
}

func closeTabDialog(lang model.Lang, tabID string) *dialog {
	v := &formValues{tabID: tabID}
	return newDialog(formCloseTab, v,
		huh.NewGroup(
			huh.NewConfirm().
				Title(i18n.S(lang, "unsavedTitle")).
				Description(i18n.S(lang, "closeDirty")).
				Affirmative(i18n.S(lang, "discard")).
				Negative(i18n.S(lang, "cancel")).
				Value(&v.confirm),
		),
	)
}

func editDialog(lang model.Lang, p *model.Person) *dialog {
	v := &formValues{
		personID: p.ID,
		name:     deref(p.Name),
		surname:  deref(p.Surname),
		nickname: deref(p.Nickname),
		notes:    p.Notes,
	}
	return newDialog(formEdit, v,
		huh.NewGroup(
			huh.NewInput().Title(i18n.S(lang, "nameLabel")).CharLimit(80).Value(&v.name),
			huh.NewInput().Title(i18n.S(lang, "surnameLabel")).CharLimit(80).Value(&v.surname),
			huh.NewInput().Title(i18n.S(lang, "nicknameLabel")).CharLimit(80).Value(&v.nickname),
			huh.NewText().Title(i18n.S(lang, "notes")).Lines(4).Value(&v.notes),
		).Title(i18n.S(lang, "editTitle")),
	)
}

// identityPatch turns the edit dialog into a patch. Blank fields clear
// the attribute.
func (v *formValues) identityPatch() model.PersonPatch {
	opt := func(s string) *string {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return &s
	}
	return model.PersonPatch{
		Name:     model.Val(opt(v.name)),
		Surname:  model.Val(opt(v.surname)),
		Nickname: model.Val(opt(v.nickname)),
		Notes:    model.Val(v.notes),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
