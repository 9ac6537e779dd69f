package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/connections/pkg/export"
	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/model"
)

// detailPanel shows the focused person as rendered markdown, with a
// cursor over their social links for copy and open.
type detailPanel struct {
	vp       viewport.Model
	renderer *glamour.TermRenderer
	width    int

	personID string
	rev      uint64
	social   int
}

func newDetailPanel() detailPanel {
	return detailPanel{vp: viewport.New(0, 0)}
}

// SetSize resizes the panel; the renderer is rebuilt for the new wrap
// width on the next refresh.
func (d *detailPanel) SetSize(w, h int) {
	if w != d.width {
		d.renderer = nil
		d.rev = 0
	}
	d.width = w
	d.vp.Width = w
	d.vp.Height = h
}

// Refresh re-renders when the person or the document changed.
func (d *detailPanel) Refresh(doc *model.File, id string, rev uint64) {
	if id == d.personID && rev == d.rev && d.renderer != nil {
		return
	}
	if id != d.personID {
		d.social = 0
		d.vp.GotoTop()
	}
	d.personID, d.rev = id, rev

	lang := doc.Meta.Language
	p := doc.People[id]
	if p == nil {
		d.vp.SetContent(i18n.S(lang, "selectPerson"))
		return
	}
	if d.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(max(d.width-2, 20)),
		)
		if err != nil {
			d.vp.SetContent(fmt.Sprintf("Error creating renderer: %v", err))
			return
		}
		d.renderer = r
	}

	md := export.PersonMarkdown(doc, id)
	if len(p.Socials) > 0 {
		d.social %= len(p.Socials)
		s := p.Socials[d.social]
		md += fmt.Sprintf("\n> **[%d/%d] %s**: `%s`\n", d.social+1, len(p.Socials), s.Type, s.Value)
	}
	out, err := d.renderer.Render(md)
	if err != nil {
		d.vp.SetContent(fmt.Sprintf("Error rendering markdown: %v", err))
		return
	}
	d.vp.SetContent(out)
}

// NextSocial moves the social cursor and forces a re-render.
func (d *detailPanel) NextSocial() {
	d.social++
	d.rev = 0
}

// Social returns the social link under the cursor.
func (d *detailPanel) Social(doc *model.File) (model.SocialLink, bool) {
	p := doc.People[d.personID]
	if p == nil || len(p.Socials) == 0 {
		return model.SocialLink{}, false
	}
	return p.Socials[d.social%len(p.Socials)], true
}

func (d detailPanel) View() string { return d.vp.View() }
