// Package i18n holds the Russian and English UI strings.
package i18n

import (
	"strings"

	"github.com/vanderheijden86/connections/pkg/model"
)

// T returns the string for key in lang, falling back to English and then
// to the key itself. params replace {name} placeholders.
func T(lang model.Lang, key string, params map[string]string) string {
	s, ok := dict[lang][key]
	if !ok {
		s, ok = dict[model.LangEN][key]
	}
	if !ok {
		s = key
	}
	for k, v := range params {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}

// S is T without parameters.
func S(lang model.Lang, key string) string { return T(lang, key, nil) }

var kindKeys = map[model.ConnectionKind]string{
	model.KindAcquaintance:   "acquaintance",
	model.KindFriend:         "friend",
	model.KindBestFriend:     "bestFriend",
	model.KindFamily:         "family",
	model.KindInRelationship: "inRelationship",
}

// KindLabel is the localized name of a connection kind.
func KindLabel(lang model.Lang, kind model.ConnectionKind) string {
	if key, ok := kindKeys[kind]; ok {
		return S(lang, key)
	}
	return string(kind)
}

// RoleLabel is the localized name of a family role.
func RoleLabel(lang model.Lang, role model.FamilyRole) string {
	return S(lang, string(role))
}

// ConnectionLabel is the text drawn on an edge: the kind, plus the role for
// family connections ("family — mother").
func ConnectionLabel(lang model.Lang, kind model.ConnectionKind, role model.FamilyRole) string {
	label := KindLabel(lang, kind)
	if kind == model.KindFamily && role != "" {
		label += " — " + RoleLabel(lang, role)
	}
	return label
}

// PersonName is the name shown for p, or the localized "unknown".
func PersonName(lang model.Lang, p *model.Person) string {
	if p == nil {
		return S(lang, "unknown")
	}
	if name := p.DisplayName(); name != "" {
		return name
	}
	return S(lang, "unknown")
}

var enumPrefixes = map[string]string{
	"subculture":         "sub_",
	"orientation":        "ori_",
	"finance":            "fin_",
	"relationshipStatus": "rel_",
	"bodyType":           "body_",
	"eyeColor":           "eye_",
	"hairLength":         "hl_",
	"hairStyle":          "hs_",
	"hairColor":          "hc_",
}

// EnumLabel localizes a profile enum value. field is the JSON field name;
// ternary fields use the shared yes/no/unknown strings.
func EnumLabel(lang model.Lang, field, value string) string {
	if prefix, ok := enumPrefixes[field]; ok {
		return S(lang, prefix+value)
	}
	return S(lang, value)
}

var dict = map[model.Lang]map[string]string{
	model.LangEN: {
		"app":                     "Connections",
		"untitled":                "Untitled",
		"acquaintance":            "acquaintance",
		"friend":                  "friend",
		"bestFriend":              "best friend",
		"family":                  "family",
		"inRelationship":          "in a relationship",
		"brother":                 "brother",
		"sister":                  "sister",
		"mother":                  "mother",
		"father":                  "father",
		"yes":                     "yes",
		"no":                      "no",
		"unknown":                 "unknown",
		"linkTitle":               "New connection",
		"linkChoose":              "What connects these two?",
		"chooseRole":              "Family role",
		"create":                  "Create",
		"cancel":                  "Cancel",
		"duplicateConnection":     "These people are already connected.",
		"invalidFile":             "This is not a Connections file.",
		"confirmDeleteTitle":      "Delete selected",
		"confirmDeleteBody":       "Delete {n} people and their connections?",
		"delete":                  "Delete",
		"unsavedTitle":            "Unsaved changes",
		"unsavedBody":             "{n} tab(s) have unsaved changes.",
		"saveAll":                 "Save all",
		"discard":                 "Discard",
		"saved":                   "Saved {path}",
		"saveFailed":              "Save failed: {err}",
		"openFailed":              "Open failed: {err}",
		"changedOnDisk":           "{path} changed on disk",
		"openPath":                "Open file",
		"savePath":                "Save as",
		"people":                  "People",
		"connections":             "Connections",
		"selected":                "Selected: {n}",
		"components":              "groups",
		"hintCreate":              "Double-click the canvas to add a person",
		"selectPerson":            "Select a person to see details",
		"copied":                  "Copied {value}",
		"linksOpenExternally":     "Opened in browser",
		"notALink":                "Not a web link",
		"showNames":               "Names",
		"language":                "Language",
		"editTitle":               "Edit person",
		"reloaded":                "Reloaded {path}",
		"modifiedOnDisk":          "{path} changed on disk; unsaved edits kept",
		"closeDirty":              "Close this tab and lose its changes?",
		"noPeopleSelected":        "Nothing selected",
		"noCandidates":            "No documents found",
		"nameLabel":               "Name",
		"surnameLabel":            "Surname",
		"nicknameLabel":           "Nickname",
		"birthdayLabel":           "Birthday",
		"cityLabel":               "City",
		"smokesLabel":             "Smokes",
		"usesLabel":               "Uses",
		"subcultureLabel":         "Subculture",
		"orientationLabel":        "Orientation",
		"financeLabel":            "Finance",
		"relationshipStatusLabel": "Relationship",
		"heightLabel":             "Height, cm",
		"weightLabel":             "Weight, kg",
		"bodyTypeLabel":           "Body type",
		"eyeColorLabel":           "Eyes",
		"hairLengthLabel":         "Hair length",
		"hairStyleLabel":          "Hair style",
		"hairColorLabel":          "Hair color",
		"tattoosLabel":            "Tattoos",
		"piercingLabel":           "Piercing",
		"phoneLabel":              "Phone",
		"emailLabel":              "Email",
		"occupationLabel":         "Occupation",
		"tagsLabel":               "Tags",
		"socials":                 "Socials",
		"photos":                  "Photos",
		"notes":                   "Notes",
		"basicSection":            "Basics",
		"appearanceSection":       "Appearance",
		"contactsSection":         "Contacts",
		"sub_unknown":             "unknown",
		"sub_normal":              "normal",
		"sub_oldmoney":            "old money",
		"sub_punk":                "punk",
		"sub_alt":                 "alt",
		"sub_goth":                "goth",
		"sub_emo":                 "emo",
		"sub_metal":               "metal",
		"sub_hiphop":              "hip-hop",
		"sub_raver":               "raver",
		"sub_grunge":              "grunge",
		"sub_skater":              "skater",
		"sub_anime":               "anime",
		"sub_kpop":                "k-pop",
		"sub_cyber":               "cyber",
		"sub_streetwear":          "streetwear",
		"sub_sport":               "sport",
		"sub_business":            "business",
		"sub_boho":                "boho",
		"sub_artsy":               "artsy",
		"sub_military":            "military",
		"sub_skinhead":            "skinhead",
		"ori_unknown":             "unknown",
		"ori_girls":               "girls",
		"ori_boys":                "boys",
		"ori_both":                "both",
		"fin_unknown":             "unknown",
		"fin_low":                 "low",
		"fin_middle":              "middle",
		"fin_high":                "high",
		"rel_unknown":             "unknown",
		"rel_single":              "single",
		"rel_dating":              "dating",
		"rel_relationship":        "in a relationship",
		"rel_married":             "married",
		"rel_complicated":         "it's complicated",
		"body_unknown":            "unknown",
		"body_slim":               "slim",
		"body_average":            "average",
		"body_athletic":           "athletic",
		"body_heavy":              "heavy",
		"eye_unknown":             "unknown",
		"eye_brown":               "brown",
		"eye_blue":                "blue",
		"eye_green":               "green",
		"eye_gray":                "gray",
		"eye_hazel":               "hazel",
		"eye_other":               "other",
		"hl_unknown":              "unknown",
		"hl_short":                "short",
		"hl_medium":               "medium",
		"hl_long":                 "long",
		"hl_very_long":            "very long",
		"hl_bald":                 "bald",
		"hs_unknown":              "unknown",
		"hs_straight":             "straight",
		"hs_wavy":                 "wavy",
		"hs_curly":                "curly",
		"hs_dreads":               "dreads",
		"hs_braids":               "braids",
		"hs_buzzcut":              "buzzcut",
		"hs_undercut":             "undercut",
		"hs_other":                "other",
		"hc_unknown":              "unknown",
		"hc_blonde":               "blonde",
		"hc_brown":                "brown",
		"hc_black":                "black",
		"hc_red":                  "red",
		"hc_white":                "white",
		"hc_colored":              "colored",
		"hc_other":                "other",
	},
	model.LangRU: {
		"app":                     "Связи",
		"untitled":                "Без названия",
		"acquaintance":            "знакомый",
		"friend":                  "друг",
		"bestFriend":              "лучший друг",
		"family":                  "семья",
		"inRelationship":          "в отношениях",
		"brother":                 "брат",
		"sister":                  "сестра",
		"mother":                  "мать",
		"father":                  "отец",
		"yes":                     "да",
		"no":                      "нет",
		"unknown":                 "неизвестно",
		"linkTitle":               "Новая связь",
		"linkChoose":              "Что связывает этих двоих?",
		"chooseRole":              "Роль в семье",
		"create":                  "Создать",
		"cancel":                  "Отмена",
		"duplicateConnection":     "Эти люди уже связаны.",
		"invalidFile":             "Это не файл Connections.",
		"confirmDeleteTitle":      "Удалить выбранных",
		"confirmDeleteBody":       "Удалить {n} чел. и их связи?",
		"delete":                  "Удалить",
		"unsavedTitle":            "Несохранённые изменения",
		"unsavedBody":             "Вкладок с несохранёнными изменениями: {n}.",
		"saveAll":                 "Сохранить все",
		"discard":                 "Не сохранять",
		"saved":                   "Сохранено: {path}",
		"saveFailed":              "Ошибка сохранения: {err}",
		"openFailed":              "Ошибка открытия: {err}",
		"changedOnDisk":           "{path} изменён на диске",
		"openPath":                "Открыть файл",
		"savePath":                "Сохранить как",
		"people":                  "Люди",
		"connections":             "Связи",
		"selected":                "Выбрано: {n}",
		"components":              "групп",
		"hintCreate":              "Двойной клик по холсту добавляет человека",
		"selectPerson":            "Выберите человека, чтобы увидеть детали",
		"copied":                  "Скопировано: {value}",
		"linksOpenExternally":     "Открыто в браузере",
		"notALink":                "Это не веб-ссылка",
		"showNames":               "Имена",
		"language":                "Язык",
		"editTitle":               "Редактировать",
		"reloaded":                "Обновлено: {path}",
		"modifiedOnDisk":          "{path} изменён на диске; несохранённые правки сохранены",
		"closeDirty":              "Закрыть вкладку без сохранения?",
		"noPeopleSelected":        "Ничего не выбрано",
		"noCandidates":            "Документы не найдены",
		"nameLabel":               "Имя",
		"surnameLabel":            "Фамилия",
		"nicknameLabel":           "Никнейм",
		"birthdayLabel":           "День рождения",
		"cityLabel":               "Город",
		"smokesLabel":             "Курит",
		"usesLabel":               "Употребляет",
		"subcultureLabel":         "Субкультура",
		"orientationLabel":        "Ориентация",
		"financeLabel":            "Финансы",
		"relationshipStatusLabel": "Отношения",
		"heightLabel":             "Рост, см",
		"weightLabel":             "Вес, кг",
		"bodyTypeLabel":           "Телосложение",
		"eyeColorLabel":           "Глаза",
		"hairLengthLabel":         "Длина волос",
		"hairStyleLabel":          "Причёска",
		"hairColorLabel":          "Цвет волос",
		"tattoosLabel":            "Татуировки",
		"piercingLabel":           "Пирсинг",
		"phoneLabel":              "Телефон",
		"emailLabel":              "Почта",
		"occupationLabel":         "Занятие",
		"tagsLabel":               "Теги",
		"socials":                 "Соцсети",
		"photos":                  "Фото",
		"notes":                   "Заметки",
		"basicSection":            "Основное",
		"appearanceSection":       "Внешность",
		"contactsSection":         "Контакты",
		"sub_unknown":             "неизвестно",
		"sub_normal":              "обычный",
		"sub_oldmoney":            "old money",
		"sub_punk":                "панк",
		"sub_alt":                 "альт",
		"sub_goth":                "гот",
		"sub_emo":                 "эмо",
		"sub_metal":               "метал",
		"sub_hiphop":              "хип-хоп",
		"sub_raver":               "рейвер",
		"sub_grunge":              "гранж",
		"sub_skater":              "скейтер",
		"sub_anime":               "аниме",
		"sub_kpop":                "k-pop",
		"sub_cyber":               "кибер",
		"sub_streetwear":          "стритвир",
		"sub_sport":               "спорт",
		"sub_business":            "бизнес",
		"sub_boho":                "бохо",
		"sub_artsy":               "арт",
		"sub_military":            "милитари",
		"sub_skinhead":            "скинхед",
		"ori_unknown":             "неизвестно",
		"ori_girls":               "девушки",
		"ori_boys":                "парни",
		"ori_both":                "оба",
		"fin_unknown":             "неизвестно",
		"fin_low":                 "низкий",
		"fin_middle":              "средний",
		"fin_high":                "высокий",
		"rel_unknown":             "неизвестно",
		"rel_single":              "свободен",
		"rel_dating":              "встречается",
		"rel_relationship":        "в отношениях",
		"rel_married":             "в браке",
		"rel_complicated":         "всё сложно",
		"body_unknown":            "неизвестно",
		"body_slim":               "худое",
		"body_average":            "среднее",
		"body_athletic":           "спортивное",
		"body_heavy":              "полное",
		"eye_unknown":             "неизвестно",
		"eye_brown":               "карие",
		"eye_blue":                "голубые",
		"eye_green":               "зелёные",
		"eye_gray":                "серые",
		"eye_hazel":               "ореховые",
		"eye_other":               "другие",
		"hl_unknown":              "неизвестно",
		"hl_short":                "короткие",
		"hl_medium":               "средние",
		"hl_long":                 "длинные",
		"hl_very_long":            "очень длинные",
		"hl_bald":                 "лысый",
		"hs_unknown":              "неизвестно",
		"hs_straight":             "прямые",
		"hs_wavy":                 "волнистые",
		"hs_curly":                "кудрявые",
		"hs_dreads":               "дреды",
		"hs_braids":               "косички",
		"hs_buzzcut":              "под машинку",
		"hs_undercut":             "андеркат",
		"hs_other":                "другое",
		"hc_unknown":              "неизвестно",
		"hc_blonde":               "блонд",
		"hc_brown":                "шатен",
		"hc_black":                "чёрные",
		"hc_red":                  "рыжие",
		"hc_white":                "седые",
		"hc_colored":              "цветные",
		"hc_other":                "другое",
	},
}
