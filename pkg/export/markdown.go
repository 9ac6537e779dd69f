package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vanderheijden86/connections/pkg/fileio"
	"github.com/vanderheijden86/connections/pkg/i18n"
	"github.com/vanderheijden86/connections/pkg/model"
)

// GenerateMarkdown writes a report of every person and connection in doc,
// with a mermaid diagram of the graph.
func GenerateMarkdown(doc *model.File, title string) string {
	lang := doc.Meta.Language
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))

	byKind := map[model.ConnectionKind]int{}
	for _, c := range doc.Connections {
		byKind[c.Kind]++
	}
	sb.WriteString(fmt.Sprintf("- **%s**: %d\n", i18n.S(lang, "people"), len(doc.People)))
	sb.WriteString(fmt.Sprintf("- **%s**: %d\n", i18n.S(lang, "connections"), len(doc.Connections)))
	for _, k := range model.ConnectionKinds {
		if n := byKind[k]; n > 0 {
			sb.WriteString(fmt.Sprintf("  - %s: %d\n", i18n.KindLabel(lang, k), n))
		}
	}
	sb.WriteString("\n")

	ids := sortedPeople(doc)

	sb.WriteString("```mermaid\ngraph LR\n")
	alias := make(map[string]string, len(ids))
	for i, id := range ids {
		alias[id] = "p" + strconv.Itoa(i)
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", alias[id], mermaidSafe(i18n.PersonName(lang, doc.People[id]))))
	}
	for _, c := range doc.Connections {
		link := "---"
		if c.Kind == model.KindInRelationship || c.Kind == model.KindFamily {
			link = "==="
		}
		sb.WriteString(fmt.Sprintf("    %s %s|%s| %s\n", alias[c.From], link,
			mermaidSafe(i18n.ConnectionLabel(lang, c.Kind, c.FamilyRole)), alias[c.To]))
	}
	sb.WriteString("```\n\n---\n\n")

	for _, id := range ids {
		writePerson(&sb, doc, id, "##")
		sb.WriteString("---\n\n")
	}
	return sb.String()
}

// PersonMarkdown describes one person and their connections.
func PersonMarkdown(doc *model.File, id string) string {
	if doc.People[id] == nil {
		return ""
	}
	var sb strings.Builder
	writePerson(&sb, doc, id, "#")
	return sb.String()
}

func writePerson(sb *strings.Builder, doc *model.File, id, heading string) {
	lang := doc.Meta.Language
	p := doc.People[id]
	sb.WriteString(fmt.Sprintf("%s %s\n\n", heading, i18n.PersonName(lang, p)))

	rows := func(section string, pairs [][2]string) {
		var kept [][2]string
		for _, kv := range pairs {
			if kv[1] != "" && kv[1] != i18n.S(lang, "unknown") {
				kept = append(kept, kv)
			}
		}
		if len(kept) == 0 {
			return
		}
		sb.WriteString(fmt.Sprintf("%s# %s\n\n", heading, i18n.S(lang, section)))
		sb.WriteString("| | |\n|---|---|\n")
		for _, kv := range kept {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", i18n.S(lang, kv[0]), cell(kv[1])))
		}
		sb.WriteString("\n")
	}
	enum := func(field, v string) string { return i18n.EnumLabel(lang, field, v) }

	rows("basicSection", [][2]string{
		{"nicknameLabel", str(p.Nickname)},
		{"birthdayLabel", str(p.Birthday)},
		{"cityLabel", str(p.City)},
		{"occupationLabel", str(p.Occupation)},
		{"smokesLabel", i18n.S(lang, string(p.Smokes))},
		{"usesLabel", i18n.S(lang, string(p.Uses))},
		{"subcultureLabel", enum("subculture", string(p.Subculture))},
		{"orientationLabel", enum("orientation", string(p.Orientation))},
		{"financeLabel", enum("finance", string(p.Finance))},
		{"relationshipStatusLabel", enum("relationshipStatus", string(p.RelationshipStatus))},
	})
	rows("appearanceSection", [][2]string{
		{"heightLabel", num(p.HeightCm)},
		{"weightLabel", num(p.WeightKg)},
		{"bodyTypeLabel", enum("bodyType", string(p.BodyType))},
		{"eyeColorLabel", enum("eyeColor", string(p.EyeColor))},
		{"hairLengthLabel", enum("hairLength", string(p.HairLength))},
		{"hairStyleLabel", enum("hairStyle", string(p.HairStyle))},
		{"hairColorLabel", enum("hairColor", string(p.HairColor))},
		{"tattoosLabel", i18n.S(lang, string(p.Tattoos))},
		{"piercingLabel", i18n.S(lang, string(p.Piercing))},
	})
	rows("contactsSection", [][2]string{
		{"phoneLabel", str(p.Phone)},
		{"emailLabel", str(p.Email)},
		{"tagsLabel", strings.Join(p.Tags, ", ")},
	})

	if len(p.Socials) > 0 {
		sb.WriteString(fmt.Sprintf("%s# %s\n\n", heading, i18n.S(lang, "socials")))
		for _, s := range p.Socials {
			sb.WriteString(fmt.Sprintf("- **%s**: %s\n", s.Type, s.Value))
		}
		sb.WriteString("\n")
	}

	var links []string
	for _, c := range doc.Connections {
		if !c.Touches(id) {
			continue
		}
		other := doc.People[c.Other(id)]
		links = append(links, fmt.Sprintf("- %s: %s\n",
			i18n.ConnectionLabel(lang, c.Kind, c.FamilyRole), i18n.PersonName(lang, other)))
	}
	if len(links) > 0 {
		sort.Strings(links)
		sb.WriteString(fmt.Sprintf("%s# %s\n\n", heading, i18n.S(lang, "connections")))
		sb.WriteString(strings.Join(links, ""))
		sb.WriteString("\n")
	}

	if strings.TrimSpace(p.Notes) != "" {
		sb.WriteString(fmt.Sprintf("%s# %s\n\n", heading, i18n.S(lang, "notes")))
		sb.WriteString(p.Notes + "\n\n")
	}
}

// SaveMarkdownToFile writes the report for doc to path.
func SaveMarkdownToFile(doc *model.File, title, path string) error {
	return fileio.Write(path, []byte(GenerateMarkdown(doc, title)))
}

func sortedPeople(doc *model.File) []string {
	ids := make([]string, 0, len(doc.People))
	for id := range doc.People {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a := strings.ToLower(doc.People[ids[i]].DisplayName())
		b := strings.ToLower(doc.People[ids[j]].DisplayName())
		if a != b {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func num(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func cell(s string) string {
	return strings.NewReplacer("|", "\\|", "\n", " ").Replace(s)
}

func mermaidSafe(s string) string {
	s = strings.NewReplacer("\"", "'", "[", "", "]", "", "|", "/").Replace(s)
	if r := []rune(s); len(r) > 30 {
		s = string(r[:27]) + "..."
	}
	return s
}
