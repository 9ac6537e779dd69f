package loader

import (
	"math"
	"time"

	"github.com/vanderheijden86/connections/pkg/geom"
	"github.com/vanderheijden86/connections/pkg/model"
)

// Options supplies the non-deterministic inputs of normalization so tests
// can pin them.
type Options struct {
	NewID func() string
	Now   func() time.Time
}

func (o Options) withDefaults() Options {
	if o.NewID == nil {
		o.NewID = NewID
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Normalize turns any decoded JSON value into a valid document. It never
// fails: every missing or mistyped field falls back to its default, and
// connections that cannot be kept (missing endpoint, self-loop, second
// connection for an already connected pair) are dropped.
func Normalize(raw any, opts Options) *model.File {
	opts = opts.withDefaults()
	root := asObject(raw)
	meta := asObject(root["meta"])

	lang := model.LangRU
	if s, _ := meta["language"].(string); s == string(model.LangEN) {
		lang = model.LangEN
	}
	f := model.DefaultFile(lang, opts.Now())

	if v, ok := number(meta["version"]); ok {
		f.Meta.Version = int(v)
	}
	if s, ok := meta["createdAt"].(string); ok {
		f.Meta.CreatedAt = s
	}
	if s, ok := meta["updatedAt"].(string); ok {
		f.Meta.UpdatedAt = s
	}

	vp := asObject(root["viewport"])
	f.Viewport = geom.Viewport{
		X:     numberOr(vp["x"], 0),
		Y:     numberOr(vp["y"], 0),
		Scale: geom.ClampScale(numberOr(vp["scale"], 1)),
	}

	for id, entry := range asObject(root["people"]) {
		p := normalizePerson(id, asObject(entry), opts)
		f.People[id] = &p
	}

	seen := make(map[[2]string]bool)
	list, _ := root["connections"].([]any)
	for _, entry := range list {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		c := normalizeConnection(obj, opts)
		if f.People[c.From] == nil || f.People[c.To] == nil || c.From == c.To {
			continue
		}
		key := model.PairKey(c.From, c.To)
		if seen[key] {
			continue
		}
		seen[key] = true
		f.Connections = append(f.Connections, c)
	}

	return f
}

func normalizePerson(id string, p map[string]any, opts Options) model.Person {
	pos := asObject(p["position"])
	out := model.NewPerson(id, numberOr(pos["x"], 0), numberOr(pos["y"], 0))

	out.Photos = stringList(p["photos"])
	out.Name = nullableString(p["name"])
	out.Surname = nullableString(p["surname"])
	out.Nickname = nullableString(p["nickname"])
	out.Birthday = nullableString(p["birthday"])
	out.City = nullableString(p["city"])

	out.Smokes = enum(p["smokes"], model.Ternary.IsValid, model.TernaryUnknown)
	out.Uses = enum(p["uses"], model.Ternary.IsValid, model.TernaryUnknown)
	out.Tattoos = enum(p["tattoos"], model.Ternary.IsValid, model.TernaryUnknown)
	out.Piercing = enum(p["piercing"], model.Ternary.IsValid, model.TernaryUnknown)
	out.Subculture = enum(p["subculture"], model.Subculture.IsValid, model.Unknown)
	out.Orientation = enum(p["orientation"], model.Orientation.IsValid, model.Unknown)
	out.Finance = enum(p["finance"], model.Finance.IsValid, model.Unknown)
	out.RelationshipStatus = enum(p["relationshipStatus"], model.RelationshipStatus.IsValid, model.Unknown)
	out.BodyType = enum(p["bodyType"], model.BodyType.IsValid, model.Unknown)
	out.EyeColor = enum(p["eyeColor"], model.EyeColor.IsValid, model.Unknown)
	out.HairLength = enum(p["hairLength"], model.HairLength.IsValid, model.Unknown)
	out.HairStyle = enum(p["hairStyle"], model.HairStyle.IsValid, model.Unknown)
	out.HairColor = enum(p["hairColor"], model.HairColor.IsValid, model.Unknown)

	out.HeightCm = nullableNumber(p["heightCm"])
	out.WeightKg = nullableNumber(p["weightKg"])

	out.Phone = nullableString(p["phone"])
	out.Email = nullableString(p["email"])
	out.Occupation = nullableString(p["occupation"])
	out.Tags = stringList(p["tags"])

	if list, ok := p["socials"].([]any); ok {
		for _, entry := range list {
			s, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			link := model.SocialLink{}
			if link.ID, ok = s["id"].(string); !ok {
				link.ID = opts.NewID()
			}
			link.Type, _ = s["type"].(string)
			link.Value, _ = s["value"].(string)
			out.Socials = append(out.Socials, link)
		}
	}

	out.Notes, _ = p["notes"].(string)
	return out
}

func normalizeConnection(c map[string]any, opts Options) model.Connection {
	out := model.Connection{}
	var ok bool
	if out.ID, ok = c["id"].(string); !ok {
		out.ID = opts.NewID()
	}
	out.From, _ = c["from"].(string)
	out.To, _ = c["to"].(string)
	out.Kind = enum(c["kind"], model.ConnectionKind.IsValid, model.KindAcquaintance)
	if out.Kind == model.KindFamily {
		out.FamilyRole = enum(c["familyRole"], model.FamilyRole.IsValid, "")
	}
	if out.Color, ok = c["color"].(string); !ok {
		out.Color = model.ConnectionColor(out.Kind, out.FamilyRole)
	}
	return out
}

func asObject(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func number(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func numberOr(v any, def float64) float64 {
	if f, ok := number(v); ok {
		return f
	}
	return def
}

func nullableNumber(v any) *float64 {
	if f, ok := number(v); ok {
		return &f
	}
	return nil
}

func nullableString(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func stringList(v any) []string {
	out := []string{}
	list, _ := v.([]any)
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func enum[T ~string](v any, valid func(T) bool, def T) T {
	if s, ok := v.(string); ok && valid(T(s)) {
		return T(s)
	}
	return def
}
