package model

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/connections/pkg/geom"
)

// SocialLink is one contact handle (telegram, instagram, a URL, ...).
type SocialLink struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Person is a node on the canvas
type Person struct {
	ID       string    `json:"id"`
	Position geom.Vec2 `json:"position"`

	Photos []string `json:"photos"`

	Name     *string `json:"name"`
	Surname  *string `json:"surname"`
	Nickname *string `json:"nickname"`
	Birthday *string `json:"birthday"`
	City     *string `json:"city"`

	Smokes             Ternary            `json:"smokes"`
	Uses               Ternary            `json:"uses"`
	Subculture         Subculture         `json:"subculture"`
	Orientation        Orientation        `json:"orientation"`
	Finance            Finance            `json:"finance"`
	RelationshipStatus RelationshipStatus `json:"relationshipStatus"`

	HeightCm   *float64   `json:"heightCm"`
	WeightKg   *float64   `json:"weightKg"`
	BodyType   BodyType   `json:"bodyType"`
	EyeColor   EyeColor   `json:"eyeColor"`
	HairLength HairLength `json:"hairLength"`
	HairStyle  HairStyle  `json:"hairStyle"`
	HairColor  HairColor  `json:"hairColor"`
	Tattoos    Ternary    `json:"tattoos"`
	Piercing   Ternary    `json:"piercing"`

	Phone      *string      `json:"phone"`
	Email      *string      `json:"email"`
	Occupation *string      `json:"occupation"`
	Tags       []string     `json:"tags"`
	Socials    []SocialLink `json:"socials"`

	Notes string `json:"notes"`
}

// NewPerson returns a person with every profile field at its default.
func NewPerson(id string, x, y float64) Person {
	return Person{
		ID:                 id,
		Position:           geom.Vec2{X: x, Y: y},
		Photos:             []string{},
		Smokes:             TernaryUnknown,
		Uses:               TernaryUnknown,
		Subculture:         Unknown,
		Orientation:        Unknown,
		Finance:            Unknown,
		RelationshipStatus: Unknown,
		BodyType:           Unknown,
		EyeColor:           Unknown,
		HairLength:         Unknown,
		HairStyle:          Unknown,
		HairColor:          Unknown,
		Tattoos:            TernaryUnknown,
		Piercing:           TernaryUnknown,
		Tags:               []string{},
		Socials:            []SocialLink{},
	}
}

// Clone creates a deep copy of the person
func (p Person) Clone() Person {
	clone := p
	clone.Name = cloneStr(p.Name)
	clone.Surname = cloneStr(p.Surname)
	clone.Nickname = cloneStr(p.Nickname)
	clone.Birthday = cloneStr(p.Birthday)
	clone.City = cloneStr(p.City)
	clone.Phone = cloneStr(p.Phone)
	clone.Email = cloneStr(p.Email)
	clone.Occupation = cloneStr(p.Occupation)
	if p.HeightCm != nil {
		v := *p.HeightCm
		clone.HeightCm = &v
	}
	if p.WeightKg != nil {
		v := *p.WeightKg
		clone.WeightKg = &v
	}
	// Empty lists stay non-nil so they are saved as [] rather than null.
	if p.Photos != nil {
		clone.Photos = make([]string, len(p.Photos))
		copy(clone.Photos, p.Photos)
	}
	if p.Tags != nil {
		clone.Tags = make([]string, len(p.Tags))
		copy(clone.Tags, p.Tags)
	}
	if p.Socials != nil {
		clone.Socials = make([]SocialLink, len(p.Socials))
		copy(clone.Socials, p.Socials)
	}
	return clone
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Validate checks that every enum holds a recognized value
func (p *Person) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("person ID cannot be empty")
	}
	for name, ok := range map[string]bool{
		"smokes":             p.Smokes.IsValid(),
		"uses":               p.Uses.IsValid(),
		"tattoos":            p.Tattoos.IsValid(),
		"piercing":           p.Piercing.IsValid(),
		"subculture":         p.Subculture.IsValid(),
		"orientation":        p.Orientation.IsValid(),
		"finance":            p.Finance.IsValid(),
		"relationshipStatus": p.RelationshipStatus.IsValid(),
		"bodyType":           p.BodyType.IsValid(),
		"eyeColor":           p.EyeColor.IsValid(),
		"hairLength":         p.HairLength.IsValid(),
		"hairStyle":          p.HairStyle.IsValid(),
		"hairColor":          p.HairColor.IsValid(),
	} {
		if !ok {
			return fmt.Errorf("person %s: invalid %s", p.ID, name)
		}
	}
	return nil
}

// DisplayName is the label drawn under a node: "Name Surname", falling
// back to the nickname, then to the empty string.
func (p *Person) DisplayName() string {
	full := strings.TrimSpace(deref(p.Name) + " " + deref(p.Surname))
	if full == "" {
		full = deref(p.Nickname)
	}
	return full
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Field is an optional value in a patch: Set reports whether it applies.
type Field[T any] struct {
	Set   bool
	Value T
}

// Val builds a Field that applies v.
func Val[T any](v T) Field[T] { return Field[T]{Set: true, Value: v} }

// PersonPatch is a shallow partial update. Unset fields are left alone.
type PersonPatch struct {
	Name       Field[*string]
	Surname    Field[*string]
	Nickname   Field[*string]
	Birthday   Field[*string]
	City       Field[*string]
	Phone      Field[*string]
	Email      Field[*string]
	Occupation Field[*string]
	Notes      Field[string]

	Smokes             Field[Ternary]
	Uses               Field[Ternary]
	Tattoos            Field[Ternary]
	Piercing           Field[Ternary]
	Subculture         Field[Subculture]
	Orientation        Field[Orientation]
	Finance            Field[Finance]
	RelationshipStatus Field[RelationshipStatus]
	BodyType           Field[BodyType]
	EyeColor           Field[EyeColor]
	HairLength         Field[HairLength]
	HairStyle          Field[HairStyle]
	HairColor          Field[HairColor]

	HeightCm Field[*float64]
	WeightKg Field[*float64]
	Tags     Field[[]string]
}

// Empty reports whether the patch changes nothing.
func (pp PersonPatch) Empty() bool {
	for _, set := range []bool{
		pp.Name.Set, pp.Surname.Set, pp.Nickname.Set, pp.Birthday.Set, pp.City.Set,
		pp.Phone.Set, pp.Email.Set, pp.Occupation.Set, pp.Notes.Set,
		pp.Smokes.Set, pp.Uses.Set, pp.Tattoos.Set, pp.Piercing.Set,
		pp.Subculture.Set, pp.Orientation.Set, pp.Finance.Set, pp.RelationshipStatus.Set,
		pp.BodyType.Set, pp.EyeColor.Set, pp.HairLength.Set, pp.HairStyle.Set, pp.HairColor.Set,
		pp.HeightCm.Set, pp.WeightKg.Set, pp.Tags.Set,
	} {
		if set {
			return false
		}
	}
	return true
}

// Apply merges the set fields of the patch into p.
func (pp PersonPatch) Apply(p *Person) {
	applyField(&p.Name, pp.Name, cloneStr)
	applyField(&p.Surname, pp.Surname, cloneStr)
	applyField(&p.Nickname, pp.Nickname, cloneStr)
	applyField(&p.Birthday, pp.Birthday, cloneStr)
	applyField(&p.City, pp.City, cloneStr)
	applyField(&p.Phone, pp.Phone, cloneStr)
	applyField(&p.Email, pp.Email, cloneStr)
	applyField(&p.Occupation, pp.Occupation, cloneStr)
	applyField(&p.Notes, pp.Notes, nil)
	applyField(&p.Smokes, pp.Smokes, nil)
	applyField(&p.Uses, pp.Uses, nil)
	applyField(&p.Tattoos, pp.Tattoos, nil)
	applyField(&p.Piercing, pp.Piercing, nil)
	applyField(&p.Subculture, pp.Subculture, nil)
	applyField(&p.Orientation, pp.Orientation, nil)
	applyField(&p.Finance, pp.Finance, nil)
	applyField(&p.RelationshipStatus, pp.RelationshipStatus, nil)
	applyField(&p.BodyType, pp.BodyType, nil)
	applyField(&p.EyeColor, pp.EyeColor, nil)
	applyField(&p.HairLength, pp.HairLength, nil)
	applyField(&p.HairStyle, pp.HairStyle, nil)
	applyField(&p.HairColor, pp.HairColor, nil)
	applyField(&p.HeightCm, pp.HeightCm, func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		c := *v
		return &c
	})
	applyField(&p.WeightKg, pp.WeightKg, func(v *float64) *float64 {
		if v == nil {
			return nil
		}
		c := *v
		return &c
	})
	applyField(&p.Tags, pp.Tags, func(v []string) []string {
		return append([]string{}, v...)
	})
}

func applyField[T any](dst *T, f Field[T], copyFn func(T) T) {
	if !f.Set {
		return
	}
	if copyFn != nil {
		*dst = copyFn(f.Value)
		return
	}
	*dst = f.Value
}

// StrPtr is a convenience for building nullable string fields.
func StrPtr(s string) *string { return &s }
