package model

// Lang is the UI and label language stored in the document meta.
type Lang string

const (
	LangRU Lang = "ru"
	LangEN Lang = "en"
)

// IsValid returns true if the language is supported
func (l Lang) IsValid() bool {
	return l == LangRU || l == LangEN
}

// Unknown is the shared "not filled in" value of every profile enum.
const Unknown = "unknown"

// Ternary is a yes/no/unknown answer
type Ternary string

const (
	Yes            Ternary = "yes"
	No             Ternary = "no"
	TernaryUnknown Ternary = Unknown
)

// IsValid returns true if the value is a recognized ternary
func (t Ternary) IsValid() bool {
	switch t {
	case Yes, No, TernaryUnknown:
		return true
	}
	return false
}

// Subculture is the style/scene a person belongs to
type Subculture string

// Subcultures lists every accepted subculture, unknown first.
var Subcultures = []Subculture{
	Unknown, "normal", "oldmoney", "punk", "alt", "goth", "emo", "metal",
	"hiphop", "raver", "grunge", "skater", "anime", "kpop", "cyber",
	"streetwear", "sport", "business", "boho", "artsy", "military", "skinhead",
}

// IsValid returns true if the subculture is known
func (s Subculture) IsValid() bool { return contains(Subcultures, s) }

type Orientation string

var Orientations = []Orientation{Unknown, "girls", "boys", "both"}

func (o Orientation) IsValid() bool { return contains(Orientations, o) }

type Finance string

var Finances = []Finance{Unknown, "low", "middle", "high"}

func (f Finance) IsValid() bool { return contains(Finances, f) }

type RelationshipStatus string

var RelationshipStatuses = []RelationshipStatus{
	Unknown, "single", "dating", "relationship", "married", "complicated",
}

func (r RelationshipStatus) IsValid() bool { return contains(RelationshipStatuses, r) }

type BodyType string

var BodyTypes = []BodyType{Unknown, "slim", "average", "athletic", "heavy"}

func (b BodyType) IsValid() bool { return contains(BodyTypes, b) }

type EyeColor string

var EyeColors = []EyeColor{Unknown, "brown", "blue", "green", "gray", "hazel", "other"}

func (e EyeColor) IsValid() bool { return contains(EyeColors, e) }

type HairLength string

var HairLengths = []HairLength{Unknown, "short", "medium", "long", "very_long", "bald"}

func (h HairLength) IsValid() bool { return contains(HairLengths, h) }

type HairStyle string

var HairStyles = []HairStyle{
	Unknown, "straight", "wavy", "curly", "dreads", "braids", "buzzcut", "undercut", "other",
}

func (h HairStyle) IsValid() bool { return contains(HairStyles, h) }

type HairColor string

var HairColors = []HairColor{Unknown, "blonde", "brown", "black", "red", "white", "colored", "other"}

func (h HairColor) IsValid() bool { return contains(HairColors, h) }

// ConnectionKind categorizes the relationship an edge represents
type ConnectionKind string

const (
	KindAcquaintance   ConnectionKind = "acquaintance"
	KindFriend         ConnectionKind = "friend"
	KindBestFriend     ConnectionKind = "best_friend"
	KindFamily         ConnectionKind = "family"
	KindInRelationship ConnectionKind = "in_relationship"
)

// ConnectionKinds is the order kinds are offered in pickers.
var ConnectionKinds = []ConnectionKind{
	KindAcquaintance, KindFriend, KindBestFriend, KindFamily, KindInRelationship,
}

// IsValid returns true if the kind is recognized
func (k ConnectionKind) IsValid() bool { return contains(ConnectionKinds, k) }

// FamilyRole qualifies a family connection
type FamilyRole string

const (
	RoleBrother FamilyRole = "brother"
	RoleSister  FamilyRole = "sister"
	RoleMother  FamilyRole = "mother"
	RoleFather  FamilyRole = "father"
)

var FamilyRoles = []FamilyRole{RoleBrother, RoleSister, RoleMother, RoleFather}

// IsValid returns true if the role is recognized
func (r FamilyRole) IsValid() bool { return contains(FamilyRoles, r) }

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// ConnectionColor returns the stroke color for a connection of the given
// kind and (for family) role. Kinds without a color of their own share
// the family amber.
func ConnectionColor(kind ConnectionKind, role FamilyRole) string {
	switch kind {
	case KindAcquaintance:
		return "#a855f7"
	case KindFriend:
		return "#38bdf8"
	case KindBestFriend:
		return "#22c55e"
	}
	switch role {
	case RoleMother:
		return "#ef4444"
	case RoleFather:
		return "#f59e0b"
	case RoleBrother:
		return "#fb923c"
	case RoleSister:
		return "#f472b6"
	}
	return "#f59e0b"
}
