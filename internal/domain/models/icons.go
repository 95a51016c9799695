// internal/domain/models/icons.go
package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Icon is the closed set of category icons. Clients map each key to a glyph.
type Icon string

const (
	IconUnknown       Icon = "unknown"
	IconShopping      Icon = "shopping"
	IconFood          Icon = "food"
	IconTransport     Icon = "transport"
	IconHouse         Icon = "house"
	IconEntertainment Icon = "entertainment"
	IconHealth        Icon = "health"
	IconEducation     Icon = "education"
	IconWork          Icon = "work"
	IconGift          Icon = "gift"
	IconSavings       Icon = "savings"
	IconInvestment    Icon = "investment"
	IconIncome        Icon = "income"
	IconSalary        Icon = "salary"
)

// IsValid reports whether i is one of the listed icons. IconUnknown is
// a fallback, not a choice.
func (i Icon) IsValid() bool {
	switch i {
	case IconShopping, IconFood, IconTransport, IconHouse,
		IconEntertainment, IconHealth, IconEducation, IconWork,
		IconGift, IconSavings, IconInvestment, IconIncome, IconSalary:
		return true
	}
	return false
}

// ParseIcon resolves s case-insensitively; unknown names give IconUnknown.
func ParseIcon(s string) Icon {
	if i := Icon(strings.ToLower(strings.TrimSpace(s))); i.IsValid() {
		return i
	}
	return IconUnknown
}

// UnmarshalBSONValue resolves stored values so legacy or hand-edited icon
// names decode to IconUnknown instead of an out-of-set value.
func (i *Icon) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	s, _ := bson.RawValue{Type: t, Value: data}.StringValueOK()
	*i = ParseIcon(s)
	return nil
}

// Color is a category color stored as a hex value.
type Color string

const (
	ColorDefault Color = "#6B7280"
	ColorRed     Color = "#EF4444"
	ColorOrange  Color = "#F97316"
	ColorAmber   Color = "#F59E0B"
	ColorYellow  Color = "#EAB308"
	ColorGreen   Color = "#22C55E"
	ColorEmerald Color = "#10B981"
	ColorTeal    Color = "#14B8A6"
	ColorBlue    Color = "#3B82F6"
	ColorIndigo  Color = "#6366F1"
	ColorPurple  Color = "#A855F7"
	ColorPink    Color = "#EC4899"
)

// IsValid reports whether c is a palette color. ColorDefault is the
// fallback and is not offered as a choice.
func (c Color) IsValid() bool {
	switch c {
	case ColorRed, ColorOrange, ColorAmber, ColorYellow, ColorGreen, ColorEmerald,
		ColorTeal, ColorBlue, ColorIndigo, ColorPurple, ColorPink:
		return true
	}
	return false
}

// colorNamed maps a palette name to its color.
func colorNamed(name string) (Color, bool) {
	switch name {
	case "red":
		return ColorRed, true
	case "orange":
		return ColorOrange, true
	case "amber":
		return ColorAmber, true
	case "yellow":
		return ColorYellow, true
	case "green":
		return ColorGreen, true
	case "emerald":
		return ColorEmerald, true
	case "teal":
		return ColorTeal, true
	case "blue":
		return ColorBlue, true
	case "indigo":
		return ColorIndigo, true
	case "purple":
		return ColorPurple, true
	case "pink":
		return ColorPink, true
	}
	return "", false
}

// ParseColor accepts a palette name ("teal") or its hex value in any case.
// Anything else gives ColorDefault.
func ParseColor(s string) Color {
	s = strings.TrimSpace(s)
	if c, ok := colorNamed(strings.ToLower(s)); ok {
		return c
	}
	if c := Color(strings.ToUpper(s)); c.IsValid() {
		return c
	}
	return ColorDefault
}

func (c *Color) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	s, _ := bson.RawValue{Type: t, Value: data}.StringValueOK()
	if s == "" {
		*c = ""
		return nil
	}
	*c = ParseColor(s)
	return nil
}
