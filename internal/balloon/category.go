package balloon

import (
	"fmt"
	"strings"
)

type Category uint8

const (
	None Category = iota
	Work
	Personal
)

// Shape is the outline a front end draws for a category.
type Shape uint8

const (
	ShapeRound Shape = iota
	ShapeTag
	ShapeHeart
)

var categoryNames = [...]string{"none", "work", "personal"}

var palettes = [...][]string{
	None:     {"#FFB7CE", "#BFFCC6", "#C5B4E3", "#FAD5A5"},
	Work:     {"#A7C7E7", "#B5EAD7", "#C7CEEA", "#9AD1D4"},
	Personal: {"#FF9AA2", "#FFDAC1", "#F8C8DC", "#E2B6CF"},
}

// ParseCategory accepts the lowercase name; the empty string means none.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return None, nil
	}
	for i, name := range categoryNames {
		if s == name {
			return Category(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func Categories() []Category { return []Category{None, Work, Personal} }

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// Palette lists the colors a new balloon of this category may take.
func (c Category) Palette() []string {
	if int(c) < len(palettes) {
		return palettes[c]
	}
	return palettes[None]
}

func (c Category) Shape() Shape {
	switch c {
	case Work:
		return ShapeTag
	case Personal:
		return ShapeHeart
	default:
		return ShapeRound
	}
}

// Weighted categories hang a visual weight under the balloon and must not
// spin, so their bodies get infinite rotational inertia.
func (c Category) Weighted() bool {
	return c == Work || c == Personal
}

// InPalette reports whether color is one of the category's colors.
func (c Category) InPalette(color string) bool {
	for _, p := range c.Palette() {
		if strings.EqualFold(p, color) {
			return true
		}
	}
	return false
}
