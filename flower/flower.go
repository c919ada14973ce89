// Package flower defines the value types exchanged in a courtship game:
// flowers with a size, color and type, bouquets built from them and the
// per-round inventory of available flowers.
package flower

import (
	"fmt"
	"strings"
)

// MaxBouquetSize is the largest number of flowers a single bouquet may hold.
const MaxBouquetSize = 12

// Size of a flower.
type Size uint8

const (
	Small Size = iota
	Medium
	Large
)

// Color of a flower.
type Color uint8

const (
	White Color = iota
	Yellow
	Red
	Purple
	Orange
	Blue
)

// Type is the species of a flower.
type Type uint8

const (
	Rose Type = iota
	Chrysanthemum
	Tulip
	Begonia
)

// Number of values in each attribute domain.
const (
	NumSizes  = 3
	NumColors = 6
	NumTypes  = 4
)

var (
	sizeNames  = [NumSizes]string{"small", "medium", "large"}
	colorNames = [NumColors]string{"white", "yellow", "red", "purple", "orange", "blue"}
	typeNames  = [NumTypes]string{"rose", "chrysanthemum", "tulip", "begonia"}
)

func (s Size) String() string {
	if int(s) < NumSizes {
		return sizeNames[s]
	}
	return fmt.Sprintf("size(%d)", uint8(s))
}

func (c Color) String() string {
	if int(c) < NumColors {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

func (t Type) String() string {
	if int(t) < NumTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// Sizes returns every size in declaration order.
func Sizes() []Size { return []Size{Small, Medium, Large} }

// Colors returns every color in declaration order.
func Colors() []Color { return []Color{White, Yellow, Red, Purple, Orange, Blue} }

// Types returns every type in declaration order.
func Types() []Type { return []Type{Rose, Chrysanthemum, Tulip, Begonia} }

// Attribute names one of the three flower axes.
type Attribute uint8

const (
	AttrColor Attribute = iota
	AttrType
	AttrSize
)

// Attributes returns the axes in experiment priority order.
func Attributes() []Attribute { return []Attribute{AttrColor, AttrType, AttrSize} }

func (a Attribute) String() string {
	switch a {
	case AttrColor:
		return "color"
	case AttrType:
		return "type"
	case AttrSize:
		return "size"
	default:
		return fmt.Sprintf("attribute(%d)", uint8(a))
	}
}

// Cardinality returns how many values the attribute can take.
func (a Attribute) Cardinality() int {
	switch a {
	case AttrColor:
		return NumColors
	case AttrType:
		return NumTypes
	case AttrSize:
		return NumSizes
	default:
		return 0
	}
}

// Flower is one item category. There is no identity beyond the three
// attributes, so Flower is comparable and usable as a map key.
type Flower struct {
	Size  Size
	Color Color
	Type  Type
}

// New builds a flower from its attributes.
func New(size Size, color Color, typ Type) Flower {
	return Flower{Size: size, Color: color, Type: typ}
}

// Value returns the flower's value on the given axis as an index.
func (f Flower) Value(a Attribute) int {
	switch a {
	case AttrColor:
		return int(f.Color)
	case AttrType:
		return int(f.Type)
	default:
		return int(f.Size)
	}
}

// With returns a copy of f with the given axis set to v.
func (f Flower) With(a Attribute, v int) Flower {
	switch a {
	case AttrColor:
		f.Color = Color(v)
	case AttrType:
		f.Type = Type(v)
	default:
		f.Size = Size(v)
	}
	return f
}

// Valid reports whether every attribute is inside its domain.
func (f Flower) Valid() bool {
	return int(f.Size) < NumSizes && int(f.Color) < NumColors && int(f.Type) < NumTypes
}

// Index returns a dense index in [0, NumCategories) ordered by color, type, size.
func (f Flower) Index() int {
	return (int(f.Color)*NumTypes+int(f.Type))*NumSizes + int(f.Size)
}

// NumCategories is the number of distinct flowers.
const NumCategories = NumColors * NumTypes * NumSizes

// FromIndex is the inverse of Flower.Index.
func FromIndex(i int) Flower {
	size := i % NumSizes
	i /= NumSizes
	typ := i % NumTypes
	color := i / NumTypes
	return Flower{Size: Size(size), Color: Color(color), Type: Type(typ)}
}

// String renders the flower as "size-color-type", e.g. "small-red-rose".
func (f Flower) String() string {
	return f.Size.String() + "-" + f.Color.String() + "-" + f.Type.String()
}

// Parse reads a flower in the form produced by Flower.String.
func Parse(s string) (Flower, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "-")
	if len(parts) != 3 {
		return Flower{}, fmt.Errorf("flower %q: want size-color-type", s)
	}
	size, ok := lookup(sizeNames[:], parts[0])
	if !ok {
		return Flower{}, fmt.Errorf("flower %q: unknown size %q", s, parts[0])
	}
	color, ok := lookup(colorNames[:], parts[1])
	if !ok {
		return Flower{}, fmt.Errorf("flower %q: unknown color %q", s, parts[1])
	}
	typ, ok := lookup(typeNames[:], parts[2])
	if !ok {
		return Flower{}, fmt.Errorf("flower %q: unknown type %q", s, parts[2])
	}
	return Flower{Size: Size(size), Color: Color(color), Type: Type(typ)}, nil
}

func lookup(names []string, s string) (int, bool) {
	for i, name := range names {
		if name == s {
			return i, true
		}
	}
	return 0, false
}
