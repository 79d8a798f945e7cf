package pt

import (
	"fmt"
	"strconv"
)

// Shape is the badge outline a line label is drawn in.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeRounded
	ShapeCircle
)

// Style carries the cosmetic colors of a line badge. Parsed from the
// wire where backends deliver them, otherwise taken from the per-product
// defaults.
type Style struct {
	Shape            Shape
	BackgroundColor  int
	BackgroundColor2 int
	ForegroundColor  int
	BorderColor      int
}

// Common ARGB colors.
const (
	ColorBlack       = 0xff000000
	ColorDkGray      = 0xff444444
	ColorGray        = 0xff888888
	ColorLtGray      = 0xffcccccc
	ColorWhite       = 0xffffffff
	ColorRed         = 0xffff0000
	ColorGreen       = 0xff00ff00
	ColorBlue        = 0xff0000ff
	ColorYellow      = 0xffffff00
	ColorTransparent = 0
)

// ParseColor parses "#rrggbb" or "#aarrggbb" into an ARGB int.
func ParseColor(s string) (int, error) {
	if len(s) == 0 || s[0] != '#' {
		return 0, fmt.Errorf("pt: unknown color %q", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("pt: unknown color %q", s)
	}
	switch len(s) {
	case 7: // #rrggbb: set alpha to opaque
		return int(v) | 0xff000000, nil
	case 9: // #aarrggbb
		return int(int32(uint32(v))), nil
	}
	return 0, fmt.Errorf("pt: unknown color %q", s)
}

func mustColor(s string) int {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// PerceivedBrightness weighs the RGB channels of an ARGB color per the
// W3C color-contrast formula, yielding a value in [0,1).
func PerceivedBrightness(color int) float64 {
	r := float64((color >> 16) & 0xff)
	g := float64((color >> 8) & 0xff)
	b := float64(color & 0xff)
	return (0.299*r + 0.587*g + 0.114*b) / 256
}

// DeriveForegroundColor picks white text on dark backgrounds and black
// text on light ones.
func DeriveForegroundColor(backgroundColor int) int {
	if PerceivedBrightness(backgroundColor) < 0.5 {
		return ColorWhite
	}
	return ColorBlack
}

// defaultStyles is the fallback badge style per product.
var defaultStyles = map[Product]Style{
	HighSpeedTrain: {Shape: ShapeRect, BackgroundColor: ColorWhite, ForegroundColor: ColorRed, BorderColor: ColorRed},
	RegionalTrain:  {Shape: ShapeRect, BackgroundColor: ColorGray, ForegroundColor: ColorWhite},
	SuburbanTrain:  {Shape: ShapeCircle, BackgroundColor: mustColor("#006e34"), ForegroundColor: ColorWhite},
	Subway:         {Shape: ShapeRect, BackgroundColor: mustColor("#003090"), ForegroundColor: ColorWhite},
	Tram:           {Shape: ShapeRect, BackgroundColor: mustColor("#cc0000"), ForegroundColor: ColorWhite},
	Bus:            {BackgroundColor: mustColor("#993399"), ForegroundColor: ColorWhite},
	OnDemand:       {BackgroundColor: mustColor("#00695c"), ForegroundColor: ColorWhite},
	Ferry:          {BackgroundColor: ColorBlue, ForegroundColor: ColorWhite, Shape: ShapeCircle},
	ProductUnknown: {BackgroundColor: ColorDkGray, ForegroundColor: ColorWhite},
}

// DefaultStyle returns the fallback style of a product.
func DefaultStyle(p Product) Style {
	if s, ok := defaultStyles[p]; ok {
		return s
	}
	return defaultStyles[ProductUnknown]
}
