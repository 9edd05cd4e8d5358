package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
)

// palette is the default series colour cycle.
var palette = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
}

// namedColors holds the CSS colour names used by the catalog.
var namedColors = map[string]color.RGBA{
	"skyblue":    {R: 135, G: 206, B: 235, A: 255},
	"lightcoral": {R: 240, G: 128, B: 128, A: 255},
	"orange":     {R: 255, G: 165, B: 0, A: 255},
	"steelblue":  {R: 70, G: 130, B: 180, A: 255},
	"seagreen":   {R: 46, G: 139, B: 87, A: 255},
	"gray":       {R: 128, G: 128, B: 128, A: 255},
	"red":        {R: 255, A: 255},
	"green":      {G: 128, A: 255},
	"blue":       {B: 255, A: 255},
}

// ParseColor resolves a catalog colour. Empty names select palette entry i.
func ParseColor(name string, i int) (color.Color, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return palette[i%len(palette)], nil
	}
	if c, ok := namedColors[name]; ok {
		return c, nil
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err == nil {
			return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
		}
	}
	return nil, fmt.Errorf("unknown colour %q", name)
}

// plainTicks labels value-axis ticks in fixed notation, never as 1e+06.
type plainTicks struct{}

func (plainTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = PlainLabel(ticks[i].Value)
		}
	}
	return ticks
}

// PlainLabel formats v without exponent notation, trimming float noise from tick arithmetic.
func PlainLabel(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', 12, 64), 64)
	if err != nil {
		r = v
	}
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
