package theme

type RGB [3]uint8

// Palette is an ordered color ramp sampled by normalized position.
type Palette struct {
	Name   string
	Colors []RGB
}

// Heat is the built-in value ramp: cold blue through teal and amber up
// to hot orange. Grid cells sample it by value/127.
func Heat() *Palette {
	return &Palette{
		Name: "heat",
		Colors: []RGB{
			{36, 48, 94},
			{46, 87, 130},
			{58, 128, 150},
			{98, 168, 144},
			{168, 196, 116},
			{226, 202, 86},
			{244, 158, 60},
			{240, 96, 44},
		},
	}
}

// Lookup returns interpolated color for normalized value 0-1
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	// Find the two colors to interpolate between
	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	c0 := p.Colors[i]
	c1 := p.Colors[i+1]

	return RGB{
		lerp(c0[0], c1[0], frac),
		lerp(c0[1], c1[1], frac),
		lerp(c0[2], c1[2], frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

// Index returns color at specific index (no interpolation)
func (p *Palette) Index(i int) RGB {
	if i < 0 {
		return p.Colors[0]
	}
	if i >= len(p.Colors) {
		return p.Colors[len(p.Colors)-1]
	}
	return p.Colors[i]
}
