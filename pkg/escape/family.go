package escape

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFamily = errors.New("unknown fractal family")

type Family int

const (
	FamilyMandelbrot Family = iota
	FamilyJulia
	FamilyBurningShip
)

var familyNames = map[Family]string{
	FamilyMandelbrot:  "mandelbrot",
	FamilyJulia:       "julia",
	FamilyBurningShip: "burning_ship",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// ParseFamily accepts the command-line names mandelbrot, julia and burning_ship.
func ParseFamily(name string) (Family, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range familyNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
}

// Well-known Julia constants.
const (
	JuliaDefault  complex128 = -0.8 + 0.156i
	JuliaDendrite complex128 = -0.7269 + 0.1889i
	JuliaSiegel   complex128 = 0.285 + 0i
)

// JuliaConstants names the constants accepted in place of a literal C.
var JuliaConstants = map[string]complex128{
	"default":  JuliaDefault,
	"dendrite": JuliaDendrite,
	"siegel":   JuliaSiegel,
}

// Preset is the default framing of a family.
type Preset struct {
	UpperLeft  complex128
	LowerRight complex128
	// C is only meaningful for Julia.
	C complex128
}

// Preset returns a copy of the family's defaults.
func (f Family) Preset() Preset {
	switch f {
	case FamilyJulia:
		return Preset{UpperLeft: -1.5 + 1i, LowerRight: 1.5 - 1i, C: JuliaDefault}
	case FamilyBurningShip:
		return Preset{UpperLeft: -2.5 + 1i, LowerRight: 1.0 - 1i}
	default:
		return Preset{UpperLeft: -2.0 + 1i, LowerRight: 1.0 - 1i}
	}
}

// Kernel selects the family's kernel. c is ignored by every family except Julia.
func (f Family) Kernel(c complex128) (Kernel, error) {
	switch f {
	case FamilyMandelbrot:
		return Mandelbrot{}, nil
	case FamilyJulia:
		return Julia{C: c}, nil
	case FamilyBurningShip:
		return BurningShip{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownFamily, f)
	}
}
