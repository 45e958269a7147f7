package escape

import (
	"errors"
	"testing"
)

func TestKernels(t *testing.T) {
	tcs := []struct {
		name          string
		kernel        Kernel
		maxIterations uint32
		z             complex128
		want          uint32
	}{
		{name: "mandelbrot origin is in the set", kernel: Mandelbrot{}, maxIterations: 1000, z: 0, want: 0},
		{name: "mandelbrot far point escapes at once", kernel: Mandelbrot{}, maxIterations: 1000, z: 2 + 2i, want: 1},
		{name: "mandelbrot period two", kernel: Mandelbrot{}, maxIterations: 1000, z: -1, want: 0},
		{name: "mandelbrot one", kernel: Mandelbrot{}, maxIterations: 1000, z: 1, want: 3},
		{name: "mandelbrot one below cap", kernel: Mandelbrot{}, maxIterations: 2, z: 1, want: 0},
		{name: "mandelbrot i", kernel: Mandelbrot{}, maxIterations: 1000, z: 1i, want: 0},
		{name: "julia seed outside radius", kernel: Julia{C: JuliaDefault}, maxIterations: 1000, z: 3, want: 0},
		{name: "julia bounded seed", kernel: Julia{}, maxIterations: 1000, z: 0.5, want: 0},
		{name: "julia escaping seed", kernel: Julia{}, maxIterations: 1000, z: 1.5, want: 1},
		{name: "burning ship origin", kernel: BurningShip{}, maxIterations: 1000, z: 0, want: 0},
		{name: "burning ship far point", kernel: BurningShip{}, maxIterations: 1000, z: 2 + 2i, want: 1},
		{name: "burning ship i", kernel: BurningShip{}, maxIterations: 1000, z: 1i, want: 3},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.kernel.Compute(tc.maxIterations, tc.z)
			if got != tc.want {
				t.Errorf("Compute(%d, %v) = %d, want %d", tc.maxIterations, tc.z, got, tc.want)
			}
		})
	}
}

func TestParseFamily(t *testing.T) {
	tcs := []struct {
		name    string
		want    Family
		wantErr error
	}{
		{name: "mandelbrot", want: FamilyMandelbrot},
		{name: "julia", want: FamilyJulia},
		{name: "burning_ship", want: FamilyBurningShip},
		{name: " Julia ", want: FamilyJulia},
		{name: "newton", wantErr: ErrUnknownFamily},
		{name: "", wantErr: ErrUnknownFamily},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseFamily(tc.name)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got error %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFamily_String(t *testing.T) {
	for f, name := range familyNames {
		parsed, err := ParseFamily(f.String())
		if err != nil {
			t.Fatal(err)
		}
		if parsed != f || f.String() != name {
			t.Errorf("round trip of %q gave %v", name, parsed)
		}
	}

	if got := Family(42).String(); got != "Family(42)" {
		t.Errorf("got %q", got)
	}
}

func TestFamily_Kernel(t *testing.T) {
	k, err := FamilyJulia.Kernel(JuliaSiegel)
	if err != nil {
		t.Fatal(err)
	}
	if j, ok := k.(Julia); !ok || j.C != JuliaSiegel {
		t.Errorf("got %#v, want Julia with C=%v", k, JuliaSiegel)
	}

	if _, ok := mustKernel(t, FamilyMandelbrot).(Mandelbrot); !ok {
		t.Error("mandelbrot family did not select the Mandelbrot kernel")
	}
	if _, ok := mustKernel(t, FamilyBurningShip).(BurningShip); !ok {
		t.Error("burning_ship family did not select the BurningShip kernel")
	}

	if _, err := Family(7).Kernel(0); !errors.Is(err, ErrUnknownFamily) {
		t.Errorf("got %v, want ErrUnknownFamily", err)
	}
}

func mustKernel(t *testing.T, f Family) Kernel {
	t.Helper()
	k, err := f.Kernel(0)
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func TestFamily_Preset(t *testing.T) {
	tcs := []struct {
		family Family
		want   Preset
	}{
		{family: FamilyMandelbrot, want: Preset{UpperLeft: -2 + 1i, LowerRight: 1 - 1i}},
		{family: FamilyJulia, want: Preset{UpperLeft: -1.5 + 1i, LowerRight: 1.5 - 1i, C: -0.8 + 0.156i}},
		{family: FamilyBurningShip, want: Preset{UpperLeft: -2.5 + 1i, LowerRight: 1 - 1i}},
	}

	for _, tc := range tcs {
		t.Run(tc.family.String(), func(t *testing.T) {
			if got := tc.family.Preset(); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
