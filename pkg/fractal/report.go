package fractal

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"

	"github.com/willbeason/escape-fractal/pkg/escape"
	"github.com/willbeason/escape-fractal/pkg/render"
	"github.com/willbeason/escape-fractal/pkg/viewport"
)

// Point is a complex number in a JSON friendly shape.
type Point struct {
	Re float64 `json:"re"`
	Im float64 `json:"im"`
}

func pointOf(z complex128) Point {
	return Point{Re: real(z), Im: imag(z)}
}

type Corners struct {
	UpperLeft  Point `json:"upper_left"`
	LowerRight Point `json:"lower_right"`
}

func cornersOf(v viewport.Viewport) Corners {
	return Corners{UpperLeft: pointOf(v.UpperLeft), LowerRight: pointOf(v.LowerRight)}
}

type BandReport struct {
	Index   int     `json:"index"`
	Start   int     `json:"start"`
	End     int     `json:"end"`
	Corners Corners `json:"corners"`
}

// Report summarizes a finished run.
type Report struct {
	Fractal       string       `json:"fractal"`
	C             *Point       `json:"c,omitempty"`
	Corners       Corners      `json:"corners"`
	Rows          int          `json:"rows"`
	Columns       int          `json:"columns"`
	MaxIterations uint32       `json:"max_iterations"`
	Workers       int          `json:"workers"`
	Remainder     string       `json:"remainder"`
	Bands         []BandReport `json:"bands"`

	// Lowest and Highest are the observed iteration range before normalization.
	Lowest  uint32 `json:"lowest_iteration"`
	Highest uint32 `json:"highest_iteration"`

	RenderMillis int64 `json:"render_ms"`
	EncodeMillis int64 `json:"encode_ms"`

	Output string `json:"output"`
	Invert bool   `json:"invert"`
}

func NewReport(p Params, result *render.Result, encode time.Duration) *Report {
	lo, hi := result.Grid.Range()

	r := &Report{
		Fractal:       p.Family.String(),
		Corners:       cornersOf(p.Viewport),
		Rows:          p.Rows,
		Columns:       p.Columns,
		MaxIterations: p.MaxIterations,
		Workers:       p.Workers,
		Remainder:     p.Remainder.String(),
		Lowest:        lo,
		Highest:       hi,
		RenderMillis:  result.Elapsed.Milliseconds(),
		EncodeMillis:  encode.Milliseconds(),
		Output:        p.Output,
		Invert:        p.Invert,
	}

	if p.Family == escape.FamilyJulia {
		c := pointOf(p.C)
		r.C = &c
	}

	for _, b := range result.Bands {
		r.Bands = append(r.Bands, BandReport{
			Index:   b.Index,
			Start:   b.Start,
			End:     b.End,
			Corners: cornersOf(b.Viewport),
		})
	}

	return r
}

func (r *Report) WriteFile(path string) error {
	data, err := sonic.ConfigStd.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	r := &Report{}
	if err := sonic.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}
