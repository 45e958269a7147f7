// Package config merges an optional TOML file with command-line flags into
// render parameters.
//
// Flags set on the command line win over the file; the file wins over flag
// defaults. File keys use the flag names, for example:
//
//	fractal = "julia"
//	rows = 1080
//	columns = 1920
//	max-iterations = 500
//	workers = 8
//	output = "out/julia.png"
//	c = "dendrite"
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/spf13/pflag"

	"github.com/willbeason/escape-fractal/pkg/band"
	"github.com/willbeason/escape-fractal/pkg/escape"
	"github.com/willbeason/escape-fractal/pkg/fractal"
)

var (
	ErrMissingRequired = errors.New("rows, columns, max-iterations and output are all required")
	ErrInvalid         = errors.New("invalid configuration")
)

// Flag names, shared with the config file keys.
const (
	FlagFractal       = "fractal"
	FlagRows          = "rows"
	FlagColumns       = "columns"
	FlagMaxIterations = "max-iterations"
	FlagWorkers       = "workers"
	FlagOutput        = "output"
	FlagInvert        = "invert"
	FlagRemainder     = "remainder"
	FlagC             = "c"
	FlagUpperLeft     = "upper-left"
	FlagLowerRight    = "lower-right"
	FlagThumbnail     = "thumbnail"
	FlagThumbnailSize = "thumbnail-size"
	FlagDump          = "dump"
	FlagReport        = "report"
	FlagJPEGQuality   = "jpeg-quality"
)

type Config struct {
	Fractal       string `koanf:"fractal"`
	Rows          int    `koanf:"rows"`
	Columns       int    `koanf:"columns"`
	MaxIterations int64  `koanf:"max-iterations"`
	Workers       int    `koanf:"workers"`
	Output        string `koanf:"output"`
	Invert        bool   `koanf:"invert"`
	Remainder     string `koanf:"remainder"`

	C          string `koanf:"c"`
	UpperLeft  string `koanf:"upper-left"`
	LowerRight string `koanf:"lower-right"`

	Thumbnail     string `koanf:"thumbnail"`
	ThumbnailSize uint   `koanf:"thumbnail-size"`
	Dump          string `koanf:"dump"`
	Report        string `koanf:"report"`
	JPEGQuality   int    `koanf:"jpeg-quality"`
}

// RegisterFlags adds the render flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagFractal, "mandelbrot", "fractal to render: mandelbrot, julia or burning_ship")
	fs.Int(FlagRows, 0, "number of rows in the grid (required)")
	fs.Int(FlagColumns, 0, "number of columns in the grid (required)")
	fs.Int64(FlagMaxIterations, 0, "maximum number of iterations per point (required)")
	fs.Int(FlagWorkers, 1, "number of bands rendered in parallel")
	fs.String(FlagOutput, "", "output image path, .png or .jpg (required)")
	fs.Bool(FlagInvert, false, "invert the grayscale ramp")
	fs.String(FlagRemainder, "last", "rows left over by uneven bands: last or drop")
	fs.String(FlagC, "", "Julia constant, e.g. -0.8+0.156i, or one of default, dendrite, siegel")
	fs.String(FlagUpperLeft, "", "upper-left corner, e.g. -2+1i (default depends on fractal)")
	fs.String(FlagLowerRight, "", "lower-right corner, e.g. 1-1i (default depends on fractal)")
	fs.String(FlagThumbnail, "", "also write a downscaled preview to this path")
	fs.Uint(FlagThumbnailSize, 256, "largest side of the preview in pixels")
	fs.String(FlagDump, "", "also write the raw iteration grid to this path")
	fs.String(FlagReport, "", "also write a JSON render report to this path")
	fs.Int(FlagJPEGQuality, 0, "JPEG quality 1-100; 0 uses the encoder default")
}

// Load reads path, if set, and overlays the flags that were set explicitly.
func Load(fs *pflag.FlagSet, path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Config{}, fmt.Errorf("loading %q: %w", path, err)
		}
	}

	if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
		return Config{}, fmt.Errorf("loading flags: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return c, nil
}

func parseComplex(name, s string) (complex128, error) {
	z, err := strconv.ParseComplex(strings.TrimSpace(s), 128)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a complex number", ErrInvalid, name, s)
	}
	return z, nil
}

func (c Config) missing() []string {
	var missing []string
	if c.Rows == 0 {
		missing = append(missing, FlagRows)
	}
	if c.Columns == 0 {
		missing = append(missing, FlagColumns)
	}
	if c.MaxIterations == 0 {
		missing = append(missing, FlagMaxIterations)
	}
	if c.Output == "" {
		missing = append(missing, FlagOutput)
	}
	return missing
}

// Params validates c and converts it to render parameters.
func (c Config) Params() (fractal.Params, error) {
	if missing := c.missing(); len(missing) > 0 {
		return fractal.Params{}, fmt.Errorf("%w: missing %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	switch {
	case c.Rows < 0:
		return fractal.Params{}, fmt.Errorf("%w: rows must be positive, got %d", ErrInvalid, c.Rows)
	case c.Columns < 0:
		return fractal.Params{}, fmt.Errorf("%w: columns must be positive, got %d", ErrInvalid, c.Columns)
	case c.MaxIterations < 0 || c.MaxIterations > int64(^uint32(0)):
		return fractal.Params{}, fmt.Errorf("%w: max-iterations out of range: %d", ErrInvalid, c.MaxIterations)
	case c.Workers < 1:
		return fractal.Params{}, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalid, c.Workers)
	case c.JPEGQuality < 0 || c.JPEGQuality > 100:
		return fractal.Params{}, fmt.Errorf("%w: jpeg-quality must be within 0-100, got %d", ErrInvalid, c.JPEGQuality)
	}

	family, err := escape.ParseFamily(c.Fractal)
	if err != nil {
		return fractal.Params{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	remainder, err := band.ParseRemainder(c.Remainder)
	if err != nil {
		return fractal.Params{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	p := fractal.DefaultParams(family)
	p.Rows = c.Rows
	p.Columns = c.Columns
	p.MaxIterations = uint32(c.MaxIterations)
	p.Workers = c.Workers
	p.Remainder = remainder
	p.Output = c.Output
	p.Invert = c.Invert
	p.Thumbnail = c.Thumbnail
	p.Dump = c.Dump
	p.Report = c.Report
	if c.ThumbnailSize > 0 {
		p.ThumbnailSize = c.ThumbnailSize
	}

	if c.C != "" {
		if named, ok := escape.JuliaConstants[strings.ToLower(c.C)]; ok {
			p.C = named
		} else if p.C, err = parseComplex(FlagC, c.C); err != nil {
			return fractal.Params{}, err
		}
	}

	if c.UpperLeft != "" {
		if p.Viewport.UpperLeft, err = parseComplex(FlagUpperLeft, c.UpperLeft); err != nil {
			return fractal.Params{}, err
		}
	}
	if c.LowerRight != "" {
		if p.Viewport.LowerRight, err = parseComplex(FlagLowerRight, c.LowerRight); err != nil {
			return fractal.Params{}, err
		}
	}
	if err := p.Viewport.Validate(); err != nil {
		return fractal.Params{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return p, nil
}
