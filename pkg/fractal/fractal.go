// Package fractal ties the render, normalization and encoding steps into one
// run driven by Params.
package fractal

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/willbeason/escape-fractal/pkg/band"
	"github.com/willbeason/escape-fractal/pkg/codec"
	"github.com/willbeason/escape-fractal/pkg/escape"
	"github.com/willbeason/escape-fractal/pkg/grid"
	"github.com/willbeason/escape-fractal/pkg/gridio"
	"github.com/willbeason/escape-fractal/pkg/intensity"
	"github.com/willbeason/escape-fractal/pkg/render"
	"github.com/willbeason/escape-fractal/pkg/viewport"
)

//go:generate mockgen -destination=mock_encoder_test.go -package=fractal github.com/willbeason/escape-fractal/pkg/codec Encoder

var (
	ErrEncode = errors.New("encoding image")
	ErrDump   = errors.New("writing grid dump")
)

// Params fully describe one render. They are not modified while rendering.
type Params struct {
	Family escape.Family
	// C is the Julia constant; other families ignore it.
	C        complex128
	Viewport viewport.Viewport

	Rows, Columns int
	MaxIterations uint32
	Workers       int
	Remainder     band.Remainder

	Output string
	Invert bool

	// Optional extras; empty paths are skipped.
	Thumbnail     string
	ThumbnailSize uint
	Dump          string
	Report        string
}

const defaultThumbnailSize = 256

// DefaultParams returns the family's default framing with one worker.
func DefaultParams(f escape.Family) Params {
	preset := f.Preset()
	return Params{
		Family:        f,
		C:             preset.C,
		Viewport:      viewport.Viewport{UpperLeft: preset.UpperLeft, LowerRight: preset.LowerRight},
		Workers:       1,
		ThumbnailSize: defaultThumbnailSize,
	}
}

func (p Params) Job() (render.Job, error) {
	kernel, err := p.Family.Kernel(p.C)
	if err != nil {
		return render.Job{}, err
	}

	return render.Job{
		Kernel:        kernel,
		Viewport:      p.Viewport,
		Rows:          p.Rows,
		Columns:       p.Columns,
		MaxIterations: p.MaxIterations,
		Workers:       p.Workers,
		Remainder:     p.Remainder,
	}, nil
}

// Run renders p and writes the image with enc.
//
// Nothing is written if the render fails. A failed encode is reported as
// ErrEncode; the report is only written after a successful encode.
func Run(ctx context.Context, p Params, enc codec.Encoder) (*Report, error) {
	job, err := p.Job()
	if err != nil {
		return nil, err
	}

	logx.WithContext(ctx).Infow("rendering",
		logx.Field("fractal", p.Family.String()),
		logx.Field("rows", p.Rows),
		logx.Field("columns", p.Columns),
		logx.Field("maxIterations", p.MaxIterations),
		logx.Field("workers", p.Workers))

	result, err := render.Render(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("rendering %v: %w", p.Family, err)
	}

	if p.Dump != "" {
		if err := gridio.WriteFile(p.Dump, result.Grid); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrDump, p.Dump, err)
		}
		logx.WithContext(ctx).Infow("grid dumped", logx.Field("path", p.Dump))
	}

	start := time.Now()
	img, err := EncodeGrid(ctx, result.Grid, p.Invert, p.Output, enc)
	if err != nil {
		return nil, err
	}

	if p.Thumbnail != "" {
		size := p.ThumbnailSize
		if size == 0 {
			size = defaultThumbnailSize
		}
		thumb := codec.Thumbnail(img, size, size)
		if err := enc.Encode(p.Thumbnail, thumb); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrEncode, p.Thumbnail, err)
		}
	}

	report := NewReport(p, result, time.Since(start))
	if p.Report != "" {
		if err := report.WriteFile(p.Report); err != nil {
			return nil, fmt.Errorf("writing report %q: %w", p.Report, err)
		}
	}

	return report, nil
}

// EncodeGrid normalizes g to grayscale and hands it to enc.
func EncodeGrid(ctx context.Context, g *grid.Grid, invert bool, output string, enc codec.Encoder) (*image.Gray, error) {
	img := intensity.Normalize(g, invert)

	if err := enc.Encode(output, img); err != nil {
		logx.WithContext(ctx).Errorw("encoding failed",
			logx.Field("path", output),
			logx.Field("error", err.Error()))
		return nil, fmt.Errorf("%w %q: %w", ErrEncode, output, err)
	}

	logx.WithContext(ctx).Infow("image written", logx.Field("path", output))
	return img, nil
}
