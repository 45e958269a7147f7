// Package render fills a grid with escape iterations using one goroutine per band.
package render

import (
	"context"
	"errors"
	"fmt"
	"runtime/trace"
	"time"

	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/sync/errgroup"

	"github.com/willbeason/escape-fractal/pkg/band"
	"github.com/willbeason/escape-fractal/pkg/escape"
	"github.com/willbeason/escape-fractal/pkg/grid"
	"github.com/willbeason/escape-fractal/pkg/viewport"
)

var (
	ErrInvalidJob          = errors.New("invalid render job")
	ErrWorkerPanic         = errors.New("render worker panicked")
	ErrNonFiniteCoordinate = errors.New("non-finite coordinate")
)

// A Job is everything needed to compute one grid.
type Job struct {
	Kernel   escape.Kernel
	Viewport viewport.Viewport

	Rows, Columns int
	MaxIterations uint32

	// Workers is the number of bands, and so the number of goroutines.
	// It is not capped by GOMAXPROCS.
	Workers   int
	Remainder band.Remainder
}

func (j Job) Validate() error {
	switch {
	case j.Kernel == nil:
		return fmt.Errorf("%w: no kernel", ErrInvalidJob)
	case j.Rows < 1:
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidJob, j.Rows)
	case j.Columns < 1:
		return fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidJob, j.Columns)
	case j.MaxIterations == 0:
		return fmt.Errorf("%w: max iterations must be positive", ErrInvalidJob)
	case j.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidJob, j.Workers)
	case !grid.Fits(j.Rows, j.Columns):
		return fmt.Errorf("%w: %d×%d exceeds %d cells", ErrInvalidJob, j.Rows, j.Columns, grid.MaxCells)
	}

	if err := j.Viewport.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}
	return nil
}

type Result struct {
	Grid    *grid.Grid
	Bands   []band.Band
	Elapsed time.Duration
}

// Render computes every band of job concurrently and waits for all of them.
//
// The first worker to fail stops the others at their next row, and Render
// returns that error without a grid.
func Render(ctx context.Context, job Job) (*Result, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	bands, err := band.Partition(job.Viewport, job.Rows, job.Workers, job.Remainder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	if covered := band.Covered(bands); covered < job.Rows {
		logx.WithContext(ctx).Infow("rows left unrendered by remainder policy",
			logx.Field("rows", job.Rows-covered),
			logx.Field("policy", job.Remainder.String()))
	}

	if empty := band.Empty(bands); empty > 0 && job.Remainder == band.RemainderLast {
		logx.WithContext(ctx).Infow("more workers than rows, last band renders every row in its own strip",
			logx.Field("emptyBands", empty),
			logx.Field("rows", job.Rows),
			logx.Field("workers", job.Workers))
	}

	g := grid.New(job.Rows, job.Columns)

	// Spans are cut before any goroutine starts; each worker owns its span.
	spans := make([][]uint32, len(bands))
	for i, b := range bands {
		spans[i] = g.Span(b.Start, b.End)
	}

	start := time.Now()
	group, groupCtx := errgroup.WithContext(ctx)
	for i, b := range bands {
		b := b
		cells := spans[i]
		group.Go(func() error {
			return renderBand(groupCtx, job, b, cells)
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	logx.WithContext(ctx).WithDuration(elapsed).Infow("bands joined",
		logx.Field("bands", len(bands)),
		logx.Field("rows", job.Rows),
		logx.Field("columns", job.Columns))

	return &Result{Grid: g, Bands: bands, Elapsed: elapsed}, nil
}

func renderBand(ctx context.Context, job Job, b band.Band, cells []uint32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: band %d: %v", ErrWorkerPanic, b.Index, r)
		}
	}()

	logger := logx.WithContext(ctx)
	logger.Debugw("band started",
		logx.Field("band", b.Index),
		logx.Field("start", b.Start),
		logx.Field("end", b.End))

	trace.WithRegion(ctx, "band", func() {
		err = fillBand(ctx, job, b, cells)
	})
	if err != nil {
		return err
	}

	logger.Debugw("band finished", logx.Field("band", b.Index))
	return nil
}

func fillBand(ctx context.Context, job Job, b band.Band, cells []uint32) error {
	rows, columns := b.Rows(), job.Columns
	mapper := b.Viewport.Mapper(rows, columns)

	for r := 0; r < rows; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		row := cells[r*columns : (r+1)*columns]
		for c := range row {
			z := mapper.Point(r, c)
			if !viewport.Finite(z) {
				return fmt.Errorf("%w: band %d row %d column %d: %v",
					ErrNonFiniteCoordinate, b.Index, b.Start+r, c, z)
			}
			row[c] = job.Kernel.Compute(job.MaxIterations, z)
		}
	}

	return nil
}
