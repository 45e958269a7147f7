package render

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/willbeason/escape-fractal/pkg/band"
	"github.com/willbeason/escape-fractal/pkg/escape"
	"github.com/willbeason/escape-fractal/pkg/viewport"
)

func TestMain(m *testing.M) {
	logx.Disable()
	os.Exit(m.Run())
}

var mandelbrot = viewport.Viewport{UpperLeft: -2 + 1i, LowerRight: 1 - 1i}

func job(workers int) Job {
	return Job{
		Kernel:        escape.Mandelbrot{},
		Viewport:      mandelbrot,
		Rows:          48,
		Columns:       64,
		MaxIterations: 200,
		Workers:       workers,
	}
}

func TestRender_BandCoordinates(t *testing.T) {
	j := Job{
		Kernel:        escape.Mandelbrot{},
		Viewport:      mandelbrot,
		Rows:          4,
		Columns:       3,
		MaxIterations: 100,
		Workers:       2,
	}

	result, err := Render(context.Background(), j)
	if err != nil {
		t.Fatal(err)
	}

	// Each band maps its two rows onto its own strip, so the seam row
	// imaginary value appears in both bands.
	ims := []float64{1, 0, 0, -1}
	res := []float64{-2, -0.5, 1}
	for r, im := range ims {
		for c, re := range res {
			want := escape.Mandelbrot{}.Compute(j.MaxIterations, complex(re, im))
			if got := result.Grid.At(r, c); got != want {
				t.Errorf("cell (%d, %d) = %d, want %d", r, c, got, want)
			}
		}
	}
}

func TestRender_SingleWorkerMatchesMapper(t *testing.T) {
	j := job(1)
	result, err := Render(context.Background(), j)
	if err != nil {
		t.Fatal(err)
	}

	m := mandelbrot.Mapper(j.Rows, j.Columns)
	for r := 0; r < j.Rows; r++ {
		for c := 0; c < j.Columns; c++ {
			want := j.Kernel.Compute(j.MaxIterations, m.Point(r, c))
			if got := result.Grid.At(r, c); got != want {
				t.Fatalf("cell (%d, %d) = %d, want %d", r, c, got, want)
			}
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	for _, workers := range []int{1, 3, 4, 7, 48} {
		first, err := Render(context.Background(), job(workers))
		if err != nil {
			t.Fatal(err)
		}
		second, err := Render(context.Background(), job(workers))
		if err != nil {
			t.Fatal(err)
		}
		if !first.Grid.Equal(second.Grid) {
			t.Errorf("workers=%d: renders differ", workers)
		}
	}
}

type countingKernel struct {
	calls *atomic.Int64
}

func (k countingKernel) Compute(uint32, complex128) uint32 {
	k.calls.Add(1)
	return 1
}

func TestRender_EveryCellOnce(t *testing.T) {
	tcs := []struct {
		name      string
		rows      int
		workers   int
		policy    band.Remainder
		wantCalls int64
	}{
		{name: "even split", rows: 12, workers: 4, wantCalls: 12 * 5},
		{name: "remainder to last band", rows: 13, workers: 4, wantCalls: 13 * 5},
		{name: "remainder dropped", rows: 13, workers: 4, policy: band.RemainderDrop, wantCalls: 12 * 5},
		{name: "oversubscribed", rows: 3, workers: 8, wantCalls: 3 * 5},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			calls := &atomic.Int64{}
			result, err := Render(context.Background(), Job{
				Kernel:        countingKernel{calls: calls},
				Viewport:      mandelbrot,
				Rows:          tc.rows,
				Columns:       5,
				MaxIterations: 10,
				Workers:       tc.workers,
				Remainder:     tc.policy,
			})
			if err != nil {
				t.Fatal(err)
			}
			if got := calls.Load(); got != tc.wantCalls {
				t.Errorf("kernel called %d times, want %d", got, tc.wantCalls)
			}

			rendered := int64(0)
			for _, v := range result.Grid.Cells {
				rendered += int64(v)
			}
			if rendered != tc.wantCalls {
				t.Errorf("%d cells written, want %d", rendered, tc.wantCalls)
			}
		})
	}
}

func TestRender_DroppedRowsStayZero(t *testing.T) {
	j := job(5)
	j.Rows = 23
	j.Kernel = countingKernel{calls: &atomic.Int64{}}
	j.Remainder = band.RemainderDrop

	result, err := Render(context.Background(), j)
	if err != nil {
		t.Fatal(err)
	}
	for r := 20; r < j.Rows; r++ {
		for _, v := range result.Grid.Row(r) {
			if v != 0 {
				t.Fatalf("dropped row %d was rendered", r)
			}
		}
	}
}

type panicKernel struct{}

func (panicKernel) Compute(_ uint32, z complex128) uint32 {
	if imag(z) < 0 {
		panic("kernel failure")
	}
	return 1
}

func TestRender_WorkerFailure(t *testing.T) {
	t.Run("panic", func(t *testing.T) {
		j := job(4)
		j.Kernel = panicKernel{}

		result, err := Render(context.Background(), j)
		if !errors.Is(err, ErrWorkerPanic) {
			t.Fatalf("got %v, want ErrWorkerPanic", err)
		}
		if result != nil {
			t.Error("got a partial result")
		}
	})

	t.Run("non-finite coordinate", func(t *testing.T) {
		j := job(2)
		j.Viewport = viewport.Viewport{UpperLeft: -1e308 + 1e308i, LowerRight: 1e308 - 1e308i}

		result, err := Render(context.Background(), j)
		if !errors.Is(err, ErrNonFiniteCoordinate) {
			t.Fatalf("got %v, want ErrNonFiniteCoordinate", err)
		}
		if result != nil {
			t.Error("got a partial result")
		}
	})
}

func TestJob_Validate(t *testing.T) {
	tcs := []struct {
		name   string
		modify func(*Job)
	}{
		{name: "no kernel", modify: func(j *Job) { j.Kernel = nil }},
		{name: "no rows", modify: func(j *Job) { j.Rows = 0 }},
		{name: "no columns", modify: func(j *Job) { j.Columns = -1 }},
		{name: "no iterations", modify: func(j *Job) { j.MaxIterations = 0 }},
		{name: "no workers", modify: func(j *Job) { j.Workers = 0 }},
		{name: "inverted viewport", modify: func(j *Job) {
			j.Viewport = viewport.Viewport{UpperLeft: 1 - 1i, LowerRight: -2 + 1i}
		}},
		{name: "bad remainder", modify: func(j *Job) { j.Remainder = band.Remainder(5) }},
		{name: "too many cells", modify: func(j *Job) {
			j.Rows = 1 << 32
			j.Columns = 1 << 32
		}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			j := job(2)
			tc.modify(&j)

			_, err := Render(context.Background(), j)
			if !errors.Is(err, ErrInvalidJob) {
				t.Errorf("got %v, want ErrInvalidJob", err)
			}
		})
	}
}
