// Package gridio stores raw iteration grids as zstd-compressed dumps so they
// can be re-encoded without rendering again.
package gridio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/willbeason/escape-fractal/pkg/grid"
)

var ErrBadHeader = errors.New("not an iteration grid dump")

const version = 1

var magic = [4]byte{'E', 'S', 'C', 'G'}

type header struct {
	Magic   [4]byte
	Version uint32
	Rows    uint32
	Columns uint32
}

// Write streams g to w.
func Write(w io.Writer, g *grid.Grid) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(enc)
	h := header{Magic: magic, Version: version, Rows: uint32(g.Rows), Columns: uint32(g.Columns)}
	if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
		enc.Close()
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, g.Cells); err != nil {
		enc.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}

	return enc.Close()
}

// Read decodes a grid written by Write.
func Read(r io.Reader) (*grid.Grid, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)

	var h header
	if err := binary.Read(br, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadHeader, err)
	}
	if h.Magic != magic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadHeader, h.Magic[:])
	}
	if h.Version != version {
		return nil, fmt.Errorf("%w: version %d", ErrBadHeader, h.Version)
	}

	if !grid.Fits(int(h.Rows), int(h.Columns)) {
		return nil, fmt.Errorf("%w: %d×%d", ErrBadHeader, h.Rows, h.Columns)
	}

	g := grid.New(int(h.Rows), int(h.Columns))
	if err := binary.Read(br, binary.LittleEndian, g.Cells); err != nil {
		return nil, fmt.Errorf("reading %d×%d cells: %w", h.Rows, h.Columns, err)
	}

	return g, nil
}

func WriteFile(path string, g *grid.Grid) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	return Write(f, g)
}

func ReadFile(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}
