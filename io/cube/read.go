package cube

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/batchatco/go-thrower"
	"github.com/ctessum/sparse"
)

// Order is the byte order of all cube files.
var Order binary.ByteOrder = binary.LittleEndian

const (
	headerLen = 6 // int32 values in the header

	// Only indices 1, 2, 3 of the header are read. The others are Fortran
	// record markers.
	headerDimStart = 1

	maxCells = math.MaxInt / 8

	// payloadChunk is the number of cells decoded per read. A stream shorter
	// than its header declares fails before the whole grid is allocated.
	payloadChunk = 1 << 16
)

// header is the on-disk layout of a cube header.
type header [headerLen]int32

// Read reads the cube file at path. The precision must match the precision
// the file was written with, since it isn't stored in the file itself.
func Read(path string, prec Precision) (*Cube, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	c, err := readFrom(bufio.NewReader(f), prec, info.Size())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	c.Path = path
	c.Redshift = RedshiftFromFilename(path)
	return c, nil
}

// ReadFrom reads a cube from r. The returned Cube has no path and an unknown
// redshift. Bytes following the payload are not consumed.
func ReadFrom(r io.Reader, prec Precision) (*Cube, error) {
	return readFrom(r, prec, -1)
}

// readFrom reads a cube from r. A non-negative size is the number of bytes r
// holds, and a header declaring more than that is rejected up front.
func readFrom(r io.Reader, prec Precision, size int64) (c *Cube, err error) {
	defer thrower.RecoverError(&err)

	hd := &header{}
	mustRead(r, hd, "header")

	dims, n := hd.dims()
	if size >= 0 {
		want := int64(headerLen*4) + int64(n)*int64(prec.Size())
		if size < want {
			thrower.Throw(fmt.Errorf(
				"%w: %d bytes is shorter than the %d x %d x %d grid declared (%d bytes)",
				ErrFormat, size, dims[0], dims[1], dims[2], want,
			))
		}
	}

	raw := readPayload(r, prec, n)
	values := sparse.ZerosDense(dims[0], dims[1], dims[2])
	fromColumnMajor(dims, values.Elements, func(i int) float64 {
		return raw[i]
	})

	return &Cube{
		Dims: dims, Values: values,
		Redshift: UnknownRedshift, Precision: prec,
	}, nil
}

// readPayload decodes n values of the given precision in column-major order.
// The result only grows as data arrives.
func readPayload(r io.Reader, prec Precision, n int) []float64 {
	raw := make([]float64, 0, min(n, payloadChunk))

	switch prec {
	case Single:
		buf := make([]float32, min(n, payloadChunk))
		for len(raw) < n {
			chunk := buf[:min(n-len(raw), len(buf))]
			mustRead(r, chunk, "payload")
			for _, v := range chunk {
				raw = append(raw, float64(v))
			}
		}
	case Double:
		buf := make([]float64, min(n, payloadChunk))
		for len(raw) < n {
			chunk := buf[:min(n-len(raw), len(buf))]
			mustRead(r, chunk, "payload")
			raw = append(raw, chunk...)
		}
	default:
		panic(fmt.Sprintf("Unrecognized cube precision %d.", int(prec)))
	}

	return raw
}

// dims returns the grid dimensions stored in the header and the total number
// of cells. It throws ErrFormat if the dimensions are unusable.
func (hd *header) dims() (dims [3]int, n int) {
	n = 1
	for i := range dims {
		d := hd[headerDimStart+i]
		if d <= 0 {
			thrower.Throw(fmt.Errorf(
				"%w: header dimension %d is %d", ErrFormat, i, d,
			))
		}
		dims[i] = int(d)
		if n > maxCells/dims[i] {
			thrower.Throw(fmt.Errorf(
				"%w: grid %d x %d x %d is too large",
				ErrFormat, hd[1], hd[2], hd[3],
			))
		}
		n *= dims[i]
	}
	return dims, n
}

// fromColumnMajor fills the row-major array out with the column-major values
// returned by at.
func fromColumnMajor(dims [3]int, out []float64, at func(i int) float64) {
	nx, ny, nz := dims[0], dims[1], dims[2]
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				out[(i*ny+j)*nz+k] = at(i + nx*(j+ny*k))
			}
		}
	}
}

// mustRead reads data from r, throwing ErrFormat on a short read.
func mustRead(r io.Reader, data any, block string) {
	err := binary.Read(r, Order, data)
	switch {
	case err == nil:
		return
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		thrower.Throw(fmt.Errorf("%w: truncated %s", ErrFormat, block))
	default:
		thrower.Throw(fmt.Errorf("%w: %w", ErrIO, err))
	}
}
