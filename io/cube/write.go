package cube

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/batchatco/go-thrower"
)

// Write writes c to path in the given precision. The resulting file can be
// read back by Read and by the Fortran codes that produce cube files.
func Write(path string, c *Cube, prec Precision) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("%w: %w", ErrIO, cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if err = WriteTo(w, c, prec); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}

// WriteTo writes c to w. The reserved header slots hold the Fortran record
// markers of the dimension block and the payload block, and the payload is
// followed by its closing record marker.
func WriteTo(w io.Writer, c *Cube, prec Precision) (err error) {
	defer thrower.RecoverError(&err)

	marker := payloadMarker(c.Len(), prec)
	hd := header{
		12, int32(c.Dims[0]), int32(c.Dims[1]), int32(c.Dims[2]), 12, marker,
	}
	mustWrite(w, &hd)

	n := c.Len()
	switch prec {
	case Single:
		buf := make([]float32, n)
		toColumnMajor(c.Dims, c.Values.Elements, func(i int, x float64) {
			buf[i] = float32(x)
		})
		mustWrite(w, buf)
	case Double:
		buf := make([]float64, n)
		toColumnMajor(c.Dims, c.Values.Elements, func(i int, x float64) {
			buf[i] = x
		})
		mustWrite(w, buf)
	default:
		panic(fmt.Sprintf("Unrecognized cube precision %d.", int(prec)))
	}

	mustWrite(w, marker)
	return nil
}

// payloadMarker returns the Fortran record marker for a payload of n
// elements. Payloads too large for a 32-bit marker get 0.
func payloadMarker(n int, prec Precision) int32 {
	bytes := n * prec.Size()
	if bytes > math.MaxInt32 {
		return 0
	}
	return int32(bytes)
}

// toColumnMajor is the inverse of fromColumnMajor.
func toColumnMajor(dims [3]int, in []float64, set func(i int, x float64)) {
	nx, ny, nz := dims[0], dims[1], dims[2]
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				set(i+nx*(j+ny*k), in[(i*ny+j)*nz+k])
			}
		}
	}
}

func mustWrite(w io.Writer, data any) {
	if err := binary.Write(w, Order, data); err != nil {
		thrower.Throw(fmt.Errorf("%w: %w", ErrIO, err))
	}
}
