package cube

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// extLen is the length of the extension on cube filenames, e.g. ".bin".
const extLen = 4

// RedshiftFromFilename returns the redshift encoded in a C2Ray-style filename
// of the form <prefix>_<redshift><ext>, where <ext> is exactly four
// characters. For example, "xfrac3d_8.064.bin" has a redshift of 8.064. If
// the name doesn't follow this convention, UnknownRedshift is returned.
func RedshiftFromFilename(path string) float64 {
	tok := strings.Split(filepath.Base(path), "_")
	if len(tok) < 2 || len(tok[1]) <= extLen {
		return UnknownRedshift
	}

	num := tok[1][:len(tok[1])-extLen]
	// Hex floats such as 0x1p3 are not redshifts.
	if strings.ContainsAny(num, "xX") {
		return UnknownRedshift
	}

	z, err := strconv.ParseFloat(num, 64)
	if err != nil || !validRedshift(z) {
		return UnknownRedshift
	}
	return z
}

func validRedshift(z float64) bool {
	return z >= 0 && !math.IsInf(z, 0) && !math.IsNaN(z)
}
