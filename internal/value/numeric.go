package value

import (
	"math"
	"math/big"
)

// Cross-kind numeric equality (spec §4.4.2). int/uint/double compare equal
// when their mathematical values are equal; a negative int never equals a
// uint; NaN and infinities never equal an integer kind.
//
// Near the 2^63 boundary float64 can no longer represent every int64/uint64
// exactly, so a plain float64 comparison would misreport equality for the
// values spec.md §9's Open Question flags as the hard case. We resolve it
// by comparing in math/big whenever d is an integral, finite value; NaN,
// infinities and doubles with a fractional part are rejected before that
// path, but every integral double, small or large, takes it.
const bigFloatPrec = 128

func intEqualsUint(i int64, u uint64) bool {
	if i < 0 {
		return false
	}
	return uint64(i) == u
}

func intEqualsDouble(i int64, d float64) bool {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return false
	}
	if d != math.Trunc(d) {
		return false
	}
	bf := new(big.Float).SetPrec(bigFloatPrec).SetFloat64(d)
	bi := new(big.Float).SetPrec(bigFloatPrec).SetInt64(i)
	return bf.Cmp(bi) == 0
}

func uintEqualsDouble(u uint64, d float64) bool {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return false
	}
	if d < 0 {
		return false
	}
	if d != math.Trunc(d) {
		return false
	}
	bf := new(big.Float).SetPrec(bigFloatPrec).SetFloat64(d)
	bu := new(big.Float).SetPrec(bigFloatPrec).SetUint64(u)
	return bf.Cmp(bu) == 0
}
