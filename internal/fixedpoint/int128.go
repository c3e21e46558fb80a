package fixedpoint

import (
	"fmt"
	"math"
	"math/bits"
)

// two64 is 2^64 as a float64, used to split and join the high and low words.
const two64 = 18446744073709551616.0

// Int128 is a 128-bit signed integer in two's complement, stored as a high
// and a low 64-bit word. Addition is exact; there is no overflow detection.
// Values whose magnitude exceeds 2^127-1 are a caller precondition violation.
type Int128 struct {
	Hi int64
	Lo uint64
}

func FromInt64(v int64) Int128 {
	return Int128{Hi: v >> 63, Lo: uint64(v)}
}

// FromFloat64 truncates f toward zero, matching a C integer cast. NaN maps
// to zero.
func FromFloat64(f float64) Int128 {
	if math.IsNaN(f) {
		return Int128{}
	}
	neg := math.Signbit(f)
	f = math.Trunc(math.Abs(f))

	var v Int128
	if f < two64 {
		v = Int128{Lo: uint64(f)}
	} else {
		hi := math.Trunc(f / two64)
		v = Int128{Hi: int64(hi), Lo: uint64(f - hi*two64)}
	}
	if neg {
		v = v.Neg()
	}
	return v
}

// Float64 returns the nearest float64. Readout is lossy above 2^53; the
// integer value itself is never modified.
func (a Int128) Float64() float64 {
	hi, lo := uint64(a.Hi), a.Lo
	sign := 1.0
	if a.Hi < 0 {
		sign = -1
		var borrow uint64
		lo, borrow = bits.Sub64(0, lo, 0)
		hi = -hi - borrow
	}
	return sign * (float64(hi)*two64 + float64(lo))
}

func (a Int128) Add(b Int128) Int128 {
	lo, carry := bits.Add64(a.Lo, b.Lo, 0)
	return Int128{Hi: int64(uint64(a.Hi) + uint64(b.Hi) + carry), Lo: lo}
}

func (a Int128) Sub(b Int128) Int128 {
	lo, borrow := bits.Sub64(a.Lo, b.Lo, 0)
	return Int128{Hi: int64(uint64(a.Hi) - uint64(b.Hi) - borrow), Lo: lo}
}

func (a Int128) Neg() Int128 {
	return Int128{}.Sub(a)
}

func (a Int128) IsZero() bool {
	return a.Hi == 0 && a.Lo == 0
}

// Sign returns -1, 0 or 1.
func (a Int128) Sign() int {
	switch {
	case a.Hi < 0:
		return -1
	case a.Hi == 0 && a.Lo == 0:
		return 0
	default:
		return 1
	}
}

func (a Int128) String() string {
	return fmt.Sprintf("int128(%#016x_%016x)", uint64(a.Hi), a.Lo)
}
