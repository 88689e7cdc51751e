package runtime

import "math/big"

// IsNumeric reports whether v is int, float or bool (bools promote to 0/1
// in arithmetic, matching the host language).
func IsNumeric(v Value) bool {
	switch v.(type) {
	case Int, Float, Bool:
		return true
	}
	return false
}

// AsFloat widens a numeric value to float64.
func AsFloat(v Value) (float64, bool) {
	switch t := v.(type) {
	case Int:
		f := new(big.Float).SetInt(t.V)
		out, _ := f.Float64()
		return out, true
	case Float:
		return float64(t), true
	case Bool:
		if t {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// AsBigInt widens a value to *big.Int; ok is false for floats.
func AsBigInt(v Value) (*big.Int, bool) {
	switch t := v.(type) {
	case Int:
		return t.V, true
	case Bool:
		if t {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	}
	return nil, false
}

// BothIntegral reports whether a and b are both integral (int or bool), in
// which case integer arithmetic (not float promotion) applies.
func BothIntegral(a, b Value) bool {
	_, aok := AsBigInt(a)
	_, bok := AsBigInt(b)
	return aok && bok
}
