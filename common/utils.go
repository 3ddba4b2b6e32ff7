package common

// Number is the set of numeric types accepted by the rate helpers.
type Number interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// PositiveOr returns v when it is greater than zero, otherwise fallback.
// Rates and sizes read from documents use it so that a missing or negative value
// falls back to the configured default.
//
// Parameters:
//   - v: the candidate value
//   - fallback: the value used when v <= 0
//
// Returns:
//   - T: v or fallback
func PositiveOr[T Number](v, fallback T) T {
	if v > 0 {
		return v
	}
	return fallback
}
