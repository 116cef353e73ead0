package sanitizer

// NonNegative clamps amounts such as denda and jumlah at zero.
func NonNegative[T ~int | ~int64](n T) T {
	if n < 0 {
		return 0
	}
	return n
}
