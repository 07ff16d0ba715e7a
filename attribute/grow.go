package attribute

// growTo returns the slice capacity to grow to when a map needs to hold at
// least minLen slots, starting from cur. Rounding to the next power of two
// amortizes repeated Put calls that register one new slot at a time,
// adapted from the teacher's shard-sizing helper (internal/util/pow2.go in
// the reference repo), repurposed here for per-entry attribute growth
// instead of shard-count sizing.
func growTo(cur, minLen int) int {
	if minLen <= cur {
		return cur
	}
	n := nextPow2(uint64(minLen))
	if n < 8 {
		n = 8
	}
	return int(n)
}

func nextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	if x == 0 {
		return 1 << 63
	}
	return x
}
