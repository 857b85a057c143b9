package engine

// scriptedRand replays fixed values. Once a script is exhausted the last value
// repeats; an empty script yields 0.5, 0 and 0.
type scriptedRand struct {
	floats     []float64
	norms      []float64
	ints       []int
	fi, ni, ii int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[min(r.fi, len(r.floats)-1)]
	r.fi++
	return v
}

func (r *scriptedRand) NormFloat64() float64 {
	if len(r.norms) == 0 {
		return 0
	}
	v := r.norms[min(r.ni, len(r.norms)-1)]
	r.ni++
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[min(r.ii, len(r.ints)-1)]
	r.ii++
	return v % n
}
