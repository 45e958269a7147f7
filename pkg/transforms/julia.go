package transforms

// Julia2 iterates z² + C for a fixed C; the sampled point is the seed.
type Julia2 struct {
	C complex128
}

func (j Julia2) Next(z complex128) complex128 {
	return z*z + j.C
}
