package engine

import "math/rand/v2"

// Words is the fixed guessing vocabulary. Selection is uniform and has no
// memory, so back-to-back repeats are possible.
var Words = []string{
	"cat",
	"dog",
	"house",
	"tree",
	"car",
	"sun",
	"moon",
	"phone",
	"pizza",
	"star",
}

var pickWord = func() string {
	return Words[rand.IntN(len(Words))]
}
