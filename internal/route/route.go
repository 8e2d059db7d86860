package route

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"
)

// Min and Max bound every coordinate of a generated route, inclusive.
const (
	Min = 1
	Max = 100
)

// Route is a pair of east and west coordinates.
type Route struct {
	East [2]int
	West [2]int
}

// String renders the route as "a:bE;c:dW".
func (r Route) String() string {
	return fmt.Sprintf("%d:%dE;%d:%dW", r.East[0], r.East[1], r.West[0], r.West[1])
}

// NewRand returns a PCG-backed source. A zero seed picks one from the wall clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate draws four independent coordinates in [Min, Max].
func Generate(rnd *rand.Rand) Route {
	draw := func() int { return Min + rnd.IntN(Max-Min+1) }
	var r Route
	r.East[0] = draw()
	r.East[1] = draw()
	r.West[0] = draw()
	r.West[1] = draw()
	return r
}

// Parse reads the "a:bE;c:dW" form produced by String.
func Parse(s string) (Route, error) {
	var r Route
	east, west, ok := strings.Cut(strings.TrimSpace(s), ";")
	if !ok {
		return r, fmt.Errorf("parse route %q: missing ';'", s)
	}
	var err error
	if r.East, err = parsePair(east, "E"); err != nil {
		return r, fmt.Errorf("parse route %q: %w", s, err)
	}
	if r.West, err = parsePair(west, "W"); err != nil {
		return r, fmt.Errorf("parse route %q: %w", s, err)
	}
	return r, nil
}

func parsePair(s, suffix string) ([2]int, error) {
	var pair [2]int
	body, ok := strings.CutSuffix(s, suffix)
	if !ok {
		return pair, fmt.Errorf("expected %s suffix in %q", suffix, s)
	}
	a, b, ok := strings.Cut(body, ":")
	if !ok {
		return pair, fmt.Errorf("expected ':' in %q", s)
	}
	for i, part := range []string{a, b} {
		n, err := strconv.Atoi(part)
		if err != nil {
			return pair, fmt.Errorf("coordinate %q: %w", part, err)
		}
		if n < Min || n > Max {
			return pair, fmt.Errorf("coordinate %d out of range [%d,%d]", n, Min, Max)
		}
		pair[i] = n
	}
	return pair, nil
}
