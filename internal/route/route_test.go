package route

import (
	"regexp"
	"testing"

	"pgregory.net/rapid"
)

var routePattern = regexp.MustCompile(`^\d{1,3}:\d{1,3}E;\d{1,3}:\d{1,3}W$`)

func TestGenerateInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64Min(1).Draw(rt, "seed")
		r := Generate(NewRand(seed))
		for _, n := range []int{r.East[0], r.East[1], r.West[0], r.West[1]} {
			if n < Min || n > Max {
				rt.Fatalf("coordinate %d out of range", n)
			}
		}
		if !routePattern.MatchString(r.String()) {
			rt.Fatalf("unexpected format %q", r.String())
		}
	})
}

func TestParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		want := Generate(NewRand(rapid.Uint64Min(1).Draw(rt, "seed")))
		got, err := Parse(want.String())
		if err != nil {
			rt.Fatalf("parse: %v", err)
		}
		if got != want {
			rt.Fatalf("got %v want %v", got, want)
		}
	})
}

func TestSeededRandIsReproducible(t *testing.T) {
	a := Generate(NewRand(42)).String()
	b := Generate(NewRand(42)).String()
	if a != b {
		t.Fatalf("same seed produced %q and %q", a, b)
	}
}

func TestParse(t *testing.T) {
	r, err := Parse("34:43E;41:41W")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.East != [2]int{34, 43} || r.West != [2]int{41, 41} {
		t.Fatalf("unexpected route %+v", r)
	}
	for _, bad := range []string{"", "34:43E", "34:43W;41:41E", "0:43E;41:41W", "34:101E;41:41W", "a:1E;1:1W", "1-1E;1:1W"} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
