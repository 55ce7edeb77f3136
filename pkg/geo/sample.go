package geo

import (
	"math/rand/v2"

	"github.com/fogleman/poissondisc"
	"github.com/paulmach/orb"
)

// attemptFactor bounds rejection sampling at n*attemptFactor draws so
// sliver polygons cannot spin forever. Well-formed county polygons accept
// well before the cap.
const attemptFactor = 100

// Sampler draws uniformly distributed random points inside region
// geometry via rejection sampling against the bounding box.
//
// A Sampler is not safe for concurrent use; each goroutine should own one.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a sampler seeded with seed for reproducible runs.
// A zero seed draws the seed from the process-level source instead.
func NewSampler(seed uint64) *Sampler {
	if seed == 0 {
		return &Sampler{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0xdeadbeef))}
}

// Sample returns up to n points, each strictly inside r's polygon
// geometry. Total draws are capped at n*100, so the result may be shorter
// than n for pathologically thin regions; a short result is valid
// truncation, not an error.
func (s *Sampler) Sample(r *Region, n int) []orb.Point {
	if n <= 0 {
		return nil
	}
	b := r.Bound()
	w := b.Max.X() - b.Min.X()
	h := b.Max.Y() - b.Min.Y()

	pts := make([]orb.Point, 0, n)
	for attempts := 0; len(pts) < n && attempts < n*attemptFactor; attempts++ {
		pt := orb.Point{
			b.Min.X() + s.rng.Float64()*w,
			b.Min.Y() + s.rng.Float64()*h,
		}
		if r.Contains(pt) {
			pts = append(pts, pt)
		}
	}
	return pts
}

// SampleOne returns a single point inside r, or ok=false if the attempt
// cap was hit before a point was accepted.
func (s *Sampler) SampleOne(r *Region) (orb.Point, bool) {
	pts := s.Sample(r, 1)
	if len(pts) == 0 {
		return orb.Point{}, false
	}
	return pts[0], true
}

// PoissonFill covers r with blue-noise points at least minDist degrees
// apart, filtered to polygon containment. Used for density shading rather
// than per-record placement; point count is a function of area and
// minDist, not requested up front.
func PoissonFill(r *Region, minDist float64) []orb.Point {
	b := r.Bound()
	raw := poissondisc.Sample(b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y(), minDist, 30, nil)

	pts := make([]orb.Point, 0, len(raw))
	for _, p := range raw {
		pt := orb.Point{p.X, p.Y}
		if r.Contains(pt) {
			pts = append(pts, pt)
		}
	}
	return pts
}
