package engine

import (
	"math/rand/v2"
)

// stub is the result of splitting a set of keyed items into one side: the
// chosen center, the items assigned to that side, and the resulting
// sphere radius.
type stub[K any, V any] struct {
	center K
	tuples []Tuple[K, V]
	radius float64
}

// childStub is the analogous result for partitioning inner-node children:
// a chosen center and the group of children assigned to it, with the
// estimated overestimate radius.
type childStub[K any] struct {
	center   K
	children []NodeHeader[K]
	radius   float64
}

// splitter implements pick_centers plus the careful/quick leaf split
// routines and inner-node split partitioning. It is parameterized only
// over K (the key type) since pick_centers and the partitioning policy
// only ever compare keys; the leaf/inner split helpers that also need V
// are free functions taking a *splitter[K] so Go's lack of per-method type
// parameters doesn't force a second type parameter nobody but those two
// call sites need.
type splitter[K any] struct {
	metric *verifyingMetric[K]
	rnd    *rand.Rand
}

func newSplitter[K any](metric *verifyingMetric[K], rnd *rand.Rand) *splitter[K] {
	return &splitter[K]{metric: metric, rnd: rnd}
}

// pickCenters selects two keys from a non-empty slice that are likely far
// apart: draw floor(sqrt(len(keys))) random unordered pairs without
// duplicates within a pair, and return the pair with maximum distance.
func (s *splitter[K]) pickCenters(keys []K) (K, K) {
	n := len(keys)
	if n == 1 {
		return keys[0], keys[0]
	}

	draws := isqrt(n)
	if draws < 1 {
		draws = 1
	}

	bestA, bestB := keys[0], keys[1]
	bestD := -1.0
	for i := 0; i < draws; i++ {
		a := s.rnd.IntN(n)
		b := s.rnd.IntN(n - 1)
		if b >= a {
			b++
		}
		d := s.metric.distance(keys[a], keys[b])
		if d > bestD {
			bestD = d
			bestA, bestB = keys[a], keys[b]
		}
	}
	return bestA, bestB
}

// isqrt returns floor(sqrt(n)) for n >= 0 using integer arithmetic.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// carefulSplit partitions a page's tuples between two freshly chosen
// centers, assigning each tuple to the nearer center (alternating
// tie-breaker) and tracking each side's exact sphere radius.
func carefulSplit[K any, V any](s *splitter[K], page *DataPage[K, V]) (stub[K, V], stub[K, V]) {
	tuples := page.Tuples()
	keys := make([]K, len(tuples))
	for i, t := range tuples {
		keys[i] = t.Key
	}
	centerA, centerB := s.pickCenters(keys)

	left := stub[K, V]{center: centerA}
	right := stub[K, V]{center: centerB}
	alternate := false
	for _, t := range tuples {
		dA := s.metric.distance(centerA, t.Key)
		dB := s.metric.distance(centerB, t.Key)
		toLeft := dA < dB || (dA == dB && alternate)
		if dA == dB {
			alternate = !alternate
		}
		if toLeft {
			left.tuples = append(left.tuples, t)
			if dA > left.radius {
				left.radius = dA
			}
		} else {
			right.tuples = append(right.tuples, t)
			if dB > right.radius {
				right.radius = dB
			}
		}
	}
	return left, right
}

// quickSplit partitions a page's tuples alternately between two freshly
// chosen centers with no distance computation and a zero radius on both
// sides, for use when the caller will immediately repack both resulting
// leaves.
func quickSplit[K any, V any](s *splitter[K], page *DataPage[K, V]) (stub[K, V], stub[K, V]) {
	tuples := page.Tuples()
	keys := make([]K, len(tuples))
	for i, t := range tuples {
		keys[i] = t.Key
	}
	centerA, centerB := s.pickCenters(keys)

	left := stub[K, V]{center: centerA}
	right := stub[K, V]{center: centerB}
	for i, t := range tuples {
		if i%2 == 0 {
			left.tuples = append(left.tuples, t)
		} else {
			right.tuples = append(right.tuples, t)
		}
	}
	return left, right
}

// splitChildren partitions an inner node's children between two freshly
// chosen centers (drawn from the children's own centers), assigning each
// child to the nearer new center with an alternating tie-breaker, and
// estimating each side's radius as an overestimate from child spheres.
func splitChildren[K any](s *splitter[K], children []NodeHeader[K]) (childStub[K], childStub[K]) {
	keys := make([]K, len(children))
	for i, c := range children {
		keys[i] = c.Center
	}
	centerA, centerB := s.pickCenters(keys)

	left := childStub[K]{center: centerA}
	right := childStub[K]{center: centerB}
	alternate := false
	for _, c := range children {
		dA := s.metric.distance(centerA, c.Center)
		dB := s.metric.distance(centerB, c.Center)
		toLeft := dA < dB || (dA == dB && alternate)
		if dA == dB {
			alternate = !alternate
		}
		if toLeft {
			left.children = append(left.children, c)
			if r := dA + c.Radius; r > left.radius {
				left.radius = r
			}
		} else {
			right.children = append(right.children, c)
			if r := dB + c.Radius; r > right.radius {
				right.radius = r
			}
		}
	}
	return left, right
}
