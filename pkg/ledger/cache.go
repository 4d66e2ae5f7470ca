package ledger

import "github.com/matzehuels/songsort/pkg/pref"

// Known is the answer to a preference lookup.
type Known struct {
	// Direction is Left if the first item is preferred, Right if the second
	// is, and Unknown if neither direct records nor the closure decide.
	Direction pref.Direction
	// Decision is the record (or synthetic closure entry) that decided it.
	Decision pref.Decision
}

// Resolved reports whether the preference is known.
func (k Known) Resolved() bool { return k.Direction != pref.Unknown }

// CacheStats counts inference cache activity.
type CacheStats struct {
	Hits       int // answered from memoized lookups
	Direct     int // answered from a direct record
	Closure    int // answered from the transitive closure
	Misses     int // unresolved lookups
	Recomputes int // closure rebuilds
}

type inferenceCache struct {
	pairs      map[pref.Pair]pref.Decision
	closure    map[pref.Pair]pref.Decision
	edges      []pref.Decision
	closureTag int // ExplicitLen at computation; -1 when never computed
	stats      CacheStats
}

func (c *inferenceCache) reset() {
	c.pairs = make(map[pref.Pair]pref.Decision)
	c.closure = nil
	c.edges = nil
	c.closureTag = -1
}

// invalidate drops memoized lookups. The closure is kept but its tag no longer
// matches, so it is rebuilt on the next miss.
func (c *inferenceCache) invalidate() {
	clear(c.pairs)
}

// Known reports whether the preference between a and b is already decided,
// directly or by transitivity. Known(a, b) and Known(b, a) always report
// opposite directions for the same ledger state.
func (l *Ledger) Known(a, b string) Known {
	pair := pref.PairOf(a, b)
	c := &l.cache

	if d, ok := c.pairs[pair]; ok {
		c.stats.Hits++
		return Known{Direction: d.Direction(a, b), Decision: d}
	}

	if i, ok := l.byPair[pair]; ok {
		d := l.decisions[i]
		c.stats.Direct++
		c.pairs[pair] = d
		return Known{Direction: d.Direction(a, b), Decision: d}
	}

	if c.closureTag != l.explicit {
		l.rebuildClosure()
	}
	if d, ok := c.closure[pair]; ok {
		c.stats.Closure++
		c.pairs[pair] = d
		return Known{Direction: d.Direction(a, b), Decision: d}
	}

	c.stats.Misses++
	return Known{Direction: pref.Unknown}
}

func (l *Ledger) rebuildClosure() {
	c := &l.cache
	closure, err := pref.TransitiveClosure(l.Filter(pref.Direct, pref.Imported))
	if err != nil {
		// Filter never returns nil, so closure cannot fail here.
		panic(err)
	}
	c.closure = make(map[pref.Pair]pref.Decision, len(closure))
	for _, d := range closure {
		if _, dup := c.closure[d.Pair()]; !dup {
			c.closure[d.Pair()] = d
		}
	}
	c.edges = closure
	c.closureTag = l.explicit
	c.stats.Recomputes++
}

// Closure returns the transitive closure of the explicit records, recomputing
// it only if the cache tag is stale.
func (l *Ledger) Closure() []pref.Decision {
	if l.cache.closureTag != l.explicit {
		l.rebuildClosure()
	}
	out := make([]pref.Decision, len(l.cache.edges))
	copy(out, l.cache.edges)
	return out
}

// CacheValid reports whether the cached closure matches the current ledger.
func (l *Ledger) CacheValid() bool { return l.cache.closureTag == l.explicit }

// CacheStats returns a snapshot of cache counters.
func (l *Ledger) CacheStats() CacheStats { return l.cache.stats }
