package symbolic

import (
	"github.com/coregx/symregex/alphabet"
	"github.com/coregx/symregex/pattern"
	"github.com/coregx/symregex/prefilter"
)

// accel holds the search accelerators of a matcher. All fields are fixed at
// construction.
//
// Forward skips apply only at the plain SearchForward root: being there means
// every partial match has died, so the scan may move to the next position
// where a match can begin.
type accel struct {
	// Forward literal every match begins with.
	unitLit prefilter.UnitPrefilter
	byteLit prefilter.Prefilter
	literal []uint16
	// exact is unset for case-insensitive literals, whose occurrences are only
	// position hints: the skip state depends on the actual spelling.
	exact bool
	// skip is the state reached from the plain SearchForward root by the
	// exact literal.
	skip StateID

	// Start set of the pattern; nil disables the start-set skip.
	startSet *alphabet.Membership
	// members lists the start set when it is small enough for the vectorized
	// search; asciiMembers is the same list when every member is ASCII.
	members      []uint16
	asciiMembers []byte

	// revLen symbols at the end of every match are consumed in one jump from
	// the plain SearchBackward root to revSkip.
	revLen  int
	revSkip StateID
}

// buildAccel computes the accelerators. It runs during construction, before
// the matcher is shared, so it may use the builder directly.
func buildAccel(b *pattern.Builder, c *Cache, root pattern.Node, searchFwd, searchBwd StateID, cfg *Config) accel {
	var a accel
	if !cfg.UsePrefilter {
		return a
	}

	lit, ignoreCase := b.FixedPrefix(root).Literal()
	if len(lit) > 0 {
		a.literal = lit
		a.unitLit = prefilter.NewUnits(lit, ignoreCase)
		a.byteLit = prefilter.New(lit, ignoreCase)
		a.exact = !ignoreCase
		if a.exact {
			q := searchFwd
			for _, u := range lit {
				q, _ = c.StepSymbol(q, u)
			}
			a.skip = q
		}
	}

	if ss := b.StartSet(root); !ss.IsFull() {
		a.startSet = alphabet.NewMembership(ss)
		if size := ss.Size(); size > 0 && size <= cfg.StartSetSizeLimit {
			ascii := true
			for u := range ss.All() {
				a.members = append(a.members, u)
				ascii = ascii && u < 0x80
			}
			if ascii {
				for _, u := range a.members {
					a.asciiMembers = append(a.asciiMembers, byte(u))
				}
			}
		}
	}

	rev := b.FixedPrefix(b.Reverse(root))
	if rev.Len() > 0 {
		q := searchBwd
		for _, pred := range rev.Preds {
			u, _ := pred.Min()
			q, _ = c.StepSymbol(q, u)
		}
		a.revLen = rev.Len()
		a.revSkip = q
	}
	return a
}

// forward reports whether any forward skip is available.
func (a *accel) forward() bool {
	return a.unitLit != nil || a.byteLit != nil || a.startSet != nil
}
