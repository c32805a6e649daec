package symbolic

// isMatch reports whether src contains a match.
//
// Patterns with anchors run the containment automaton over the whole input
// so the anchors see the true input edges. Other patterns only need the
// earliest match end.
func isMatch[S source](m *Matcher, src S) bool {
	if !m.anchored {
		return findEnd(m, src, 0) >= 0
	}

	n := src.end()
	q := m.containmentRoot()
	info := m.cache.info(q)
	for pos := 0; pos < n; {
		if info.accept {
			return true
		}
		if info.reject {
			return false
		}
		var u uint16
		u, pos = src.next(pos)
		q, info = m.cache.StepSymbol(q, u)
	}
	return info.nullable(n == 0, true)
}

// matches collects every non-overlapping match. Empty matches follow the Go
// regexp convention: after an empty match the scan moves on by one
// character, and an empty match right after the previous match is dropped.
func matches[S source](m *Matcher, src S) ([]Match, error) {
	var out []Match
	n := src.end()
	prevEnd := -1
	for pos := 0; pos <= n; {
		e := findEnd(m, src, pos)
		if e < 0 {
			break
		}
		s, err := findStart(m, src, pos, e)
		if err != nil {
			return nil, err
		}
		end, err := findLongest(m, src, s)
		if err != nil {
			return nil, err
		}

		accept := true
		if end == pos {
			if s == prevEnd {
				accept = false
			}
			if pos < n {
				pos = src.advance(pos)
			} else {
				pos = n + 1
			}
		} else {
			pos = end
		}
		prevEnd = end

		if accept {
			start := src.offset(s)
			out = append(out, Match{Start: start, Length: src.offset(end) - start})
		}
	}
	return out, nil
}

// findEnd walks SearchForward from boundary c and returns the earliest
// boundary at which a match starting at or after c ends, or -1.
func findEnd[S source](m *Matcher, src S, c int) int {
	n := src.end()
	q := m.searchFwd
	if c == 0 {
		q = m.searchFwdEdge
	}
	info := m.cache.info(q)
	skip := m.acc.forward()

	pos := c
	for {
		if info.nullable(pos == 0, pos == n) {
			return pos
		}
		if info.reject || pos == n {
			return -1
		}

		if skip && q == m.searchFwd {
			at, after := src.skipAhead(&m.acc, pos)
			switch {
			case at < 0:
				// No match starts in the rest of the input; only an empty
				// match at the end can remain.
				pos = n
				continue
			case after >= 0:
				q, pos = m.acc.skip, after
				info = m.cache.info(q)
				continue
			}
			pos = at
		}

		var u uint16
		u, pos = src.next(pos)
		q, info = m.cache.StepSymbol(q, u)
	}
}

// findStart walks SearchBackward from the match end e down to the cursor c
// and returns the smallest boundary at which a match ending at e starts. The
// walk only stops early at the reject sink.
func findStart[S source](m *Matcher, src S, c, e int) (int, error) {
	n := src.end()
	q := m.searchBwd
	if e == n {
		q = m.searchBwdEdge
	}
	info := m.cache.info(q)

	pos := e
	if m.acc.revLen > 0 && q == m.searchBwd {
		if at, ok := jumpBack(src, e, c, m.acc.revLen); ok {
			pos, q = at, m.acc.revSkip
			info = m.cache.info(q)
		}
	}

	start := -1
	for {
		if info.nullable(pos == n, pos == 0) {
			start = pos
		}
		if info.reject || pos <= c {
			break
		}
		var u uint16
		u, pos = src.prev(pos)
		q, info = m.cache.StepSymbol(q, u)
	}

	if start < 0 {
		return -1, internalError("symbolic: no match start for the match ending at %d", src.offset(e))
	}
	return start, nil
}

// jumpBack moves k code units back from e. It fails when that would cross
// the cursor c; the caller then steps from e one unit at a time.
func jumpBack[S source](src S, e, c, k int) (int, bool) {
	pos := e
	for range k {
		if pos <= c {
			return e, false
		}
		_, pos = src.prev(pos)
	}
	return pos, true
}

// findLongest walks Forward from the match start s and returns the last
// boundary at which the match can end.
func findLongest[S source](m *Matcher, src S, s int) (int, error) {
	n := src.end()
	q := m.fwd
	if s == 0 {
		q = m.fwdEdge
	}
	info := m.cache.info(q)

	last := -1
	for pos := s; ; {
		if info.accept {
			// Every continuation matches, the end of input included.
			last = n
			break
		}
		if info.nullable(pos == 0, pos == n) {
			last = pos
		}
		if info.reject || pos == n {
			break
		}
		var u uint16
		u, pos = src.next(pos)
		q, info = m.cache.StepSymbol(q, u)
	}

	if last < 0 {
		return -1, internalError("symbolic: no match end for the match starting at %d", src.offset(s))
	}
	return last, nil
}
