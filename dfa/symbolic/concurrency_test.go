package symbolic

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMatcher_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	inputs := []string{
		"xaabby",
		"lorem http://a.b ipsum http://c",
		"数据😀 and more abab",
		"",
		"bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbab",
	}
	exprs := []string{`(a|b)*ab`, `http://[a-z.]+`, `[^ ]+`, `^x|b$`}

	for _, expr := range exprs {
		for _, limit := range []int{1, 10_000} {
			want := make([][]Match, len(inputs))
			ref := newMatcher(t, expr, DefaultConfig())
			for i, in := range inputs {
				ms, err := ref.Matches(u16(in))
				if err != nil {
					t.Fatal(err)
				}
				want[i] = ms
			}

			// A fresh matcher, so the goroutines race to build the states.
			m := newMatcher(t, expr, DefaultConfig().WithStateLimit(limit))
			var g errgroup.Group
			for w := range 8 {
				g.Go(func() error {
					for round := range 20 {
						i := (w + round) % len(inputs)
						got, err := m.Matches(u16(inputs[i]))
						if err != nil {
							return err
						}
						if diff := cmp.Diff(want[i], got); diff != "" {
							t.Errorf("%s on %q (limit %d) mismatch (-want +got):\n%s", expr, inputs[i], limit, diff)
						}
						m.IsMatchUTF8([]byte(inputs[i]))
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				t.Fatalf("%s: %v", expr, err)
			}
		}
	}
}
