package approval

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rng(start, end string) DateRange {
	return NewDateRange(day(start), day(end))
}

func TestIntersects_SourceCases(t *testing.T) {
	leave := rng("2024-03-10", "2024-03-15")

	cases := []struct {
		name  string
		event DateRange
		want  bool
	}{
		{"event starts inside", rng("2024-03-12", "2024-03-20"), true},
		{"event ends inside", rng("2024-03-01", "2024-03-12"), true},
		{"event spans request", rng("2024-03-01", "2024-03-31"), true},
		{"request spans event", rng("2024-03-11", "2024-03-12"), true},
		{"event starts on last day", rng("2024-03-15", "2024-03-18"), true},
		{"event ends on first day", rng("2024-03-05", "2024-03-10"), true},
		{"single day on boundary", rng("2024-03-10", "2024-03-10"), true},
		{"event before", rng("2024-03-01", "2024-03-09"), false},
		{"event after", rng("2024-03-16", "2024-03-20"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, leave.Intersects(tc.event))
		})
	}
}

// The four enumerated overlap cases must select exactly what the single
// inequality selects.
func TestIntersects_MatchesFourCaseEnumeration(t *testing.T) {
	base := day("2024-03-01")
	fourCase := func(req, ev DateRange) bool {
		s, e := req.Start, req.End
		startsInside := !ev.Start.Before(s) && !ev.Start.After(e)
		endsInside := !ev.End.Before(s) && !ev.End.After(e)
		spansRequest := !ev.Start.After(s) && !ev.End.Before(e)
		requestSpans := !ev.Start.Before(s) && !ev.End.After(e)
		return startsInside || endsInside || spansRequest || requestSpans
	}

	for a := 0; a < 6; a++ {
		for b := a; b < 6; b++ {
			for c := 0; c < 6; c++ {
				for d := c; d < 6; d++ {
					req := NewDateRange(base.AddDate(0, 0, a), base.AddDate(0, 0, b))
					ev := NewDateRange(base.AddDate(0, 0, c), base.AddDate(0, 0, d))
					name := fmt.Sprintf("[%d,%d]x[%d,%d]", a, b, c, d)
					assert.Equal(t, fourCase(req, ev), req.Intersects(ev), name)
				}
			}
		}
	}
}

func TestIntersects_Symmetric(t *testing.T) {
	base := day("2024-01-01")
	for a := 0; a < 5; a++ {
		for b := a; b < 5; b++ {
			for c := 0; c < 5; c++ {
				for d := c; d < 5; d++ {
					x := NewDateRange(base.AddDate(0, 0, a), base.AddDate(0, 0, b))
					y := NewDateRange(base.AddDate(0, 0, c), base.AddDate(0, 0, d))
					assert.Equal(t, x.Intersects(y), y.Intersects(x))
				}
			}
		}
	}
}

func TestIntersects_IgnoresTimeOfDay(t *testing.T) {
	leave := DateRange{
		Start: time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 12, 0, 5, 0, 0, time.UTC),
	}
	event := DateRange{
		Start: time.Date(2024, 3, 12, 18, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 12, 19, 0, 0, 0, time.UTC),
	}
	assert.True(t, leave.Intersects(event))
}

func TestOrdering_InclusiveVersusStrict(t *testing.T) {
	same := rng("2024-03-10", "2024-03-10")
	assert.True(t, same.Ordered())
	assert.False(t, same.StrictlyOrdered())

	forward := rng("2024-03-10", "2024-03-11")
	assert.True(t, forward.Ordered())
	assert.True(t, forward.StrictlyOrdered())

	backward := rng("2024-03-11", "2024-03-10")
	assert.False(t, backward.Ordered())
	assert.False(t, backward.StrictlyOrdered())
}
