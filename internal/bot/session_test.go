package bot

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionResetZeroesOffset(t *testing.T) {
	s := NewSessionStore()
	s.Advance(1)
	s.Advance(1)
	require.Equal(t, 10, s.Offset(1))

	s.Reset(1)
	require.Equal(t, 0, s.Offset(1))
}

func TestSessionRetreatAtZero(t *testing.T) {
	s := NewSessionStore()
	require.Equal(t, 0, s.Retreat(42))
	require.Equal(t, 0, s.Offset(42))
}

func TestSessionOffsetStaysNonNegativeMultiple(t *testing.T) {
	s := NewSessionStore()
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 1000; i++ {
		var offset int
		if rng.Intn(2) == 0 {
			offset = s.Advance(9)
		} else {
			offset = s.Retreat(9)
		}
		require.GreaterOrEqual(t, offset, 0)
		require.Zero(t, offset%PageSize)
		require.Equal(t, offset, s.Offset(9))
	}
}

func TestSessionOperatorsAreIndependent(t *testing.T) {
	s := NewSessionStore()
	s.Advance(1)
	s.SetStep(1, StepAwaitingDeleteID)

	require.Equal(t, 0, s.Offset(2))
	require.Equal(t, StepIdle, s.Step(2))
	require.Equal(t, 5, s.Offset(1))
	require.Equal(t, StepAwaitingDeleteID, s.Step(1))
}

func TestSessionTakeStepResetsToIdle(t *testing.T) {
	s := NewSessionStore()
	require.Equal(t, StepIdle, s.TakeStep(3))

	s.SetStep(3, StepAwaitingDeleteID)
	require.Equal(t, StepAwaitingDeleteID, s.TakeStep(3))
	require.Equal(t, StepIdle, s.Step(3))
}

func TestSessionConcurrentOperators(t *testing.T) {
	s := NewSessionStore()
	var wg sync.WaitGroup

	for op := int64(1); op <= 20; op++ {
		wg.Add(1)
		go func(op int64) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Advance(op)
			}
			for i := 0; i < 10; i++ {
				s.Retreat(op)
			}
			s.SetStep(op, StepAwaitingDeleteID)
		}(op)
	}
	wg.Wait()

	for op := int64(1); op <= 20; op++ {
		require.Equal(t, 40*PageSize, s.Offset(op))
		require.Equal(t, StepAwaitingDeleteID, s.Step(op))
	}
}

func TestPaginationHelpers(t *testing.T) {
	tests := []struct {
		offset, total int
		page          int
		next, prev    bool
	}{
		{offset: 0, total: 0, page: 1, next: false, prev: false},
		{offset: 0, total: 5, page: 1, next: false, prev: false},
		{offset: 0, total: 6, page: 1, next: true, prev: false},
		{offset: 5, total: 12, page: 2, next: true, prev: true},
		{offset: 10, total: 12, page: 3, next: false, prev: true},
		{offset: 10, total: 15, page: 3, next: false, prev: true},
	}

	for _, tt := range tests {
		require.Equal(t, tt.page, PageNumber(tt.offset), "offset %d", tt.offset)
		require.Equal(t, tt.next, HasNext(tt.offset, tt.total), "offset %d total %d", tt.offset, tt.total)
		require.Equal(t, tt.prev, HasPrev(tt.offset), "offset %d", tt.offset)
	}
}
