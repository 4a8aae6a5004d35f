package session

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestRegistry(idle time.Duration) (*Registry, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC)}
	r := NewRegistry(idle)
	r.now = clock.now

	var seq int
	r.newID = func() string {
		seq++
		return "testSession" + strconv.Itoa(seq)
	}
	return r, clock
}

func TestRegistryOpen(t *testing.T) {
	t.Run("EmptyIDCreates", func(t *testing.T) {
		r, _ := newTestRegistry(time.Hour)

		s, created := r.Open("")
		require.True(t, created)
		assert.Equal(t, "testSession1", s.ID())
		assert.Equal(t, 1, r.Len())
	})

	t.Run("KnownIDReuses", func(t *testing.T) {
		r, _ := newTestRegistry(time.Hour)
		s1, _ := r.Open("")

		s2, created := r.Open(s1.ID())
		assert.False(t, created)
		assert.Same(t, s1, s2)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("UnknownIDCreatesFresh", func(t *testing.T) {
		r, _ := newTestRegistry(time.Hour)

		s, created := r.Open("forged")
		assert.True(t, created)
		assert.NotEqual(t, "forged", s.ID())

		_, ok := r.Get("forged")
		assert.False(t, ok)
	})

	t.Run("Close", func(t *testing.T) {
		r, _ := newTestRegistry(time.Hour)
		s, _ := r.Open("")

		r.Close(s.ID())

		_, ok := r.Get(s.ID())
		assert.False(t, ok)
		assert.Zero(t, r.Len())
	})
}

func TestRegistrySweep(t *testing.T) {
	t.Run("DropsIdle", func(t *testing.T) {
		r, clock := newTestRegistry(time.Hour)
		idle, _ := r.Open("")
		clock.advance(50 * time.Minute)
		active, _ := r.Open("")
		clock.advance(20 * time.Minute)

		n := r.Sweep()

		assert.Equal(t, 1, n)
		_, ok := r.Get(idle.ID())
		assert.False(t, ok)
		_, ok = r.Get(active.ID())
		assert.True(t, ok)
	})

	t.Run("OpenTouches", func(t *testing.T) {
		r, clock := newTestRegistry(time.Hour)
		s, _ := r.Open("")
		clock.advance(50 * time.Minute)
		r.Open(s.ID())
		clock.advance(50 * time.Minute)

		assert.Zero(t, r.Sweep())
	})

	t.Run("GetTouches", func(t *testing.T) {
		r, clock := newTestRegistry(time.Hour)
		s, _ := r.Open("")
		clock.advance(50 * time.Minute)
		_, ok := r.Get(s.ID())
		require.True(t, ok)
		clock.advance(50 * time.Minute)

		assert.Zero(t, r.Sweep())
	})

	t.Run("GetNeverCreates", func(t *testing.T) {
		r, _ := newTestRegistry(time.Hour)

		_, ok := r.Get("")
		assert.False(t, ok)
		_, ok = r.Get("forged")
		assert.False(t, ok)
		assert.Zero(t, r.Len())
	})

	t.Run("Disabled", func(t *testing.T) {
		r, clock := newTestRegistry(0)
		r.Open("")
		clock.advance(1000 * time.Hour)

		assert.Zero(t, r.Sweep())
		assert.Equal(t, 1, r.Len())
	})
}

func TestRegistryRunStops(t *testing.T) {
	r := NewRegistry(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSessionCriteria(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	s, _ := r.Open("")

	assert.True(t, s.Criteria().IsMatchAll())

	c := domain.FilterCriteria{Category: "shoes", Price: domain.PriceOver1M}
	s.SetCriteria(c)
	assert.Equal(t, c, s.Criteria())

	s.ResetCriteria()
	assert.True(t, s.Criteria().IsMatchAll())
}

func TestSessionDoSerializes(t *testing.T) {
	r, _ := newTestRegistry(time.Hour)
	s, _ := r.Open("")
	p := domain.Product{
		ProductID: "14",
		Price:     120000,
		Sizes:     []string{"M"},
		Colors:    []string{"black"},
	}

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Do(func(c *domain.Cart) {
				c.AddToCart(p, "M", "black")
			})
		}()
	}
	wg.Wait()

	s.Do(func(c *domain.Cart) {
		assert.Equal(t, 1, c.Len())
		assert.Equal(t, 50, c.TotalItems())
	})
}

func TestContextAccessors(t *testing.T) {
	t.Run("WithoutSession", func(t *testing.T) {
		_, ok := FromContext(t.Context())
		assert.False(t, ok)

		assert.PanicsWithValue(t, ErrNoSession, func() {
			MustFromContext(t.Context())
		})
	})

	t.Run("WithSession", func(t *testing.T) {
		r, _ := newTestRegistry(time.Hour)
		s, _ := r.Open("")
		ctx := WithSession(t.Context(), s)

		got, ok := FromContext(ctx)
		require.True(t, ok)
		assert.Same(t, s, got)

		assert.NotPanics(t, func() {
			assert.Same(t, s, MustFromContext(ctx))
		})
	})
}
