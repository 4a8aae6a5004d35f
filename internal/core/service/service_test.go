package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/adapter/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/internal/core/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCartEventsPublisher struct {
	mock.Mock
}

func (m *MockCartEventsPublisher) PublishCartEvent(
	ctx context.Context, evt domain.CartEvent,
) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) ReadProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

func (m *MockCatalogSource) ReadNews(ctx context.Context) ([]domain.NewsItem, error) {
	args := m.Called(ctx)
	ns, _ := args.Get(0).([]domain.NewsItem)
	return ns, args.Error(1)
}

func staticCatalog(t *testing.T) domain.Catalog {
	t.Helper()
	c, err := service.LoadCatalog(t.Context(), catalog.NewStatic())
	require.NoError(t, err)
	return c
}

func sessionContext(t *testing.T) (context.Context, *session.Session) {
	t.Helper()
	s, _ := session.NewRegistry(time.Hour).Open("")
	return session.WithSession(t.Context(), s), s
}

func TestLoadCatalog(t *testing.T) {
	t.Run("Static", func(t *testing.T) {
		c := staticCatalog(t)
		assert.Equal(t, 18, c.Len())
	})

	t.Run("SourceError", func(t *testing.T) {
		src := new(MockCatalogSource)
		srcErr := errors.New("testSourceErr")
		src.On("ReadProducts", mock.Anything).Return(nil, srcErr)

		_, err := service.LoadCatalog(t.Context(), src)
		require.Error(t, err)
		assert.ErrorIs(t, err, srcErr)
		src.AssertNotCalled(t, "ReadNews", mock.Anything)
	})

	t.Run("InvalidDataset", func(t *testing.T) {
		src := new(MockCatalogSource)
		src.On("ReadProducts", mock.Anything).Return(
			[]domain.Product{{ProductID: "1"}}, nil,
		)
		src.On("ReadNews", mock.Anything).Return(nil, nil)

		_, err := service.LoadCatalog(t.Context(), src)
		assert.ErrorIs(t, err, domain.ErrInvalidProduct)
	})
}

func TestServiceCatalog(t *testing.T) {
	s := service.New(staticCatalog(t), nil)

	t.Run("ListMatchAll", func(t *testing.T) {
		ps, err := s.ListProducts(t.Context(), domain.FilterCriteria{})
		require.NoError(t, err)
		assert.Len(t, ps, 18)
	})

	t.Run("ListShoes", func(t *testing.T) {
		ps, err := s.ListProducts(t.Context(), domain.FilterCriteria{Category: "shoes"})
		require.NoError(t, err)
		require.Len(t, ps, 5)
		for _, p := range ps {
			assert.Equal(t, domain.CategoryShoes, p.Category)
		}
	})

	t.Run("ListAdidasUnder500K", func(t *testing.T) {
		ps, err := s.ListProducts(t.Context(), domain.FilterCriteria{
			Club:  "adidas",
			Price: domain.PriceUnder500K,
		})
		require.NoError(t, err)
		require.Len(t, ps, 2)
		assert.Equal(t, "16", ps[0].ProductID)
		assert.Equal(t, "18", ps[1].ProductID)
	})

	t.Run("Product", func(t *testing.T) {
		p, err := s.Product(t.Context(), "9")
		require.NoError(t, err)
		assert.Equal(t, "Giày Adidas Predator Edge", p.Name)

		_, err = s.Product(t.Context(), "404")
		assert.ErrorIs(t, err, service.ErrProductNotFound)
	})

	t.Run("News", func(t *testing.T) {
		ns, err := s.News(t.Context())
		require.NoError(t, err)
		assert.Len(t, ns, 2)
	})
}

func TestServiceAddToCart(t *testing.T) {
	t.Run("DefaultVariant", func(t *testing.T) {
		s := service.New(staticCatalog(t), nil)
		ctx, _ := sessionContext(t)

		summary, err := s.AddToCart(ctx, "1", "", "")
		require.NoError(t, err)
		require.Len(t, summary.Lines, 1)
		assert.Equal(t, "S", summary.Lines[0].Size)
		assert.Equal(t, "Đỏ", summary.Lines[0].Color)
	})

	t.Run("Totals", func(t *testing.T) {
		s := service.New(staticCatalog(t), nil)
		ctx, _ := sessionContext(t)

		_, err := s.AddToCart(ctx, "1", "M", "Đỏ")
		require.NoError(t, err)
		_, err = s.AddToCart(ctx, "1", "M", "Đỏ")
		require.NoError(t, err)
		summary, err := s.AddToCart(ctx, "9", "42", "Đen")
		require.NoError(t, err)

		assert.Len(t, summary.Lines, 2)
		assert.Equal(t, 3, summary.TotalItems)
		assert.Equal(t, int64(5300000), summary.TotalPrice)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		s := service.New(staticCatalog(t), nil)
		ctx, _ := sessionContext(t)

		_, err := s.AddToCart(ctx, "404", "", "")
		assert.ErrorIs(t, err, service.ErrProductNotFound)
	})

	t.Run("InvalidVariant", func(t *testing.T) {
		s := service.New(staticCatalog(t), nil)
		ctx, _ := sessionContext(t)

		_, err := s.AddToCart(ctx, "1", "39", "")
		assert.ErrorIs(t, err, service.ErrInvalidVariant)

		_, err = s.AddToCart(ctx, "1", "M", "Tím")
		assert.ErrorIs(t, err, service.ErrInvalidVariant)

		assert.True(t, s.Cart(ctx).IsEmpty())
	})

	t.Run("NoSessionPanics", func(t *testing.T) {
		s := service.New(staticCatalog(t), nil)

		assert.PanicsWithValue(t, session.ErrNoSession, func() {
			_, _ = s.AddToCart(t.Context(), "1", "", "")
		})
		assert.PanicsWithValue(t, session.ErrNoSession, func() {
			s.ClearCart(t.Context())
		})
	})

	t.Run("NoSessionReadsEmpty", func(t *testing.T) {
		s := service.New(staticCatalog(t), nil)

		assert.NotPanics(t, func() {
			summary := s.Cart(t.Context())
			assert.True(t, summary.IsEmpty())
			assert.Zero(t, summary.TotalPrice)
		})
	})

	t.Run("SessionsAreIsolated", func(t *testing.T) {
		s := service.New(staticCatalog(t), nil)
		ctx1, _ := sessionContext(t)
		ctx2, _ := sessionContext(t)

		_, err := s.AddToCart(ctx1, "3", "", "")
		require.NoError(t, err)

		assert.Equal(t, 1, s.Cart(ctx1).TotalItems)
		assert.True(t, s.Cart(ctx2).IsEmpty())
	})
}

func TestServiceRemoveAndUpdate(t *testing.T) {
	setup := func(t *testing.T) (service.Service, context.Context) {
		s := service.New(staticCatalog(t), nil)
		ctx, _ := sessionContext(t)
		for _, v := range [][3]string{
			{"1", "M", "Đỏ"},
			{"1", "L", "Trắng"},
			{"14", "S", "Đen"},
		} {
			_, err := s.AddToCart(ctx, v[0], v[1], v[2])
			require.NoError(t, err)
		}
		return s, ctx
	}

	t.Run("RemoveProductWide", func(t *testing.T) {
		s, ctx := setup(t)

		summary := s.RemoveFromCart(ctx, port.LineSelector{ProductID: "1"})

		require.Len(t, summary.Lines, 1)
		assert.Equal(t, "14", summary.Lines[0].ProductID)
	})

	t.Run("RemoveVariant", func(t *testing.T) {
		s, ctx := setup(t)

		summary := s.RemoveFromCart(ctx, port.LineSelector{
			ProductID: "1", Size: "L", Color: "Trắng",
		})

		require.Len(t, summary.Lines, 2)
		assert.Equal(t, "M", summary.Lines[0].Size)
	})

	t.Run("UpdateProductWide", func(t *testing.T) {
		s, ctx := setup(t)

		summary, err := s.UpdateQuantity(ctx, port.LineSelector{ProductID: "1"}, 3)
		require.NoError(t, err)

		assert.Equal(t, 7, summary.TotalItems)
	})

	t.Run("UpdateVariant", func(t *testing.T) {
		s, ctx := setup(t)

		summary, err := s.UpdateQuantity(ctx, port.LineSelector{
			ProductID: "1", Size: "M", Color: "Đỏ",
		}, 3)
		require.NoError(t, err)

		assert.Equal(t, 5, summary.TotalItems)
	})

	t.Run("UpdateZeroRemoves", func(t *testing.T) {
		s, ctx := setup(t)

		summary, err := s.UpdateQuantity(ctx, port.LineSelector{ProductID: "14"}, 0)
		require.NoError(t, err)
		assert.Len(t, summary.Lines, 2)

		summary, err = s.UpdateQuantity(ctx, port.LineSelector{ProductID: "14"}, 0)
		require.NoError(t, err)
		assert.Len(t, summary.Lines, 2)
	})

	t.Run("Clear", func(t *testing.T) {
		s, ctx := setup(t)

		summary := s.ClearCart(ctx)

		assert.True(t, summary.IsEmpty())
		assert.Zero(t, summary.TotalItems)
		assert.Zero(t, s.Cart(ctx).TotalPrice)
	})

	t.Run("UpdateOverflowRejected", func(t *testing.T) {
		s, ctx := setup(t)
		before := s.Cart(ctx)

		_, err := s.UpdateQuantity(ctx, port.LineSelector{ProductID: "1"}, 9000000000000000)

		require.ErrorIs(t, err, domain.ErrTotalOverflow)
		assert.Equal(t, before, s.Cart(ctx))
	})
}

func TestServiceSavedFilter(t *testing.T) {
	s := service.New(staticCatalog(t), nil)
	ctx, _ := sessionContext(t)

	assert.True(t, s.SavedFilter(t.Context()).IsMatchAll())
	assert.PanicsWithValue(t, session.ErrNoSession, func() {
		s.SaveFilter(t.Context(), domain.FilterCriteria{Club: "nike"})
	})

	assert.True(t, s.SavedFilter(ctx).IsMatchAll())

	c := domain.FilterCriteria{Club: "nike"}
	s.SaveFilter(ctx, c)
	assert.Equal(t, c, s.SavedFilter(ctx))

	s.ResetFilter(ctx)
	assert.True(t, s.SavedFilter(ctx).IsMatchAll())
}

func TestServiceCartEvents(t *testing.T) {
	t.Run("AddedAndCleared", func(t *testing.T) {
		pub := new(MockCartEventsPublisher)
		s := service.New(staticCatalog(t), pub)
		ctx, sess := sessionContext(t)

		pub.On("PublishCartEvent", mock.Anything, mock.MatchedBy(
			func(evt domain.CartEvent) bool {
				return evt.Type == domain.CartItemAdded &&
					evt.SessionID == sess.ID() &&
					evt.ProductID == "2" &&
					evt.Size == "39" &&
					evt.Color == "Đen" &&
					evt.Quantity == 1 &&
					evt.TotalItems == 1 &&
					evt.TotalPrice == 3200000 &&
					!evt.OccurredAt.IsZero()
			},
		)).Return(nil).Once()

		pub.On("PublishCartEvent", mock.Anything, mock.MatchedBy(
			func(evt domain.CartEvent) bool {
				return evt.Type == domain.CartCleared && evt.TotalItems == 0
			},
		)).Return(nil).Once()

		_, err := s.AddToCart(ctx, "2", "", "")
		require.NoError(t, err)
		s.ClearCart(ctx)

		pub.AssertExpectations(t)
	})

	t.Run("NoopChangesAreSilent", func(t *testing.T) {
		pub := new(MockCartEventsPublisher)
		s := service.New(staticCatalog(t), pub)
		ctx, _ := sessionContext(t)

		s.RemoveFromCart(ctx, port.LineSelector{ProductID: "1"})
		s.UpdateQuantity(ctx, port.LineSelector{ProductID: "1"}, 2)

		pub.AssertNotCalled(t, "PublishCartEvent", mock.Anything, mock.Anything)
	})

	t.Run("UpdateToZeroIsRemoval", func(t *testing.T) {
		pub := new(MockCartEventsPublisher)
		s := service.New(staticCatalog(t), pub)
		ctx, _ := sessionContext(t)

		pub.On("PublishCartEvent", mock.Anything, mock.Anything).Return(nil)

		_, err := s.AddToCart(ctx, "3", "", "")
		require.NoError(t, err)
		s.UpdateQuantity(ctx, port.LineSelector{ProductID: "3"}, 0)

		require.Len(t, pub.Calls, 2)
		evt, ok := pub.Calls[1].Arguments.Get(1).(domain.CartEvent)
		require.True(t, ok)
		assert.Equal(t, domain.CartItemRemoved, evt.Type)
		assert.Zero(t, evt.Quantity)
	})

	t.Run("PublishErrorIsNotReturned", func(t *testing.T) {
		pub := new(MockCartEventsPublisher)
		s := service.New(staticCatalog(t), pub)
		ctx, _ := sessionContext(t)

		pub.On("PublishCartEvent", mock.Anything, mock.Anything).
			Return(errors.New("testBrokerErr"))

		summary, err := s.AddToCart(ctx, "3", "", "")
		require.NoError(t, err)
		assert.Equal(t, 1, summary.TotalItems)
	})
}
