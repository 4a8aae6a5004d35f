package port

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// A LineSelector picks cart lines by product.
//
// With empty Size and Color every variant of the product is selected,
// otherwise exactly one line.
type LineSelector struct {
	ProductID string
	Size      string
	Color     string
}

func (s LineSelector) ProductWide() bool {
	return s.Size == "" && s.Color == ""
}

func (s LineSelector) Key() domain.LineKey {
	return domain.LineKey{ProductID: s.ProductID, Size: s.Size, Color: s.Color}
}

type ProductsLister interface {
	ListProducts(context.Context, domain.FilterCriteria) ([]domain.Product, error)
	Product(ctx context.Context, productID string) (domain.Product, error)
	FilterOptions(context.Context) domain.FilterOptions
}

type NewsLister interface {
	News(context.Context) ([]domain.NewsItem, error)
}

type FilterKeeper interface {
	SavedFilter(context.Context) domain.FilterCriteria
	SaveFilter(context.Context, domain.FilterCriteria)
	ResetFilter(context.Context)
}

type CartManager interface {
	AddToCart(ctx context.Context, productID, size, color string) (domain.CartSummary, error)
	RemoveFromCart(context.Context, LineSelector) domain.CartSummary
	UpdateQuantity(ctx context.Context, sel LineSelector, quantity int) (domain.CartSummary, error)
	ClearCart(context.Context) domain.CartSummary
	Cart(context.Context) domain.CartSummary
}

// A CatalogSource loads the product and news dataset.
type CatalogSource interface {
	ReadProducts(context.Context) ([]domain.Product, error)
	ReadNews(context.Context) ([]domain.NewsItem, error)
}

type CartEventsPublisher interface {
	PublishCartEvent(context.Context, domain.CartEvent) error
}

type PopularityReader interface {
	AddedToCart(ctx context.Context, productID string) (int64, error)
}

type CartActivityProcessor interface {
	runnerContextWg
	closer
}
