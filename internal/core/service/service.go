package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/session"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidVariant  = errors.New("size or color is not offered for product")
)

var _ port.ProductsLister = (*Service)(nil)
var _ port.NewsLister = (*Service)(nil)
var _ port.FilterKeeper = (*Service)(nil)
var _ port.CartManager = (*Service)(nil)

type Service struct {
	catalog      domain.Catalog
	cartEventPub port.CartEventsPublisher
	now          func() time.Time
}

// New returns the storefront service.
//
// A nil cartEventPub disables cart events.
func New(catalog domain.Catalog, cartEventPub port.CartEventsPublisher) Service {
	return Service{
		catalog:      catalog,
		cartEventPub: cartEventPub,
		now:          time.Now,
	}
}

// LoadCatalog reads and validates the dataset of src.
func LoadCatalog(ctx context.Context, src port.CatalogSource) (domain.Catalog, error) {
	const op = "LoadCatalog"

	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	products, err := src.ReadProducts(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	news, err := src.ReadNews(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	catalog, err := domain.NewCatalog(products, news)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}
	return catalog, nil
}

func (s Service) ListProducts(
	ctx context.Context, criteria domain.FilterCriteria,
) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.FilterProducts(s.catalog.Products(), criteria), nil
}

func (s Service) Product(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "Service.Product"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := s.catalog.Product(productID)
	if !ok {
		return domain.Product{}, fmt.Errorf(
			"%s: %w: %q", op, ErrProductNotFound, productID,
		)
	}
	return p, nil
}

func (s Service) FilterOptions(context.Context) domain.FilterOptions {
	return domain.DefaultFilterOptions()
}

func (s Service) News(ctx context.Context) ([]domain.NewsItem, error) {
	const op = "Service.News"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.catalog.News(), nil
}

// SavedFilter returns the session criteria, match-all without a session.
func (s Service) SavedFilter(ctx context.Context) domain.FilterCriteria {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return domain.FilterCriteria{}
	}
	return sess.Criteria()
}

func (s Service) SaveFilter(ctx context.Context, c domain.FilterCriteria) {
	session.MustFromContext(ctx).SetCriteria(c)
}

func (s Service) ResetFilter(ctx context.Context) {
	session.MustFromContext(ctx).ResetCriteria()
}

// AddToCart adds one unit of the product variant to the session cart.
//
// Empty size or color selects the product default.
func (s Service) AddToCart(
	ctx context.Context, productID, size, color string,
) (domain.CartSummary, error) {
	const op = "Service.AddToCart"

	sess := session.MustFromContext(ctx)

	if err := ctx.Err(); err != nil {
		return domain.CartSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := s.catalog.Product(productID)
	if !ok {
		return domain.CartSummary{}, fmt.Errorf(
			"%s: %w: %q", op, ErrProductNotFound, productID,
		)
	}

	if size == "" {
		size = p.DefaultSize()
	}
	if color == "" {
		color = p.DefaultColor()
	}
	if !p.HasSize(size) || !p.HasColor(color) {
		return domain.CartSummary{}, fmt.Errorf(
			"%s: %w: size=%q color=%q", op, ErrInvalidVariant, size, color,
		)
	}

	var (
		line    domain.CartLine
		summary domain.CartSummary
		err     error
	)
	sess.Do(func(c *domain.Cart) {
		line, err = c.AddToCart(p, size, color)
		summary = c.Summary()
	})
	if err != nil {
		return summary, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, sess, domain.CartEvent{
		Type:      domain.CartItemAdded,
		ProductID: line.ProductID,
		Size:      line.Size,
		Color:     line.Color,
		Quantity:  line.Quantity,
	}, summary)

	return summary, nil
}

func (s Service) RemoveFromCart(
	ctx context.Context, sel port.LineSelector,
) domain.CartSummary {
	sess := session.MustFromContext(ctx)

	var (
		removed bool
		summary domain.CartSummary
	)
	sess.Do(func(c *domain.Cart) {
		if sel.ProductWide() {
			removed = c.RemoveFromCart(sel.ProductID) != 0
		} else {
			removed = c.RemoveLine(sel.Key())
		}
		summary = c.Summary()
	})

	if removed {
		s.publish(ctx, sess, domain.CartEvent{
			Type:      domain.CartItemRemoved,
			ProductID: sel.ProductID,
			Size:      sel.Size,
			Color:     sel.Color,
		}, summary)
	}
	return summary
}

// UpdateQuantity sets the quantity of the selected lines.
// A non-positive quantity removes them. A quantity that would overflow
// the cart total leaves the cart unchanged.
func (s Service) UpdateQuantity(
	ctx context.Context, sel port.LineSelector, quantity int,
) (domain.CartSummary, error) {
	const op = "Service.UpdateQuantity"

	sess := session.MustFromContext(ctx)

	var (
		changed bool
		summary domain.CartSummary
		err     error
	)
	sess.Do(func(c *domain.Cart) {
		if sel.ProductWide() {
			var n int
			n, err = c.UpdateQuantity(sel.ProductID, quantity)
			changed = n != 0
		} else {
			changed, err = c.UpdateLineQuantity(sel.Key(), quantity)
		}
		summary = c.Summary()
	})
	if err != nil {
		return summary, fmt.Errorf("%s: %w", op, err)
	}

	if !changed {
		return summary, nil
	}

	evt := domain.CartEvent{
		Type:      domain.CartQuantityUpdated,
		ProductID: sel.ProductID,
		Size:      sel.Size,
		Color:     sel.Color,
		Quantity:  quantity,
	}
	if quantity <= 0 {
		evt.Type = domain.CartItemRemoved
		evt.Quantity = 0
	}
	s.publish(ctx, sess, evt, summary)

	return summary, nil
}

func (s Service) ClearCart(ctx context.Context) domain.CartSummary {
	sess := session.MustFromContext(ctx)

	var summary domain.CartSummary
	sess.Do(func(c *domain.Cart) {
		c.ClearCart()
		summary = c.Summary()
	})

	s.publish(ctx, sess, domain.CartEvent{Type: domain.CartCleared}, summary)
	return summary
}

// Cart returns the session cart summary, an empty one without a session.
func (s Service) Cart(ctx context.Context) domain.CartSummary {
	sess, ok := session.FromContext(ctx)
	if !ok {
		return domain.NewCart().Summary()
	}

	var summary domain.CartSummary
	sess.Do(func(c *domain.Cart) {
		summary = c.Summary()
	})
	return summary
}

// publish runs after the session lock is released. Events of concurrent
// requests of one session may therefore reach the broker out of order.
func (s Service) publish(
	ctx context.Context,
	sess *session.Session,
	evt domain.CartEvent,
	summary domain.CartSummary,
) {
	const op = "Service.publish"

	if s.cartEventPub == nil {
		return
	}

	evt.SessionID = sess.ID()
	evt.TotalItems = summary.TotalItems
	evt.TotalPrice = summary.TotalPrice
	evt.OccurredAt = s.now()

	err := s.cartEventPub.PublishCartEvent(ctx, evt)
	if err != nil {
		slog.Warn(
			"failed to publish cart event",
			"op", op, "type", evt.Type, "productID", evt.ProductID, "err", err,
		)
	}
}
