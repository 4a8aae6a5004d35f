package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/codec"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.PopularityReader = (*PopularityView)(nil)

// A PopularityView serves the cart activity group table.
type PopularityView struct {
	gv *goka.View
}

func NewPopularityView(
	seedBrokers []string, group string,
) (*PopularityView, error) {
	const op = "NewPopularityView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		new(codec.Int64),
		withNonlogViewOpt(),
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &PopularityView{gv}, nil
}

const recoveredPollInterval = 200 * time.Millisecond

// Run starts syncing the view and marks wg done once the table is
// recovered. stopFn is called when the view stops.
func (v *PopularityView) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "PopularityView.Run"
	log := slog.With("op", op)

	defer wg.Done()

	go v.runView(ctx, stopFn)

	log.Info("recovering...")
	if v.waitRecovered(ctx) {
		log.Info("running")
	}
}

func (v *PopularityView) runView(ctx context.Context, stopFn context.CancelFunc) {
	const op = "PopularityView.runView"
	log := slog.With("op", op)

	defer stopFn()

	if err := v.gv.Run(ctx); err != nil {
		log.Error("unexpected fail on run", "err", err)
		return
	}
	log.Info("stopped")
}

func (v *PopularityView) waitRecovered(ctx context.Context) bool {
	ticker := time.NewTicker(recoveredPollInterval)
	defer ticker.Stop()

	for !v.gv.Recovered() {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}

// AddedToCart returns how many times productID was added to a cart.
// Unknown products have zero.
func (v *PopularityView) AddedToCart(
	ctx context.Context, productID string,
) (int64, error) {
	const op = "PopularityView.AddedToCart"

	if err := ctx.Err(); err != nil {
		return 0, opErr(err, op)
	}

	val, err := v.gv.Get(productID)
	if err != nil {
		return 0, opErr(err, op)
	}
	if val == nil {
		return 0, nil
	}

	count, ok := val.(int64)
	if !ok {
		return 0, opErr(
			fmt.Errorf("%w: %T", ErrInvalidValueType, val), op,
		)
	}
	return count, nil
}
