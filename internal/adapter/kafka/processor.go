package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/lovoo/goka/codec"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var _ port.CartActivityProcessor = (*CartActivityProcessor)(nil)

// A processor runs and stops a [goka.Processor] on behalf of the
// exported processors that embed it.
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	if p.waitForReady(ctx) {
		log.Info("running")
	}
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) bool {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Error("fall down while preparing", "err", err)
		}
		return false
	}
	return true
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A cartEventCodec encodes and decodes [schema.CartEventV1] values.
type cartEventCodec struct {
	serde Serde
}

func newCartEventCodec(s Serde) cartEventCodec {
	return cartEventCodec{s}
}

func (c cartEventCodec) Encode(v any) ([]byte, error) {
	const op = "cartEventCodec.Encode"
	if _, ok := v.(schema.CartEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c cartEventCodec) Decode(data []byte) (any, error) {
	const op = "cartEventCodec.Decode"
	var s schema.CartEventV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A CartActivityProcessor counts item_added cart events per product
// from the cart events stream into its group table.
type CartActivityProcessor struct {
	opPrefix string
	proc     processor
}

func NewCartActivityProc(
	seedBrokers []string,
	inputStream string,
	group string,
	cartEventSerde Serde,
) (*CartActivityProcessor, error) {
	const op = "NewCartActivityProc"

	p := CartActivityProcessor{opPrefix: "CartActivityProcessor"}

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newCartEventCodec(cartEventSerde),
			p.processFn,
		),
		goka.Persist(new(codec.Int64)),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}

	return &p, nil
}

func (p *CartActivityProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *CartActivityProcessor) Close() {
	p.proc.close()
}

func (p *CartActivityProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"

	event, _ := msg.(schema.CartEventV1)
	count, ok := nextAddedCount(ctx.Value(), event)
	if !ok {
		return
	}
	ctx.SetValue(count)

	slog.Debug(
		"added to cart",
		"op", makeOp(p.opPrefix, op),
		"productID", event.ProductID,
		"count", count,
	)
}

// nextAddedCount returns the counter after event, false when event
// does not change it.
func nextAddedCount(current any, event schema.CartEventV1) (int64, bool) {
	if event.Type != string(domain.CartItemAdded) || event.ProductID == "" {
		return 0, false
	}
	count, _ := current.(int64)
	return count + 1, true
}
