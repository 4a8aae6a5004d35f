package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type MockProducerClient struct {
	mock.Mock
}

func (m *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (m *MockProducerClient) Close() {
	m.Called()
}

type MockSerde struct {
	mock.Mock
}

func (m *MockSerde) Encode(v any) ([]byte, error) {
	args := m.Called(v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockSerde) Decode(data []byte, v any) error {
	args := m.Called(data, v)
	return args.Error(0)
}

func testCartEvent() domain.CartEvent {
	return domain.CartEvent{
		SessionID:  "testSessionID",
		Type:       domain.CartItemAdded,
		ProductID:  "1",
		Size:       "M",
		Color:      "Đỏ",
		Quantity:   2,
		TotalItems: 3,
		TotalPrice: 5300000,
		OccurredAt: time.UnixMilli(1734652800000),
	}
}

func TestCartEventsProducer(t *testing.T) {
	t.Run("TooFewOpts", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewCartEventsProducer(
				ProducerTestClientOpt(new(MockProducerClient)),
			)
		})
	})

	t.Run("NilEncoder", func(t *testing.T) {
		_, err := NewCartEventsProducer(
			ProducerTestClientOpt(new(MockProducerClient)),
			ProducerEncoderOpt(nil),
		)
		assert.Error(t, err)
	})

	t.Run("Publish", func(t *testing.T) {
		cl := new(MockProducerClient)
		encoder := new(MockSerde)
		evt := testCartEvent()
		payload := []byte("testPayload")

		encoder.On("Encode", cartEventToSchemaV1(evt)).Return(payload, nil)
		cl.On("ProduceSync", mock.Anything, mock.MatchedBy(
			func(rs []*kgo.Record) bool {
				return len(rs) == 1 &&
					string(rs[0].Key) == "1" &&
					string(rs[0].Value) == "testPayload"
			},
		)).Return(kgo.ProduceResults{{}})

		p, err := NewCartEventsProducer(
			ProducerTestClientOpt(cl),
			ProducerEncoderOpt(encoder),
		)
		require.NoError(t, err)

		err = p.PublishCartEvent(t.Context(), evt)
		require.NoError(t, err)
		cl.AssertExpectations(t)
		encoder.AssertExpectations(t)
	})

	t.Run("ProduceError", func(t *testing.T) {
		cl := new(MockProducerClient)
		encoder := new(MockSerde)
		produceErr := errors.New("testProduceErr")

		encoder.On("Encode", mock.Anything).Return([]byte("x"), nil)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: produceErr}})

		p, err := NewCartEventsProducer(
			ProducerTestClientOpt(cl),
			ProducerEncoderOpt(encoder),
		)
		require.NoError(t, err)

		err = p.PublishCartEvent(t.Context(), testCartEvent())
		assert.ErrorIs(t, err, produceErr)
	})

	t.Run("EncodeError", func(t *testing.T) {
		cl := new(MockProducerClient)
		encoder := new(MockSerde)
		encodeErr := errors.New("testEncodeErr")

		encoder.On("Encode", mock.Anything).Return(nil, encodeErr)

		p, err := NewCartEventsProducer(
			ProducerTestClientOpt(cl),
			ProducerEncoderOpt(encoder),
		)
		require.NoError(t, err)

		err = p.PublishCartEvent(t.Context(), testCartEvent())
		assert.ErrorIs(t, err, encodeErr)
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cl := new(MockProducerClient)
		p, err := NewCartEventsProducer(
			ProducerTestClientOpt(cl),
			ProducerEncoderOpt(new(MockSerde)),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		err = p.PublishCartEvent(ctx, testCartEvent())
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("Close", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("Close").Once()
		p, err := NewCartEventsProducer(
			ProducerTestClientOpt(cl),
			ProducerEncoderOpt(new(MockSerde)),
		)
		require.NoError(t, err)

		p.Close()
		cl.AssertExpectations(t)
	})
}

func TestCartEventMapping(t *testing.T) {
	evt := testCartEvent()

	s := cartEventToSchemaV1(evt)

	assert.Equal(t, schema.CartEventV1{
		SessionID:  "testSessionID",
		Type:       "item_added",
		ProductID:  "1",
		Size:       "M",
		Color:      "Đỏ",
		Quantity:   2,
		TotalItems: 3,
		TotalPrice: 5300000,
		OccurredAt: 1734652800000,
	}, s)

	assert.Equal(t, "1", cartEventKey(evt))
	assert.Equal(t, "testSessionID", cartEventKey(domain.CartEvent{
		SessionID: "testSessionID",
		Type:      domain.CartCleared,
	}))
}

func TestCartEventCodec(t *testing.T) {
	t.Run("EncodeInvalidType", func(t *testing.T) {
		c := newCartEventCodec(new(MockSerde))
		_, err := c.Encode("notAnEvent")
		assert.ErrorIs(t, err, ErrInvalidValueType)
	})

	t.Run("Decode", func(t *testing.T) {
		serde := new(MockSerde)
		data := []byte("testData")
		serde.On("Decode", data, mock.AnythingOfType("*schema.CartEventV1")).
			Run(func(args mock.Arguments) {
				s := args.Get(1).(*schema.CartEventV1)
				s.ProductID = "9"
				s.Type = "item_added"
			}).
			Return(nil)

		v, err := newCartEventCodec(serde).Decode(data)
		require.NoError(t, err)
		assert.Equal(t, schema.CartEventV1{ProductID: "9", Type: "item_added"}, v)
	})

	t.Run("DecodeError", func(t *testing.T) {
		serde := new(MockSerde)
		decodeErr := errors.New("testDecodeErr")
		serde.On("Decode", mock.Anything, mock.Anything).Return(decodeErr)

		_, err := newCartEventCodec(serde).Decode([]byte("x"))
		assert.ErrorIs(t, err, decodeErr)
	})
}

func TestNextAddedCount(t *testing.T) {
	added := schema.CartEventV1{Type: "item_added", ProductID: "1"}

	n, ok := nextAddedCount(nil, added)
	assert.True(t, ok)
	assert.Equal(t, int64(1), n)

	n, ok = nextAddedCount(int64(41), added)
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = nextAddedCount(int64(3), schema.CartEventV1{
		Type: "item_removed", ProductID: "1",
	})
	assert.False(t, ok)

	_, ok = nextAddedCount(nil, schema.CartEventV1{Type: "cart_cleared"})
	assert.False(t, ok)
}
