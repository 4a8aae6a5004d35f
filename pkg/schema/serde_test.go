package schema_test

import (
	"context"
	"errors"
	"testing"

	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeCartEventV1(t *testing.T) {
	const subject = "testTopic-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeCartEventV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("SameOptTwice", func(t *testing.T) {
		_, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SubjectOpt(subject),
		)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("EmptySubject", func(t *testing.T) {
		_, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SubjectOpt(""),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		assert.Error(t, err)
	})

	t.Run("IdentifierError", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		registryErr := errors.New("testRegistryErr")
		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.CartEventSchemaTextV1,
		).Return(0, registryErr)

		_, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		assert.ErrorIs(t, err, registryErr)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.CartEventSchemaTextV1,
		).Return(1, nil)

		serde, err := schema.NewSerdeCartEventV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)
		schemaIdentifier.AssertExpectations(t)

		evt1 := schema.CartEventV1{
			SessionID:  "testSessionID",
			Type:       "item_added",
			ProductID:  "1",
			Size:       "M",
			Color:      "Đỏ",
			Quantity:   2,
			TotalItems: 3,
			TotalPrice: 5300000,
			OccurredAt: 1734652800000,
		}

		encodedData, err := serde.Encode(evt1)
		require.NoError(t, err)

		var evt2 schema.CartEventV1
		err = serde.Decode(encodedData, &evt2)
		require.NoError(t, err)

		assert.Equal(t, evt1, evt2)
	})
}

func TestTopicSubject(t *testing.T) {
	assert.Equal(t, "cart-events-value", schema.TopicSubject("cart-events"))
}
