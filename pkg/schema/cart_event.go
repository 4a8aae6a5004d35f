package schema

const CartEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "cart_event",
	"fields": [
		{"name": "session_id", "type": "string"},
		{"name": "type", "type": "string"},
		{"name": "product_id", "type": "string"},
		{"name": "size", "type": "string"},
		{"name": "color", "type": "string"},
		{"name": "quantity", "type": "int"},
		{"name": "total_items", "type": "int"},
		{"name": "total_price", "type": "long"},
		{"name": "occurred_at", "type": "long"}
	]
}`

// CartEventV1 is a cart change. OccurredAt holds unix milliseconds.
type CartEventV1 struct {
	SessionID  string `avro:"session_id"`
	Type       string `avro:"type"`
	ProductID  string `avro:"product_id"`
	Size       string `avro:"size"`
	Color      string `avro:"color"`
	Quantity   int    `avro:"quantity"`
	TotalItems int    `avro:"total_items"`
	TotalPrice int64  `avro:"total_price"`
	OccurredAt int64  `avro:"occurred_at"`
}
