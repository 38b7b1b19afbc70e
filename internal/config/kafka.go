package config

import "time"

// Kafka configures the cart event producer. Events are dropped when no
// address is configured.
type Kafka struct {
	Addresses          []string `env:"KAFKA_ADDRESSES" envSeparator:","`
	ClientID           string   `env:"KAFKA_CLIENT_ID" envDefault:"pos-station"`
	TopicCartItemAdded string   `env:"KAFKA_TOPIC_CART_ITEM_ADDED" envDefault:"pos.cart.item_added"`

	DeliveryTimeout time.Duration `env:"KAFKA_DELIVERY_TIMEOUT" envDefault:"5s"`
}

// Enabled reports whether at least one broker address is configured.
func (k Kafka) Enabled() bool {
	return len(k.Addresses) > 0
}
