package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/pos-station/internal/config"
)

var tracer = otel.Tracer("internal/storage/mq")

type ProduceMsg struct {
	Topic        string
	Headers      map[string]string
	Payload      []byte
	PartitionKey *string
}

type Producer interface {
	Produce(ctx context.Context, msg ProduceMsg) error
}

var (
	_ Producer = (*KafkaProducer)(nil)
	_ Producer = NoopProducer{}
)

type KafkaProducer struct {
	cl              *kgo.Client
	deliveryTimeout time.Duration
}

// NewKafkaProducer connects to the configured brokers. It must be called
// after the global tracer provider is installed so the kotel hooks pick it up.
func NewKafkaProducer(ctx context.Context, cfg config.Kafka) (*KafkaProducer, error) {
	k := kotel.NewKotel(kotel.WithTracer(kotel.NewTracer(
		kotel.TracerProvider(otel.GetTracerProvider()),
		kotel.TracerPropagator(otel.GetTextMapPropagator()),
	)))

	opts := append(clientOptions(cfg),
		kgo.WithContext(ctx),
		kgo.WithHooks(k.Hooks()...),
	)
	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := cl.Ping(pingCtx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}

	return &KafkaProducer{cl: cl, deliveryTimeout: cfg.DeliveryTimeout}, nil
}

// clientOptions bounds every produce by the delivery timeout. franz-go
// otherwise retries an unreachable broker forever.
func clientOptions(cfg config.Kafka) []kgo.Opt {
	return []kgo.Opt{
		kgo.SeedBrokers(cfg.Addresses...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.TopicCartItemAdded),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.AllowAutoTopicCreation(),
		kgo.RecordDeliveryTimeout(cfg.DeliveryTimeout),
	}
}

func (p *KafkaProducer) Produce(ctx context.Context, msg ProduceMsg) error {
	ctx, span := tracer.Start(ctx, "KafkaProducer.Produce",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int("messaging.message.body.size", len(msg.Payload)),
		),
	)
	defer span.End()

	if p.deliveryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.deliveryTimeout)
		defer cancel()
	}

	if err := p.cl.ProduceSync(ctx, buildProduceRecord(msg)).FirstErr(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to produce message")
		return fmt.Errorf("produce to %s: %w", msg.Topic, err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (p *KafkaProducer) Close() {
	p.cl.Close()
}

// NoopProducer drops every message. It stands in when no broker is configured.
type NoopProducer struct{}

func (NoopProducer) Produce(context.Context, ProduceMsg) error { return nil }

func buildProduceRecord(msg ProduceMsg) *kgo.Record {
	headers := make([]kgo.RecordHeader, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kgo.RecordHeader{
			Key:   k,
			Value: []byte(v),
		})
	}

	r := &kgo.Record{
		Topic:   msg.Topic,
		Value:   msg.Payload,
		Headers: headers,
	}

	if msg.PartitionKey != nil {
		r.Key = []byte(*msg.PartitionKey)
	}

	return r
}
