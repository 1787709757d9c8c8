package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/inventario-service/internal/domain/entity"
)

// messageWriter subconjunto de *kafka.Writer usado por el sink.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaSink publica eventos en un topic de Kafka con el producto como clave (orden por producto).
type KafkaSink struct {
	w messageWriter
}

func NewKafkaSink(w messageWriter) *KafkaSink {
	return &KafkaSink{w: w}
}

// NewKafkaWriter construye el writer hacia brokers/topic con particionado por hash de la clave.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Publish(ctx context.Context, ev entity.ChangeEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	return s.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(ev.ProductID, 10)),
		Value: body,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-id", Value: []byte(ev.ID)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	})
}
