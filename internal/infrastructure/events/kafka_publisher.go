// Package events publica los eventos del libro de movimientos en Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/Equipos-api/internal/application/inventory"
	"github.com/jhoicas/Equipos-api/pkg/config"
	"github.com/jhoicas/Equipos-api/pkg/logger"
)

// publishTimeout tope para una publicación; el servicio no espera más que esto por Kafka.
const publishTimeout = 5 * time.Second

var _ inventory.EventPublisher = (*KafkaPublisher)(nil)

// messageWriter lo que se usa de *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica cada LedgerEvent como un mensaje JSON con clave = product_id,
// así los eventos de un mismo producto caen en la misma partición y conservan el orden.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
	log    *logger.Logger
}

// NewKafkaPublisher crea el productor. Sin brokers devuelve nil: el servicio usa entonces un publicador vacío.
func NewKafkaPublisher(cfg config.KafkaConfig, log *logger.Logger) *KafkaPublisher {
	if len(cfg.Brokers) == 0 {
		return nil
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		MaxAttempts:            3,
	}
	log.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("productor Kafka configurado")
	return &KafkaPublisher{writer: w, topic: cfg.Topic, log: log}
}

// Publish envía los eventos en un solo lote.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...inventory.LedgerEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("serializar evento %s: %w", ev.Kind, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.ProductID),
			Value: data,
			Time:  ev.At,
			Headers: []kafka.Header{
				{Key: "kind", Value: []byte(ev.Kind)},
			},
		})
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka %s: %w", p.topic, err)
	}
	p.log.Debug().Str("topic", p.topic).Int("count", len(msgs)).Msg("eventos del libro publicados")
	return nil
}

// Close cierra el productor.
func (p *KafkaPublisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
