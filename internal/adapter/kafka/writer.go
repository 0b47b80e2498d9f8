// Package kafka publishes pivoted chart rows to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/storm-data-hurricane-chart/internal/config"
	"github.com/couchcryptid/storm-data-hurricane-chart/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// RowMessage is the JSON value of one published chart row.
type RowMessage struct {
	Basin   domain.Basin  `json:"basin"`
	Label   string        `json:"label"`
	Metric  domain.Metric `json:"metric"`
	Seasons []uint16      `json:"seasons"`
	Values  []float64     `json:"values"`
}

// Writer produces chart rows to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured chart topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one message per row of t, keyed by basin, in a single
// WriteMessages call.
func (w *Writer) Publish(ctx context.Context, t domain.ChartTable) error {
	if len(t.Rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(t.Rows))
	for i, row := range t.Rows {
		msg, err := serializeToMessage(t, row)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write chart rows to %s: %w", w.writer.Topic, err)
	}
	w.logger.Info("chart rows published", "topic", w.writer.Topic, "metric", t.Metric, "rows", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one chart row into a Kafka message.
func serializeToMessage(t domain.ChartTable, row domain.ChartRow) (kafkago.Message, error) {
	data, err := json.Marshal(RowMessage{
		Basin:   row.Basin,
		Label:   row.Basin.Label(),
		Metric:  t.Metric,
		Seasons: t.Seasons,
		Values:  row.Values,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize chart row %s: %w", row.Basin, err)
	}
	return kafkago.Message{
		Key:   []byte(row.Basin),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "metric", Value: []byte(t.Metric)},
			{Key: "generated_at", Value: []byte(t.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}

// DecodeRowMessage parses a message produced by Writer.
func DecodeRowMessage(msg kafkago.Message) (RowMessage, error) {
	var row RowMessage
	if err := json.Unmarshal(msg.Value, &row); err != nil {
		return RowMessage{}, fmt.Errorf("decode chart row: %w", err)
	}
	if len(row.Seasons) != len(row.Values) {
		return RowMessage{}, fmt.Errorf("decode chart row %s: %d seasons but %d values", row.Basin, len(row.Seasons), len(row.Values))
	}
	return row, nil
}
