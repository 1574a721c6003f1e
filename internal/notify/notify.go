package notify

import (
	"context"
	"time"

	"github.com/vaidashi/sales-analytics-pipeline/internal/analytics"
	"github.com/vaidashi/sales-analytics-pipeline/pkg/kafka"
	"github.com/vaidashi/sales-analytics-pipeline/pkg/logger"
)

// EventTypeRunCompleted identifies a successful pipeline run event
const EventTypeRunCompleted = "pipeline.run.completed"

// RunEvent is the payload published to Kafka after a completed run
type RunEvent struct {
	EventType   string                               `json:"event_type"`
	RunID       string                               `json:"run_id"`
	Timestamp   string                               `json:"timestamp"`
	Source      string                               `json:"source"`
	RowCount    int                                  `json:"row_count"`
	DurationMS  int64                                `json:"duration_ms"`
	Reports     map[string]analytics.ReportArtifacts `json:"reports"`
	PublishedAt time.Time                            `json:"published_at"`
}

// KafkaNotifier publishes run-completed events to a Kafka topic
type KafkaNotifier struct {
	producer *kafka.Producer
	topic    string
	logger   logger.Logger
	now      func() time.Time
}

// NewKafkaNotifier creates a new Kafka notifier
func NewKafkaNotifier(brokers []string, topic string, log logger.Logger) (*KafkaNotifier, error) {
	producer, err := kafka.NewProducer(brokers, log)

	if err != nil {
		return nil, err
	}

	return &KafkaNotifier{
		producer: producer,
		topic:    topic,
		logger:   log,
		now:      time.Now,
	}, nil
}

// RunCompleted publishes the run result, keyed by run ID
func (n *KafkaNotifier) RunCompleted(ctx context.Context, result analytics.RunResult) error {
	event := NewRunEvent(result, n.now())

	if err := n.producer.SendJSON(ctx, n.topic, result.RunID, event); err != nil {
		return err
	}

	n.logger.Info("Published run notification", "runID", result.RunID, "topic", n.topic)
	return nil
}

// Close closes the underlying producer
func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}

// NewRunEvent builds the wire event for a run result
func NewRunEvent(result analytics.RunResult, publishedAt time.Time) RunEvent {
	return RunEvent{
		EventType:   EventTypeRunCompleted,
		RunID:       result.RunID,
		Timestamp:   result.Timestamp,
		Source:      result.Source,
		RowCount:    result.RowCount,
		DurationMS:  result.Duration.Milliseconds(),
		Reports:     result.Reports,
		PublishedAt: publishedAt.UTC(),
	}
}
