package purchaseevents

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/model"
	"github.com/Sudarshanganwani9/EduLearn-Learning-Platform/internal/pgmq"

	"github.com/rs/zerolog"
)

// EventType is set as the event_type attribute of every published message.
const EventType = "purchase.created"

// Queue is the subset of the pgmq client the relay needs.
type Queue interface {
	ReadWithPoll(ctx context.Context, queue string, visibilitySec, maxMessages, pollSec int) ([]*pgmq.Message, error)
	Send(ctx context.Context, queue string, payload []byte) (int64, error)
	Delete(ctx context.Context, queue string, msgIDs []int64) error
	Archive(ctx context.Context, queue string, msgIDs []int64) error
}

// Publisher delivers an event to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte, attrs map[string]string) (string, error)
}

// Options configures the relay.
type Options struct {
	Queue         string
	DeadLetter    string
	Topic         string
	VisibilitySec int
	MaxMessages   int
	PollSec       int
	// MaxRetries is how many reads a message gets before it is dead-lettered.
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// Run relays purchase events from the outbox queue to Pub/Sub until ctx is
// cancelled. A message is deleted only after it was published, so delivery is
// at least once; consumers dedupe on event_id.
func Run(ctx context.Context, logger zerolog.Logger, queue Queue, publisher Publisher, opts Options) error {
	logger = logger.With().Str("orchestrator", "purchase-events").Str("queue", opts.Queue).Logger()
	logger.Info().Str("topic", opts.Topic).Msg("Starting purchase events orchestrator")

	backoff := opts.BackoffInitial
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Shutting down purchase events orchestrator")
			return nil
		default:
		}

		msgs, err := queue.ReadWithPoll(ctx, opts.Queue, opts.VisibilitySec, opts.MaxMessages, opts.PollSec)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logger.Error().Err(err).Dur("backoff", backoff).Msg("Error reading purchase events queue")
			sleep(ctx, backoff)
			backoff = next(backoff, opts.BackoffMax)
			continue
		}

		failed := false
		for _, msg := range msgs {
			if !relay(ctx, logger, queue, publisher, opts, msg) {
				failed = true
			}
		}
		if failed {
			sleep(ctx, backoff)
			backoff = next(backoff, opts.BackoffMax)
			continue
		}
		backoff = opts.BackoffInitial
	}
}

// relay handles one message and reports whether it left the queue.
func relay(ctx context.Context, logger zerolog.Logger, queue Queue, publisher Publisher, opts Options, msg *pgmq.Message) bool {
	log := logger.With().Int64("msg_id", msg.ID).Int("read_count", msg.ReadCount).Logger()

	if opts.MaxRetries > 0 && msg.ReadCount > opts.MaxRetries {
		log.Warn().Int("max_retries", opts.MaxRetries).Msg("Exhausted purchase event retries; moving message to DLQ")
		return deadLetter(ctx, log, queue, opts, msg)
	}

	var event model.PurchaseEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil || event.EventID == "" {
		log.Error().Err(err).Msg("Malformed purchase event; moving message to DLQ")
		return deadLetter(ctx, log, queue, opts, msg)
	}

	attrs := map[string]string{
		"event_type":   EventType,
		"event_id":     event.EventID,
		"course_id":    event.CourseID,
		"student_id":   event.StudentID,
		"amount_cents": strconv.FormatInt(event.AmountCents, 10),
	}
	pubID, err := publisher.Publish(ctx, opts.Topic, msg.Data, attrs)
	if err != nil {
		// The message becomes visible again after the visibility timeout.
		log.Error().Err(err).Str("event_id", event.EventID).Msg("Failed to publish purchase event")
		return false
	}

	if err := queue.Delete(ctx, opts.Queue, []int64{msg.ID}); err != nil {
		log.Error().Err(err).Str("event_id", event.EventID).Msg("Error deleting published purchase event")
		return false
	}
	log.Info().
		Str("event_id", event.EventID).
		Str("purchase_id", event.PurchaseID).
		Str("pubsub_id", pubID).
		Msg("Purchase event published")
	return true
}

func deadLetter(ctx context.Context, log zerolog.Logger, queue Queue, opts Options, msg *pgmq.Message) bool {
	if opts.DeadLetter != "" {
		if _, err := queue.Send(ctx, opts.DeadLetter, msg.Data); err != nil {
			log.Error().Err(err).Str("dlq", opts.DeadLetter).Msg("Failed to send message to dead-letter queue")
			return false
		}
	}
	if err := queue.Archive(ctx, opts.Queue, []int64{msg.ID}); err != nil {
		log.Error().Err(err).Msg("Error archiving dead-lettered purchase event")
		return false
	}
	return true
}

func next(d, limit time.Duration) time.Duration {
	d *= 2
	if d > limit {
		return limit
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Validate reports configuration that would make the relay spin or drop events.
func (o Options) Validate() error {
	switch {
	case o.Queue == "":
		return fmt.Errorf("purchase events queue name is required")
	case o.Topic == "":
		return fmt.Errorf("purchase events topic is required")
	case o.MaxMessages <= 0:
		return fmt.Errorf("poll max messages must be positive, got %d", o.MaxMessages)
	case o.BackoffInitial <= 0 || o.BackoffMax < o.BackoffInitial:
		return fmt.Errorf("invalid backoff %s..%s", o.BackoffInitial, o.BackoffMax)
	}
	return nil
}
