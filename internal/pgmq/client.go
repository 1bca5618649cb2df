package pgmq

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx, so a message can
// be sent inside the transaction that produced it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Client wraps a Postgres pool for pgmq queue operations.
type Client struct {
	db Querier
}

// New returns a new PGMQ client backed by the given pool.
func New(db Querier) *Client {
	return &Client{db: db}
}

// Message represents a single pgmq message.
type Message struct {
	ID         int64     // message identifier
	ReadCount  int       // times the message has been read, including this one
	EnqueuedAt time.Time // when the message was sent
	Data       []byte    // raw JSON payload
}

// Send pushes a JSON payload into the given queue using the client's pool.
func (c *Client) Send(ctx context.Context, queue string, payload []byte) (int64, error) {
	return Send(ctx, c.db, queue, payload)
}

// Send pushes a JSON payload into the queue through q, which may be a transaction.
func Send(ctx context.Context, q Querier, queue string, payload []byte) (int64, error) {
	rows, err := q.Query(ctx, "SELECT pgmq.send($1, $2::jsonb, 0)", queue, string(payload))
	if err != nil {
		return 0, fmt.Errorf("pgmq send failed: %w", err)
	}
	id, err := pgx.CollectExactlyOneRow(rows, pgx.RowTo[int64])
	if err != nil {
		return 0, fmt.Errorf("pgmq send failed: %w", err)
	}
	return id, nil
}

// ReadWithPoll reads up to maxMessages from the queue, blocking up to pollSec
// seconds for messages to arrive. Read messages stay invisible for visibilitySec.
func (c *Client) ReadWithPoll(ctx context.Context, queue string, visibilitySec, maxMessages, pollSec int) ([]*Message, error) {
	query := "SELECT msg_id, read_ct, enqueued_at, message FROM pgmq.read_with_poll($1, $2, $3, $4)"
	rows, err := c.db.Query(ctx, query, queue, visibilitySec, maxMessages, pollSec)
	if err != nil {
		return nil, fmt.Errorf("pgmq read_with_poll failed: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ReadCount, &m.EnqueuedAt, &m.Data); err != nil {
			return nil, fmt.Errorf("pgmq read scan failed: %w", err)
		}
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgmq read rows error: %w", err)
	}
	return msgs, nil
}

// Delete removes messages by their IDs from the specified queue.
func (c *Client) Delete(ctx context.Context, queue string, msgIDs []int64) error {
	if _, err := c.db.Exec(ctx, "SELECT pgmq.delete($1, $2::bigint[])", queue, msgIDs); err != nil {
		return fmt.Errorf("pgmq delete failed: %w", err)
	}
	return nil
}

// Archive moves messages to the queue's archive table.
func (c *Client) Archive(ctx context.Context, queue string, msgIDs []int64) error {
	if _, err := c.db.Exec(ctx, "SELECT pgmq.archive($1, $2::bigint[])", queue, msgIDs); err != nil {
		return fmt.Errorf("pgmq archive failed: %w", err)
	}
	return nil
}
