package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SequenceRepository hands out strictly increasing sequence numbers per
// partition key.
type SequenceRepository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

var errEmptyPartitionKey = errors.New("partition key is required")

// queryRower is the part of *sql.DB the sequence store needs.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Sequences stores the last issued number per partition in event_sequences.
// Concurrent callers on the same key serialize on the row lock taken by the upsert.
type Sequences struct {
	db queryRower
}

func NewSequences(db *sql.DB) *Sequences {
	return &Sequences{db: db}
}

const nextSequenceSQL = `
INSERT INTO event_sequences (partition_key, last_sequence, updated_at)
VALUES ($1, 1, NOW())
ON CONFLICT (partition_key) DO UPDATE
SET last_sequence = event_sequences.last_sequence + 1,
    updated_at = NOW()
RETURNING last_sequence`

func (s *Sequences) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	partitionKey = strings.TrimSpace(partitionKey)
	if partitionKey == "" {
		return 0, errEmptyPartitionKey
	}

	var next int64
	if err := s.db.QueryRowContext(ctx, nextSequenceSQL, partitionKey).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence for %s: %w", partitionKey, err)
	}
	return next, nil
}
