// Package storage records conversion runs in NATS KV.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/c360studio/aboxer/aboxer"
)

// BucketRuns is the default bucket name for conversion runs.
const BucketRuns = "ABOXER_RUNS"

// RunStatus represents the status of a run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one conversion of one input.
type Run struct {
	ID           string         `json:"id"`
	Input        string         `json:"input"`
	Output       string         `json:"output,omitempty"`
	Format       string         `json:"format"`
	Status       RunStatus      `json:"status"`
	Axioms       int            `json:"axioms"`
	Blacklisted  []string       `json:"blacklisted,omitempty"`
	Stats        aboxer.Stats   `json:"stats"`
	Skipped      int            `json:"skipped,omitempty"`
	Error        string         `json:"error,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
	StatusChange []StatusChange `json:"status_changes,omitempty"`
}

// StatusChange records a status transition.
type StatusChange struct {
	From      RunStatus `json:"from"`
	To        RunStatus `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// KeyValue is the part of jetstream.KeyValue used by Store.
type KeyValue interface {
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Put(ctx context.Context, key string, value []byte) (uint64, error)
	Keys(ctx context.Context, opts ...jetstream.WatchOpt) ([]string, error)
}

// Store provides run storage operations backed by NATS KV.
type Store struct {
	runs KeyValue
	now  func() time.Time
}

// NewStore creates a new Store with the given JetStream context.
// It creates the bucket if it doesn't exist.
func NewStore(ctx context.Context, js jetstream.JetStream, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = BucketRuns
	}
	runs, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("create runs bucket: %w", err)
	}
	return NewStoreWithBucket(runs), nil
}

// NewStoreWithBucket creates a Store on an existing bucket.
func NewStoreWithBucket(kv KeyValue) *Store {
	return &Store{runs: kv, now: time.Now}
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Aboxer %s storage", strings.ToLower(name)),
		History:     5, // Keep last 5 revisions
	})
}

// StartRun stores a new running run for input and returns it.
func (s *Store) StartRun(ctx context.Context, input, format string) (*Run, error) {
	r := &Run{
		ID:        uuid.New().String(),
		Input:     input,
		Format:    format,
		Status:    RunStatusRunning,
		StartedAt: s.now(),
	}
	if err := s.put(ctx, r); err != nil {
		return nil, fmt.Errorf("store run: %w", err)
	}
	return r, nil
}

// FinishRun marks r complete, or failed when runErr is not nil, and stores it.
func (s *Store) FinishRun(ctx context.Context, r *Run, runErr error) error {
	now := s.now()
	next := RunStatusComplete
	if runErr != nil {
		next = RunStatusFailed
		r.Error = runErr.Error()
	}
	r.StatusChange = append(r.StatusChange, StatusChange{
		From:      r.Status,
		To:        next,
		Timestamp: now,
	})
	r.Status = next
	r.CompletedAt = &now

	if err := s.put(ctx, r); err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, r *Run) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	_, err = s.runs.Put(ctx, r.ID, data)
	return err
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	entry, err := s.runs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get run: %w", err)
	}

	var r Run
	if err := json.Unmarshal(entry.Value(), &r); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &r, nil
}

// ListRuns returns all runs, most recent first. A non-empty input keeps only
// the runs of that input.
func (s *Store) ListRuns(ctx context.Context, input string) ([]*Run, error) {
	keys, err := s.runs.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list run keys: %w", err)
	}

	runs := make([]*Run, 0, len(keys))
	for _, key := range keys {
		r, err := s.GetRun(ctx, key)
		if err != nil {
			continue // Skip entries that fail to load
		}
		if input != "" && r.Input != input {
			continue
		}
		runs = append(runs, r)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})
	return runs, nil
}

// LatestRun returns the most recent run of input.
func (s *Store) LatestRun(ctx context.Context, input string) (*Run, error) {
	runs, err := s.ListRuns(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, ErrNotFound
	}
	return runs[0], nil
}
