package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/community-league/internal/domain/replication"
)

// OutboxRepository holds pending replication operations in process memory.
// Pending operations are lost on restart.
type OutboxRepository struct {
	mu  sync.Mutex
	ops map[string]replication.Operation
}

func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{ops: make(map[string]replication.Operation)}
}

func (r *OutboxRepository) Append(_ context.Context, op replication.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ops[op.ID] = op
	return nil
}

func (r *OutboxRepository) ListPending(_ context.Context, limit int) ([]replication.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]replication.Operation, 0, len(r.ops))
	for _, op := range r.ops {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *OutboxRepository) MarkDone(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		delete(r.ops, id)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.ops[id]
	if !ok {
		return nil
	}
	op.Attempts++
	op.LastError = reason
	r.ops[id] = op
	return nil
}
