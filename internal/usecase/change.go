package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/community-league/internal/domain/replication"
	"github.com/riskibarqy/community-league/internal/platform/logging"
)

// Change describes one committed local write. Entity holds the stored value
// (game.Game or matchresult.MatchResult) and is nil for deletions.
type Change struct {
	Kind      replication.Kind
	EntityID  string
	Deleted   bool
	Entity    any
	UpdatedAt time.Time
}

// ChangeRecorder is notified after a local write succeeds.
type ChangeRecorder interface {
	RecordChange(ctx context.Context, change Change) error
}

type multiRecorder []ChangeRecorder

// MultiRecorder fans a change out to every non-nil recorder in order.
func MultiRecorder(recorders ...ChangeRecorder) ChangeRecorder {
	out := make(multiRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (m multiRecorder) RecordChange(ctx context.Context, change Change) error {
	var firstErr error
	for _, r := range m {
		if err := r.RecordChange(ctx, change); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// notifyChange never fails the caller: the local write already committed and
// a later Pull or Push reconciles the remote copy.
func notifyChange(ctx context.Context, recorder ChangeRecorder, change Change) {
	if recorder == nil {
		return
	}
	if err := recorder.RecordChange(ctx, change); err != nil {
		logging.Default().WarnContext(ctx, "record change failed",
			"kind", string(change.Kind),
			"entity_id", change.EntityID,
			"deleted", change.Deleted,
			"error", err,
		)
	}
}
