package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/community-league/internal/domain/replication"
	qb "github.com/riskibarqy/community-league/internal/platform/querybuilder"
)

var outboxSelectColumns = []string{
	"public_id",
	"kind",
	"entity_id",
	"deleted",
	"payload",
	"entity_updated_at",
	"attempts",
	"last_error",
	"created_at",
	"done_at",
}

type OutboxRepository struct {
	db *sqlx.DB
}

func NewOutboxRepository(db *sqlx.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Append(ctx context.Context, op replication.Operation) error {
	query := r.db.Rebind(`
INSERT INTO replication_outbox (public_id, kind, entity_id, deleted, payload, entity_updated_at, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query,
		op.ID,
		string(op.Kind),
		op.EntityID,
		op.Deleted,
		jsonbParam(op.Payload),
		op.UpdatedAt.UTC(),
		op.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert outbox operation id=%s: %w", op.ID, err)
	}
	return nil
}

func (r *OutboxRepository) ListPending(ctx context.Context, limit int) ([]replication.Operation, error) {
	builder := qb.Select(outboxSelectColumns...).From("replication_outbox").
		Where(qb.IsNull("done_at")).
		OrderBy("created_at", "id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select pending outbox query: %w", err)
	}

	var rows []outboxTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select pending outbox: %w", err)
	}

	out := make([]replication.Operation, 0, len(rows))
	for _, row := range rows {
		out = append(out, operationFromRow(row))
	}
	return out, nil
}

func (r *OutboxRepository) MarkDone(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := qb.Update("replication_outbox").
		SetExpr("done_at", "NOW()").
		Where(qb.Expr("public_id = ANY(?)", pq.Array(ids)), qb.IsNull("done_at")).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark outbox done query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark outbox done count=%d: %w", len(ids), err)
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id, reason string) error {
	query, args, err := qb.Update("replication_outbox").
		SetExpr("attempts", "attempts + 1").
		Set("last_error", reason).
		Where(qb.Eq("public_id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark outbox failed query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark outbox failed id=%s: %w", id, err)
	}
	return nil
}

func operationFromRow(row outboxTableModel) replication.Operation {
	return replication.Operation{
		ID:        row.PublicID,
		Kind:      replication.Kind(row.Kind),
		EntityID:  row.EntityID,
		Deleted:   row.Deleted,
		Payload:   row.Payload,
		UpdatedAt: row.EntityUpdatedAt.UTC(),
		Attempts:  row.Attempts,
		LastError: row.LastError.String,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

// jsonbParam keeps lib/pq from sending JSON as bytea; empty payloads become NULL.
func jsonbParam(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
