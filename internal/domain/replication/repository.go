package replication

import "context"

// Outbox is the local write-ahead queue of operations not yet acknowledged remotely.
type Outbox interface {
	Append(ctx context.Context, op Operation) error
	ListPending(ctx context.Context, limit int) ([]Operation, error)
	MarkDone(ctx context.Context, ids []string) error
	MarkFailed(ctx context.Context, id, reason string) error
}

// RemoteStore is the remote document database.
type RemoteStore interface {
	Put(ctx context.Context, kind Kind, doc Document) error
	List(ctx context.Context, kind Kind) ([]Document, error)
}
