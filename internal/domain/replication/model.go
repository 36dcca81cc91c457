package replication

import "time"

// Kind names the remote collection an entity replicates into.
type Kind string

const (
	KindGame        Kind = "games"
	KindMatchResult Kind = "match_results"
)

// Operation is one pending local write waiting to be pushed to the remote store.
type Operation struct {
	ID        string
	Kind      Kind
	EntityID  string
	Deleted   bool
	Payload   []byte
	UpdatedAt time.Time
	Attempts  int
	LastError string
	CreatedAt time.Time
}

// Document is the remote representation of an entity. Deleted documents are
// kept as tombstones so last-write-wins merges see the deletion time.
type Document struct {
	ID        string
	UpdatedAt time.Time
	Deleted   bool
	Data      []byte
}
