package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/community-league/internal/domain/game"
	"github.com/riskibarqy/community-league/internal/domain/matchresult"
	"github.com/riskibarqy/community-league/internal/domain/replication"
	"github.com/riskibarqy/community-league/internal/domain/scoring"
	"github.com/riskibarqy/community-league/internal/platform/id"
	"github.com/riskibarqy/community-league/internal/platform/logging"
)

type ReplicationConfig struct {
	BatchSize int
	Workers   int
}

type PushReport struct {
	Pending   int      `json:"pending"`
	Pushed    int      `json:"pushed"`
	Collapsed int      `json:"collapsed"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

type PullReport struct {
	Fetched int      `json:"fetched"`
	Applied int      `json:"applied"`
	Deleted int      `json:"deleted"`
	Skipped int      `json:"skipped"`
	Invalid int      `json:"invalid"`
	Errors  []string `json:"errors,omitempty"`
}

type SyncReport struct {
	Push PushReport `json:"push"`
	Pull PullReport `json:"pull"`
}

// ReplicationService mirrors games and results to the remote document store.
// Local writes land in an outbox first; Push drains it and Pull merges remote
// documents back with last-write-wins on UpdatedAt.
type ReplicationService struct {
	outbox     replication.Outbox
	remote     replication.RemoteStore
	gameRepo   game.Repository
	resultRepo matchresult.Repository
	idGen      id.Generator
	applied    ChangeRecorder
	cfg        ReplicationConfig
	logger     *logging.Logger
	now        func() time.Time
}

func NewReplicationService(
	outbox replication.Outbox,
	remote replication.RemoteStore,
	gameRepo game.Repository,
	resultRepo matchresult.Repository,
	idGen id.Generator,
	applied ChangeRecorder,
	cfg ReplicationConfig,
	logger *logging.Logger,
) *ReplicationService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ReplicationService{
		outbox:     outbox,
		remote:     remote,
		gameRepo:   gameRepo,
		resultRepo: resultRepo,
		idGen:      idGen,
		applied:    applied,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// RecordChange appends a local write to the outbox.
func (s *ReplicationService) RecordChange(ctx context.Context, change Change) error {
	payload, err := encodeEntity(change)
	if err != nil {
		return err
	}
	opID, err := s.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate operation id: %w", err)
	}

	updatedAt := change.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = s.now()
	}
	op := replication.Operation{
		ID:        opID,
		Kind:      change.Kind,
		EntityID:  change.EntityID,
		Deleted:   change.Deleted,
		Payload:   payload,
		UpdatedAt: updatedAt.UTC(),
		CreatedAt: s.now().UTC(),
	}
	if err := s.outbox.Append(ctx, op); err != nil {
		return crerr.Wrapf(err, "append outbox %s %s", change.Kind, change.EntityID)
	}
	return nil
}

// Push sends up to BatchSize pending operations. Operations for the same
// entity are collapsed to the newest one so workers never race on a document.
func (s *ReplicationService) Push(ctx context.Context) (PushReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReplicationService.Push")
	defer span.End()

	pending, err := s.outbox.ListPending(ctx, s.cfg.BatchSize)
	if err != nil {
		return PushReport{}, fmt.Errorf("list pending operations: %w", err)
	}
	report := PushReport{Pending: len(pending)}
	if len(pending) == 0 {
		return report, nil
	}

	latest, superseded := collapseOperations(pending)
	report.Collapsed = len(superseded)

	type outcome struct {
		op  replication.Operation
		err error
	}
	results := make(chan outcome, len(latest))

	pool, err := ants.NewPool(min(s.cfg.Workers, len(latest)))
	if err != nil {
		return report, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, op := range latest {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			err := s.remote.Put(ctx, op.Kind, replication.Document{
				ID:        op.EntityID,
				UpdatedAt: op.UpdatedAt,
				Deleted:   op.Deleted,
				Data:      op.Payload,
			})
			results <- outcome{op: op, err: err}
		}); err != nil {
			workers.Done()
			results <- outcome{op: op, err: fmt.Errorf("submit push to worker pool: %w", err)}
		}
	}
	workers.Wait()
	close(results)

	done := append([]string(nil), superseded...)
	for res := range results {
		if res.err == nil {
			done = append(done, res.op.ID)
			report.Pushed++
			continue
		}

		report.Failed++
		report.Errors = append(report.Errors, fmt.Sprintf("%s/%s: %v", res.op.Kind, res.op.EntityID, res.err))
		if markErr := s.outbox.MarkFailed(ctx, res.op.ID, res.err.Error()); markErr != nil {
			s.logger.WarnContext(ctx, "mark outbox operation failed", "operation_id", res.op.ID, "error", markErr)
		}
	}
	sort.Strings(report.Errors)

	if len(done) > 0 {
		if err := s.outbox.MarkDone(ctx, done); err != nil {
			return report, fmt.Errorf("mark operations done: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "replication push finished",
		"pending", report.Pending,
		"pushed", report.Pushed,
		"collapsed", report.Collapsed,
		"failed", report.Failed,
	)
	return report, nil
}

// Pull merges remote documents into the local store. A remote document wins
// only when it is strictly newer than the local copy; tombstones delete.
func (s *ReplicationService) Pull(ctx context.Context) (PullReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReplicationService.Pull")
	defer span.End()

	var report PullReport

	games, err := s.remote.List(ctx, replication.KindGame)
	if err != nil {
		return report, crerr.Wrap(err, "list remote games")
	}
	results, err := s.remote.List(ctx, replication.KindMatchResult)
	if err != nil {
		return report, crerr.Wrap(err, "list remote results")
	}
	report.Fetched = len(games) + len(results)

	for _, doc := range games {
		if err := s.mergeGame(ctx, doc, &report); err != nil {
			return report, err
		}
	}
	for _, doc := range results {
		if err := s.mergeResult(ctx, doc, &report); err != nil {
			return report, err
		}
	}

	s.logger.InfoContext(ctx, "replication pull finished",
		"fetched", report.Fetched,
		"applied", report.Applied,
		"deleted", report.Deleted,
		"skipped", report.Skipped,
		"invalid", report.Invalid,
	)
	return report, nil
}

func (s *ReplicationService) Sync(ctx context.Context) (SyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReplicationService.Sync")
	defer span.End()

	push, err := s.Push(ctx)
	if err != nil {
		return SyncReport{Push: push}, err
	}
	pull, err := s.Pull(ctx)
	return SyncReport{Push: push, Pull: pull}, err
}

// Run syncs every interval until ctx is done.
func (s *ReplicationService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sync(ctx); err != nil {
				s.logger.WarnContext(ctx, "scheduled replication sync failed", "error", err)
			}
		}
	}
}

func (s *ReplicationService) mergeGame(ctx context.Context, doc replication.Document, report *PullReport) error {
	local, exists, err := s.gameRepo.GetByID(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("get game by id: %w", err)
	}
	if !remoteWins(doc, exists, local.UpdatedAt) {
		report.Skipped++
		return nil
	}

	if doc.Deleted {
		if err := s.gameRepo.Delete(ctx, doc.ID); err != nil {
			return fmt.Errorf("apply remote game delete: %w", err)
		}
		report.Deleted++
		s.notifyApplied(ctx, Change{Kind: replication.KindGame, EntityID: doc.ID, Deleted: true, UpdatedAt: doc.UpdatedAt})
		return nil
	}

	item, err := decodeGame(doc)
	if err != nil {
		report.Invalid++
		report.Errors = append(report.Errors, err.Error())
		return nil
	}
	if err := s.gameRepo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("apply remote game: %w", err)
	}
	report.Applied++
	s.notifyApplied(ctx, gameChange(item))
	return nil
}

func (s *ReplicationService) mergeResult(ctx context.Context, doc replication.Document, report *PullReport) error {
	local, exists, err := s.resultRepo.GetByID(ctx, doc.ID)
	if err != nil {
		return fmt.Errorf("get result by id: %w", err)
	}
	if !remoteWins(doc, exists, local.UpdatedAt) {
		report.Skipped++
		return nil
	}

	if doc.Deleted {
		if err := s.resultRepo.Delete(ctx, doc.ID); err != nil {
			return fmt.Errorf("apply remote result delete: %w", err)
		}
		report.Deleted++
		s.notifyApplied(ctx, Change{Kind: replication.KindMatchResult, EntityID: doc.ID, Deleted: true, UpdatedAt: doc.UpdatedAt})
		return nil
	}

	item, err := decodeResult(doc)
	if err == nil {
		err = scoring.ValidateLines(item.Lines)
	}
	if err != nil {
		report.Invalid++
		report.Errors = append(report.Errors, fmt.Sprintf("result %s: %v", doc.ID, err))
		return nil
	}

	// Another result may hold the same game locally; keep whichever is newer.
	if other, found, err := s.resultRepo.GetByGame(ctx, item.GameID); err != nil {
		return fmt.Errorf("get result by game: %w", err)
	} else if found && other.ID != item.ID && !item.UpdatedAt.After(other.UpdatedAt) {
		report.Skipped++
		return nil
	}

	item = scoring.ScoreResult(item)
	if err := s.resultRepo.Upsert(ctx, item); err != nil {
		return fmt.Errorf("apply remote result: %w", err)
	}
	report.Applied++
	s.notifyApplied(ctx, resultChange(item))
	return nil
}

func (s *ReplicationService) notifyApplied(ctx context.Context, change Change) {
	notifyChange(ctx, s.applied, change)
}

func remoteWins(doc replication.Document, localExists bool, localUpdatedAt time.Time) bool {
	if !localExists {
		return !doc.Deleted
	}
	return doc.UpdatedAt.After(localUpdatedAt)
}

// collapseOperations keeps the newest operation per entity. It returns the
// operations to push in creation order and the ids of superseded ones.
func collapseOperations(ops []replication.Operation) ([]replication.Operation, []string) {
	type key struct {
		kind replication.Kind
		id   string
	}
	newest := make(map[key]int, len(ops))
	for i, op := range ops {
		k := key{op.Kind, op.EntityID}
		if j, ok := newest[k]; !ok || !op.UpdatedAt.Before(ops[j].UpdatedAt) {
			newest[k] = i
		}
	}

	latest := make([]replication.Operation, 0, len(newest))
	var superseded []string
	for i, op := range ops {
		if newest[key{op.Kind, op.EntityID}] == i {
			latest = append(latest, op)
			continue
		}
		superseded = append(superseded, op.ID)
	}
	return latest, superseded
}
