package docstore

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/riskibarqy/community-league/internal/domain/replication"
	"github.com/riskibarqy/community-league/internal/platform/resilience"
	"github.com/riskibarqy/community-league/internal/usecase"
)

func newTestClient(t *testing.T, handler fasthttp.RequestHandler, cfg ClientConfig) *Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go func() {
		_ = srv.Serve(ln)
	}()
	t.Cleanup(func() {
		_ = ln.Close()
	})

	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://docstore.test"
	}
	cfg.RetryBackoff = time.Millisecond
	cfg.Dial = func(string) (net.Conn, error) {
		return ln.Dial()
	}
	return NewClient(cfg)
}

func TestClientPutWritesDocument(t *testing.T) {
	var (
		gotPath   string
		gotMethod string
		gotAuth   string
		gotBody   documentPayload
	)
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		gotPath = string(ctx.Path())
		gotMethod = string(ctx.Method())
		gotAuth = string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
		_ = sonic.Unmarshal(ctx.PostBody(), &gotBody)
		ctx.SetStatusCode(fasthttp.StatusOK)
	}, ClientConfig{Token: "secret"})

	updatedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	err := client.Put(context.Background(), replication.KindGame, replication.Document{
		ID:        "round-1-a",
		UpdatedAt: updatedAt,
		Data:      []byte(`{"venue":"Court 1"}`),
	})
	if err != nil {
		t.Fatalf("put document: %v", err)
	}

	if gotMethod != fasthttp.MethodPut {
		t.Fatalf("unexpected method %q", gotMethod)
	}
	if gotPath != "/v1/collections/games/documents/round-1-a" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected authorization header %q", gotAuth)
	}
	if gotBody.ID != "round-1-a" || !gotBody.UpdatedAt.Equal(updatedAt) || gotBody.Deleted {
		t.Fatalf("unexpected body %+v", gotBody)
	}
	if string(gotBody.Data) != `{"venue":"Court 1"}` {
		t.Fatalf("unexpected data %s", gotBody.Data)
	}
}

func TestClientPutTombstoneOmitsData(t *testing.T) {
	var raw []byte
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		raw = append([]byte(nil), ctx.PostBody()...)
	}, ClientConfig{})

	err := client.Put(context.Background(), replication.KindMatchResult, replication.Document{
		ID:        "res-1",
		UpdatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Deleted:   true,
	})
	if err != nil {
		t.Fatalf("put tombstone: %v", err)
	}

	var body map[string]any
	if err := sonic.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["deleted"] != true {
		t.Fatalf("expected deleted=true, got %v", body["deleted"])
	}
	if _, ok := body["data"]; ok {
		t.Fatalf("tombstone should not carry data: %s", raw)
	}
}

func TestClientListDecodesDocuments(t *testing.T) {
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Path()) != "/v1/collections/match_results/documents" {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"documents":[
			{"id":"res-1","updated_at":"2026-03-01T10:00:00Z","deleted":false,"data":{"game_id":"round-1-a"}},
			{"id":"res-2","updated_at":"2026-03-02T10:00:00+08:00","deleted":true}
		]}`)
	}, ClientConfig{})

	docs, err := client.List(context.Background(), replication.KindMatchResult)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if string(docs[0].Data) != `{"game_id":"round-1-a"}` {
		t.Fatalf("unexpected data %s", docs[0].Data)
	}
	if !docs[1].Deleted || docs[1].UpdatedAt.Location() != time.UTC || docs[1].UpdatedAt.Hour() != 2 {
		t.Fatalf("unexpected tombstone %+v", docs[1])
	}
}

func TestClientListMissingCollectionIsEmpty(t *testing.T) {
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusNotFound)
	}, ClientConfig{})

	docs, err := client.List(context.Background(), replication.KindGame)
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents, got %d", len(docs))
	}
}

func TestClientRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if calls.Add(1) < 3 {
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	}, ClientConfig{MaxRetries: 2})

	err := client.Put(context.Background(), replication.KindGame, replication.Document{ID: "g1", UpdatedAt: time.Now()})
	if err != nil {
		t.Fatalf("put after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBodyString(`{"error":"bad id"}`)
	}, ClientConfig{MaxRetries: 3})

	err := client.Put(context.Background(), replication.KindGame, replication.Document{ID: "g1", UpdatedAt: time.Now()})
	if err == nil {
		t.Fatalf("expected error")
	}
	if errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("client errors should not be reported as unavailable: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestClientCircuitOpensAfterTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		ctx.SetStatusCode(fasthttp.StatusBadGateway)
	}, ClientConfig{
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	ctx := context.Background()
	for range 2 {
		err := client.Put(ctx, replication.KindGame, replication.Document{ID: "g1", UpdatedAt: time.Now()})
		if !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("expected dependency unavailable, got %v", err)
		}
	}

	err := client.Put(ctx, replication.KindGame, replication.Document{ID: "g1", UpdatedAt: time.Now()})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit to report unavailable, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("open circuit should short-circuit the request, got %d calls", calls.Load())
	}
}

func TestClientRejectsInvalidBaseURL(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "ftp://docstore"})
	err := client.Put(context.Background(), replication.KindGame, replication.Document{ID: "g1"})
	if err == nil {
		t.Fatalf("expected invalid base url error")
	}
}
