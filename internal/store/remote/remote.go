// Package remote implements the store contract as a thin HTTP client
// against a service running the httpapi surface. Every call is one
// round-trip with no retries: billing-adjacent writes must not be
// replayed, so transient failures surface to the caller as
// TransportError and the caller decides.
package remote

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"voicedesk/internal/store"
)

// DefaultTimeout bounds each round-trip when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configures the remote adapter.
type Options struct {
	// BaseURL is the root of the remote service, e.g. "http://data:8080".
	BaseURL string
	// Timeout bounds each round-trip. Zero means DefaultTimeout.
	Timeout time.Duration
	// Logger receives request diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// Store talks to a remote httpapi service. It is safe for concurrent
// use; the remote service serializes writes the same way the embedded
// backend does.
type Store struct {
	client *resty.Client
	logger *zap.Logger
}

// New creates a remote store. It performs no connectivity check: the
// first operation reports reachability.
func New(opts Options) *Store {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json")
	return &Store{client: client, logger: logger}
}

// errorBody mirrors the server's uniform error shape.
type errorBody struct {
	Error string `json:"error"`
}

// idBody mirrors the server's create response.
type idBody struct {
	ID string `json:"id"`
}

func (s *Store) req(ctx context.Context) *resty.Request {
	return s.client.R().SetContext(ctx).SetError(&errorBody{})
}

// httpErr translates a non-2xx response back into the store error
// taxonomy so callers behave identically against either backend.
func (s *Store) httpErr(op string, resp *resty.Response) error {
	msg := resp.Status()
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		msg = body.Error
	}
	switch resp.StatusCode() {
	case http.StatusConflict:
		return &store.ConstraintError{Entity: "remote", Op: op, Message: msg}
	case http.StatusBadRequest:
		return &store.ValidationError{Message: msg}
	}
	return &store.TransportError{Op: op, Status: resp.StatusCode(), Message: msg}
}

func (s *Store) transportErr(op string, err error) error {
	return &store.TransportError{Op: op, Message: err.Error()}
}

// getOne performs a point lookup. A 404 reports (false, nil): absence
// is not an error under the contract.
func (s *Store) getOne(ctx context.Context, path string, out any) (bool, error) {
	op := "GET " + path
	resp, err := s.req(ctx).SetResult(out).Get(path)
	if err != nil {
		return false, s.transportErr(op, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}
	if resp.IsError() {
		return false, s.httpErr(op, resp)
	}
	return true, nil
}

// getList fetches a list endpoint into the given envelope.
func (s *Store) getList(ctx context.Context, path string, query map[string]string, out any) error {
	op := "GET " + path
	resp, err := s.req(ctx).SetQueryParams(query).SetResult(out).Get(path)
	if err != nil {
		return s.transportErr(op, err)
	}
	if resp.IsError() {
		return s.httpErr(op, resp)
	}
	return nil
}

// create posts a body and returns the generated id.
func (s *Store) create(ctx context.Context, path string, body any) (string, error) {
	op := "POST " + path
	var out idBody
	resp, err := s.req(ctx).SetBody(body).SetResult(&out).Post(path)
	if err != nil {
		return "", s.transportErr(op, err)
	}
	if resp.IsError() {
		return "", s.httpErr(op, resp)
	}
	return out.ID, nil
}

// send issues a bodyless-response mutation (PATCH, PUT, DELETE, POST).
func (s *Store) send(ctx context.Context, method, path string, body any) error {
	op := method + " " + path
	r := s.req(ctx)
	if body != nil {
		r.SetBody(body)
	}
	resp, err := r.Execute(method, path)
	if err != nil {
		return s.transportErr(op, err)
	}
	if resp.IsError() {
		return s.httpErr(op, resp)
	}
	return nil
}

// Begin opens a transaction on the remote service.
func (s *Store) Begin(ctx context.Context) error {
	return s.send(ctx, http.MethodPost, "/api/tx/begin", nil)
}

// Commit commits the open remote transaction.
func (s *Store) Commit(ctx context.Context) error {
	return s.send(ctx, http.MethodPost, "/api/tx/commit", nil)
}

// Rollback aborts the open remote transaction.
func (s *Store) Rollback(ctx context.Context) error {
	return s.send(ctx, http.MethodPost, "/api/tx/rollback", nil)
}

// ExecuteRawQuery runs an administrative statement on the remote service.
func (s *Store) ExecuteRawQuery(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	var out struct {
		Rows []map[string]any `json:"rows"`
	}
	op := "POST /api/query"
	resp, err := s.req(ctx).
		SetBody(map[string]any{"query": query, "args": args}).
		SetResult(&out).
		Post("/api/query")
	if err != nil {
		return nil, s.transportErr(op, err)
	}
	if resp.IsError() {
		return nil, s.httpErr(op, resp)
	}
	return out.Rows, nil
}

// Stats returns the remote service's row counts.
func (s *Store) Stats(ctx context.Context) (map[string]int64, error) {
	var out struct {
		Stats map[string]int64 `json:"stats"`
	}
	if err := s.getList(ctx, "/api/stats", nil, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

// Export fetches a snapshot document from the remote service.
func (s *Store) Export(ctx context.Context) (*store.ExportDocument, error) {
	var doc store.ExportDocument
	if err := s.getList(ctx, "/api/export", nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Import sends a snapshot document for atomic replacement.
func (s *Store) Import(ctx context.Context, doc *store.ExportDocument) error {
	return s.send(ctx, http.MethodPost, "/api/import", doc)
}

// Close releases the underlying HTTP client's idle connections.
func (s *Store) Close() error {
	s.client.GetClient().CloseIdleConnections()
	return nil
}

var _ store.Store = (*Store)(nil)
