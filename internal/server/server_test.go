package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/koustreak/relgraph/internal/detect"
	"github.com/koustreak/relgraph/internal/errs"
	"github.com/koustreak/relgraph/internal/logger"
	"github.com/koustreak/relgraph/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer lets the test read what handler goroutines logged.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func model() []detect.TableDef {
	return []detect.TableDef{
		{Ident: detect.NewTableIdent("public", "orders"), Columns: []detect.ColumnDef{{Name: "id", Type: "int4"}}},
		{Ident: detect.NewTableIdent("audit", "log"), Columns: []detect.ColumnDef{{Name: "id", Type: "int8"}}},
		{Ident: detect.NewTableIdent("public", "customers"), Columns: []detect.ColumnDef{{Name: "id", Type: "int4"}}},
	}
}

func newTestServer(t *testing.T, fn IntrospectFunc, db Pinger) (*httptest.Server, *syncBuffer, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	wrapped := func(ctx context.Context) ([]detect.TableDef, error) {
		calls.Add(1)
		return fn(ctx)
	}

	logBuf := &syncBuffer{}
	log := logger.New(&logger.Config{Level: "info", Format: "json", Output: logBuf})
	srv := New(wrapped, db, log, Options{QueryTimeout: time.Second})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, logBuf, calls
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func ok(context.Context) ([]detect.TableDef, error) { return model(), nil }

func TestTables_SortedJSON(t *testing.T) {
	ts, logBuf, _ := newTestServer(t, ok, nil)

	resp, body := get(t, ts.URL+"/tables")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var doc render.Document
	require.NoError(t, json.Unmarshal(body, &doc))
	require.Len(t, doc.Tables, 3)
	assert.Equal(t, "audit.log", doc.Tables[0].Ident.String())
	assert.Equal(t, "public.customers", doc.Tables[1].Ident.String())
	assert.Equal(t, "public.orders", doc.Tables[2].Ident.String())

	assert.Contains(t, logBuf.String(), `"path":"/tables"`)
}

func TestTables_SchemaFilterAndFormat(t *testing.T) {
	ts, _, _ := newTestServer(t, ok, nil)

	resp, body := get(t, ts.URL+"/tables?schema=audit&format=yaml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "name: log")
	assert.NotContains(t, string(body), "orders")
}

func TestTables_BadFormat(t *testing.T) {
	ts, _, calls := newTestServer(t, ok, nil)

	resp, _ := get(t, ts.URL+"/tables?format=xml")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int32(0), calls.Load())
}

func TestTables_FreshIntrospectionPerRequest(t *testing.T) {
	ts, _, calls := newTestServer(t, ok, nil)

	get(t, ts.URL+"/tables")
	get(t, ts.URL+"/tables")
	assert.Equal(t, int32(2), calls.Load())
}

func TestTable(t *testing.T) {
	ts, _, _ := newTestServer(t, ok, nil)

	resp, body := get(t, ts.URL+"/tables/public/orders")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc render.Document
	require.NoError(t, json.Unmarshal(body, &doc))
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "orders", doc.Tables[0].Ident.Name)

	resp, _ = get(t, ts.URL+"/tables/public/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTables_ErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"timeout", errs.New(errs.ErrKindTimeout, "scan timed out"), http.StatusGatewayTimeout},
		{"connection", errs.New(errs.ErrKindConnectionFailed, "down"), http.StatusServiceUnavailable},
		{"permission", errs.New(errs.ErrKindPermissionDenied, "denied"), http.StatusForbidden},
		{"decode", errs.New(errs.ErrKindDecodeFailed, "bad row"), http.StatusInternalServerError},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fail := func(context.Context) ([]detect.TableDef, error) { return nil, tt.err }
			ts, _, _ := newTestServer(t, fail, nil)

			resp, _ := get(t, ts.URL+"/tables")
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestTables_QueryTimeoutApplied(t *testing.T) {
	var deadline atomic.Bool
	fn := func(ctx context.Context) ([]detect.TableDef, error) {
		_, ok := ctx.Deadline()
		deadline.Store(ok)
		return nil, nil
	}
	ts, _, _ := newTestServer(t, fn, nil)

	resp, _ := get(t, ts.URL+"/tables")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, deadline.Load())
}

func TestHealth(t *testing.T) {
	ts, _, _ := newTestServer(t, ok, stubPinger{})
	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok\n", string(body))

	down, _, _ := newTestServer(t, ok, stubPinger{err: errs.New(errs.ErrKindConnectionFailed, "ping failed")})
	resp, _ = get(t, down.URL+"/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
