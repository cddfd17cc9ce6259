package preflight_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carrental-io/carrental-qa/internal/api/apitest"
	"github.com/carrental-io/carrental-qa/internal/browser/browsertest"
	"github.com/carrental-io/carrental-qa/internal/preflight"
)

func closedAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "http://" + addr
}

func TestProbe(t *testing.T) {
	ctx := context.Background()
	b := apitest.NewBackend(t)

	res := preflight.Probe(ctx, preflight.Target{Name: "api", URL: b.URL, Paths: []string{"/api/vehicles"}})
	require.True(t, res.Reachable, res.String())
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "/api/vehicles", res.Path)
	assert.NoError(t, res.Err)

	// Any status counts: the service is up even if the path is unknown.
	res = preflight.Probe(ctx, preflight.Target{Name: "api", URL: b.URL, Paths: []string{"/nope"}})
	assert.True(t, res.Reachable)
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = preflight.Probe(ctx, preflight.Target{Name: "down", URL: closedAddr(t)})
	assert.False(t, res.Reachable)
	assert.Error(t, res.Err)
	assert.Contains(t, res.String(), "unreachable")

	res = preflight.Probe(ctx, preflight.Target{Name: "bad", URL: "::not a url"})
	assert.False(t, res.Reachable)
	assert.Error(t, res.Err)
}

func TestProbeAll(t *testing.T) {
	b := apitest.NewBackend(t)
	cfg := browsertest.Config(t, closedAddr(t), b.URL)

	targets := preflight.Targets(cfg)
	require.Len(t, targets, 2, "no shop configured")

	results := preflight.ProbeAll(context.Background(), targets)
	require.Len(t, results, 2)
	assert.Equal(t, "api", results[0].Target.Name)
	assert.True(t, results[0].Reachable)
	assert.Equal(t, "frontend", results[1].Target.Name)
	assert.False(t, results[1].Reachable)
	assert.False(t, preflight.AllReachable(results))
	assert.True(t, preflight.AllReachable(results[:1]))
}

func TestWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	res, err := preflight.Wait(context.Background(), preflight.Target{Name: "up", URL: srv.URL}, 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, res.Status)

	_, err = preflight.Wait(context.Background(), preflight.Target{Name: "down", URL: closedAddr(t)}, 10*time.Millisecond, 50*time.Millisecond)
	assert.ErrorContains(t, err, "down not reachable")
}
