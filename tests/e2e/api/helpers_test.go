//go:build e2e

package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/carrental-io/carrental-qa/internal/api"
	"github.com/carrental-io/carrental-qa/internal/fixtures"
	"github.com/carrental-io/carrental-qa/internal/logging"
	"github.com/carrental-io/carrental-qa/internal/opt"
)

const requestTimeout = 10 * time.Second

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	t.Cleanup(cancel)
	return ctx
}

// anonymous returns a client that sends no Authorization header.
func anonymous(t *testing.T) *api.Client {
	t.Helper()
	return api.BuildClient(fixtures.Config(t).APIURL(), opt.None[api.Token](), api.WithLogger(fixtures.Logger(t)))
}

// must unwraps a call result, skipping the test when the API is not reachable.
func must(t *testing.T, resp *api.Response, err error) *api.Response {
	t.Helper()
	fixtures.SkipIfUnavailable(t, err)
	logging.Infof(fixtures.Logger(t), "%s -> %d", t.Name(), resp.StatusCode)
	return resp
}
