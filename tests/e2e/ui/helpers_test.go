//go:build e2e

package ui_test

import (
	"context"
	"testing"

	"github.com/carrental-io/carrental-qa/internal/browser"
	"github.com/carrental-io/carrental-qa/internal/fixtures"
	"github.com/carrental-io/carrental-qa/internal/logging"
	"github.com/carrental-io/carrental-qa/internal/pages"
	"github.com/carrental-io/carrental-qa/internal/preflight"
)

// requireReachable skips the test when nothing answers at url, so a missing
// environment reports as skipped rather than as a browser timeout.
func requireReachable(t *testing.T, name, url string) {
	t.Helper()
	if url == "" {
		t.Skipf("%s URL not configured", name)
	}
	res := preflight.Probe(context.Background(), preflight.Target{Name: name, URL: url})
	if !res.Reachable {
		t.Skipf("%s not reachable: %v", name, res.Err)
	}
}

// rentalDriver returns a ready browser for the rental frontend.
func rentalDriver(t *testing.T) browser.Driver {
	t.Helper()
	requireReachable(t, "frontend", fixtures.Config(t).BaseURL())
	return fixtures.Session(t).Driver()
}

// shopDriver returns a ready browser for the demo shop.
func shopDriver(t *testing.T) browser.Driver {
	t.Helper()
	requireReachable(t, "shop", fixtures.Config(t).ShopURL())
	return fixtures.Session(t).Driver()
}

// pageOptions applies the configured implicit wait as the page object timeout.
func pageOptions(t *testing.T) []pages.Option {
	t.Helper()
	if wait := fixtures.Config(t).ImplicitWait(); wait > 0 {
		return []pages.Option{pages.WithTimeout(wait)}
	}
	return nil
}

func logStep(t *testing.T, format string, args ...any) {
	t.Helper()
	t.Logf(format, args...)
	logging.Infof(fixtures.Logger(t), "**** "+format+" ****", args...)
}
