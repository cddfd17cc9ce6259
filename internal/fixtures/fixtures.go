// Package fixtures wires configuration, logging, browser sessions and API clients into
// Go tests. Config, the log file and the admin token are shared by every test in the
// binary; browser sessions are per test.
package fixtures

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/carrental-io/carrental-qa/internal/api"
	"github.com/carrental-io/carrental-qa/internal/browser"
	"github.com/carrental-io/carrental-qa/internal/config"
	"github.com/carrental-io/carrental-qa/internal/logging"
	"github.com/carrental-io/carrental-qa/internal/opt"
)

// LogFileName is created inside the configured logs directory.
const LogFileName = "automation.log"

var (
	configOnce sync.Once
	sharedCfg  *config.Config
	configErr  error

	tokenOnce   sync.Once
	sharedToken opt.Maybe[api.Token]
)

// Config loads the configuration once per test binary. A load failure is fatal for
// every test that asks for it.
func Config(t testing.TB) *config.Config {
	t.Helper()
	configOnce.Do(func() {
		path, err := config.Discover()
		if err != nil {
			configErr = err
			return
		}
		sharedCfg, configErr = config.Load(path)
	})
	if configErr != nil {
		t.Fatalf("configuration unavailable: %v", configErr)
	}
	return sharedCfg
}

// Logger returns the shared suite logger.
func Logger(t testing.TB) logging.Logger {
	t.Helper()
	return LoggerFor(t, Config(t))
}

// LoggerFor opens <logs_dir>/automation.log at the configured level. Tests keep running
// with a Nop logger when the file cannot be opened.
func LoggerFor(t testing.TB, cfg *config.Config) logging.Logger {
	t.Helper()
	level, err := logging.ParseLevel(cfg.LogLevel())
	if err != nil {
		t.Logf("log level %q: %v, using info", cfg.LogLevel(), err)
		level = logging.LevelInfo
	}
	l, err := logging.Open(filepath.Join(cfg.LogsDir(), LogFileName), logging.WithLevel(level))
	if err != nil {
		t.Logf("suite log unavailable: %v", err)
		return logging.Nop()
	}
	return l
}

// Session starts a browser with the configured engine and releases it when the test
// ends, capturing a screenshot if the test failed.
func Session(t testing.TB) *browser.Session {
	t.Helper()
	cfg := Config(t)
	l, err := browser.NewLauncher(cfg.Engine())
	if err != nil {
		t.Fatalf("browser engine: %v", err)
	}
	return SessionWith(t, cfg, Logger(t), l)
}

// SessionWith is Session with explicit dependencies.
func SessionWith(t testing.TB, cfg *config.Config, log logging.Logger, l browser.Launcher) *browser.Session {
	t.Helper()
	s, err := browser.Acquire(l, cfg, log)
	if err != nil {
		t.Fatalf("acquire browser session: %v", err)
	}
	t.Cleanup(func() { s.Release(t) })
	return s
}

// AuthToken logs in as the configured admin once per test binary. None means the
// backend refused or could not be reached; dependent tests decide whether to skip.
func AuthToken(t testing.TB) opt.Maybe[api.Token] {
	t.Helper()
	cfg := Config(t)
	log := Logger(t)
	tokenOnce.Do(func() {
		sharedToken = AuthTokenFor(t, cfg, log, config.RoleAdmin)
	})
	return sharedToken
}

// AuthTokenFor authenticates role against the configured API without caching.
func AuthTokenFor(t testing.TB, cfg *config.Config, log logging.Logger, role config.Role) opt.Maybe[api.Token] {
	t.Helper()
	creds, err := cfg.Credentials(role)
	if err != nil {
		t.Fatalf("credentials for %s: %v", role, err)
	}
	return api.Authenticate(context.Background(), cfg.APIURL(), creds, api.WithLogger(log))
}

// APIClient returns a client for the configured API, authenticated when the shared
// admin token is available.
func APIClient(t testing.TB) *api.Client {
	t.Helper()
	return api.BuildClient(Config(t).APIURL(), AuthToken(t), api.WithLogger(Logger(t)))
}

// SkipIfUnavailable skips the test when err is a transport failure, since the target
// environment is not up. Any other error fails the test.
func SkipIfUnavailable(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		return
	}
	if api.IsTransportError(err) {
		t.Skipf("backend unavailable: %v", err)
	}
	t.Fatalf("unexpected error: %v", err)
}

// RequireToken returns the token or skips the test when none was issued.
func RequireToken(t testing.TB, tok opt.Maybe[api.Token]) api.Token {
	t.Helper()
	v, ok := tok.Get()
	if !ok {
		t.Skip("no auth token available")
	}
	return v
}

// UniqueUsername returns prefix followed by a short random suffix, safe to register
// repeatedly against a persistent backend.
func UniqueUsername(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
