package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/carrental-io/carrental-qa/internal/config"
	"github.com/carrental-io/carrental-qa/internal/logging"
)

// State is a session lifecycle phase.
type State int

const (
	StateUninitialized State = iota
	StateAcquiring
	StateReady
	StateTearingDown
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAcquiring:
		return "acquiring"
	case StateReady:
		return "ready"
	case StateTearingDown:
		return "tearing-down"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome is what a session needs to know about the test that owned it.
// *testing.T satisfies it.
type Outcome interface {
	Name() string
	Failed() bool
}

// ScreenshotTimeLayout is the timestamp suffix of failure screenshots.
const ScreenshotTimeLayout = "20060102_150405.000"

// ErrSessionClosed is returned when a released session is used.
var ErrSessionClosed = errors.New("browser session closed")

// Session is one browser session bound to one test.
type Session struct {
	mu            sync.Mutex
	state         State
	driver        Driver
	screenshotDir string
	log           logging.Logger
	now           func() time.Time
	screenshot    string
}

// SessionOption customises Acquire.
type SessionOption func(*Session)

// WithClock overrides the clock used for screenshot names.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// Acquire launches a browser with options derived from cfg. If the launch fails no
// session is returned and nothing is left running.
func Acquire(l Launcher, cfg *config.Config, log logging.Logger, opts ...SessionOption) (*Session, error) {
	s := &Session{
		state:         StateAcquiring,
		screenshotDir: cfg.ScreenshotsDir(),
		log:           log,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	launch := OptionsFromConfig(cfg)
	logging.Infof(log, "starting %s session (headless=%t, window=%dx%d)", launch.Browser, launch.Headless, launch.Width, launch.Height)

	d, err := l.Launch(launch)
	if err != nil {
		s.state = StateClosed
		logging.Errorf(log, "browser launch failed: %v", err)
		return nil, fmt.Errorf("acquire browser session: %w", err)
	}
	d.SetImplicitWait(launch.ImplicitWait)

	s.driver = d
	s.state = StateReady
	return s, nil
}

// Driver returns the live driver. It panics if the session is not ready, which only
// happens when a test keeps using a session after its cleanup ran.
func (s *Session) Driver() Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		panic(ErrSessionClosed)
	}
	return s.driver
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Screenshot returns the failure screenshot written by Release, if any.
func (s *Session) Screenshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screenshot
}

// Release tears the session down. When the outcome failed a screenshot is saved first.
// Only the first call has any effect, and teardown errors are logged, never raised.
func (s *Session) Release(o Outcome) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return
	}
	s.state = StateTearingDown
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
	}()

	if o != nil && o.Failed() {
		s.saveFailureScreenshot(o.Name())
	}
	s.quit()
}

// saveFailureScreenshot records the screenshot path on success. A panicking driver is
// logged so the quit that follows still runs.
func (s *Session) saveFailureScreenshot(testName string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf(s.log, "failure screenshot for %s panicked: %v", testName, r)
		}
	}()
	path, err := s.captureFailure(testName)
	if err != nil {
		logging.Errorf(s.log, "failure screenshot for %s: %v", testName, err)
		return
	}
	s.mu.Lock()
	s.screenshot = path
	s.mu.Unlock()
	logging.Infof(s.log, "screenshot saved: %s", path)
}

func (s *Session) quit() {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf(s.log, "browser teardown panicked: %v", r)
		}
	}()
	if err := s.driver.Quit(); err != nil {
		logging.Errorf(s.log, "quit browser session: %v", err)
	}
}

func (s *Session) captureFailure(testName string) (string, error) {
	if err := os.MkdirAll(s.screenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot directory: %w", err)
	}
	path := filepath.Join(s.screenshotDir, ScreenshotName(testName, s.now()))
	if err := s.driver.SaveScreenshot(path); err != nil {
		return "", err
	}
	return path, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ScreenshotName builds "<test name>_<YYYYMMDD_HHMMSS.mmm>.png" with the test name made
// safe for a file name.
func ScreenshotName(testName string, at time.Time) string {
	return fmt.Sprintf("%s_%s.png", unsafeFileChars.ReplaceAllString(testName, "_"), at.Format(ScreenshotTimeLayout))
}
