// Package browser provides the browser-automation surface the page objects drive, two
// engine implementations (playwright-go and rod), and the per-test session fixture.
package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/carrental-io/carrental-qa/internal/config"
)

// Driver is one live browser session. Lookups never wait; bounded waiting is the
// caller's job (see package pages).
type Driver interface {
	Navigate(url string) error
	// FindElements returns every element currently matching the CSS selector,
	// in document order. No match is not an error.
	FindElements(selector string) ([]Element, error)
	Title() (string, error)
	CurrentURL() (string, error)
	// ExecuteScript evaluates a JavaScript function expression such as
	// "() => document.readyState" and returns its JSON-decoded result.
	ExecuteScript(script string) (any, error)
	SaveScreenshot(path string) error
	SetImplicitWait(d time.Duration)
	Quit() error
}

// Element is a handle to one DOM element.
type Element interface {
	Click() error
	Clear() error
	SendKeys(text string) error
	// Press sends a named key such as "Enter" or "Tab".
	Press(key string) error
	SelectByText(label string) error
	Text() (string, error)
	// Attribute returns the attribute value and whether it is present.
	Attribute(name string) (string, bool, error)
	IsDisplayed() (bool, error)
	IsEnabled() (bool, error)
	ScrollIntoView() error
}

// Options are the startup options applied when a session is launched.
type Options struct {
	Browser      string
	Headless     bool
	Width        int
	Height       int
	NoSandbox    bool
	ImplicitWait time.Duration
}

// OptionsFromConfig derives launch options from the session configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	w, h := cfg.WindowSize()
	return Options{
		Browser:      cfg.Browser(),
		Headless:     cfg.Headless(),
		Width:        w,
		Height:       h,
		NoSandbox:    cfg.NoSandbox(),
		ImplicitWait: cfg.ImplicitWait(),
	}
}

// chromiumArgs are the command line switches the original Chrome fixture used.
func (o Options) chromiumArgs() []string {
	args := []string{"--disable-dev-shm-usage", "--disable-gpu"}
	if o.NoSandbox {
		args = append(args, "--no-sandbox")
	}
	if o.Width > 0 && o.Height > 0 {
		args = append(args, fmt.Sprintf("--window-size=%d,%d", o.Width, o.Height))
	}
	return args
}

// Launcher starts a browser session.
type Launcher interface {
	Launch(opts Options) (Driver, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(opts Options) (Driver, error)

func (f LauncherFunc) Launch(opts Options) (Driver, error) { return f(opts) }

// NewLauncher returns the launcher for an engine name from the configuration.
func NewLauncher(engine string) (Launcher, error) {
	switch strings.ToLower(engine) {
	case "", config.EnginePlaywright:
		return PlaywrightLauncher{}, nil
	case config.EngineRod:
		return RodLauncher{}, nil
	}
	return nil, fmt.Errorf("unknown browser engine %q", engine)
}
