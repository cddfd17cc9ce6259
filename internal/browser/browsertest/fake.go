// Package browsertest provides an in-memory browser.Driver for unit tests of page
// objects and session handling.
package browsertest

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/carrental-io/carrental-qa/internal/browser"
)

// Driver is a scriptable fake. Selectors are matched verbatim against what was
// registered with Set; a comma-separated group matches the first alternative that has
// elements.
type Driver struct {
	mu sync.Mutex

	URL        string
	PageTitle  string
	ReadyState string
	elements   map[string][]*Element

	// Eval, when set, answers ExecuteScript; otherwise readyState is returned.
	Eval func(script string) (any, error)
	// OnNavigate runs after every successful Navigate.
	OnNavigate func(d *Driver, url string)

	NavigateErr     error
	ScreenshotErr   error
	ScreenshotPanic any
	QuitErr         error
	QuitPanic       any

	Navigations  []string
	Screenshots  []string
	QuitCalls    int
	ImplicitWait time.Duration
}

// NewDriver returns a driver whose document is already complete.
func NewDriver() *Driver {
	return &Driver{ReadyState: "complete", elements: map[string][]*Element{}}
}

// Set replaces the elements matched by selector.
func (d *Driver) Set(selector string, els ...*Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, el := range els {
		el.driver = d
	}
	d.elements[selector] = els
}

// Remove drops every element matched by selector.
func (d *Driver) Remove(selector string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.elements, selector)
}

// SetURL changes the current URL, as a client-side redirect would.
func (d *Driver) SetURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.URL = url
}

func (d *Driver) Navigate(url string) error {
	d.mu.Lock()
	if d.NavigateErr != nil {
		err := d.NavigateErr
		d.mu.Unlock()
		return err
	}
	d.URL = url
	d.Navigations = append(d.Navigations, url)
	hook := d.OnNavigate
	d.mu.Unlock()

	if hook != nil {
		hook(d, url)
	}
	return nil
}

func (d *Driver) FindElements(selector string) ([]browser.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, alt := range append([]string{selector}, strings.Split(selector, ",")...) {
		if els, ok := d.elements[strings.TrimSpace(alt)]; ok && len(els) > 0 {
			out := make([]browser.Element, len(els))
			for i, el := range els {
				out[i] = el
			}
			return out, nil
		}
	}
	return nil, nil
}

func (d *Driver) Title() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.PageTitle, nil
}

func (d *Driver) CurrentURL() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.URL, nil
}

func (d *Driver) ExecuteScript(script string) (any, error) {
	d.mu.Lock()
	eval, state := d.Eval, d.ReadyState
	d.mu.Unlock()
	if eval != nil {
		return eval(script)
	}
	return state, nil
}

// SaveScreenshot writes a placeholder file so callers can assert on the path.
func (d *Driver) SaveScreenshot(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ScreenshotPanic != nil {
		panic(d.ScreenshotPanic)
	}
	if d.ScreenshotErr != nil {
		return d.ScreenshotErr
	}
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		return err
	}
	d.Screenshots = append(d.Screenshots, path)
	return nil
}

func (d *Driver) SetImplicitWait(wait time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ImplicitWait = wait
}

func (d *Driver) Quit() error {
	d.mu.Lock()
	d.QuitCalls++
	p, err := d.QuitPanic, d.QuitErr
	d.mu.Unlock()
	if p != nil {
		panic(p)
	}
	return err
}

// Launcher returns a launcher that hands out d, or fails with err when err is set.
func Launcher(d *Driver, err error) browser.LauncherFunc {
	return func(browser.Options) (browser.Driver, error) {
		if err != nil {
			return nil, err
		}
		return d, nil
	}
}

// ErrNotInteractable is returned by Element actions when the element is disabled or
// hidden.
var ErrNotInteractable = errors.New("element not interactable")

// Element is a fake DOM element.
type Element struct {
	driver *Driver

	Value    string
	Content  string
	Attrs    map[string]string
	Hidden   bool
	Disabled bool
	Options  []string

	Clicks    int
	Scrolled  int
	Pressed   []string
	Selected  string
	OnClick   func()
	OnPress   func(key string)
	OnInput   func(value string)
	ClickErr  error
	ScrollErr error
	TextError error
}

// NewElement returns a visible, enabled element with the given text.
func NewElement(text string) *Element {
	return &Element{Content: text, Attrs: map[string]string{}}
}

// WithAttr sets an attribute and returns e.
func (e *Element) WithAttr(name, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	e.Attrs[name] = value
	return e
}

func (e *Element) lock() func() {
	if e.driver == nil {
		return func() {}
	}
	e.driver.mu.Lock()
	return e.driver.mu.Unlock
}

func (e *Element) interactable() error {
	if e.Hidden || e.Disabled {
		return ErrNotInteractable
	}
	return nil
}

func (e *Element) Click() error {
	unlock := e.lock()
	if err := e.interactable(); err != nil {
		unlock()
		return err
	}
	if e.ClickErr != nil {
		err := e.ClickErr
		unlock()
		return err
	}
	e.Clicks++
	hook := e.OnClick
	unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (e *Element) Clear() error {
	unlock := e.lock()
	defer unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	e.Value = ""
	return nil
}

func (e *Element) SendKeys(text string) error {
	unlock := e.lock()
	if err := e.interactable(); err != nil {
		unlock()
		return err
	}
	e.Value += text
	value, hook := e.Value, e.OnInput
	unlock()
	if hook != nil {
		hook(value)
	}
	return nil
}

func (e *Element) Press(key string) error {
	unlock := e.lock()
	if err := e.interactable(); err != nil {
		unlock()
		return err
	}
	e.Pressed = append(e.Pressed, key)
	hook := e.OnPress
	unlock()
	if hook != nil {
		hook(key)
	}
	return nil
}

func (e *Element) SelectByText(label string) error {
	unlock := e.lock()
	defer unlock()
	if err := e.interactable(); err != nil {
		return err
	}
	for _, opt := range e.Options {
		if opt == label {
			e.Selected = label
			return nil
		}
	}
	return errors.New("no option with text " + label)
}

func (e *Element) Text() (string, error) {
	unlock := e.lock()
	defer unlock()
	if e.TextError != nil {
		return "", e.TextError
	}
	if e.Hidden {
		return "", nil
	}
	return e.Content, nil
}

func (e *Element) Attribute(name string) (string, bool, error) {
	unlock := e.lock()
	defer unlock()
	if name == "value" {
		return e.Value, true, nil
	}
	v, ok := e.Attrs[name]
	return v, ok, nil
}

func (e *Element) IsDisplayed() (bool, error) {
	unlock := e.lock()
	defer unlock()
	return !e.Hidden, nil
}

func (e *Element) IsEnabled() (bool, error) {
	unlock := e.lock()
	defer unlock()
	return !e.Disabled, nil
}

func (e *Element) ScrollIntoView() error {
	unlock := e.lock()
	defer unlock()
	if e.ScrollErr != nil {
		return e.ScrollErr
	}
	e.Scrolled++
	return nil
}

// Show or hide e.
func (e *Element) Show(visible bool) {
	unlock := e.lock()
	defer unlock()
	e.Hidden = !visible
}

// Enable or disable e.
func (e *Element) Enable(enabled bool) {
	unlock := e.lock()
	defer unlock()
	e.Disabled = !enabled
}
