// Package pages holds the page-object base every screen model builds on: bounded
// waits, element lookup and the common interactions.
package pages

import (
	"context"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/carrental-io/carrental-qa/internal/browser"
)

const (
	// DefaultTimeout bounds every wait unless a page says otherwise.
	DefaultTimeout = 15 * time.Second
	// DefaultPollInterval is how often conditions are re-evaluated.
	DefaultPollInterval = 250 * time.Millisecond
)

// Predicate is a condition over the browser state. An error means "not yet".
type Predicate func(d browser.Driver) (bool, error)

// Page wraps a driver it does not own.
type Page struct {
	driver   browser.Driver
	timeout  time.Duration
	interval time.Duration
}

// Option customises a Page.
type Option func(*Page)

// WithTimeout sets the default wait bound.
func WithTimeout(d time.Duration) Option { return func(p *Page) { p.timeout = d } }

// WithPollInterval sets how often waits re-check.
func WithPollInterval(d time.Duration) Option { return func(p *Page) { p.interval = d } }

// New returns a page bound to d.
func New(d browser.Driver, opts ...Option) *Page {
	p := &Page{driver: d, timeout: DefaultTimeout, interval: DefaultPollInterval}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Page) Driver() browser.Driver { return p.driver }

func (p *Page) Timeout() time.Duration { return p.timeout }

// poll re-evaluates cond until it holds or timeout elapses. It returns the last error
// cond reported and whether the condition was met.
func (p *Page) poll(timeout time.Duration, cond func() (bool, error)) (bool, error) {
	var last error
	err := wait.PollUntilContextTimeout(context.Background(), p.interval, timeout, true, func(context.Context) (bool, error) {
		ok, err := cond()
		if err != nil {
			last = err
			return false, nil
		}
		return ok, nil
	})
	return err == nil, last
}

// NavigateTo loads url and waits for document.readyState to become "complete".
func (p *Page) NavigateTo(url string) error {
	if err := p.driver.Navigate(url); err != nil {
		return &Error{Op: "navigate", Locator: url, Timeout: p.timeout, Err: ErrNavigationTimeout, Last: err}
	}
	ok, last := p.poll(p.timeout, func() (bool, error) {
		state, err := p.driver.ExecuteScript("() => document.readyState")
		if err != nil {
			return false, err
		}
		return state == "complete", nil
	})
	if !ok {
		return &Error{Op: "navigate", Locator: url, Timeout: p.timeout, Err: ErrNavigationTimeout, Last: last}
	}
	return nil
}

// FindAll returns the elements currently matching locator without waiting.
func (p *Page) FindAll(locator string) []browser.Element {
	els, err := p.driver.FindElements(locator)
	if err != nil {
		return nil
	}
	return els
}

// Find waits for locator to match and returns the first match.
func (p *Page) Find(locator string) (browser.Element, error) {
	var found browser.Element
	ok, last := p.poll(p.timeout, func() (bool, error) {
		els, err := p.driver.FindElements(locator)
		if err != nil {
			return false, err
		}
		if len(els) == 0 {
			return false, nil
		}
		found = els[0]
		return true, nil
	})
	if !ok {
		return nil, &Error{Op: "find", Locator: locator, Timeout: p.timeout, Err: ErrElementNotFound, Last: last}
	}
	return found, nil
}

// clickable waits for the first match of locator to be displayed and enabled.
func (p *Page) clickable(op, locator string) (browser.Element, error) {
	var (
		target  browser.Element
		matched bool
	)
	ok, last := p.poll(p.timeout, func() (bool, error) {
		els, err := p.driver.FindElements(locator)
		if err != nil || len(els) == 0 {
			return false, err
		}
		matched = true
		el := els[0]
		if shown, err := el.IsDisplayed(); err != nil || !shown {
			return false, err
		}
		if enabled, err := el.IsEnabled(); err != nil || !enabled {
			return false, err
		}
		target = el
		return true, nil
	})
	if ok {
		return target, nil
	}
	sentinel := ErrElementNotInteractable
	if !matched {
		sentinel = ErrElementNotFound
	}
	return nil, &Error{Op: op, Locator: locator, Timeout: p.timeout, Err: sentinel, Last: last}
}

// SetField replaces the content of an input.
func (p *Page) SetField(locator, value string) error {
	el, err := p.clickable("set field", locator)
	if err != nil {
		return err
	}
	if err := el.Clear(); err != nil {
		return &Error{Op: "set field", Locator: locator, Timeout: p.timeout, Err: ErrElementNotInteractable, Last: err}
	}
	if err := el.SendKeys(value); err != nil {
		return &Error{Op: "set field", Locator: locator, Timeout: p.timeout, Err: ErrElementNotInteractable, Last: err}
	}
	return nil
}

// Click waits until locator is clickable, scrolls it into view and clicks it.
func (p *Page) Click(locator string) error {
	el, err := p.clickable("click", locator)
	if err != nil {
		return err
	}
	if err := el.ScrollIntoView(); err != nil {
		return &Error{Op: "click", Locator: locator, Timeout: p.timeout, Err: ErrElementNotInteractable, Last: err}
	}
	if err := el.Click(); err != nil {
		return &Error{Op: "click", Locator: locator, Timeout: p.timeout, Err: ErrElementNotInteractable, Last: err}
	}
	return nil
}

// Press sends a named key to locator.
func (p *Page) Press(locator, key string) error {
	el, err := p.clickable("press", locator)
	if err != nil {
		return err
	}
	if err := el.Press(key); err != nil {
		return &Error{Op: "press", Locator: locator, Timeout: p.timeout, Err: ErrElementNotInteractable, Last: err}
	}
	return nil
}

// Select picks the option with the given visible text.
func (p *Page) Select(locator, label string) error {
	el, err := p.clickable("select", locator)
	if err != nil {
		return err
	}
	if err := el.SelectByText(label); err != nil {
		return &Error{Op: "select", Locator: locator, Timeout: p.timeout, Err: ErrElementNotInteractable, Last: err}
	}
	return nil
}

// Text waits for locator and returns its trimmed visible text.
func (p *Page) Text(locator string) (string, error) {
	el, err := p.Find(locator)
	if err != nil {
		return "", err
	}
	s, err := el.Text()
	if err != nil {
		return "", &Error{Op: "text", Locator: locator, Timeout: p.timeout, Err: ErrElementNotFound, Last: err}
	}
	return strings.TrimSpace(s), nil
}

// Attribute waits for locator and returns an attribute; absent attributes read as "".
func (p *Page) Attribute(locator, name string) (string, error) {
	el, err := p.Find(locator)
	if err != nil {
		return "", err
	}
	v, _, err := el.Attribute(name)
	if err != nil {
		return "", &Error{Op: "attribute " + name, Locator: locator, Timeout: p.timeout, Err: ErrElementNotFound, Last: err}
	}
	return v, nil
}

// Count returns the number of current matches without waiting.
func (p *Page) Count(locator string) int { return len(p.FindAll(locator)) }

// IsVisible reports whether a match of locator becomes visible within timeout.
func (p *Page) IsVisible(locator string, timeout time.Duration) bool {
	return p.IsConditionTrue(func(d browser.Driver) (bool, error) {
		els, err := d.FindElements(locator)
		if err != nil {
			return false, err
		}
		for _, el := range els {
			if shown, err := el.IsDisplayed(); err == nil && shown {
				return true, nil
			}
		}
		return false, nil
	}, timeout)
}

// WaitGone reports whether every match of locator is gone or hidden within timeout.
func (p *Page) WaitGone(locator string, timeout time.Duration) bool {
	return p.IsConditionTrue(func(d browser.Driver) (bool, error) {
		els, err := d.FindElements(locator)
		if err != nil {
			return false, err
		}
		for _, el := range els {
			if shown, err := el.IsDisplayed(); err != nil || shown {
				return false, err
			}
		}
		return true, nil
	}, timeout)
}

// IsConditionTrue polls pred until it holds or timeout elapses. It never fails the
// caller; a timeout or a panicking predicate both yield false.
func (p *Page) IsConditionTrue(pred Predicate, timeout time.Duration) (held bool) {
	defer func() {
		if r := recover(); r != nil {
			held = false
		}
	}()
	ok, _ := p.poll(timeout, func() (bool, error) { return pred(p.driver) })
	return ok
}

// CurrentURL returns the current URL, or "" if the driver cannot tell.
func (p *Page) CurrentURL() string {
	u, err := p.driver.CurrentURL()
	if err != nil {
		return ""
	}
	return u
}

// Title returns the document title, or "" if the driver cannot tell.
func (p *Page) Title() string {
	t, err := p.driver.Title()
	if err != nil {
		return ""
	}
	return t
}

// URLContains holds when the current URL contains fragment, case-insensitively.
func URLContains(fragment string) Predicate {
	fragment = strings.ToLower(fragment)
	return func(d browser.Driver) (bool, error) {
		u, err := d.CurrentURL()
		if err != nil {
			return false, err
		}
		return strings.Contains(strings.ToLower(u), fragment), nil
	}
}

// URLExcludes holds when the current URL no longer contains fragment.
func URLExcludes(fragment string) Predicate {
	contains := URLContains(fragment)
	return func(d browser.Driver) (bool, error) {
		ok, err := contains(d)
		if err != nil {
			return false, err
		}
		return !ok, nil
	}
}

// URLChangedFrom holds once the URL differs from before.
func URLChangedFrom(before string) Predicate {
	return func(d browser.Driver) (bool, error) {
		u, err := d.CurrentURL()
		if err != nil {
			return false, err
		}
		return u != before, nil
	}
}
