package pages_test

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carrental-io/carrental-qa/internal/browser"
	"github.com/carrental-io/carrental-qa/internal/browser/browsertest"
	"github.com/carrental-io/carrental-qa/internal/pages"
)

const (
	shortTimeout = 200 * time.Millisecond
	tick         = 5 * time.Millisecond
)

func newPage(d *browsertest.Driver) *pages.Page {
	return pages.New(d, pages.WithTimeout(shortTimeout), pages.WithPollInterval(tick))
}

func TestNavigateTo(t *testing.T) {
	t.Run("waits for the document to complete", func(t *testing.T) {
		d := browsertest.NewDriver()
		var calls int32
		d.Eval = func(string) (any, error) {
			if atomic.AddInt32(&calls, 1) < 3 {
				return "interactive", nil
			}
			return "complete", nil
		}

		require.NoError(t, newPage(d).NavigateTo("http://localhost:5000"))
		assert.Equal(t, []string{"http://localhost:5000"}, d.Navigations)
		assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
	})

	t.Run("times out when never complete", func(t *testing.T) {
		d := browsertest.NewDriver()
		d.ReadyState = "loading"

		err := newPage(d).NavigateTo("http://localhost:5000")
		require.Error(t, err)
		assert.ErrorIs(t, err, pages.ErrNavigationTimeout)

		var perr *pages.Error
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, "navigate", perr.Op)
		assert.Equal(t, shortTimeout, perr.Timeout)
	})

	t.Run("navigation failure", func(t *testing.T) {
		d := browsertest.NewDriver()
		d.NavigateErr = errors.New("net::ERR_CONNECTION_REFUSED")

		err := newPage(d).NavigateTo("http://localhost:1")
		assert.ErrorIs(t, err, pages.ErrNavigationTimeout)
		assert.Contains(t, err.Error(), "ERR_CONNECTION_REFUSED")
	})
}

func TestFind(t *testing.T) {
	t.Run("first match wins", func(t *testing.T) {
		d := browsertest.NewDriver()
		first, second := browsertest.NewElement("one"), browsertest.NewElement("two")
		d.Set(".card", first, second)

		el, err := newPage(d).Find(".card")
		require.NoError(t, err)
		assert.Same(t, first, el)
	})

	t.Run("comma group falls through to a later alternative", func(t *testing.T) {
		d := browsertest.NewDriver()
		el := browsertest.NewElement("")
		d.Set(`input[type="text"]`, el)

		got, err := newPage(d).Find(`input[aria-label="Username"], input[type="text"]`)
		require.NoError(t, err)
		assert.Same(t, el, got)
	})

	t.Run("element that appears late is found", func(t *testing.T) {
		d := browsertest.NewDriver()
		go func() {
			time.Sleep(3 * tick)
			d.Set("#late", browsertest.NewElement("late"))
		}()

		text, err := newPage(d).Text("#late")
		require.NoError(t, err)
		assert.Equal(t, "late", text)
	})

	t.Run("missing element", func(t *testing.T) {
		_, err := newPage(browsertest.NewDriver()).Find("#nope")
		require.Error(t, err)
		assert.True(t, pages.IsNotFound(err))
		assert.Contains(t, err.Error(), `"#nope"`)
	})
}

func TestClick(t *testing.T) {
	t.Run("scrolls then clicks", func(t *testing.T) {
		d := browsertest.NewDriver()
		btn := browsertest.NewElement("Login")
		d.Set("button", btn)

		require.NoError(t, newPage(d).Click("button"))
		assert.Equal(t, 1, btn.Clicks)
		assert.Equal(t, 1, btn.Scrolled)
	})

	t.Run("waits for the element to become enabled", func(t *testing.T) {
		d := browsertest.NewDriver()
		btn := browsertest.NewElement("Login")
		btn.Disabled = true
		d.Set("button", btn)
		go func() {
			time.Sleep(3 * tick)
			btn.Enable(true)
		}()

		require.NoError(t, newPage(d).Click("button"))
		assert.Equal(t, 1, btn.Clicks)
	})

	t.Run("hidden element is not interactable", func(t *testing.T) {
		d := browsertest.NewDriver()
		btn := browsertest.NewElement("Login")
		btn.Hidden = true
		d.Set("button", btn)

		err := newPage(d).Click("button")
		assert.ErrorIs(t, err, pages.ErrElementNotInteractable)
		assert.Equal(t, 0, btn.Clicks)
	})

	t.Run("scroll failure is reported", func(t *testing.T) {
		d := browsertest.NewDriver()
		btn := browsertest.NewElement("Login")
		btn.ScrollErr = errors.New("element is detached")
		d.Set("button", btn)

		err := newPage(d).Click("button")
		require.ErrorIs(t, err, pages.ErrElementNotInteractable)
		assert.Contains(t, err.Error(), "element is detached")
		assert.Equal(t, 0, btn.Clicks)
	})

	t.Run("missing element is not found", func(t *testing.T) {
		err := newPage(browsertest.NewDriver()).Click("button")
		assert.ErrorIs(t, err, pages.ErrElementNotFound)
	})
}

func TestSetField(t *testing.T) {
	d := browsertest.NewDriver()
	input := browsertest.NewElement("")
	input.Value = "stale"
	d.Set("#user", input)

	require.NoError(t, newPage(d).SetField("#user", "admin"))
	assert.Equal(t, "admin", input.Value)
}

func TestPressAndSelect(t *testing.T) {
	d := browsertest.NewDriver()
	search := browsertest.NewElement("")
	filter := browsertest.NewElement("")
	filter.Options = []string{"All", "SUV", "Compact"}
	d.Set("#search", search)
	d.Set("#filter", filter)

	p := newPage(d)
	require.NoError(t, p.Press("#search", "Enter"))
	assert.Equal(t, []string{"Enter"}, search.Pressed)

	require.NoError(t, p.Select("#filter", "SUV"))
	assert.Equal(t, "SUV", filter.Selected)

	assert.ErrorIs(t, p.Select("#filter", "Truck"), pages.ErrElementNotInteractable)
}

func TestAttributeAndCount(t *testing.T) {
	d := browsertest.NewDriver()
	d.Set(`input[type="password"]`, browsertest.NewElement("").WithAttr("type", "password"))
	d.Set(".card", browsertest.NewElement("a"), browsertest.NewElement("b"))

	p := newPage(d)
	v, err := p.Attribute(`input[type="password"]`, "type")
	require.NoError(t, err)
	assert.Equal(t, "password", v)

	v, err = p.Attribute(`input[type="password"]`, "placeholder")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	assert.Equal(t, 2, p.Count(".card"))
	assert.Equal(t, 0, p.Count(".missing"))
}

func TestIsConditionTrue(t *testing.T) {
	d := browsertest.NewDriver()
	d.URL = "http://localhost:5000/login"
	p := newPage(d)

	t.Run("holds later", func(t *testing.T) {
		go func() {
			time.Sleep(3 * tick)
			d.SetURL("http://localhost:5000/admin")
		}()
		assert.True(t, p.IsConditionTrue(pages.URLExcludes("/login"), shortTimeout))
		assert.True(t, p.IsConditionTrue(pages.URLContains("/ADMIN"), shortTimeout))
	})

	t.Run("times out", func(t *testing.T) {
		start := time.Now()
		assert.False(t, p.IsConditionTrue(pages.URLContains("/never"), 50*time.Millisecond))
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("errors count as not yet", func(t *testing.T) {
		pred := func(browser.Driver) (bool, error) { return false, errors.New("stale element") }
		assert.False(t, p.IsConditionTrue(pred, 30*time.Millisecond))
	})

	t.Run("panicking predicate yields false", func(t *testing.T) {
		pred := func(browser.Driver) (bool, error) { panic("boom") }
		assert.NotPanics(t, func() {
			assert.False(t, p.IsConditionTrue(pred, 30*time.Millisecond))
		})
	})

	t.Run("url changed", func(t *testing.T) {
		before := p.CurrentURL()
		d.SetURL("http://localhost:5000/vehicle/3")
		assert.True(t, p.IsConditionTrue(pages.URLChangedFrom(before), shortTimeout))
	})
}

func TestVisibility(t *testing.T) {
	d := browsertest.NewDriver()
	spinner := browsertest.NewElement("")
	d.Set(".spinner", spinner)
	p := newPage(d)

	assert.True(t, p.IsVisible(".spinner", shortTimeout))
	assert.False(t, p.WaitGone(".spinner", 30*time.Millisecond))

	spinner.Show(false)
	assert.False(t, p.IsVisible(".spinner", 30*time.Millisecond))
	assert.True(t, p.WaitGone(".spinner", shortTimeout))

	d.Remove(".spinner")
	assert.True(t, p.WaitGone(".spinner", shortTimeout))
}
