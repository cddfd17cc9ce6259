package browser

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodLauncher starts a local Chrome through go-rod. The Browser option is ignored;
// rod only drives Chromium-family browsers.
type RodLauncher struct{}

func (RodLauncher) Launch(opts Options) (Driver, error) {
	l := launcher.New().
		Headless(opts.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage")
	if opts.NoSandbox {
		l = l.Set("no-sandbox")
	}
	if opts.Width > 0 && opts.Height > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", opts.Width, opts.Height))
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch Chrome: %w", err)
	}
	d := &rodDriver{launcher: l}

	d.browser = rod.New().ControlURL(url)
	if err := d.browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to Chrome: %w", err)
	}

	if d.page, err = d.browser.Page(proto.TargetCreateTarget{}); err != nil {
		_ = d.Quit()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	if opts.Width > 0 && opts.Height > 0 {
		err = d.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Width,
			Height:            opts.Height,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			_ = d.Quit()
			return nil, fmt.Errorf("failed to set viewport: %w", err)
		}
	}
	d.SetImplicitWait(opts.ImplicitWait)
	return d, nil
}

type rodDriver struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	implicit time.Duration
}

// timed returns the page bounded by the implicit wait, and the cancel for it.
func (d *rodDriver) timed() (*rod.Page, func()) {
	if d.implicit <= 0 {
		return d.page, func() {}
	}
	p := d.page.Timeout(d.implicit)
	return p, func() { p.CancelTimeout() }
}

func (d *rodDriver) Navigate(url string) error {
	p, cancel := d.timed()
	defer cancel()
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

func (d *rodDriver) FindElements(selector string) ([]Element, error) {
	found, err := d.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	els := make([]Element, 0, len(found))
	for _, el := range found {
		els = append(els, &rodElement{el: el, timeout: d.implicit})
	}
	return els, nil
}

func (d *rodDriver) Title() (string, error) {
	info, err := d.page.Info()
	if err != nil {
		return "", err
	}
	return info.Title, nil
}

func (d *rodDriver) CurrentURL() (string, error) {
	info, err := d.page.Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (d *rodDriver) ExecuteScript(script string) (any, error) {
	p, cancel := d.timed()
	defer cancel()
	res, err := p.Eval(script)
	if err != nil {
		return nil, fmt.Errorf("eval failed: %w", err)
	}
	return res.Value.Val(), nil
}

func (d *rodDriver) SaveScreenshot(path string) error {
	bin, err := d.page.Screenshot(false, nil)
	if err != nil {
		return err
	}
	return os.WriteFile(path, bin, 0o644)
}

func (d *rodDriver) SetImplicitWait(wait time.Duration) { d.implicit = wait }

// Quit closes the browser and waits for the Chrome process to exit.
func (d *rodDriver) Quit() error {
	var errs []error
	if d.browser != nil {
		if err := d.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if d.launcher != nil {
		d.launcher.Cleanup()
	}
	return errors.Join(errs...)
}

var rodKeys = map[string]input.Key{
	"Enter":     input.Enter,
	"Tab":       input.Tab,
	"Escape":    input.Escape,
	"Backspace": input.Backspace,
	"ArrowDown": input.ArrowDown,
	"ArrowUp":   input.ArrowUp,
}

type rodElement struct {
	el      *rod.Element
	timeout time.Duration
}

func (e *rodElement) timed() (*rod.Element, func()) {
	if e.timeout <= 0 {
		return e.el, func() {}
	}
	el := e.el.Timeout(e.timeout)
	return el, func() { el.CancelTimeout() }
}

func (e *rodElement) Click() error {
	el, cancel := e.timed()
	defer cancel()
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *rodElement) Clear() error {
	_, err := e.el.Eval(`() => { this.value = ''; this.dispatchEvent(new Event('input', { bubbles: true })) }`)
	return err
}

func (e *rodElement) SendKeys(text string) error {
	el, cancel := e.timed()
	defer cancel()
	return el.Input(text)
}

func (e *rodElement) Press(key string) error {
	k, ok := rodKeys[key]
	if !ok {
		return fmt.Errorf("unsupported key %q", key)
	}
	el, cancel := e.timed()
	defer cancel()
	return el.Type(k)
}

func (e *rodElement) SelectByText(label string) error {
	el, cancel := e.timed()
	defer cancel()
	return el.Select([]string{label}, true, rod.SelectorTypeText)
}

func (e *rodElement) Text() (string, error) { return e.el.Text() }

func (e *rodElement) Attribute(name string) (string, bool, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func (e *rodElement) IsDisplayed() (bool, error) { return e.el.Visible() }

func (e *rodElement) IsEnabled() (bool, error) {
	disabled, err := e.el.Property("disabled")
	if err != nil {
		return false, err
	}
	return !disabled.Bool(), nil
}

func (e *rodElement) ScrollIntoView() error { return e.el.ScrollIntoView() }
