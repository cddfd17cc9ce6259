package browser

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightLauncher starts sessions through playwright-go.
type PlaywrightLauncher struct{}

// Launch installs the driver if needed, starts the browser and opens one page.
// Anything started before a failure is torn down again.
func (PlaywrightLauncher) Launch(opts Options) (Driver, error) {
	engine := playwrightEngine(opts.Browser)

	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{engine}}); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	d := &playwrightDriver{pw: pw}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	}
	var bt playwright.BrowserType
	switch engine {
	case "firefox":
		bt = pw.Firefox
	case "webkit":
		bt = pw.WebKit
	default:
		bt = pw.Chromium
		launchOpts.Args = opts.chromiumArgs()
		launchOpts.ChromiumSandbox = playwright.Bool(!opts.NoSandbox)
	}

	if d.browser, err = bt.Launch(launchOpts); err != nil {
		_ = d.Quit()
		return nil, fmt.Errorf("could not launch %s: %w", engine, err)
	}

	ctxOpts := playwright.BrowserNewContextOptions{}
	if opts.Width > 0 && opts.Height > 0 {
		ctxOpts.Viewport = &playwright.Size{Width: opts.Width, Height: opts.Height}
	}
	if d.context, err = d.browser.NewContext(ctxOpts); err != nil {
		_ = d.Quit()
		return nil, fmt.Errorf("could not create context: %w", err)
	}
	if d.page, err = d.context.NewPage(); err != nil {
		_ = d.Quit()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	d.SetImplicitWait(opts.ImplicitWait)
	return d, nil
}

func playwrightEngine(name string) string {
	switch strings.ToLower(name) {
	case "firefox", "ff":
		return "firefox"
	case "webkit", "safari":
		return "webkit"
	default:
		return "chromium"
	}
}

type playwrightDriver struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	context  playwright.BrowserContext
	page     playwright.Page
	implicit time.Duration
}

func (d *playwrightDriver) Navigate(url string) error {
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil && strings.Contains(err.Error(), "ERR_TOO_MANY_REDIRECTS") {
		return fmt.Errorf("redirect loop navigating to %s: %w", url, err)
	}
	return err
}

func (d *playwrightDriver) FindElements(selector string) ([]Element, error) {
	all, err := d.page.Locator(selector).All()
	if err != nil {
		return nil, err
	}
	els := make([]Element, 0, len(all))
	for _, loc := range all {
		els = append(els, &playwrightElement{loc: loc, timeout: d.actionTimeout()})
	}
	return els, nil
}

func (d *playwrightDriver) Title() (string, error) { return d.page.Title() }

func (d *playwrightDriver) CurrentURL() (string, error) { return d.page.URL(), nil }

func (d *playwrightDriver) ExecuteScript(script string) (any, error) {
	return d.page.Evaluate(script)
}

func (d *playwrightDriver) SaveScreenshot(path string) error {
	_, err := d.page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	})
	return err
}

func (d *playwrightDriver) SetImplicitWait(wait time.Duration) {
	d.implicit = wait
	if d.page != nil {
		d.page.SetDefaultTimeout(float64(wait.Milliseconds()))
	}
}

// Quit closes page, context, browser and the driver process, in that order.
func (d *playwrightDriver) Quit() error {
	var errs []error
	if d.page != nil {
		if err := d.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if d.context != nil {
		if err := d.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close context: %w", err))
		}
	}
	if d.browser != nil {
		if err := d.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if d.pw != nil {
		if err := d.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	return errors.Join(errs...)
}

// actionTimeout bounds a single element action. The page layer has already waited
// for the element, so this only covers the action itself.
func (d *playwrightDriver) actionTimeout() float64 {
	if d.implicit <= 0 {
		return 5000
	}
	return float64(d.implicit.Milliseconds())
}

type playwrightElement struct {
	loc     playwright.Locator
	timeout float64
}

func (e *playwrightElement) Click() error {
	return e.loc.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(e.timeout)})
}

func (e *playwrightElement) Clear() error {
	return e.loc.Clear(playwright.LocatorClearOptions{Timeout: playwright.Float(e.timeout)})
}

func (e *playwrightElement) SendKeys(text string) error {
	return e.loc.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{Timeout: playwright.Float(e.timeout)})
}

func (e *playwrightElement) Press(key string) error {
	return e.loc.Press(key, playwright.LocatorPressOptions{Timeout: playwright.Float(e.timeout)})
}

func (e *playwrightElement) SelectByText(label string) error {
	_, err := e.loc.SelectOption(playwright.SelectOptionValues{Labels: &[]string{label}},
		playwright.LocatorSelectOptionOptions{Timeout: playwright.Float(e.timeout)})
	return err
}

func (e *playwrightElement) Text() (string, error) {
	return e.loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: playwright.Float(e.timeout)})
}

func (e *playwrightElement) Attribute(name string) (string, bool, error) {
	v, err := e.loc.Evaluate(`(el, name) => el.getAttribute(name)`, name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return fmt.Sprint(v), true, nil
}

func (e *playwrightElement) IsDisplayed() (bool, error) { return e.loc.IsVisible() }

func (e *playwrightElement) IsEnabled() (bool, error) {
	return e.loc.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: playwright.Float(e.timeout)})
}

func (e *playwrightElement) ScrollIntoView() error {
	return e.loc.ScrollIntoViewIfNeeded(playwright.LocatorScrollIntoViewIfNeededOptions{Timeout: playwright.Float(e.timeout)})
}
