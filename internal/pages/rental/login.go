// Package rental models the screens of the car-rental Blazor frontend.
package rental

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/carrental-io/carrental-qa/internal/browser"
	"github.com/carrental-io/carrental-qa/internal/pages"
)

// MudBlazor renders the login form without stable ids, so the locators fall back to
// input types.
const (
	UsernameInput = `input[aria-label="Username"], input[type="text"]`
	PasswordInput = `input[type="password"]`
	LoginButton   = `button[type="submit"]`
	ErrorAlert    = `.mud-alert-error, .mud-snackbar-content-message`
)

const (
	// LoginWait is the default bound for the login screen; Blazor is slow to hydrate.
	LoginWait = 15 * time.Second

	DefaultSuccessTimeout = 10 * time.Second
	DefaultErrorTimeout   = 5 * time.Second
)

// landingPaths are the places a successful login may redirect to, besides the root.
var landingPaths = []string{"/admin", "/dashboard", "/home", "/vehicles"}

// LoginPage is the /login screen.
type LoginPage struct {
	*pages.Page
}

// NewLoginPage binds the login screen to d.
func NewLoginPage(d browser.Driver, opts ...pages.Option) *LoginPage {
	return &LoginPage{Page: pages.New(d, append([]pages.Option{pages.WithTimeout(LoginWait)}, opts...)...)}
}

// NavigateTo opens baseURL/login and waits for the document to load.
func (p *LoginPage) NavigateTo(baseURL string) error {
	return p.Page.NavigateTo(strings.TrimRight(baseURL, "/") + "/login")
}

func (p *LoginPage) SetUsername(username string) error {
	if err := p.SetField(UsernameInput, username); err != nil {
		return fmt.Errorf("failed to fill username: %w", err)
	}
	return nil
}

func (p *LoginPage) SetPassword(password string) error {
	if err := p.SetField(PasswordInput, password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}
	return nil
}

func (p *LoginPage) ClickLogin() error {
	if err := p.Click(LoginButton); err != nil {
		return fmt.Errorf("failed to click login: %w", err)
	}
	return nil
}

// Login fills both fields and submits. It does not judge the outcome.
func (p *LoginPage) Login(username, password string) error {
	if err := p.SetUsername(username); err != nil {
		return err
	}
	if err := p.SetPassword(password); err != nil {
		return err
	}
	return p.ClickLogin()
}

// IsLoginSuccessful waits for the URL to leave /login and land on a known page.
func (p *LoginPage) IsLoginSuccessful(timeout time.Duration) bool {
	if !p.IsConditionTrue(pages.URLExcludes("/login"), timeout) {
		return false
	}
	current := strings.ToLower(p.CurrentURL())
	if current == "" || strings.HasPrefix(current, "about:") {
		return false
	}
	u, err := url.Parse(current)
	if err != nil {
		return false
	}
	if u.Path == "" || u.Path == "/" {
		return true
	}
	for _, path := range landingPaths {
		if strings.Contains(u.Path, path) {
			return true
		}
	}
	return false
}

// IsErrorDisplayed reports whether an error alert or snackbar becomes visible.
func (p *LoginPage) IsErrorDisplayed(timeout time.Duration) bool {
	return p.IsVisible(ErrorAlert, timeout)
}

// ErrorMessage returns the current error text, or "" when there is none.
func (p *LoginPage) ErrorMessage() string {
	for _, el := range p.FindAll(ErrorAlert) {
		if text, err := el.Text(); err == nil {
			return strings.TrimSpace(text)
		}
	}
	return ""
}

// IsPasswordMasked reports whether the password input has type="password".
func (p *LoginPage) IsPasswordMasked() bool {
	v, err := p.Attribute(PasswordInput, "type")
	return err == nil && v == "password"
}
