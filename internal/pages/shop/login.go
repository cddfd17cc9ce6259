// Package shop models the Swag Labs demo shop used by the data-driven login suite.
package shop

import (
	"fmt"
	"strings"
	"time"

	"github.com/carrental-io/carrental-qa/internal/browser"
	"github.com/carrental-io/carrental-qa/internal/pages"
)

const (
	UsernameInput = "#user-name"
	PasswordInput = "#password"
	LoginButton   = "#login-button"
	MenuButton    = "#react-burger-menu-btn"
	LogoutLink    = "#logout_sidebar_link"
	ErrorBanner   = `[data-test="error"]`
)

const (
	// ExpectedTitle is the document title of every shop page.
	ExpectedTitle = "Swag Labs"
	InventoryPath = "/inventory.html"
)

// LoginPage is the shop landing page, which is also its login form.
type LoginPage struct {
	*pages.Page
}

func NewLoginPage(d browser.Driver, opts ...pages.Option) *LoginPage {
	return &LoginPage{Page: pages.New(d, opts...)}
}

// NavigateTo opens the shop root.
func (p *LoginPage) NavigateTo(shopURL string) error {
	return p.Page.NavigateTo(strings.TrimRight(shopURL, "/") + "/")
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

func (p *LoginPage) Login(username, password string) error {
	if err := p.SetUsername(username); err != nil {
		return err
	}
	if err := p.SetPassword(password); err != nil {
		return err
	}
	return p.ClickLogin()
}

// ClickLogout opens the side menu and follows its logout link. The link is only
// clickable once the menu has slid in, which Click waits for.
func (p *LoginPage) ClickLogout() error {
	if err := p.Click(MenuButton); err != nil {
		return fmt.Errorf("failed to open menu: %w", err)
	}
	if err := p.Click(LogoutLink); err != nil {
		return fmt.Errorf("failed to click logout: %w", err)
	}
	return nil
}

// IsLoginSuccessful waits for the inventory page URL.
func (p *LoginPage) IsLoginSuccessful(timeout time.Duration) bool {
	return p.IsConditionTrue(pages.URLContains(InventoryPath), timeout)
}

func (p *LoginPage) IsErrorDisplayed(timeout time.Duration) bool {
	return p.IsVisible(ErrorBanner, timeout)
}

// IsLoginButtonDisplayed is how the suite confirms a logout landed back on the form.
func (p *LoginPage) IsLoginButtonDisplayed(timeout time.Duration) bool {
	return p.IsVisible(LoginButton, timeout)
}
