package shop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carrental-io/carrental-qa/internal/browser/browsertest"
	"github.com/carrental-io/carrental-qa/internal/pages"
	"github.com/carrental-io/carrental-qa/internal/pages/shop"
)

const (
	shopURL = "https://www.saucedemo.com"
	bound   = 200 * time.Millisecond
	tick    = 5 * time.Millisecond
)

func fast() []pages.Option {
	return []pages.Option{pages.WithTimeout(bound), pages.WithPollInterval(tick)}
}

// fakeShop models the login form, the inventory page and the side menu.
func fakeShop(d *browsertest.Driver) {
	user := browsertest.NewElement("")
	pass := browsertest.NewElement("")
	login := browsertest.NewElement("Login")
	menu := browsertest.NewElement("Open Menu")
	logout := browsertest.NewElement("Logout")
	logout.Hidden = true

	showForm := func() {
		d.SetURL(shopURL + "/")
		d.PageTitle = shop.ExpectedTitle
		d.Set(shop.UsernameInput, user)
		d.Set(shop.PasswordInput, pass)
		d.Set(shop.LoginButton, login)
		d.Remove(shop.PageHeading)
		d.Remove(shop.MenuButton)
	}

	login.OnClick = func() {
		if user.Value == "standard_user" && pass.Value == "secret_sauce" {
			d.SetURL(shopURL + shop.InventoryPath)
			d.Remove(shop.LoginButton)
			d.Set(shop.PageHeading, browsertest.NewElement("Products"))
			d.Set(shop.MenuButton, menu)
			d.Set(shop.LogoutLink, logout)
			return
		}
		d.Set(shop.ErrorBanner, browsertest.NewElement("Epic sadface: Username and password do not match"))
	}
	menu.OnClick = func() {
		go func() {
			time.Sleep(3 * tick)
			logout.Show(true)
		}()
	}
	logout.OnClick = func() {
		logout.Show(false)
		showForm()
	}
	d.OnNavigate = func(*browsertest.Driver, string) { showForm() }
}

func TestLoginLogout(t *testing.T) {
	d := browsertest.NewDriver()
	fakeShop(d)
	login := shop.NewLoginPage(d, fast()...)
	inventory := shop.NewInventoryPage(d, fast()...)

	require.NoError(t, login.NavigateTo(shopURL))
	assert.Equal(t, shop.ExpectedTitle, login.Title())
	assert.Equal(t, []string{shopURL + "/"}, d.Navigations)

	require.NoError(t, login.Login("standard_user", "secret_sauce"))
	assert.True(t, login.IsLoginSuccessful(bound))
	assert.True(t, inventory.IsDisplayed(bound))

	heading, err := inventory.Heading()
	require.NoError(t, err)
	assert.Equal(t, shop.InventoryHeading, heading)

	require.NoError(t, login.ClickLogout())
	assert.True(t, login.IsLoginButtonDisplayed(bound))
	assert.False(t, inventory.IsDisplayed(20*time.Millisecond))
}

func TestLoginRejected(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "standard_user", "nope"},
		{"unknown user", "ghost", "secret_sauce"},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := browsertest.NewDriver()
			fakeShop(d)
			login := shop.NewLoginPage(d, fast()...)
			require.NoError(t, login.NavigateTo(shopURL))

			require.NoError(t, login.Login(tc.username, tc.password))
			assert.False(t, login.IsLoginSuccessful(30*time.Millisecond))
			assert.True(t, login.IsErrorDisplayed(bound))
			assert.True(t, login.IsLoginButtonDisplayed(bound))
		})
	}
}

func TestLogoutWithoutMenu(t *testing.T) {
	d := browsertest.NewDriver()
	login := shop.NewLoginPage(d, pages.WithTimeout(30*time.Millisecond), pages.WithPollInterval(tick))

	err := login.ClickLogout()
	require.Error(t, err)
	assert.ErrorIs(t, err, pages.ErrElementNotFound)
	assert.Contains(t, err.Error(), "failed to open menu")
}
