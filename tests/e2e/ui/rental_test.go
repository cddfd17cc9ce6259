//go:build e2e

package ui_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carrental-io/carrental-qa/internal/config"
	"github.com/carrental-io/carrental-qa/internal/fixtures"
	"github.com/carrental-io/carrental-qa/internal/pages/rental"
)

func TestTC023HomePageTitle(t *testing.T) {
	d := rentalDriver(t)
	cfg := fixtures.Config(t)

	home := rental.NewHomePage(d, pageOptions(t)...)
	logStep(t, "Opening URL: %s", cfg.BaseURL())
	require.NoError(t, home.Open(cfg.BaseURL()))

	title := home.Title()
	logStep(t, "Page title: %s", title)
	assert.True(t, home.HasExpectedTitle(), "title %q should contain one of %v", title, rental.HomeTitleMarkers)
}

func TestTC023LoginValidCredentials(t *testing.T) {
	d := rentalDriver(t)
	cfg := fixtures.Config(t)
	creds, err := cfg.Credentials(config.RoleAdmin)
	require.NoError(t, err)

	login := rental.NewLoginPage(d, pageOptions(t)...)
	require.NoError(t, login.NavigateTo(cfg.BaseURL()))

	logStep(t, "Logging in as %s", creds.Username)
	require.NoError(t, login.Login(creds.Username, creds.Password))

	assert.True(t, login.IsLoginSuccessful(rental.DefaultSuccessTimeout),
		"expected to leave /login for a landing page, still at %s", login.CurrentURL())
}

func TestTC024LoginInvalidPassword(t *testing.T) {
	d := rentalDriver(t)
	cfg := fixtures.Config(t)
	creds, err := cfg.Credentials(config.RoleAdmin)
	require.NoError(t, err)

	login := rental.NewLoginPage(d, pageOptions(t)...)
	require.NoError(t, login.NavigateTo(cfg.BaseURL()))

	logStep(t, "Logging in as %s with a wrong password", creds.Username)
	require.NoError(t, login.Login(creds.Username, "WrongPassword123"))

	assert.True(t, login.IsErrorDisplayed(rental.DefaultErrorTimeout), "expected an error message")
	assert.Contains(t, strings.ToLower(login.CurrentURL()), "/login", "expected to stay on the login page")
	logStep(t, "Error displayed: %s", login.ErrorMessage())
}

func TestLoginPasswordIsMasked(t *testing.T) {
	d := rentalDriver(t)

	login := rental.NewLoginPage(d, pageOptions(t)...)
	require.NoError(t, login.NavigateTo(fixtures.Config(t).BaseURL()))
	require.NoError(t, login.SetPassword("secret"))
	assert.True(t, login.IsPasswordMasked())
}

func TestTC028BrowseVehiclesDisplaysList(t *testing.T) {
	d := rentalDriver(t)

	vehicles := rental.NewVehiclesPage(d, pageOptions(t)...)
	require.NoError(t, vehicles.NavigateToBrowse(fixtures.Config(t).BaseURL()))
	require.True(t, vehicles.WaitForPageLoad(rental.VehiclesWait), "vehicle cards never appeared")

	count := vehicles.VehicleCount()
	logStep(t, "Found %d vehicles", count)
	assert.Positive(t, count)

	info, ok := vehicles.FirstVehicleInfo()
	require.True(t, ok)
	assert.True(t, info.Displayed)
	assert.NotEmpty(t, info.Text)
}

func TestTC029SearchVehicleValidTerm(t *testing.T) {
	d := rentalDriver(t)

	vehicles := rental.NewVehiclesPage(d, pageOptions(t)...)
	require.NoError(t, vehicles.NavigateToBrowse(fixtures.Config(t).BaseURL()))
	require.True(t, vehicles.WaitForPageLoad(rental.VehiclesWait), "vehicle cards never appeared")

	titles := vehicles.VehicleTitles()
	require.NotEmpty(t, titles)
	term := strings.Fields(titles[0])[0]

	logStep(t, "Searching for %q", term)
	require.NoError(t, vehicles.SearchVehicle(term))
	assert.True(t, vehicles.AreVehiclesDisplayed() || vehicles.IsNoResultsDisplayed(rental.DefaultErrorTimeout),
		"search should show results or an empty state")
}

func TestVehicleDetailsNavigation(t *testing.T) {
	d := rentalDriver(t)

	vehicles := rental.NewVehiclesPage(d, pageOptions(t)...)
	require.NoError(t, vehicles.NavigateToBrowse(fixtures.Config(t).BaseURL()))
	require.True(t, vehicles.WaitForPageLoad(rental.VehiclesWait), "vehicle cards never appeared")

	require.NoError(t, vehicles.ClickFirstVehicleDetails())
	assert.Contains(t, strings.ToLower(vehicles.CurrentURL()), "/vehicle")
}
