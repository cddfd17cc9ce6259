package rental

import (
	"fmt"
	"strings"
	"time"

	"github.com/carrental-io/carrental-qa/internal/browser"
	"github.com/carrental-io/carrental-qa/internal/pages"
)

const (
	VehicleCards     = `.vehicle-card, .mud-card, [data-testid="vehicle-card"]`
	SearchInput      = `#search-input, input[type="search"], input[placeholder*="Recherch"]`
	SearchButton     = `button[type="search"], button:has(.search-icon)`
	CategoryFilter   = `#category-filter, select[name="category"]`
	ViewDetailsLinks = `.view-details-btn, a[href*="/vehicle/"]`
	NoResults        = `.no-results, .empty-message, .no-vehicles`
	LoadingIndicator = `.loading, .spinner, .mud-progress-circular`
)

// VehiclesWait is the default bound for the catalogue screens.
const VehiclesWait = 10 * time.Second

// VehiclesPage is the vehicle catalogue at /vehicles and /vehicles/browse.
type VehiclesPage struct {
	*pages.Page
}

// NewVehiclesPage binds the catalogue screen to d.
func NewVehiclesPage(d browser.Driver, opts ...pages.Option) *VehiclesPage {
	return &VehiclesPage{Page: pages.New(d, append([]pages.Option{pages.WithTimeout(VehiclesWait)}, opts...)...)}
}

// NavigateTo opens the admin catalogue.
func (p *VehiclesPage) NavigateTo(baseURL string) error {
	return p.Page.NavigateTo(strings.TrimRight(baseURL, "/") + "/vehicles")
}

// NavigateToBrowse opens the public catalogue.
func (p *VehiclesPage) NavigateToBrowse(baseURL string) error {
	return p.Page.NavigateTo(strings.TrimRight(baseURL, "/") + "/vehicles/browse")
}

// WaitForPageLoad waits for loading indicators to go away. A page that never showed
// one counts as loaded.
func (p *VehiclesPage) WaitForPageLoad(timeout time.Duration) bool {
	return p.WaitGone(LoadingIndicator, timeout)
}

// VehicleCount waits for at least one card and returns how many are shown; 0 when
// none appear in time.
func (p *VehiclesPage) VehicleCount() int {
	if _, err := p.Find(VehicleCards); err != nil {
		return 0
	}
	return p.Count(VehicleCards)
}

func (p *VehiclesPage) AreVehiclesDisplayed() bool { return p.VehicleCount() > 0 }

// SearchVehicle types term into the search box and submits it, with the search button
// when there is one and Enter otherwise.
func (p *VehiclesPage) SearchVehicle(term string) error {
	if err := p.SetField(SearchInput, term); err != nil {
		return fmt.Errorf("failed to fill search: %w", err)
	}
	if p.Count(SearchButton) > 0 {
		if err := p.Click(SearchButton); err != nil {
			return fmt.Errorf("failed to submit search: %w", err)
		}
	} else if err := p.Press(SearchInput, "Enter"); err != nil {
		return fmt.Errorf("failed to submit search: %w", err)
	}
	p.WaitForPageLoad(p.Timeout())
	return nil
}

// FilterByCategory picks a category in the filter dropdown.
func (p *VehiclesPage) FilterByCategory(category string) error {
	if err := p.Select(CategoryFilter, category); err != nil {
		return fmt.Errorf("failed to filter by %q: %w", category, err)
	}
	p.WaitForPageLoad(p.Timeout())
	return nil
}

// ClickFirstVehicleDetails opens the first vehicle, through its details link when one
// appears and through the card itself otherwise, and waits for the URL to change.
func (p *VehiclesPage) ClickFirstVehicleDetails() error {
	before := p.CurrentURL()
	target := ViewDetailsLinks
	if !p.IsVisible(ViewDetailsLinks, p.Timeout()) {
		target = VehicleCards
	}
	if err := p.Click(target); err != nil {
		return fmt.Errorf("failed to open vehicle details: %w", err)
	}
	p.IsConditionTrue(pages.URLChangedFrom(before), p.Timeout())
	return nil
}

func (p *VehiclesPage) IsNoResultsDisplayed(timeout time.Duration) bool {
	return p.IsVisible(NoResults, timeout)
}

// VehicleTitles returns the text of every card currently shown.
func (p *VehiclesPage) VehicleTitles() []string {
	var titles []string
	for _, el := range p.FindAll(VehicleCards) {
		if text, err := el.Text(); err == nil {
			titles = append(titles, strings.TrimSpace(text))
		}
	}
	return titles
}

// VehicleInfo summarises one catalogue card.
type VehicleInfo struct {
	Text      string
	Displayed bool
}

// FirstVehicleInfo describes the first card, if any.
func (p *VehiclesPage) FirstVehicleInfo() (VehicleInfo, bool) {
	els := p.FindAll(VehicleCards)
	if len(els) == 0 {
		return VehicleInfo{}, false
	}
	text, err := els[0].Text()
	if err != nil {
		return VehicleInfo{}, false
	}
	shown, _ := els[0].IsDisplayed()
	return VehicleInfo{Text: strings.TrimSpace(text), Displayed: shown}, true
}
