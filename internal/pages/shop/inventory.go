package shop

import (
	"time"

	"github.com/carrental-io/carrental-qa/internal/browser"
	"github.com/carrental-io/carrental-qa/internal/pages"
)

const (
	PageHeading      = ".title"
	InventoryHeading = "Products"
)

// InventoryPage is the product list shown after login.
type InventoryPage struct {
	*pages.Page
}

func NewInventoryPage(d browser.Driver, opts ...pages.Option) *InventoryPage {
	return &InventoryPage{Page: pages.New(d, opts...)}
}

// Heading returns the page heading text.
func (p *InventoryPage) Heading() (string, error) {
	return p.Text(PageHeading)
}

// IsDisplayed reports whether the browser reaches the inventory URL within timeout.
func (p *InventoryPage) IsDisplayed(timeout time.Duration) bool {
	return p.IsConditionTrue(pages.URLContains(InventoryPath), timeout)
}
