package rental

import (
	"strings"

	"github.com/carrental-io/carrental-qa/internal/browser"
	"github.com/carrental-io/carrental-qa/internal/pages"
)

// HomeTitleMarkers are the substrings an application title is expected to contain.
var HomeTitleMarkers = []string{"Car Rental", "Blazor"}

// HomePage is the application root.
type HomePage struct {
	*pages.Page
}

func NewHomePage(d browser.Driver, opts ...pages.Option) *HomePage {
	return &HomePage{Page: pages.New(d, opts...)}
}

// Open loads baseURL and waits for the document.
func (p *HomePage) Open(baseURL string) error {
	return p.NavigateTo(baseURL)
}

// HasExpectedTitle reports whether the title names the application.
func (p *HomePage) HasExpectedTitle() bool {
	title := p.Title()
	for _, marker := range HomeTitleMarkers {
		if strings.Contains(title, marker) {
			return true
		}
	}
	return false
}
