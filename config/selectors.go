package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Selectors holds every CSS selector the scraper uses against the target
// site. Multi-entry fields are ordered candidate lists tried first-match-wins,
// so site-structure changes can be absorbed by editing the YAML file instead
// of the extraction code.
type Selectors struct {
	ListingContainers []string `yaml:"listing_containers"`
	ListingFallback   string   `yaml:"listing_fallback"`

	PriceContainers []string `yaml:"price_containers"`
	StatusTag       string   `yaml:"status_tag"`
	DetailsList     string   `yaml:"details_list"`

	Address          string `yaml:"address"`
	DescriptionScope string `yaml:"description_scope"`
	Description      string `yaml:"description"`
	AgentDetail      string `yaml:"agent_detail"`
	AgentName        string `yaml:"agent_name"`
	AgencyName       string `yaml:"agency_name"`

	SearchResults  string `yaml:"search_results"`
	Pagination     string `yaml:"pagination"`
	NextPage       string `yaml:"next_page"`
	ErrorContainer string `yaml:"error_container"`
}

// DefaultSelectors returns the selector set for the current site markup.
func DefaultSelectors() *Selectors {
	return &Selectors{
		ListingContainers: []string{
			"div.for-sale-content-container",
			"div.off-market-content-container",
		},
		ListingFallback: "div[data-nosnippet]",

		PriceContainers: []string{"p.price-container", "p.price"},
		StatusTag:       "span.status-pill",
		DetailsList:     "ul.detailed-info-container",

		Address:          "p.property-name",
		DescriptionScope: "div.description-container",
		Description:      "p.property-description",
		AgentDetail:      "p.agent-detail",
		AgentName:        "span.agent-name",
		AgencyName:       "span.agency-name",

		SearchResults:  "p.search-results",
		Pagination:     "div.pagination",
		NextPage:       "a.next-page",
		ErrorContainer: "div.error-container",
	}
}

// LoadSelectors reads a selectors YAML file, falling back to the compiled
// defaults when the file does not exist. Fields left empty in the file keep
// their default values.
func LoadSelectors(path string) (*Selectors, error) {
	sel := DefaultSelectors()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sel, nil
		}
		return nil, fmt.Errorf("read selectors: %w", err)
	}

	if err := yaml.Unmarshal(data, sel); err != nil {
		return nil, fmt.Errorf("parse selectors: %w", err)
	}
	return sel, nil
}
