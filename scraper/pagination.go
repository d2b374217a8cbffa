package scraper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"homescout/config"
)

// LocationSpec maps one input line to the site's URL scheme. A "/" in the
// line marks the neighborhood form, which uses a distinct URL-building rule.
type LocationSpec struct {
	Raw          string
	CityState    string
	Neighborhood string
	BaseURL      string
}

// ParseLocation accepts "city-state" or "city-state/neighborhood-name".
// Lines are lowercased and spaces become hyphens to match the URL scheme.
func ParseLocation(line, siteURL string) LocationSpec {
	loc := LocationSpec{Raw: strings.TrimSpace(line)}

	slug := strings.ReplaceAll(strings.ToLower(loc.Raw), " ", "-")
	parts := strings.SplitN(slug, "/", 2)
	if len(parts) == 2 {
		loc.CityState = parts[0]
		loc.Neighborhood = parts[1]
		loc.BaseURL = fmt.Sprintf("%s/%s/%s-neighborhood/all-inventory", siteURL, loc.CityState, loc.Neighborhood)
	} else {
		loc.CityState = parts[0]
		loc.BaseURL = fmt.Sprintf("%s/%s/all-inventory", siteURL, loc.CityState)
	}

	return loc
}

func (l LocationSpec) IsNeighborhood() bool {
	return l.Neighborhood != ""
}

// PageURL builds the URL for a given page number. Page 1 is the base URL
// with a trailing slash; later pages append /p{n}/, with any trailing slash
// stripped first on the neighborhood form.
func (l LocationSpec) PageURL(page int) string {
	if page <= 1 {
		return l.BaseURL + "/"
	}
	base := l.BaseURL
	if l.IsNeighborhood() {
		base = strings.TrimRight(base, "/")
	}
	return fmt.Sprintf("%s/p%d/", base, page)
}

// TotalPages reads the search-results marker's nested span, expected to hold
// text of the form "x of N". It returns 1 and false when the marker, span,
// or number cannot be resolved; the caller logs the degradation.
func TotalPages(doc *goquery.Document, sel *config.Selectors) (int, bool) {
	marker := doc.Find(sel.SearchResults).First()
	if marker.Length() == 0 {
		return 1, false
	}

	span := marker.Find("span").First()
	if span.Length() == 0 {
		return 1, false
	}

	_, after, found := strings.Cut(span.Text(), "of")
	if !found {
		return 1, false
	}

	n, err := strconv.Atoi(strings.TrimSpace(after))
	if err != nil || n < 1 {
		return 1, false
	}
	return n, true
}

// Decision is the continuation outcome evaluated after each page cycle.
type Decision int

const (
	DecisionContinue Decision = iota
	DecisionStopNotFound
	DecisionStopHTTPError
	DecisionStopErrorMarker
	DecisionStopNoListings
	DecisionStopNoNextPage
)

func (d Decision) String() string {
	switch d {
	case DecisionContinue:
		return "continue"
	case DecisionStopNotFound:
		return "stop: page not found"
	case DecisionStopHTTPError:
		return "stop: http error"
	case DecisionStopErrorMarker:
		return "stop: error marker on page"
	case DecisionStopNoListings:
		return "stop: no listings processed"
	case DecisionStopNoNextPage:
		return "stop: no next page"
	default:
		return "unknown"
	}
}

// NextPageDecision checks the pagination block after a page has been
// processed and saved. With a pagination block present, the next-page
// affordance decides; without one, the crawl continues as long as the page
// index is below the total computed up front.
func NextPageDecision(doc *goquery.Document, sel *config.Selectors, page, totalPages int) Decision {
	pagination := doc.Find(sel.Pagination).First()
	if pagination.Length() > 0 {
		if pagination.Find(sel.NextPage).Length() == 0 {
			return DecisionStopNoNextPage
		}
		return DecisionContinue
	}

	if page < totalPages {
		return DecisionContinue
	}
	return DecisionStopNoNextPage
}
