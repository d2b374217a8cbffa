package scraper

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"homescout/config"
	"homescout/logging"
	"homescout/models"
)

// Extractor turns a single listing node into a record, dropping anything
// below the configured price threshold. Missing sub-elements degrade to
// empty or unset fields; a bad node never affects its siblings.
type Extractor struct {
	sel       *config.Selectors
	threshold float64
}

func NewExtractor(sel *config.Selectors, threshold float64) *Extractor {
	return &Extractor{sel: sel, threshold: threshold}
}

// Extract returns nil for sub-threshold listings and for nodes that carry
// no usable price at all.
func (e *Extractor) Extract(node *goquery.Selection) *models.ListingRecord {
	priceText, status := e.priceAndStatus(node)

	priceValue := NormalizePrice(priceText)
	if priceValue < e.threshold {
		return nil
	}

	rec := &models.ListingRecord{
		Address:    text(node, e.sel.Address),
		Price:      priceText,
		PriceValue: priceValue,
		Status:     status,
	}
	if rec.Status == "" {
		rec.Status = models.DefaultStatus
	}

	e.details(node, rec)
	e.agentAndDescription(node, rec)

	return rec
}

// priceAndStatus resolves the price-bearing element via the candidate class
// chain, splits its text into price and trailing status, and lets an
// explicit status tag override the derived status. An "Est" first token
// means the second token is the price.
func (e *Extractor) priceAndStatus(node *goquery.Selection) (string, string) {
	container := firstMatch(node, e.sel.PriceContainers)
	if container == nil {
		return "", ""
	}

	var priceText, status string

	parts := strings.Fields(container.Text())
	if len(parts) > 0 {
		if parts[0] == "Est" && len(parts) > 1 {
			priceText = parts[1]
			status = models.StatusEstimated
		} else {
			priceText = parts[0]
			if len(parts) > 1 {
				status = strings.Join(parts[1:], " ")
			}
		}
	}

	if tag := strings.TrimSpace(container.Find(e.sel.StatusTag).Text()); tag != "" {
		status = tag
	}

	return priceText, status
}

// details classifies each item of the details list by substring. A parse
// failure leaves the field unset; it never drops the listing.
func (e *Extractor) details(node *goquery.Selection, rec *models.ListingRecord) {
	node.Find(e.sel.DetailsList).First().Find("li").Each(func(_ int, li *goquery.Selection) {
		item := strings.TrimSpace(li.Text())
		switch {
		case strings.Contains(item, "Beds"):
			if v, ok := leadingInt(item); ok {
				rec.Beds = &v
			} else {
				logging.Debugf("could not parse beds from %q", item)
			}
		case strings.Contains(item, "Baths"):
			if v, ok := leadingFloat(item); ok {
				rec.Baths = &v
			} else {
				logging.Debugf("could not parse baths from %q", item)
			}
		case strings.Contains(item, "Sq Ft"):
			if v, ok := leadingSqFt(item); ok {
				rec.SqFt = &v
			} else {
				logging.Debugf("could not parse sqft from %q", item)
			}
		}
	})
}

// agentAndDescription scopes the search to the nested description container
// when present, falling back to a flat search of the whole node.
func (e *Extractor) agentAndDescription(node *goquery.Selection, rec *models.ListingRecord) {
	scope := node
	if nested := node.Find(e.sel.DescriptionScope).First(); nested.Length() > 0 {
		scope = nested
	}

	if agentDetail := scope.Find(e.sel.AgentDetail).First(); agentDetail.Length() > 0 {
		rec.Agent = strings.TrimSpace(agentDetail.Find(e.sel.AgentName).Text())
		rec.Agency = strings.TrimSpace(agentDetail.Find(e.sel.AgencyName).Text())
	}

	rec.Description = strings.TrimSpace(scope.Find(e.sel.Description).Text())
}

// firstMatch tries candidate selectors in order and returns the first
// non-empty selection.
func firstMatch(node *goquery.Selection, candidates []string) *goquery.Selection {
	for _, selector := range candidates {
		if s := node.Find(selector).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}

func text(node *goquery.Selection, selector string) string {
	return strings.TrimSpace(node.Find(selector).First().Text())
}

func leadingInt(item string) (int, bool) {
	fields := strings.Fields(item)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, false
	}
	return v, true
}

func leadingFloat(item string) (float64, bool) {
	fields := strings.Fields(item)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func leadingSqFt(item string) (int, bool) {
	fields := strings.Fields(item)
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(fields[0], ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}
