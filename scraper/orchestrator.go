package scraper

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"homescout/config"
	"homescout/models"
)

// Dataset is the persistence store owning the in-memory collection. It is
// only mutated between page cycles, never concurrently with a page's
// extraction fan-out.
type Dataset interface {
	Append(recs []models.ListingRecord) int
	Save() error
	Len() int
}

// RunStore records run lifecycle and log lines; nil disables run history.
type RunStore interface {
	CreateRun(run *models.ScrapeRun) (int64, error)
	UpdateRun(run *models.ScrapeRun) error
	Log(runID *int64, level models.LogLevel, message, location string) error
}

// RecordSink receives each page's qualifying records in addition to the
// dataset; nil disables the sink. Sink failures log and never stop a run.
type RecordSink interface {
	UpsertRecords(ctx context.Context, location string, recs []models.ListingRecord) error
}

// Orchestrator drives one location end-to-end: discover the page count,
// then fetch, parse, fan out extraction, persist, and decide continuation
// for every page, strictly sequentially.
type Orchestrator struct {
	cfg       *config.Config
	fetcher   *Fetcher
	parser    *PageParser
	extractor *Extractor
	dataset   Dataset
	runs      RunStore
	sink      RecordSink
}

func NewOrchestrator(cfg *config.Config, fetcher *Fetcher, dataset Dataset) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		fetcher:   fetcher,
		parser:    NewPageParser(cfg.Selectors),
		extractor: NewExtractor(cfg.Selectors, cfg.PriceThreshold),
		dataset:   dataset,
	}
}

// SetRunStore attaches the optional run-history store.
func (o *Orchestrator) SetRunStore(runs RunStore) {
	o.runs = runs
}

// SetSink attaches the optional record sink.
func (o *Orchestrator) SetSink(sink RecordSink) {
	o.sink = sink
}

// RunAll processes locations strictly sequentially with a jittered delay
// between them. Blank lines are skipped.
func (o *Orchestrator) RunAll(ctx context.Context, locations []string) error {
	for _, line := range locations {
		if line == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		log.Printf("Processing location: %s", line)
		if err := o.RunLocation(ctx, line); err != nil {
			return err
		}

		sleepJitter(ctx, o.cfg.LocationDelayMin, o.cfg.LocationDelayMax)
	}
	return nil
}

// RunLocation crawls every page of one location. Stops are normal outcomes;
// the only error return is context cancellation.
func (o *Orchestrator) RunLocation(ctx context.Context, line string) error {
	loc := ParseLocation(line, o.cfg.BaseSiteURL)

	run := &models.ScrapeRun{
		UID:       uuid.NewString(),
		Location:  loc.Raw,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	if o.runs != nil {
		id, err := o.runs.CreateRun(run)
		if err != nil {
			log.Printf("Warning: could not create run record: %v", err)
			o.runs = nil
		} else {
			run.ID = id
		}
	}
	defer func() {
		now := time.Now()
		run.FinishedAt = &now
		if run.Status == models.RunStatusRunning {
			run.Status = models.RunStatusCompleted
		}
		if o.runs != nil {
			if err := o.runs.UpdateRun(run); err != nil {
				log.Printf("Warning: could not update run record: %v", err)
			}
		}
	}()

	totalPages := o.discoverTotalPages(ctx, run, loc)
	run.TotalPages = totalPages
	o.log(run, models.LogLevelInfo, fmt.Sprintf("Starting with %d existing records. Target: %d pages", o.dataset.Len(), totalPages))

	decision := DecisionContinue
	page := 1

	for page <= totalPages {
		sleepJitter(ctx, o.cfg.PageDelayMin, o.cfg.PageDelayMax)
		if err := ctx.Err(); err != nil {
			run.Status = models.RunStatusStopped
			return err
		}

		url := loc.PageURL(page)
		o.log(run, models.LogLevelInfo, fmt.Sprintf("Scraping page %d/%d: %s", page, totalPages, url))

		decision = o.runPage(ctx, run, url, page, totalPages)
		if decision != DecisionContinue {
			level := models.LogLevelWarn
			if decision == DecisionStopNoNextPage {
				level = models.LogLevelInfo
			}
			o.log(run, level, fmt.Sprintf("Page %d: %s", page, decision))
			break
		}

		progress := float64(page) / float64(totalPages) * 100
		o.log(run, models.LogLevelInfo, fmt.Sprintf("Progress: %.1f%% (%d/%d pages, %d total records)",
			progress, page, totalPages, o.dataset.Len()))
		page++
	}

	o.log(run, models.LogLevelInfo, fmt.Sprintf("Completed %s: %d pages of %d, %d records added, dataset now %d",
		loc.Raw, run.PagesFetched, totalPages, run.RecordsAdded, o.dataset.Len()))
	return nil
}

// runPage executes one full fetch/parse/extract/persist cycle and returns
// the continuation decision. The decision order is fixed: 404, other
// non-200, error marker, zero listings processed, next-page affordance.
func (o *Orchestrator) runPage(ctx context.Context, run *models.ScrapeRun, url string, page, totalPages int) Decision {
	res, err := o.fetcher.Fetch(ctx, url)
	if err != nil {
		o.log(run, models.LogLevelError, fmt.Sprintf("Fetch failed for %s: %v", url, err))
		run.ErrorsCount++
		return DecisionStopHTTPError
	}
	run.PagesFetched++

	if res.Status == http.StatusNotFound {
		return DecisionStopNotFound
	}
	if res.Status != http.StatusOK {
		o.log(run, models.LogLevelError, fmt.Sprintf("Page %d returned status %d", page, res.Status))
		return DecisionStopHTTPError
	}

	doc, err := ParseDocument(res.Body)
	if err != nil {
		o.log(run, models.LogLevelError, fmt.Sprintf("Could not parse page %d: %v", page, err))
		run.ErrorsCount++
		return DecisionStopHTTPError
	}

	if o.parser.HasErrorMarker(doc) {
		return DecisionStopErrorMarker
	}

	nodes := o.parser.Listings(doc)
	o.log(run, models.LogLevelInfo, fmt.Sprintf("Found %d listing elements on page %d", len(nodes), page))
	run.ListingsFound += len(nodes)

	records := o.extractAll(ctx, nodes)
	if len(records) == 0 {
		return DecisionStopNoListings
	}

	added := o.dataset.Append(records)
	run.RecordsAdded += added

	if err := o.dataset.Save(); err != nil {
		o.log(run, models.LogLevelError, fmt.Sprintf("Could not persist dataset after page %d: %v", page, err))
		run.ErrorsCount++
	} else {
		o.log(run, models.LogLevelInfo, fmt.Sprintf("Page %d: processed %d listings, %d added, %d total saved",
			page, len(records), added, o.dataset.Len()))
	}

	if o.sink != nil {
		if err := o.sink.UpsertRecords(ctx, run.Location, records); err != nil {
			o.log(run, models.LogLevelError, fmt.Sprintf("Sink upsert failed after page %d: %v", page, err))
			run.ErrorsCount++
		}
	}

	return NextPageDecision(doc, o.cfg.Selectors, page, totalPages)
}

// extractAll fans out extraction over a page's listing nodes with a bounded
// concurrency limit. Results are gathered into a slice indexed by node
// position, so page order is preserved regardless of completion order, and
// nothing propagates until every task has finished.
func (o *Orchestrator) extractAll(ctx context.Context, nodes []*goquery.Selection) []models.ListingRecord {
	slots := make([]*models.ListingRecord, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.ConcurrencyLimit)

	for i, node := range nodes {
		i, node := i, node
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			slots[i] = o.extractor.Extract(node)
			return nil
		})
	}
	g.Wait()

	records := make([]models.ListingRecord, 0, len(slots))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records
}

// discoverTotalPages fetches page 1 once to read the page count from the
// search-results marker. Every failure mode degrades to a single page.
func (o *Orchestrator) discoverTotalPages(ctx context.Context, run *models.ScrapeRun, loc LocationSpec) int {
	res, err := o.fetcher.Fetch(ctx, loc.BaseURL)
	if err != nil {
		o.log(run, models.LogLevelError, fmt.Sprintf("Error getting total pages: %v", err))
		return 1
	}
	if res.Status != http.StatusOK {
		o.log(run, models.LogLevelWarn, fmt.Sprintf("Initial page request returned status %d, defaulting to 1 page", res.Status))
		return 1
	}

	doc, err := ParseDocument(res.Body)
	if err != nil {
		o.log(run, models.LogLevelWarn, fmt.Sprintf("Could not parse initial page: %v", err))
		return 1
	}

	total, ok := TotalPages(doc, o.cfg.Selectors)
	if !ok {
		o.log(run, models.LogLevelWarn, "Could not determine total pages, defaulting to 1")
		return total
	}

	o.log(run, models.LogLevelInfo, fmt.Sprintf("Found %d total pages to scrape", total))
	return total
}

// log writes to the process log and, when run history is enabled, to the
// run's log stream.
func (o *Orchestrator) log(run *models.ScrapeRun, level models.LogLevel, message string) {
	log.Printf("[%s] %s: %s", level, run.Location, message)
	if o.runs != nil {
		if err := o.runs.Log(&run.ID, level, message, run.Location); err != nil {
			log.Printf("Warning: could not write run log: %v", err)
		}
	}
}
