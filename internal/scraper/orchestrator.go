package scraper

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/maddy021/travel-scraper/pkg/review"
)

// VectorStore persists a merged record set under a destination namespace and
// reports how many points were acknowledged.
type VectorStore interface {
	UpsertRecords(records []review.Record, destination string) (int, error)
}

// sourceBudget is each source's share of the total record budget. Sources
// not listed here split the budget evenly.
var sourceBudget = map[review.Source]float64{
	review.SourceGoogle: 0.40,
	review.SourceReddit: 0.40,
	review.SourceX:      0.20,
}

type RunRequest struct {
	Destination string
	PlaceType   review.PlaceType
	MaxRecords  int
	Sources     []review.Source
}

type RunResult struct {
	Total       int
	Destination string
	BySource    map[string]int
	ByType      map[string]int
}

// Orchestrator fans scraping out across the enabled connectors, merges and
// deduplicates their output, and hands the result to the vector store.
type Orchestrator struct {
	connectors map[review.Source]review.Connector
	store      VectorStore
}

func New(connectors []review.Connector, store VectorStore) *Orchestrator {
	byName := make(map[review.Source]review.Connector, len(connectors))
	for _, c := range connectors {
		byName[c.Name()] = c
	}
	return &Orchestrator{connectors: byName, store: store}
}

// Run executes one scrape. A connector failure costs only that source's
// records; a persistence failure fails the run.
func (o *Orchestrator) Run(req RunRequest) (*RunResult, error) {
	slog.Info("scrape started",
		"destination", req.Destination,
		"type", string(req.PlaceType),
		"max_records", req.MaxRecords,
		"sources", req.Sources)

	sources := make([]review.Source, 0, len(req.Sources))
	for _, s := range req.Sources {
		if _, ok := o.connectors[s]; ok {
			sources = append(sources, s)
		} else {
			slog.Warn("no connector configured for source, skipping", "source", s)
		}
	}

	// One result slot per source keeps the merge order deterministic
	// regardless of which connector finishes first.
	results := make([][]review.Record, len(sources))
	var wg sync.WaitGroup
	for i, source := range sources {
		wg.Add(1)
		go func(i int, source review.Source) {
			defer wg.Done()

			records, err := o.connectors[source].Fetch(req.Destination, req.PlaceType, subBudget(req.MaxRecords, source, len(sources)))
			if err != nil {
				slog.Error("scraper failed", "source", source, "error", err)
				return
			}
			results[i] = records
		}(i, source)
	}
	wg.Wait()

	seen := map[string]bool{}
	var merged []review.Record
	for _, batch := range results {
		for _, rec := range batch {
			if seen[rec.ID] {
				continue
			}
			seen[rec.ID] = true
			merged = append(merged, rec)
		}
	}
	if len(merged) > req.MaxRecords {
		merged = merged[:req.MaxRecords]
	}

	result := &RunResult{
		Destination: req.Destination,
		BySource:    map[string]int{},
		ByType:      map[string]int{},
	}

	if len(merged) == 0 {
		slog.Warn("no records scraped, check API keys and rate limits", "destination", req.Destination)
		return result, nil
	}

	for _, rec := range merged {
		result.BySource[string(rec.Source)]++
		result.ByType[string(rec.Type)]++
	}

	total, err := o.store.UpsertRecords(merged, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("persist records: %w", err)
	}
	result.Total = total

	slog.Info("scrape done",
		"destination", req.Destination,
		"total", total,
		"by_source", result.BySource,
		"by_type", result.ByType)
	return result, nil
}

func subBudget(maxRecords int, source review.Source, enabled int) int {
	weight, ok := sourceBudget[source]
	if !ok {
		weight = 1.0 / float64(enabled)
	}
	return int(float64(maxRecords) * weight)
}
