package model

import "time"

const (
	RunStatusPending = "pending"
	RunStatusDone    = "done"
	RunStatusFailed  = "failed"
)

// ScrapeRun is the queryable status record for one background scrape.
type ScrapeRun struct {
	ID          string
	Destination string
	PlaceType   string
	MaxRecords  int
	Sources     []string
	Status      string
	Total       int
	BySource    map[string]int
	ByType      map[string]int
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// SearchResult is one ranked hit from the vector store.
type SearchResult struct {
	Score   float32
	ID      string
	Payload map[string]any
}

// CollectionStats describes the vector collection, optionally narrowed to
// one destination.
type CollectionStats struct {
	CollectionName   string
	TotalVectors     uint64
	IndexedVectors   uint64
	Status           string
	Destination      string
	DestinationCount uint64
	HasDestination   bool
}
