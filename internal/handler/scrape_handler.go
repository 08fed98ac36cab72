package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/maddy021/travel-scraper/internal/model"
	"github.com/maddy021/travel-scraper/internal/scraper"
	"github.com/maddy021/travel-scraper/pkg/review"
)

const (
	defaultDestination = "Goa"
	defaultMaxRecords  = 5000
	maxRecordsLimit    = 5000
)

// ScrapeRunner executes a full scrape synchronously.
type ScrapeRunner interface {
	Run(req scraper.RunRequest) (*scraper.RunResult, error)
}

// RunStore records the lifecycle of background scrape runs.
type RunStore interface {
	Create(run *model.ScrapeRun) error
	Complete(id string, total int, bySource, byType map[string]int) error
	Fail(id, message string) error
	Get(id string) (*model.ScrapeRun, error)
}

type ScrapeHandler struct {
	runner ScrapeRunner
	runs   RunStore
}

func NewScrapeHandler(runner ScrapeRunner, runs RunStore) *ScrapeHandler {
	return &ScrapeHandler{runner: runner, runs: runs}
}

// StartScrape kicks off a scrape in the background and returns immediately
// with a run id the caller can poll.
func (h *ScrapeHandler) StartScrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Destination == "" {
		req.Destination = defaultDestination
	}
	if req.MaxRecords == 0 {
		req.MaxRecords = defaultMaxRecords
	}
	if req.MaxRecords < 1 || req.MaxRecords > maxRecordsLimit {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("maxRecords must be between 1 and %d", maxRecordsLimit)})
		return
	}
	if req.PlaceType != "" && !review.ValidPlaceType(req.PlaceType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "placeType must be one of hotel, restaurant, place, activity"})
		return
	}

	sources, err := parseSources(req.Sources)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run := &model.ScrapeRun{
		ID:          uuid.NewString(),
		Destination: req.Destination,
		PlaceType:   req.PlaceType,
		MaxRecords:  req.MaxRecords,
		Sources:     sourceNames(sources),
		Status:      model.RunStatusPending,
		StartedAt:   time.Now(),
	}
	if err := h.runs.Create(run); err != nil {
		slog.Error("failed to create run record", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Run store error"})
		return
	}

	go h.execute(run.ID, scraper.RunRequest{
		Destination: req.Destination,
		PlaceType:   review.PlaceType(req.PlaceType),
		MaxRecords:  req.MaxRecords,
		Sources:     sources,
	})

	c.JSON(http.StatusOK, ScrapeStartedResponse{
		Status:  "started",
		RunID:   run.ID,
		Message: fmt.Sprintf("Scraping '%s' in the background. Check /runs/%s or /stats to monitor progress.", req.Destination, run.ID),
		Config: ScrapeConfig{
			Destination: req.Destination,
			PlaceType:   req.PlaceType,
			MaxRecords:  req.MaxRecords,
			Sources:     sourceNames(sources),
		},
	})
}

func (h *ScrapeHandler) execute(runID string, req scraper.RunRequest) {
	result, err := h.runner.Run(req)
	if err != nil {
		slog.Error("scrape run failed", "run_id", runID, "error", err)
		if err := h.runs.Fail(runID, err.Error()); err != nil {
			slog.Error("failed to mark run failed", "run_id", runID, "error", err)
		}
		return
	}
	if err := h.runs.Complete(runID, result.Total, result.BySource, result.ByType); err != nil {
		slog.Error("failed to mark run done", "run_id", runID, "error", err)
	}
}

// GetRun reports the status of a previously started scrape.
func (h *ScrapeHandler) GetRun(c *gin.Context) {
	run, err := h.runs.Get(c.Param("id"))
	if err != nil {
		slog.Error("failed to load run", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Run store error"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	resp := RunResponse{
		ID:          run.ID,
		Destination: run.Destination,
		PlaceType:   run.PlaceType,
		MaxRecords:  run.MaxRecords,
		Sources:     run.Sources,
		Status:      run.Status,
		Total:       run.Total,
		BySource:    run.BySource,
		ByType:      run.ByType,
		Error:       run.Error,
	}
	if !run.StartedAt.IsZero() {
		resp.StartedAt = run.StartedAt.Format(time.RFC3339)
	}
	if !run.FinishedAt.IsZero() {
		resp.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func parseSources(names []string) ([]review.Source, error) {
	if len(names) == 0 {
		return []review.Source{review.SourceGoogle, review.SourceReddit, review.SourceX}, nil
	}
	valid := map[review.Source]bool{
		review.SourceGoogle: true,
		review.SourceReddit: true,
		review.SourceX:      true,
	}
	sources := make([]review.Source, 0, len(names))
	for _, name := range names {
		s := review.Source(name)
		if !valid[s] {
			return nil, fmt.Errorf("unknown source %q", name)
		}
		sources = append(sources, s)
	}
	return sources, nil
}

func sourceNames(sources []review.Source) []string {
	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = string(s)
	}
	return names
}
