package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maddy021/travel-scraper/internal/model"
	"github.com/maddy021/travel-scraper/pkg/llm"
	"github.com/maddy021/travel-scraper/pkg/review"
)

const (
	defaultTopK = 10
	maxTopK     = 50
)

// VectorSearcher answers semantic queries against the stored reviews.
type VectorSearcher interface {
	Query(destination, queryText string, placeType review.PlaceType, topK int) ([]model.SearchResult, error)
	Stats(destination string) (*model.CollectionStats, error)
}

type QueryHandler struct {
	store      VectorSearcher
	summarizer llm.Summarizer
}

func NewQueryHandler(store VectorSearcher, summarizer llm.Summarizer) *QueryHandler {
	return &QueryHandler{store: store, summarizer: summarizer}
}

// RunQuery performs a semantic search scoped to one destination.
func (h *QueryHandler) RunQuery(c *gin.Context) {
	req, ok := h.bindQuery(c)
	if !ok {
		return
	}

	results, err := h.store.Query(req.Destination, req.Query, review.PlaceType(req.PlaceType), req.TopK)
	if err != nil {
		slog.Error("query failed", "destination", req.Destination, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Vector store error"})
		return
	}

	resp := QueryResponse{Results: make([]SearchResultResponse, len(results)), Count: len(results)}
	for i, r := range results {
		resp.Results[i] = SearchResultResponse{Score: r.Score, ID: r.ID, Payload: r.Payload}
	}
	c.JSON(http.StatusOK, resp)
}

// GetStats reports collection totals, optionally with a per-destination count.
func (h *QueryHandler) GetStats(c *gin.Context) {
	stats, err := h.store.Stats(c.Query("destination"))
	if err != nil {
		slog.Error("stats failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Vector store error"})
		return
	}

	resp := StatsResponse{
		CollectionName: stats.CollectionName,
		TotalVectors:   stats.TotalVectors,
		IndexedVectors: stats.IndexedVectors,
		Status:         stats.Status,
	}
	if stats.HasDestination {
		resp.Destination = stats.Destination
		count := stats.DestinationCount
		resp.DestinationCount = &count
	}
	c.JSON(http.StatusOK, resp)
}

func (h *QueryHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Summarize retrieves the reviews matching a query and condenses them into a
// short digest.
func (h *QueryHandler) Summarize(c *gin.Context) {
	if h.summarizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Summarization is not configured"})
		return
	}

	req, ok := h.bindQuery(c)
	if !ok {
		return
	}

	results, err := h.store.Query(req.Destination, req.Query, review.PlaceType(req.PlaceType), req.TopK)
	if err != nil {
		slog.Error("query failed", "destination", req.Destination, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Vector store error"})
		return
	}

	reviews := make([]llm.ReviewInput, 0, len(results))
	for _, r := range results {
		in := llm.ReviewInput{}
		if v, ok := r.Payload["place_name"].(string); ok {
			in.PlaceName = v
		}
		if v, ok := r.Payload["type"].(string); ok {
			in.Type = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			in.Text = v
		}
		reviews = append(reviews, in)
	}

	summary, err := h.summarizer.SummarizeReviews(req.Destination, req.Query, reviews)
	if err != nil {
		slog.Error("summarization failed", "destination", req.Destination, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Summarization error"})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Paragraph:   summary.Paragraph,
		Highlights:  summary.Highlights,
		ModelUsed:   summary.ModelUsed,
		ReviewCount: len(reviews),
	})
}

func (h *QueryHandler) bindQuery(c *gin.Context) (QueryRequest, bool) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return req, false
	}

	if req.Destination == "" {
		req.Destination = defaultDestination
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return req, false
	}
	if req.TopK == 0 {
		req.TopK = defaultTopK
	}
	if req.TopK < 1 || req.TopK > maxTopK {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topK must be between 1 and 50"})
		return req, false
	}
	if req.PlaceType != "" && !review.ValidPlaceType(req.PlaceType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "placeType must be one of hotel, restaurant, place, activity"})
		return req, false
	}
	return req, true
}
