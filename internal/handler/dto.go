package handler

type ScrapeRequest struct {
	Destination string   `json:"destination"`
	PlaceType   string   `json:"placeType"`
	MaxRecords  int      `json:"maxRecords"`
	Sources     []string `json:"sources"`
}

type ScrapeConfig struct {
	Destination string   `json:"destination"`
	PlaceType   string   `json:"placeType,omitempty"`
	MaxRecords  int      `json:"maxRecords"`
	Sources     []string `json:"sources"`
}

type ScrapeStartedResponse struct {
	Status  string       `json:"status"`
	RunID   string       `json:"runId"`
	Message string       `json:"message"`
	Config  ScrapeConfig `json:"config"`
}

type RunResponse struct {
	ID          string         `json:"id"`
	Destination string         `json:"destination"`
	PlaceType   string         `json:"placeType,omitempty"`
	MaxRecords  int            `json:"maxRecords"`
	Sources     []string       `json:"sources"`
	Status      string         `json:"status"`
	Total       int            `json:"total"`
	BySource    map[string]int `json:"bySource,omitempty"`
	ByType      map[string]int `json:"byType,omitempty"`
	Error       string         `json:"error,omitempty"`
	StartedAt   string         `json:"startedAt,omitempty"`
	FinishedAt  string         `json:"finishedAt,omitempty"`
}

type QueryRequest struct {
	Destination string `json:"destination"`
	Query       string `json:"query"`
	PlaceType   string `json:"placeType"`
	TopK        int    `json:"topK"`
}

type SearchResultResponse struct {
	Score   float32        `json:"score"`
	ID      string         `json:"id"`
	Payload map[string]any `json:"payload"`
}

type QueryResponse struct {
	Results []SearchResultResponse `json:"results"`
	Count   int                    `json:"count"`
}

type StatsResponse struct {
	CollectionName   string  `json:"collectionName"`
	TotalVectors     uint64  `json:"totalVectors"`
	IndexedVectors   uint64  `json:"indexedVectors"`
	Status           string  `json:"status"`
	Destination      string  `json:"destination,omitempty"`
	DestinationCount *uint64 `json:"destinationCount,omitempty"`
}

type SummaryResponse struct {
	Paragraph   string   `json:"paragraph"`
	Highlights  []string `json:"highlights"`
	ModelUsed   string   `json:"modelUsed"`
	ReviewCount int      `json:"reviewCount"`
}
