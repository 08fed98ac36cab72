package llm

// Embedder turns texts into fixed-dimensionality vectors. The Nth input text
// maps to the Nth output vector.
type Embedder interface {
	EmbedTexts(texts []string) ([][]float32, error)
}

type ReviewInput struct {
	PlaceName string
	Type      string
	Text      string
}

type SummaryResult struct {
	Paragraph  string
	Highlights []string
	ModelUsed  string
}

type Summarizer interface {
	SummarizeReviews(destination, query string, reviews []ReviewInput) (*SummaryResult, error)
}
