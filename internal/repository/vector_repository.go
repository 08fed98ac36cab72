package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/maddy021/travel-scraper/internal/model"
	"github.com/maddy021/travel-scraper/pkg/llm"
	"github.com/maddy021/travel-scraper/pkg/review"
	"github.com/qdrant/go-client/qdrant"
)

const (
	upsertBatchSize  = 100
	payloadTextLimit = 1000
)

// Payload fields indexed for equality filtering.
var indexedPayloadFields = []string{"destination", "type", "source"}

// VectorRepository owns the embedding-and-upsert pipeline against one Qdrant
// collection shared by all destinations. Destination is a payload filter,
// not a physical partition.
type VectorRepository struct {
	client     *qdrant.Client
	embedder   llm.Embedder
	collection string
}

func NewVectorRepository(client *qdrant.Client, embedder llm.Embedder, collection string) *VectorRepository {
	return &VectorRepository{
		client:     client,
		embedder:   embedder,
		collection: collection,
	}
}

// ensureCollection creates the collection and its payload indexes on first
// use. CollectionExists gives a precise not-found signal, so a transient
// backend error fails the operation instead of triggering re-creation.
func (r *VectorRepository) ensureCollection() error {
	ctx := context.Background()

	exists, err := r.client.CollectionExists(ctx, r.collection)
	if err != nil {
		return fmt.Errorf("collection check: %w", err)
	}
	if exists {
		return nil
	}

	slog.Info("creating collection", "collection", r.collection)

	err = r.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     llm.EmbeddingDim,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	for _, field := range indexedPayloadFields {
		_, err := r.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: r.collection,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("create index %q: %w", field, err)
		}
	}

	return nil
}

// UpsertRecords embeds the records and writes them as points tagged with the
// destination namespace. Returns the number of points acknowledged.
func (r *VectorRepository) UpsertRecords(records []review.Record, destination string) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	if err := r.ensureCollection(); err != nil {
		return 0, err
	}

	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text
	}

	vectors, err := r.embedder.EmbedTexts(texts)
	if err != nil {
		return 0, fmt.Errorf("embed records: %w", err)
	}
	if len(vectors) != len(records) {
		return 0, fmt.Errorf("expected %d vectors, got %d", len(records), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(records))
	for i, rec := range records {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(pointID(rec.ID)),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(pointPayload(rec, destination)),
		}
	}

	total := 0
	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}

		_, err := r.client.Upsert(context.Background(), &qdrant.UpsertPoints{
			CollectionName: r.collection,
			Wait:           qdrant.PtrOf(true),
			Points:         points[start:end],
		})
		if err != nil {
			return total, fmt.Errorf("upsert batch: %w", err)
		}

		total = end
		slog.Info("upserted points", "count", total, "of", len(points), "destination", destination)
	}

	return total, nil
}

// Query embeds the query text once and runs a filtered nearest-neighbor
// search. The destination filter is mandatory; the type filter is optional.
func (r *VectorRepository) Query(destination, queryText string, placeType review.PlaceType, topK int) ([]model.SearchResult, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}

	vectors, err := r.embedder.EmbedTexts([]string{queryText})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	must := []*qdrant.Condition{
		qdrant.NewMatch("destination", strings.ToLower(destination)),
	}
	if placeType != "" {
		must = append(must, qdrant.NewMatch("type", string(placeType)))
	}

	points, err := r.client.Query(context.Background(), &qdrant.QueryPoints{
		CollectionName: r.collection,
		Query:          qdrant.NewQuery(vectors[0]...),
		Filter:         &qdrant.Filter{Must: must},
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]model.SearchResult, 0, len(points))
	for _, p := range points {
		payload := payloadToMap(p.Payload)
		id, _ := payload["originalId"].(string)
		results = append(results, model.SearchResult{
			Score:   p.GetScore(),
			ID:      id,
			Payload: payload,
		})
	}
	return results, nil
}

// Stats returns collection-wide counts and, when destination is non-empty,
// an exact count of points for that destination.
func (r *VectorRepository) Stats(destination string) (*model.CollectionStats, error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}

	info, err := r.client.GetCollectionInfo(context.Background(), r.collection)
	if err != nil {
		return nil, fmt.Errorf("collection info: %w", err)
	}

	stats := &model.CollectionStats{
		CollectionName: r.collection,
		TotalVectors:   info.GetVectorsCount(),
		IndexedVectors: info.GetIndexedVectorsCount(),
		Status:         info.GetStatus().String(),
	}

	if destination != "" {
		dest := strings.ToLower(destination)
		count, err := r.client.Count(context.Background(), &qdrant.CountPoints{
			CollectionName: r.collection,
			Exact:          qdrant.PtrOf(true),
			Filter: &qdrant.Filter{
				Must: []*qdrant.Condition{qdrant.NewMatch("destination", dest)},
			},
		})
		if err != nil {
			return nil, fmt.Errorf("destination count: %w", err)
		}
		stats.Destination = dest
		stats.DestinationCount = count
		stats.HasDestination = true
	}

	return stats, nil
}

// pointID projects a hex content hash onto a 52-bit numeric point ID, the
// same projection earlier loads of the collection used. Collisions are
// possible but acceptable given the hash dispersion.
func pointID(id string) uint64 {
	hex := id
	if len(hex) > 13 {
		hex = hex[:13]
	}
	n, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		// Non-hex ids get hashed into the same space.
		return pointID(review.HashID(id))
	}
	return n
}

func pointPayload(rec review.Record, destination string) map[string]any {
	payload := map[string]any{
		"source":     string(rec.Source),
		"type":       string(rec.Type),
		"place_name": rec.PlaceName,
		"author":     rec.Author,
		"url":        rec.URL,
		"date":       rec.Date,
	}
	for k, v := range rec.Extra {
		payload[k] = v
	}
	payload["text"] = review.Truncate(rec.Text, payloadTextLimit)
	payload["destination"] = strings.ToLower(destination)
	payload["originalId"] = rec.ID
	return payload
}

func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		items := make([]any, 0, len(values))
		for _, item := range values {
			items = append(items, valueToAny(item))
		}
		return items
	case *qdrant.Value_StructValue:
		return payloadToMap(kind.StructValue.GetFields())
	default:
		return nil
	}
}
