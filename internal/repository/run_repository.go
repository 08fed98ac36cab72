package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/maddy021/travel-scraper/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	runKeyPrefix = "travelscraper:run:"
	runTTL       = 24 * time.Hour
)

// RunRepository keeps per-scrape status records in Redis so background runs
// are observable instead of fire-and-forget.
type RunRepository struct {
	redis *redis.Client
}

func NewRunRepository(client *redis.Client) *RunRepository {
	return &RunRepository{redis: client}
}

func runKey(id string) string {
	return runKeyPrefix + id
}

func (r *RunRepository) Create(run *model.ScrapeRun) error {
	ctx := context.Background()
	key := runKey(run.ID)

	fields := map[string]any{
		"status":      run.Status,
		"destination": run.Destination,
		"place_type":  run.PlaceType,
		"max_records": run.MaxRecords,
		"sources":     strings.Join(run.Sources, ","),
		"started_at":  run.StartedAt.Format(time.RFC3339),
	}

	if err := r.redis.HSet(ctx, key, fields).Err(); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return r.redis.Expire(ctx, key, runTTL).Err()
}

func (r *RunRepository) Complete(id string, total int, bySource, byType map[string]int) error {
	bs, err := json.Marshal(bySource)
	if err != nil {
		return err
	}
	bt, err := json.Marshal(byType)
	if err != nil {
		return err
	}

	return r.redis.HSet(context.Background(), runKey(id), map[string]any{
		"status":      model.RunStatusDone,
		"total":       total,
		"by_source":   string(bs),
		"by_type":     string(bt),
		"finished_at": time.Now().Format(time.RFC3339),
	}).Err()
}

func (r *RunRepository) Fail(id, message string) error {
	return r.redis.HSet(context.Background(), runKey(id), map[string]any{
		"status":      model.RunStatusFailed,
		"error":       message,
		"finished_at": time.Now().Format(time.RFC3339),
	}).Err()
}

// Get returns nil without error when the run is unknown or expired.
func (r *RunRepository) Get(id string) (*model.ScrapeRun, error) {
	vals, err := r.redis.HGetAll(context.Background(), runKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}
	if len(vals) == 0 {
		return nil, nil
	}

	run := &model.ScrapeRun{
		ID:          id,
		Destination: vals["destination"],
		PlaceType:   vals["place_type"],
		Status:      vals["status"],
		Error:       vals["error"],
	}
	run.MaxRecords, _ = strconv.Atoi(vals["max_records"])
	run.Total, _ = strconv.Atoi(vals["total"])

	if s := vals["sources"]; s != "" {
		run.Sources = strings.Split(s, ",")
	}
	if raw := vals["by_source"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &run.BySource); err != nil {
			return nil, fmt.Errorf("decode by_source: %w", err)
		}
	}
	if raw := vals["by_type"]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &run.ByType); err != nil {
			return nil, fmt.Errorf("decode by_type: %w", err)
		}
	}
	if raw := vals["started_at"]; raw != "" {
		run.StartedAt, _ = time.Parse(time.RFC3339, raw)
	}
	if raw := vals["finished_at"]; raw != "" {
		run.FinishedAt, _ = time.Parse(time.RFC3339, raw)
	}

	return run, nil
}
