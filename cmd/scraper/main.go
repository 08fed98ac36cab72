package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/maddy021/travel-scraper/db"
	"github.com/maddy021/travel-scraper/internal/repository"
	"github.com/maddy021/travel-scraper/internal/scraper"
	"github.com/maddy021/travel-scraper/pkg/llm"
	"github.com/maddy021/travel-scraper/pkg/review"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	destination := flag.String("destination", "Goa", "destination to scrape")
	placeType := flag.String("type", "", "restrict to one place type (hotel, restaurant, place, activity)")
	maxRecords := flag.Int("max", 5000, "total record budget for the run")
	sourceList := flag.String("sources", "google,reddit,x", "comma-separated sources to scrape")
	flag.Parse()

	if *placeType != "" && !review.ValidPlaceType(*placeType) {
		log.Fatalf("invalid place type: %s", *placeType)
	}

	err := db.ConnectQdrant()
	if err != nil {
		log.Fatalf("error connecting to Qdrant: %v", err)
	}
	defer db.CloseQdrant()

	openaiKey := os.Getenv("OPENAI_API_KEY")
	if openaiKey == "" {
		log.Fatalf("OPENAI_API_KEY environment variable is required")
	}
	embedder := llm.NewOpenAIEmbedder(openaiKey)

	collection := os.Getenv("QDRANT_COLLECTION")
	if collection == "" {
		collection = "places_reviews"
	}
	vectorRepo := repository.NewVectorRepository(db.Qdrant, embedder, collection)

	connectors := buildConnectors()
	if len(connectors) == 0 {
		slog.Error("no scraper API keys configured")
		return
	}

	var sources []review.Source
	for _, name := range strings.Split(*sourceList, ",") {
		sources = append(sources, review.Source(strings.TrimSpace(name)))
	}

	orchestrator := scraper.New(connectors, vectorRepo)

	result, err := orchestrator.Run(scraper.RunRequest{
		Destination: *destination,
		PlaceType:   review.PlaceType(*placeType),
		MaxRecords:  *maxRecords,
		Sources:     sources,
	})
	if err != nil {
		log.Fatalf("scrape failed: %v", err)
	}

	slog.Info("scrape complete",
		"destination", result.Destination,
		"total", result.Total,
		"by_source", result.BySource,
		"by_type", result.ByType)
}

func buildConnectors() []review.Connector {
	var connectors []review.Connector

	if key := os.Getenv("GOOGLE_PLACES_API_KEY"); key != "" {
		maxPerPlace := 0
		if raw := os.Getenv("GOOGLE_MAX_PER_PLACE"); raw != "" {
			maxPerPlace, _ = strconv.Atoi(raw)
		}
		client, err := review.NewGoogleClient(key, maxPerPlace)
		if err != nil {
			slog.Error("error creating Google Places client", "error", err)
		} else {
			connectors = append(connectors, client)
		}
	}

	id := os.Getenv("REDDIT_CLIENT_ID")
	secret := os.Getenv("REDDIT_CLIENT_SECRET")
	if id != "" && secret != "" {
		connectors = append(connectors, review.NewRedditClient(id, secret, os.Getenv("REDDIT_USER_AGENT")))
	}

	if token := os.Getenv("X_BEARER_TOKEN"); token != "" {
		connectors = append(connectors, review.NewXClient(token))
	}

	return connectors
}
