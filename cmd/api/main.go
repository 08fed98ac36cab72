package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/maddy021/travel-scraper/db"
	"github.com/maddy021/travel-scraper/internal/handler"
	"github.com/maddy021/travel-scraper/internal/repository"
	"github.com/maddy021/travel-scraper/internal/scraper"
	"github.com/maddy021/travel-scraper/pkg/llm"
	"github.com/maddy021/travel-scraper/pkg/review"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.ConnectQdrant()
	if err != nil {
		log.Fatalf("error connecting to Qdrant: %v", err)
	}
	defer db.CloseQdrant()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

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
	runRepo := repository.NewRunRepository(db.Redis)

	connectors := buildConnectors()
	if len(connectors) == 0 {
		slog.Warn("no scraper API keys configured, scrapes will return nothing")
	}
	orchestrator := scraper.New(connectors, vectorRepo)

	var summarizer llm.Summarizer
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		summarizer = llm.NewAnthropicClient(key)
	}

	scrapeHandler := handler.NewScrapeHandler(orchestrator, runRepo)
	queryHandler := handler.NewQueryHandler(vectorRepo, summarizer)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/scrape", scrapeHandler.StartScrape)
	r.GET("/runs/:id", scrapeHandler.GetRun)
	r.POST("/query", queryHandler.RunQuery)
	r.GET("/stats", queryHandler.GetStats)
	r.GET("/health", queryHandler.GetHealth)
	if summarizer != nil {
		r.POST("/summarize", queryHandler.Summarize)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	err = r.Run(":" + port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
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
