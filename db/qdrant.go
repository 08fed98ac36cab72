package db

import (
	"os"
	"strconv"

	"github.com/qdrant/go-client/qdrant"
)

var Qdrant *qdrant.Client

func ConnectQdrant() error {
	host := os.Getenv("QDRANT_HOST")
	if host == "" {
		host = "localhost"
	}
	port := 6334
	if raw := os.Getenv("QDRANT_PORT"); raw != "" {
		if p, err := strconv.Atoi(raw); err == nil {
			port = p
		}
	}
	apiKey := os.Getenv("QDRANT_API_KEY")

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: apiKey != "",
	})
	if err != nil {
		return err
	}

	Qdrant = client
	_, err = Qdrant.HealthCheck(Ctx)
	return err
}

func CloseQdrant() {
	if Qdrant != nil {
		Qdrant.Close()
	}
}
