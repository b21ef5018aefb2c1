package main

import (
	"log"

	"github.com/pulseboard/ingestion-service/internal/auth"
	"github.com/pulseboard/ingestion-service/internal/config"
	"github.com/pulseboard/ingestion-service/internal/httpserver"
	"github.com/pulseboard/ingestion-service/internal/stream"
)

// main boots the service: config → stream publisher → HTTP server.
func main() {
	// Load runtime config from environment (STREAM_NAME, KAFKA_BROKERS, ...).
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Shared, concurrency-safe handle to the destination stream.
	pub, err := stream.NewPublisher(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pub.Close()

	// Identity resolver; verifies signatures only when a secret is configured.
	resolver := auth.NewClaimsResolver(cfg.JWTSecret)

	router := httpserver.NewRouter(cfg, resolver, pub)

	log.Printf("server started on %s (stream=%s, schema=%s)", cfg.ListenAddr, cfg.StreamName, cfg.SchemaGeneration)
	log.Fatal(router.Run(cfg.ListenAddr))
}
