// backend/cmd/lambda/main.go
package main

import (
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"quiz-portal/internal/config"
	"quiz-portal/internal/server"
	"quiz-portal/pkg/cache"
)

// Clients are built once per container and reused across invocations. Websocket
// rooms and the attempt reaper need a long-lived process and stay with cmd/server.
func main() {
	cfg := config.Load()

	db, err := server.OpenDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	rdb := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword)

	app := server.New(cfg, db, rdb, false)
	lambda.Start(server.LambdaHandler(app.Handler))
}
