package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ravenholt/encounter-engine/pkg/queue"
)

func main() {
	redisURL := flag.String("redis", "redis://localhost:6379", "Redis URL")
	sessionID := flag.String("session", "", "Session ID to enqueue fragments for (required)")
	flag.Parse()

	if *sessionID == "" {
		log.Fatal("Session ID is required: -session <uuid>")
	}
	id, err := uuid.Parse(*sessionID)
	if err != nil {
		log.Fatal("Invalid session ID:", err)
	}

	// Connect to Redis
	redisOpts, err := redis.ParseURL(*redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}
	client := redis.NewClient(redisOpts)
	defer client.Close()

	ctx := context.Background()

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis successfully!")

	fragments := []string{
		"Two goblins leap from the rocks, snarling. Roll for initiative!",
		"Make a perception check (DC 12) to spot the archer on the ridge.",
		"The last goblin falls. You find 25 gold pieces and a healing potion.",
	}

	for _, text := range fragments {
		req := queue.NewFragmentRequest(id, text)

		data, err := json.Marshal(req)
		if err != nil {
			log.Fatal("Failed to marshal request:", err)
		}

		if err := client.RPush(ctx, "fragments", data).Err(); err != nil {
			log.Fatal("Failed to enqueue request:", err)
		}

		fmt.Printf("✅ Enqueued fragment request: %s\n", req.RequestID)
	}

	// Check queue depth
	depth, err := client.LLen(ctx, "fragments").Result()
	if err != nil {
		log.Fatal("Failed to get queue depth:", err)
	}

	fmt.Printf("\n📊 Queue depth: %d requests\n", depth)
	fmt.Println("\n💡 Now start the worker to see it process these requests!")
	fmt.Println("   Run: go run cmd/worker/main.go")
}
