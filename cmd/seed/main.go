// Command seed populates the configured board store with sample data.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"artboard/internal/bootstrap"
	"artboard/internal/config"
	"artboard/internal/seed"
)

func main() {
	posts := flag.Int("posts", 24, "Number of posts to create")
	maxLikes := flag.Int("max-likes", 12, "Maximum likes applied to any post")
	maxComments := flag.Int("max-comments", 4, "Maximum comments attached to any post")
	maxDays := flag.Int("max-days", 30, "Spread post timestamps over this many days")
	flag.Parse()

	log.Println("🌱 Board Seeder")
	log.Println("===============")

	// Pick up key-value pairs from a local .env file if present
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Target: %d posts against the %s backend\n", *posts, cfg.StoreBackend)

	st, err := bootstrap.OpenStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	opts := seed.Options{
		Posts:       *posts,
		MaxLikes:    *maxLikes,
		MaxComments: *maxComments,
		MaxAge:      time.Duration(*maxDays) * 24 * time.Hour,
	}
	if err := seed.Run(context.Background(), st, opts); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! The board is populated with sample posts.")
}
