package main

import (
	"flag"
	"log"

	"li-server/config"
	"li-server/di"
	"li-server/util"
)

const RESTAURANT_SEED_PATH = "./resources/restaurants.json"

// seedRestaurants loads the fixture restaurants into an empty store so a
// fresh deployment has something to report on.
func seedRestaurants(container *di.Container) {
	count, err := container.RestaurantStore.CountRestaurants()
	if err != nil {
		log.Printf("[MAIN] Failed to count restaurants, skipping seed: %v", err)
		return
	}
	if count > 0 {
		return
	}

	restaurants, err := util.ReadRestaurantsFromJSON(RESTAURANT_SEED_PATH)
	if err != nil {
		log.Printf("[MAIN] No restaurant seed file, starting empty: %v", err)
		return
	}

	for _, r := range restaurants {
		if err := container.RestaurantStore.UpsertRestaurant(r); err != nil {
			log.Printf("[MAIN] Failed to seed restaurant %s: %v", r.ID, err)
		}
	}
	log.Printf("[MAIN] Seeded %d restaurants", len(restaurants))
}

func main() {
	configPath := flag.String("config", "./resources/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.RestaurantStore.Close()

	seedRestaurants(container)

	log.Println("starting server!")
	container.HttpServer.Start()
}
