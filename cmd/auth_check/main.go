package main

import (
	"context"
	"os"

	"promoforge/api"
	"promoforge/config"
	"promoforge/utils"
)

// Verifies the configured tracker credentials.
func main() {
	defer utils.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("loading configuration: %v", err)
		os.Exit(1)
	}

	if cfg.TrackerURL == "" || cfg.TrackerEmail == "" || cfg.TrackerAPIToken == "" {
		utils.LogError("TRACKER_URL, TRACKER_EMAIL and TRACKER_API_TOKEN must be set")
		os.Exit(1)
	}

	client := api.NewJiraClient(cfg)
	if err := client.CheckAuth(context.Background()); err != nil {
		utils.LogError("authentication failed: %v", err)
		os.Exit(1)
	}

	utils.LogInfo("authentication OK for %s", cfg.TrackerEmail)
}
