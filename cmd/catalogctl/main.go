// Command catalogctl manages the catalog out of band: schema, demo data and images.
package main

import (
	"os"

	"github.com/ayush/favorites-api/internal/config"
	"github.com/ayush/favorites-api/internal/logging"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.IsDevelopment())

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
