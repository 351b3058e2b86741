package main

import (
	"github.com/openshelf/librarium/internal/config"
	"github.com/openshelf/librarium/internal/entrypoint"
)

// Version information - set at build time via ldflags
var Version = "dev"

func main() {
	cfg := config.NewConfig()
	entrypoint.Run(cfg, Version)
}
