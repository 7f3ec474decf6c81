package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fournil-next/internal/app"
	"github.com/fournil-next/internal/config"
	"github.com/fournil-next/internal/logger"
)

func main() {
	mode := flag.String("mode", app.ModeAll, "services to run: all, api or worker")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())

	runner, err := app.BuildRunner(cfg, *mode)
	if err != nil {
		logger.Errorw("startup failed", "error", err)
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		os.Exit(1)
	}
	if err := runner.Run(); err != nil {
		logger.Errorw("runner exited", "error", err)
		os.Exit(1)
	}
}
