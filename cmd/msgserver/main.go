// Command msgserver runs the local message relay the overlay polls.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/deskpet/internal/config"
	"github.com/Faultbox/deskpet/internal/logger"
	"github.com/Faultbox/deskpet/internal/msgserver"
)

var flagAddr = flag.String("addr", "", "Listen address (overrides server.addr)")

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := msgserver.New(logger.Named("msgserver"))
	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		logger.Error("message server failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
