package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/papercomputeco/chatctl/mockapi"
	"github.com/papercomputeco/chatctl/pkg/logger"
)

func main() {
	// Parse command line flags
	listenAddr := flag.String("listen", ":6062", "Address to listen on")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Set up logger
	logger := logger.NewLogger(*debug)
	defer logger.Sync()

	logger.Info("mock chat completions server starting",
		zap.String("listen", *listenAddr),
		zap.Bool("debug", *debug),
	)

	config := mockapi.Config{
		ListenAddr: *listenAddr,
	}

	s := mockapi.New(config, logger)

	if err := s.Run(); err != nil {
		logger.Fatal("mock server failed", zap.Error(err))
	}
}
