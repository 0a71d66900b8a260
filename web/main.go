package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/logging"
	"github.com/df07/go-phong-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error, off")
	logFile := flag.String("log-file", "", "Also write logs to this file")
	flag.Parse()

	logger := logging.NewLogger(*logLevel)
	if *logFile != "" {
		multi, err := logging.NewMultiLogger(*logLevel, *logFile)
		if err != nil {
			logger.Errorf("Error opening log file: %v", err)
			os.Exit(1)
		}
		logger = multi
	}
	defer logger.Close()

	webServer := server.NewServer(*port, logger)

	logger.Infof("Phong Raytracer Web Server")
	logger.Infof("Visit http://localhost:%d to start rendering", *port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		errChan <- webServer.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Errorf("Error starting server: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Infof("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown error: %v", err)
		}
	}
}
