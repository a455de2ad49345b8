package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fitmirror/fitmirror/internal/app"
	"github.com/fitmirror/fitmirror/internal/capture"
	"github.com/fitmirror/fitmirror/internal/config"
	"github.com/fitmirror/fitmirror/internal/server"
	"github.com/fitmirror/fitmirror/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	fmt.Println("FitMirror - Exercise Form Analysis")

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Initialize the store
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	// A recorded video takes precedence over the live camera
	var source capture.Source
	if cfg.Capture.Video != "" {
		source = capture.NewFileSource(cfg.Capture.Video)
		fmt.Printf("Analyzing video file: %s\n", cfg.Capture.Video)
	} else {
		source = capture.NewCamera(cfg.Capture.Device)
	}

	a, err := app.New(app.Config{
		Store:           st,
		Source:          source,
		Exercise:        cfg.Analysis.Exercise,
		ActiveFPS:       cfg.Capture.ActiveFPS,
		IdleFPS:         cfg.Capture.IdleFPS,
		MotionThreshold: cfg.Capture.MotionThreshold,
		ModelComplexity: cfg.Analysis.ModelComplexity,
		MinConfidence:   cfg.Analysis.MinConfidence,
	})
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}
	a.SetEnabled(true)

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Source:    a.Source(),
		Live:      a,
	})

	// Persist the session on shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down")
		a.Stop()
		st.Close()
		os.Exit(0)
	}()

	addr := cfg.Server.Addr()
	fmt.Printf("Starting server on %s\n", addr)
	if err := srv.ListenAndServe(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.fitmirror/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".fitmirror", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
