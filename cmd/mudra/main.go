package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/log"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := log.Setup(log.Options{Level: cfg.Log.Level, File: cfg.Log.File}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pipeline *app.App
	if cfg.Camera.Enabled {
		pipeline = app.New(app.Config{
			Camera: capture.Options{
				DeviceID:    cfg.Camera.DeviceID,
				Width:       cfg.Camera.Width,
				Height:      cfg.Camera.Height,
				ReopenAfter: capture.DefaultReopenAfter,
			},
			FPS:        cfg.Camera.FPS,
			Thresholds: cfg.Gesture,
			Detector: detector.Config{
				MaxHands:      cfg.Detector.MaxHands,
				MinConfidence: cfg.Detector.MinConfidence,
				Faces:         cfg.Detector.Faces,
				Humans:        cfg.Detector.Humans,
			},
		})
	} else {
		log.Info(nil, "camera disabled, serving the classification API only")
	}

	webDir := cfg.WebDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		log.Info(log.Fields{"dir": webDir}, "serving static files")
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		Thresholds: cfg.Gesture,
		App:        pipeline,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx, cfg.Addr) })
	if pipeline != nil {
		g.Go(func() error { return pipeline.Run(gctx) })
	}

	if cfg.Tray {
		runTray(gctx, stop, pipeline, cfg.Addr)
	}

	return g.Wait()
}

// runTray blocks on the tray's event loop until ctx ends or the user quits.
func runTray(ctx context.Context, stop context.CancelFunc, pipeline *app.App, addr string) {
	t := tray.New()
	t.OnQuit(stop)
	t.OnPreview(func() {
		url := "http://localhost" + addr + "/api/stream"
		if err := openBrowser(url); err != nil {
			log.Warn(log.Fields{"url": url, "error": err}, "open preview")
		}
	})

	if pipeline != nil {
		t.OnToggle(pipeline.SetEnabled)
		results, cancel := pipeline.Subscribe()
		defer cancel()
		go t.Follow(ctx, results)
	}

	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	t.Run()
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
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

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
