package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"housing-explorer/utils"
)

// Snapshotter renders local HTML pages to PNG with a headless browser.
type Snapshotter struct {
	chromeBin string
	logger    *utils.Logger
	retry     *utils.RetryConfig
	settle    time.Duration
}

// NewSnapshotter uses chromeBin when set, otherwise searches the usual
// install locations.
func NewSnapshotter(chromeBin string, maxRetries int, logger *utils.Logger) *Snapshotter {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	return &Snapshotter{
		chromeBin: chromeBin,
		logger:    logger,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		settle: 3 * time.Second,
	}
}

// allocatorOptions are the headless flags passed to the browser.
func (s *Snapshotter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 900),
	)
	if s.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(s.chromeBin))
	}
	return opts
}

// Capture loads htmlPath and writes a full-page screenshot to pngPath.
func (s *Snapshotter) Capture(ctx context.Context, htmlPath, pngPath string) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("snapshot: resolve %q: %w", htmlPath, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	s.logger.Info("[render] Capturing %s with browser %q", abs, s.chromeBin)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, s.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	var png []byte
	err = s.retry.Do(ctx, "map-snapshot", func() error {
		runCtx, cancel := context.WithTimeout(browserCtx, 60*time.Second)
		defer cancel()
		return chromedp.Run(runCtx,
			chromedp.Navigate("file://"+abs),
			chromedp.Sleep(s.settle),
			chromedp.FullScreenshot(&png, 90),
		)
	})
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(pngPath), 0755); err != nil {
		return fmt.Errorf("snapshot: create output dir: %w", err)
	}
	if err := os.WriteFile(pngPath, png, 0644); err != nil {
		return fmt.Errorf("snapshot: write %q: %w", pngPath, err)
	}
	s.logger.Info("[render] Snapshot saved to %s", pngPath)
	return nil
}

func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
