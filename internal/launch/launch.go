// Package launch opens filesystem locations and URLs with the platform's
// default handler. Launches are fire-and-forget: failures are logged and
// never escalated, since a broken desktop association must not surface as a
// menu error.
package launch

import (
	"log/slog"
	"os/exec"
	"runtime"
)

// OpenPath opens a directory or file in the platform file browser.
func OpenPath(path string, logger *slog.Logger) {
	open(path, "path", logger)
}

// OpenURL opens a URL in the default browser.
func OpenURL(url string, logger *slog.Logger) {
	open(url, "url", logger)
}

func open(target, kind string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if target == "" {
		logger.Warn("nothing to open", slog.String("kind", kind))
		return
	}

	cmd := openCommand(target)
	logger.Debug("launching", slog.String("kind", kind), slog.String("target", target))

	if err := cmd.Start(); err != nil {
		logger.Error("launch failed",
			slog.String("kind", kind),
			slog.String("target", target),
			"error", err)
		return
	}

	// Reap the child in the background; the exit status is advisory only.
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Warn("launcher exited with error",
				slog.String("target", target),
				"error", err)
		}
	}()
}

func openCommand(target string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", target)
	default:
		return exec.Command("xdg-open", target)
	}
}
