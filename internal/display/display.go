// Package display pushes rendered artifacts to the physical screen via an
// external process.
package display

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// fbi renders an image straight to the framebuffer; these arguments target
// tty1 on /dev/fb0, autozoomed, without the filename overlay.
var fbiArgs = []string{"-T", "1", "-d", "/dev/fb0", "-a", "--noverbose"}

// Viewer invokes an external image viewer on the artifact path. Failures are
// reported to the caller, which logs them and carries on: the display is
// never allowed to take the service down.
type Viewer struct {
	logger *zap.Logger
	// command, when set, is a shell command template; {path} is replaced
	// with the artifact path. Empty falls back to fbi autodetection.
	command string
}

// New creates a viewer. An empty command selects fbi when available.
func New(logger *zap.Logger, command string) *Viewer {
	if command == "" {
		if _, err := exec.LookPath("fbi"); err != nil {
			logger.Warn("no display command configured and fbi not found; artifacts will only be served over HTTP")
		}
	}
	return &Viewer{logger: logger, command: strings.TrimSpace(command)}
}

// Display shows the image at path on the physical display.
func (v *Viewer) Display(ctx context.Context, path string) error {
	if v.command != "" {
		return v.runCustom(ctx, path)
	}
	return v.runFbi(ctx, path)
}

func (v *Viewer) runCustom(ctx context.Context, path string) error {
	cmdline := strings.ReplaceAll(v.command, "{path}", path)
	v.logger.Debug("running display command", zap.String("cmd", cmdline))

	output, err := exec.CommandContext(ctx, "sh", "-c", cmdline).CombinedOutput()
	if err != nil {
		return fmt.Errorf("display command failed: %w (output: %s)", err, strings.TrimSpace(string(output)))
	}
	return nil
}

func (v *Viewer) runFbi(ctx context.Context, path string) error {
	fbi, err := exec.LookPath("fbi")
	if err != nil {
		return fmt.Errorf("no display command configured and fbi not found")
	}

	// fbi stays resident per image; clear out the previous instance first.
	_ = exec.CommandContext(ctx, "pkill", "-f", "fbi").Run()

	args := append(append([]string(nil), fbiArgs...), path)
	output, err := exec.CommandContext(ctx, fbi, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("fbi failed: %w (output: %s)", err, strings.TrimSpace(string(output)))
	}

	v.logger.Info("artifact displayed", zap.String("path", path))
	return nil
}
