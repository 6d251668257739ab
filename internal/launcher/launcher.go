// Package launcher is the execution adapter at the subsystem boundary: it
// receives a final URL and opens it in the system browser. Every URL passes
// the safety validator first, no matter which stage produced it.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"go.uber.org/zap"
)

// ErrUnsafeURL is returned when validation rejects a URL before launch.
var ErrUnsafeURL = errors.New("unsafe url")

// Validator gates outgoing URLs.
type Validator interface {
	Check(url string) error
}

// Launcher opens a resolved URL for the user.
type Launcher interface {
	Launch(ctx context.Context, url string) error
}

// System opens URLs with the platform's default browser handler.
type System struct {
	safety Validator
	logger *zap.Logger

	// runCommand is swappable for tests.
	runCommand func(ctx context.Context, name string, args ...string) error
}

// NewSystem creates a system launcher guarded by the given validator.
func NewSystem(safety Validator, logger *zap.Logger) *System {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &System{
		safety: safety,
		logger: logger.With(zap.String("component", "launcher")),
		runCommand: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Start()
		},
	}
}

// Launch validates url and hands it to the OS. Unsafe URLs never reach the
// OS handler.
func (s *System) Launch(ctx context.Context, url string) error {
	if err := s.safety.Check(url); err != nil {
		s.logger.Warn("refusing to launch url",
			zap.String("url", url),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}

	name, args := openCommand(url)
	if name == "" {
		return fmt.Errorf("no browser launcher for platform %s", runtime.GOOS)
	}

	s.logger.Info("launching url", zap.String("url", url))
	if err := s.runCommand(ctx, name, args...); err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	return nil
}

// openCommand returns the platform handler invocation for a URL.
func openCommand(url string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	case "linux":
		return "xdg-open", []string{url}
	default:
		return "", nil
	}
}
