package launcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsfree/webnav/internal/safety"
)

func TestLaunchRunsPlatformHandler(t *testing.T) {
	s := NewSystem(safety.NewValidator(), nil)

	var gotName string
	var gotArgs []string
	s.runCommand = func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}

	require.NoError(t, s.Launch(context.Background(), "https://example.com"))
	assert.NotEmpty(t, gotName)
	assert.Contains(t, gotArgs, "https://example.com")
}

func TestLaunchRefusesUnsafeURL(t *testing.T) {
	s := NewSystem(safety.NewValidator(), nil)

	ran := false
	s.runCommand = func(context.Context, string, ...string) error {
		ran = true
		return nil
	}

	for _, url := range []string{
		"http://169.254.169.254/latest/meta-data/",
		"http://localhost:8080",
		"file:///etc/passwd",
		"",
	} {
		err := s.Launch(context.Background(), url)
		assert.ErrorIs(t, err, ErrUnsafeURL, "url %q must be refused", url)
	}
	assert.False(t, ran, "unsafe urls never reach the OS handler")
}

func TestLaunchReportsHandlerFailure(t *testing.T) {
	s := NewSystem(safety.NewValidator(), nil)
	s.runCommand = func(context.Context, string, ...string) error {
		return assert.AnError
	}

	err := s.Launch(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsafeURL)
}
