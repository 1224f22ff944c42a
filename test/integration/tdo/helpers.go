package tdo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/tdo/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		return fmt.Errorf("tdo binary path is required (TDO_INTEGRATION_BINARY)")
	}

	// go test changes the CWD to the test package directory.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("TDO_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("tdo binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "TDO_INTEGRATION"
		envBinary     = "TDO_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{Binary: os.Getenv(envBinary)}
	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// runner runs tdo commands against an isolated data dir.
type runner struct {
	t      *testing.T
	binary string
	env    []string
}

func newRunner(t *testing.T, config Config, storage string) runner {
	t.Helper()
	return runner{
		t:      t,
		binary: config.Binary,
		env: []string{
			"TDO_DATA_DIR=" + t.TempDir(),
			"TDO_STORAGE=" + storage,
		},
	}
}

// run executes the command and returns the stdout, the stderr is part of the error.
func (r runner) run(ctx context.Context, stdin string, args ...string) (string, error) {
	r.t.Helper()

	stdout, stderr, err := testutils.RunTDOArgs(ctx, r.env, r.binary, args, stdin)
	if err != nil {
		return string(stdout), fmt.Errorf("%w: %s", err, stderr)
	}
	return string(stdout), nil
}
