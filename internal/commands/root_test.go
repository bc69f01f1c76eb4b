package commands

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/config"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"init", "import", "reprocess", "rules", "transfers", "worker"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestWorkerCommand_RunsUntilCancelled(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, config.Save(cfgPath, config.Default()))

	ctx, cancel := context.WithCancel(context.Background())
	root := NewRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"worker", "--config", cfgPath})

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("worker exited before cancel: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
