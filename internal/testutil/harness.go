package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/factorgrid/internal/config"
	"github.com/vk/factorgrid/internal/ctxlog"
	"github.com/vk/factorgrid/internal/graph"
	"github.com/vk/factorgrid/internal/hcl"
	"github.com/vk/factorgrid/internal/rules"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Context returns a background context carrying a debug logger that writes
// into the returned buffer, so tests can assert on log output.
func Context() (context.Context, *SafeBuffer) {
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// Registry builds a rules.Registry populated by the given modules.
func Registry(t *testing.T, modules ...rules.Module) *rules.Registry {
	t.Helper()
	reg := rules.New()
	for _, mod := range modules {
		mod.Register(reg)
	}
	return reg
}

// WriteModelFiles writes the given model files into a fresh temporary
// directory and returns its path. Relative paths in the map create
// subdirectories.
func WriteModelFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}
	return tmpDir
}

// LoadModel parses one HCL model source through the real loader.
func LoadModel(t *testing.T, src string) (*config.Model, error) {
	t.Helper()
	dir := WriteModelFiles(t, map[string]string{"main.hcl": src})
	ctx, _ := Context()
	return hcl.NewLoader().Load(ctx, filepath.Join(dir, "main.hcl"))
}

// BuildGraph loads an HCL model source and assembles the factor graph
// against a registry populated with the given modules. Load or build
// failures fail the test.
func BuildGraph(t *testing.T, src string, modules ...rules.Module) (*graph.Graph, *rules.Registry) {
	t.Helper()
	model, err := LoadModel(t, src)
	require.NoError(t, err, "model should load")
	reg := Registry(t, modules...)
	ctx, _ := Context()
	g, err := graph.Build(ctx, model, reg)
	require.NoError(t, err, "graph should build")
	return g, reg
}
