package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/voyager-lod/internal/config"
)

var galleryScene = filepath.Join("..", "..", "internal", "scene", "testdata", "gallery.yaml")

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCmdRun(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Frames = 3

	var out bytes.Buffer
	require.NoError(t, cmdRun(cfg, []string{galleryScene}, &out))

	s := out.String()
	assert.Contains(t, s, "frame    0  bust")
	assert.Contains(t, s, "thumb   -> medium")
	assert.Contains(t, s, "low     -> thumb")
	assert.Contains(t, s, "Passes:  3")
	assert.Contains(t, s, "Changes: 2")
	assert.Contains(t, s, "  bust             medium")
}

func TestCmdRunDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.LOD.Enabled = false
	cfg.Simulation.Frames = 2

	var out bytes.Buffer
	require.NoError(t, cmdRun(cfg, []string{galleryScene}, &out))
	assert.Contains(t, out.String(), "Passes:  0")
	assert.Contains(t, out.String(), "  bust             thumb")
}

func TestCmdErrors(t *testing.T) {
	cfg := config.Default()
	var out bytes.Buffer

	assert.ErrorIs(t, cmdRun(cfg, nil, &out), errUsage)
	assert.ErrorIs(t, cmdScore(cfg, nil, &out), errUsage)
	assert.ErrorIs(t, cmdRun(cfg, []string{filepath.Join(t.TempDir(), "none.yaml")}, &out), os.ErrNotExist)

	cfg.LOD.Hysteresis = 2
	assert.Error(t, cmdRun(cfg, []string{galleryScene}, &out))
}

func TestCmdScore(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, cmdScore(config.Default(), []string{galleryScene}, &out))

	lines := strings.Split(out.String(), "\n")
	require.Greater(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.True(t, strings.HasPrefix(lines[1], "bust"))
	assert.Contains(t, lines[1], "0.1875")
	assert.Contains(t, lines[1], "medium")
	assert.True(t, strings.HasPrefix(lines[3], "crate"))
	assert.Contains(t, lines[3], " - ")
	assert.Contains(t, out.String(), "Texture total:")
}

func TestCmdScoreDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.LOD.Enabled = false

	var out bytes.Buffer
	require.NoError(t, cmdScore(cfg, []string{galleryScene}, &out))
	assert.Contains(t, out.String(), "disabled")
}

func TestCmdConfig(t *testing.T) {
	cfg := config.Default()

	var out bytes.Buffer
	require.NoError(t, cmdConfig(cfg, nil, &out))
	assert.Contains(t, out.String(), "budget: 67108864")

	path := filepath.Join(t.TempDir(), "lodsim.toml")
	out.Reset()
	require.NoError(t, cmdConfig(cfg, []string{"save", path}, &out))
	assert.Contains(t, out.String(), path)

	loaded, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.LOD, loaded.LOD)

	assert.Error(t, cmdConfig(cfg, []string{"frobnicate"}, &out))
}

func TestCmdWatch(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.TickRate = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var out lockedBuffer
	require.NoError(t, cmdWatch(ctx, cfg, "", []string{galleryScene}, &out))
	assert.Contains(t, out.String(), "bust")
	assert.Contains(t, out.String(), "Final qualities:")
}

func TestCmdWatchReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lodsim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lod:\n  hysteresis: 0.01\n"), 0644))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	cfg.Simulation.TickRate = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out lockedBuffer
	done := make(chan error, 1)
	go func() {
		done <- cmdWatch(ctx, cfg, path, []string{galleryScene}, &out)
	}()

	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("lod:\n  hysteresis: 0.05\n"), 0644)
		return strings.Contains(out.String(), "settings reloaded")
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.InDelta(t, 0.05, cfg.LOD.Hysteresis, 1e-6)
}
