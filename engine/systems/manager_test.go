package systems

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/planar/engine/scene"
	"github.com/spaghettifunk/planar/engine/tracking"
)

const managerRecording = `
frame_interval_ms = 0

[[frames]]
camera = { position = [1.0, 1.5, 0.0], rotation = [-90.0, 0.0, 0.0] }

[[frames.anchors]]
op = "add"
id = "floor"
extent = [1.0, 0.0, 1.0]

[[frames.taps]]
x = 0.25
y = 0.75
`

func newTestManager(t *testing.T, snapshot uint32) *SystemManager {
	t.Helper()
	dir := t.TempDir()
	recording := filepath.Join(dir, "session.toml")
	require.NoError(t, os.WriteFile(recording, []byte(managerRecording), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "assets"), 0o755))

	sm, err := NewSystemManager(SystemManagerConfig{
		AssetsDir:      filepath.Join(dir, "assets"),
		Recording:      recording,
		Width:          320,
		Height:         240,
		SnapshotWidth:  snapshot,
		SnapshotHeight: snapshot,
		PixelsPerMeter: 20,
	})
	require.NoError(t, err)
	require.NoError(t, sm.Initialize())
	t.Cleanup(func() {
		assert.NoError(t, sm.Shutdown())
	})
	return sm
}

func TestNewSystemManagerMissingRecording(t *testing.T) {
	_, err := NewSystemManager(SystemManagerConfig{
		AssetsDir: t.TempDir(),
		Recording: filepath.Join(t.TempDir(), "missing.toml"),
	})
	assert.Error(t, err)
}

func TestSystemManagerWiring(t *testing.T) {
	sm := newTestManager(t, 0)

	assert.Same(t, sm.Session, sm.View.Session())
	taps := sm.Recording().Taps()
	require.Len(t, taps, 1)
	assert.Equal(t, uint64(1), taps[0].Frame)

	sm.OnResize(640, 480)
	assert.Equal(t, uint32(640), sm.View.Camera().Width)
	assert.Equal(t, uint32(480), sm.View.Camera().Height)
}

func TestSystemManagerSnapshotDisabled(t *testing.T) {
	sm := newTestManager(t, 0)
	assert.Error(t, sm.RenderSnapshot(0))
	assert.Error(t, sm.WriteSnapshot(filepath.Join(t.TempDir(), "out.png"), nil))
}

func TestSystemManagerWriteSnapshot(t *testing.T) {
	sm := newTestManager(t, 32)
	sm.View.SetScene(scene.New())

	sm.Session.Run(tracking.NewWorldTrackingConfiguration())
	deadline := time.Now().Add(time.Second)
	for sm.Session.LastFrame() == 0 {
		require.True(t, time.Now().Before(deadline), "no frame applied")
		sm.Session.Update()
		time.Sleep(time.Millisecond)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	result := make(chan error, 1)
	require.NoError(t, sm.WriteSnapshot(path, func(err error) { result <- err }))

	select {
	case err := <-result:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("snapshot was not written")
	}

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}
