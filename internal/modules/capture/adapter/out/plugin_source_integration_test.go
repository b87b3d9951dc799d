package out_test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	captureout "soundcheck/internal/modules/capture/adapter/out"
	"soundcheck/internal/modules/capture/domain"
)

func TestPluginSourceIntegrationSinePlugin(t *testing.T) {
	binPath := buildSinePlugin(t)
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "plugins"), 0o755); err != nil {
		t.Fatalf("create plugins dir: %v", err)
	}
	manifest, err := json.Marshal([]captureout.Manifest{{Name: "sine", Binary: binPath}})
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(base, "plugins", "capture.json"), manifest, 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	source := captureout.NewPluginSource(base)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := source.Check(ctx); err != nil {
		t.Fatalf("check: %v", err)
	}
	devices, err := source.Devices(ctx)
	if err != nil {
		t.Fatalf("devices: %v", err)
	}
	if len(devices) == 0 {
		t.Fatalf("expected plugin devices")
	}

	stream, err := source.Open(ctx, domain.Config{
		Backend: domain.BackendPlugin, SampleRate: 8000, FrameSize: 512,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	frame, err := stream.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(frame) != 512 {
		t.Fatalf("expected 512 samples, got %d", len(frame))
	}
	var moved bool
	for _, b := range frame {
		if b != 128 {
			moved = true
			break
		}
	}
	if !moved {
		t.Fatalf("sine plugin frame must not be silent")
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestPluginSourceCheckFailsWithoutManifests(t *testing.T) {
	t.Parallel()
	source := captureout.NewPluginSource(t.TempDir())
	if err := source.Check(context.Background()); err == nil {
		t.Fatalf("expected check failure without manifests")
	}
}

func buildSinePlugin(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	binPath := filepath.Join(tmp, "sine-plugin")
	cmd := exec.Command("go", "build", "-o", binPath, "./plugins/sine")
	cmd.Dir = repositoryRoot(t)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build sine plugin: %v\n%s", err, string(out))
	}
	return binPath
}

func repositoryRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "../../../../../"))
}
