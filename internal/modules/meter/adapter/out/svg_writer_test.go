package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"soundcheck/internal/modules/meter/adapter/out"
	"soundcheck/internal/modules/meter/domain"
)

func TestSVGWriterRendersTrendPath(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writer := out.NewSVGTrendWriter(dir, 640, 160)

	m := sampleMeasurement("m1", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	path, err := writer.Write(context.Background(), m, "")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, "graphs", "m1.svg") {
		t.Fatalf("unexpected default path: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	svg := string(raw)
	if !strings.Contains(svg, `width="640" height="160"`) {
		t.Fatalf("canvas dimensions missing:\n%s", svg)
	}
	// min value 55 sits at the bottom edge, max value 82.5 at the top
	if !strings.Contains(svg, `d="M0.0,160.0`) {
		t.Fatalf("path must start at the first point:\n%s", svg)
	}
	if !strings.Contains(svg, "L640.0,0.0") {
		t.Fatalf("path must end at the last point:\n%s", svg)
	}
}

func TestSVGWriterExplicitPathAndEmptyTrend(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writer := out.NewSVGTrendWriter(dir, 640, 160)

	target := filepath.Join(dir, "exported", "trend.svg")
	m := domain.Measurement{ID: "m2", StartedAt: time.Now().UTC()}
	path, err := writer.Write(context.Background(), m, target)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != target {
		t.Fatalf("explicit path not honored: %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if strings.Contains(string(raw), "<path") {
		t.Fatalf("empty trend must render no path:\n%s", raw)
	}
	if !strings.Contains(string(raw), "</svg>") {
		t.Fatalf("document must still be a complete svg:\n%s", raw)
	}
}
