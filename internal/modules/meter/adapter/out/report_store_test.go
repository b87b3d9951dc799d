package out_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"soundcheck/internal/modules/meter/adapter/out"
	"soundcheck/internal/platform/markdown"
)

func TestReportStoreWritesDatedNote(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	store := out.NewMarkdownReportStore(dir)

	m := sampleMeasurement("abcdef1234567890", time.Date(2026, 3, 1, 10, 30, 45, 0, time.UTC))
	path, err := store.Save(context.Background(), m)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(path, "measurements/2026/03/01/103045-abcdef12.md") {
		t.Fatalf("unexpected note path: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	meta, body, err := markdown.SplitFrontmatter(string(raw))
	if err != nil {
		t.Fatalf("split frontmatter: %v", err)
	}
	if meta["id"] != "abcdef1234567890" {
		t.Fatalf("frontmatter id mismatch: %v", meta["id"])
	}
	if meta["sample_count"] != 450 {
		t.Fatalf("frontmatter sample_count mismatch: %v", meta["sample_count"])
	}
	if !strings.Contains(body, "Max level: 82.5") {
		t.Fatalf("summary missing from body:\n%s", body)
	}
	if !strings.Contains(body, "| 1s | 60.5 |") {
		t.Fatalf("trend table missing from body:\n%s", body)
	}
	if !strings.Contains(body, "soundcheck:trend:start") || !strings.Contains(body, "soundcheck:trend:end") {
		t.Fatalf("trend block markers missing:\n%s", body)
	}
}
