package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"soundcheck/internal/modules/meter/domain"
	meterout "soundcheck/internal/modules/meter/port/out"
	"soundcheck/internal/platform/markdown"
	"soundcheck/internal/platform/slug"
)

const (
	trendBlockStart = "<!-- soundcheck:trend:start -->"
	trendBlockEnd   = "<!-- soundcheck:trend:end -->"
)

// MarkdownReportStore writes one note per measurement under
// <dataDir>/measurements/YYYY/MM/DD/. The trend table lives in a managed
// block so hand-written notes around it survive a re-render.
type MarkdownReportStore struct {
	dataDir string
}

func NewMarkdownReportStore(dataDir string) meterout.ReportStore {
	return &MarkdownReportStore{dataDir: dataDir}
}

func (s *MarkdownReportStore) Save(_ context.Context, m domain.Measurement) (string, error) {
	date := m.StartedAt
	dir := filepath.Join(s.dataDir, "measurements", date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create measurement dir: %w", err)
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(shortID(m.ID)))
	path := filepath.Join(dir, name)

	meta := map[string]any{
		"schema_version": domain.SchemaVersion,
		"id":             m.ID,
		"started_at":     m.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		"ended_at":       m.EndedAt.Format("2006-01-02T15:04:05Z07:00"),
		"duration_ms":    m.Duration.Milliseconds(),
		"max_level":      m.MaxLevel,
		"avg_level":      m.AvgLevel,
		"sample_count":   m.SampleCount,
	}
	body := fmt.Sprintf(
		"# Sound Check %s\n\n- Max level: %.1f\n- Average level: %.1f\n- Samples: %d\n",
		date.Format("2006-01-02 15:04"), m.MaxLevel, m.AvgLevel, m.SampleCount,
	)
	body = markdown.ReplaceManagedBlock(body, trendBlockStart, trendBlockEnd, renderTrendTable(m.Trend))
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write measurement note: %w", err)
	}
	return path, nil
}

func renderTrendTable(points []domain.TrendPoint) string {
	var b strings.Builder
	b.WriteString("| Offset | Level |\n|---|---|\n")
	for _, p := range points {
		fmt.Fprintf(&b, "| %s | %.1f |\n", p.Offset.Round(0), p.Value)
	}
	return strings.TrimRight(b.String(), "\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
