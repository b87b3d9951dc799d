package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"soundcheck/internal/modules/meter/domain"
	meterout "soundcheck/internal/modules/meter/port/out"
)

// SVGTrendWriter renders the per-second trend as a single polyline. An empty
// target path defaults to <dataDir>/graphs/<id>.svg.
type SVGTrendWriter struct {
	dataDir string
	width   int
	height  int
}

func NewSVGTrendWriter(dataDir string, width, height int) meterout.TrendWriter {
	return &SVGTrendWriter{dataDir: dataDir, width: width, height: height}
}

func (w *SVGTrendWriter) Write(_ context.Context, m domain.Measurement, path string) (string, error) {
	if path == "" {
		path = filepath.Join(w.dataDir, "graphs", m.ID+".svg")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create graph dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(w.render(m.Trend)), 0o644); err != nil {
		return "", fmt.Errorf("write trend svg: %w", err)
	}
	return path, nil
}

func (w *SVGTrendWriter) render(trend []domain.TrendPoint) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		w.width, w.height, w.width, w.height)
	fmt.Fprintf(&b, `  <rect width="%d" height="%d" fill="#1e1e2e"/>`+"\n", w.width, w.height)
	if d := pathData(domain.ScaleTrend(trend, w.width, w.height)); d != "" {
		fmt.Fprintf(&b, `  <path d="%s" fill="none" stroke="#89b4fa" stroke-width="2"/>`+"\n", d)
	}
	b.WriteString("</svg>\n")
	return b.String()
}

func pathData(points []domain.GraphPoint) string {
	if len(points) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s%.1f,%.1f", cmd, p.X, p.Y)
	}
	return b.String()
}
