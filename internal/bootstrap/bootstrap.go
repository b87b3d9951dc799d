package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	captureinadapter "soundcheck/internal/modules/capture/adapter/in"
	captureoutadapter "soundcheck/internal/modules/capture/adapter/out"
	captureservice "soundcheck/internal/modules/capture/service"
	captureusecase "soundcheck/internal/modules/capture/usecase"
	meterinadapter "soundcheck/internal/modules/meter/adapter/in"
	meteroutadapter "soundcheck/internal/modules/meter/adapter/out"
	meterdomain "soundcheck/internal/modules/meter/domain"
	meterservice "soundcheck/internal/modules/meter/service"
	meterusecase "soundcheck/internal/modules/meter/usecase"
	"soundcheck/internal/platform/clock"
	"soundcheck/internal/platform/config"
	"soundcheck/internal/platform/id"
	uiapp "soundcheck/internal/ui/app"
)

type App struct {
	Config     config.Config
	MeterCLI   meterinadapter.CLIHandler
	MeterTUI   meterinadapter.TUIHandler
	CaptureCLI captureinadapter.CLIHandler
}

func New(cfg config.Config) (*App, error) {
	clk := clock.SystemClock{}
	ids := id.RandomHex{}

	// Auto-selection prefers real audio over the synthetic fallback, so
	// source order matters here.
	captureSvc := captureservice.NewCaptureService(
		captureoutadapter.NewExecSource(),
		captureoutadapter.NewPluginSource(cfg.DataDir),
		captureoutadapter.NewSyntheticSource(),
	)
	captureUC := captureusecase.NewInteractor(captureSvc, ids)

	projector, err := meteroutadapter.NewSQLiteMeasurementProjector(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new measurement projector: %w", err)
	}
	meterSvc := meterservice.NewMeterService(clk, ids, meterdomain.SessionConfig{
		Duration:        cfg.Session.Duration,
		DisplayInterval: cfg.Session.DisplayInterval,
		HistoryInterval: cfg.Session.HistoryInterval,
		SmoothingWindow: cfg.Session.SmoothingWindow,
	})
	meterUC := meterusecase.NewInteractor(
		meterSvc,
		captureUC,
		meteroutadapter.NewMarkdownReportStore(cfg.DataDir),
		projector,
		meteroutadapter.NewSVGTrendWriter(cfg.DataDir, cfg.Graph.Width, cfg.Graph.Height),
		clk,
		cfg.Capture,
		cfg.Session.FrameInterval,
	)

	return &App{
		Config:     cfg,
		MeterCLI:   meterinadapter.NewCLIHandler(meterUC),
		MeterTUI:   meterinadapter.NewTUIHandler(meterUC),
		CaptureCLI: captureinadapter.NewCLIHandler(captureUC),
	}, nil
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.MeterTUI, app.CaptureCLI, app.Config.Session.FrameInterval)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
