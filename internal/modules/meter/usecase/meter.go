package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	capturedto "soundcheck/internal/modules/capture/dto"
	capturein "soundcheck/internal/modules/capture/port/in"
	"soundcheck/internal/modules/meter/domain"
	meterdto "soundcheck/internal/modules/meter/dto"
	meterin "soundcheck/internal/modules/meter/port/in"
	meterout "soundcheck/internal/modules/meter/port/out"
	"soundcheck/internal/modules/meter/service"
	"soundcheck/internal/platform/clock"
	"soundcheck/internal/platform/config"
	apperrors "soundcheck/internal/platform/errors"
)

type activeRun struct {
	session  *domain.Session
	streamID string
	backend  string
}

// Interactor owns the measurement lifecycle. At most one run is active; the
// capture stream is scoped to it and released on the completion edge or on
// Abort, whichever comes first.
type Interactor struct {
	svc       *service.MeterService
	capture   capturein.Usecase
	store     meterout.ReportStore
	projector meterout.MeasurementProjector
	trend     meterout.TrendWriter
	clk       clock.Clock
	captCfg   config.CaptureConfig
	frameTick time.Duration

	mu     sync.Mutex
	active *activeRun
}

func NewInteractor(
	svc *service.MeterService,
	capture capturein.Usecase,
	store meterout.ReportStore,
	projector meterout.MeasurementProjector,
	trend meterout.TrendWriter,
	clk clock.Clock,
	captCfg config.CaptureConfig,
	frameTick time.Duration,
) meterin.Usecase {
	return &Interactor{
		svc:       svc,
		capture:   capture,
		store:     store,
		projector: projector,
		trend:     trend,
		clk:       clk,
		captCfg:   captCfg,
		frameTick: frameTick,
	}
}

// Begin acquires capture and arms a session. On acquisition failure the
// error is returned and nothing is armed: the meter stays idle.
func (i *Interactor) Begin(ctx context.Context, input meterdto.BeginInput) (meterdto.SnapshotOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.active != nil {
		return meterdto.SnapshotOutput{}, apperrors.ErrMeasurementActive
	}

	backend := input.Backend
	if backend == "" {
		backend = i.captCfg.Backend
	}
	device := input.Device
	if device == "" {
		device = i.captCfg.Device
	}
	opened, err := i.capture.Open(ctx, capturedto.OpenInput{
		Backend:    backend,
		Device:     device,
		SampleRate: i.captCfg.SampleRate,
		FrameSize:  i.captCfg.FrameSize,
	})
	if err != nil {
		return meterdto.SnapshotOutput{}, fmt.Errorf("acquire capture: %w", err)
	}

	i.active = &activeRun{
		session:  i.svc.StartSession(input.Duration),
		streamID: opened.StreamID,
		backend:  opened.Backend,
	}
	return i.snapshotLocked(), nil
}

// Step reads one frame and advances the state machine. On the frame that
// completes the window it releases capture, persists the measurement and
// embeds it in the snapshot. Persistence failures are reported alongside the
// snapshot so the finished measurement is not silently lost.
func (i *Interactor) Step(ctx context.Context) (meterdto.SnapshotOutput, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.active == nil {
		return meterdto.SnapshotOutput{}, apperrors.ErrNoActiveMeasurement
	}

	frame, err := i.capture.Read(ctx, i.active.streamID)
	if err != nil {
		i.releaseLocked(ctx)
		return meterdto.SnapshotOutput{}, fmt.Errorf("capture stream: %w", err)
	}

	phase := i.active.session.Observe(frame.Samples, i.clk.Now())
	snapshot := i.snapshotLocked()
	if phase != domain.PhaseComplete {
		return snapshot, nil
	}

	run := i.active
	i.releaseLocked(ctx)
	measurement := i.svc.Finalize(run.session)
	persistErr := i.persist(ctx, &measurement)
	out := toMeasurementOutput(measurement)
	snapshot.Completed = &out
	return snapshot, persistErr
}

// Abort is the teardown path: release capture, discard the run.
func (i *Interactor) Abort(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.active == nil {
		return nil
	}
	i.releaseLocked(ctx)
	return nil
}

// Measure runs a complete headless measurement on a frame ticker.
func (i *Interactor) Measure(ctx context.Context, input meterdto.MeasureInput) (meterdto.MeasurementOutput, error) {
	if _, err := i.Begin(ctx, meterdto.BeginInput{
		Backend:  input.Backend,
		Device:   input.Device,
		Duration: input.Duration,
	}); err != nil {
		return meterdto.MeasurementOutput{}, err
	}

	ticker := time.NewTicker(i.frameTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = i.Abort(context.Background())
			return meterdto.MeasurementOutput{}, ctx.Err()
		case <-ticker.C:
			snapshot, err := i.Step(ctx)
			if err != nil && snapshot.Completed == nil {
				return meterdto.MeasurementOutput{}, err
			}
			if snapshot.Completed == nil {
				continue
			}
			out := *snapshot.Completed
			if input.SVGPath != "" {
				exported, exportErr := i.ExportSVG(ctx, meterdto.ExportInput{
					MeasurementID: out.ID,
					Path:          input.SVGPath,
				})
				if exportErr != nil {
					if err == nil {
						err = exportErr
					}
				} else {
					out.SVGPath = exported.Path
				}
			}
			return out, err
		}
	}
}

func (i *Interactor) List(ctx context.Context) ([]meterdto.MeasurementOutput, error) {
	measurements, err := i.projector.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]meterdto.MeasurementOutput, 0, len(measurements))
	for _, m := range measurements {
		out = append(out, toMeasurementOutput(m))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (meterdto.MeasurementOutput, error) {
	measurement, err := i.projector.Get(ctx, id)
	if err != nil {
		return meterdto.MeasurementOutput{}, err
	}
	return toMeasurementOutput(measurement), nil
}

func (i *Interactor) ExportSVG(ctx context.Context, input meterdto.ExportInput) (meterdto.ExportOutput, error) {
	measurement, err := i.projector.Get(ctx, input.MeasurementID)
	if err != nil {
		return meterdto.ExportOutput{}, err
	}
	path, err := i.trend.Write(ctx, measurement, input.Path)
	if err != nil {
		return meterdto.ExportOutput{}, err
	}
	if path != measurement.SVGPath {
		measurement.SVGPath = path
		if err := i.projector.Upsert(ctx, measurement); err != nil {
			return meterdto.ExportOutput{}, err
		}
	}
	return meterdto.ExportOutput{MeasurementID: measurement.ID, Path: path}, nil
}

// releaseLocked closes the capture stream and clears the run. Called with
// the interactor mutex held.
func (i *Interactor) releaseLocked(ctx context.Context) {
	if i.active == nil {
		return
	}
	_ = i.capture.Close(ctx, i.active.streamID)
	i.active = nil
}

func (i *Interactor) persist(ctx context.Context, measurement *domain.Measurement) error {
	var errs []error
	if notePath, err := i.store.Save(ctx, *measurement); err != nil {
		errs = append(errs, fmt.Errorf("save report: %w", err))
	} else {
		measurement.NotePath = notePath
	}
	if svgPath, err := i.trend.Write(ctx, *measurement, ""); err != nil {
		errs = append(errs, fmt.Errorf("write trend svg: %w", err))
	} else {
		measurement.SVGPath = svgPath
	}
	if err := i.projector.Upsert(ctx, *measurement); err != nil {
		errs = append(errs, fmt.Errorf("project measurement: %w", err))
	}
	return errors.Join(errs...)
}

func (i *Interactor) snapshotLocked() meterdto.SnapshotOutput {
	now := i.clk.Now()
	session := i.active.session
	return meterdto.SnapshotOutput{
		Phase:     session.Phase().String(),
		Current:   session.Current(),
		Display:   session.Display(),
		MaxLevel:  session.MaxLevel(),
		AvgLevel:  session.AvgLevel(),
		Elapsed:   session.Elapsed(now),
		Remaining: session.Remaining(now),
		Backend:   i.active.backend,
	}
}

func toMeasurementOutput(m domain.Measurement) meterdto.MeasurementOutput {
	trend := make([]meterdto.TrendPointOutput, 0, len(m.Trend))
	for _, p := range m.Trend {
		trend = append(trend, meterdto.TrendPointOutput{Offset: p.Offset, Value: p.Value})
	}
	return meterdto.MeasurementOutput{
		ID:          m.ID,
		StartedAt:   m.StartedAt,
		EndedAt:     m.EndedAt,
		Duration:    m.Duration,
		MaxLevel:    m.MaxLevel,
		AvgLevel:    m.AvgLevel,
		SampleCount: m.SampleCount,
		Trend:       trend,
		NotePath:    m.NotePath,
		SVGPath:     m.SVGPath,
	}
}
