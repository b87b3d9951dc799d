package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	capturerpc "soundcheck/internal/modules/capture/adapter/out/rpc"
	"soundcheck/internal/modules/capture/domain"
	captureout "soundcheck/internal/modules/capture/port/out"
	apperrors "soundcheck/internal/platform/errors"
)

const (
	pluginStartTimeout = 3 * time.Second
	pluginCallTimeout  = 5 * time.Second
)

// Manifest declares one external capture plugin binary.
type Manifest struct {
	Name   string `json:"name"`
	Binary string `json:"binary"`
}

// PluginSource hosts capture backends as external go-plugin processes
// speaking the gRPC contract in adapter/out/rpc. The first manifest that
// starts and answers GetMetadata wins.
type PluginSource struct {
	basePath string
	path     string
}

func NewPluginSource(basePath string) captureout.Source {
	return &PluginSource{basePath: basePath, path: filepath.Join(basePath, "plugins", "capture.json")}
}

func (s *PluginSource) Name() string {
	return domain.BackendPlugin
}

func (s *PluginSource) Check(ctx context.Context) error {
	manifests, err := s.loadManifests()
	if err != nil {
		return err
	}
	if len(manifests) == 0 {
		return fmt.Errorf("%w: no capture plugins configured", apperrors.ErrCaptureUnavailable)
	}
	for _, manifest := range manifests {
		if _, err := os.Stat(manifest.Binary); err != nil {
			return fmt.Errorf("plugin %s binary unreachable: %w", manifest.Name, err)
		}
	}
	return nil
}

func (s *PluginSource) Devices(ctx context.Context) ([]domain.Device, error) {
	manifests, err := s.loadManifests()
	if err != nil {
		return nil, err
	}
	var out []domain.Device
	for _, manifest := range manifests {
		client, closeFn, err := connect(manifest)
		if err != nil {
			continue
		}
		callCtx, cancel := context.WithTimeout(ctx, pluginCallTimeout)
		response, err := client.ListDevices(callCtx)
		cancel()
		closeFn()
		if err != nil {
			continue
		}
		for _, d := range response.Devices {
			out = append(out, domain.Device{
				ID:      manifest.Name + ":" + d.ID,
				Label:   d.Label,
				Backend: domain.BackendPlugin,
			})
		}
	}
	return out, nil
}

func (s *PluginSource) Open(ctx context.Context, cfg domain.Config) (captureout.Stream, error) {
	manifests, err := s.loadManifests()
	if err != nil {
		return nil, err
	}
	if len(manifests) == 0 {
		return nil, fmt.Errorf("%w: no capture plugins configured", apperrors.ErrCaptureUnavailable)
	}
	var lastErr error
	for _, manifest := range manifests {
		client, closeFn, err := connect(manifest)
		if err != nil {
			lastErr = err
			continue
		}
		callCtx, cancel := context.WithTimeout(ctx, pluginCallTimeout)
		opened, err := client.Open(callCtx, &capturerpc.OpenRequest{
			DeviceID:   cfg.Device,
			SampleRate: cfg.SampleRate,
			FrameSize:  cfg.FrameSize,
		})
		cancel()
		if err != nil {
			closeFn()
			lastErr = fmt.Errorf("plugin %s open: %w", manifest.Name, err)
			continue
		}
		return &pluginStream{client: client, closeFn: closeFn, streamID: opened.StreamID}, nil
	}
	return nil, fmt.Errorf("%w: %v", apperrors.ErrCaptureUnavailable, lastErr)
}

func (s *PluginSource) loadManifests() ([]Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Manifest{}, nil
		}
		return nil, fmt.Errorf("read capture plugin manifests: %w", err)
	}
	var manifests []Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode capture plugin manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.basePath, manifests[i].Binary))
		}
	}
	return manifests, nil
}

func connect(manifest Manifest) (capturerpc.CaptureSourceClient, func(), error) {
	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  capturerpc.HandshakeConfig,
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolGRPC},
		Plugins:          capturerpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     pluginStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start capture plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(capturerpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense capture plugin: %w", err)
	}
	typed, ok := raw.(capturerpc.CaptureSourceClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("capture plugin client type mismatch")
	}
	return typed, closeFn, nil
}

type pluginStream struct {
	client   capturerpc.CaptureSourceClient
	closeFn  func()
	streamID string
	closed   bool
}

func (s *pluginStream) Read(ctx context.Context) ([]byte, error) {
	if s.closed {
		return nil, apperrors.ErrStreamClosed
	}
	callCtx, cancel := context.WithTimeout(ctx, pluginCallTimeout)
	defer cancel()
	response, err := s.client.Read(callCtx, &capturerpc.ReadRequest{StreamID: s.streamID})
	if err != nil {
		return nil, fmt.Errorf("plugin read: %w", err)
	}
	return response.Samples, nil
}

func (s *pluginStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	ctx, cancel := context.WithTimeout(context.Background(), pluginCallTimeout)
	defer cancel()
	err := s.client.Close(ctx, &capturerpc.CloseRequest{StreamID: s.streamID})
	s.closeFn()
	return err
}
