package main

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/hashicorp/go-plugin"

	capturerpc "soundcheck/internal/modules/capture/adapter/out/rpc"
)

const defaultToneHz = 440

type toneStream struct {
	freq       float64
	sampleRate int
	frameSize  int
	phase      int
}

type server struct {
	mu      sync.Mutex
	nextID  int
	streams map[string]*toneStream
}

func (s *server) GetMetadata(_ context.Context, _ *capturerpc.Empty) (*capturerpc.Metadata, error) {
	return &capturerpc.Metadata{Name: "sine", Version: "1.0.0"}, nil
}

func (s *server) ListDevices(_ context.Context, _ *capturerpc.Empty) (*capturerpc.ListDevicesResponse, error) {
	return &capturerpc.ListDevicesResponse{Devices: []capturerpc.Device{
		{ID: "sine", Label: "440 Hz test tone"},
		{ID: "sine:1000", Label: "1 kHz test tone"},
	}}, nil
}

func (s *server) Open(_ context.Context, in *capturerpc.OpenRequest) (*capturerpc.OpenResponse, error) {
	freq := float64(defaultToneHz)
	if strings.HasPrefix(in.DeviceID, "sine:") {
		parsed, err := strconv.ParseFloat(strings.TrimPrefix(in.DeviceID, "sine:"), 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("unknown device: %s", in.DeviceID)
		}
		freq = parsed
	} else if in.DeviceID != "" && in.DeviceID != "sine" {
		return nil, fmt.Errorf("unknown device: %s", in.DeviceID)
	}
	if in.SampleRate < 1 || in.FrameSize < 1 {
		return nil, fmt.Errorf("invalid stream parameters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	streamID := strconv.Itoa(s.nextID)
	s.streams[streamID] = &toneStream{freq: freq, sampleRate: in.SampleRate, frameSize: in.FrameSize}
	return &capturerpc.OpenResponse{StreamID: streamID}, nil
}

func (s *server) Read(_ context.Context, in *capturerpc.ReadRequest) (*capturerpc.ReadResponse, error) {
	s.mu.Lock()
	stream, ok := s.streams[in.StreamID]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown stream: %s", in.StreamID)
	}
	frame := make([]byte, stream.frameSize)
	step := 2 * math.Pi * stream.freq / float64(stream.sampleRate)
	for i := range frame {
		frame[i] = byte(128 + 127*math.Sin(float64(stream.phase+i)*step))
	}
	stream.phase += stream.frameSize
	return &capturerpc.ReadResponse{Samples: frame}, nil
}

func (s *server) Close(_ context.Context, in *capturerpc.CloseRequest) (*capturerpc.Empty, error) {
	s.mu.Lock()
	delete(s.streams, in.StreamID)
	s.mu.Unlock()
	return &capturerpc.Empty{}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: capturerpc.HandshakeConfig,
		Plugins:         capturerpc.PluginMap(&server{streams: map[string]*toneStream{}}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
