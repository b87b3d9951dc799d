package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "soundcheck"
	serviceName       = "soundcheck.capture.v1.CaptureSource"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodListDevices = "/" + serviceName + "/ListDevices"
	methodOpen        = "/" + serviceName + "/Open"
	methodRead        = "/" + serviceName + "/Read"
	methodClose       = "/" + serviceName + "/Close"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SOUNDCHECK_PLUGIN",
	MagicCookieValue: "soundcheck",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type Device struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type ListDevicesResponse struct {
	Devices []Device `json:"devices"`
}

type OpenRequest struct {
	DeviceID   string `json:"device_id"`
	SampleRate int    `json:"sample_rate"`
	FrameSize  int    `json:"frame_size"`
}

type OpenResponse struct {
	StreamID string `json:"stream_id"`
}

type ReadRequest struct {
	StreamID string `json:"stream_id"`
}

type ReadResponse struct {
	Samples []byte `json:"samples"`
}

type CloseRequest struct {
	StreamID string `json:"stream_id"`
}

type CaptureSourceServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	ListDevices(ctx context.Context, in *Empty) (*ListDevicesResponse, error)
	Open(ctx context.Context, in *OpenRequest) (*OpenResponse, error)
	Read(ctx context.Context, in *ReadRequest) (*ReadResponse, error)
	Close(ctx context.Context, in *CloseRequest) (*Empty, error)
}

type CaptureSourceClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	ListDevices(ctx context.Context) (*ListDevicesResponse, error)
	Open(ctx context.Context, in *OpenRequest) (*OpenResponse, error)
	Read(ctx context.Context, in *ReadRequest) (*ReadResponse, error)
	Close(ctx context.Context, in *CloseRequest) error
}

type captureSourceClient struct {
	conn *grpc.ClientConn
}

func NewCaptureSourceClient(conn *grpc.ClientConn) CaptureSourceClient {
	return &captureSourceClient{conn: conn}
}

func (c *captureSourceClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *captureSourceClient) ListDevices(ctx context.Context) (*ListDevicesResponse, error) {
	out := &ListDevicesResponse{}
	if err := c.conn.Invoke(ctx, methodListDevices, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *captureSourceClient) Open(ctx context.Context, in *OpenRequest) (*OpenResponse, error) {
	out := &OpenResponse{}
	if err := c.conn.Invoke(ctx, methodOpen, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *captureSourceClient) Read(ctx context.Context, in *ReadRequest) (*ReadResponse, error) {
	out := &ReadResponse{}
	if err := c.conn.Invoke(ctx, methodRead, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *captureSourceClient) Close(ctx context.Context, in *CloseRequest) error {
	return c.conn.Invoke(ctx, methodClose, in, &Empty{}, grpc.CallContentSubtype(jsonCodecName))
}

func unaryHandler[Req any](method string, call func(context.Context, *Req) (any, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*Req)
			if !ok {
				return nil, fmt.Errorf("invalid request type")
			}
			return call(ctx, typed)
		}
		return interceptor(ctx, in, info, handler)
	}
}

func RegisterCaptureSourceServer(server grpc.ServiceRegistrar, impl CaptureSourceServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*CaptureSourceServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: unaryHandler[Empty](methodGetMetadata, func(ctx context.Context, in *Empty) (any, error) {
					return impl.GetMetadata(ctx, in)
				}),
			},
			{
				MethodName: "ListDevices",
				Handler: unaryHandler[Empty](methodListDevices, func(ctx context.Context, in *Empty) (any, error) {
					return impl.ListDevices(ctx, in)
				}),
			},
			{
				MethodName: "Open",
				Handler: unaryHandler[OpenRequest](methodOpen, func(ctx context.Context, in *OpenRequest) (any, error) {
					return impl.Open(ctx, in)
				}),
			},
			{
				MethodName: "Read",
				Handler: unaryHandler[ReadRequest](methodRead, func(ctx context.Context, in *ReadRequest) (any, error) {
					return impl.Read(ctx, in)
				}),
			},
			{
				MethodName: "Close",
				Handler: unaryHandler[CloseRequest](methodClose, func(ctx context.Context, in *CloseRequest) (any, error) {
					return impl.Close(ctx, in)
				}),
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/capture-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl CaptureSourceServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterCaptureSourceServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewCaptureSourceClient(conn), nil
}

func PluginMap(impl CaptureSourceServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
