package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "assetboard.v1.AssetBoardService"

// Method names of AssetBoardService
const (
	MethodGetOverview       = "GetOverview"
	MethodGetDistribution   = "GetDistribution"
	MethodGetTrend          = "GetTrend"
	MethodGetSankey         = "GetSankey"
	MethodGetStats          = "GetStats"
	MethodGetReceivables    = "GetReceivables"
	MethodRecordTransaction = "RecordTransaction"
	MethodListTransactions  = "ListTransactions"
	MethodCaptureSnapshot   = "CaptureSnapshot"
)

// AssetBoardServiceServer is the server API for AssetBoardService.
// Requests and responses are google.protobuf.Struct messages carrying the
// same JSON documents the HTTP API serves.
type AssetBoardServiceServer interface {
	GetOverview(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDistribution(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTrend(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSankey(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReceivables(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordTransaction(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTransactions(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CaptureSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AssetBoardServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AssetBoardServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AssetBoardServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is the grpc.ServiceDesc for AssetBoardService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AssetBoardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodGetOverview, Handler: unaryHandler(MethodGetOverview, AssetBoardServiceServer.GetOverview)},
		{MethodName: MethodGetDistribution, Handler: unaryHandler(MethodGetDistribution, AssetBoardServiceServer.GetDistribution)},
		{MethodName: MethodGetTrend, Handler: unaryHandler(MethodGetTrend, AssetBoardServiceServer.GetTrend)},
		{MethodName: MethodGetSankey, Handler: unaryHandler(MethodGetSankey, AssetBoardServiceServer.GetSankey)},
		{MethodName: MethodGetStats, Handler: unaryHandler(MethodGetStats, AssetBoardServiceServer.GetStats)},
		{MethodName: MethodGetReceivables, Handler: unaryHandler(MethodGetReceivables, AssetBoardServiceServer.GetReceivables)},
		{MethodName: MethodRecordTransaction, Handler: unaryHandler(MethodRecordTransaction, AssetBoardServiceServer.RecordTransaction)},
		{MethodName: MethodListTransactions, Handler: unaryHandler(MethodListTransactions, AssetBoardServiceServer.ListTransactions)},
		{MethodName: MethodCaptureSnapshot, Handler: unaryHandler(MethodCaptureSnapshot, AssetBoardServiceServer.CaptureSnapshot)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "assetboard/v1/assetboard.proto",
}

// RegisterAssetBoardServiceServer registers srv on s
func RegisterAssetBoardServiceServer(s grpc.ServiceRegistrar, srv AssetBoardServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls AssetBoardService over an established connection
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a Client on cc
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req and returns the response document
func (c *Client) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
