package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	CoordinatorServiceName = "logscan.v1.CoordinatorService"

	CoordinatorService_RegisterWorker_FullMethodName = "/logscan.v1.CoordinatorService/RegisterWorker"
	CoordinatorService_FetchFragment_FullMethodName  = "/logscan.v1.CoordinatorService/FetchFragment"
	CoordinatorService_ReportCounts_FullMethodName   = "/logscan.v1.CoordinatorService/ReportCounts"
)

type CoordinatorServiceClient interface {
	RegisterWorker(ctx context.Context, in *RegisterWorkerRequest, opts ...grpc.CallOption) (*RegisterWorkerResponse, error)
	FetchFragment(ctx context.Context, in *FetchFragmentRequest, opts ...grpc.CallOption) (*FetchFragmentResponse, error)
	ReportCounts(ctx context.Context, in *ReportCountsRequest, opts ...grpc.CallOption) (*ReportCountsResponse, error)
}

type coordinatorServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCoordinatorServiceClient(cc grpc.ClientConnInterface) CoordinatorServiceClient {
	return &coordinatorServiceClient{cc: cc}
}

func (c *coordinatorServiceClient) RegisterWorker(ctx context.Context, in *RegisterWorkerRequest, opts ...grpc.CallOption) (*RegisterWorkerResponse, error) {
	out := new(RegisterWorkerResponse)
	if err := c.cc.Invoke(ctx, CoordinatorService_RegisterWorker_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coordinatorServiceClient) FetchFragment(ctx context.Context, in *FetchFragmentRequest, opts ...grpc.CallOption) (*FetchFragmentResponse, error) {
	out := new(FetchFragmentResponse)
	if err := c.cc.Invoke(ctx, CoordinatorService_FetchFragment_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *coordinatorServiceClient) ReportCounts(ctx context.Context, in *ReportCountsRequest, opts ...grpc.CallOption) (*ReportCountsResponse, error) {
	out := new(ReportCountsResponse)
	if err := c.cc.Invoke(ctx, CoordinatorService_ReportCounts_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

// CoordinatorServiceServer is implemented by the coordinator.
type CoordinatorServiceServer interface {
	RegisterWorker(context.Context, *RegisterWorkerRequest) (*RegisterWorkerResponse, error)
	FetchFragment(context.Context, *FetchFragmentRequest) (*FetchFragmentResponse, error)
	ReportCounts(context.Context, *ReportCountsRequest) (*ReportCountsResponse, error)
}

type UnimplementedCoordinatorServiceServer struct{}

func (UnimplementedCoordinatorServiceServer) RegisterWorker(context.Context, *RegisterWorkerRequest) (*RegisterWorkerResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RegisterWorker not implemented")
}

func (UnimplementedCoordinatorServiceServer) FetchFragment(context.Context, *FetchFragmentRequest) (*FetchFragmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method FetchFragment not implemented")
}

func (UnimplementedCoordinatorServiceServer) ReportCounts(context.Context, *ReportCountsRequest) (*ReportCountsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReportCounts not implemented")
}

func RegisterCoordinatorServiceServer(s grpc.ServiceRegistrar, srv CoordinatorServiceServer) {
	s.RegisterService(&CoordinatorService_ServiceDesc, srv)
}

func _CoordinatorService_RegisterWorker_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RegisterWorkerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServiceServer).RegisterWorker(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoordinatorService_RegisterWorker_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CoordinatorServiceServer).RegisterWorker(ctx, req.(*RegisterWorkerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CoordinatorService_FetchFragment_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FetchFragmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServiceServer).FetchFragment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoordinatorService_FetchFragment_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CoordinatorServiceServer).FetchFragment(ctx, req.(*FetchFragmentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _CoordinatorService_ReportCounts_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ReportCountsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CoordinatorServiceServer).ReportCounts(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CoordinatorService_ReportCounts_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CoordinatorServiceServer).ReportCounts(ctx, req.(*ReportCountsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// CoordinatorService_ServiceDesc mirrors the service in api/proto/logscan.proto.
var CoordinatorService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CoordinatorServiceName,
	HandlerType: (*CoordinatorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterWorker",
			Handler:    _CoordinatorService_RegisterWorker_Handler,
		},
		{
			MethodName: "FetchFragment",
			Handler:    _CoordinatorService_FetchFragment_Handler,
		},
		{
			MethodName: "ReportCounts",
			Handler:    _CoordinatorService_ReportCounts_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/proto/logscan.proto",
}
