package proto

import (
	"context"

	"google.golang.org/grpc"
)

type localClient struct {
	srv CoordinatorServiceServer
}

// NewLocalCoordinatorServiceClient calls srv directly. Requests and responses
// are still copied through their wire encoding, so caller and server never
// share message memory.
func NewLocalCoordinatorServiceClient(srv CoordinatorServiceServer) CoordinatorServiceClient {
	return &localClient{srv: srv}
}

func (c *localClient) RegisterWorker(ctx context.Context, in *RegisterWorkerRequest, _ ...grpc.CallOption) (*RegisterWorkerResponse, error) {
	req := new(RegisterWorkerRequest)
	if err := Transfer(in, req); err != nil {
		return nil, err
	}
	resp, err := c.srv.RegisterWorker(ctx, req)
	if err != nil {
		return nil, err
	}
	out := new(RegisterWorkerResponse)
	return out, Transfer(resp, out)
}

func (c *localClient) FetchFragment(ctx context.Context, in *FetchFragmentRequest, _ ...grpc.CallOption) (*FetchFragmentResponse, error) {
	req := new(FetchFragmentRequest)
	if err := Transfer(in, req); err != nil {
		return nil, err
	}
	resp, err := c.srv.FetchFragment(ctx, req)
	if err != nil {
		return nil, err
	}
	out := new(FetchFragmentResponse)
	return out, Transfer(resp, out)
}

func (c *localClient) ReportCounts(ctx context.Context, in *ReportCountsRequest, _ ...grpc.CallOption) (*ReportCountsResponse, error) {
	req := new(ReportCountsRequest)
	if err := Transfer(in, req); err != nil {
		return nil, err
	}
	resp, err := c.srv.ReportCounts(ctx, req)
	if err != nil {
		return nil, err
	}
	out := new(ReportCountsResponse)
	return out, Transfer(resp, out)
}
