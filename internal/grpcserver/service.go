package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "fresherjobs.v1.Marketplace"

const (
	methodListJobs             = "/" + ServiceName + "/ListJobs"
	methodSetApplicationStatus = "/" + ServiceName + "/SetApplicationStatus"
	methodApproveRecruiter     = "/" + ServiceName + "/ApproveRecruiter"
)

// MarketplaceServer is the server API. Messages are protobuf well-known types
// so no generated code is needed on either side.
type MarketplaceServer interface {
	// ListJobs returns {"jobs": [...]} with the publicly listable jobs.
	ListJobs(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	// SetApplicationStatus takes {"applicationId", "status"} and returns the application.
	SetApplicationStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// ApproveRecruiter takes the recruiter id and returns the approved actor.
	ApproveRecruiter(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// ServiceDesc describes the Marketplace service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MarketplaceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListJobs", Handler: listJobsHandler},
		{MethodName: "SetApplicationStatus", Handler: setApplicationStatusHandler},
		{MethodName: "ApproveRecruiter", Handler: approveRecruiterHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fresherjobs/v1/marketplace.proto",
}

// RegisterMarketplaceServer registers srv on s.
func RegisterMarketplaceServer(s grpc.ServiceRegistrar, srv MarketplaceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func listJobsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServer).ListJobs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodListJobs}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServer).ListJobs(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func setApplicationStatusHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServer).SetApplicationStatus(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodSetApplicationStatus}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServer).SetApplicationStatus(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func approveRecruiterHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketplaceServer).ApproveRecruiter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodApproveRecruiter}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MarketplaceServer).ApproveRecruiter(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// MarketplaceClient is a thin client for the Marketplace service.
type MarketplaceClient struct {
	cc grpc.ClientConnInterface
}

// NewMarketplaceClient returns a client over cc.
func NewMarketplaceClient(cc grpc.ClientConnInterface) *MarketplaceClient {
	return &MarketplaceClient{cc: cc}
}

func (c *MarketplaceClient) ListJobs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodListJobs, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) SetApplicationStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodSetApplicationStatus, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) ApproveRecruiter(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodApproveRecruiter, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
