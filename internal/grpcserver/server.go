// Package grpcserver implements the Marketplace gRPC server.
//
// It delegates all business logic to the engine services and handles
// only the gRPC transport concerns: metadata extraction, error mapping,
// and conversion between domain values and protobuf well-known types.
package grpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"fresherjobs/marketplace-service/internal/apperr"
	"fresherjobs/marketplace-service/internal/approval"
	"fresherjobs/marketplace-service/internal/identity"
	"fresherjobs/marketplace-service/internal/jobs"
	"fresherjobs/marketplace-service/internal/lifecycle"
	"fresherjobs/marketplace-service/internal/model"
)

// Server implements MarketplaceServer.
type Server struct {
	authn     identity.Authenticator
	jobs      *jobs.Service
	lifecycle *lifecycle.Service
	approval  *approval.Service
}

var _ MarketplaceServer = (*Server)(nil)

// NewServer constructs a gRPC Server backed by the given services.
func NewServer(authn identity.Authenticator, js *jobs.Service, ls *lifecycle.Service, as *approval.Service) *Server {
	return &Server{authn: authn, jobs: js, lifecycle: ls, approval: as}
}

// New builds a grpc.Server with the Marketplace and health services registered.
func New(srv *Server, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	gs := grpc.NewServer(opts...)
	RegisterMarketplaceServer(gs, srv)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(gs, hs)
	return gs, hs
}

// ─── RPC implementations ──────────────────────────────────────────────────────

// ListJobs returns the public job listing. No credential is needed.
func (s *Server) ListJobs(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	list, err := s.jobs.ListPublic(ctx, model.JobFilter{})
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(map[string]any{"jobs": list})
}

// SetApplicationStatus changes the status of an application the caller's job received.
func (s *Server) SetApplicationStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actor, err := s.actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	fields := req.GetFields()
	appID := fields["applicationId"].GetStringValue()
	if appID == "" {
		return nil, status.Error(codes.InvalidArgument, "applicationId is required")
	}
	app, err := s.lifecycle.SetStatus(ctx, actor, appID, fields["status"].GetStringValue())
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(app)
}

// ApproveRecruiter approves a recruiter account. Admin only.
func (s *Server) ApproveRecruiter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	actor, err := s.actorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if req.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "recruiter id is required")
	}
	a, err := s.approval.Approve(ctx, actor, req.GetValue())
	if err != nil {
		return nil, toGRPCError(err)
	}
	return toStruct(a)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// actorFromCtx authenticates the bearer token carried in the authorization
// metadata.
func (s *Server) actorFromCtx(ctx context.Context) (*identity.Actor, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md.Get("authorization")
	if len(vals) == 0 || vals[0] == "" {
		return nil, status.Error(codes.Unauthenticated, "missing authorization metadata")
	}
	scheme, token, ok := strings.Cut(vals[0], " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return nil, status.Error(codes.Unauthenticated, "authorization must be a Bearer token")
	}
	actor, err := s.authn.Authenticate(ctx, strings.TrimSpace(token))
	if err != nil {
		return nil, toGRPCError(err)
	}
	return actor, nil
}

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return status.Error(codes.InvalidArgument, ve.Msg)
	}
	var fe *apperr.ForbiddenError
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.As(err, &fe):
		return status.Error(codes.PermissionDenied, fe.Reason)
	case errors.Is(err, apperr.ErrForbidden):
		return status.Error(codes.PermissionDenied, "forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, apperr.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, apperr.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, err.Error())
	}
	slog.Error("grpc call failed", "err", err)
	return status.Error(codes.Internal, "internal server error")
}

// toStruct converts any JSON-encodable value into a protobuf Struct, using the
// same field names as the REST API.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}
