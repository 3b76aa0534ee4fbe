package annotator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"study-notes/internal/domain/entity"
)

// Annotator is the capability served over gRPC.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*entity.Document, error)
}

type annotatorServer interface {
	Annotate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*annotatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Annotate", Handler: annotateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "studynotes/annotator/v1/annotator.proto",
}

func annotateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(annotatorServer).Annotate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: annotateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(annotatorServer).Annotate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// Server exposes an Annotator over gRPC.
type Server struct {
	annotator Annotator
	maxWords  int
	logger    *slog.Logger
}

// NewServer creates a Server. maxWords <= 0 disables the input length check.
func NewServer(a Annotator, maxWords int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{annotator: a, maxWords: maxWords, logger: logger}
}

// Register attaches the service to a gRPC server.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&serviceDesc, s)
}

// Annotate handles the unary Annotate call.
func (s *Server) Annotate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	start := time.Now()
	text := requestText(req)

	if err := entity.ValidateText(text, s.maxWords); err != nil {
		s.logger.Warn("annotate request rejected", slog.String("error", err.Error()))
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	doc, err := s.annotator.Annotate(ctx, text)
	if err != nil {
		s.logger.Error("annotation failed",
			slog.Int("input_length", len(text)),
			slog.String("error", err.Error()))
		if _, ok := status.FromError(err); ok {
			return nil, err
		}
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return nil, status.Error(codes.DeadlineExceeded, err.Error())
		case errors.Is(err, context.Canceled):
			return nil, status.Error(codes.Canceled, err.Error())
		default:
			return nil, status.Errorf(codes.Internal, "annotate: %v", err)
		}
	}

	resp, err := documentToStruct(doc)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode document: %v", err)
	}

	s.logger.Info("annotate request completed",
		slog.Int("words", len(strings.Fields(text))),
		slog.Int("sentences", len(doc.Sentences)),
		slog.Duration("duration", time.Since(start)))
	return resp, nil
}
