package annotator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"study-notes/internal/domain/entity"
	"study-notes/internal/resilience/circuitbreaker"
	"study-notes/internal/resilience/retry"
)

var (
	clientRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "annotator_client_requests_total",
			Help: "Total number of remote annotator requests",
		},
		[]string{"status"},
	)

	clientRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "annotator_client_request_duration_seconds",
			Help:    "Remote annotator request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)
)

var (
	// ErrUnavailable indicates the annotator service cannot be reached.
	ErrUnavailable = errors.New("annotator service unavailable")

	// ErrRejected indicates the service refused the input.
	ErrRejected = errors.New("annotator rejected input")

	// ErrTimeout indicates the call exceeded its deadline.
	ErrTimeout = errors.New("annotator call timed out")
)

// ClientConfig configures the remote annotator client.
type ClientConfig struct {
	Address        string
	ConnectTimeout time.Duration
	CallTimeout    time.Duration
}

// ClientOption customizes a GRPCClient.
type ClientOption func(*GRPCClient)

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) ClientOption {
	return func(c *GRPCClient) { c.retryConfig = cfg }
}

// WithCircuitBreaker overrides the circuit breaker.
func WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) ClientOption {
	return func(c *GRPCClient) { c.circuitBreaker = cb }
}

// WithCallTimeout bounds each attempt.
func WithCallTimeout(d time.Duration) ClientOption {
	return func(c *GRPCClient) { c.callTimeout = d }
}

// WithClientLogger sets the logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(c *GRPCClient) { c.logger = l }
}

// GRPCClient annotates text by calling a remote annotator service.
type GRPCClient struct {
	conn           *grpc.ClientConn
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	callTimeout    time.Duration
	logger         *slog.Logger
}

// Dial connects to the annotator service and waits until the connection is
// ready or cfg.ConnectTimeout elapses.
func Dial(ctx context.Context, cfg ClientConfig, opts ...ClientOption) (*GRPCClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("annotator address is required")
	}

	conn, err := grpc.NewClient(cfg.Address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	conn.Connect()

	if cfg.ConnectTimeout > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
		if !waitForConnection(waitCtx, conn) {
			if closeErr := conn.Close(); closeErr != nil {
				slog.Error("failed to close gRPC connection", slog.Any("error", closeErr))
			}
			return nil, fmt.Errorf("%w: connection to %s timed out", ErrUnavailable, cfg.Address)
		}
	}

	if cfg.CallTimeout > 0 {
		opts = append([]ClientOption{WithCallTimeout(cfg.CallTimeout)}, opts...)
	}
	return NewGRPCClient(conn, opts...), nil
}

// NewGRPCClient wraps an existing connection. The client owns conn.
func NewGRPCClient(conn *grpc.ClientConn, opts ...ClientOption) *GRPCClient {
	c := &GRPCClient{
		conn:           conn,
		circuitBreaker: circuitbreaker.New(circuitbreaker.AnnotatorConfig()),
		retryConfig:    retry.AnnotatorConfig(),
		callTimeout:    30 * time.Second,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Annotate sends text to the remote annotator.
func (c *GRPCClient) Annotate(ctx context.Context, text string) (*entity.Document, error) {
	start := time.Now()
	defer func() {
		clientRequestDuration.Observe(time.Since(start).Seconds())
	}()

	var doc *entity.Document
	err := retry.WithBackoff(ctx, c.retryConfig, func() error {
		var callErr error
		doc, callErr = circuitbreaker.Run(c.circuitBreaker, func() (*entity.Document, error) {
			return c.invoke(ctx, text)
		})
		return callErr
	})

	if err != nil {
		outcome := "error"
		if errors.Is(err, circuitbreaker.ErrOpen) {
			outcome = "circuit_breaker_open"
		}
		clientRequestsTotal.WithLabelValues(outcome).Inc()
		c.logger.WarnContext(ctx, "remote annotation failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("remote annotate: %w", err)
	}

	clientRequestsTotal.WithLabelValues("success").Inc()
	return doc, nil
}

// Close releases the connection.
func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *GRPCClient) invoke(ctx context.Context, text string) (*entity.Document, error) {
	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	req, err := textRequest(text)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, annotateMethod, req, resp); err != nil {
		return nil, mapGRPCError(err)
	}

	doc, err := structToDocument(resp)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document from annotator: %w", err)
	}
	return doc, nil
}

// mapGRPCError keeps the status in the chain so retry.IsRetryable can
// classify it.
func mapGRPCError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	switch st.Code() {
	case codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrTimeout, st.Message())
	case codes.Unavailable, codes.ResourceExhausted:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("annotator service error: %s", st.Message())
	}
}

func waitForConnection(ctx context.Context, conn *grpc.ClientConn) bool {
	for {
		state := conn.GetState()
		if state == connectivity.Ready {
			return true
		}
		if !conn.WaitForStateChange(ctx, state) {
			return false
		}
	}
}
