package annotator

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"study-notes/internal/domain/entity"
	"study-notes/internal/resilience/circuitbreaker"
	"study-notes/internal/resilience/retry"
)

const bufSize = 1024 * 1024

type mockAnnotator struct {
	annotateFn func(ctx context.Context, text string) (*entity.Document, error)
	calls      atomic.Int32
}

func (m *mockAnnotator) Annotate(ctx context.Context, text string) (*entity.Document, error) {
	m.calls.Add(1)
	if m.annotateFn != nil {
		return m.annotateFn(ctx, text)
	}
	return &entity.Document{Sentences: []entity.Sentence{{
		Text:     text,
		Tokens:   []entity.Token{{Text: "Gravity", POS: entity.PosNoun, Span: entity.Span{Start: 0, End: 7}}},
		Entities: []entity.Entity{{Text: "Gravity", Label: entity.LabelTech, Span: entity.Span{Start: 0, End: 7}}},
	}}}, nil
}

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

// setupTestServer serves a over bufconn and returns a client connected to it.
func setupTestServer(t *testing.T, a Annotator, opts ...ClientOption) *GRPCClient {
	t.Helper()
	lis := bufconn.Listen(bufSize)

	gs := grpc.NewServer()
	NewServer(a, 50, nil).Register(gs)
	go func() {
		_ = gs.Serve(lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	opts = append([]ClientOption{WithRetryConfig(fastRetry())}, opts...)
	client := NewGRPCClient(conn, opts...)
	t.Cleanup(func() {
		_ = client.Close()
		gs.Stop()
	})
	return client
}

func TestGRPC_RoundTrip(t *testing.T) {
	mock := &mockAnnotator{}
	client := setupTestServer(t, mock)

	doc, err := client.Annotate(context.Background(), "Gravity pulls.")
	require.NoError(t, err)
	require.Len(t, doc.Sentences, 1)

	s := doc.Sentences[0]
	assert.Equal(t, "Gravity pulls.", s.Text)
	assert.Equal(t, entity.Token{Text: "Gravity", POS: entity.PosNoun, Span: entity.Span{Start: 0, End: 7}}, s.Tokens[0])
	assert.Equal(t, entity.LabelTech, s.Entities[0].Label)
	assert.Equal(t, int32(1), mock.calls.Load())
}

func TestGRPC_ProseRoundTrip(t *testing.T) {
	client := setupTestServer(t, NewProse(nil))
	text := "Marie Curie studied radioactivity. She won two prizes."

	remote, err := client.Annotate(context.Background(), text)
	require.NoError(t, err)
	local, err := NewProse(nil).Annotate(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, local, remote)
}

func TestGRPC_InvalidInputNotRetried(t *testing.T) {
	mock := &mockAnnotator{}
	client := setupTestServer(t, mock)

	_, err := client.Annotate(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Equal(t, int32(0), mock.calls.Load())
}

func TestGRPC_TooLongRejected(t *testing.T) {
	mock := &mockAnnotator{}
	client := setupTestServer(t, mock)

	long := ""
	for i := 0; i < 60; i++ {
		long += "word "
	}
	_, err := client.Annotate(context.Background(), long)
	assert.ErrorIs(t, err, ErrRejected)
}

func TestGRPC_UnavailableRetried(t *testing.T) {
	mock := &mockAnnotator{}
	mock.annotateFn = func(_ context.Context, text string) (*entity.Document, error) {
		if mock.calls.Load() == 1 {
			return nil, status.Error(codes.Unavailable, "warming up")
		}
		return &entity.Document{Sentences: []entity.Sentence{{Text: text}}}, nil
	}
	client := setupTestServer(t, mock)

	doc, err := client.Annotate(context.Background(), "Retry me.")
	require.NoError(t, err)
	assert.Equal(t, "Retry me.", doc.Sentences[0].Text)
	assert.Equal(t, int32(2), mock.calls.Load())
}

func TestGRPC_InternalError(t *testing.T) {
	mock := &mockAnnotator{annotateFn: func(context.Context, string) (*entity.Document, error) {
		return nil, errors.New("model not loaded")
	}}
	client := setupTestServer(t, mock)

	_, err := client.Annotate(context.Background(), "Anything.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
	assert.Equal(t, int32(1), mock.calls.Load())
}

func TestGRPC_InvalidDocumentRejected(t *testing.T) {
	mock := &mockAnnotator{annotateFn: func(_ context.Context, text string) (*entity.Document, error) {
		return &entity.Document{Sentences: []entity.Sentence{{
			Text:   text,
			Tokens: []entity.Token{{Text: "x", Span: entity.Span{Start: 0, End: 999}}},
		}}}, nil
	}}
	client := setupTestServer(t, mock)

	_, err := client.Annotate(context.Background(), "Short.")
	var vErr *entity.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestGRPC_CircuitBreakerOpen(t *testing.T) {
	mock := &mockAnnotator{annotateFn: func(context.Context, string) (*entity.Document, error) {
		return nil, status.Error(codes.Unavailable, "down")
	}}
	cfg := circuitbreaker.AnnotatorConfig()
	cfg.Name = "annotator-test-open"
	cfg.MinRequests = 1
	cfg.Timeout = time.Minute
	client := setupTestServer(t, mock, WithCircuitBreaker(circuitbreaker.New(cfg)))

	_, err := client.Annotate(context.Background(), "First.")
	require.Error(t, err)
	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, int32(1), mock.calls.Load())
}

func TestMapGRPCError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      error
		retryable bool
	}{
		{name: "unavailable", err: status.Error(codes.Unavailable, "x"), want: ErrUnavailable, retryable: true},
		{name: "exhausted", err: status.Error(codes.ResourceExhausted, "x"), want: ErrUnavailable, retryable: true},
		{name: "deadline", err: status.Error(codes.DeadlineExceeded, "x"), want: ErrTimeout},
		{name: "invalid", err: status.Error(codes.InvalidArgument, "x"), want: ErrRejected},
		{name: "plain", err: errors.New("x"), want: ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapGRPCError(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.Equal(t, tt.retryable, retry.IsRetryable(got))
		})
	}
}

func TestDial_RequiresAddress(t *testing.T) {
	_, err := Dial(context.Background(), ClientConfig{})
	assert.Error(t, err)
}
