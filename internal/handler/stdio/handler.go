package stdio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"study-notes/internal/domain/entity"
	"study-notes/internal/observability/logging"
	"study-notes/internal/usecase/notes"
)

// Processor runs one notes request.
type Processor interface {
	Process(ctx context.Context, text, mode string) notes.Result
}

// Handler serves a request stream with a Processor.
type Handler struct {
	proc   Processor
	codec  Codec
	logger *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(proc Processor, codec Codec, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{proc: proc, codec: codec, logger: logger}
}

// Serve answers every request in r, in order, until end of input.
// It returns the number of requests answered. A request that cannot be
// decoded is answered with an input_error failure and ends the stream,
// since the decoder cannot resynchronize. An empty mode defaults to brief.
func (h *Handler) Serve(ctx context.Context, r io.Reader, w io.Writer) (int, error) {
	dec := h.codec.NewDecoder(r)
	enc := h.codec.NewEncoder(w)

	served := 0
	for {
		if err := ctx.Err(); err != nil {
			return served, err
		}

		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return served, nil
			}
			decodeErr := entity.NewInputError("decode request", err)
			if encErr := h.write(enc, notes.NewFailure("", decodeErr)); encErr != nil {
				return served, encErr
			}
			return served + 1, fmt.Errorf("decode %s request: %w", h.codec.Name(), err)
		}

		if strings.TrimSpace(req.Mode) == "" {
			req.Mode = string(entity.ModeBrief)
		}

		reqCtx := logging.ContextWithRequestID(ctx, logging.NewRequestID())
		result := h.proc.Process(reqCtx, req.Text, req.Mode)
		if err := h.write(enc, result); err != nil {
			return served, err
		}
		served++

		h.logger.DebugContext(reqCtx, "request served",
			slog.String("request_id", logging.RequestIDFromContext(reqCtx)),
			slog.String("format", h.codec.Name()),
			slog.Bool("success", result.Succeeded()))
	}
}

// ServeOne answers a single request given directly, e.g. from flags.
func (h *Handler) ServeOne(ctx context.Context, req Request, w io.Writer) (notes.Result, error) {
	result := h.proc.Process(ctx, req.Text, req.Mode)
	return result, h.write(h.codec.NewEncoder(w), result)
}

// ServeError answers with the failure for err, for input that could not be
// loaded before reaching the pipeline.
func (h *Handler) ServeError(mode string, err error, w io.Writer) (notes.Result, error) {
	result := notes.NewFailure(mode, err)
	return result, h.write(h.codec.NewEncoder(w), result)
}

func (h *Handler) write(enc Encoder, result notes.Result) error {
	if f, ok := result.(*notes.Failure); ok {
		f.Error = Sanitize(f.Error)
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode %s result: %w", h.codec.Name(), err)
	}
	return nil
}
