package ai

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/citizenconnect/gujarat-guide/backend/internal/service/ai"

// Reply is the outcome of one question. Content is always displayable; when
// the model failed it holds FallbackAnswer and Notice explains the error.
type Reply struct {
	Content string `json:"content"`
	Notice  string `json:"notice,omitempty"`
	Err     error  `json:"-"`
}

// Failed reports whether the reply is the fallback text.
func (r Reply) Failed() bool {
	return r.Err != nil
}

// Service turns citizen questions into model answers.
type Service struct {
	client   ModelClient
	provider string
	logger   *zap.Logger
	tracer   trace.Tracer

	asks     metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

// NewService wraps client. Metrics and spans go to the global OpenTelemetry
// providers.
func NewService(client ModelClient, provider string, logger *zap.Logger) (*Service, error) {
	if client == nil {
		return nil, fmt.Errorf("model client is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	meter := otel.Meter(instrumentationName)
	asks, err := meter.Int64Counter("guide.ask.count", metric.WithDescription("Questions sent to the model"))
	if err != nil {
		return nil, fmt.Errorf("failed to create ask counter: %w", err)
	}
	failures, err := meter.Int64Counter("guide.ask.failures", metric.WithDescription("Questions answered with the fallback text"))
	if err != nil {
		return nil, fmt.Errorf("failed to create failure counter: %w", err)
	}
	duration, err := meter.Float64Histogram("guide.ask.duration", metric.WithUnit("s"), metric.WithDescription("Model call latency"))
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Service{
		client:   client,
		provider: provider,
		logger:   logger.Named("ai"),
		tracer:   otel.Tracer(instrumentationName),
		asks:     asks,
		failures: failures,
		duration: duration,
	}, nil
}

// Ask sends question to the model. It never fails: errors are logged and
// converted into FallbackAnswer plus a notice.
func (s *Service) Ask(ctx context.Context, question string, temperature float64) Reply {
	attrs := metric.WithAttributes(attribute.String("provider", s.provider))

	ctx, span := s.tracer.Start(ctx, "guide.ask", trace.WithAttributes(
		attribute.String("provider", s.provider),
		attribute.Float64("temperature", temperature),
		attribute.Int("question.length", len(question)),
	))
	defer span.End()

	start := time.Now()
	text, err := s.client.Generate(ctx, BuildPrompt(question), GenerateOptions{Temperature: temperature})
	elapsed := time.Since(start)

	s.asks.Add(ctx, 1, attrs)
	s.duration.Record(ctx, elapsed.Seconds(), attrs)

	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		s.failures.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("model call failed",
			zap.String("provider", s.provider),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return Reply{Content: FallbackAnswer, Notice: Notice(err), Err: err}
	}

	s.logger.Info("generated response",
		zap.String("provider", s.provider),
		zap.Duration("elapsed", elapsed),
		zap.Int("length", len(text)))
	return Reply{Content: text}
}
