package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/benvon/tle-advisor/internal/curated"
	logpkg "github.com/benvon/tle-advisor/internal/logger"
	"github.com/benvon/tle-advisor/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SubmissionFetcher returns the distinct problems a handle has solved
type SubmissionFetcher interface {
	SolvedProblems(ctx context.Context, handle string) ([]models.Problem, error)
}

// Service runs the analysis pipeline for one handle: fetch, aggregate, suggest
type Service struct {
	fetcher       SubmissionFetcher
	catalog       *curated.Catalog
	weakThreshold int
	perTag        int
	logger        *zap.Logger
	tracer        trace.Tracer
}

// Option configures a Service
type Option func(*Service)

// WithWeakThreshold overrides DefaultWeakThreshold
func WithWeakThreshold(threshold int) Option {
	return func(s *Service) {
		if threshold > 0 {
			s.weakThreshold = threshold
		}
	}
}

// WithSuggestionsPerTag overrides curated.DefaultSuggestionsPerTag
func WithSuggestionsPerTag(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.perTag = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates an analysis service
func NewService(fetcher SubmissionFetcher, catalog *curated.Catalog, opts ...Option) *Service {
	s := &Service{
		fetcher:       fetcher,
		catalog:       catalog,
		weakThreshold: DefaultWeakThreshold,
		perTag:        curated.DefaultSuggestionsPerTag,
		logger:        zap.NewNop(),
		tracer:        otel.Tracer("github.com/benvon/tle-advisor/internal/services/analysis"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze fetches the solved problems of handle and returns tag statistics, weak topics and
// curated suggestions. A fetch failure is returned as is and no partial result is produced.
func (s *Service) Analyze(ctx context.Context, handle string) (*models.AnalysisResult, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.Analyze")
	defer span.End()

	start := time.Now()
	problems, err := s.fetcher.SolvedProblems(ctx, handle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		s.logger.Warn("upstream_fetch_failed",
			zap.String("handle", logpkg.SanitizeHandle(handle)),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}

	stats := AnalyzePerformance(problems, s.weakThreshold)
	suggestions := s.catalog.Suggest(stats.WeakTopics, s.perTag)

	span.SetAttributes(
		attribute.Int("analysis.solved", len(problems)),
		attribute.Int("analysis.tags", stats.TagStats.Len()),
		attribute.Int("analysis.weak_topics", len(stats.WeakTopics)),
	)
	s.logger.Info("analysis_completed",
		zap.String("handle", logpkg.SanitizeHandle(handle)),
		zap.Int("solved", len(problems)),
		zap.Int("tags", stats.TagStats.Len()),
		zap.Int("weak_topics", len(stats.WeakTopics)),
		zap.Int("suggestion_groups", len(suggestions)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return &models.AnalysisResult{
		Handle:      handle,
		Stats:       stats,
		Suggestions: suggestions,
	}, nil
}
