package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meomeocoj/user-intent-classisifer/internal/domain/entity"
	"github.com/meomeocoj/user-intent-classisifer/internal/domain/repository"
	"github.com/meomeocoj/user-intent-classisifer/internal/infrastructure/metrics"
)

// Acceptance policy: simple is the only category cheap enough downstream
// to risk a false accept, so it alone can short-circuit the fallback, and
// only above this confidence bar. semantic and agent always escalate.
const (
	acceptRoute     = entity.RouteSimple
	acceptThreshold = 0.75
)

// ErrInvalidQuery is returned for queries that fail shape validation
var ErrInvalidQuery = errors.New("invalid query format")

// RouteUsecase defines the interface for the routing decision engine
type RouteUsecase interface {
	// Route runs one query through safety gate, primary classifier,
	// acceptance policy and fallback, producing the terminal decision.
	// It never returns an error: every failure mode is encoded in the
	// decision itself.
	Route(ctx context.Context, query string, history []entity.ConversationTurn) *entity.Decision
}

type routeUsecase struct {
	gate     *SafetyGate
	primary  *PrimaryClassifier
	fallback *FallbackClassifier
	repo     repository.DecisionRepository
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewRouteUsecase creates the decision orchestrator. repo may be nil to
// disable the audit log; m may be nil to disable metrics.
func NewRouteUsecase(
	gate *SafetyGate,
	primary *PrimaryClassifier,
	fallback *FallbackClassifier,
	repo repository.DecisionRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) RouteUsecase {
	return &routeUsecase{
		gate:     gate,
		primary:  primary,
		fallback: fallback,
		repo:     repo,
		metrics:  m,
		logger:   logger,
	}
}

func (u *routeUsecase) Route(ctx context.Context, query string, history []entity.ConversationTurn) *entity.Decision {
	traceID := uuid.New().String()
	start := time.Now()
	log := u.logger.With(zap.String("trace_id", traceID))

	// Received: validate shape before any stage runs. Errored decisions
	// carry no stage timings.
	if strings.TrimSpace(query) == "" {
		log.Warn("invalid query format")
		return u.finish(query, &entity.Decision{
			TraceID:    traceID,
			Route:      entity.RouteError,
			Confidence: 0.0,
			Err:        ErrInvalidQuery.Error(),
		})
	}

	// SafetyChecked: a vetoed query never reaches the classifier stage.
	if isSafe, confidence := u.gate.CheckQuery(ctx, query); !isSafe {
		log.Warn("query blocked by safety gate", zap.Float64("guard_confidence", confidence))
		if u.metrics != nil {
			u.metrics.BlockedTotal.Inc()
		}
		return u.finish(query, u.gate.BlockedDecision(traceID, true))
	}

	// PrimaryClassified: classifier failure is a request-level error, not
	// a fallback trigger.
	primaryStart := time.Now()
	route, confidence, err := u.primary.Classify(ctx, query, history)
	primaryMs := time.Since(primaryStart).Milliseconds()
	u.observeStage(entity.StagePrimary, time.Since(primaryStart))
	if err != nil {
		log.Error("primary classifier failed", zap.Error(err))
		return u.finish(query, &entity.Decision{
			TraceID:    traceID,
			Route:      entity.RouteError,
			Confidence: 0.0,
			Err:        err.Error(),
			Timings: entity.StageTimings{
				PrimaryMs: primaryMs,
				TotalMs:   time.Since(start).Milliseconds(),
			},
		})
	}

	log.Info("primary classification",
		zap.String("route", string(route)),
		zap.Float64("confidence", confidence),
	)

	if route == acceptRoute && confidence >= acceptThreshold {
		return u.finish(query, &entity.Decision{
			TraceID:    traceID,
			Route:      route,
			Confidence: confidence,
			Stage:      entity.StagePrimary,
			Timings: entity.StageTimings{
				PrimaryMs: primaryMs,
				TotalMs:   time.Since(start).Milliseconds(),
			},
		})
	}

	// FallbackInvoked: the fallback's route and confidence replace the
	// primary's entirely; the primary result was only policy input.
	log.Info("escalating to fallback classifier")
	fallbackStart := time.Now()
	result := u.fallback.Route(ctx, query, history)
	fallbackMs := time.Since(fallbackStart).Milliseconds()
	u.observeStage(entity.StageFallback, time.Since(fallbackStart))

	if result.Err != "" && u.metrics != nil {
		kind := "transport_error"
		if result.Err == "json_parse_error" {
			kind = "json_parse_error"
		}
		u.metrics.FallbackFailures.WithLabelValues(kind).Inc()
	}

	// The fallback backend supplies no score; the primary's confidence is
	// the default attributed to its result.
	fallbackConfidence := confidence
	if result.Confident {
		fallbackConfidence = result.Confidence
	}

	return u.finish(query, &entity.Decision{
		TraceID:    traceID,
		Route:      result.Route,
		Confidence: fallbackConfidence,
		Stage:      entity.StageFallback,
		Err:        result.Err,
		Raw:        result.Raw,
		Timings: entity.StageTimings{
			PrimaryMs:  primaryMs,
			FallbackMs: fallbackMs,
			TotalMs:    time.Since(start).Milliseconds(),
		},
	})
}

// finish records the terminal decision in metrics and the audit log
func (u *routeUsecase) finish(query string, d *entity.Decision) *entity.Decision {
	if u.metrics != nil {
		u.metrics.DecisionsTotal.WithLabelValues(string(d.Route), string(d.Stage)).Inc()
	}

	if u.repo != nil {
		record := entity.NewDecisionRecord(query, d)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := u.repo.Create(ctx, record); err != nil {
				u.logger.Warn("failed to persist decision record",
					zap.String("trace_id", d.TraceID),
					zap.Error(err),
				)
			}
		}()
	}

	return d
}

func (u *routeUsecase) observeStage(stage entity.Stage, elapsed time.Duration) {
	if u.metrics != nil {
		u.metrics.StageDuration.WithLabelValues(string(stage)).Observe(elapsed.Seconds())
	}
}
