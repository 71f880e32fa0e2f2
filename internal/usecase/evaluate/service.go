package evaluate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/soilsense/internal/domain"
	"github.com/kailas-cloud/soilsense/internal/domain/environment"
	"github.com/kailas-cloud/soilsense/internal/domain/feature"
	"github.com/kailas-cloud/soilsense/internal/domain/prediction"
	"github.com/kailas-cloud/soilsense/internal/logger"
	"github.com/kailas-cloud/soilsense/internal/metrics"
	"github.com/kailas-cloud/soilsense/internal/usecase/acquire"
)

// Request is one form submission.
type Request struct {
	SessionID   string
	Soil        feature.Soil
	Environment acquire.Request
}

// Outcome carries the prediction together with the inputs that produced it.
type Outcome struct {
	Result      prediction.Result
	Features    feature.Vector
	Environment environment.Reading
}

// Service drives one interaction: acquire, assemble, predict, remember, record.
type Service struct {
	acquirer  Acquirer
	assembler Assembler
	predictor Predictor
	sessions  SessionStore
	recorder  Recorder
	now       func() time.Time
}

// New creates the evaluation service. sessions and recorder may be nil.
func New(
	acquirer Acquirer, assembler Assembler, predictor Predictor,
	sessions SessionStore, recorder Recorder,
) *Service {
	return &Service{
		acquirer:  acquirer,
		assembler: assembler,
		predictor: predictor,
		sessions:  sessions,
		recorder:  recorder,
		now:       time.Now,
	}
}

// WithClock overrides the record timestamp source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Evaluate resolves the environment, builds the feature vector and runs the predictor.
func (s *Service) Evaluate(ctx context.Context, req Request) (Outcome, error) {
	last := s.lastKnown(ctx, req.SessionID)

	env, err := s.resolve(ctx, req.SessionID, req.Environment, last)
	if err != nil {
		return Outcome{}, err
	}

	vec, err := s.assembler.Assemble(req.Soil, env, last)
	if err != nil {
		return Outcome{}, fmt.Errorf("assemble: %w", err)
	}

	res, err := s.predictor.Predict(ctx, vec)
	if err != nil {
		return Outcome{}, fmt.Errorf("predict: %w", err)
	}

	metrics.PredictionsTotal.WithLabelValues(res.Fertility().String()).Inc()
	if res.Fertility() == prediction.Fertile {
		metrics.CropRecommendationsTotal.WithLabelValues(res.Crop()).Inc()
	}

	s.record(ctx, prediction.Record{
		SessionID: req.SessionID,
		Source:    env.Source,
		Features:  vec,
		Result:    res,
		CreatedAt: s.now().UTC(),
	})

	return Outcome{Result: res, Features: vec, Environment: env.Merge(last)}, nil
}

// Environment acquires a reading and remembers its available values for the session.
func (s *Service) Environment(
	ctx context.Context, sessionID string, req acquire.Request,
) (environment.Reading, error) {
	return s.resolve(ctx, sessionID, req, s.lastKnown(ctx, sessionID))
}

func (s *Service) resolve(
	ctx context.Context, sessionID string, req acquire.Request, last environment.Reading,
) (environment.Reading, error) {
	env, err := s.acquirer.Acquire(ctx, req)
	if err != nil {
		return environment.Reading{}, fmt.Errorf("acquire environment: %w", err)
	}

	if s.sessions != nil && sessionID != "" && !env.Empty() {
		if err := s.sessions.Save(ctx, sessionID, env.Merge(last)); err != nil {
			logger.FromContext(ctx).Warn("Failed to save session reading",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return env, nil
}

// ClearSession forgets the session's last-known reading.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	if s.sessions == nil || sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Service) lastKnown(ctx context.Context, sessionID string) environment.Reading {
	if s.sessions == nil || sessionID == "" {
		return environment.Reading{}
	}
	r, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.FromContext(ctx).Warn("Failed to load session reading",
				zap.String("session_id", sessionID), zap.Error(err))
		}
		return environment.Reading{}
	}
	return r
}

func (s *Service) record(ctx context.Context, rec prediction.Record) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		logger.FromContext(ctx).Warn("Failed to record prediction", zap.Error(err))
	}
}
