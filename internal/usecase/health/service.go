package health

import (
	"context"
	"time"
)

// Status is the aggregated health status.
type Status string

const (
	// Healthy: every configured component answers.
	Healthy Status = "ok"
	// Degraded: an optional store is down; predictions still work.
	Degraded Status = "degraded"
	// Unhealthy: models are unavailable, predictions fail.
	Unhealthy Status = "error"
)

// CheckResult is one component's outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Component names as reported in Report.Checks.
const (
	ComponentModels   = "models"
	ComponentSessions = "sessions"
	ComponentRecorder = "recorder"
)

const checkTimeout = 2 * time.Second

// Report aggregates check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type component struct {
	name     string
	critical bool
	check    func(ctx context.Context) error
}

// Service checks the models and whichever stores are configured.
type Service struct {
	components []component
}

// New creates a Service. models is required; sessions may be nil (not configured).
func New(sessions Pinger, models ModelChecker) *Service {
	s := &Service{}
	s.components = append(s.components, component{
		name: ComponentModels, critical: true, check: models.HealthCheck,
	})
	if sessions != nil {
		s.components = append(s.components, component{name: ComponentSessions, check: sessions.Ping})
	}
	return s
}

// WithRecorder adds the prediction recorder as an optional component.
func (s *Service) WithRecorder(p Pinger) *Service {
	if p != nil {
		s.components = append(s.components, component{name: ComponentRecorder, check: p.Ping})
	}
	return s
}

// Check runs every component check with a short timeout each.
// A failing critical component makes the report Unhealthy; any other failure Degraded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.components))
	status := Healthy

	for _, c := range s.components {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.check(cctx)
		cancel()

		if err == nil {
			checks[c.name] = CheckOK
			continue
		}
		checks[c.name] = CheckError
		if c.critical {
			status = Unhealthy
		} else if status == Healthy {
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}
