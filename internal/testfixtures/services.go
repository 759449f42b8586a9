package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/recruitd/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// ActivityLog constructs an activity log with the factory's clock and IDs.
func (f *ServiceFactory) ActivityLog(entries application.ActivityRepository, logger *slog.Logger) *application.ActivityLog {
	return application.NewActivityLog(entries, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), logger)
}

// RequestServiceDeps captures dependencies for constructing a request service.
type RequestServiceDeps struct {
	Requests application.RequestRepository
	Activity *application.ActivityLog
	Logger   *slog.Logger
}

// RequestService constructs a request service with deterministic plumbing.
func (f *ServiceFactory) RequestService(deps RequestServiceDeps) *application.RequestService {
	return application.NewRequestService(deps.Requests, deps.Activity, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), deps.Logger)
}

// PipelineServiceDeps captures dependencies for constructing a pipeline service.
type PipelineServiceDeps struct {
	Candidates application.CandidateRepository
	Requests   application.RequestDirectory
	Passes     application.PassRegistrar
	Activity   *application.ActivityLog
	Logger     *slog.Logger
}

// PipelineService constructs a pipeline service with deterministic plumbing.
func (f *ServiceFactory) PipelineService(deps PipelineServiceDeps) *application.PipelineService {
	return application.NewPipelineService(deps.Candidates, deps.Requests, deps.Passes, deps.Activity, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), deps.Logger)
}

// InterviewServiceDeps captures dependencies for constructing an interview service.
type InterviewServiceDeps struct {
	Setups     application.SetupRepository
	Slots      application.SlotRepository
	Interviews application.InterviewRepository
	Candidates application.CandidateDirectory
	Requests   application.RequestDirectory
	Activity   *application.ActivityLog
	Logger     *slog.Logger
}

// InterviewService constructs an interview service with deterministic plumbing.
func (f *ServiceFactory) InterviewService(deps InterviewServiceDeps) *application.InterviewService {
	return application.NewInterviewService(deps.Setups, deps.Slots, deps.Interviews, deps.Candidates, deps.Requests, deps.Activity, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), deps.Logger)
}

// EvaluationServiceDeps captures dependencies for constructing an evaluation service.
type EvaluationServiceDeps struct {
	Evaluations application.EvaluationRepository
	Interviews  application.InterviewDirectory
	Logger      *slog.Logger
}

// EvaluationService constructs an evaluation service with deterministic plumbing.
func (f *ServiceFactory) EvaluationService(deps EvaluationServiceDeps) *application.EvaluationService {
	return application.NewEvaluationService(deps.Evaluations, deps.Interviews, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), deps.Logger)
}

// PassAccessService constructs a pass access service with deterministic
// plumbing. A non-positive ttl falls back to the service default.
func (f *ServiceFactory) PassAccessService(passes application.PassRepository, ttl time.Duration, logger *slog.Logger) *application.PassAccessService {
	return application.NewPassAccessService(passes, ttl, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), logger)
}
