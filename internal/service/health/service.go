package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker defines a health check function
type Checker func(ctx context.Context) CheckResult

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type SessionBackend interface {
	Degraded() bool
}

type Broker interface {
	Ping() error
}

type Breaker interface {
	State() string
	Configured() bool
}

// Config holds health service configuration. Nil collaborators are not
// checked.
type Config struct {
	Version  string
	Database Pinger
	Sessions SessionBackend
	Queue    Broker
	LLM      Breaker
}

// Service handles health checks
type Service struct {
	startTime time.Time
	version   string
	checkers  map[string]Checker
	log       *zap.Logger
	mu        sync.RWMutex
}

// NewService creates a new health service
func NewService(config *Config, log *zap.Logger) *Service {
	s := &Service{
		startTime: time.Now(),
		version:   config.Version,
		checkers:  make(map[string]Checker),
		log:       log,
	}

	if config.Database != nil {
		s.RegisterChecker("database", pingChecker("database", config.Database, log))
	}
	if config.Sessions != nil {
		s.RegisterChecker("sessions", sessionChecker(config.Sessions))
	}
	if config.Queue != nil {
		s.RegisterChecker("nats", natsChecker(config.Queue, log))
	}
	if config.LLM != nil {
		s.RegisterChecker("llm", llmChecker(config.LLM))
	}

	return s
}

// RegisterChecker registers a custom health checker
func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Debug("Registered health checker", zap.String("name", name))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready runs every registered checker concurrently. Degraded checks keep
// the service ready; unhealthy ones do not.
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for k, v := range s.checkers {
		checkers[k] = v
	}
	s.mu.RUnlock()

	results := make(map[string]CheckResult)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}

	wg.Wait()

	overallStatus := StatusHealthy
	allReady := true

	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
			allReady = false
		} else if result.Status == StatusDegraded && overallStatus != StatusUnhealthy {
			overallStatus = StatusDegraded
		}
	}

	return &ReadyResponse{
		Ready:     allReady,
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

func pingChecker(name string, p Pinger, log *zap.Logger) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		result := CheckResult{Name: name, Timestamp: start}

		err := p.Ping(ctx)
		result.Duration = time.Since(start)

		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = fmt.Sprintf("ping failed: %v", err)
			log.Warn("Health check failed", zap.String("check", name), zap.Error(err))
		} else {
			result.Status = StatusHealthy
			result.Message = "connection ok"
		}
		return result
	}
}

func sessionChecker(b SessionBackend) Checker {
	return func(ctx context.Context) CheckResult {
		result := CheckResult{Name: "sessions", Status: StatusHealthy, Message: "redis", Timestamp: time.Now()}
		if b.Degraded() {
			result.Status = StatusDegraded
			result.Message = "serving from in-memory fallback"
		}
		return result
	}
}

func natsChecker(b Broker, log *zap.Logger) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		result := CheckResult{Name: "nats", Status: StatusHealthy, Message: "connection ok", Timestamp: start}

		err := b.Ping()
		result.Duration = time.Since(start)
		if err != nil {
			// Action events are best effort.
			result.Status = StatusDegraded
			result.Message = err.Error()
			log.Warn("NATS health check failed", zap.Error(err))
		}
		return result
	}
}

func llmChecker(b Breaker) Checker {
	return func(ctx context.Context) CheckResult {
		result := CheckResult{Name: "llm", Status: StatusHealthy, Timestamp: time.Now()}
		switch {
		case !b.Configured():
			result.Status = StatusDegraded
			result.Message = "api key not configured, rules only"
		case b.State() != "closed":
			result.Status = StatusDegraded
			result.Message = "circuit " + b.State()
		default:
			result.Message = "circuit closed"
		}
		return result
	}
}
