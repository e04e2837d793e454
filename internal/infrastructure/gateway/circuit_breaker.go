package gateway

import (
	"errors"
	"sync"
	"time"
)

// Circuit breaker (fechado → aberto → meio-aberto) na frente dos
// serviços externos (gateway PIX, emissor fiscal). Evita insistir em um
// serviço indisponível: aberto falha imediato; meio-aberto deixa passar
// uma sondagem.

// BreakerState representa o estado atual do circuit breaker
type BreakerState int

const (
	BreakerClosed BreakerState = iota
	BreakerOpen
	BreakerHalfOpen
)

// String retorna o nome legível do estado
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen é retornado quando o circuito está aberto
var ErrCircuitOpen = errors.New("serviço externo temporariamente indisponível")

// BreakerConfig contém os parâmetros do circuit breaker
type BreakerConfig struct {
	FailureThreshold int           // Falhas consecutivas para abrir
	SuccessThreshold int           // Sucessos em meio-aberto para fechar
	OpenTimeout      time.Duration // Tempo aberto antes de sondar
}

// DefaultBreakerConfig retorna os parâmetros padrão
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      30 * time.Second,
	}
}

// CircuitBreaker implementa o padrão com transições seguras para
// uso concorrente
type CircuitBreaker struct {
	mu               sync.Mutex
	state            BreakerState
	failureCount     int
	successCount     int
	lastFailureTime  time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
}

// NewCircuitBreaker cria um circuit breaker no estado fechado
func NewCircuitBreaker(cfg BreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		state:            BreakerClosed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		openTimeout:      cfg.OpenTimeout,
	}
}

// State retorna o estado atual, aplicando a transição aberto → meio-aberto
// quando o tempo de espera expira
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == BreakerOpen && time.Since(cb.lastFailureTime) >= cb.openTimeout {
		cb.state = BreakerHalfOpen
		cb.successCount = 0
	}
	return cb.state
}

// Execute executa fn através do circuit breaker.
// Retorna ErrCircuitOpen imediatamente quando o circuito está aberto.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == BreakerOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
		return err
	}

	cb.onSuccess()
	return nil
}

func (cb *CircuitBreaker) onFailure() {
	cb.failureCount++
	cb.successCount = 0
	cb.lastFailureTime = time.Now()

	if cb.state == BreakerHalfOpen || cb.failureCount >= cb.failureThreshold {
		cb.state = BreakerOpen
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.failureCount = 0

	if cb.state == BreakerHalfOpen {
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = BreakerClosed
		}
	}
}
