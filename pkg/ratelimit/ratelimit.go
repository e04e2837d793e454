package ratelimit

import (
	"sync"
	"time"
)

// Limiter implementa limitação de taxa por chave usando token bucket.
// Usado para limitar tentativas de autorização de supervisor por operador.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    int
	window  time.Duration
}

type bucket struct {
	tokens   int
	lastFill time.Time
}

// NewLimiter cria um novo Limiter com rate tentativas por janela
func NewLimiter(rate int, window time.Duration) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate,
		window:  window,
	}
}

// Allow verifica se uma tentativa deve ser permitida para a chave.
// Retorna (permitido, tempo de espera sugerido quando negado).
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, exists := l.buckets[key]
	if !exists {
		l.buckets[key] = &bucket{tokens: l.rate - 1, lastFill: now}
		return true, 0
	}

	// Reabastecer tokens proporcionalmente ao tempo decorrido
	elapsed := now.Sub(b.lastFill)
	refill := int(float64(elapsed) / float64(l.window) * float64(l.rate))
	if refill > 0 {
		b.tokens += refill
		if b.tokens > l.rate {
			b.tokens = l.rate
		}
		b.lastFill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true, 0
	}

	return false, l.window / time.Duration(l.rate)
}

// Reset limpa o estado da chave
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}
