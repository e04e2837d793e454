package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hugohenrick/pdv-supermercado/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Pool consome as filas de trabalhos com um conjunto fixo de goroutines.
// Cada worker bloqueia em BRPOP; custo zero de CPU quando ocioso.
type Pool struct {
	rdb       *redis.Client
	fiscal    *FiscalWorker
	pixPoller *PixPoller
	logger    logger.Logger
}

// NewPool cria uma nova instância de Pool
func NewPool(rdb *redis.Client, fiscal *FiscalWorker, pixPoller *PixPoller, logger logger.Logger) *Pool {
	return &Pool{
		rdb:       rdb,
		fiscal:    fiscal,
		pixPoller: pixPoller,
		logger:    logger,
	}
}

// Start lança numWorkers goroutines consumindo as duas filas
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	p.logger.Info("pool de workers iniciado", "workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	queues := []string{QueueFiscal, QueuePixPoll}
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("worker encerrando", "worker", id)
			return
		default:
			// Pop bloqueante com timeout curto para reavaliar o contexto
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		p.logger.Error("trabalho inválido na fila", "queue", queue, "error", err.Error())
		return
	}

	switch queue {
	case QueueFiscal:
		p.fiscal.Process(ctx, job.Payload)
	case QueuePixPoll:
		p.pixPoller.Process(ctx, job.Payload)
	default:
		p.logger.Warn("fila desconhecida", "queue", queue, "type", job.Type)
	}
}
