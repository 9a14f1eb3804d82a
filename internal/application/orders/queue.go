package orders

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/MateriasPrimas-api/internal/domain"
	"github.com/jhoicas/MateriasPrimas-api/pkg/logger"
)

// ErrQueueClosed se retorna al encolar sobre una cola ya detenida.
var ErrQueueClosed = errors.New("cola de pedidos cerrada")

// ErrQueueFull se retorna cuando el buffer de la cola está lleno.
var ErrQueueFull = errors.New("cola de pedidos llena")

// Notifier recibe el resultado de un pedido procesado en segundo plano
// (callback hacia la plataforma de pedidos). Puede ser nil.
type Notifier interface {
	NotifyResult(ctx context.Context, result *Result, processErr error)
}

// Outcome es lo que el worker publica en el canal de resultado de cada job.
type Outcome struct {
	Result *Result
	Err    error
}

type job struct {
	id    string
	order Order
	done  chan Outcome // buffered(1); el worker nunca bloquea publicando
}

// Queue procesa pedidos en segundo plano: el webhook responde 202 antes de
// que el ledger sea consistente. Cada job lleva su propio canal de resultado;
// quien encola decide si lo espera o lo ignora (fire-and-forget explícito).
type Queue struct {
	uc       *ReconcileUseCase
	notifier Notifier
	log      *logger.Logger

	jobs chan job
	wg   sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewQueue construye la cola con un buffer fijo y arranca su worker.
func NewQueue(uc *ReconcileUseCase, notifier Notifier, log *logger.Logger, buffer int) *Queue {
	if buffer <= 0 {
		buffer = 64
	}
	q := &Queue{
		uc:       uc,
		notifier: notifier,
		log:      log,
		jobs:     make(chan job, buffer),
	}
	q.wg.Add(1)
	go q.worker()
	return q
}

// Enqueue agrega un pedido a la cola y devuelve el canal donde el worker
// publicará el resultado. El canal tiene buffer 1: ignorarlo no fuga nada.
func (q *Queue) Enqueue(order Order) (<-chan Outcome, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil, ErrQueueClosed
	}
	j := job{id: uuid.New().String(), order: order, done: make(chan Outcome, 1)}
	select {
	case q.jobs <- j:
		return j.done, nil
	default:
		return nil, ErrQueueFull
	}
}

// Stop cierra la cola y espera a que el worker termine los jobs pendientes,
// hasta que el ctx expire.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	finished := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for j := range q.jobs {
		// Cada job con su propio timeout: un pedido colgado no frena la cola.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		result, err := q.uc.Reconcile(ctx, j.order)

		switch {
		case err == nil:
			q.log.Info().
				Str("job_id", j.id).
				Str("pedido_id", j.order.ID).
				Int("materiales", len(result.Debited)).
				Msg("pedido procesado")
		case errors.Is(err, domain.ErrInsufficientStock):
			q.log.Warn().
				Str("job_id", j.id).
				Str("pedido_id", j.order.ID).
				Int("faltantes", len(result.Shortages)).
				Msg("pedido rechazado por stock insuficiente")
		default:
			q.log.Error().
				Err(err).
				Str("job_id", j.id).
				Str("pedido_id", j.order.ID).
				Msg("error procesando pedido")
		}

		if q.notifier != nil {
			nr := result
			if nr == nil {
				// Los errores genéricos de la conciliación no traen resultado;
				// el callback igual necesita el id del pedido para reportarlo.
				nr = &Result{OrderID: j.order.ID}
			}
			q.notifier.NotifyResult(ctx, nr, err)
		}
		cancel()

		j.done <- Outcome{Result: result, Err: err}
	}
}
