package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// QueueCostos receives cost-change fan-out jobs after a cascade commits:
	// broadcast, cache invalidation and reporting collaborators consume them.
	QueueCostos = "jobs:costos"
	// QueueAlertas receives minimum-stock alerts observed during
	// availability checks.
	QueueAlertas = "jobs:alertas"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// CambioCostoPayload is enqueued once per committed cascade.
type CambioCostoPayload struct {
	ProductoID              string   `json:"producto_id"`
	PromocionesActualizadas []string `json:"promociones_actualizadas"`
}

// AlertaStockPayload is enqueued when an availability check finds deficits.
type AlertaStockPayload struct {
	ProductoID string   `json:"producto_id"`
	Lineas     []string `json:"lineas"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP. Enqueueing is best-effort and
// happens only after the triggering transaction has committed — the core
// services themselves never touch the queue.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueCambioCosto pushes a cost-change notification job to Redis.
func (d *Dispatcher) EnqueueCambioCosto(ctx context.Context, payload CambioCostoPayload) error {
	return d.enqueue(ctx, QueueCostos, "cambio_costo", payload)
}

// EnqueueAlertaStock pushes a stock-alert job to Redis.
func (d *Dispatcher) EnqueueAlertaStock(ctx context.Context, payload AlertaStockPayload) error {
	return d.enqueue(ctx, QueueAlertas, "alerta_stock", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int) {
	queues := []string{QueueCostos, QueueAlertas}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(result[0], result[1])
		}
	}
}

// processJob is the delivery boundary: downstream collaborators (ticket
// printers, websocket broadcast) subscribe to these queues themselves; the
// pool records that the event left the building.
func processJob(queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).RawJSON("payload", job.Payload).Msg("job dispatched")
}
