package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-service/internal/application/inventory"
	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/pkg/logger"
)

var _ inventory.ChangeNotifier = (*Dispatcher)(nil)

const publishTimeout = 5 * time.Second

// Sink destino de los eventos de inventario (log, RabbitMQ, Kafka, Redis).
type Sink interface {
	Name() string
	Publish(ctx context.Context, ev entity.ChangeEvent) error
}

// Dispatcher implementa ChangeNotifier: encola el evento y un worker lo entrega a los sinks.
// Notify nunca bloquea ni falla; con la cola llena o cerrada el evento se descarta con un warning.
type Dispatcher struct {
	queue chan entity.ChangeEvent
	sinks []Sink
	log   *logger.Logger

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher construye el dispatcher con una cola de tamaño buffer.
func NewDispatcher(buffer int, log *logger.Logger, sinks ...Sink) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		queue: make(chan entity.ChangeEvent, buffer),
		sinks: sinks,
		log:   log,
	}
}

// Notify publica "cantidad cambiada" para productID.
func (d *Dispatcher) Notify(_ context.Context, productID int64, newQuantity int) {
	ev := entity.ChangeEvent{
		ID:          uuid.NewString(),
		ProductID:   productID,
		NewQuantity: newQuantity,
		OccurredAt:  time.Now().UTC(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().Int64("producto_id", productID).Msg("notificador cerrado, evento descartado")
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.log.Warn().Int64("producto_id", productID).Int("nueva_cantidad", newQuantity).
			Msg("cola de eventos llena, evento descartado")
	}
}

// Run entrega eventos hasta que ctx se cancela o se llama Close; en ambos casos vacía la cola antes de salir.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case ev, ok := <-d.queue:
			if !ok {
				return nil
			}
			d.deliver(ev)
		case <-ctx.Done():
			d.drain()
			return nil
		}
	}
}

// Close deja de aceptar eventos. Run termina tras entregar lo pendiente.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	close(d.queue)
}

func (d *Dispatcher) drain() {
	for {
		select {
		case ev, ok := <-d.queue:
			if !ok {
				return
			}
			d.deliver(ev)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(ev entity.ChangeEvent) {
	for _, s := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		err := s.Publish(ctx, ev)
		cancel()
		if err != nil {
			d.log.Error().Err(err).
				Str("sink", s.Name()).
				Str("evento_id", ev.ID).
				Int64("producto_id", ev.ProductID).
				Msg("no se pudo publicar evento de inventario")
		}
	}
}
