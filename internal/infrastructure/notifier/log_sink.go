package notifier

import (
	"context"

	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/pkg/logger"
)

// LogSink escribe cada evento como una línea de log estructurada.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Publish(_ context.Context, ev entity.ChangeEvent) error {
	s.log.Info().
		Str("evento_id", ev.ID).
		Int64("producto_id", ev.ProductID).
		Int("nueva_cantidad", ev.NewQuantity).
		Time("timestamp", ev.OccurredAt).
		Msg("EVENTO: inventario cambiado")
	return nil
}
