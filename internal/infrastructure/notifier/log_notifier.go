package notifier

import (
	"context"

	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// LogNotifier escribe el aviso en el log; se usa cuando no hay SMTP configurado.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el notificador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("log_notifier")}
}

func (n *LogNotifier) Notify(_ context.Context, name string, quantity, threshold int) error {
	n.log.Warn().
		Str("name", name).
		Int("quantity", quantity).
		Int("threshold", threshold).
		Msg("stock bajo")
	return nil
}
