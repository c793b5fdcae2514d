// Package notifier implementa los canales de aviso de stock bajo.
package notifier

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/jhoicas/inventario-stock/pkg/config"
	"github.com/jhoicas/inventario-stock/pkg/logger"
)

// sender es la parte del cliente SMTP que usamos; permite probar sin servidor.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailNotifier envía un correo por producto con stock bajo.
type EmailNotifier struct {
	client sender
	from   string
	to     []string
	log    *logger.Logger
}

// NewEmailNotifier crea el cliente SMTP con las credenciales de configuración.
func NewEmailNotifier(cfg config.SMTPConfig, log *logger.Logger) (*EmailNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return newEmailNotifier(client, cfg.From, cfg.To, log), nil
}

func newEmailNotifier(client sender, from string, to []string, log *logger.Logger) *EmailNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &EmailNotifier{client: client, from: from, to: to, log: log.Component("email_notifier")}
}

// Notify envía "Low Stock Alert: <nombre>" a los destinatarios configurados.
func (n *EmailNotifier) Notify(ctx context.Context, name string, quantity, threshold int) error {
	msg, err := n.buildMessage(name, quantity, threshold)
	if err != nil {
		return err
	}
	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	n.log.Debug().Str("name", name).Strs("to", n.to).Msg("aviso de stock bajo enviado")
	return nil
}

func (n *EmailNotifier) buildMessage(name string, quantity, threshold int) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(n.to...); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject("Low Stock Alert: " + name)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Product %q is low on stock.\nQuantity: %d\nThreshold: %d\n", name, quantity, threshold))
	return msg, nil
}
