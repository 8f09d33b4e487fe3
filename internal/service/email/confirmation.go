// internal/service/email/confirmation.go
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"signup-service/internal/domain/signup"

	"go.uber.org/zap"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8" />
	<title>Bixia</title>
	<style>
		body { font-family: Arial, sans-serif; background-color: #f6f8fa; padding: 30px; }
		.container { max-width: 600px; margin: auto; background: #fff; border-radius: 10px; overflow: hidden; }
		.header { background: #00594f; color: white; text-align: center; padding: 20px; font-size: 22px; font-weight: bold; }
		.body { padding: 25px; color: #333; line-height: 1.6; }
		.footer { background: #f1f1f1; color: #555; text-align: center; padding: 15px; font-size: 13px; }
	</style>
</head>
<body>
<div class="container">
	<div class="header">Tack för din beställning</div>
	<div class="body">
		<p>Vi har tagit emot din beställning av <strong>{{.ProductName}}</strong>.</p>
		<p>Ordernummer: {{.ID}}</p>
		{{with .Address}}<p>Anläggningsadress: {{.Street}} {{.Number}}, {{.PostalCode}} {{.City}}</p>{{end}}
		{{if .StartDate}}<p>Avtalet startar {{.StartDate}}.</p>{{else}}<p>Avtalet startar så snart bytet är klart.</p>{{end}}
	</div>
	<div class="footer">
		<p>Du får det här mejlet eftersom du tecknat elavtal hos oss.</p>
	</div>
</div>
</body>
</html>`))

// Confirmations mails the order confirmation after a signed contract.
type Confirmations struct {
	sender Sender
	logger *zap.Logger
}

func NewConfirmations(sender Sender, logger *zap.Logger) *Confirmations {
	return &Confirmations{sender: sender, logger: logger}
}

// ConfirmationSubject is the subject of every order confirmation.
const ConfirmationSubject = "Orderbekräftelse elavtal"

func RenderConfirmation(o *signup.Order) (string, error) {
	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, o); err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return buf.String(), nil
}

// SendOrderConfirmation is a no-op for orders without an email address.
func (c *Confirmations) SendOrderConfirmation(ctx context.Context, o *signup.Order) error {
	if o.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := RenderConfirmation(o)
	if err != nil {
		return err
	}
	if err := c.sender.Send(o.Email, ConfirmationSubject, body); err != nil {
		return fmt.Errorf("send confirmation for %s: %w", o.ID, err)
	}
	c.logger.Info("order confirmation sent", zap.String("order_id", o.ID))
	return nil
}
