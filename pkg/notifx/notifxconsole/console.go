package notifxconsole

import (
	"context"
	"strings"

	"github.com/Abraxas-365/cauth/pkg/logx"
	"github.com/Abraxas-365/cauth/pkg/notifx"
)

// ConsoleProvider writes emails to the log instead of sending them. The
// body is logged at debug level, so codes inside it are visible in dev.
type ConsoleProvider struct {
	logger *logx.Logger
}

func NewConsoleProvider(logger *logx.Logger) *ConsoleProvider {
	return &ConsoleProvider{logger: logger.With(logx.Fields{"component": "notifx/console"})}
}

func (p *ConsoleProvider) SendEmail(_ context.Context, msg notifx.EmailMessage, opts ...notifx.Option) error {
	so := notifx.ApplyOptions(opts)
	p.logger.WithFields(logx.Fields{
		"from":    msg.From,
		"to":      strings.Join(msg.To, ", "),
		"subject": msg.Subject,
		"tags":    so.Tags,
	}).Info("email accepted (dev mode)")

	p.logger.Debugf("text body:\n%s", msg.TextBody)
	return nil
}
