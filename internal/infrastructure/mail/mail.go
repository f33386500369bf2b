// Package mail holds the notification.Mailer transports.
package mail

import (
	"context"
	"strings"

	"jobhub/internal/config"
	"jobhub/internal/notification"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var ErrUnknownTransport = errors.New("unknown mail transport")

// LogMailer only logs messages. It is the development default.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg notification.Message) error {
	m.logger.Info("mail (log transport)",
		zap.String("to", msg.To), zap.String("subject", msg.Subject), zap.Int("html_bytes", len(msg.HTML)))
	return nil
}

// New builds the transport named by cfg.Transport.
func New(ctx context.Context, cfg config.MailConfig, logger *zap.Logger) (notification.Mailer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Transport)) {
	case "", "log":
		return NewLogMailer(logger), nil
	case "http":
		return NewHTTPMailer(cfg.APIURL, cfg.APIKey, cfg.From, cfg.Timeout, logger), nil
	case "gmail":
		g, err := NewGmailMailer(ctx, cfg.GmailCredentialsFile, cfg.GmailTokenFile, cfg.From)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, errors.Wrapf(ErrUnknownTransport, "%q", cfg.Transport)
	}
}
