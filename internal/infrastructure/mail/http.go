package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"jobhub/internal/notification"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// HTTPMailer posts messages to a JSON mail API authenticated with a bearer key.
type HTTPMailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
	logger   *zap.Logger
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func NewHTTPMailer(endpoint, apiKey, from string, timeout time.Duration, logger *zap.Logger) *HTTPMailer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPMailer{
		endpoint: strings.TrimSpace(endpoint),
		apiKey:   strings.TrimSpace(apiKey),
		from:     from,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (m *HTTPMailer) Send(ctx context.Context, msg notification.Message) error {
	if m == nil || m.client == nil {
		return errors.New("nil http mailer")
	}

	b, err := json.Marshal(sendRequest{From: m.from, To: msg.To, Subject: msg.Subject, HTML: msg.HTML})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "mail api request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		bodyStr := strings.TrimSpace(string(rb))
		m.logger.Warn("mail api rejected message",
			zap.String("endpoint", m.endpoint), zap.Int("status", resp.StatusCode), zap.String("body", bodyStr))
		return errors.Newf("mail api failed: status=%d body=%s", resp.StatusCode, bodyStr)
	}
	return nil
}

var _ notification.Mailer = (*HTTPMailer)(nil)
