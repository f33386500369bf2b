package mail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"os"
	"strings"

	"jobhub/internal/notification"

	"github.com/cockroachdb/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailMailer sends through the Gmail API as the account that authorised the
// stored OAuth token.
type GmailMailer struct {
	svc  *gmail.Service
	from string
}

// NewGmailMailer reads the OAuth client credentials and a previously saved
// token. The token must already exist; the server never prompts for consent.
func NewGmailMailer(ctx context.Context, credentialsFile, tokenFile, from string) (*GmailMailer, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.Wrap(err, "read gmail credentials")
	}
	cfg, err := google.ConfigFromJSON(b, gmail.GmailSendScope)
	if err != nil {
		return nil, errors.Wrap(err, "parse gmail credentials")
	}
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, errors.Wrap(err, "read gmail token")
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx, tok)))
	if err != nil {
		return nil, errors.Wrap(err, "create gmail service")
	}
	return &GmailMailer{svc: svc, from: from}, nil
}

func (m *GmailMailer) Send(ctx context.Context, msg notification.Message) error {
	raw := base64.URLEncoding.EncodeToString(buildMIME(m.from, msg))
	_, err := m.svc.Users.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "gmail send")
	}
	return nil
}

func buildMIME(from string, msg notification.Message) []byte {
	var sb strings.Builder
	if from != "" {
		fmt.Fprintf(&sb, "From: %s\r\n", from)
	}
	fmt.Fprintf(&sb, "To: %s\r\n", msg.To)
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	sb.WriteString(msg.HTML)
	return []byte(sb.String())
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

var _ notification.Mailer = (*GmailMailer)(nil)
