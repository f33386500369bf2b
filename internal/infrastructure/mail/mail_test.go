package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobhub/internal/config"
	"jobhub/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMailer_PostsJSONWithBearer(t *testing.T) {
	var got sendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, "secret", "no-reply@jobhub.local", time.Second, nil)
	err := m.Send(context.Background(), notification.Message{To: "a@example.com", Subject: "Hai", HTML: "<p>x</p>"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, sendRequest{From: "no-reply@jobhub.local", To: "a@example.com", Subject: "Hai", HTML: "<p>x</p>"}, got)
}

func TestHTTPMailer_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m := NewHTTPMailer(srv.URL, "k", "", time.Second, nil)
	err := m.Send(context.Background(), notification.Message{To: "a@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=429")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestBuildMIME(t *testing.T) {
	raw := string(buildMIME("hr@example.com", notification.Message{To: "a@example.com", Subject: "Undangan interview", HTML: "<b>hi</b>"}))
	assert.True(t, strings.HasPrefix(raw, "From: hr@example.com\r\nTo: a@example.com\r\n"))
	assert.Contains(t, raw, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<b>hi</b>"))
}

func TestNew(t *testing.T) {
	m, err := New(context.Background(), config.MailConfig{Transport: "log"}, nil)
	require.NoError(t, err)
	assert.NoError(t, m.Send(context.Background(), notification.Message{To: "a@example.com"}))

	m, err = New(context.Background(), config.MailConfig{Transport: "HTTP", APIURL: "http://localhost"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &HTTPMailer{}, m)

	_, err = New(context.Background(), config.MailConfig{Transport: "pigeon"}, nil)
	assert.ErrorIs(t, err, ErrUnknownTransport)

	_, err = New(context.Background(), config.MailConfig{Transport: "gmail", GmailCredentialsFile: t.TempDir() + "/missing.json"}, nil)
	assert.Error(t, err)
}
