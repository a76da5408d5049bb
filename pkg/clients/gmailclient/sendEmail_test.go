package gmailclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("Parking Admin <noreply@example.com>", "ops@example.com", "Alerts", "2 unread")
	assert.Equal(t,
		"From: Parking Admin <noreply@example.com>\r\nTo: ops@example.com\r\nSubject: Alerts\r\n"+
			"Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n2 unread",
		msg)

	assert.NotContains(t, buildMessage("", "ops@example.com", "Alerts", "body"), "From:")
}

func TestSendEmail_PostsRawMessage(t *testing.T) {
	var raws []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var msg struct {
			Raw string `json:"raw"`
		}
		_ = json.Unmarshal(data, &msg)
		raws = append(raws, msg.Raw)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"m1"}`))
	}))
	defer srv.Close()

	client, err := NewClientWithHTTP(context.Background(), srv.Client(), "", option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	client.interval = 10 * time.Millisecond

	require.NoError(t, client.SendEmail("ops@example.com", "Digest", "hello"))
	require.NoError(t, client.SendEmail("ops@example.com", "Digest", "again"))

	require.Len(t, raws, 2)
	decoded, err := base64.URLEncoding.DecodeString(raws[0])
	require.NoError(t, err)
	assert.Contains(t, string(decoded), "To: ops@example.com\r\n")
	assert.Contains(t, string(decoded), "\r\n\r\nhello")
}
