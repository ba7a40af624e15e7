package mail

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/spamham/lib/spamcheck"
)

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSubject, r.Subject)

	msg := Message{ReplyTo: "sender@example.com", Date: "Mon, 19 Oct 2026 10:00:00 +0000",
		Subject: "Win a prize", Body: strings.Repeat("x", 300)}
	n, err := r.Render(msg, spamcheck.FromPrediction(1, 0.9876))
	require.NoError(t, err)

	assert.Equal(t, "sender@example.com", n.To)
	assert.Equal(t, DefaultSubject, n.Subject)
	assert.Contains(t, n.Body, "We received your email sent at Mon, 19 Oct 2026 10:00:00 +0000 with the subject Win a prize.")
	assert.Contains(t, n.Body, "Here is a 240 character sample of the email body:")
	assert.Contains(t, n.Body, "\n"+strings.Repeat("x", 240)+"\n")
	assert.NotContains(t, n.Body, strings.Repeat("x", 241))
	assert.Contains(t, n.Body, "The email was categorized as spam with a 98.76% confidence.")
}

func TestRenderer_RenderHam(t *testing.T) {
	r, err := NewRenderer("custom subject", "")
	require.NoError(t, err)
	n, err := r.Render(Message{ReplyTo: "a@example.com", Body: "hi"}, spamcheck.FromPrediction(0, 0.5))
	require.NoError(t, err)
	assert.Equal(t, "custom subject", n.Subject)
	assert.Contains(t, n.Body, "categorized as ham with a 50.00% confidence")
}

func TestRenderer_TemplateFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "notify.tmpl")
	require.NoError(t, os.WriteFile(tmpFile, []byte("{{.Label}}:{{.Subject}}"), 0o600))

	r, err := NewRenderer("", tmpFile)
	require.NoError(t, err)
	n, err := r.Render(Message{Subject: "s1"}, spamcheck.FromPrediction(1, 1))
	require.NoError(t, err)
	assert.Equal(t, "spam:s1", n.Body)

	t.Run("broken template keeps the old one", func(t *testing.T) {
		require.NoError(t, os.WriteFile(tmpFile, []byte("{{.Label"), 0o600))
		require.Error(t, r.Reload())
		n, err := r.Render(Message{Subject: "s2"}, spamcheck.FromPrediction(0, 1))
		require.NoError(t, err)
		assert.Equal(t, "ham:s2", n.Body)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewRenderer("", filepath.Join(t.TempDir(), "nope.tmpl"))
		require.Error(t, err)
	})

	t.Run("bad field fails on render", func(t *testing.T) {
		require.NoError(t, os.WriteFile(tmpFile, []byte("{{.NoSuchField}}"), 0o600))
		require.NoError(t, r.Reload())
		_, err := r.Render(Message{}, spamcheck.FromPrediction(0, 1))
		require.Error(t, err)
	})
}

func TestRenderer_Watch(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "notify.tmpl")
	require.NoError(t, os.WriteFile(tmpFile, []byte("v1 {{.Subject}}"), 0o600))
	r, err := NewRenderer("", tmpFile)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx) }()
	time.Sleep(100 * time.Millisecond) // let watcher start

	require.NoError(t, os.WriteFile(tmpFile, []byte("v2 {{.Subject}}"), 0o600))
	assert.Eventually(t, func() bool {
		n, err := r.Render(Message{Subject: "s"}, spamcheck.FromPrediction(0, 1))
		return err == nil && n.Body == "v2 s"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher not stopped")
	}
}

func TestRenderer_WatchNoFile(t *testing.T) {
	r, err := NewRenderer("", "")
	require.NoError(t, err)
	require.NoError(t, r.Watch(context.Background()))
}
