package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/spamham/app/events"
	"github.com/umputun/spamham/app/mail"
	"github.com/umputun/spamham/app/pipeline/mocks"
	"github.com/umputun/spamham/lib"
	"github.com/umputun/spamham/lib/encoder"
	"github.com/umputun/spamham/lib/spamcheck"
)

const rawMessage = "Return-Path: <sender@example.com>\r\n" +
	"From: Sender <sender@example.com>\r\n" +
	"Date: Mon, 19 Oct 2026 10:00:00 +0000\r\n" +
	"Subject: Free prize\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Hello\r\nworld\r\n"

type testEnv struct {
	store     *mocks.StoreMock
	predictor *mocks.PredictorMock
	sender    *mocks.SenderMock
	proc      *Processor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	renderer, err := mail.NewRenderer("", "")
	require.NoError(t, err)
	env := &testEnv{
		store: &mocks.StoreMock{FetchFunc: func(ctx context.Context, bucket, key string) ([]byte, error) {
			return []byte(rawMessage), nil
		}},
		predictor: &mocks.PredictorMock{PredictFunc: func(ctx context.Context, m *encoder.Matrix) ([]spamcheck.Result, error) {
			return []spamcheck.Result{spamcheck.FromPrediction(1, 0.97)}, nil
		}},
		sender: &mocks.SenderMock{SendFunc: func(ctx context.Context, n mail.Notification) error { return nil }},
	}
	env.proc = &Processor{Store: env.store, Predictor: env.predictor, Sender: env.sender, Renderer: renderer, VocabularySize: 10}
	return env
}

func TestProcessor_Process(t *testing.T) {
	env := newTestEnv(t)
	ref := events.ObjectRef{Bucket: "incoming", Key: "msg.eml"}

	rep, err := env.proc.Process(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, ref, rep.Object)
	assert.Equal(t, "sender@example.com", rep.Message.ReplyTo)
	assert.Equal(t, "Hello world", rep.Message.Body)
	assert.Equal(t, spamcheck.LabelSpam, rep.Result.Label)
	assert.True(t, rep.Sent)

	require.Len(t, env.store.FetchCalls(), 1)
	assert.Equal(t, "incoming", env.store.FetchCalls()[0].Bucket)
	assert.Equal(t, "msg.eml", env.store.FetchCalls()[0].Key)

	require.Len(t, env.predictor.PredictCalls(), 1)
	m := env.predictor.PredictCalls()[0].M
	rows, cols := m.Shape()
	assert.Equal(t, 1, rows)
	assert.Equal(t, 10, cols)
	assert.Equal(t, []float64{0, 0, 0, 0, 0, 0, 0, 0, 1, 1}, m.Row(0), "hello=8, world=9")

	require.Len(t, env.sender.SendCalls(), 1)
	n := env.sender.SendCalls()[0].N
	assert.Equal(t, "sender@example.com", n.To)
	assert.Equal(t, mail.DefaultSubject, n.Subject)
	assert.Contains(t, n.Body, "with the subject Free prize")
	assert.Contains(t, n.Body, "categorized as spam with a 97.00% confidence")
	assert.Equal(t, n, rep.Notification)
}

func TestProcessor_ProcessFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(env *testEnv)
		err   string
	}{
		{
			name: "fetch failed",
			setup: func(env *testEnv) {
				env.store.FetchFunc = func(ctx context.Context, bucket, key string) ([]byte, error) {
					return nil, errors.New("no such key")
				}
			},
			err: "can't fetch incoming/msg.eml: no such key",
		},
		{
			name: "no reply address",
			setup: func(env *testEnv) {
				env.store.FetchFunc = func(ctx context.Context, bucket, key string) ([]byte, error) {
					return []byte("Subject: x\r\n\r\nbody\r\n"), nil
				}
			},
			err: "no reply address",
		},
		{
			name: "invalid utf-8 body",
			setup: func(env *testEnv) {
				env.store.FetchFunc = func(ctx context.Context, bucket, key string) ([]byte, error) {
					return []byte("From: a@example.com\r\n\r\nbad \xff\xfe body\r\n"), nil
				}
			},
			err: "can't encode message",
		},
		{
			name: "predict failed",
			setup: func(env *testEnv) {
				env.predictor.PredictFunc = func(ctx context.Context, m *encoder.Matrix) ([]spamcheck.Result, error) {
					return nil, errors.New("endpoint down")
				}
			},
			err: "can't classify message: endpoint down",
		},
		{
			name: "unexpected number of results",
			setup: func(env *testEnv) {
				env.predictor.PredictFunc = func(ctx context.Context, m *encoder.Matrix) ([]spamcheck.Result, error) {
					return []spamcheck.Result{}, nil
				}
			},
			err: "expected 1 classification result, got 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			tt.setup(env)
			_, err := env.proc.Process(context.Background(), events.ObjectRef{Bucket: "incoming", Key: "msg.eml"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
			assert.Empty(t, env.sender.SendCalls(), "nothing sent on failure")
		})
	}
}

func TestProcessor_SendFailed(t *testing.T) {
	env := newTestEnv(t)
	env.sender.SendFunc = func(ctx context.Context, n mail.Notification) error { return errors.New("smtp down") }
	err := env.proc.Handle(context.Background(), events.ObjectRef{Bucket: "incoming", Key: "msg.eml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't send notification to sender@example.com: smtp down")
}

func TestProcessor_RenderFailed(t *testing.T) {
	env := newTestEnv(t)
	env.proc.Renderer = &mocks.RendererMock{RenderFunc: func(msg mail.Message, res spamcheck.Result) (mail.Notification, error) {
		return mail.Notification{}, errors.New("bad template")
	}}
	_, err := env.proc.ProcessMessage(context.Background(), []byte(rawMessage))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad template")
	assert.Empty(t, env.sender.SendCalls())
}

func TestProcessor_Dry(t *testing.T) {
	env := newTestEnv(t)
	env.proc.Dry = true
	rep, err := env.proc.ProcessMessage(context.Background(), []byte(rawMessage))
	require.NoError(t, err)
	assert.False(t, rep.Sent)
	assert.Equal(t, "sender@example.com", rep.Notification.To)
	assert.Empty(t, env.sender.SendCalls())
}

func TestProcessor_Handle(t *testing.T) {
	env := newTestEnv(t)
	var h events.Handler = env.proc
	require.NoError(t, h.Handle(context.Background(), events.ObjectRef{Bucket: "incoming", Key: "msg.eml"}))
	assert.Len(t, env.sender.SendCalls(), 1)
}

func TestProcessor_Classify(t *testing.T) {
	env := newTestEnv(t)
	env.proc.VocabularySize = 0
	env.proc.Encoder = encoder.New(encoder.WithDigest(encoder.DigestBLAKE3))

	res, err := env.proc.Classify(context.Background(), "free viagra")
	require.NoError(t, err)
	assert.Equal(t, spamcheck.Result{Label: spamcheck.LabelSpam, Probability: 0.97}, res)

	m := env.predictor.PredictCalls()[0].M
	_, cols := m.Shape()
	assert.Equal(t, 9013, cols, "default vocabulary size")

	t.Run("default encoding", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.proc.Classify(context.Background(), "Hello, world!")
		require.NoError(t, err)
		expected, err := lib.Encode([]string{"Hello, world!"}, 10)
		require.NoError(t, err)
		assert.Equal(t, expected, env.predictor.PredictCalls()[0].M)
	})

	t.Run("no predictor", func(t *testing.T) {
		p := Processor{}
		_, err := p.Classify(context.Background(), "text")
		require.Error(t, err)
	})

	t.Run("bad vocabulary size", func(t *testing.T) {
		p := Processor{Predictor: env.predictor, VocabularySize: 1}
		_, err := p.Classify(context.Background(), "text")
		require.ErrorIs(t, err, encoder.ErrInvalidArgument)
	})
}

func TestProcessor_NotConfigured(t *testing.T) {
	p := Processor{}
	_, err := p.Process(context.Background(), events.ObjectRef{Bucket: "b", Key: "k"})
	require.Error(t, err)
	_, err = p.ProcessMessage(context.Background(), []byte(rawMessage))
	require.Error(t, err)
}
