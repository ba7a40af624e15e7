package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/minio/minio-go/v7/pkg/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/spamham/app/events/mocks"
)

func TestListener_Do(t *testing.T) {
	var ev notification.Event
	ev.EventName = "s3:ObjectCreated:Put"
	ev.S3.Bucket.Name = "incoming"
	ev.S3.Object.Key = "msg%201.eml"
	ev.S3.Object.ETag = "e1"

	ch := make(chan notification.Info, 4)
	ch <- notification.Info{Err: errors.New("temporary")}
	ch <- notification.Info{Records: []notification.Event{ev}}
	ch <- notification.Info{Records: []notification.Event{ev}} // redelivery

	src := &mocks.SourceMock{ListenFunc: func(ctx context.Context, bucket, prefix, suffix string, events []string) <-chan notification.Info {
		return ch
	}}

	var mu sync.Mutex
	var handled []ObjectRef
	h := HandlerFunc(func(_ context.Context, ref ObjectRef) error {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, ref)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	l := Listener{Source: src, Handler: h, Dedup: NewDedup(time.Minute, 100), Bucket: "incoming", Suffix: ".eml"}
	err := l.Do(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []ObjectRef{{Bucket: "incoming", Key: "msg 1.eml", ETag: "e1"}}, handled)

	require.Len(t, src.ListenCalls(), 1)
	call := src.ListenCalls()[0]
	assert.Equal(t, "incoming", call.Bucket)
	assert.Equal(t, ".eml", call.Suffix)
	assert.Equal(t, []string{"s3:ObjectCreated:*"}, call.Events)
}

func TestListener_Resubscribe(t *testing.T) {
	src := &mocks.SourceMock{ListenFunc: func(ctx context.Context, bucket, prefix, suffix string, events []string) <-chan notification.Info {
		ch := make(chan notification.Info)
		close(ch)
		return ch
	}}
	h := HandlerFunc(func(context.Context, ObjectRef) error { return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	l := Listener{Source: src, Handler: h, Bucket: "incoming", RetryDelay: 30 * time.Millisecond}
	require.Error(t, l.Do(ctx))
	assert.Greater(t, len(src.ListenCalls()), 1, "re-subscribed after stream closed")
}

func TestListener_NotConfigured(t *testing.T) {
	l := Listener{Bucket: "incoming"}
	require.Error(t, l.Do(context.Background()))
}
