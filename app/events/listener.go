package events

import (
	"context"
	"errors"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/minio/minio-go/v7/pkg/notification"
)

//go:generate moq --out mocks/source.go --pkg mocks --skip-ensure --with-resets . Source

// Source streams bucket notifications, implemented by storage.S3Store
type Source interface {
	Listen(ctx context.Context, bucket, prefix, suffix string, events []string) <-chan notification.Info
}

// createdEvents is a list of events to listen for
var createdEvents = []string{"s3:ObjectCreated:*"}

// Listener consumes MinIO bucket notifications and passes created objects to the handler
type Listener struct {
	Source     Source
	Handler    Handler
	Dedup      *Dedup
	Bucket     string
	Prefix     string
	Suffix     string
	RetryDelay time.Duration // delay before re-subscribing after the stream is closed
}

// Do listens for notifications until ctx is canceled, blocking call.
// Failed objects are logged and skipped, closed stream is re-subscribed after RetryDelay.
func (l *Listener) Do(ctx context.Context) error {
	if l.Source == nil || l.Handler == nil {
		return errors.New("listener source and handler are required")
	}
	retryDelay := l.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}

	log.Printf("[INFO] start bucket listener for %q, prefix %q, suffix %q", l.Bucket, l.Prefix, l.Suffix)
	for {
		l.consume(ctx, l.Source.Listen(ctx, l.Bucket, l.Prefix, l.Suffix, createdEvents))
		select {
		case <-ctx.Done():
			log.Printf("[INFO] bucket listener for %q stopped, %v", l.Bucket, ctx.Err())
			return ctx.Err()
		case <-time.After(retryDelay):
			log.Printf("[DEBUG] re-subscribe to %q notifications", l.Bucket)
		}
	}
}

// consume reads notifications until the channel is closed or ctx is done
func (l *Listener) consume(ctx context.Context, ch <-chan notification.Info) {
	for {
		select {
		case <-ctx.Done():
			return
		case info, ok := <-ch:
			if !ok {
				log.Printf("[WARN] notification stream for %q closed", l.Bucket)
				return
			}
			if info.Err != nil {
				log.Printf("[WARN] notification error for %q: %v", l.Bucket, info.Err)
				continue
			}
			objs, err := refs(info.Records)
			if err != nil {
				log.Printf("[WARN] bad notification for %q: %v", l.Bucket, err)
				continue
			}
			for _, st := range Dispatch(ctx, l.Handler, l.Dedup, objs) {
				if st.Error == "" && !st.Skipped {
					log.Printf("[INFO] handled %s", st.ObjectRef)
				}
			}
		}
	}
}
