// Package events receives S3 and MinIO bucket notifications and passes created objects to a handler.
// Notifications come either as webhook payloads, see Parse, or from MinIO ListenBucketNotification
// stream, see Listener. Redelivered notifications are filtered by Dedup.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	log "github.com/go-pkgz/lgr"
	"github.com/minio/minio-go/v7/pkg/notification"
)

// ObjectRef identifies a stored email object
type ObjectRef struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	Size      int64  `json:"size,omitempty"`
	ETag      string `json:"etag,omitempty"`
	Sequencer string `json:"-"`
}

func (r ObjectRef) String() string { return r.Bucket + "/" + r.Key }

// Handler processes a single object
type Handler interface {
	Handle(ctx context.Context, ref ObjectRef) error
}

// HandlerFunc is an adapter to use a function as Handler
type HandlerFunc func(ctx context.Context, ref ObjectRef) error

// Handle calls f(ctx, ref)
func (f HandlerFunc) Handle(ctx context.Context, ref ObjectRef) error { return f(ctx, ref) }

// Status is a result of dispatching a single object
type Status struct {
	ObjectRef
	Skipped bool   `json:"skipped,omitempty"` // already handled
	Error   string `json:"error,omitempty"`
}

// Parse decodes S3 or MinIO notification payload and returns refs of created objects.
// Object keys are URL-decoded, other events are ignored.
func Parse(data []byte) ([]ObjectRef, error) {
	var info notification.Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("can't unmarshal notification: %w", err)
	}
	return refs(info.Records)
}

// Dispatch passes refs to the handler one by one, skipping the ones seen by dedup.
// Handler errors are reported in statuses and don't stop dispatching.
func Dispatch(ctx context.Context, h Handler, dedup *Dedup, refs []ObjectRef) []Status {
	res := make([]Status, 0, len(refs))
	for _, ref := range refs {
		if ctx.Err() != nil {
			res = append(res, Status{ObjectRef: ref, Error: ctx.Err().Error()})
			continue
		}
		if dedup.Seen(ref) {
			log.Printf("[DEBUG] skip already handled %s", ref)
			res = append(res, Status{ObjectRef: ref, Skipped: true})
			continue
		}
		if err := handle(ctx, h, dedup, ref); err != nil {
			log.Printf("[WARN] failed to handle %s: %v", ref, err)
			res = append(res, Status{ObjectRef: ref, Error: err.Error()})
			continue
		}
		res = append(res, Status{ObjectRef: ref})
	}
	return res
}

// handle calls the handler, dedup forgets the object on error or panic to allow redelivery
func handle(ctx context.Context, h Handler, dedup *Dedup, ref ObjectRef) (err error) {
	ok := false
	defer func() {
		if !ok {
			dedup.Forget(ref)
		}
	}()
	err = h.Handle(ctx, ref)
	ok = err == nil
	return err
}

func refs(records []notification.Event) ([]ObjectRef, error) {
	res := make([]ObjectRef, 0, len(records))
	for _, rec := range records {
		if !isCreated(rec.EventName) {
			log.Printf("[DEBUG] ignore event %q for %s/%s", rec.EventName, rec.S3.Bucket.Name, rec.S3.Object.Key)
			continue
		}
		key, err := url.QueryUnescape(rec.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("can't decode object key %q: %w", rec.S3.Object.Key, err)
		}
		if rec.S3.Bucket.Name == "" || key == "" {
			return nil, fmt.Errorf("incomplete record for event %q, bucket %q, key %q", rec.EventName, rec.S3.Bucket.Name, key)
		}
		res = append(res, ObjectRef{Bucket: rec.S3.Bucket.Name, Key: key, Size: rec.S3.Object.Size,
			ETag: strings.Trim(rec.S3.Object.ETag, `"`), Sequencer: rec.S3.Object.Sequencer})
	}
	return res, nil
}

// isCreated checks for ObjectCreated:* events, with or without "s3:" prefix
func isCreated(name string) bool {
	return strings.HasPrefix(strings.TrimPrefix(name, "s3:"), "ObjectCreated:")
}
