// Package pipeline classifies stored email messages and notifies senders about the result.
// Processing of a single message is fetch, parse, encode, predict, render and send. Any failed
// step aborts processing of the message, so no notification is sent for a partially processed one.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/spamham/app/events"
	"github.com/umputun/spamham/app/mail"
	"github.com/umputun/spamham/lib"
	"github.com/umputun/spamham/lib/encoder"
	"github.com/umputun/spamham/lib/spamcheck"
)

//go:generate moq --out mocks/store.go --pkg mocks --skip-ensure --with-resets . Store
//go:generate moq --out mocks/predictor.go --pkg mocks --skip-ensure --with-resets . Predictor
//go:generate moq --out mocks/sender.go --pkg mocks --skip-ensure --with-resets . Sender
//go:generate moq --out mocks/renderer.go --pkg mocks --skip-ensure --with-resets . Renderer

// Store returns raw message by bucket and key
type Store interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// Predictor classifies encoded messages, one result per matrix row
type Predictor interface {
	Predict(ctx context.Context, m *encoder.Matrix) ([]spamcheck.Result, error)
}

// Sender delivers notification
type Sender interface {
	Send(ctx context.Context, n mail.Notification) error
}

// Renderer makes notification for the message and classification result
type Renderer interface {
	Render(msg mail.Message, res spamcheck.Result) (mail.Notification, error)
}

// Processor classifies messages and sends notifications
type Processor struct {
	Store          Store
	Predictor      Predictor
	Sender         Sender
	Renderer       Renderer
	Encoder        *encoder.Encoder // custom encoder, lib.Encode if nil
	VocabularySize int              // lib.DefaultVocabularySize if 0
	Dry            bool             // don't send notifications, log only
}

// Report is a result of processing a single message
type Report struct {
	Object       events.ObjectRef  `json:"object"`
	Message      mail.Message      `json:"message"`
	Result       spamcheck.Result  `json:"result"`
	Notification mail.Notification `json:"notification"`
	Sent         bool              `json:"sent"`
}

// Handle processes stored object, implements events.Handler
func (p *Processor) Handle(ctx context.Context, ref events.ObjectRef) error {
	rep, err := p.Process(ctx, ref)
	if err != nil {
		return err
	}
	log.Printf("[INFO] %s from %s, subject %q: %s, notified: %v", ref, rep.Message.ReplyTo, rep.Message.Subject,
		rep.Result, rep.Sent)
	return nil
}

// Process fetches stored message and processes it
func (p *Processor) Process(ctx context.Context, ref events.ObjectRef) (Report, error) {
	if p.Store == nil {
		return Report{}, errors.New("store not configured")
	}
	raw, err := p.Store.Fetch(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return Report{}, fmt.Errorf("can't fetch %s: %w", ref, err)
	}
	rep, err := p.ProcessMessage(ctx, raw)
	if err != nil {
		return Report{}, fmt.Errorf("can't process %s: %w", ref, err)
	}
	rep.Object = ref
	return rep, nil
}

// ProcessMessage classifies raw email and sends notification to the reply address
func (p *Processor) ProcessMessage(ctx context.Context, raw []byte) (Report, error) {
	if p.Renderer == nil || p.Sender == nil {
		return Report{}, errors.New("renderer and sender are required")
	}
	msg, err := mail.Parse(bytes.NewReader(raw))
	if err != nil {
		return Report{}, fmt.Errorf("can't parse message: %w", err)
	}
	res, err := p.Classify(ctx, msg.Body)
	if err != nil {
		return Report{}, err
	}
	n, err := p.Renderer.Render(msg, res)
	if err != nil {
		return Report{}, fmt.Errorf("can't render notification: %w", err)
	}

	rep := Report{Message: msg, Result: res, Notification: n}
	if p.Dry {
		log.Printf("[INFO] dry mode, notification to %s not sent", n.To)
		return rep, nil
	}
	if err := p.Sender.Send(ctx, n); err != nil {
		return Report{}, fmt.Errorf("can't send notification to %s: %w", n.To, err)
	}
	rep.Sent = true
	return rep, nil
}

// Classify encodes text and gets classification result for it
func (p *Processor) Classify(ctx context.Context, text string) (spamcheck.Result, error) {
	if p.Predictor == nil {
		return spamcheck.Result{}, errors.New("predictor not configured")
	}
	size := p.VocabularySize
	if size == 0 {
		size = lib.DefaultVocabularySize
	}

	var m *lib.Matrix
	var err error
	if p.Encoder != nil {
		m, err = p.Encoder.Encode([]string{text}, size)
	} else {
		m, err = lib.Encode([]string{text}, size)
	}
	if err != nil {
		return spamcheck.Result{}, fmt.Errorf("can't encode message: %w", err)
	}
	res, err := p.Predictor.Predict(ctx, m)
	if err != nil {
		return spamcheck.Result{}, fmt.Errorf("can't classify message: %w", err)
	}
	if len(res) != 1 {
		return spamcheck.Result{}, fmt.Errorf("expected 1 classification result, got %d", len(res))
	}
	return res[0], nil
}
