package mail

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"text/template"

	"github.com/fsnotify/fsnotify"
	log "github.com/go-pkgz/lgr"

	"github.com/umputun/spamham/lib/spamcheck"
)

// SampleSize is a number of body characters included into notification
const SampleSize = 240

// DefaultSubject is a default subject of notification email
const DefaultSubject = "Spam Protection Services"

// Notification is an email to send
type Notification struct {
	To      string
	Subject string
	Body    string
}

// defaultTemplate renders notification text, wording follows the original service
const defaultTemplate = `We received your email sent at {{.Date}} with the subject {{.Subject}}.

Here is a {{.SampleSize}} character sample of the email body:

{{.Sample}}

The email was categorized as {{.Label}} with a {{printf "%.2f" .Confidence}}% confidence.
`

// TemplateData is passed to notification template
type TemplateData struct {
	Date       string
	Subject    string
	Sample     string
	SampleSize int
	Label      spamcheck.Label
	Confidence float64
}

// Renderer makes notification from a message and classification result.
// Template can be loaded from a file and reloaded on change, thread-safe.
type Renderer struct {
	Subject      string // notification subject, DefaultSubject if empty
	TemplateFile string // optional file with text/template, default template used if empty

	lock sync.RWMutex
	tmpl *template.Template
}

// NewRenderer makes Renderer and loads template file if set
func NewRenderer(subject, templateFile string) (*Renderer, error) {
	res := &Renderer{Subject: subject, TemplateFile: templateFile}
	if res.Subject == "" {
		res.Subject = DefaultSubject
	}
	tmpl, err := template.New("notification").Parse(defaultTemplate)
	if err != nil {
		return nil, fmt.Errorf("can't parse default template: %w", err)
	}
	res.tmpl = tmpl
	if templateFile != "" {
		if err := res.Reload(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Render makes notification for the message
func (r *Renderer) Render(msg Message, res spamcheck.Result) (Notification, error) {
	data := TemplateData{
		Date:       msg.Date,
		Subject:    msg.Subject,
		Sample:     Sample(msg.Body, SampleSize),
		SampleSize: SampleSize,
		Label:      res.Label,
		Confidence: res.Confidence(),
	}

	r.lock.RLock()
	tmpl := r.tmpl
	r.lock.RUnlock()

	buf := bytes.Buffer{}
	if err := tmpl.Execute(&buf, data); err != nil {
		return Notification{}, fmt.Errorf("can't render notification: %w", err)
	}
	return Notification{To: msg.ReplyTo, Subject: r.Subject, Body: buf.String()}, nil
}

// Reload reads and parses template file. On error the current template is kept.
func (r *Renderer) Reload() error {
	data, err := os.ReadFile(r.TemplateFile)
	if err != nil {
		return fmt.Errorf("can't read template %s: %w", r.TemplateFile, err)
	}
	tmpl, err := template.New("notification").Parse(string(data))
	if err != nil {
		return fmt.Errorf("can't parse template %s: %w", r.TemplateFile, err)
	}
	r.lock.Lock()
	r.tmpl = tmpl
	r.lock.Unlock()
	log.Printf("[INFO] notification template loaded from %s", r.TemplateFile)
	return nil
}

// Watch reloads template file on change until ctx is done, blocking call.
// Does nothing if template file is not set.
func (r *Renderer) Watch(ctx context.Context) error {
	if r.TemplateFile == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err = watcher.Add(r.TemplateFile); err != nil {
		return fmt.Errorf("failed to add %s to watcher: %w", r.TemplateFile, err)
	}
	log.Printf("[DEBUG] watching template %s", r.TemplateFile)

	for {
		select {
		case <-ctx.Done():
			log.Printf("[INFO] stopping watcher for %s, %v", r.TemplateFile, ctx.Err())
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if e := r.Reload(); e != nil {
					log.Printf("[WARN] failed to reload template: %v", e)
				}
			}
		case e, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[WARN] watcher error: %v", e)
		}
	}
}
