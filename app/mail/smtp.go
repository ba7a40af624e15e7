package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	gomail "github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	log "github.com/go-pkgz/lgr"
)

// SMTPSender delivers notifications with SMTP
type SMTPSender struct {
	Host               string // host:port
	Username           string // PLAIN auth is used if set
	Password           string
	From               string
	TLS                bool // implicit tls, usually port 465
	StartTLS           bool // upgrade with STARTTLS, usually port 587
	InsecureSkipVerify bool
	Timeout            time.Duration // command timeout
}

// Send composes notification email and delivers it to the SMTP server
func (s *SMTPSender) Send(ctx context.Context, n Notification) error {
	if s.Host == "" {
		return errors.New("smtp host not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := bytes.Buffer{}
	if err := s.compose(&buf, n, time.Now()); err != nil {
		return fmt.Errorf("can't compose message: %w", err)
	}

	c, err := s.dial()
	if err != nil {
		return fmt.Errorf("can't connect to %s: %w", s.Host, err)
	}
	defer c.Close()
	if s.Timeout > 0 {
		c.CommandTimeout = s.Timeout
		c.SubmissionTimeout = s.Timeout
	}

	if s.Username != "" {
		if err = c.Auth(sasl.NewPlainClient("", s.Username, s.Password)); err != nil {
			return fmt.Errorf("can't authenticate as %s: %w", s.Username, err)
		}
	}
	if err = c.Mail(s.From, nil); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = c.Rcpt(n.To, nil); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}
	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("failed to start data: %w", err)
	}
	if _, err = io.Copy(wc, &buf); err != nil {
		_ = wc.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	if err = c.Quit(); err != nil {
		// message already accepted
		log.Printf("[WARN] failed to send QUIT to %s: %v", s.Host, err)
	}
	log.Printf("[DEBUG] notification sent to %s via %s", n.To, s.Host)
	return nil
}

func (s *SMTPSender) dial() (*smtp.Client, error) {
	host, _, err := net.SplitHostPort(s.Host)
	if err != nil {
		host = s.Host
	}
	tlsConfig := &tls.Config{
		ServerName:         host,
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: s.InsecureSkipVerify, //nolint:gosec // optional, for self-signed relays
	}
	switch {
	case s.TLS:
		return smtp.DialTLS(s.Host, tlsConfig)
	case s.StartTLS:
		return smtp.DialStartTLS(s.Host, tlsConfig)
	default:
		return smtp.Dial(s.Host)
	}
}

// compose writes notification as RFC 5322 message with a single text/plain part
func (s *SMTPSender) compose(w io.Writer, n Notification, ts time.Time) error {
	var h gomail.Header
	h.SetDate(ts)
	h.SetAddressList("From", []*gomail.Address{{Address: s.From}})
	h.SetAddressList("To", []*gomail.Address{{Address: n.To}})
	h.SetSubject(n.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return fmt.Errorf("can't generate message id: %w", err)
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	wr, err := gomail.CreateSingleInlineWriter(w, h)
	if err != nil {
		return err
	}
	if _, err = io.WriteString(wr, n.Body); err != nil {
		return err
	}
	return wr.Close()
}
