// Package mail extracts plain text from incoming email messages and delivers notifications back
// to the sender. Extraction is done by go-message, the body is taken from the first text/plain part
// or, if there is none, from the first text/html part converted to text.
package mail

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset" // register non-utf8 charsets
	gomail "github.com/emersion/go-message/mail"
	"github.com/k3a/html2text"
)

// Message is a subset of incoming email needed to classify it and reply to the sender.
type Message struct {
	ReplyTo string // address to send notification to
	Date    string // raw Date header
	Subject string // decoded subject
	Body    string // plain text body, lines joined with spaces
}

// ErrNoReplyAddress is returned if the message has no address to reply to
var ErrNoReplyAddress = errors.New("no reply address")

// Parse reads raw RFC 5322 message and extracts reply address, date, subject and plain text body.
// Reply address is taken from Return-Path, Reply-To or From, in this order.
func Parse(r io.Reader) (Message, error) {
	mr, err := gomail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return Message{}, fmt.Errorf("can't read message: %w", err)
	}
	defer mr.Close()

	res := Message{Date: strings.TrimSpace(mr.Header.Get("Date"))}
	if res.Subject, err = mr.Header.Subject(); err != nil {
		res.Subject = mr.Header.Get("Subject") // keep raw subject if it can't be decoded
	}

	if res.ReplyTo, err = replyAddress(mr.Header); err != nil {
		return Message{}, err
	}

	var plain, html *string
	for plain == nil {
		p, perr := mr.NextPart()
		if errors.Is(perr, io.EOF) {
			break
		}
		if perr != nil && !message.IsUnknownCharset(perr) {
			return Message{}, fmt.Errorf("can't read message part: %w", perr)
		}
		h, ok := p.Header.(*gomail.InlineHeader)
		if !ok {
			continue // attachment
		}
		mediaType, _, cerr := h.ContentType()
		if cerr != nil {
			mediaType = "text/plain" // default content type per rfc 2045
		}
		if mediaType != "text/plain" && (mediaType != "text/html" || html != nil) {
			continue
		}
		data, rerr := io.ReadAll(p.Body)
		if rerr != nil {
			return Message{}, fmt.Errorf("can't read %s part: %w", mediaType, rerr)
		}
		s := string(data)
		if mediaType == "text/plain" {
			plain = &s
			continue
		}
		html = &s
	}

	switch {
	case plain != nil:
		res.Body = joinLines(*plain)
	case html != nil:
		res.Body = joinLines(html2text.HTML2Text(*html))
	}
	return res, nil
}

// Sample returns first n characters (runes) of the text
func Sample(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}

func replyAddress(h gomail.Header) (string, error) {
	for _, name := range []string{"Return-Path", "Reply-To", "From"} {
		if strings.TrimSpace(h.Get(name)) == "" {
			continue
		}
		addrs, err := h.AddressList(name)
		if err != nil {
			// return-path may be a bare address or "<>" for bounces, try to take it as is
			if addr := strings.Trim(strings.TrimSpace(h.Get(name)), "<>"); addr != "" && strings.Contains(addr, "@") {
				return addr, nil
			}
			continue
		}
		if len(addrs) > 0 && addrs[0].Address != "" {
			return addrs[0].Address, nil
		}
	}
	return "", ErrNoReplyAddress
}

// joinLines replaces line breaks with spaces and trims the result
func joinLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return strings.TrimSpace(strings.Join(lines, " "))
}
