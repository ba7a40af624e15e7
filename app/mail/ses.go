package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	log "github.com/go-pkgz/lgr"
)

//go:generate moq --out mocks/ses_client.go --pkg mocks --skip-ensure --with-resets . SESClient

// SESClient is a subset of AWS SES v2 client, satisfied by *sesv2.Client
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers notifications with AWS SES
type SESSender struct {
	Client SESClient
	From   string
}

// Send notification as a simple text email
func (s *SESSender) Send(ctx context.Context, n Notification) error {
	if s.Client == nil {
		return errors.New("ses client not configured")
	}
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.From),
		Destination:      &types.Destination{ToAddresses: []string{n.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(n.Subject), Charset: aws.String("UTF-8")},
				Body:    &types.Body{Text: &types.Content{Data: aws.String(n.Body), Charset: aws.String("UTF-8")}},
			},
		},
	}
	resp, err := s.Client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("can't send email to %s with ses: %w", n.To, err)
	}
	msgID := ""
	if resp != nil {
		msgID = aws.ToString(resp.MessageId)
	}
	log.Printf("[DEBUG] notification sent to %s via ses, message id %q", n.To, msgID)
	return nil
}
