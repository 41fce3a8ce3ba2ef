package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charsetUTF8 = "UTF-8"

// sesAPI is the subset of the SES client used here; tests substitute a fake.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailer sends emails through Amazon SES from a fixed sender address.
type SESMailer struct {
	client sesAPI
	sender string
}

// NewSESMailer builds an SES-backed mailer for the given region and sender.
func NewSESMailer(ctx context.Context, region, sender string) (*SESMailer, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	return &SESMailer{client: ses.NewFromConfig(awsCfg), sender: sender}, nil
}

func (m *SESMailer) SendPasswordResetEmail(ctx context.Context, email string, link string) error {
	htmlBody := "<html><body>" +
		"<p>Someone, perhaps you, requested to reset the Key Backup Service password for <b>" + email + "</b></p>" +
		"<p>If you DID NOT request a password reset, please ignore this email.</p>" +
		"<p>If you DO wish to reset your Key Backup Service password, please visit" +
		" <a href='" + link + "'>" + link + "</a></p>" +
		"</body></html>"

	const crlf = "\r\n"
	textBody := "Someone, perhaps you, requested to reset the Key Backup Service password for " + email + crlf + crlf +
		"If you DID NOT request a password reset, please ignore this email." + crlf + crlf +
		"If you DO wish to reset your Key Backup Service password, please visit:" + crlf + "  " + link

	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Body: &types.Body{
				Html: &types.Content{Charset: aws.String(charsetUTF8), Data: aws.String(htmlBody)},
				Text: &types.Content{Charset: aws.String(charsetUTF8), Data: aws.String(textBody)},
			},
			Subject: &types.Content{
				Charset: aws.String(charsetUTF8),
				Data:    aws.String("You Requested a Password Reset for the Key Backup Service"),
			},
		},
		Source: aws.String(m.sender),
	})
	if err != nil {
		return fmt.Errorf("ses send to %q: %w", email, err)
	}
	return nil
}
