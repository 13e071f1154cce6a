package email

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/homio-app/homio-backend/pkg/config"
)

const charsetUTF8 = "UTF-8"

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends simple (non-templated) email with the SES v2 API.
type SESSender struct {
	client  sesAPI
	from    string
	replyTo string
}

// NewSESSender loads the default AWS credential chain for cfg.Region.
func NewSESSender(ctx context.Context, cfg config.AWSConfig) (*SESSender, error) {
	if strings.TrimSpace(cfg.SESFromAddress) == "" {
		return nil, errors.New("ses from address is required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newSESSender(sesv2.NewFromConfig(awsCfg), cfg.SESFromAddress, cfg.SESReplyTo), nil
}

func newSESSender(client sesAPI, from, replyTo string) *SESSender {
	return &SESSender{
		client:  client,
		from:    strings.TrimSpace(from),
		replyTo: strings.TrimSpace(replyTo),
	}
}

func (s *SESSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}

	body := &types.Body{}
	if msg.HTML != "" {
		body.Html = content(msg.HTML)
	}
	if msg.Text != "" {
		body.Text = content(msg.Text)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{strings.TrimSpace(msg.To)},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: content(msg.Subject),
				Body:    body,
			},
		},
	}
	if s.replyTo != "" {
		input.ReplyToAddresses = []string{s.replyTo}
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("ses send email: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

func content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String(charsetUTF8)}
}
