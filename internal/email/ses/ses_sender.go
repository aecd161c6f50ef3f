package ses

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"faktura/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) Send(ctx context.Context, msg port.OutboundEmail) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	// Messages without an attachment go out as simple content; attachments
	// require a raw MIME message.
	if len(msg.Attachment) == 0 {
		_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
			FromEmailAddress: &from,
			Destination: &types.Destination{
				ToAddresses: []string{msg.To},
			},
			Content: &types.EmailContent{
				Simple: &types.Message{
					Subject: &types.Content{Data: &msg.Subject},
					Body: &types.Body{
						Text: &types.Content{Data: &msg.Body},
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("SES SendEmail: %w", err)
		}
		return nil
	}

	raw, err := buildRawMessage(from, msg)
	if err != nil {
		return fmt.Errorf("building MIME message: %w", err)
	}

	_, err = s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail raw: %w", err)
	}
	return nil
}

// buildRawMessage assembles a multipart/mixed MIME message with a text body
// and one attachment.
func buildRawMessage(from string, msg port.OutboundEmail) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=UTF-8")
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	contentType := msg.AttachmentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	attachHeader := textproto.MIMEHeader{}
	attachHeader.Set("Content-Type", contentType)
	attachHeader.Set("Content-Transfer-Encoding", "base64")
	attachHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", msg.AttachmentName))
	attachPart, err := writer.CreatePart(attachHeader)
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(msg.Attachment)
	for len(encoded) > 0 {
		line := encoded
		if len(line) > 76 {
			line = line[:76]
		}
		if _, err := attachPart.Write([]byte(line + "\r\n")); err != nil {
			return nil, err
		}
		encoded = encoded[len(line):]
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
