package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// emailAPITimeout bounds one send call.
const emailAPITimeout = 15 * time.Second

// EmailClient sends mail through the Gmail API using a stored OAuth
// token. Token refresh is handled by the oauth2 token source.
type EmailClient struct {
	svc *gmail.Service
}

// NewEmailClient creates a Gmail send client from an OAuth client JSON
// and a stored token JSON. Returns ErrNotConfigured when either path
// is empty.
func NewEmailClient(ctx context.Context, credentialsPath, tokenPath string) (*EmailClient, error) {
	if credentialsPath == "" || tokenPath == "" {
		return nil, ErrNotConfigured
	}

	clientJSON, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials file: %w", err)
	}

	tokenData, err := os.ReadFile(tokenPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token file: %w", err)
	}

	// Token source auto-refreshes against the stored refresh token
	tokenSource := oauthConfig.TokenSource(ctx, &token)
	httpClient := oauth2.NewClient(ctx, tokenSource)

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &EmailClient{svc: svc}, nil
}

// Send delivers one message. All three fields are required; the
// interpreter guarantees that by rejecting partial extractions.
func (c *EmailClient) Send(ctx context.Context, recipient, subject, body string) error {
	ctx, cancel := context.WithTimeout(ctx, emailAPITimeout)
	defer cancel()

	msg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(buildMIME(recipient, subject, body)),
	}

	if _, err := c.svc.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail send failed: %w", err)
	}
	return nil
}

// buildMIME assembles a minimal RFC 822 message.
func buildMIME(recipient, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("To: " + recipient + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
