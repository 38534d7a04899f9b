package line

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/sirupsen/logrus"

	domainWebhook "github.com/lineoa/line-msg-api/domains/webhook"
	pkgError "github.com/lineoa/line-msg-api/pkg/error"
)

// Client wraps the LINE Messaging API behind the dispatcher's interface.
// The SDK manages its own HTTP client; the context parameters are kept on
// the interface so fakes and future transports can honor cancellation.
type Client struct {
	api *messaging_api.MessagingApiAPI
}

func NewClient(channelToken string) (domainWebhook.IChatClient, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("create LINE messaging client: %w", err)
	}

	return &Client{api: api}, nil
}

// ReplyText answers one event through its single-use reply token.
func (c *Client) ReplyText(_ context.Context, replyToken, text string) error {
	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return pkgError.UpstreamError(fmt.Sprintf("LINE reply failed: %v", err))
	}

	return nil
}

// GetDisplayName resolves the profile display name for a sender.
func (c *Client) GetDisplayName(_ context.Context, userID string) (string, error) {
	profile, err := c.api.GetProfile(userID)
	if err != nil {
		return "", pkgError.UpstreamError(fmt.Sprintf("LINE profile lookup failed: %v", err))
	}

	logrus.Debugf("[LINE] Resolved profile for %s", userID)
	return profile.DisplayName, nil
}
