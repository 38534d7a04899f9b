package line

import (
	"context"

	domainWebhook "github.com/lineoa/line-msg-api/domains/webhook"
	pkgError "github.com/lineoa/line-msg-api/pkg/error"
)

// noopClient stands in when LINE credentials are absent so the rest of
// the service can still boot. Every call fails as an upstream error,
// which callers already absorb.
type noopClient struct{}

func NewNoopClient() domainWebhook.IChatClient {
	return noopClient{}
}

func (noopClient) ReplyText(_ context.Context, _, _ string) error {
	return pkgError.UpstreamError("LINE client not configured")
}

func (noopClient) GetDisplayName(_ context.Context, _ string) (string, error) {
	return "", pkgError.UpstreamError("LINE client not configured")
}
