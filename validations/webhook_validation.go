package validations

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	domainWebhook "github.com/lineoa/line-msg-api/domains/webhook"
	pkgError "github.com/lineoa/line-msg-api/pkg/error"
)

func ValidateManualLog(ctx context.Context, request domainWebhook.ManualLogRequest) error {
	err := validation.ValidateStructWithContext(ctx, &request,
		validation.Field(&request.UserID, validation.Required),
		validation.Field(&request.Message, validation.Required),
	)

	if err != nil {
		return pkgError.ValidationError("userId and message are required")
	}

	return nil
}
