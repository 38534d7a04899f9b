package rest

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/lineoa/line-msg-api/config"
	domainWebhook "github.com/lineoa/line-msg-api/domains/webhook"
	pkgError "github.com/lineoa/line-msg-api/pkg/error"
)

type Webhook struct {
	Service domainWebhook.IWebhookUsecase
}

func InitRestWebhook(app fiber.Router, service domainWebhook.IWebhookUsecase) Webhook {
	rest := Webhook{Service: service}
	app.Post("/webhook", rest.HandleWebhook)
	app.Post("/webhook-logger", rest.HandleWebhookLogger)
	app.Post("/log-manual-message", rest.LogManualMessage)

	return rest
}

// HandleWebhook answers the LINE platform with the exact envelopes its
// integration expects: 200 {"status":"success"} on any dispatched batch,
// configuration and parse failures as 500, a missing body as 400.
func (handler *Webhook) HandleWebhook(c *fiber.Ctx) error {
	if !config.HasLineCredentials() {
		logrus.Error("[WEBHOOK] Missing LINE credentials. Please check your configuration.")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server configuration error: Missing credentials",
		})
	}

	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No request body",
		})
	}

	var request domainWebhook.WebhookRequest
	if err := json.Unmarshal(body, &request); err != nil {
		logrus.Errorf("[WEBHOOK] Error processing webhook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error processing webhook",
		})
	}

	// A payload without an events array is malformed, an empty array is
	// a valid no-op batch.
	if request.Events == nil {
		logrus.Error("[WEBHOOK] Webhook payload has no events array")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error processing webhook",
		})
	}

	handler.Service.HandleEvents(c.UserContext(), request.Events)

	return c.JSON(fiber.Map{"status": "success"})
}

// HandleWebhookLogger is the logging-only variant: it records every raw
// event and neither replies nor appends sheet rows.
func (handler *Webhook) HandleWebhookLogger(c *fiber.Ctx) error {
	logrus.Infof("[WEBHOOK_LOGGER] Channel Access Token: %s", loadedLabel(config.LineChannelAccessToken != ""))
	logrus.Infof("[WEBHOOK_LOGGER] Channel Secret: %s", loadedLabel(config.LineChannelSecret != ""))

	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No request body",
		})
	}

	var request struct {
		Events []json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(body, &request); err != nil {
		logrus.Errorf("[WEBHOOK_LOGGER] Error processing webhook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error processing webhook",
		})
	}

	for _, event := range request.Events {
		logrus.Infof("[WEBHOOK_LOGGER] Parsed LINE webhook event: %s", string(event))
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// LogManualMessage records one out-of-band outgoing message, bypassing
// the chat platform entirely.
func (handler *Webhook) LogManualMessage(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No request body",
		})
	}

	var request domainWebhook.ManualLogRequest
	if err := json.Unmarshal(body, &request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "userId and message are required",
		})
	}

	if err := handler.Service.LogManualMessage(c.UserContext(), request); err != nil {
		if validationErr, ok := err.(pkgError.ValidationError); ok {
			return c.Status(validationErr.StatusCode()).JSON(fiber.Map{
				"message": validationErr.Error(),
			})
		}

		logrus.Errorf("[WEBHOOK] Error logging manual message: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Error logging manual message",
		})
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Manual message logged successfully",
	})
}

func loadedLabel(loaded bool) string {
	if loaded {
		return "Loaded"
	}
	return "Not Loaded"
}
