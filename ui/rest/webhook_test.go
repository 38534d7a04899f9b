package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/lineoa/line-msg-api/config"
	domainWebhook "github.com/lineoa/line-msg-api/domains/webhook"
	"github.com/lineoa/line-msg-api/validations"
)

// fakeWebhookService records calls; dispatch outcomes never influence the
// handler's response, so there is nothing to configure.
type fakeWebhookService struct {
	handledBatches [][]domainWebhook.Event
	manualRequests []domainWebhook.ManualLogRequest
}

func (f *fakeWebhookService) HandleEvents(_ context.Context, events []domainWebhook.Event) {
	f.handledBatches = append(f.handledBatches, events)
}

func (f *fakeWebhookService) LogManualMessage(ctx context.Context, request domainWebhook.ManualLogRequest) error {
	if err := validations.ValidateManualLog(ctx, request); err != nil {
		return err
	}
	f.manualRequests = append(f.manualRequests, request)
	return nil
}

func withLineCredentials(t *testing.T, token, secret string) {
	t.Helper()
	origToken, origSecret := config.LineChannelAccessToken, config.LineChannelSecret
	t.Cleanup(func() {
		config.LineChannelAccessToken = origToken
		config.LineChannelSecret = origSecret
	})
	config.LineChannelAccessToken = token
	config.LineChannelSecret = secret
}

func newWebhookApp(service domainWebhook.IWebhookUsecase) *fiber.App {
	app := fiber.New()
	InitRestWebhook(app, service)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body []byte) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error: %v", err)
	}
	respBody, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(respBody)
}

func TestHandleWebhook_MissingCredentials(t *testing.T) {
	withLineCredentials(t, "", "")
	app := newWebhookApp(&fakeWebhookService{})

	resp, body := postJSON(t, app, "/webhook", []byte(`{"events":[]}`))

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if body != `{"message":"Server configuration error: Missing credentials"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestHandleWebhook_MissingBody(t *testing.T) {
	withLineCredentials(t, "token", "secret")
	app := newWebhookApp(&fakeWebhookService{})

	resp, body := postJSON(t, app, "/webhook", nil)

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if body != `{"message":"No request body"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestHandleWebhook_EmptyEventsBatch(t *testing.T) {
	withLineCredentials(t, "token", "secret")
	service := &fakeWebhookService{}
	app := newWebhookApp(service)

	resp, body := postJSON(t, app, "/webhook", []byte(`{"events":[]}`))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if body != `{"status":"success"}` {
		t.Fatalf("unexpected body: %s", body)
	}
	if len(service.handledBatches) != 1 || len(service.handledBatches[0]) != 0 {
		t.Fatalf("unexpected dispatch record: %+v", service.handledBatches)
	}
}

func TestHandleWebhook_MalformedJSON(t *testing.T) {
	withLineCredentials(t, "token", "secret")
	app := newWebhookApp(&fakeWebhookService{})

	resp, body := postJSON(t, app, "/webhook", []byte(`{"events": [`))

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if body != `{"message":"Error processing webhook"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestHandleWebhook_MissingEventsArray(t *testing.T) {
	withLineCredentials(t, "token", "secret")
	service := &fakeWebhookService{}
	app := newWebhookApp(service)

	resp, _ := postJSON(t, app, "/webhook", []byte(`{"destination":"U0"}`))

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if len(service.handledBatches) != 0 {
		t.Fatal("dispatcher must not run for a payload without events")
	}
}

func TestHandleWebhook_DispatchesParsedEvents(t *testing.T) {
	withLineCredentials(t, "token", "secret")
	service := &fakeWebhookService{}
	app := newWebhookApp(service)

	payload := []byte(`{"events":[{
		"type":"message",
		"replyToken":"t1",
		"source":{"userId":"U1"},
		"message":{"type":"text","id":"m1","text":"hello"}
	}]}`)
	resp, body := postJSON(t, app, "/webhook", payload)

	if resp.StatusCode != http.StatusOK || body != `{"status":"success"}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}

	if len(service.handledBatches) != 1 {
		t.Fatalf("expected one dispatched batch, got %d", len(service.handledBatches))
	}
	events := service.handledBatches[0]
	if len(events) != 1 || events[0].Source.UserID != "U1" {
		t.Fatalf("unexpected events: %+v", events)
	}
	if _, ok := events[0].Message.(domainWebhook.TextMessage); !ok {
		t.Fatalf("expected TextMessage, got %T", events[0].Message)
	}
}

func TestHandleWebhookLogger_WorksWithoutCredentials(t *testing.T) {
	withLineCredentials(t, "", "")
	app := newWebhookApp(&fakeWebhookService{})

	resp, body := postJSON(t, app, "/webhook-logger", []byte(`{"events":[{"type":"follow"}]}`))

	if resp.StatusCode != http.StatusOK || body != `{"status":"success"}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}
}

func TestHandleWebhookLogger_MissingBody(t *testing.T) {
	app := newWebhookApp(&fakeWebhookService{})

	resp, body := postJSON(t, app, "/webhook-logger", nil)

	if resp.StatusCode != http.StatusBadRequest || body != `{"message":"No request body"}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}
}

func TestLogManualMessage_Success(t *testing.T) {
	service := &fakeWebhookService{}
	app := newWebhookApp(service)

	resp, body := postJSON(t, app, "/log-manual-message", []byte(`{"userId":"U1","message":"hi"}`))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}

	var envelope struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Status != "success" || envelope.Message != "Manual message logged successfully" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}

	if len(service.manualRequests) != 1 || service.manualRequests[0].UserID != "U1" {
		t.Fatalf("unexpected manual requests: %+v", service.manualRequests)
	}
}

func TestLogManualMessage_MissingFields(t *testing.T) {
	service := &fakeWebhookService{}
	app := newWebhookApp(service)

	resp, body := postJSON(t, app, "/log-manual-message", []byte(`{"userId":"U1"}`))

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if body != `{"message":"userId and message are required"}` {
		t.Fatalf("unexpected body: %s", body)
	}
	if len(service.manualRequests) != 0 {
		t.Fatal("invalid request must not be logged")
	}
}

func TestLogManualMessage_MissingBody(t *testing.T) {
	app := newWebhookApp(&fakeWebhookService{})

	resp, body := postJSON(t, app, "/log-manual-message", nil)

	if resp.StatusCode != http.StatusBadRequest || body != `{"message":"No request body"}` {
		t.Fatalf("unexpected response %d %s", resp.StatusCode, body)
	}
}
