package sheets

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/lineoa/line-msg-api/config"
	domainLogbook "github.com/lineoa/line-msg-api/domains/logbook"
)

const timestampLayout = "2006-01-02 15:04:05"

// Client appends message log rows to the configured spreadsheet. The
// service handle is nil when credentials are absent; every append checks
// for that and degrades to a warning, per the fire-and-forget contract.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
	logRange      string
	syncRange     string
	loc           *time.Location
	now           func() time.Time
}

// NewClient builds the appender from the global settings. Initialization
// failures are logged and leave the client unconfigured instead of
// failing startup: the webhook must answer even without a sheet.
func NewClient(ctx context.Context) *Client {
	client := &Client{
		spreadsheetID: config.GoogleSheetID,
		logRange:      config.SheetLogRange,
		syncRange:     config.SheetSyncRange,
		loc:           logLocation(),
		now:           time.Now,
	}

	if !config.HasSheetConfig() {
		logrus.Warn("[SHEETS] Google Sheets not configured; message log appends will be skipped")
		return client
	}

	svc, err := newService(ctx)
	if err != nil {
		logrus.Errorf("[SHEETS] Failed to initialize Google Sheets client: %v", err)
		return client
	}

	client.svc = svc
	logrus.Infof("[SHEETS] Message log ready (spreadsheet %s, range %s)", client.spreadsheetID, client.logRange)
	return client
}

func newService(ctx context.Context) (*sheetsapi.Service, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(config.GoogleCredentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("decode GOOGLE_CREDENTIALS_BASE64: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return svc, nil
}

func logLocation() *time.Location {
	offset := config.LogTimezoneOffsetHours
	return time.FixedZone(fmt.Sprintf("UTC%+d", offset), offset*3600)
}

// Configured reports whether appends will actually reach the spreadsheet.
func (c *Client) Configured() bool {
	return c.svc != nil && c.spreadsheetID != ""
}

// Append writes one 7-column row. Errors are logged and swallowed.
func (c *Client) Append(ctx context.Context, row domainLogbook.Row) {
	values := []any{
		c.timestamp(),
		string(row.Direction),
		row.UserID,
		row.DisplayName,
		row.MessageType,
		row.Content,
		row.MessageID,
	}
	c.append(ctx, c.logRange, values)
}

// AppendManual writes the short 4-column row used by the manual sync path.
func (c *Client) AppendManual(ctx context.Context, userID, text string) {
	values := []any{c.timestamp(), userID, "outgoing_manual", text}
	c.append(ctx, c.syncRange, values)
}

func (c *Client) append(ctx context.Context, appendRange string, values []any) {
	if !c.Configured() {
		logrus.Warn("[SHEETS] Google Sheets not configured; skipping append")
		return
	}

	valueRange := &sheetsapi.ValueRange{Values: [][]any{values}}
	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, appendRange, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		logrus.Errorf("[SHEETS] Append to %s failed: %v", appendRange, err)
		return
	}

	logrus.Debugf("[SHEETS] Appended row to %s", appendRange)
}

// timestamp renders the call-time clock in the fixed log offset, second
// precision, no zone suffix.
func (c *Client) timestamp() string {
	return c.now().In(c.loc).Format(timestampLayout)
}
