package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	AppVersion  = "v1.2.0"
	AppPort     = "3000"
	AppDebug    = false
	AppOs       = "LineOA"
	AppBasePath = ""

	// LINE Messaging API credentials. Both must be present for the
	// webhook endpoint to accept traffic.
	LineChannelAccessToken string
	LineChannelSecret      string

	// Google Sheets message log. Credentials are the service-account
	// JSON, base64 encoded.
	GoogleSheetID           string
	GoogleCredentialsBase64 string

	SheetLogRange  = "Sheet1!A:G"
	SheetSyncRange = "Sheet1!A:D"

	// Log rows carry a wall-clock timestamp shifted to a fixed offset
	// (hours east of UTC), no DST handling.
	LogTimezoneOffsetHours = 7

	// Event Worker Pool settings
	EventWorkerPoolSize  = 8
	EventWorkerQueueSize = 256
)

// Load reads the .env file (when present) and environment variables into
// the package-level settings. Called once from the cobra root command.
func Load() {
	if err := godotenv.Load(); err != nil {
		logrus.Debugf("[CONFIG] No .env file loaded: %v", err)
	}

	viper.AutomaticEnv()

	if v := viper.GetString("APP_PORT"); v != "" {
		AppPort = v
	}
	if viper.GetBool("APP_DEBUG") {
		AppDebug = true
	}
	if v := viper.GetString("APP_BASE_PATH"); v != "" {
		AppBasePath = v
	}

	LineChannelAccessToken = strings.TrimSpace(viper.GetString("LINE_CHANNEL_ACCESS_TOKEN"))
	LineChannelSecret = strings.TrimSpace(viper.GetString("LINE_CHANNEL_SECRET"))

	GoogleSheetID = strings.TrimSpace(viper.GetString("GOOGLE_SHEET_ID"))
	GoogleCredentialsBase64 = strings.TrimSpace(viper.GetString("GOOGLE_CREDENTIALS_BASE64"))
	if v := viper.GetString("SHEET_LOG_RANGE"); v != "" {
		SheetLogRange = v
	}
	if v := viper.GetString("SHEET_SYNC_RANGE"); v != "" {
		SheetSyncRange = v
	}

	if v := os.Getenv("LOG_TIMEZONE_OFFSET_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= -12 && n <= 14 {
			LogTimezoneOffsetHours = n
		}
	}

	if v := os.Getenv("EVENT_WORKER_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			EventWorkerPoolSize = n
		}
	}
	if v := os.Getenv("EVENT_WORKER_QUEUE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			EventWorkerQueueSize = n
		}
	}
}

// HasLineCredentials reports whether both LINE credentials are configured.
func HasLineCredentials() bool {
	return LineChannelAccessToken != "" && LineChannelSecret != ""
}

// HasSheetConfig reports whether the spreadsheet log is configured.
func HasSheetConfig() bool {
	return GoogleSheetID != "" && GoogleCredentialsBase64 != ""
}
