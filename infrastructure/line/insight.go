package line

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const insightDeliveryURL = "https://api.line.me/v2/bot/insight/message/delivery"

// Swapped out by tests.
var insightHTTPClient = &http.Client{Timeout: 15 * time.Second}

// DeliveryStats is the LINE Insight message-delivery report for one day.
// The Insight API only exposes aggregates, not message content.
type DeliveryStats struct {
	Status          string `json:"status"`
	Broadcast       int64  `json:"broadcast"`
	Targeting       int64  `json:"targeting"`
	AutoResponse    int64  `json:"autoResponse"`
	WelcomeResponse int64  `json:"welcomeResponse"`
	Chat            int64  `json:"chat"`
	APIBroadcast    int64  `json:"apiBroadcast"`
	APIPush         int64  `json:"apiPush"`
	APIMulticast    int64  `json:"apiMulticast"`
	APINarrowcast   int64  `json:"apiNarrowcast"`
	APIReply        int64  `json:"apiReply"`
}

// FetchDeliveryStats queries the Insight API for the given date (YYYYMMDD).
func FetchDeliveryStats(ctx context.Context, channelToken, date string) (DeliveryStats, error) {
	var stats DeliveryStats

	url := fmt.Sprintf("%s?date=%s", insightDeliveryURL, date)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return stats, err
	}
	req.Header.Set("Authorization", "Bearer "+channelToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := insightHTTPClient.Do(req)
	if err != nil {
		return stats, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return stats, err
	}

	if resp.StatusCode != http.StatusOK {
		return stats, fmt.Errorf("insight API returned %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, &stats); err != nil {
		return stats, fmt.Errorf("decode insight response: %w", err)
	}

	return stats, nil
}
