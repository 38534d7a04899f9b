package webhook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventUnmarshal_TextMessage(t *testing.T) {
	payload := []byte(`{
		"type": "message",
		"replyToken": "token-123",
		"source": {"userId": "U1"},
		"timestamp": 1658234567890,
		"message": {"type": "text", "id": "m1", "text": "hello"}
	}`)

	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))

	assert.Equal(t, EventTypeMessage, event.Type)
	assert.Equal(t, "token-123", event.ReplyToken)
	assert.Equal(t, "U1", event.Source.UserID)

	text, ok := event.Message.(TextMessage)
	require.True(t, ok, "expected TextMessage, got %T", event.Message)
	assert.Equal(t, "m1", text.ID)
	assert.Equal(t, "hello", text.Text)
	assert.Equal(t, "hello", text.Summary())
}

func TestEventUnmarshal_LocationMessage(t *testing.T) {
	payload := []byte(`{
		"type": "message",
		"source": {"userId": "U1"},
		"message": {"type": "location", "id": "m2", "title": "Office", "address": "Bangkok", "latitude": 13.75, "longitude": 100.5}
	}`)

	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))

	loc, ok := event.Message.(LocationMessage)
	require.True(t, ok, "expected LocationMessage, got %T", event.Message)
	assert.Equal(t, "Location: Office (13.75, 100.5)", loc.Summary())
}

func TestEventUnmarshal_StickerMessage(t *testing.T) {
	payload := []byte(`{
		"type": "message",
		"source": {"userId": "U1"},
		"message": {"type": "sticker", "id": "m3", "packageId": "446", "stickerId": "1988"}
	}`)

	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))

	sticker, ok := event.Message.(StickerMessage)
	require.True(t, ok, "expected StickerMessage, got %T", event.Message)
	assert.Equal(t, "Sticker: Package 446, Sticker 1988", sticker.Summary())
}

func TestEventUnmarshal_UnknownMessageType(t *testing.T) {
	payload := []byte(`{
		"type": "message",
		"source": {"userId": "U1"},
		"message": {"type": "imagemap", "id": "m4"}
	}`)

	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))

	unknown, ok := event.Message.(UnknownMessage)
	require.True(t, ok, "expected UnknownMessage, got %T", event.Message)
	assert.Equal(t, "imagemap", unknown.MessageType())
	assert.Equal(t, "imagemap message", unknown.Summary())
}

func TestEventUnmarshal_NonMessageEvent(t *testing.T) {
	payload := []byte(`{"type": "follow", "source": {"userId": "U9"}}`)

	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))

	assert.Equal(t, EventTypeFollow, event.Type)
	assert.Nil(t, event.Message)
}

func TestEventUnmarshal_BatchRequest(t *testing.T) {
	payload := []byte(`{"events": [
		{"type": "message", "source": {"userId": "U1"}, "message": {"type": "image", "id": "m5"}},
		{"type": "unfollow", "source": {"userId": "U2"}}
	]}`)

	var request WebhookRequest
	require.NoError(t, json.Unmarshal(payload, &request))
	require.Len(t, request.Events, 2)

	_, ok := request.Events[0].Message.(ImageMessage)
	assert.True(t, ok)
	assert.Equal(t, EventTypeUnfollow, request.Events[1].Type)
}
