package webhook

import (
	"encoding/json"
	"fmt"
)

// Message sub-types carried by "message" events.
const (
	MessageTypeText     = "text"
	MessageTypeImage    = "image"
	MessageTypeVideo    = "video"
	MessageTypeAudio    = "audio"
	MessageTypeFile     = "file"
	MessageTypeLocation = "location"
	MessageTypeSticker  = "sticker"
)

// MessageContent is a closed union over the message sub-types. Each
// variant carries only the fields that sub-type actually has, so the
// dispatcher never reaches into untyped maps.
type MessageContent interface {
	MessageType() string
	MessageID() string
	// Summary is the human-readable content written to the log sheet.
	Summary() string
}

type TextMessage struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func (m TextMessage) MessageType() string { return MessageTypeText }
func (m TextMessage) MessageID() string   { return m.ID }
func (m TextMessage) Summary() string     { return m.Text }

type ImageMessage struct {
	ID string `json:"id"`
}

func (m ImageMessage) MessageType() string { return MessageTypeImage }
func (m ImageMessage) MessageID() string   { return m.ID }
func (m ImageMessage) Summary() string     { return "image message" }

type VideoMessage struct {
	ID string `json:"id"`
}

func (m VideoMessage) MessageType() string { return MessageTypeVideo }
func (m VideoMessage) MessageID() string   { return m.ID }
func (m VideoMessage) Summary() string     { return "video message" }

type AudioMessage struct {
	ID       string `json:"id"`
	Duration int64  `json:"duration,omitempty"`
}

func (m AudioMessage) MessageType() string { return MessageTypeAudio }
func (m AudioMessage) MessageID() string   { return m.ID }
func (m AudioMessage) Summary() string     { return "audio message" }

type FileMessage struct {
	ID       string `json:"id"`
	FileName string `json:"fileName,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
}

func (m FileMessage) MessageType() string { return MessageTypeFile }
func (m FileMessage) MessageID() string   { return m.ID }
func (m FileMessage) Summary() string     { return "file message" }

type LocationMessage struct {
	ID        string  `json:"id"`
	Title     string  `json:"title,omitempty"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (m LocationMessage) MessageType() string { return MessageTypeLocation }
func (m LocationMessage) MessageID() string   { return m.ID }

func (m LocationMessage) Summary() string {
	return fmt.Sprintf("Location: %s (%v, %v)", m.Title, m.Latitude, m.Longitude)
}

type StickerMessage struct {
	ID        string `json:"id"`
	PackageID string `json:"packageId"`
	StickerID string `json:"stickerId"`
}

func (m StickerMessage) MessageType() string { return MessageTypeSticker }
func (m StickerMessage) MessageID() string   { return m.ID }

func (m StickerMessage) Summary() string {
	return fmt.Sprintf("Sticker: Package %s, Sticker %s", m.PackageID, m.StickerID)
}

// UnknownMessage preserves sub-types this service does not model yet.
type UnknownMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

func (m UnknownMessage) MessageType() string { return m.Type }
func (m UnknownMessage) MessageID() string   { return m.ID }
func (m UnknownMessage) Summary() string     { return m.Type + " message" }

// UnmarshalJSON decodes the event envelope and, for message events,
// dispatches the payload onto the matching MessageContent variant.
func (e *Event) UnmarshalJSON(data []byte) error {
	type eventAlias Event
	aux := struct {
		*eventAlias
		Message json.RawMessage `json:"message"`
	}{eventAlias: (*eventAlias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if e.Type != EventTypeMessage || len(aux.Message) == 0 {
		return nil
	}

	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(aux.Message, &tag); err != nil {
		return err
	}

	var (
		content MessageContent
		err     error
	)
	switch tag.Type {
	case MessageTypeText:
		var m TextMessage
		err = json.Unmarshal(aux.Message, &m)
		content = m
	case MessageTypeImage:
		var m ImageMessage
		err = json.Unmarshal(aux.Message, &m)
		content = m
	case MessageTypeVideo:
		var m VideoMessage
		err = json.Unmarshal(aux.Message, &m)
		content = m
	case MessageTypeAudio:
		var m AudioMessage
		err = json.Unmarshal(aux.Message, &m)
		content = m
	case MessageTypeFile:
		var m FileMessage
		err = json.Unmarshal(aux.Message, &m)
		content = m
	case MessageTypeLocation:
		var m LocationMessage
		err = json.Unmarshal(aux.Message, &m)
		content = m
	case MessageTypeSticker:
		var m StickerMessage
		err = json.Unmarshal(aux.Message, &m)
		content = m
	default:
		var m UnknownMessage
		err = json.Unmarshal(aux.Message, &m)
		m.Type = tag.Type
		content = m
	}
	if err != nil {
		return err
	}

	e.Message = content
	return nil
}
