package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	domainEchoState "github.com/lineoa/line-msg-api/domains/echostate"
	domainLogbook "github.com/lineoa/line-msg-api/domains/logbook"
	domainWebhook "github.com/lineoa/line-msg-api/domains/webhook"
	"github.com/lineoa/line-msg-api/pkg/eventworker"
	"github.com/lineoa/line-msg-api/validations"
)

const (
	commandStartEcho = "start echo"
	commandStopEcho  = "stop echo"

	replyEchoEnabled  = "Echo mode enabled. I will now repeat your text messages."
	replyEchoDisabled = "Echo mode disabled. I will stop repeating your messages."
	replyUnknownUser  = "Sorry, I could not identify you, so echo mode was not changed."
	replyEchoHint     = `Thanks for your message! Send "start echo" and I will repeat everything you say.`
)

type serviceWebhook struct {
	chat    domainWebhook.IChatClient
	logbook domainLogbook.ISheetAppender
	echo    domainEchoState.IEchoStateRepository
	pool    *eventworker.Pool
}

func NewWebhookService(
	chat domainWebhook.IChatClient,
	logbook domainLogbook.ISheetAppender,
	echo domainEchoState.IEchoStateRepository,
	pool *eventworker.Pool,
) domainWebhook.IWebhookUsecase {
	return &serviceWebhook{
		chat:    chat,
		logbook: logbook,
		echo:    echo,
		pool:    pool,
	}
}

// HandleEvents runs every event of the batch through the worker pool and
// waits for all of them. Events from the same sender share a worker, so a
// sender's own commands keep their order; distinct senders run in
// parallel. One event's failure never blocks the others.
func (service *serviceWebhook) HandleEvents(ctx context.Context, events []domainWebhook.Event) {
	var wg sync.WaitGroup
	for _, event := range events {
		event := event
		wg.Add(1)

		accepted := service.pool.TryDispatch(eventworker.Job{
			SenderKey: event.Source.UserID,
			Handler: func(jobCtx context.Context) error {
				defer wg.Done()
				service.handleEvent(jobCtx, event)
				return nil
			},
		})
		if !accepted {
			wg.Done()
			logrus.Warnf("[WEBHOOK] Event dropped, pool saturated (type=%s)", event.Type)
		}
	}
	wg.Wait()
}

func (service *serviceWebhook) handleEvent(ctx context.Context, event domainWebhook.Event) {
	switch event.Type {
	case domainWebhook.EventTypeMessage:
		service.handleMessageEvent(ctx, event)
	case domainWebhook.EventTypeFollow:
		service.handleFollowEvent(ctx, event)
	case domainWebhook.EventTypeUnfollow:
		service.handleUnfollowEvent(ctx, event)
	case domainWebhook.EventTypeDelivery:
		// Delivery confirmations carry no content; acknowledge silently.
		logrus.Debug("[WEBHOOK] Delivery event acknowledged")
	default:
		logrus.Infof("[WEBHOOK] Unhandled event type: %s", event.Type)
	}
}

func (service *serviceWebhook) handleMessageEvent(ctx context.Context, event domainWebhook.Event) {
	message := event.Message
	if message == nil {
		logrus.Warn("[WEBHOOK] Message event without message payload; skipping")
		return
	}

	if text, ok := message.(domainWebhook.TextMessage); ok {
		service.handleTextMessage(ctx, event, text)
		return
	}

	userID := event.Source.UserID
	displayName := service.resolveDisplayName(ctx, userID)

	service.logbook.Append(ctx, domainLogbook.Row{
		UserID:      userID,
		DisplayName: displayName,
		MessageType: message.MessageType(),
		Content:     message.Summary(),
		MessageID:   message.MessageID(),
		Direction:   domainLogbook.DirectionIncoming,
	})

	if event.ReplyToken == "" {
		return
	}

	ack := fmt.Sprintf("I received your %s message!", message.MessageType())
	service.sendAndLogReply(ctx, event.ReplyToken, ack)
}

func (service *serviceWebhook) handleTextMessage(ctx context.Context, event domainWebhook.Event, message domainWebhook.TextMessage) {
	userID := event.Source.UserID
	displayName := service.resolveDisplayName(ctx, userID)

	service.logbook.Append(ctx, domainLogbook.Row{
		UserID:      userID,
		DisplayName: displayName,
		MessageType: domainWebhook.MessageTypeText,
		Content:     message.Text,
		MessageID:   message.ID,
		Direction:   domainLogbook.DirectionIncoming,
	})

	reply := service.interpretCommand(userID, message.Text)

	if event.ReplyToken == "" {
		logrus.Warn("[WEBHOOK] Text message without reply token; reply skipped")
		return
	}
	service.sendAndLogReply(ctx, event.ReplyToken, reply)
}

// interpretCommand applies the echo-mode command grammar and returns the
// reply text. Commands match the full trimmed text, case-insensitive.
func (service *serviceWebhook) interpretCommand(userID, text string) string {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case commandStartEcho:
		if userID == "" {
			return replyUnknownUser
		}
		service.echo.SetEnabled(userID, true)
		logrus.Infof("[WEBHOOK] Echo mode enabled for %s", userID)
		return replyEchoEnabled
	case commandStopEcho:
		if userID == "" {
			return replyUnknownUser
		}
		service.echo.SetEnabled(userID, false)
		logrus.Infof("[WEBHOOK] Echo mode disabled for %s", userID)
		return replyEchoDisabled
	default:
		if userID != "" && service.echo.IsEnabled(userID) {
			return text
		}
		return replyEchoHint
	}
}

func (service *serviceWebhook) handleFollowEvent(ctx context.Context, event domainWebhook.Event) {
	userID := event.Source.UserID
	displayName := service.resolveDisplayName(ctx, userID)

	logrus.Infof("[WEBHOOK] User followed the bot: %s", userID)
	service.logbook.Append(ctx, domainLogbook.Row{
		UserID:      userID,
		DisplayName: displayName,
		MessageType: "system",
		Content:     "User followed the bot",
		Direction:   domainLogbook.DirectionIncoming,
	})
}

func (service *serviceWebhook) handleUnfollowEvent(ctx context.Context, event domainWebhook.Event) {
	userID := event.Source.UserID

	logrus.Infof("[WEBHOOK] User unfollowed the bot: %s", userID)
	service.logbook.Append(ctx, domainLogbook.Row{
		UserID:      userID,
		MessageType: "system",
		Content:     "User unfollowed the bot",
		Direction:   domainLogbook.DirectionIncoming,
	})
}

// resolveDisplayName is best-effort: profile lookup failures degrade to
// an empty name and never abort the event.
func (service *serviceWebhook) resolveDisplayName(ctx context.Context, userID string) string {
	if userID == "" {
		return ""
	}

	displayName, err := service.chat.GetDisplayName(ctx, userID)
	if err != nil {
		logrus.Warnf("[WEBHOOK] Profile lookup failed for %s: %v", userID, err)
		return ""
	}
	return displayName
}

// sendAndLogReply sends the reply and, when the platform accepted it,
// records the matching outgoing BOT row. Send failures are absorbed.
func (service *serviceWebhook) sendAndLogReply(ctx context.Context, replyToken, text string) {
	if err := service.chat.ReplyText(ctx, replyToken, text); err != nil {
		logrus.Errorf("[WEBHOOK] Reply send failed: %v", err)
		return
	}

	service.logbook.Append(ctx, domainLogbook.Row{
		UserID:      domainLogbook.BotSender,
		DisplayName: domainLogbook.BotSender,
		MessageType: domainWebhook.MessageTypeText,
		Content:     text,
		Direction:   domainLogbook.DirectionOutgoing,
	})
}

// LogManualMessage records one out-of-band outgoing message without
// touching the LINE platform.
func (service *serviceWebhook) LogManualMessage(ctx context.Context, request domainWebhook.ManualLogRequest) error {
	if err := validations.ValidateManualLog(ctx, request); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": request.UserID,
	}).Info("[WEBHOOK] Logging manual outgoing message")

	service.logbook.Append(ctx, domainLogbook.Row{
		UserID:      domainLogbook.BotSender,
		DisplayName: domainLogbook.BotSender,
		MessageType: domainWebhook.MessageTypeText,
		Content:     request.Message,
		MessageID:   uuid.NewString(),
		Direction:   domainLogbook.DirectionOutgoing,
	})

	return nil
}
