package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TelegramAPI is the part of *tgbotapi.BotAPI the bot relies on.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	api    TelegramAPI
	logger *zap.Logger
	router *Router
}

func New(token string, debug bool, router *Router, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	botAPI.Debug = debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return NewWithAPI(botAPI, router, logger), nil
}

func NewWithAPI(api TelegramAPI, router *Router, logger *zap.Logger) *Bot {
	return &Bot{
		api:    api,
		logger: logger,
		router: router,
	}
}

// Start long-polls Telegram until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot in polling mode")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.api.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// RegisterWebhook points Telegram at endpoint. A non-empty secret is sent
// back by Telegram in every webhook request.
func (b *Bot) RegisterWebhook(endpoint, secret string) error {
	wh, err := tgbotapi.NewWebhook(endpoint)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}

	if secret == "" {
		_, err = b.api.Request(wh)
	} else {
		// WebhookConfig has no secret_token field, so the call is built by hand.
		params := tgbotapi.Params{"url": wh.URL.String()}
		params.AddNonEmpty("secret_token", secret)
		_, err = b.api.MakeRequest("setWebhook", params)
	}
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	b.logger.Info("Webhook registered", zap.String("url", endpoint))
	return nil
}

func (b *Bot) DeregisterWebhook() error {
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}

	b.logger.Info("Webhook removed")
	return nil
}

// HandleUpdate processes a single update synchronously. It is safe to call
// from several goroutines.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	logger := b.logger.With(
		zap.String("event_id", uuid.NewString()),
		zap.Int("update_id", update.UpdateID))

	switch {
	case update.Message != nil:
		b.processMessage(ctx, logger, update.Message)
	case update.CallbackQuery != nil:
		b.processCallback(ctx, logger, update.CallbackQuery)
	default:
		logger.Debug("Ignoring unsupported update")
	}
}

func (b *Bot) processMessage(ctx context.Context, logger *zap.Logger, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	operatorID := chatID
	if msg.From != nil {
		operatorID = msg.From.ID
	}

	logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.Int64("operator_id", operatorID),
		zap.String("text", msg.Text))

	ev := Event{Kind: EventText, OperatorID: operatorID, Text: msg.Text}
	if msg.IsCommand() {
		ev = Event{Kind: EventCommand, OperatorID: operatorID, Text: msg.Command()}
	}

	reply, err := b.router.Handle(ctx, ev)
	if err != nil {
		logger.Error("Failed to handle message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(logger, chatID, msgInternalError)
		return
	}

	b.deliver(logger, chatID, reply, nil)
}

func (b *Bot) processCallback(ctx context.Context, logger *zap.Logger, cb *tgbotapi.CallbackQuery) {
	operatorID := cb.From.ID
	chatID := operatorID
	if cb.Message != nil {
		chatID = cb.Message.Chat.ID
	}

	logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.Int64("operator_id", operatorID),
		zap.String("data", cb.Data))

	reply, err := b.router.Handle(ctx, Event{Kind: EventCallback, OperatorID: operatorID, Text: cb.Data})
	if err != nil {
		logger.Error("Failed to handle callback",
			zap.Int64("chat_id", chatID),
			zap.String("data", cb.Data),
			zap.Error(err))
		b.answerCallback(logger, cb.ID, msgInternalError)
		return
	}

	b.deliver(logger, chatID, reply, cb)
}

// deliver sends reply to chatID. cb is set when the reply answers a button
// press: listings then replace the pressed message instead of adding one.
func (b *Bot) deliver(logger *zap.Logger, chatID int64, reply Reply, cb *tgbotapi.CallbackQuery) {
	switch reply.Kind {
	case ReplyListing:
		if cb != nil && cb.Message != nil {
			edit := tgbotapi.NewEditMessageText(chatID, cb.Message.MessageID, reply.Text)
			if len(reply.Buttons) > 0 {
				markup := CreateNavigationKeyboard(reply.Buttons)
				edit.ReplyMarkup = &markup
			}
			if _, err := b.api.Send(edit); err != nil {
				logger.Warn("Failed to edit listing",
					zap.Int64("chat_id", chatID),
					zap.Int("message_id", cb.Message.MessageID),
					zap.Error(err))
			}
			break
		}

		msg := tgbotapi.NewMessage(chatID, reply.Text)
		if len(reply.Buttons) > 0 {
			msg.ReplyMarkup = CreateNavigationKeyboard(reply.Buttons)
		}
		b.sendMessage(logger, msg)

	case ReplyNotice:
		if cb != nil {
			b.answerCallback(logger, cb.ID, reply.Text)
			return
		}
		b.sendMessage(logger, tgbotapi.NewMessage(chatID, reply.Text))

	case ReplyDocument:
		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  reply.Document.Name,
			Bytes: reply.Document.Data,
		})
		doc.Caption = reply.Document.Caption
		if _, err := b.api.Send(doc); err != nil {
			logger.Error("Failed to send document",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			b.sendError(logger, chatID, msgInternalError)
		}

	default:
		msg := tgbotapi.NewMessage(chatID, reply.Text)
		if reply.Menu {
			msg.ReplyMarkup = CreateMainMenuKeyboard()
		}
		b.sendMessage(logger, msg)
	}

	if cb != nil {
		b.answerCallback(logger, cb.ID, "")
	}
}

func (b *Bot) answerCallback(logger *zap.Logger, callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		logger.Warn("Failed to answer callback",
			zap.String("callback_id", callbackID),
			zap.Error(err))
	}
}

func (b *Bot) sendMessage(logger *zap.Logger, msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendError(logger *zap.Logger, chatID int64, text string) {
	b.sendMessage(logger, tgbotapi.NewMessage(chatID, "❌ "+text))
}
