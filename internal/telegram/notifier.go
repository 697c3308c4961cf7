package telegram

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

var (
	// ErrNotificationFailure wraps any error returned while delivering a message.
	ErrNotificationFailure = errors.New("telegram message not delivered")
	// ErrUnauthorized means the Bot API rejected the token.
	ErrUnauthorized = errors.New("telegram bot token rejected")
)

const tokenPlaceholder = "<token>"

// Bot is the part of tgbotapi.BotAPI the notifier uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// NewBot builds a Bot API client without touching the network.
// An empty endpoint selects the public one.
func NewBot(token, endpoint string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(endpoint)
	return bot, nil
}

// Authorize calls getMe and fills bot.Self. Only a token rejection (401/404)
// is returned; transient failures are logged and ignored.
func Authorize(bot *tgbotapi.BotAPI, log *zap.Logger) error {
	me, err := bot.GetMe()
	if err == nil {
		bot.Self = me
		log.Info("telegram bot authorized", zap.String("username", me.UserName))
		return nil
	}
	err = redact(err, bot.Token)
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusNotFound) {
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	log.Warn("telegram getMe failed, continuing", zap.Error(err))
	return nil
}

// Notifier sends plain text messages to a single chat.
type Notifier struct {
	bot   Bot
	token string
	chat  string
	log   *zap.Logger
}

// NewNotifier creates a notifier for chat, a numeric id or an @channel name.
// token is only used to keep it out of logged and returned errors.
func NewNotifier(bot Bot, token, chat string, log *zap.Logger) *Notifier {
	return &Notifier{bot: bot, token: token, chat: strings.TrimSpace(chat), log: log}
}

// SendMessage delivers text to the configured chat. Failures are logged and
// returned wrapped in ErrNotificationFailure; they are never fatal.
func (n *Notifier) SendMessage(text string) error {
	if _, err := n.bot.Send(n.newMessage(text)); err != nil {
		err = redact(err, n.token)
		n.log.Error("send message failed", zap.String("chat", n.chat), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrNotificationFailure, err)
	}
	n.log.Info("message sent", zap.String("chat", n.chat), zap.String("text", text))
	return nil
}

func (n *Notifier) newMessage(text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(n.chat, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	return tgbotapi.NewMessageToChannel(n.chat, text)
}

// redactedError hides the bot token that tgbotapi embeds in request URLs.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, token string) error {
	if err == nil || token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	inner := errors.Unwrap(err)
	if inner != nil && strings.Contains(inner.Error(), token) {
		inner = redact(inner, token)
	}
	return &redactedError{
		msg: strings.ReplaceAll(err.Error(), token, tokenPlaceholder),
		err: inner,
	}
}
