// Package discord connects the submission pipeline to a Discord bot.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fwojciec/htmldrop"
)

// DefaultTimeout bounds the handling of a single message, covering the
// attachment download and every analysis attempt.
const DefaultTimeout = 2 * time.Minute

// Command prefixes recognized by the bot.
const (
	SubmitCommand = "!submit"
	HelpCommand   = "!help"
)

// Sender sends replies to a channel. *discordgo.Session implements it.
type Sender interface {
	ChannelMessageSendEmbedReply(channelID string, embed *discordgo.MessageEmbed, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var _ Sender = (*discordgo.Session)(nil)

// Handler routes bot commands to the Submitter.
type Handler struct {
	Submitter htmldrop.Submitter
	Logger    *slog.Logger

	// BaseURL prefixes slugs in reply links.
	BaseURL string

	// Timeout bounds the handling of one message. Defaults to
	// DefaultTimeout.
	Timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewHandler creates a Handler.
func NewHandler(submitter htmldrop.Submitter, baseURL string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		Submitter: submitter,
		Logger:    logger,
		BaseURL:   baseURL,
		Timeout:   DefaultTimeout,
	}
}

// Command returns the bot command a message starts with, or "".
func Command(content string) string {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return ""
	}
	switch cmd := strings.ToLower(fields[0]); {
	case cmd == SubmitCommand, strings.HasPrefix(cmd, SubmitCommand+"```"):
		return SubmitCommand
	case cmd == HelpCommand:
		return HelpCommand
	}
	return ""
}

// Handle processes one message synchronously and replies to it. Messages
// without a recognized command are ignored.
func (h *Handler) Handle(ctx context.Context, sender Sender, m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.Bot {
		return
	}

	var embed *discordgo.MessageEmbed
	switch Command(m.Content) {
	case SubmitCommand:
		ctx, cancel := context.WithTimeout(ctx, h.timeout())
		defer cancel()
		out := h.Submitter.Submit(ctx, MessageFromDiscord(m))
		embed = OutcomeEmbed(out, h.BaseURL)
	case HelpCommand:
		embed = HelpEmbed()
	default:
		return
	}

	if _, err := sender.ChannelMessageSendEmbedReply(m.ChannelID, embed, m.Reference()); err != nil {
		h.Logger.Error("discord reply failed", "channel_id", m.ChannelID, "err", err)
	}
}

// Go handles a message in its own goroutine. Messages arriving after
// Wait has been called are dropped.
func (h *Handler) Go(ctx context.Context, sender Sender, m *discordgo.Message) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		h.Logger.Debug("discord message dropped during shutdown")
		return
	}
	h.wg.Add(1)
	h.mu.Unlock()

	go func() {
		defer h.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				h.Logger.Error("discord handler panic", "panic", fmt.Sprint(r))
			}
		}()
		h.Handle(ctx, sender, m)
	}()
}

// Wait stops accepting messages and blocks until in-flight ones are
// handled.
func (h *Handler) Wait() {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.wg.Wait()
}

func (h *Handler) timeout() time.Duration {
	if h.Timeout > 0 {
		return h.Timeout
	}
	return DefaultTimeout
}

// Bot manages the Discord gateway connection.
type Bot struct {
	session *discordgo.Session
	handler *Handler
	logger  *slog.Logger

	// ctx is canceled on Close so in-flight submissions stop.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBot creates a bot authenticated with token.
func NewBot(token string, handler *Handler, logger *slog.Logger) (*Bot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, htmldrop.Errorf(htmldrop.EINVALID, "discord token required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	ctx, cancel := context.WithCancel(context.Background())
	b := &Bot{session: s, handler: handler, logger: logger, ctx: ctx, cancel: cancel}
	s.AddHandler(b.onMessageCreate)
	return b, nil
}

// Open connects to the gateway.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	b.logger.Info("discord bot connected")
	return nil
}

// Close disconnects, cancels in-flight submissions and waits for them.
func (b *Bot) Close() error {
	err := b.session.Close()
	b.cancel()
	b.handler.Wait()
	b.logger.Info("discord bot disconnected")
	return err
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || (s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}
	b.handler.Go(b.ctx, s, m.Message)
}
