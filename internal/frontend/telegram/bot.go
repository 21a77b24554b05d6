package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/marquee/internal/browse"
	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

// Catalog fetches popular movies and movie details.
type Catalog interface {
	PopularMovies(ctx context.Context, page int) (*tmdb.MoviesPage, error)
	RefreshPopular(ctx context.Context) (*tmdb.MoviesPage, error)
	MovieDetails(ctx context.Context, id int) (*tmdb.MovieDetails, error)
}

// sender is the part of the Bot API used to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot is the Telegram frontend for marquee.
type Bot struct {
	client   *tgbotapi.BotAPI
	api      sender
	catalog  Catalog
	format   *format.Formatter
	sessions *sessionManager
	logger   *slog.Logger
}

// New creates a new Telegram Bot.
func New(token string, allowedUserIDs []int64, catalog Catalog, f *format.Formatter, opts browse.Options, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := newBot(api, allowedUserIDs, catalog, f, opts, logger)
	b.client = api
	return b, nil
}

func newBot(api sender, allowedUserIDs []int64, catalog Catalog, f *format.Formatter, opts browse.Options, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	if f == nil {
		f = format.New("")
	}
	return &Bot{
		api:      api,
		catalog:  catalog,
		format:   f,
		sessions: newSessionManager(allowedUserIDs, opts),
		logger:   logger,
	}
}

// Name returns the frontend name.
func (b *Bot) Name() string { return "telegram" }

// Start starts the long-polling loop. It blocks until ctx is canceled.
func (b *Bot) Start(ctx context.Context) error {
	if b.client == nil {
		return fmt.Errorf("telegram bot has no API client")
	}
	b.logger.Info("telegram bot started",
		slog.String("username", b.client.Self.UserName),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.client.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			b.logger.Info("telegram bot stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate dispatches an incoming Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}
