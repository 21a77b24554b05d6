package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/marquee/internal/format"
	"github.com/vadimtrunov/marquee/internal/nav"
	"github.com/vadimtrunov/marquee/internal/tmdb"
)

const (
	unauthorizedMsg = "Sorry, you are not authorized to use this bot."
	helpMsg         = "/popular - popular movies\n/movie <id> - movie details"

	callbackMore  = "more"
	callbackMovie = "mov:" // prefix for movie detail callback data

	maxButtonLabel = 30 // max characters in inline keyboard button label
)

// handleMessage processes an incoming text message.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	b.logger.Debug("received message",
		slog.Int64("user_id", userID),
	)

	if !b.sessions.isAllowed(userID) {
		b.sendText(chatID, unauthorizedMsg)
		return
	}

	cmd, args := parseCommand(msg.Text)
	switch cmd {
	case "":
		return
	case "/start":
		b.sessions.reset(chatID)
		b.sendText(chatID, b.format.T(format.MsgAppTitle)+"\n\n"+helpMsg)
	case "/popular":
		b.showPopular(ctx, chatID)
	case "/movie":
		b.showMovieArg(ctx, chatID, args)
	default:
		b.sendText(chatID, helpMsg)
	}
}

// handleCallback processes inline keyboard callback queries.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	b.logger.Debug("received callback",
		slog.Int64("user_id", userID),
		slog.String("data", cq.Data),
	)

	if !b.sessions.isAllowed(userID) {
		b.answer(cq.ID, "")
		return
	}

	switch {
	case cq.Data == callbackMore:
		b.loadMore(ctx, chatID, cq.ID)
	case strings.HasPrefix(cq.Data, callbackMovie):
		b.answer(cq.ID, "")
		b.showMovieArg(ctx, chatID, strings.TrimPrefix(cq.Data, callbackMovie))
	default:
		b.answer(cq.ID, "")
	}
}

// showPopular restarts the chat's list from a freshly fetched page 1.
func (b *Bot) showPopular(ctx context.Context, chatID int64) {
	s := b.sessions.getOrCreate(chatID)

	s.mu.Lock()
	req := s.pager.Start()
	s.mu.Unlock()

	b.typing(chatID)
	resp, err := b.catalog.RefreshPopular(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.pager.Fail(req.Token, err) {
			b.logger.Error("popular movies load failed", slog.String("error", err.Error()))
			b.sendText(chatID, b.format.T(format.MsgListFailed)+"\n"+b.format.Error(err))
		}
		return
	}
	if !s.pager.Apply(req.Token, resp) {
		return
	}
	b.sendPage(chatID, s, s.pager.Movies())
}

// loadMore appends the next page. A press while a page is loading, or after
// the last page, only acknowledges the callback.
func (b *Bot) loadMore(ctx context.Context, chatID int64, callbackID string) {
	s := b.sessions.getOrCreate(chatID)

	s.mu.Lock()
	req, ok := s.pager.LoadMore()
	exhausted := s.pager.Exhausted()
	prev := s.pager.Len()
	s.mu.Unlock()

	switch {
	case ok:
		b.answer(callbackID, b.format.T(format.MsgLoadingMore))
	case exhausted:
		b.answer(callbackID, b.format.T(format.MsgEndOfList))
		return
	default:
		b.answer(callbackID, "")
		return
	}

	resp, err := b.catalog.PopularMovies(ctx, req.Page)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.pager.Fail(req.Token, err) {
			b.logger.Warn("next page load failed",
				slog.Int("page", req.Page),
				slog.String("error", err.Error()),
			)
			b.sendText(chatID, b.format.T(format.MsgMoreFailed))
		}
		return
	}
	if !s.pager.Apply(req.Token, resp) {
		return
	}
	b.sendPage(chatID, s, s.pager.Movies()[prev:])
}

// sendPage sends the newly loaded movies as buttons, with a "More" button
// while pages remain. Callers hold s.mu.
func (b *Bot) sendPage(chatID int64, s *chatSession, movies []tmdb.Movie) {
	text := FormatBold(b.format.T(format.MsgAppTitle)) + " " +
		EscapeMdV2(b.format.T(format.MsgPageOf, s.pager.Page(), s.pager.TotalPages()))
	if len(movies) == 0 {
		text += "\n" + EscapeMdV2(b.format.T(format.MsgEndOfList))
	}

	kb := movieKeyboard(b.format, movies, !s.pager.Exhausted())
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send page",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// showMovieArg shows the detail view for a movie id argument.
func (b *Bot) showMovieArg(ctx context.Context, chatID int64, arg string) {
	arg = strings.TrimSpace(arg)
	if dest, err := nav.Resolve(arg); err == nil && dest.Screen == nav.ScreenDetail {
		arg = strconv.Itoa(dest.MovieID)
	}
	id, err := nav.ParseMovieID(arg)
	if err != nil {
		b.sendText(chatID, b.format.T(format.MsgInvalidMovieID)+"\n"+helpMsg)
		return
	}
	b.showMovie(ctx, chatID, id)
}

// showMovie sends the poster followed by the formatted details.
func (b *Bot) showMovie(ctx context.Context, chatID int64, id int) {
	b.typing(chatID)

	details, err := b.catalog.MovieDetails(ctx, id)
	if err != nil {
		b.logger.Error("movie details load failed",
			slog.Int("movie_id", id),
			slog.String("error", err.Error()),
		)
		b.sendText(chatID, b.format.T(format.MsgDetailsFailed)+"\n"+b.format.Error(err))
		return
	}

	b.sendPhoto(chatID, tmdb.PosterURL(details.PosterPath), details.Title)

	text := renderDetails(b.format, details)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send markdown, retrying plain",
			slog.String("error", err.Error()),
		)
		b.sendText(chatID, details.Title+"\n"+b.format.Overview(details.Overview))
	}
}

// sendText sends a plain text message (no parse mode).
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// sendPhoto sends a photo by URL; Telegram fetches it itself.
func (b *Bot) sendPhoto(chatID int64, url, caption string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	photo.Caption = caption
	if _, err := b.api.Send(photo); err != nil {
		b.logger.Debug("failed to send poster",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
	}
}

// answer acknowledges a callback query, optionally with a toast.
func (b *Bot) answer(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		b.logger.Debug("failed to answer callback", slog.String("error", err.Error()))
	}
}

func (b *Bot) typing(chatID int64) {
	b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)) //nolint:errcheck // best-effort typing indicator
}

// movieKeyboard builds one button per movie and an optional "More" row.
func movieKeyboard(f *format.Formatter, movies []tmdb.Movie, more bool) *tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(movies)+1)
	for _, m := range movies {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(movieButtonLabel(f, m), callbackMovie+strconv.Itoa(m.ID)),
		))
	}
	if more {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(f.T(format.MsgMore), callbackMore),
		))
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

// movieButtonLabel renders "⭐ 8.4 Title", truncating long titles.
func movieButtonLabel(f *format.Formatter, m tmdb.Movie) string {
	title := m.Title
	if r := []rune(title); len(r) > maxButtonLabel {
		title = string(r[:maxButtonLabel]) + "…"
	}
	return "⭐ " + f.Rating(m.VoteAverage) + " " + title
}

// parseCommand splits "/cmd@bot args" into "/cmd" and "args". Plain text
// that is only digits is treated as a /movie id.
func parseCommand(text string) (cmd, args string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ""
	}
	if !strings.HasPrefix(text, "/") {
		if _, err := strconv.Atoi(text); err == nil {
			return "/movie", text
		}
		return "/help", ""
	}
	cmd, args, _ = strings.Cut(text, " ")
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(args)
}
