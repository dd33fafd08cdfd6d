// Package bot holds the message handling core: command dispatch, keyword
// routing, the model fallback path, and the operator-only transcript view.
package bot

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/palaverbot/palaver/internal/commander"
	"github.com/palaverbot/palaver/internal/db"
	"github.com/palaverbot/palaver/internal/extract"
	"github.com/palaverbot/palaver/internal/feeds"
	"github.com/palaverbot/palaver/internal/model"
	"github.com/palaverbot/palaver/internal/quiz"
	"github.com/palaverbot/palaver/internal/router"
	"github.com/palaverbot/palaver/internal/store"
)

const (
	greeting        = "Hey there! I’m your friendly chat bot. What’s up?"
	usageLimitReply = "I have reached my usage limit for now. Please try again later."

	maxListedResults = 5
)

// Deps wires the bot to its collaborators. Feed clients that a deployment
// leaves nil simply make the matching intent fail at call time, so tests can
// wire only what they exercise.
type Deps struct {
	Commander  commander.Commander
	Store      *store.Store
	Provider   model.Provider
	Quiz       *quiz.Generator
	News       *feeds.NewsClient
	Weather    *feeds.WeatherClient
	Jokes      *feeds.JokeClient
	Dictionary *feeds.DictionaryClient
	Videos     *feeds.VideoClient
	Podcasts   *feeds.PodcastClient
	Pages      *feeds.PageClient

	DB             *sql.DB
	OperatorChatID int64
}

type Bot struct {
	deps Deps
}

func New(deps Deps) *Bot {
	return &Bot{deps: deps}
}

// HandleUpdate processes one inbound update. It is safe to call from a
// goroutine per update: a panic or failure in one handler never takes down
// the poll loop or touches another user's state.
func (b *Bot) HandleUpdate(update commander.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[bot] panic handling update %d: %v", update.UpdateID, r)
		}
	}()

	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	userID := chatID
	if msg.From != nil {
		userID = msg.From.ID
	}
	b.logEvent(db.EventMessageReceived, map[string]any{
		"update_id": update.UpdateID,
		"chat_id":   chatID,
		"user_id":   userID,
	})

	if msg.Document != nil {
		b.handleDocument(chatID, userID, msg.Document)
		return
	}
	if msg.Text == nil {
		return
	}
	text := strings.TrimSpace(*msg.Text)
	if text == "" {
		return
	}
	if strings.HasPrefix(text, "/") {
		b.handleCommand(chatID, userID, text)
		return
	}
	b.handleText(chatID, userID, text)
}

func (b *Bot) handleCommand(chatID, userID int64, text string) {
	cmd, args := splitCommand(text)
	switch cmd {
	case "/start":
		b.handleStart(chatID, userID)
	case "/news":
		b.replyNews(chatID)
	case "/weather":
		b.replyWeather(chatID, args)
	case "/joke":
		b.replyJoke(chatID)
	case "/define":
		b.replyDefine(chatID, args)
	case "/youtube":
		b.replyVideos(chatID, args)
	case "/podcast":
		b.replyPodcasts(chatID, args)
	case "/view_chats":
		b.replyTranscripts(chatID, userID)
	case "/read_pdf":
		b.reply(chatID, "Please send a PDF document.")
	case "/quiz":
		b.replyQuiz(chatID, userID)
	case "/scrape_website":
		b.replyScrape(chatID, args)
	default:
		log.Printf("[bot] ignoring unknown command %q from user %d", cmd, userID)
	}
}

// handleText runs the keyword router over a free-text message. The user turn
// is appended to history first regardless of where the message routes;
// keyword intents reply without touching durable storage, only the model
// fallback persists.
func (b *Bot) handleText(chatID, userID int64, text string) {
	b.deps.Store.AppendUser(userID, text)
	switch router.Classify(text) {
	case router.IntentNews:
		b.replyNews(chatID)
	case router.IntentWeather:
		b.replyWeather(chatID, "")
	case router.IntentJoke:
		b.replyJoke(chatID)
	case router.IntentDefine:
		b.replyDefine(chatID, "")
	case router.IntentYouTube:
		b.replyVideos(chatID, "")
	case router.IntentPodcast:
		b.replyPodcasts(chatID, "")
	case router.IntentReadPDF:
		b.reply(chatID, "Please send a PDF document.")
	case router.IntentScrape:
		b.replyScrape(chatID, "")
	case router.IntentQuiz:
		b.replyQuiz(chatID, userID)
	default:
		b.handleChat(chatID, userID)
	}
}

func (b *Bot) handleStart(chatID, userID int64) {
	b.deps.Store.Reset(userID)
	b.reply(chatID, greeting)
	b.logEvent(db.EventUserStarted, map[string]any{"user_id": userID})
	if op := b.deps.OperatorChatID; op != 0 && op != chatID {
		if err := b.deps.Commander.SendMessage(op, fmt.Sprintf("New user started a chat: %d", userID)); err != nil {
			log.Printf("[bot] operator notice failed: %v", err)
		}
	}
}

// handleChat is the fallback path: the full history goes to the model, the
// reply is sent, then the assistant turn is appended and persisted. A failed
// persist is reported after the reply; in-memory history is never rolled
// back.
func (b *Bot) handleChat(chatID, userID int64) {
	history := b.deps.Store.Ensure(userID)
	replyText, err := b.deps.Provider.Complete(history)
	if err != nil {
		b.logEvent(db.EventProviderFailed, map[string]any{"user_id": userID, "error": err.Error()})
		if errors.Is(err, model.ErrRateLimited) || errors.Is(err, model.ErrQuotaExceeded) {
			b.reply(chatID, usageLimitReply)
		} else {
			b.reply(chatID, fmt.Sprintf("An error occurred: %v", err))
		}
		return
	}
	b.reply(chatID, replyText)
	if err := b.deps.Store.AppendAssistantAndPersist(userID, replyText); err != nil {
		log.Printf("[bot] persist for user %d failed: %v", userID, err)
		b.logEvent(db.EventPersistFailed, map[string]any{"user_id": userID, "error": err.Error()})
		b.reply(chatID, "Failed to save the conversation.")
	}
}

func (b *Bot) handleDocument(chatID, userID int64, doc *commander.Document) {
	if !isPDF(doc) {
		b.reply(chatID, "Please send a PDF document.")
		return
	}
	data, err := b.deps.Commander.DownloadFile(doc.FileID)
	if err != nil {
		b.logEvent(db.EventExtractFailed, map[string]any{"user_id": userID, "error": err.Error()})
		b.reply(chatID, "An error occurred while reading the PDF.")
		return
	}
	text, err := extract.PDFText(data)
	if err != nil {
		b.logEvent(db.EventExtractFailed, map[string]any{"user_id": userID, "error": err.Error()})
		b.reply(chatID, "An error occurred while reading the PDF.")
		return
	}
	b.deps.Quiz.SetDocument(userID, text)
	b.reply(chatID, "PDF text extracted. You can now quiz yourself by using the keyword 'quiz'.")
}

func (b *Bot) replyNews(chatID int64) {
	headlines, err := b.deps.News.TopHeadlines("us")
	if err != nil {
		b.reply(chatID, "Failed to fetch news.")
		return
	}
	if len(headlines) == 0 {
		b.reply(chatID, "No news articles found.")
		return
	}
	if len(headlines) > maxListedResults {
		headlines = headlines[:maxListedResults]
	}
	lines := make([]string, 0, len(headlines))
	for _, h := range headlines {
		lines = append(lines, fmt.Sprintf("%s - %s", h.Title, h.Source))
	}
	b.reply(chatID, strings.Join(lines, "\n\n"))
}

func (b *Bot) replyWeather(chatID int64, location string) {
	if location == "" {
		b.reply(chatID, "Please provide a location.")
		return
	}
	report, err := b.deps.Weather.Current(location)
	if err != nil {
		b.reply(chatID, "Failed to fetch weather information. Please check the location.")
		return
	}
	b.reply(chatID, fmt.Sprintf(
		"Weather in %s:\nTemperature: %g°C\nWeather: %s\nHumidity: %d%%\nWind Speed: %g m/s",
		report.Name, report.TempC, report.Description, report.HumidityPct, report.WindSpeed))
}

func (b *Bot) replyJoke(chatID int64) {
	joke, err := b.deps.Jokes.Random()
	if err != nil {
		b.reply(chatID, "Failed to fetch a joke.")
		return
	}
	b.reply(chatID, joke)
}

func (b *Bot) replyDefine(chatID int64, word string) {
	if word == "" {
		b.reply(chatID, "Please provide a word to define.")
		return
	}
	definition, err := b.deps.Dictionary.Define(word)
	if errors.Is(err, feeds.ErrNotFound) {
		b.reply(chatID, fmt.Sprintf("No definitions found for %s.", word))
		return
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Failed to fetch definition for %s.", word))
		return
	}
	b.reply(chatID, fmt.Sprintf("Definition of %s: %s", word, definition))
}

func (b *Bot) replyVideos(chatID int64, query string) {
	if query == "" {
		b.reply(chatID, "Please provide a search query.")
		return
	}
	links, err := b.deps.Videos.Search(query)
	if err != nil {
		b.reply(chatID, "Failed to fetch videos.")
		return
	}
	if len(links) == 0 {
		b.reply(chatID, "No videos found.")
		return
	}
	b.reply(chatID, strings.Join(links, "\n"))
}

func (b *Bot) replyPodcasts(chatID int64, query string) {
	if query == "" {
		b.reply(chatID, "Please provide a search query.")
		return
	}
	links, err := b.deps.Podcasts.Search(query)
	if err != nil {
		b.reply(chatID, "Failed to fetch podcasts.")
		return
	}
	if len(links) == 0 {
		b.reply(chatID, "No podcasts found.")
		return
	}
	if len(links) > maxListedResults {
		links = links[:maxListedResults]
	}
	b.reply(chatID, strings.Join(links, "\n"))
}

// replyTranscripts serves the operator-only transcript view. Authorization
// is checked before anything touches the database.
func (b *Bot) replyTranscripts(chatID, userID int64) {
	if b.deps.OperatorChatID == 0 || userID != b.deps.OperatorChatID {
		b.logEvent(db.EventAccessDenied, map[string]any{"user_id": userID, "command": "view_chats"})
		b.reply(chatID, "You are not authorized to use this command.")
		return
	}
	records, err := b.deps.Store.DumpAll()
	if err != nil {
		log.Printf("[bot] transcript dump failed: %v", err)
		b.reply(chatID, "An error occurred while fetching conversation history.")
		return
	}
	if len(records) == 0 {
		b.reply(chatID, "No conversation history found.")
		return
	}
	for _, rec := range records {
		if rec.Err != nil {
			log.Printf("[bot] skipping transcript for user %d: %v", rec.UserID, rec.Err)
			continue
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "User ID: %d\n\n", rec.UserID)
		for _, turn := range rec.Turns {
			fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
		}
		b.reply(chatID, sb.String())
	}
}

func (b *Bot) replyQuiz(chatID, userID int64) {
	questions, err := b.deps.Quiz.Generate(userID)
	if errors.Is(err, quiz.ErrNoDocument) {
		b.reply(chatID, "Please upload a PDF first.")
		return
	}
	if err != nil {
		b.logEvent(db.EventProviderFailed, map[string]any{"user_id": userID, "error": err.Error()})
		b.reply(chatID, "An error occurred while generating quiz questions.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Here are your quiz questions:\n\n%s", questions))
}

func (b *Bot) replyScrape(chatID int64, pageURL string) {
	if pageURL == "" {
		b.reply(chatID, "Please provide a URL.")
		return
	}
	data, err := b.deps.Pages.Fetch(pageURL)
	if errors.Is(err, feeds.ErrUnavailable) {
		b.reply(chatID, "Failed to fetch the website.")
		return
	}
	if err != nil {
		b.reply(chatID, "An error occurred while scraping the website.")
		return
	}
	text, err := extract.HTMLText(data)
	if err != nil || text == "" {
		b.reply(chatID, "An error occurred while scraping the website.")
		return
	}
	// The delivery channel truncates to its message limit.
	b.reply(chatID, text)
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.deps.Commander.SendMessage(chatID, text); err != nil {
		log.Printf("[bot] send to chat %d failed: %v", chatID, err)
		return
	}
	b.logEvent(db.EventReplySent, map[string]any{"chat_id": chatID, "chars": len(text)})
}

// logEvent records a lifecycle event, tolerating event-log failures.
func (b *Bot) logEvent(eventType string, payload map[string]any) {
	if _, err := db.LogEvent(b.deps.DB, eventType, payload); err != nil {
		log.Printf("[bot] failed to log %s: %v", eventType, err)
	}
}

func splitCommand(text string) (cmd, args string) {
	cmd, args, _ = strings.Cut(text, " ")
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}
	return cmd, strings.TrimSpace(args)
}

func isPDF(doc *commander.Document) bool {
	return doc.MimeType == "application/pdf" ||
		strings.HasSuffix(strings.ToLower(doc.FileName), ".pdf")
}
