// Package telegram is an optional remote-control surface for the daemon:
// start and stop briefing sessions, request topics, and manage sources from
// a chat. It drives the same bridge the voice agent does.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/user/newsradio/internal/bridge"
	"github.com/user/newsradio/internal/health"
	"github.com/user/newsradio/internal/session"
	"github.com/user/newsradio/internal/sources"
	"github.com/user/newsradio/internal/types"
)

const maxTelegramMessage = 4096

// Adapter bridges Telegram commands to the session bridge.
type Adapter struct {
	bot     *tgbotapi.BotAPI
	bridge  *bridge.Bridge
	store   *session.Store
	sources *sources.Store
	monitor *health.Monitor
}

// New creates a Telegram adapter.
func New(token string, br *bridge.Bridge, store *session.Store, src *sources.Store, monitor *health.Monitor) (*Adapter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Adapter{
		bot:     bot,
		bridge:  br,
		store:   store,
		sources: src,
		monitor: monitor,
	}, nil
}

// Start begins long-polling for Telegram updates.
func (a *Adapter) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := a.bot.GetUpdatesChan(u)

	for {
		select {
		case update := <-updates:
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			a.handleMessage(ctx, update.Message)
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return
		}
	}
}

func (a *Adapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	if !msg.IsCommand() {
		// A bare message is treated as a topic request, matching the way
		// the listener would just say what they want to hear about.
		a.brief(ctx, chatID, msg.Text)
		return
	}

	switch msg.Command() {
	case "start":
		a.send(chatID, "Hello! I'm your news radio. Send /brief <topics> to hear the news, /sources to manage sources, /topics for your coverage timeline.")

	case "brief":
		a.brief(ctx, chatID, msg.CommandArguments())

	case "stop":
		a.bridge.Stop(ctx)
		a.send(chatID, "Session ended.")

	case "sources":
		var lines []string
		snap := a.sources.Snapshot()
		for _, key := range sources.Known() {
			state := "off"
			if snap[key] {
				state = "on"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", key, state))
		}
		a.send(chatID, strings.Join(lines, "\n"))

	case "toggle":
		key := strings.TrimSpace(msg.CommandArguments())
		on, ok := a.sources.Toggle(key)
		if !ok {
			a.send(chatID, fmt.Sprintf("Unknown source %q. Known sources: %s.", key, strings.Join(sources.Known(), ", ")))
			return
		}
		state := "off"
		if on {
			state = "on"
		}
		a.send(chatID, fmt.Sprintf("Source %s is now %s.", key, state))

	case "topics":
		a.send(chatID, formatTopics(a.store.Snapshot().CoveredTopics))

	case "status":
		snap := a.store.Snapshot()
		backend := "offline"
		if a.monitor.Online() {
			backend = "online"
		}
		status := fmt.Sprintf("Session: %s\nBackend: %s", snap.State, backend)
		if id := a.bridge.ConversationID(); id != "" {
			status += fmt.Sprintf("\nConversation: %s", id)
		}
		if snap.ErrorMessage != "" {
			status += fmt.Sprintf("\nError: %s", snap.ErrorMessage)
		}
		a.send(chatID, status)

	default:
		a.send(chatID, "Unknown command. Available: /brief, /stop, /sources, /toggle, /topics, /status")
	}
}

// brief starts a session if none is live and requests news for the given
// comma-separated topics through the collect_news tool.
func (a *Adapter) brief(ctx context.Context, chatID int64, topicArg string) {
	topics := splitTopics(topicArg)
	if len(topics) == 0 {
		a.send(chatID, "Tell me which topics you want, e.g. /brief space, ai")
		return
	}

	if !a.bridge.Active() {
		if err := a.bridge.Start(ctx); err != nil {
			snap := a.store.Snapshot()
			a.send(chatID, snap.ErrorMessage)
			return
		}
	}

	tool, ok := a.bridge.Registry().Get("collect_news")
	if !ok {
		a.send(chatID, "News collection is unavailable.")
		return
	}

	args, _ := json.Marshal(map[string][]string{"topics": topics})
	result, err := tool.Execute(ctx, args)
	if err != nil {
		slog.Error("telegram brief failed", "error", err)
		a.send(chatID, "Sorry, something went wrong collecting the news.")
		return
	}
	a.send(chatID, formatBriefing(result))
}

// formatTopics renders the covered-topic timeline, one plain-ASCII line per
// topic.
func formatTopics(topics []types.CoveredTopic) string {
	if len(topics) == 0 {
		return "No topics covered yet."
	}
	var lines []string
	for _, t := range topics {
		lines = append(lines, fmt.Sprintf("%s: %d items (%s)", t.Name, t.ItemCount, strings.Join(t.Sources, ", ")))
	}
	return strings.Join(lines, "\n")
}

// formatBriefing renders the tool result for chat: JSON payloads become a
// readable headline list, narration strings pass through unchanged.
func formatBriefing(result string) string {
	var news types.NewsResult
	if err := json.Unmarshal([]byte(result), &news); err != nil {
		return result
	}

	var sb strings.Builder
	for topic, items := range news {
		fmt.Fprintf(&sb, "%s:\n", topic)
		for _, item := range items {
			fmt.Fprintf(&sb, "  • %s (%s)\n", item.Title, item.SourceName)
		}
	}
	if sb.Len() == 0 {
		return "No news found."
	}
	return sb.String()
}

func (a *Adapter) send(chatID int64, text string) {
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(chatID, part)
		if _, err := a.bot.Send(msg); err != nil {
			slog.Error("send telegram message", "error", err)
		}
	}
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}

func splitTopics(arg string) []string {
	var topics []string
	for _, part := range strings.Split(arg, ",") {
		if t := strings.TrimSpace(part); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
