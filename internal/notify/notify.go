// Package notify pushes qualified leads to the operator.
package notify

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rotisserie/eris"

	"github.com/Loan69/ai-agent-prospection/internal/model"
)

// Notifier is told about every lead or project that was persisted as qualified.
type Notifier interface {
	LeadQualified(ctx context.Context, lead model.LeadRecord) error
	ProjectQualified(ctx context.Context, project model.ProjectRecord) error
}

// Noop discards notifications.
type Noop struct{}

func (Noop) LeadQualified(context.Context, model.LeadRecord) error       { return nil }
func (Noop) ProjectQualified(context.Context, model.ProjectRecord) error { return nil }

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram sends HTML messages to a single chat.
type Telegram struct {
	bot    sender
	chatID int64
}

// Option configures the Telegram bot client.
type Option func(*telegramOptions)

type telegramOptions struct {
	endpoint string
	http     *http.Client
}

// WithEndpoint overrides the Bot API endpoint format (token, method).
func WithEndpoint(endpoint string) Option {
	return func(o *telegramOptions) { o.endpoint = endpoint }
}

// WithHTTPClient sets the HTTP client used for Bot API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *telegramOptions) { o.http = hc }
}

// NewTelegram authenticates the bot and returns a notifier for chatID.
func NewTelegram(token string, chatID int64, opts ...Option) (*Telegram, error) {
	if token == "" {
		return nil, eris.New("notify: telegram token is empty")
	}
	if chatID == 0 {
		return nil, eris.New("notify: telegram chat id is empty")
	}
	o := telegramOptions{endpoint: tgbotapi.APIEndpoint, http: &http.Client{}}
	for _, fn := range opts {
		fn(&o)
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, o.endpoint, o.http)
	if err != nil {
		return nil, eris.Wrap(err, "notify: telegram auth")
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) LeadQualified(ctx context.Context, lead model.LeadRecord) error {
	return t.send(ctx, FormatLead(lead))
}

func (t *Telegram) ProjectQualified(ctx context.Context, project model.ProjectRecord) error {
	return t.send(ctx, FormatProject(project))
}

func (t *Telegram) send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "notify: telegram send")
	}
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return eris.Wrap(err, "notify: telegram send")
	}
	return nil
}

// FormatLead renders a qualified places lead as Telegram HTML.
func FormatLead(lead model.LeadRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b> (%d/10)\n", html.EscapeString(lead.BusinessName), lead.Score)
	if lead.Category != "" {
		fmt.Fprintf(&b, "%s, %s\n", html.EscapeString(lead.Category), lead.EstimatedSize)
	}
	if lead.Address != "" {
		b.WriteString(html.EscapeString(lead.Address) + "\n")
	}
	if lead.Phone != "" {
		b.WriteString(html.EscapeString(lead.Phone) + "\n")
	}
	if lead.Website != "" {
		fmt.Fprintf(&b, "<a href=\"%s\">%s</a>\n", html.EscapeString(lead.Website), html.EscapeString(lead.Website))
	}
	if lead.Reasoning != "" {
		fmt.Fprintf(&b, "\n<i>%s</i>", html.EscapeString(lead.Reasoning))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatProject renders a qualified feed project as Telegram HTML.
func FormatProject(p model.ProjectRecord) string {
	score := "?"
	if p.Score != nil {
		score = fmt.Sprintf("%d", *p.Score)
	}
	return fmt.Sprintf("<b>%s</b> (%s/10)\n<a href=\"%s\">Voir le projet</a>",
		html.EscapeString(p.Title), score, html.EscapeString(p.URL))
}
