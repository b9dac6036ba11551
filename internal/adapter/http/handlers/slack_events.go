package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"taskbot/internal/adapter/http/middleware"
	"taskbot/internal/core/ports"
	"taskbot/pkg/apierrors"
)

// MessagePoster is the part of *slack.Client the events handler replies with.
type MessagePoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type SlackEventsHandler struct {
	chat          ports.ChatService
	poster        MessagePoster
	signingSecret string
	botMention    *regexp.Regexp
}

// NewSlackEventsHandler answers message and app_mention events. botUserID is
// the bot's own Slack user id (from auth.test); when empty, a message that
// starts with any mention is treated as addressed to the bot.
func NewSlackEventsHandler(chat ports.ChatService, poster MessagePoster, signingSecret, botUserID string) *SlackEventsHandler {
	h := &SlackEventsHandler{chat: chat, poster: poster, signingSecret: signingSecret}
	if botUserID != "" {
		h.botMention = regexp.MustCompile(`<@` + regexp.QuoteMeta(botUserID) + `(?:\|[^>]*)?>`)
	}
	return h
}

// HandleEvent serves the Events API request URL. Messages that are not
// commands are acknowledged and left alone.
func (h *SlackEventsHandler) HandleEvent(c *gin.Context) {
	lang := middleware.GetLang(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	if !h.verify(c.Request.Header, body) {
		c.JSON(
			http.StatusUnauthorized,
			apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgInvalidSlackSignature, lang),
		)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		zap.L().Warn("failed to parse slack event", zap.Error(err))
		c.Status(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.String(http.StatusOK, challenge.Challenge)
		return
	case slackevents.CallbackEvent:
		// Slack redelivers when we answer slowly; the first delivery already replied.
		if c.GetHeader("X-Slack-Retry-Num") != "" {
			c.Status(http.StatusOK)
			return
		}
		h.handleCallback(c.Request.Context(), event.InnerEvent)
	}

	c.Status(http.StatusOK)
}

func (h *SlackEventsHandler) verify(header http.Header, body []byte) bool {
	verifier, err := slack.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return false
	}
	if _, err := verifier.Write(body); err != nil {
		return false
	}
	return verifier.Ensure() == nil
}

func (h *SlackEventsHandler) handleCallback(ctx context.Context, inner slackevents.EventsAPIInnerEvent) {
	switch ev := inner.Data.(type) {
	case *slackevents.MessageEvent:
		if ev.BotID != "" || ev.SubType != "" || ev.User == "" {
			return
		}
		// Slack also delivers these as app_mention; answer them once, there.
		if h.mentionsBot(ev.Text) {
			return
		}
		h.reply(ctx, ev.Channel, ev.ThreadTimeStamp, ev.User, ev.Text)
	case *slackevents.AppMentionEvent:
		if ev.BotID != "" {
			return
		}
		h.reply(ctx, ev.Channel, ev.ThreadTimeStamp, ev.User, h.stripBotMention(ev.Text))
	}
}

func (h *SlackEventsHandler) reply(ctx context.Context, channel, threadTS, userID, text string) {
	reply, handled := h.chat.ParseAndDispatch(ctx, text, userID)
	if !handled {
		return
	}

	options := []slack.MsgOption{slack.MsgOptionText(reply, false)}
	if threadTS != "" {
		options = append(options, slack.MsgOptionTS(threadTS))
	}
	if _, _, err := h.poster.PostMessageContext(ctx, channel, options...); err != nil {
		zap.L().Error("failed to post slack reply", zap.String("channel", channel), zap.String("user_id", userID), zap.Error(err))
	}
}

func (h *SlackEventsHandler) mentionsBot(text string) bool {
	if h.botMention == nil {
		return strings.HasPrefix(strings.TrimSpace(text), "<@")
	}
	return h.botMention.MatchString(text)
}

// stripBotMention removes the bot's own mention so it is not mistaken for a
// handoff recipient. Mentions of other users are kept.
func (h *SlackEventsHandler) stripBotMention(text string) string {
	if h.botMention == nil {
		return stripLeadingMention(text)
	}
	return strings.Join(strings.Fields(h.botMention.ReplaceAllString(text, " ")), " ")
}

func stripLeadingMention(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "<@") {
		return text
	}
	end := strings.Index(text, ">")
	if end < 0 {
		return text
	}
	return strings.TrimSpace(text[end+1:])
}
