package tests

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskbot/internal/adapter/http/handlers"
	"taskbot/internal/adapter/http/middleware"
)

const (
	signingSecret = "8f742231b10e8888abcd99yyyzzz85a5"
	botUserID     = "UBOT"
)

func newSlackRouter(chat *chatServiceMock, poster *fakePoster) *gin.Engine {
	return newSlackRouterForBot(chat, poster, botUserID)
}

func newSlackRouterForBot(chat *chatServiceMock, poster *fakePoster, bot string) *gin.Engine {
	handler := handlers.NewSlackEventsHandler(chat, poster, signingSecret, bot)

	router := gin.New()
	router.POST("/slack/events", middleware.LanguageMiddleware(), handler.HandleEvent)
	return router
}

func signedRequest(body string, secret string) *http.Request {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + ts + ":" + body))

	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
	return req
}

func callbackBody(event string) string {
	return `{"token":"t","team_id":"T1","api_app_id":"A1","type":"event_callback","event_id":"Ev1","event_time":1771000000,"event":` + event + `}`
}

func TestSlackEvents_RejectsBadSignature(t *testing.T) {
	chat := new(chatServiceMock)
	poster := &fakePoster{}

	rec := httptest.NewRecorder()
	newSlackRouter(chat, poster).ServeHTTP(rec, signedRequest(`{"type":"url_verification","challenge":"abc"}`, "wrong-secret"))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "署名の検証に失敗しました。")
	require.Empty(t, poster.posts)
}

func TestSlackEvents_URLVerification(t *testing.T) {
	rec := httptest.NewRecorder()
	newSlackRouter(new(chatServiceMock), &fakePoster{}).
		ServeHTTP(rec, signedRequest(`{"token":"t","type":"url_verification","challenge":"3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P"}`, signingSecret))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P", rec.Body.String())
}

func TestSlackEvents_MessageIsDispatchedAndAnswered(t *testing.T) {
	chat := new(chatServiceMock)
	chat.On("ParseAndDispatch", mock.Anything, "タスク一覧", "U1").Return("📝 該当するタスクはありません", true).Once()
	poster := &fakePoster{}

	body := callbackBody(`{"type":"message","channel":"C1","user":"U1","text":"タスク一覧","ts":"1771000000.000100","thread_ts":"1771000000.000001"}`)
	rec := httptest.NewRecorder()
	newSlackRouter(chat, poster).ServeHTTP(rec, signedRequest(body, signingSecret))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, poster.posts, 1)
	require.Equal(t, "C1", poster.posts[0].Get("channel"))
	require.Equal(t, "📝 該当するタスクはありません", poster.posts[0].Get("text"))
	require.Equal(t, "1771000000.000001", poster.posts[0].Get("thread_ts"))
	chat.AssertExpectations(t)
}

func TestSlackEvents_AppMentionDropsBotMention(t *testing.T) {
	chat := new(chatServiceMock)
	chat.On("ParseAndDispatch", mock.Anything, "引き継ぎ一覧", "U1").Return("📝 保留中の引き継ぎ一覧（0件）", true).Once()
	poster := &fakePoster{}

	body := callbackBody(`{"type":"app_mention","channel":"C1","user":"U1","text":"<@UBOT> 引き継ぎ一覧","ts":"1771000000.000100"}`)
	rec := httptest.NewRecorder()
	newSlackRouter(chat, poster).ServeHTTP(rec, signedRequest(body, signingSecret))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, poster.posts, 1)
	require.Empty(t, poster.posts[0].Get("thread_ts"))
	chat.AssertExpectations(t)
}

func TestSlackEvents_IgnoredMessages(t *testing.T) {
	events := []string{
		`{"type":"message","channel":"C1","user":"U1","bot_id":"B1","text":"タスク一覧","ts":"1"}`,
		`{"type":"message","channel":"C1","subtype":"message_changed","text":"タスク一覧","ts":"1"}`,
	}
	for _, event := range events {
		chat := new(chatServiceMock)
		poster := &fakePoster{}

		rec := httptest.NewRecorder()
		newSlackRouter(chat, poster).ServeHTTP(rec, signedRequest(callbackBody(event), signingSecret))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, poster.posts)
		chat.AssertNotCalled(t, "ParseAndDispatch", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestSlackEvents_RetriesAreAcknowledgedOnly(t *testing.T) {
	chat := new(chatServiceMock)
	poster := &fakePoster{}

	req := signedRequest(callbackBody(`{"type":"message","channel":"C1","user":"U1","text":"タスク一覧","ts":"1"}`), signingSecret)
	req.Header.Set("X-Slack-Retry-Num", "1")
	rec := httptest.NewRecorder()
	newSlackRouter(chat, poster).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	chat.AssertNotCalled(t, "ParseAndDispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestSlackEvents_NonCommandsAndPostFailures(t *testing.T) {
	chat := new(chatServiceMock)
	chat.On("ParseAndDispatch", mock.Anything, "おはよう", "U1").Return("", false).Once()
	chat.On("ParseAndDispatch", mock.Anything, "タスク一覧", "U1").Return("📝", true).Once()
	poster := &fakePoster{err: errors.New("not_in_channel")}
	router := newSlackRouter(chat, poster)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(callbackBody(`{"type":"message","channel":"C1","user":"U1","text":"おはよう","ts":"1"}`), signingSecret))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, poster.posts)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, signedRequest(callbackBody(`{"type":"message","channel":"C1","user":"U1","text":"タスク一覧","ts":"2"}`), signingSecret))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, poster.posts, 1)
	chat.AssertExpectations(t)
}

func TestSlackEvents_MentionDeliveredTwiceIsHandledOnce(t *testing.T) {
	chat := new(chatServiceMock)
	chat.On("ParseAndDispatch", mock.Anything, "「レポート作成」を明日やる", "U1").Return("✅ タスクを登録しました", true).Once()
	poster := &fakePoster{}
	router := newSlackRouter(chat, poster)

	text := `<@UBOT> 「レポート作成」を明日やる`
	for _, event := range []string{
		`{"type":"message","channel":"C1","channel_type":"channel","user":"U1","text":"` + text + `","ts":"1771000000.000100"}`,
		`{"type":"app_mention","channel":"C1","user":"U1","text":"` + text + `","ts":"1771000000.000100"}`,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, signedRequest(callbackBody(event), signingSecret))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Len(t, poster.posts, 1)
	chat.AssertExpectations(t)
	chat.AssertNumberOfCalls(t, "ParseAndDispatch", 1)
}

func TestSlackEvents_OnlyTheBotMentionIsRemoved(t *testing.T) {
	chat := new(chatServiceMock)
	chat.On("ParseAndDispatch", mock.Anything, "「認証まで完成」を <@U2> に 明日9時から引き継ぎ", "U1").Return("✅", true).Once()
	chat.On("ParseAndDispatch", mock.Anything, "<@U2> に 明日9時から引き継ぎ", "U1").Return("✅", true).Once()
	poster := &fakePoster{}
	router := newSlackRouter(chat, poster)

	events := []string{
		`{"type":"app_mention","channel":"C1","user":"U1","text":"「認証まで完成」を <@U2> に <@UBOT|taskbot> 明日9時から引き継ぎ","ts":"1"}`,
		`{"type":"message","channel":"D1","channel_type":"im","user":"U1","text":"<@U2> に 明日9時から引き継ぎ","ts":"2"}`,
	}
	for _, event := range events {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, signedRequest(callbackBody(event), signingSecret))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Len(t, poster.posts, 2)
	chat.AssertExpectations(t)
}

func TestSlackEvents_UnknownBotUserLeavesLeadingMentionsToAppMention(t *testing.T) {
	chat := new(chatServiceMock)
	chat.On("ParseAndDispatch", mock.Anything, "タスク一覧", "U1").Return("📝", true).Once()
	poster := &fakePoster{}
	router := newSlackRouterForBot(chat, poster, "")

	for _, event := range []string{
		`{"type":"message","channel":"C1","user":"U1","text":"<@UBOT> タスク一覧","ts":"1"}`,
		`{"type":"app_mention","channel":"C1","user":"U1","text":"<@UBOT> タスク一覧","ts":"1"}`,
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, signedRequest(callbackBody(event), signingSecret))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Len(t, poster.posts, 1)
	chat.AssertExpectations(t)
}
