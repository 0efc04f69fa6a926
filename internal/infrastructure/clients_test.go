package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"pouchon_bot/internal/entities"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "123:test"

type sentMessage struct {
	ChatID string
	Text   string
}

// fakeBotAPI emulates getMe, getUpdates and sendMessage of the Telegram Bot API.
type fakeBotAPI struct {
	mu      sync.Mutex
	pending []string // raw update JSON served by the next getUpdates
	sent    chan sentMessage
	sendErr bool
}

func newFakeBotAPI(t *testing.T, updates ...string) (*fakeBotAPI, *httptest.Server) {
	t.Helper()
	f := &fakeBotAPI{pending: updates, sent: make(chan sentMessage, 16)}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Pouchon","username":"pouchon_bot"}}`)
	case strings.HasSuffix(r.URL.Path, "/getUpdates"):
		f.mu.Lock()
		batch := f.pending
		f.pending = nil
		f.mu.Unlock()
		if len(batch) == 0 {
			time.Sleep(10 * time.Millisecond)
		}
		fmt.Fprintf(w, `{"ok":true,"result":[%s]}`, strings.Join(batch, ","))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		f.mu.Lock()
		failing := f.sendErr
		f.mu.Unlock()
		if failing {
			fmt.Fprint(w, `{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`)
			return
		}
		f.sent <- sentMessage{ChatID: r.Form.Get("chat_id"), Text: r.Form.Get("text")}
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":99,"date":0,"chat":{"id":%s,"type":"private"},"text":%q}}`,
			r.Form.Get("chat_id"), r.Form.Get("text"))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, srv *httptest.Server) *TelegramClient {
	t.Helper()
	client, err := NewTelegramClientWithEndpoint(testToken, srv.URL+"/bot%s/%s", srv.Client(), 0, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewTelegramClient_VerifiesToken(t *testing.T) {
	_, srv := newFakeBotAPI(t)

	client := newTestClient(t, srv)
	assert.Equal(t, "pouchon_bot", client.UserName())
}

func TestNewTelegramClient_InvalidToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"ok":false,"error_code":401,"description":"Unauthorized"}`)
	}))
	defer srv.Close()

	_, err := NewTelegramClientWithEndpoint("bad", srv.URL+"/bot%s/%s", srv.Client(), 0, zap.NewNop())
	assert.Error(t, err)
}

func TestTelegramClient_SendMessage(t *testing.T) {
	fake, srv := newFakeBotAPI(t)
	client := newTestClient(t, srv)

	require.NoError(t, client.SendMessage(context.Background(), 42, "*not markdown*"))

	got := <-fake.sent
	assert.Equal(t, "42", got.ChatID)
	assert.Equal(t, "*not markdown*", got.Text)
}

func TestTelegramClient_SendMessageError(t *testing.T) {
	fake, srv := newFakeBotAPI(t)
	fake.mu.Lock()
	fake.sendErr = true
	fake.mu.Unlock()
	client := newTestClient(t, srv)

	err := client.SendMessage(context.Background(), 42, "hi")
	assert.Error(t, err)
}

func TestTelegramClient_SendMessageCancelled(t *testing.T) {
	_, srv := newFakeBotAPI(t)
	client := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.SendMessage(ctx, 42, "hi"), context.Canceled)
}

func TestTelegramClient_Listen(t *testing.T) {
	_, srv := newFakeBotAPI(t,
		`{"update_id":1,"message":{"message_id":10,"date":0,"chat":{"id":42,"type":"private"},"from":{"id":7,"is_bot":false,"first_name":"Alice"},"text":"Hi"}}`,
		`{"update_id":2,"callback_query":{"id":"cb","from":{"id":7,"is_bot":false,"first_name":"Alice"},"data":"x"}}`,
		`{"update_id":3,"message":{"message_id":11,"date":0,"chat":{"id":43,"type":"private"},"from":{"id":8,"is_bot":false,"first_name":"Bob"},"text":"/start"}}`,
	)
	client := newTestClient(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	received := make(chan entities.Message, 4)
	done := make(chan struct{})
	go func() {
		defer close(done)
		client.Listen(ctx, func(_ context.Context, msg entities.Message) {
			received <- msg
		})
	}()

	first := waitMessage(t, received)
	second := waitMessage(t, received)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Listen did not return after cancel")
	}

	assert.Equal(t, entities.Message{ChatID: 42, SenderID: 7, SenderName: "Alice", Text: "Hi", Platform: PlatformTelegram}, first)
	assert.Equal(t, int64(43), second.ChatID)
	assert.Equal(t, "/start", second.Text)
	assert.Empty(t, received)
}

func waitMessage(t *testing.T, ch <-chan entities.Message) entities.Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for message")
		return entities.Message{}
	}
}

func TestToMessage(t *testing.T) {
	t.Run("no message", func(t *testing.T) {
		_, ok := ToMessage(tgbotapi.Update{UpdateID: 1})
		assert.False(t, ok)
	})

	t.Run("missing sender", func(t *testing.T) {
		msg, ok := ToMessage(tgbotapi.Update{Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: 5},
			Text: "hello",
		}})
		require.True(t, ok)
		assert.Equal(t, int64(5), msg.ChatID)
		assert.Empty(t, msg.SenderName)
		assert.Equal(t, "hello", msg.Text)
	})

	t.Run("non-text message", func(t *testing.T) {
		msg, ok := ToMessage(tgbotapi.Update{Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: 5},
			From: &tgbotapi.User{ID: 9, FirstName: "Carol"},
		}})
		require.True(t, ok)
		assert.Equal(t, "Carol", msg.SenderName)
		assert.Empty(t, msg.Text)
	})
}
