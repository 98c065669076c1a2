package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScout/internal/model"
	"StockScout/internal/recorder"
)

type fakeTelegram struct {
	mu       sync.Mutex
	messages []map[string]string
	failures int32 // sendMessage calls to reject before accepting
	sent     chan struct{}
	updates  int32
}

func newFakeTelegram() *fakeTelegram {
	return &fakeTelegram{sent: make(chan struct{}, 16)}
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		if atomic.AddInt32(&f.failures, -1) >= 0 {
			http.Error(w, `{"ok":false}`, http.StatusBadGateway)
			return
		}
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		f.mu.Lock()
		f.messages = append(f.messages, payload)
		f.mu.Unlock()
		w.Write([]byte(`{"ok":true}`))
		f.sent <- struct{}{}
	case strings.HasSuffix(r.URL.Path, "/getUpdates"):
		if atomic.AddInt32(&f.updates, 1) == 1 {
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /top "}},
				{"update_id":8}
			]}`))
			return
		}
		select {
		case <-r.Context().Done():
		case <-time.After(50 * time.Millisecond):
		}
		w.Write([]byte(`{"ok":true,"result":[]}`))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeTelegram) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.messages {
		out = append(out, m["text"])
	}
	return out
}

func newTestNotifier(t *testing.T, f *fakeTelegram) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("TOKEN", "42", "", 2, zerolog.Nop())
	n.APIBase = srv.URL
	n.RetryBackoff = time.Millisecond
	return n
}

func sampleDoc() *model.Document {
	return &model.Document{
		LastUpdated: "2024-06-05T22:30:00Z",
		Stocks: []model.AnalysisResult{
			{Ticker: "AAPL", Region: "US", ConfidenceScore: 69, CurrentPrice: 130, PriceChangePercent: 1.17},
			{Ticker: "AT&T", Region: "US", ConfidenceScore: 50, CurrentPrice: 17.2, PriceChangePercent: -0.4},
			{Ticker: "VOD.L", Region: "UK", ConfidenceScore: 37, CurrentPrice: 72.1},
		},
	}
}

func TestSend(t *testing.T) {
	f := newFakeTelegram()
	n := newTestNotifier(t, f)

	require.NoError(t, n.Send(context.Background(), "hello"))
	f.mu.Lock()
	defer f.mu.Unlock()
	require.Len(t, f.messages, 1)
	assert.Equal(t, "42", f.messages[0]["chat_id"])
	assert.Equal(t, "HTML", f.messages[0]["parse_mode"])
	assert.Equal(t, "hello", f.messages[0]["text"])
}

func TestSendWithRetry(t *testing.T) {
	f := newFakeTelegram()
	f.failures = 2
	n := newTestNotifier(t, f)

	require.NoError(t, n.SendWithRetry(context.Background(), "retry me", 3))
	assert.Equal(t, []string{"retry me"}, f.texts())
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	f := newFakeTelegram()
	f.failures = 10
	n := newTestNotifier(t, f)

	err := n.SendWithRetry(context.Background(), "never", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 attempts failed")
	assert.Empty(t, f.texts())
}

func TestNotifyRun(t *testing.T) {
	f := newFakeTelegram()
	n := newTestNotifier(t, f)

	run := &recorder.RunRecord{Analyzed: 3, Failed: 1}
	require.NoError(t, n.NotifyRun(context.Background(), sampleDoc(), run))

	texts := f.texts()
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "Analyzed: 3 | Skipped: 1")
	assert.Contains(t, texts[0], "1. <b>AAPL</b> (US) 69.0")
	assert.Contains(t, texts[0], "2. <b>AT&amp;T</b>")
	assert.NotContains(t, texts[0], "VOD.L")
}

func TestStartPolling(t *testing.T) {
	f := newFakeTelegram()
	n := newTestNotifier(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var commands []string
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string {
			commands = append(commands, cmd)
			return "reply to " + cmd
		})
		close(done)
	}()

	select {
	case <-f.sent:
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}

	assert.Equal(t, []string{"/top"}, commands)
	assert.Equal(t, []string{"reply to /top"}, f.texts())
}

func TestFormatTop_Empty(t *testing.T) {
	assert.Equal(t, "No results published yet.", FormatTop(&model.Document{}, 5))
	assert.Equal(t, "No results published yet.", FormatTop(nil, 5))
}

func TestFormatStock(t *testing.T) {
	rsi := 71.2
	s := model.AnalysisResult{
		Ticker:          "AAPL",
		CompanyName:     "Apple <Inc>",
		Region:          "US",
		CurrentPrice:    130,
		PriceChange:     1.5,
		ConfidenceScore: 69,
		Analysis:        "Bullish setup (score 69.0/100)",
		ScoreComponents: model.ScoreBreakdown{PriceMomentum: 30, TechnicalStrength: 12},
		TechnicalIndicators: model.TechnicalIndicators{
			RSI: &rsi,
		},
	}
	out := FormatStock(s)
	assert.Contains(t, out, "Apple &lt;Inc&gt;")
	assert.Contains(t, out, "Confidence: <b>69.0</b>/100")
	assert.Contains(t, out, "Momentum: 30/30")
	assert.Contains(t, out, "RSI: 71.2")
	assert.NotContains(t, out, "SMA20")
	assert.True(t, strings.HasSuffix(out, "Bullish setup (score 69.0/100)"))
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No recorded history for AAPL.", FormatHistory("AAPL", nil))

	out := FormatHistory("AAPL", []recorder.ScorePoint{
		{RecordedAt: time.Date(2024, 6, 5, 22, 30, 0, 0, time.UTC), Score: 69, Price: 130},
	})
	assert.Contains(t, out, "2024-06-05  69.0  @ 130.00")
}
