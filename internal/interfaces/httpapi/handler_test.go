package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"pricewatch/internal/application/usecase/tracker"
	"pricewatch/internal/domain"
	"pricewatch/internal/infrastructure/storage/memory"
)

// seqFetcher 按顺序返回预置结果，用完后重复最后一个
type seqFetcher struct {
	mu    sync.Mutex
	snaps []domain.Snapshot
	errs  []error
	i     int
}

func (f *seqFetcher) Fetch(ctx context.Context, coins []domain.Coin, currencies []domain.Currency) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.i
	if i >= len(f.snaps) {
		i = len(f.snaps) - 1
	} else {
		f.i++
	}
	return f.snaps[i], f.errs[i]
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestTracker(f *seqFetcher) *tracker.Tracker {
	return tracker.New(tracker.Deps{
		Fetcher:    f,
		Store:      memory.New(),
		Coins:      []domain.Coin{{ID: "bitcoin", Ticker: "BTC"}, {ID: "ethereum", Ticker: "ETH"}},
		Currencies: domain.NewCurrencies([]string{"usd", "gbp"}),
		Now:        func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type decoded struct {
	Updated string                            `json:"updated"`
	Error   string                            `json:"error"`
	Prices  map[string]map[string]interface{} `json:"prices"`
}

func decode(t *testing.T, body []byte) decoded {
	t.Helper()
	var d decoded
	if err := json.Unmarshal(body, &d); err != nil {
		t.Fatalf("decode body %q: %v", body, err)
	}
	return d
}

func TestGetPricesMovementAcrossRequests(t *testing.T) {
	f := &seqFetcher{
		snaps: []domain.Snapshot{
			{"bitcoin": {"usd": dec("100"), "gbp": dec("80")}, "ethereum": {"usd": dec("10"), "gbp": dec("8")}},
			{"bitcoin": {"usd": dec("110"), "gbp": dec("80")}},
		},
		errs: []error{nil, nil},
	}
	e := NewRouter(NewHandler(newTestTracker(f), time.Second))

	first := get(t, e, "/api/prices")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	d := decode(t, first.Body.Bytes())
	if d.Updated != "2025-01-02 03:04:05" {
		t.Errorf("unexpected updated %q", d.Updated)
	}
	if d.Prices["BTC"]["arrow"] != "·" {
		t.Errorf("first observation should be unknown, got %v", d.Prices["BTC"]["arrow"])
	}
	if d.Prices["BTC"]["usd"] != float64(100) {
		t.Errorf("unexpected usd price %v", d.Prices["BTC"]["usd"])
	}

	second := get(t, e, "/api/prices")
	d = decode(t, second.Body.Bytes())
	btc := d.Prices["BTC"]
	if btc["arrow"] != "↑" {
		t.Errorf("expected up arrow, got %v", btc["arrow"])
	}
	arrows := btc["arrows"].(map[string]interface{})
	if arrows["gbp"] != "→" {
		t.Errorf("expected flat gbp arrow, got %v", arrows["gbp"])
	}
	texts := btc["text"].(map[string]interface{})
	if texts["usd"] != "$110.00" {
		t.Errorf("unexpected usd text %v", texts["usd"])
	}

	eth := d.Prices["ETH"]
	if eth["usd"] != nil {
		t.Errorf("missing pair should be null, got %v", eth["usd"])
	}
	if eth["text"].(map[string]interface{})["usd"] != "N/A" {
		t.Errorf("missing pair should read N/A, got %v", eth["text"])
	}
}

func TestGetPricesFetchFailure(t *testing.T) {
	f := &seqFetcher{snaps: []domain.Snapshot{nil}, errs: []error{errors.New("timeout")}}
	e := NewRouter(NewHandler(newTestTracker(f), time.Second))

	rec := get(t, e, "/api/prices")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	d := decode(t, rec.Body.Bytes())
	if d.Error != FetchFailedMessage || d.Updated == "" {
		t.Errorf("unexpected failure body %+v", d)
	}
	if len(d.Prices) != 0 {
		t.Errorf("failure body should carry no prices, got %v", d.Prices)
	}
}

func TestDashboardAndHealth(t *testing.T) {
	f := &seqFetcher{snaps: []domain.Snapshot{{}}, errs: []error{nil}}
	e := NewRouter(NewHandler(newTestTracker(f), time.Second))

	rec := get(t, e, "/")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Crypto Prices") {
		t.Errorf("dashboard not served: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}

	rec = get(t, e, "/healthz")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestStreamPushesPayloads(t *testing.T) {
	f := &seqFetcher{
		snaps: []domain.Snapshot{
			{"bitcoin": {"usd": dec("100"), "gbp": dec("80")}},
			{"bitcoin": {"usd": dec("90"), "gbp": dec("80")}},
		},
		errs: []error{nil, nil},
	}
	srv := httptest.NewServer(NewRouter(NewHandler(newTestTracker(f), 20*time.Millisecond)))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var arrows []interface{}
	for i := 0; i < 2; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read push %d: %v", i, err)
		}
		d := decode(t, msg)
		arrows = append(arrows, d.Prices["BTC"]["arrow"])
	}
	if arrows[0] != "·" || arrows[1] != "↓" {
		t.Errorf("unexpected arrows %v", arrows)
	}
}
