package threecommas

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestSigning(t *testing.T) {
	var gotKey, gotSig, gotURI string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Apikey")
		gotSig = r.Header.Get("Signature")
		gotURI = r.URL.RequestURI()
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New("api-key", "api-secret", false)
	c.BaseURL = srv.URL
	if err := c.StartDeal(context.Background(), 123, "USDT_BTC"); err != nil {
		t.Fatal(err)
	}

	if gotKey != "api-key" {
		t.Errorf("got api key %q", gotKey)
	}
	mac := hmac.New(sha256.New, []byte("api-secret"))
	mac.Write([]byte(gotURI))
	mac.Write(gotBody)
	want := hex.EncodeToString(mac.Sum(nil))
	if gotSig != want {
		t.Errorf("got signature %q, want %q", gotSig, want)
	}
}

func TestPaperModeHeader(t *testing.T) {
	var gotMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMode = r.Header.Get("Forced-Mode")
		w.Write([]byte(`{"id": 42}`))
	}))
	defer srv.Close()

	c := New("k", "s", true)
	c.BaseURL = srv.URL
	st, err := c.OpenSmartTrade(context.Background(), &SmartTradeRequest{Pair: "USDT_BTC"})
	if err != nil {
		t.Fatal(err)
	}
	if gotMode != "paper" {
		t.Errorf("got forced mode %q, want paper", gotMode)
	}
	if st.ID != 42 {
		t.Errorf("got smarttrade id %d, want 42", st.ID)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": "record_invalid", "msg": "Pair is not valid"}`))
	}))
	defer srv.Close()

	c := New("k", "s", false)
	c.BaseURL = srv.URL
	err := c.StartDeal(context.Background(), 1, "USDT_NOPE")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Msg != "Pair is not valid" {
		t.Errorf("got msg %q", apiErr.Msg)
	}
	if Message(err) != "Pair is not valid" {
		t.Errorf("got message %q", Message(err))
	}
}

func TestBotDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": 12345,
			"account_id": 777,
			"account_name": "Binance Spot",
			"name": "BTC scalper",
			"pairs": ["USDT_BTC", "USDT_ETH"],
			"active_deals_count": 1,
			"max_active_deals": 4,
			"active_deals": [{"id": 9, "pair": "USDT_BTC"}],
			"min_volume_btc_24h": "100.0"
		}`))
	}))
	defer srv.Close()

	c := New("k", "s", false)
	c.BaseURL = srv.URL
	bot, err := c.Bot(context.Background(), 12345)
	if err != nil {
		t.Fatal(err)
	}
	if bot.AccountID != 777 || len(bot.Pairs) != 2 || bot.ActiveDeals[0].ID != 9 {
		t.Errorf("unexpected bot: %+v", bot)
	}
}
