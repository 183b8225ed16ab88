package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testNotifier(srv *httptest.Server) *Notifier {
	n := NewNotifier("test-token", "4242")
	n.baseURL = srv.URL
	return n
}

func TestNotify_SendsOneHTMLMessage(t *testing.T) {
	var paths []string
	var payloads []map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		payloads = append(payloads, payload)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := testNotifier(srv).Notify(context.Background(), "✅ <b>AudioNews UK</b> digest published")
	if err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("requests = %d, want 1", len(paths))
	}
	if paths[0] != "/bottest-token/sendMessage" {
		t.Errorf("path = %q, want the token in the bot path", paths[0])
	}

	p := payloads[0]
	if p["chat_id"] != "4242" {
		t.Errorf("chat_id = %v, want 4242", p["chat_id"])
	}
	if !strings.Contains(p["text"].(string), "AudioNews UK") {
		t.Errorf("text = %v", p["text"])
	}
	if p["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %v, want HTML", p["parse_mode"])
	}
	if p["disable_web_page_preview"] != true {
		t.Errorf("disable_web_page_preview = %v, want true", p["disable_web_page_preview"])
	}
}

func TestSendOnce_ReportsAPIStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := testNotifier(srv).sendOnce(context.Background(), "message")
	if err == nil {
		t.Fatal("sendOnce() = nil for a 403, want error")
	}
	if !strings.Contains(err.Error(), "status 403") {
		t.Errorf("error = %q, want the status code in the message", err)
	}
}

func TestNotify_RetriesUntilTheAPIRecovers(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := testNotifier(srv)
	n.sleep = func(context.Context, time.Duration) error { return nil }

	if err := n.Notify(context.Background(), "message"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
