package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"switchboard/internal/bridge"
	"switchboard/internal/cascade"
)

func windowBridge(t *testing.T, windows []map[string]any) *bridge.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"ok":   true,
			"data": map[string]any{"windows": windows},
		})
	}))
	t.Cleanup(srv.Close)
	return bridge.New(srv.URL, 2*time.Second, nil)
}

func TestChatWindows_List(t *testing.T) {
	b := windowBridge(t, []map[string]any{
		{"id": 1, "title": "Смета финансы", "app": "Telegram"},
		{"id": 2, "title": "", "app": "Telegram"}, // main window, untitled
		{"id": 3, "title": "Team Sync", "app": "Telegram"},
	})
	c := NewChatWindows(b, "Telegram", nil)

	items, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("listed %d items, want 2 titled windows", len(items))
	}
	if loc := items[0].Locator.(cascade.WindowLocator); loc.ID != 1 {
		t.Errorf("first locator id = %d", loc.ID)
	}
	if items[1].Title != "Team Sync" {
		t.Errorf("second title = %q", items[1].Title)
	}
}

func TestChatWindows_NoWindows(t *testing.T) {
	b := windowBridge(t, nil)
	c := NewChatWindows(b, "Telegram", nil)

	_, err := c.List(context.Background())
	if !errors.Is(err, cascade.ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}
