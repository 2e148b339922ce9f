package monday

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func contactPagePayload() map[string]any {
	return map[string]any{
		"data": map[string]any{
			"boards": []map[string]any{{
				"items_page": map[string]any{
					"items": []map[string]any{
						{
							"id":   "item-1",
							"name": "Bob Smith",
							"column_values": []map[string]any{
								{"id": "phone", "text": "+1 (212) 555-0100"},
							},
						},
						{
							"id":   "item-2",
							"name": "Jane Doe",
							"column_values": []map[string]any{
								{"id": "phone", "text": "415-555-2671"},
							},
						},
					},
				},
			}},
		},
	}
}

func TestFindContactByNumberMatch(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode req: %v", err)
		}
		vars, _ := req["variables"].(map[string]any)
		if vars["board_id"] != "board-1" {
			t.Fatalf("unexpected board_id: %v", vars["board_id"])
		}
		if vars["limit"] != float64(500) {
			t.Fatalf("unexpected limit: %v", vars["limit"])
		}
		_ = json.NewEncoder(w).Encode(contactPagePayload())
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)

	match, err := c.FindContactByNumber(context.Background(), "board-1", "phone", "+14155552671")
	if err != nil {
		t.Fatalf("FindContactByNumber error: %v", err)
	}
	if match == nil || match.ItemID != "item-2" || match.Name != "Jane Doe" {
		t.Fatalf("unexpected match: %+v", match)
	}
	if requests != 1 {
		t.Fatalf("expected 1 request, got %d", requests)
	}
}

func TestFindContactByNumberFirstMatchWins(t *testing.T) {
	payload := contactPagePayload()
	// Both records share the same normalized number; the scan must return the
	// first one in server order.
	boards := payload["data"].(map[string]any)["boards"].([]map[string]any)
	items := boards[0]["items_page"].(map[string]any)["items"].([]map[string]any)
	items[0]["column_values"] = []map[string]any{{"id": "phone", "text": "(415) 555-2671"}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)
	match, err := c.FindContactByNumber(context.Background(), "board-1", "phone", "4155552671")
	if err != nil {
		t.Fatalf("FindContactByNumber error: %v", err)
	}
	if match == nil || match.ItemID != "item-1" {
		t.Fatalf("expected first record to win, got %+v", match)
	}
}

func TestFindContactByNumberNoMatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(contactPagePayload())
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)
	match, err := c.FindContactByNumber(context.Background(), "board-1", "phone", "+19998887777")
	if err != nil {
		t.Fatalf("FindContactByNumber error: %v", err)
	}
	if match != nil {
		t.Fatalf("expected no match, got %+v", match)
	}
}

func TestFindContactByNumberSkipsWithoutConfig(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = json.NewEncoder(w).Encode(contactPagePayload())
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)

	tests := []struct {
		name    string
		boardID string
		column  string
		number  string
	}{
		{"missing board id", "", "phone", "+14155552671"},
		{"missing phone column", "board-1", "", "+14155552671"},
		{"unusable number", "board-1", "phone", "---"},
		{"empty number", "board-1", "phone", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := c.FindContactByNumber(context.Background(), tt.boardID, tt.column, tt.number)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if match != nil {
				t.Fatalf("expected nil match, got %+v", match)
			}
		})
	}
	if requests != 0 {
		t.Fatalf("expected zero network calls, got %d", requests)
	}
}

func TestFindContactByNumberGraphQLError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "invalid board"}},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)
	if _, err := c.FindContactByNumber(context.Background(), "board-1", "phone", "+14155552671"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestFindContactByNumberHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)
	if _, err := c.FindContactByNumber(context.Background(), "board-1", "phone", "+14155552671"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestAPIKeyReadPerCall(t *testing.T) {
	var seen []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"create_update": map[string]any{"id": "u1"}},
		})
	}))
	defer ts.Close()

	key := "key-before"
	c := NewClient(ts.URL, func() string { return key }, nil, nil)

	if _, err := c.PostUpdate(context.Background(), "item-1", "Jane", "hi"); err != nil {
		t.Fatalf("PostUpdate error: %v", err)
	}
	key = "key-after"
	if _, err := c.PostUpdate(context.Background(), "item-1", "Jane", "hi"); err != nil {
		t.Fatalf("PostUpdate error: %v", err)
	}

	if len(seen) != 2 || seen[0] != "key-before" || seen[1] != "key-after" {
		t.Fatalf("expected rotated credentials per call, got %v", seen)
	}
}

func TestPostUpdateEscapesBody(t *testing.T) {
	var gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		vars, _ := req["variables"].(map[string]any)
		gotBody, _ = vars["body"].(string)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"create_update": map[string]any{"id": "update-9"}},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)
	id, err := c.PostUpdate(context.Background(), "item-1", "Jane <script>", "line1\nline2 & <b>bold</b>")
	if err != nil {
		t.Fatalf("PostUpdate error: %v", err)
	}
	if id != "update-9" {
		t.Fatalf("unexpected update id: %s", id)
	}
	if strings.Contains(gotBody, "<script>") || strings.Contains(gotBody, "<b>bold</b>") {
		t.Fatalf("body not escaped: %s", gotBody)
	}
	if !strings.Contains(gotBody, "line1<br/>line2") {
		t.Fatalf("newlines not converted: %s", gotBody)
	}
	if !strings.Contains(gotBody, "New SMS from Jane &lt;script&gt;") {
		t.Fatalf("sender label not escaped: %s", gotBody)
	}
}

func TestCreateNotification(t *testing.T) {
	var vars map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		vars, _ = req["variables"].(map[string]any)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"create_notification": map[string]any{"id": "n1"}},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)
	if err := c.CreateNotification(context.Background(), "101", "proj-9", "Project", "New SMS"); err != nil {
		t.Fatalf("CreateNotification error: %v", err)
	}
	if vars["user_id"] != "101" || vars["target_id"] != "proj-9" || vars["target_type"] != "Project" {
		t.Fatalf("unexpected variables: %v", vars)
	}
}

func TestCreateNotificationErrorPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "user not found"}},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)
	if err := c.CreateNotification(context.Background(), "101", "proj-9", "Project", "text"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestAddSubscribersEmptyIsNoOp(t *testing.T) {
	requests := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)
	if err := c.AddSubscribers(context.Background(), "item-1", nil); err != nil {
		t.Fatalf("AddSubscribers error: %v", err)
	}
	if requests != 0 {
		t.Fatalf("expected no network call for empty subscriber list, got %d", requests)
	}
}

func TestAddSubscribersSendsUserIDs(t *testing.T) {
	var vars map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		vars, _ = req["variables"].(map[string]any)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"add_subscribers_to_item": []map[string]any{{"id": "101"}}},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, func() string { return "key" }, nil, nil)
	if err := c.AddSubscribers(context.Background(), "item-1", []string{"101", "102"}); err != nil {
		t.Fatalf("AddSubscribers error: %v", err)
	}
	ids, _ := vars["user_ids"].([]any)
	if len(ids) != 2 || ids[0] != "101" || ids[1] != "102" {
		t.Fatalf("unexpected user_ids: %v", vars["user_ids"])
	}
	if vars["item_id"] != "item-1" {
		t.Fatalf("unexpected item_id: %v", vars["item_id"])
	}
}

func TestUpdateBody(t *testing.T) {
	body := updateBody("Jane Doe (+14155552671)", "hi there")
	want := "<p><strong>New SMS from Jane Doe (+14155552671)</strong></p><p>hi there</p>"
	if body != want {
		t.Fatalf("updateBody = %q, want %q", body, want)
	}
}
