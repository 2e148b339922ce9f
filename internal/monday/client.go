package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"smsbridge/internal/observability/metrics"
	"smsbridge/internal/phone"
	"smsbridge/pkg/logging"
)

const (
	// DefaultEndpoint is the monday.com GraphQL API endpoint.
	DefaultEndpoint = "https://api.monday.com/v2"

	defaultTimeout = 10 * time.Second

	// itemsPageLimit caps how many directory records one lookup scans.
	itemsPageLimit = 500

	queryBoardItems = `query ($board_id: [ID!], $limit: Int!, $column_ids: [String!]) {
  boards(ids: $board_id) {
    items_page(limit: $limit) {
      items {
        id
        name
        column_values(ids: $column_ids) {
          id
          text
        }
      }
    }
  }
}`

	mutationCreateUpdate = `mutation ($item_id: ID!, $body: String!) {
  create_update(item_id: $item_id, body: $body) {
    id
  }
}`

	mutationCreateNotification = `mutation ($user_id: ID!, $target_id: ID!, $target_type: NotificationTargetType!, $text: String!) {
  create_notification(user_id: $user_id, target_id: $target_id, target_type: $target_type, text: $text) {
    id
  }
}`

	mutationAddSubscribers = `mutation ($item_id: ID!, $user_ids: [ID!]!) {
  add_subscribers_to_item(item_id: $item_id, user_ids: $user_ids, kind: subscriber) {
    id
  }
}`
)

// Client is a lightweight GraphQL client for the monday.com workboard API.
//
// The API key is read through a function on every call so credential rotation
// takes effect without restarting the process.
type Client struct {
	endpoint   string
	httpClient *http.Client
	apiKey     func() string
	logger     *logging.Logger
	metrics    *metrics.WebhookMetrics
}

// NewClient creates a monday GraphQL client. An empty endpoint selects the
// production API; metrics may be nil.
func NewClient(endpoint string, apiKey func() string, m *metrics.WebhookMetrics, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if apiKey == nil {
		apiKey = func() string { return "" }
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		apiKey:     apiKey,
		logger:     logger,
		metrics:    m,
	}
}

// FindContactByNumber scans the contact board for the first record whose
// phone column normalizes to the same digits as rawNumber.
//
// First match wins, in server-provided order; multiple records sharing a
// normalized number are not detected. Returns (nil, nil) without a network
// call when the number is unusable or when boardID/phoneColumnID is unset
// (lookup disabled, not an error).
func (c *Client) FindContactByNumber(ctx context.Context, boardID, phoneColumnID, rawNumber string) (*ContactMatch, error) {
	target := phone.Normalize(rawNumber)
	if target == "" {
		c.logger.Info("monday: skipping contact lookup, phone number missing or unusable")
		return nil, nil
	}
	if boardID == "" || phoneColumnID == "" {
		c.logger.Info("monday: skipping contact lookup, board or phone column not configured",
			"board_configured", boardID != "",
			"column_configured", phoneColumnID != "",
		)
		return nil, nil
	}

	data, err := execute[boardItemsData](ctx, c, "boardItems", queryBoardItems, map[string]any{
		"board_id":   boardID,
		"limit":      itemsPageLimit,
		"column_ids": []string{phoneColumnID},
	})
	if err != nil {
		return nil, err
	}

	for _, board := range data.Boards {
		for _, item := range board.ItemsPage.Items {
			for _, column := range item.ColumnValues {
				candidate := phone.Normalize(column.Text)
				if candidate != "" && candidate == target {
					c.logger.Info("monday: matched contact", "name", item.Name, "item_id", item.ID)
					return &ContactMatch{Name: item.Name, ItemID: item.ID}, nil
				}
			}
		}
	}

	c.logger.Info("monday: no contact found", "board_id", boardID)
	return nil, nil
}

// PostUpdate attaches an HTML update naming the sender to the item's activity
// feed and returns the new update's id.
func (c *Client) PostUpdate(ctx context.Context, itemID, senderLabel, message string) (string, error) {
	data, err := execute[createUpdateData](ctx, c, "createUpdate", mutationCreateUpdate, map[string]any{
		"item_id": itemID,
		"body":    updateBody(senderLabel, message),
	})
	if err != nil {
		return "", err
	}
	c.logger.Info("monday: created update", "update_id", data.CreateUpdate.ID, "item_id", itemID)
	return data.CreateUpdate.ID, nil
}

// CreateNotification sends one direct notification to a user against the
// given target/type pair.
func (c *Client) CreateNotification(ctx context.Context, userID, targetID, targetType, text string) error {
	_, err := execute[createNotificationData](ctx, c, "createNotification", mutationCreateNotification, map[string]any{
		"user_id":     userID,
		"target_id":   targetID,
		"target_type": targetType,
		"text":        text,
	})
	if err != nil {
		return err
	}
	c.logger.Info("monday: notification sent", "user_id", userID)
	return nil
}

// AddSubscribers attaches users to an item so future updates notify them.
// An empty user list is a no-op.
func (c *Client) AddSubscribers(ctx context.Context, itemID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := execute[addSubscribersData](ctx, c, "addSubscribers", mutationAddSubscribers, map[string]any{
		"item_id":  itemID,
		"user_ids": userIDs,
	})
	return err
}

// updateBody renders the HTML-escaped update body. Escaping is mandatory so
// message content cannot inject markup into the activity feed.
func updateBody(senderLabel, message string) string {
	text := strings.ReplaceAll(html.EscapeString(message), "\n", "<br/>")
	return fmt.Sprintf("<p><strong>New SMS from %s</strong></p><p>%s</p>", html.EscapeString(senderLabel), text)
}

func execute[T any](ctx context.Context, c *Client, operation, query string, variables map[string]any) (T, error) {
	var zero T

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		c.metrics.ObserveWorkboardCall(operation, "error")
		return zero, fmt.Errorf("monday: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.metrics.ObserveWorkboardCall(operation, "error")
		return zero, fmt.Errorf("monday: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveWorkboardCall(operation, "error")
		return zero, fmt.Errorf("monday: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveWorkboardCall(operation, "error")
		return zero, fmt.Errorf("monday: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.metrics.ObserveWorkboardCall(operation, "error")
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return zero, fmt.Errorf("monday: status %d: %s", resp.StatusCode, msg)
	}

	var out graphQLResponse[T]
	if err := json.Unmarshal(respBody, &out); err != nil {
		c.metrics.ObserveWorkboardCall(operation, "error")
		return zero, fmt.Errorf("monday: unmarshal response: %w", err)
	}
	if len(out.Errors) > 0 {
		c.metrics.ObserveWorkboardCall(operation, "error")
		return zero, fmt.Errorf("monday: graphql error: %s", out.Errors[0].Message)
	}

	c.metrics.ObserveWorkboardCall(operation, "ok")
	return out.Data, nil
}
