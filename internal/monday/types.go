package monday

// ContactMatch is a directory record matched to an inbound sender. Scoped to
// one webhook request, never persisted.
type ContactMatch struct {
	Name   string `json:"name"`
	ItemID string `json:"itemId"`
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   T              `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// Narrow response payloads for each API operation.
type boardItemsData struct {
	Boards []struct {
		ItemsPage struct {
			Items []struct {
				ID           string `json:"id"`
				Name         string `json:"name"`
				ColumnValues []struct {
					ID   string `json:"id"`
					Text string `json:"text"`
				} `json:"column_values"`
			} `json:"items"`
		} `json:"items_page"`
	} `json:"boards"`
}

type createUpdateData struct {
	CreateUpdate struct {
		ID string `json:"id"`
	} `json:"create_update"`
}

type createNotificationData struct {
	CreateNotification struct {
		ID string `json:"id"`
	} `json:"create_notification"`
}

type addSubscribersData struct {
	AddSubscribersToItem []struct {
		ID string `json:"id"`
	} `json:"add_subscribers_to_item"`
}
