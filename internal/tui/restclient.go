package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// derives the REST endpoint from the websocket endpoint
func NewRoomsClient(wsEndpoint string) (*RoomsClient, error) {
	u, err := url.Parse(wsEndpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}

	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	default:
		return nil, fmt.Errorf("server url must use ws or wss, got %q", u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/ws") + "/rooms"
	u.RawQuery = ""

	return &RoomsClient{
		endpoint: u.String(),
		httpClient: &http.Client{
			Timeout: roomRequestTimeout,
		},
	}, nil
}

// asks the server to mint a room id
func (c *RoomsClient) CreateRoom(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create room: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("failed to create room: server returned %s", resp.Status)
	}

	var body struct {
		RoomID string `json:"room_id"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode room: %w", err)
	}

	return body.RoomID, nil
}
