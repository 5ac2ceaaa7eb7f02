package api

import (
	"context"
	"fmt"
	"net/http"
)

// Journal lists entries. When the server has nothing to list it returns a
// notice instead, which is passed through as the second value.
func (c *Client) Journal(ctx context.Context) ([]JournalEntry, string, error) {
	req, _ := c.jsonRequest(http.MethodGet, "/journal", nil)
	body, err := c.doRequest(ctx, req)
	if err != nil {
		return nil, "", err
	}
	entries, notice, err := listOrMessage[JournalEntry](body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal journal: %w", err)
	}
	return entries, notice, nil
}

func (c *Client) CreateJournal(ctx context.Context, content string) (JournalEntry, error) {
	req, err := c.jsonRequest(http.MethodPost, "/journal", map[string]string{"content": content})
	if err != nil {
		return JournalEntry{}, err
	}
	var out JournalEntry
	if err := c.call(ctx, req, &out); err != nil {
		return JournalEntry{}, err
	}
	return out, nil
}

func (c *Client) DeleteJournal(ctx context.Context, id ID) error {
	req, _ := c.jsonRequest(http.MethodDelete, pathID("/journal", id, ""), nil)
	return c.call(ctx, req, nil)
}
