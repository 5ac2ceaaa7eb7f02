package api

import (
	"context"
	"errors"
	"net/http"
)

var ErrNoUserID = errors.New("dashboard needs a signed-in user id")

func (c *Client) Dashboard(ctx context.Context, userID ID) (Dashboard, error) {
	if userID == "" {
		return Dashboard{}, ErrNoUserID
	}
	req, _ := c.jsonRequest(http.MethodGet, pathID("/pptm/dashboard", userID, ""), nil)
	var out Dashboard
	if err := c.call(ctx, req, &out); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}
