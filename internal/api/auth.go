package api

import (
	"context"
	"net/http"
	"net/url"
)

// Login exchanges credentials for a bearer token using the OAuth2 password form.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	var tok Token
	if err := c.call(ctx, c.formRequest("/token", form), &tok); err != nil {
		return Token{}, err
	}
	return tok, nil
}

func (c *Client) Register(ctx context.Context, in RegisterRequest) (Token, error) {
	req, err := c.jsonRequest(http.MethodPost, "/register", in)
	if err != nil {
		return Token{}, err
	}
	var tok Token
	if err := c.call(ctx, req, &tok); err != nil {
		return Token{}, err
	}
	return tok, nil
}
