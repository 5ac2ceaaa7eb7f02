package api

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) Posts(ctx context.Context) ([]Post, string, error) {
	req, _ := c.jsonRequest(http.MethodGet, "/community", nil)
	body, err := c.doRequest(ctx, req)
	if err != nil {
		return nil, "", err
	}
	posts, notice, err := listOrMessage[Post](body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal community: %w", err)
	}
	return posts, notice, nil
}

func (c *Client) CreatePost(ctx context.Context, content string) (Post, error) {
	req, err := c.jsonRequest(http.MethodPost, "/community", map[string]string{"content": content})
	if err != nil {
		return Post{}, err
	}
	var out Post
	if err := c.call(ctx, req, &out); err != nil {
		return Post{}, err
	}
	return out, nil
}

func (c *Client) Reply(ctx context.Context, postID ID, content string) (Reply, error) {
	req, err := c.jsonRequest(http.MethodPost, pathID("/community", postID, "/reply"), map[string]string{"content": content})
	if err != nil {
		return Reply{}, err
	}
	var out Reply
	if err := c.call(ctx, req, &out); err != nil {
		return Reply{}, err
	}
	return out, nil
}

func (c *Client) DeletePost(ctx context.Context, id ID) error {
	req, _ := c.jsonRequest(http.MethodDelete, pathID("/community", id, ""), nil)
	return c.call(ctx, req, nil)
}
