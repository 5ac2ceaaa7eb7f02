package api

import (
	"context"
	"net/http"

	"guardmind/internal/session"
)

// guestChatToken is the bearer the chat endpoint accepts for anonymous users.
const guestChatToken = "guest"

type chatRequest struct {
	Message string `json:"message"`
	ChatID  *ID    `json:"chat_id"`
}

// Chat sends one message. Guests never continue a stored conversation.
func (c *Client) Chat(ctx context.Context, message string, chatID ID) (ChatReply, error) {
	guest := c.bearer() == session.GuestToken
	in := chatRequest{Message: message}
	if !guest && chatID != "" {
		in.ChatID = &chatID
	}
	req, err := c.jsonRequest(http.MethodPost, "/chat", in)
	if err != nil {
		return ChatReply{}, err
	}
	if guest {
		req.bearer = guestChatToken
	}
	var out ChatReply
	if err := c.call(ctx, req, &out); err != nil {
		return ChatReply{}, err
	}
	return out, nil
}

func (c *Client) ChatHistory(ctx context.Context) ([]ChatSummary, error) {
	req, _ := c.jsonRequest(http.MethodGet, "/chat-history", nil)
	var out []ChatSummary
	if err := c.call(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ChatMessages(ctx context.Context, id ID) (ChatThread, error) {
	req, _ := c.jsonRequest(http.MethodGet, pathID("/chat", id, ""), nil)
	var out ChatThread
	if err := c.call(ctx, req, &out); err != nil {
		return ChatThread{}, err
	}
	return out, nil
}

func (c *Client) DeleteChat(ctx context.Context, id ID) error {
	req, _ := c.jsonRequest(http.MethodDelete, pathID("/chat", id, ""), nil)
	return c.call(ctx, req, nil)
}
