package remote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nhle/campuscalm-widgets/internal/model"
)

// API paths consumed by the widgets.
const (
	ChatPath          = "/api/widget/chat/"
	NotificationsBase = "/api/notifications/in-app"

	// LatestLimit is how many recent notifications the bell lists.
	LatestLimit = 5
)

type chatRequest struct {
	Message string `json:"message"`
}

// Chat sends a user message to the chat endpoint and returns the decoded
// payload. Validation of the reply is left to the caller.
func (c *Client) Chat(ctx context.Context, message string) (*model.ChatReply, error) {
	var reply model.ChatReply
	if err := c.Post(ctx, ChatPath, chatRequest{Message: message}, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

type unreadCountResponse struct {
	UnreadCount *int `json:"unread_count"`
}

// UnreadCount fetches the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp unreadCountResponse
	if err := c.Get(ctx, NotificationsBase+"/unread-count/", &resp); err != nil {
		return 0, err
	}
	if resp.UnreadCount == nil {
		return 0, fmt.Errorf("unread count: missing unread_count: %w", ErrInvalidPayload)
	}
	if *resp.UnreadCount < 0 {
		return 0, fmt.Errorf("unread count: negative value %d: %w", *resp.UnreadCount, ErrInvalidPayload)
	}
	return *resp.UnreadCount, nil
}

// Latest fetches the most recent notifications, newest first as ordered
// by the backend.
func (c *Client) Latest(ctx context.Context, limit int) ([]model.NotificationItem, error) {
	path := NotificationsBase + "/latest/?limit=" + strconv.Itoa(limit)

	var items []model.NotificationItem
	if err := c.Get(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MarkRead marks a single notification as read. Any 2xx is success.
func (c *Client) MarkRead(ctx context.Context, id int64) error {
	path := NotificationsBase + "/" + url.PathEscape(strconv.FormatInt(id, 10)) + "/mark-read/"
	return c.Post(ctx, path, nil, nil)
}

// MarkAllRead marks every notification as read. Any 2xx is success.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.Post(ctx, NotificationsBase+"/mark-all-read/", nil, nil)
}
