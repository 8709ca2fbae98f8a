package kohan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"trading-toolkit/internal/client"
)

// DefaultBaseURL is where the companion service listens.
const DefaultBaseURL = "http://localhost:9010/v1"

// Client talks to the local Kohan service.
type Client struct {
	api client.Requester
}

func New(baseURL string, opts ...client.Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{api: client.New("kohan", baseURL, map[string]string{"Content-Type": "application/json"}, opts...)}
}

// RecordTicker tags ticker in the trading journal.
func (c *Client) RecordTicker(ctx context.Context, ticker string) error {
	endpoint := fmt.Sprintf("/ticker/%s/record", url.PathEscape(ticker))
	_, err := c.api.RequestText(ctx, endpoint, client.Options{Method: http.MethodPost})
	if err != nil {
		return errors.Wrapf(err, "could not record ticker %s", ticker)
	}
	log.Debugf("recorded ticker %s", ticker)
	return nil
}

// GetClip returns the clipboard text held by the service.
func (c *Client) GetClip(ctx context.Context) (string, error) {
	clip, err := c.api.RequestText(ctx, "/clip", client.Options{ResponseType: client.Text})
	if err != nil {
		return "", errors.Wrap(err, "could not fetch clipboard")
	}
	return clip, nil
}

func (c *Client) EnableSubmap(ctx context.Context, submap string) error {
	return c.submap(ctx, "enable", submap)
}

func (c *Client) DisableSubmap(ctx context.Context, submap string) error {
	return c.submap(ctx, "disable", submap)
}

func (c *Client) submap(ctx context.Context, action, submap string) error {
	body, err := json.Marshal(map[string]string{"submap": submap})
	if err != nil {
		return err
	}
	_, err = c.api.RequestText(ctx, "/submap/"+action, client.Options{
		Method: http.MethodPost,
		Body:   string(body),
	})
	return errors.Wrapf(err, "could not %s submap %s", action, submap)
}
