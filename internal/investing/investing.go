package investing

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"

	"trading-toolkit/internal/client"
	"trading-toolkit/internal/types"
)

const (
	ThresholdOver  = "over"
	ThresholdUnder = "under"
)

// Client talks to the Investing.com alert and search services.
type Client struct {
	api client.Requester
}

// New builds a client for baseURL. cookie is sent on every request when set.
func New(baseURL, cookie string, opts ...client.Option) *Client {
	headers := map[string]string{
		"Content-Type":     "application/x-www-form-urlencoded",
		"X-Requested-With": "XMLHttpRequest",
	}
	if cookie != "" {
		headers["Cookie"] = cookie
	}
	return &Client{api: client.New("investing", baseURL, headers, opts...)}
}

// Threshold picks the alert direction relative to the last traded price.
func Threshold(price, ltp float64) string {
	if price > ltp {
		return ThresholdOver
	}
	return ThresholdUnder
}

// CreateAlert places a one-shot price alert with email notification.
func (c *Client) CreateAlert(ctx context.Context, alert types.Alert, ltp float64) error {
	form := url.Values{}
	form.Set("alertType", "instrument")
	form.Set("alertParams[alert_trigger]", "price")
	form.Set("alertParams[threshold]", Threshold(alert.Price, ltp))
	form.Set("alertParams[frequency]", "Once")
	form.Set("alertParams[value]", strconv.FormatFloat(alert.Price, 'f', -1, 64))
	form.Set("alertParams[platform]", "desktop")
	form.Set("alertParams[email_alert]", "Yes")
	form.Set("alertParams[pair_ID]", alert.PairID)

	log.Debugf("creating alert for pair %s at %v (ltp %v)", alert.PairID, alert.Price, ltp)

	var resp interface{}
	err := c.api.RequestJSON(ctx, "/useralerts/service/create", client.Options{
		Method: http.MethodPost,
		Body:   form.Encode(),
	}, &resp)
	return errors.Wrapf(err, "could not create alert for pair %s", alert.PairID)
}

// DeleteAlert removes an alert by its remote id.
func (c *Client) DeleteAlert(ctx context.Context, alertID string) error {
	form := url.Values{}
	form.Set("alertType", "instrument")
	form.Set("alertParams[alertId]", alertID)
	form.Set("alertParams[platform]", "desktop")

	var resp interface{}
	err := c.api.RequestJSON(ctx, "/useralerts/service/delete", client.Options{
		Method: http.MethodPost,
		Body:   form.Encode(),
	}, &resp)
	return errors.Wrapf(err, "could not delete alert %s", alertID)
}

// GetAlerts returns the raw alert center page.
func (c *Client) GetAlerts(ctx context.Context) (string, error) {
	html, err := c.api.RequestText(ctx, "/members-admin/alert-center", client.Options{
		Headers:      map[string]string{"Accept": "text/html"},
		ResponseType: client.Text,
	})
	if err != nil {
		return "", errors.Wrap(err, "could not fetch alert center")
	}
	return html, nil
}

// ListAlerts fetches the alert center and reads the alerts off it, remote ids included.
func (c *Client) ListAlerts(ctx context.Context) ([]types.Alert, error) {
	page, err := c.GetAlerts(ctx)
	if err != nil {
		return nil, err
	}
	alerts, err := ParseAlerts(page)
	if err != nil {
		return nil, errors.Wrap(err, "could not read alert center")
	}
	return alerts, nil
}

// FetchSymbolData searches instruments. Zero matches is an error wrapping client.ErrNotFound.
func (c *Client) FetchSymbolData(ctx context.Context, query string) ([]types.PairInfo, error) {
	form := url.Values{}
	form.Set("search_text", query)
	form.Set("tab_id", "All")
	form.Set("country_id", "0")

	body, err := c.api.RequestText(ctx, "/search/service/search", client.Options{
		Method: http.MethodPost,
		Body:   form.Encode(),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "symbol search %q", query)
	}

	pairs, err := parseSearch(body)
	if err != nil {
		return nil, errors.Wrapf(err, "symbol search %q", query)
	}
	if len(pairs) == 0 {
		return nil, errors.Wrapf(client.ErrNotFound, "no results for %q", query)
	}

	log.Debugf("symbol search %q matched %d pairs", query, len(pairs))
	return pairs, nil
}

func parseSearch(body string) ([]types.PairInfo, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	var p fastjson.Parser
	v, err := p.Parse(body)
	if err != nil {
		return nil, &client.ParseError{Message: err.Error()}
	}

	var pairs []types.PairInfo
	for _, item := range v.GetArray("All") {
		exchange := stringOf(item.Get("exchange_name_short"))
		if exchange == "" {
			exchange = stringOf(item.Get("exchange"))
		}
		pairs = append(pairs, types.PairInfo{
			Name:     stringOf(item.Get("name")),
			PairID:   stringOf(item.Get("pair_ID")),
			Exchange: exchange,
			Symbol:   stringOf(item.Get("symbol")),
		})
	}
	return pairs, nil
}

// stringOf reads a scalar that may arrive as a JSON string or number.
func stringOf(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.String()
	}
	return ""
}
