package kite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"trading-toolkit/internal/client"
	"trading-toolkit/internal/database"
	"trading-toolkit/internal/types"
)

// TokenKey is where the Kite web app keeps its enctoken.
const TokenKey = "__storejs_kite_enctoken"

const (
	exchangeNSE = "NSE"
	productCNC  = "CNC"
)

// Client manages GTT triggers on Kite.
type Client struct {
	api   client.Requester
	store database.KeyValueStore
}

func New(baseURL string, store database.KeyValueStore, opts ...client.Option) *Client {
	headers := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Accept":       "application/json",
	}
	return &Client{
		api:   client.New("kite", baseURL, headers, opts...),
		store: store,
	}
}

// SetToken stores the enctoken in the same quoted form store.js uses.
func SetToken(store database.KeyValueStore, token string) error {
	quoted, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return store.Set(TokenKey, string(quoted))
}

func (c *Client) authHeaders() (map[string]string, error) {
	raw, ok, err := c.store.Get(TokenKey)
	if err != nil {
		return nil, errors.Wrap(err, "could not read kite token")
	}

	token := strings.TrimSpace(raw)
	var unquoted string
	if json.Unmarshal([]byte(token), &unquoted) == nil {
		token = unquoted
	}
	if !ok || token == "" {
		return nil, errors.Wrapf(client.ErrMissingCredential, "kite token %s not set", TokenKey)
	}

	return map[string]string{"Authorization": "enctoken " + token}, nil
}

type condition struct {
	Exchange      string    `json:"exchange"`
	TradingSymbol string    `json:"tradingsymbol"`
	TriggerValues []float64 `json:"trigger_values"`
	LastPrice     float64   `json:"last_price"`
}

type leg struct {
	Exchange        string  `json:"exchange"`
	TradingSymbol   string  `json:"tradingsymbol"`
	TransactionType string  `json:"transaction_type"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
	OrderType       string  `json:"order_type"`
	Product         string  `json:"product"`
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type trigger struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Condition struct {
		TradingSymbol string    `json:"tradingsymbol"`
		TriggerValues []float64 `json:"trigger_values"`
	} `json:"condition"`
	Orders []struct {
		Quantity int `json:"quantity"`
	} `json:"orders"`
}

// buildForm encodes a GTT. single buys at its trigger, two-leg sells at both stop loss and target.
func buildForm(order types.Order, ltp float64) (url.Values, error) {
	var side string
	switch order.Type {
	case types.GTTSingle:
		if len(order.TriggerPrices) != 1 {
			return nil, errors.Errorf("single GTT needs 1 trigger price, got %d", len(order.TriggerPrices))
		}
		side = "BUY"
	case types.GTTTwoLeg:
		if len(order.TriggerPrices) != 2 {
			return nil, errors.Errorf("two-leg GTT needs 2 trigger prices, got %d", len(order.TriggerPrices))
		}
		side = "SELL"
	default:
		return nil, errors.Errorf("unknown GTT type %q", order.Type)
	}

	legs := make([]leg, 0, len(order.TriggerPrices))
	for _, price := range order.TriggerPrices {
		legs = append(legs, leg{
			Exchange:        exchangeNSE,
			TradingSymbol:   order.Symbol,
			TransactionType: side,
			Quantity:        order.Quantity,
			Price:           price,
			OrderType:       "LIMIT",
			Product:         productCNC,
		})
	}

	cond, err := json.Marshal(condition{
		Exchange:      exchangeNSE,
		TradingSymbol: order.Symbol,
		TriggerValues: order.TriggerPrices,
		LastPrice:     ltp,
	})
	if err != nil {
		return nil, err
	}
	orders, err := json.Marshal(legs)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("condition", string(cond))
	form.Set("orders", string(orders))
	form.Set("type", order.Type)
	return form, nil
}

// CreateGTT places a trigger and returns its remote id.
func (c *Client) CreateGTT(ctx context.Context, order types.Order, ltp float64) (int64, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return 0, err
	}
	form, err := buildForm(order, ltp)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid GTT for %s", order.Symbol)
	}

	var resp envelope
	err = c.api.RequestJSON(ctx, "/triggers", client.Options{
		Method:  http.MethodPost,
		Headers: headers,
		Body:    form.Encode(),
	}, &resp)
	if err != nil {
		return 0, errors.Wrapf(err, "could not create GTT for %s", order.Symbol)
	}

	var data struct {
		TriggerID int64 `json:"trigger_id"`
	}
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			return 0, &client.ParseError{Message: err.Error()}
		}
	}

	log.Debugf("created %s GTT %d for %s", order.Type, data.TriggerID, order.Symbol)
	return data.TriggerID, nil
}

// ListGTT returns active triggers grouped by symbol.
func (c *Client) ListGTT(ctx context.Context) (types.OrderMap, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}

	var resp envelope
	err = c.api.RequestJSON(ctx, "/triggers", client.Options{Headers: headers}, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "could not list GTT orders")
	}

	var triggers []trigger
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &triggers); err != nil {
			return nil, &client.ParseError{Message: err.Error()}
		}
	}

	orders := make(types.OrderMap)
	for _, t := range triggers {
		if t.Status != "active" {
			continue
		}
		quantity := 0
		if len(t.Orders) > 0 {
			quantity = t.Orders[0].Quantity
		}
		orders.Add(types.Order{
			Symbol:        t.Condition.TradingSymbol,
			Quantity:      quantity,
			Type:          t.Type,
			ID:            t.ID,
			TriggerPrices: t.Condition.TriggerValues,
		})
	}
	return orders, nil
}

// DeleteGTT cancels a trigger by id.
func (c *Client) DeleteGTT(ctx context.Context, id int64) error {
	headers, err := c.authHeaders()
	if err != nil {
		return err
	}

	var resp envelope
	err = c.api.RequestJSON(ctx, fmt.Sprintf("/triggers/%d", id), client.Options{
		Method:  http.MethodDelete,
		Headers: headers,
	}, &resp)
	return errors.Wrapf(err, "could not delete GTT %d", id)
}
