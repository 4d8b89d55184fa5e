// Package venue is the boundary to the chain: it fetches pool reserves,
// resting orders and the account balance, and decodes them into the shapes
// the engine consumes. Everything network-shaped lives here so the engine
// stays pure.
package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"time"

	"github.com/dexarb/searcher/internal/amm"
	"github.com/dexarb/searcher/internal/orderbook"
)

// balanceReserve is held back from the raw account balance on top of the
// chain's minimum balance, so fees and opt-ins never eat into a sized trade.
const balanceReserve = 10_000_000

// Source is what one decision cycle needs from the chain.
type Source interface {
	Pool(ctx context.Context, tokenID uint64) (*amm.Pool, error)
	Orders(ctx context.Context, tokenID uint64) ([]orderbook.Order, error)
	SpendableBalance(ctx context.Context) (*big.Int, error)
}

// Client reads the venue's indexer REST API. Order-book reads go through a
// short-lived per-token cache so bursts of cycles share one fetch.
type Client struct {
	baseURL  string
	account  string
	registry *Registry
	http     *http.Client
	cache    *orderbook.Cache
}

func NewClient(baseURL, account string, registry *Registry) *Client {
	return &Client{
		baseURL:  baseURL,
		account:  account,
		registry: registry,
		http:     &http.Client{Timeout: 10 * time.Second},
		cache:    orderbook.NewCache(orderbook.DefaultFreshness),
	}
}

type poolResponse struct {
	PoolID       uint64 `json:"pool_id"`
	BaseReserve  string `json:"base_reserve"`
	QuoteReserve string `json:"quote_reserve"`
}

type orderResponse struct {
	OrderID      uint64 `json:"order_id"`
	Maker        string `json:"maker"`
	TokenID      uint64 `json:"token_id"`
	BaseAmount   string `json:"base_amount"`
	QuoteAmount  string `json:"quote_amount"`
	IsBuyingBase bool   `json:"is_buying_base"`
}

type accountResponse struct {
	Amount     uint64 `json:"amount"`
	MinBalance uint64 `json:"min_balance"`
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Pool fetches a fresh reserve snapshot for the token's pool.
func (c *Client) Pool(ctx context.Context, tokenID uint64) (*amm.Pool, error) {
	poolID, ok := c.registry.PoolID(tokenID)
	if !ok {
		return nil, fmt.Errorf("no pool registered for token %d", tokenID)
	}
	token, ok := c.registry.Token(tokenID)
	if !ok {
		return nil, fmt.Errorf("unknown token %d", tokenID)
	}

	var resp poolResponse
	if err := c.get(ctx, fmt.Sprintf("/v1/pools/%d", poolID), &resp); err != nil {
		return nil, err
	}

	base, ok := new(big.Int).SetString(resp.BaseReserve, 10)
	if !ok {
		return nil, fmt.Errorf("pool %d: bad base reserve %q", poolID, resp.BaseReserve)
	}
	quote, ok := new(big.Int).SetString(resp.QuoteReserve, 10)
	if !ok {
		return nil, fmt.Errorf("pool %d: bad quote reserve %q", poolID, resp.QuoteReserve)
	}

	return &amm.Pool{
		ID:            poolID,
		BaseReserve:   base,
		QuoteReserve:  quote,
		BaseDecimals:  orderbook.BaseDecimals,
		QuoteDecimals: token.Decimals,
	}, nil
}

// Orders returns the token's resting orders, serving from the snapshot
// cache while it is fresh.
func (c *Client) Orders(ctx context.Context, tokenID uint64) ([]orderbook.Order, error) {
	if cached, ok := c.cache.Get(tokenID); ok {
		return cached, nil
	}

	token, ok := c.registry.Token(tokenID)
	if !ok {
		return nil, fmt.Errorf("unknown token %d", tokenID)
	}

	var resp []orderResponse
	if err := c.get(ctx, fmt.Sprintf("/v1/orders?token=%d", tokenID), &resp); err != nil {
		return nil, err
	}

	orders := make([]orderbook.Order, 0, len(resp))
	for _, raw := range resp {
		if raw.TokenID != tokenID {
			continue
		}
		base, ok := new(big.Int).SetString(raw.BaseAmount, 10)
		if !ok {
			return nil, fmt.Errorf("order %d: bad base amount %q", raw.OrderID, raw.BaseAmount)
		}
		quote, ok := new(big.Int).SetString(raw.QuoteAmount, 10)
		if !ok {
			return nil, fmt.Errorf("order %d: bad quote amount %q", raw.OrderID, raw.QuoteAmount)
		}
		orders = append(orders, orderbook.Order{
			ID:           raw.OrderID,
			Maker:        raw.Maker,
			BaseAmount:   base,
			QuoteAmount:  quote,
			Token:        token,
			IsBuyingBase: raw.IsBuyingBase,
		})
	}

	c.cache.Put(tokenID, orders)
	return orders, nil
}

// SpendableBalance is the account's raw balance minus the chain's minimum
// balance and the local fee reserve. Never negative.
func (c *Client) SpendableBalance(ctx context.Context) (*big.Int, error) {
	var resp accountResponse
	if err := c.get(ctx, "/v1/accounts/"+url.PathEscape(c.account), &resp); err != nil {
		return nil, err
	}

	spendable := new(big.Int).SetUint64(resp.Amount)
	spendable.Sub(spendable, new(big.Int).SetUint64(resp.MinBalance))
	spendable.Sub(spendable, big.NewInt(balanceReserve))
	if spendable.Sign() < 0 {
		spendable.SetInt64(0)
	}
	return spendable, nil
}
