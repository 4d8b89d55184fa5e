// Package balance serializes access to the one account balance that every
// per-token decision cycle spends from. Cycles reserve what they intend to
// spend before acting, so two concurrent cycles can never both size a trade
// against the full balance.
package balance

import (
	"errors"
	"math/big"
	"sync"
)

// ErrInsufficient means the requested reservation exceeds what is left
// after existing reservations.
var ErrInsufficient = errors.New("balance: insufficient unreserved balance")

// Coordinator owns the account's spendable balance.
type Coordinator struct {
	mu       sync.Mutex
	total    *big.Int
	reserved *big.Int
}

// NewCoordinator starts with the given spendable total.
func NewCoordinator(total *big.Int) *Coordinator {
	return &Coordinator{
		total:    new(big.Int).Set(total),
		reserved: new(big.Int),
	}
}

// Sync replaces the total with a fresh on-chain reading. Reservations
// survive the sync; in-flight trades are still going to settle.
func (c *Coordinator) Sync(total *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total.Set(total)
}

// Available returns what a cycle may size a trade against right now.
func (c *Coordinator) Available() *big.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.availableLocked()
}

func (c *Coordinator) availableLocked() *big.Int {
	avail := new(big.Int).Sub(c.total, c.reserved)
	if avail.Sign() < 0 {
		avail.SetInt64(0)
	}
	return avail
}

// Reserve sets amount aside for one trade. The caller must follow with
// either Release (trade abandoned) or Commit (trade spent).
func (c *Coordinator) Reserve(amount *big.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if amount.Cmp(c.availableLocked()) > 0 {
		return ErrInsufficient
	}
	c.reserved.Add(c.reserved, amount)
	return nil
}

// Release returns an unspent reservation to the pool.
func (c *Coordinator) Release(amount *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reserved.Sub(c.reserved, amount)
	if c.reserved.Sign() < 0 {
		c.reserved.SetInt64(0)
	}
}

// Commit consumes a reservation that was actually spent.
func (c *Coordinator) Commit(amount *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reserved.Sub(c.reserved, amount)
	if c.reserved.Sign() < 0 {
		c.reserved.SetInt64(0)
	}
	c.total.Sub(c.total, amount)
	if c.total.Sign() < 0 {
		c.total.SetInt64(0)
	}
}
