package venue

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dexarb/searcher/internal/orderbook"
)

// Registry is the static token/pool table for the venue: which quote
// tokens the bot trades and which pool holds each one against the base
// coin.
type Registry struct {
	tokens map[uint64]orderbook.Token
	pools  map[uint64]uint64
	order  []uint64
}

type registryFile struct {
	Tokens []orderbook.Token `yaml:"tokens"`
	Pools  map[uint64]uint64 `yaml:"pools"`
}

// LoadRegistry reads the token table from a YAML file.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}

	reg := &Registry{
		tokens: make(map[uint64]orderbook.Token, len(file.Tokens)),
		pools:  file.Pools,
	}
	for _, tok := range file.Tokens {
		if _, dup := reg.tokens[tok.ID]; dup {
			return nil, fmt.Errorf("duplicate token id %d in registry", tok.ID)
		}
		reg.tokens[tok.ID] = tok
		reg.order = append(reg.order, tok.ID)
	}
	return reg, nil
}

// Token looks up a quote token's metadata.
func (r *Registry) Token(id uint64) (orderbook.Token, bool) {
	tok, ok := r.tokens[id]
	return tok, ok
}

// PoolID returns the pool trading the given token against the base coin.
func (r *Registry) PoolID(tokenID uint64) (uint64, bool) {
	id, ok := r.pools[tokenID]
	return id, ok
}

// Tokens lists all registered tokens in file order.
func (r *Registry) Tokens() []orderbook.Token {
	out := make([]orderbook.Token, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tokens[id])
	}
	return out
}
