package db

import (
	"time"

	"github.com/dgraph-io/ristretto"

	"github.com/only1thor/autobank/src/models"
)

const accountsCacheKey = "bank_accounts"

// AccountsCache keeps the bank's account list warm between transfers so the
// executor does not refetch it for every action in a cycle.
type AccountsCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewAccountsCache(ttl time.Duration) (*AccountsCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100, // number of keys to track frequency of
		MaxCost:     100,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		return nil, err
	}
	return &AccountsCache{cache: cache, ttl: ttl}, nil
}

func (c *AccountsCache) Get() (*models.AccountData, bool) {
	v, ok := c.cache.Get(accountsCacheKey)
	if !ok {
		return nil, false
	}
	data, ok := v.(*models.AccountData)
	return data, ok
}

func (c *AccountsCache) Set(data *models.AccountData) {
	c.cache.SetWithTTL(accountsCacheKey, data, 1, c.ttl)
	c.cache.Wait()
}

func (c *AccountsCache) Clear() {
	c.cache.Del(accountsCacheKey)
}
