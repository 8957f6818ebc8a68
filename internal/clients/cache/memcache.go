package cache

import (
	"net/url"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/expense-ledger/internal/logger"
)

const keyPrefix = "ledger:"

var ErrMiss = memcache.ErrCacheMiss

type MemcacheClient struct {
	client *memcache.Client
	ttl    int32
}

type config interface {
	Hosts() []string
	TTL() time.Duration
}

func NewMemcache(config config) (*MemcacheClient, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &MemcacheClient{
		client: mc,
		ttl:    int32(config.TTL() / time.Second),
	}, mc.Ping()
}

func formatKey(username string) string {
	return keyPrefix + url.QueryEscape(username)
}

func (mc *MemcacheClient) CacheDocument(username string, body []byte) error {
	logger.Debug("cache document", zap.String("username", username))
	return mc.client.Set(&memcache.Item{
		Key:        formatKey(username),
		Value:      body,
		Expiration: mc.ttl,
	})
}

func (mc *MemcacheClient) GetDocument(username string) ([]byte, error) {
	logger.Debug("get document from cache", zap.String("username", username))
	item, err := mc.client.Get(formatKey(username))
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

func (mc *MemcacheClient) Invalidate(username string) error {
	logger.Debug("invalidate cache", zap.String("username", username))

	err := mc.client.Delete(formatKey(username))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return err
	}
	return nil
}
