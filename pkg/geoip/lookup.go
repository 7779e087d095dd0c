// Package geoip resolves visitor IPs to coarse locations via ip-api.com.
// Lookups are strictly best-effort: every failure path degrades to an empty
// Location so geo enrichment can never fail an enclosing request.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Legolasan/legolasan-in/pkg/retry"
)

// Location is the result of a geo lookup. Country and City are nil when the
// lookup failed, timed out, or the IP is private.
type Location struct {
	Country *string `json:"country"`
	City    *string `json:"city"`
}

// Config holds geo-IP service settings.
type Config struct {
	Endpoint string        // lookup base URL, e.g. "http://ip-api.com/json"
	Timeout  time.Duration // per-lookup deadline
	CacheTTL time.Duration // how long resolved IPs are cached
}

type cacheEntry struct {
	loc       Location
	timestamp time.Time
}

// Service performs cached geo-IP lookups. The in-memory cache is always
// consulted first; when a Redis client is provided, results are also shared
// there so multiple instances resolve each IP once.
type Service struct {
	endpoint string
	cacheTTL time.Duration
	client   *http.Client
	redis    *redis.Client
	logger   *zap.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry

	now      func() time.Time
	retryCfg *retry.Config
}

// NewService creates a geo-IP service. redisClient may be nil.
func NewService(cfg Config, redisClient *redis.Client, logger *zap.Logger) *Service {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 3 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}

	return &Service{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		cacheTTL: ttl,
		client:   &http.Client{Timeout: timeout},
		redis:    redisClient,
		logger:   logger.Named("geoip"),
		cache:    make(map[string]cacheEntry),
		now:      time.Now,
		// One quick retry. The budget for a lookup is small; anything
		// longer and the page view write is better off without geo.
		retryCfg: &retry.Config{
			MaxRetries:   1,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     200 * time.Millisecond,
			Multiplier:   1.0,
			JitterFactor: 0.1,
		},
	}
}

type lookupResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	City    string `json:"city"`
}

// Lookup resolves the IP to a Location. Private, loopback and unknown
// addresses resolve to an empty Location without a network call.
func (s *Service) Lookup(ctx context.Context, ip string) Location {
	if isPrivateOrUnknown(ip) {
		return Location{}
	}

	if loc, ok := s.fromCache(ip); ok {
		return loc
	}

	if loc, ok := s.fromRedis(ctx, ip); ok {
		s.store(ip, loc)
		return loc
	}

	loc, err := retry.DoWithResult(ctx, s.retryCfg, func() (Location, error) {
		return s.fetch(ctx, ip)
	})
	if err != nil {
		s.logger.Debug("geo lookup failed", zap.String("ip", ip), zap.Error(err))
		return Location{}
	}

	s.store(ip, loc)
	s.storeRedis(ctx, ip, loc)
	return loc
}

func (s *Service) fetch(ctx context.Context, ip string) (Location, error) {
	url := fmt.Sprintf("%s/%s?fields=status,country,city", s.endpoint, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Location{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, err
	}

	if body.Status != "success" {
		return Location{}, fmt.Errorf("lookup status %q", body.Status)
	}

	var loc Location
	if body.Country != "" {
		loc.Country = &body.Country
	}
	if body.City != "" {
		loc.City = &body.City
	}
	return loc, nil
}

func (s *Service) fromCache(ip string) (Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache[ip]
	if !ok || s.now().Sub(entry.timestamp) > s.cacheTTL {
		return Location{}, false
	}
	return entry.loc, true
}

func (s *Service) store(ip string, loc Location) {
	s.mu.Lock()
	s.cache[ip] = cacheEntry{loc: loc, timestamp: s.now()}
	s.mu.Unlock()
}

func (s *Service) fromRedis(ctx context.Context, ip string) (Location, bool) {
	if s.redis == nil {
		return Location{}, false
	}

	raw, err := s.redis.Get(ctx, redisKey(ip)).Bytes()
	if err != nil {
		return Location{}, false
	}

	var loc Location
	if err := json.Unmarshal(raw, &loc); err != nil {
		return Location{}, false
	}
	return loc, true
}

func (s *Service) storeRedis(ctx context.Context, ip string, loc Location) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(loc)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, redisKey(ip), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("failed to cache geo result in redis", zap.Error(err))
	}
}

func redisKey(ip string) string {
	return "geoip:" + ip
}

// Cleanup drops expired in-memory cache entries. Called periodically.
func (s *Service) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for ip, entry := range s.cache {
		if now.Sub(entry.timestamp) > s.cacheTTL {
			delete(s.cache, ip)
		}
	}
}

// isPrivateOrUnknown reports whether the IP should skip lookup entirely.
func isPrivateOrUnknown(ip string) bool {
	if ip == "" || ip == "unknown" || ip == "127.0.0.1" || ip == "::1" {
		return true
	}
	return strings.HasPrefix(ip, "192.168.") || strings.HasPrefix(ip, "10.")
}
