package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"lnk_domains/internal/model"
)

// routeKeyPrefix namespaces active-domain routing entries read by the redirect path
const routeKeyPrefix = "custom_domain:"

// RouteEntry is what the redirect path needs to serve a custom host
type RouteEntry struct {
	ID       string               `json:"id"`
	TeamID   string               `json:"teamId"`
	Domain   string               `json:"domain"`
	Type     model.DomainType     `json:"type"`
	Settings model.DomainSettings `json:"settings"`
}

// DomainRouteCache keeps one Redis key per active custom domain
type DomainRouteCache struct {
	client *redis.Client
}

// NewDomainRouteCache creates a DomainRouteCache
func NewDomainRouteCache(client *redis.Client) *DomainRouteCache {
	return &DomainRouteCache{client: client}
}

// RouteKey returns the Redis key of a domain
func RouteKey(domain string) string {
	return routeKeyPrefix + domain
}

// Put writes the routing entry; entries never expire
func (c *DomainRouteCache) Put(ctx context.Context, d *model.CustomDomain) error {
	data, err := json.Marshal(newRouteEntry(d))
	if err != nil {
		return fmt.Errorf("failed to marshal route: %w", err)
	}
	return c.client.Set(ctx, RouteKey(d.Domain), data, 0).Err()
}

// Remove deletes the routing entry; a missing key is not an error
func (c *DomainRouteCache) Remove(ctx context.Context, domain string) error {
	return c.client.Del(ctx, RouteKey(domain)).Err()
}

// Get reads a routing entry, nil if the domain is not routed
func (c *DomainRouteCache) Get(ctx context.Context, domain string) (*RouteEntry, error) {
	data, err := c.client.Get(ctx, RouteKey(domain)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entry RouteEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode route: %w", err)
	}
	return &entry, nil
}

func newRouteEntry(d *model.CustomDomain) RouteEntry {
	return RouteEntry{
		ID:       d.ID,
		TeamID:   d.TeamID,
		Domain:   d.Domain,
		Type:     d.Type,
		Settings: d.Settings.Data(),
	}
}
