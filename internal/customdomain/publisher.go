package customdomain

import (
	"context"

	"lnk_domains/internal/model"
)

// RouteCache holds the host → domain entries the redirect path reads.
// Only active domains are present.
type RouteCache interface {
	Put(ctx context.Context, d *model.CustomDomain) error
	Remove(ctx context.Context, domain string) error
}

// EventPublisher fans lifecycle events out to dashboards
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, d *model.CustomDomain) error
}

type noopRouteCache struct{}

func (noopRouteCache) Put(context.Context, *model.CustomDomain) error { return nil }
func (noopRouteCache) Remove(context.Context, string) error           { return nil }

type noopEventPublisher struct{}

func (noopEventPublisher) Publish(context.Context, string, *model.CustomDomain) error { return nil }
