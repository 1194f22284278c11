package model

import (
	"time"

	"gorm.io/datatypes"
)

// Domain event types
const (
	DomainEventCreated        = "created"
	DomainEventUpdated        = "updated"
	DomainEventVerified       = "verified"
	DomainEventPending        = "pending"
	DomainEventFailed         = "failed"
	DomainEventActivated      = "activated"
	DomainEventSuspended      = "suspended"
	DomainEventDefaultChanged = "default_changed"
	DomainEventDeleted        = "deleted"
)

// DomainEvent is a persisted lifecycle event, replayed to dashboards on reconnect
type DomainEvent struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TeamID    string         `gorm:"column:team_id;type:varchar(64);not null;index:idx_domain_events_team_id" json:"teamId"`
	DomainID  string         `gorm:"column:domain_id;type:char(36);not null" json:"domainId"`
	EventType string         `gorm:"column:event_type;type:varchar(32);not null" json:"eventType"`
	Payload   datatypes.JSON `gorm:"column:payload;not null" json:"payload"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName specifies the table name for DomainEvent
func (DomainEvent) TableName() string {
	return "domain_events"
}
