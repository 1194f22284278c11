package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lnk_domains/internal/model"
)

// DomainEventPublisher persists lifecycle events and broadcasts them to the owning team
type DomainEventPublisher struct {
	db     *gorm.DB
	logger *logrus.Entry
}

// NewDomainEventPublisher creates a DomainEventPublisher
func NewDomainEventPublisher(db *gorm.DB, logger *logrus.Entry) *DomainEventPublisher {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &DomainEventPublisher{db: db, logger: logger.WithField("component", "ws-publisher")}
}

// Publish writes the event row first; broadcast failure never affects the caller
func (p *DomainEventPublisher) Publish(ctx context.Context, eventType string, d *model.CustomDomain) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	event := model.DomainEvent{
		TeamID:    d.TeamID,
		DomainID:  d.ID,
		EventType: eventType,
		Payload:   datatypes.JSON(payload),
	}
	if err := p.db.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	BroadcastToTeam(d.TeamID, eventUpdate, map[string]interface{}{
		"eventId": event.ID,
		"type":    eventType,
		"data":    json.RawMessage(payload),
	})

	p.logger.WithFields(logrus.Fields{"eventId": event.ID, "type": eventType, "domain": d.Domain}).Debug("event published")
	return nil
}

// IncrementalEvents returns a team's events with id > lastEventID, oldest first
func IncrementalEvents(db *gorm.DB, teamID string, lastEventID int64, maxCount int) ([]model.DomainEvent, error) {
	var events []model.DomainEvent
	err := db.
		Where("team_id = ? AND id > ?", teamID, lastEventID).
		Order("id ASC").
		Limit(maxCount).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query incremental events: %w", err)
	}
	return events, nil
}

// LatestEventID returns the newest event id of a team, 0 if none
func LatestEventID(db *gorm.DB, teamID string) (int64, error) {
	var event model.DomainEvent
	err := db.Where("team_id = ?", teamID).Order("id DESC").First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query latest event: %w", err)
	}
	return event.ID, nil
}
