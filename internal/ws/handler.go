package ws

import (
	"encoding/json"

	socketio "github.com/googollee/go-socket.io"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lnk_domains/internal/model"
)

const (
	maxIncrementalEvents = 500
	maxInitialDomains    = 10000
)

// requestDomainsHandler answers request:domains with either the events after
// lastEventId or, when the client is too far behind, the full domain list.
func requestDomainsHandler(db *gorm.DB, logger *logrus.Entry) func(s socketio.Conn, data interface{}) {
	return func(s socketio.Conn, data interface{}) {
		teamID, _ := s.Context().(string)
		if teamID == "" {
			s.Emit("error", map[string]interface{}{"message": "no tenant context"})
			return
		}

		var lastEventID int64
		if dataMap, ok := data.(map[string]interface{}); ok {
			if v, ok := dataMap["lastEventId"].(float64); ok {
				lastEventID = int64(v)
			}
		}

		if lastEventID > 0 && sendIncremental(s, db, logger, teamID, lastEventID) {
			return
		}
		sendInitial(s, db, logger, teamID)
	}
}

// sendIncremental returns false when the caller should fall back to the full list
func sendIncremental(s socketio.Conn, db *gorm.DB, logger *logrus.Entry, teamID string, lastEventID int64) bool {
	events, err := IncrementalEvents(db, teamID, lastEventID, maxIncrementalEvents)
	if err != nil {
		logger.WithField("team", teamID).Errorf("incremental events: %v", err)
		return false
	}
	if len(events) >= maxIncrementalEvents {
		return false
	}

	for _, event := range events {
		s.Emit(eventUpdate, map[string]interface{}{
			"eventId": event.ID,
			"type":    event.EventType,
			"data":    json.RawMessage(event.Payload),
		})
	}
	return true
}

func sendInitial(s socketio.Conn, db *gorm.DB, logger *logrus.Entry, teamID string) {
	var domains []model.CustomDomain
	if err := db.Where("team_id = ?", teamID).Order("created_at DESC").Limit(maxInitialDomains).Find(&domains).Error; err != nil {
		logger.WithField("team", teamID).Errorf("failed to query domains: %v", err)
		s.Emit("error", map[string]interface{}{"message": "Failed to query domains"})
		return
	}

	latest, _ := LatestEventID(db, teamID)
	s.Emit(eventInitial, map[string]interface{}{
		"items":       domains,
		"total":       len(domains),
		"lastEventId": latest,
	})
}
