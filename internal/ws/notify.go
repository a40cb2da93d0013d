package ws

import (
	"encoding/json"
	"time"

	"linkup/internal/domain/user"
)

const EventProfileUpdated = "profile_updated"

type ProfileUpdatedEvent struct {
	Type      string   `json:"type"`
	UserID    string   `json:"user_id"`
	Username  string   `json:"username"`
	Fields    []string `json:"fields"`
	Timestamp string   `json:"timestamp"`
}

// ProfileUpdated broadcasts a profile_updated event. It never blocks the
// caller.
func (h *Hub) ProfileUpdated(p user.Profile, fields []string) {
	if h == nil {
		return
	}
	if fields == nil {
		fields = []string{}
	}

	evt := ProfileUpdatedEvent{
		Type:      EventProfileUpdated,
		UserID:    p.ID,
		Username:  p.Username,
		Fields:    fields,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws encode profile_updated")
		return
	}
	h.Broadcast(b)
}
