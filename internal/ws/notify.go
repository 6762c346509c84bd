package ws

import (
	"encoding/json"
	"strings"
	"time"
)

const EventOffersUpdated = "offers_updated"

type OffersUpdatedEvent struct {
	Type      string `json:"type"`
	Source    string `json:"source"`
	Keyword   string `json:"keyword"`
	Saved     int    `json:"saved"`
	Timestamp string `json:"timestamp"`
}

// NotifyOffersUpdated tells subscribers that a collection stored new offers.
func (h *Hub) NotifyOffersUpdated(source, keyword string, saved int) {
	if h == nil {
		return
	}
	evt := OffersUpdatedEvent{
		Type:      EventOffersUpdated,
		Source:    source,
		Keyword:   strings.ToLower(strings.TrimSpace(keyword)),
		Saved:     saved,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}
