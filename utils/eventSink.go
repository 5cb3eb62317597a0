package utils

import (
	"ascend/config"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// SinkEvent is the payload posted to the analytics webhook
type SinkEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	UserID    uint                   `json:"user_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// EmitEvent posts an event to the configured analytics sink. Delivery is
// fire-and-forget: the sink is external, failures are logged and never
// surface to the caller.
func EmitEvent(event SinkEvent) {
	sinkURL := config.AppConfig.EventSinkURL
	if sinkURL == "" {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	go func() {
		client := resty.New().SetTimeout(10 * time.Second)

		req := client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(event)
		if token := config.AppConfig.EventSinkToken; token != "" {
			req.SetAuthToken(token)
		}

		resp, err := req.Post(sinkURL)
		if err != nil {
			log.Printf("[EVENT-SINK] Error posting %s event %s: %v", event.EventType, event.EventID, err)
			return
		}
		if resp.StatusCode() >= 300 {
			log.Printf("[EVENT-SINK] Sink returned %d for %s event %s", resp.StatusCode(), event.EventType, event.EventID)
		}
	}()
}
