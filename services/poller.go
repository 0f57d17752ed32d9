// services/poller.go
package services

import (
	"context"
	"log"
	"time"
)

// RunPoller refreshes all tracked flights immediately and then on every
// tick until ctx is cancelled. A non-positive interval disables polling.
func (s *TrackingService) RunPoller(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Println("Service: Background polling disabled.")
		return
	}
	log.Printf("Service: Polling tracked flights every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RefreshAll(ctx); err != nil && ctx.Err() == nil {
			log.Printf("ERROR Service: Scheduled refresh failed: %v", err)
		}
		select {
		case <-ctx.Done():
			log.Println("Service: Poller stopped.")
			return
		case <-ticker.C:
		}
	}
}
