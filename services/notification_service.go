// services/notification_service.go
package services

import "log"

// Notifier delivers user-facing event notifications. Delivery is
// best-effort; workflows never fail because a notification did not go
// out.
type Notifier interface {
	Notify(userID int64, event, message string)
}

// LogNotifier writes notifications to the application log. Stands in
// for SMS/push delivery, which is handled by a separate service.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification
func (n *LogNotifier) Notify(userID int64, event, message string) {
	log.Printf("Notification [%s] user=%d: %s", event, userID, message)
}
