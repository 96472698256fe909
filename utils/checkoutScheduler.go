package utils

import (
	"lms/database"
	courseModels "lms/models/course"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Pending checkout sessions older than this are considered abandoned.
const checkoutTTL = 24 * time.Hour

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[CHECKOUT-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// ExpireStaleCheckouts marks PENDING purchases past the checkout TTL as
// EXPIRED. The gateway stops retrying notifications for abandoned sessions,
// so without this sweep the rows would sit in PENDING forever and block the
// user from starting a fresh checkout.
func ExpireStaleCheckouts() {
	cutoff := time.Now().Add(-checkoutTTL)

	result := database.Database.Db.
		Model(&courseModels.Purchase{}).
		Where("status = ? AND created_at < ? AND is_deleted = false", courseModels.PurchasePending, cutoff).
		Update("status", courseModels.PurchaseExpired)

	if result.Error != nil {
		logScheduler("Error expiring stale checkouts: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		logScheduler("Expired stale checkout sessions")
	}
}

// StartCheckoutScheduler runs the stale-checkout sweep every hour.
func StartCheckoutScheduler() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", ExpireStaleCheckouts); err != nil {
		log.Fatalf("Failed to register checkout scheduler: %v", err)
	}

	c.Start()
	logScheduler("Checkout scheduler started")
	return c
}
