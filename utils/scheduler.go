package utils

import (
	"context"
	"log"
	"time"

	"vtu/database"
	"vtu/services"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// InitializePurchaseScheduler starts the cron jobs that fire due scheduled
// purchases and reconcile pending transactions left by crashes.
func InitializePurchaseScheduler(purchases *services.PurchaseService) *cron.Cron {
	logScheduler("Initializing purchase scheduler...")

	loc, err := time.LoadLocation("Africa/Lagos")
	if err != nil {
		loc = time.FixedZone("WAT", 60*60)
	}

	c := cron.New(cron.WithLocation(loc))

	// Fire due scheduled purchases every minute
	c.AddFunc("* * * * *", func() {
		services.RunDueSchedules(context.Background(), database.Database.Db, purchases)
	})

	// Requery purchases stuck PENDING for 15+ minutes every 10 minutes
	c.AddFunc("*/10 * * * *", func() {
		purchases.ReconcilePendingTransactions(context.Background(), 15)
	})

	c.Start()
	logScheduler("Purchase scheduler started - schedules every minute, reconciliation every 10 minutes")
	return c
}
