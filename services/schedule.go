package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"vtu/models"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// ParseTimeOfDay splits "HH:MM" into hour and minute
func ParseTimeOfDay(timeOfDay string) (int, int, error) {
	parts := strings.Split(timeOfDay, ":")
	if len(parts) != 2 {
		return 0, 0, NewValidationError("timeOfDay", "Time must be in HH:MM format!")
	}
	hour, err1 := strconv.Atoi(parts[0])
	minute, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, NewValidationError("timeOfDay", "Time must be in HH:MM format!")
	}
	return hour, minute, nil
}

// ComputeNextRun returns the next strictly-future firing instant for a
// schedule, relative to from. If today's occurrence has already passed it
// rolls to the next period. Monthly days 29-31 clamp to the month's last
// day. The result depends only on the stored fields, so a restarted
// scheduler recomputes identical firing times.
func ComputeNextRun(from time.Time, frequency models.ScheduleFrequency, dayOfWeek, dayOfMonth int, timeOfDay string) (time.Time, error) {
	hour, minute, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}

	atTime := func(day time.Time) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
	}

	switch frequency {
	case models.FrequencyDaily:
		next := atTime(from)
		if !next.After(from) {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	case models.FrequencyWeekly:
		if dayOfWeek < 0 || dayOfWeek > 6 {
			return time.Time{}, NewValidationError("dayOfWeek", "Day of week must be 0 (Sunday) to 6 (Saturday)!")
		}
		daysAhead := (dayOfWeek - int(from.Weekday()) + 7) % 7
		next := atTime(from.AddDate(0, 0, daysAhead))
		if !next.After(from) {
			next = next.AddDate(0, 0, 7)
		}
		return next, nil

	case models.FrequencyMonthly:
		if dayOfMonth < 1 || dayOfMonth > 31 {
			return time.Time{}, NewValidationError("dayOfMonth", "Day of month must be 1 to 31!")
		}
		next := monthlyOccurrence(from, dayOfMonth, hour, minute)
		if !next.After(from) {
			firstOfNext := now.With(from).BeginningOfMonth().AddDate(0, 1, 0)
			next = monthlyOccurrence(firstOfNext, dayOfMonth, hour, minute)
		}
		return next, nil
	}
	return time.Time{}, NewValidationError("frequency", "Frequency must be DAILY, WEEKLY or MONTHLY!")
}

// monthlyOccurrence places dayOfMonth within ref's month, clamped to the
// month's last day.
func monthlyOccurrence(ref time.Time, dayOfMonth, hour, minute int) time.Time {
	lastDay := now.With(ref).EndOfMonth().Day()
	day := dayOfMonth
	if day > lastDay {
		day = lastDay
	}
	return time.Date(ref.Year(), ref.Month(), day, hour, minute, 0, 0, ref.Location())
}

// CreateScheduledPurchase validates and stores a recurring purchase with
// its first NextRunAt.
func CreateScheduledPurchase(db *gorm.DB, sched *models.ScheduledPurchase) error {
	if sched.ServiceType != models.ServiceTypeData && sched.ServiceType != models.ServiceTypeAirtime {
		return NewValidationError("serviceType", "Only data and airtime purchases can be scheduled!")
	}
	sched.Destination = NormalizePhone(sched.Destination)
	if !IsValidPhone(sched.Destination) {
		return NewValidationError("destination", "Invalid phone number!")
	}
	if sched.ServiceType == models.ServiceTypeData && sched.PlanID == 0 {
		return NewValidationError("planId", "Plan is required for scheduled data purchases!")
	}
	if sched.ServiceType == models.ServiceTypeAirtime &&
		(sched.Amount < airtimeMinAmount || sched.Amount > airtimeMaxAmount) {
		return NewValidationError("amount",
			fmt.Sprintf("Airtime amount must be between %d and %d!", airtimeMinAmount, airtimeMaxAmount))
	}

	next, err := ComputeNextRun(time.Now(), sched.Frequency, sched.DayOfWeek, sched.DayOfMonth, sched.TimeOfDay)
	if err != nil {
		return err
	}
	sched.NextRunAt = &next
	sched.Status = models.ScheduleStatusActive

	if err := db.Create(sched).Error; err != nil {
		return fmt.Errorf("failed to create scheduled purchase: %w", err)
	}
	return nil
}

// UpdateScheduledPurchase applies user edits and recomputes NextRunAt
func UpdateScheduledPurchase(db *gorm.DB, userID, schedID uint, apply func(*models.ScheduledPurchase)) (*models.ScheduledPurchase, error) {
	var sched models.ScheduledPurchase
	err := db.Where("id = ? AND user_id = ? AND is_deleted = false", schedID, userID).First(&sched).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduled purchase: %w", err)
	}

	apply(&sched)

	if sched.Status == models.ScheduleStatusActive {
		next, err := ComputeNextRun(time.Now(), sched.Frequency, sched.DayOfWeek, sched.DayOfMonth, sched.TimeOfDay)
		if err != nil {
			return nil, err
		}
		sched.NextRunAt = &next
	}

	if err := db.Save(&sched).Error; err != nil {
		return nil, fmt.Errorf("failed to update scheduled purchase: %w", err)
	}
	return &sched, nil
}

// DeleteScheduledPurchase cancels and soft-deletes a schedule
func DeleteScheduledPurchase(db *gorm.DB, userID, schedID uint) error {
	result := db.Model(&models.ScheduledPurchase{}).
		Where("id = ? AND user_id = ? AND is_deleted = false", schedID, userID).
		Updates(map[string]interface{}{
			"status":     models.ScheduleStatusCancelled,
			"is_deleted": true,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete scheduled purchase: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListScheduledPurchases returns a user's schedules, active first
func ListScheduledPurchases(db *gorm.DB, userID uint) ([]models.ScheduledPurchase, error) {
	var schedules []models.ScheduledPurchase
	if err := db.Where("user_id = ? AND is_deleted = false", userID).
		Order("status ASC, next_run_at ASC").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("failed to list scheduled purchases: %w", err)
	}
	return schedules, nil
}

// RunDueSchedules fires every active schedule whose NextRunAt has passed.
// The schedule advances whether or not the purchase succeeded; a
// persistently failing schedule surfaces through LastRunStatus, it is not
// retried in a tight loop.
func RunDueSchedules(ctx context.Context, db *gorm.DB, purchases *PurchaseService) {
	nowT := time.Now()

	var due []models.ScheduledPurchase
	if err := db.Where("status = ? AND is_deleted = false AND next_run_at IS NOT NULL AND next_run_at <= ?",
		models.ScheduleStatusActive, nowT).
		Find(&due).Error; err != nil {
		log.Printf("[SCHEDULER] failed to load due schedules: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}
	log.Printf("[SCHEDULER] firing %d due scheduled purchases", len(due))

	for i := range due {
		sched := &due[i]
		FireSchedule(ctx, db, purchases, sched)
	}
}

// FireSchedule runs one scheduled purchase through the orchestrator and
// advances the schedule regardless of the outcome.
func FireSchedule(ctx context.Context, db *gorm.DB, purchases *PurchaseService, sched *models.ScheduledPurchase) {
	var result *PurchaseResult
	var err error

	switch sched.ServiceType {
	case models.ServiceTypeData:
		result, err = purchases.PurchaseData(ctx, sched.UserID, sched.PlanID, sched.Destination)
	case models.ServiceTypeAirtime:
		result, err = purchases.PurchaseAirtime(ctx, sched.UserID, sched.Network, sched.Amount, sched.Destination)
	default:
		err = NewValidationError("serviceType", "Unsupported scheduled service type!")
	}

	status := "SUCCESS"
	message := "Purchase successful!"
	switch {
	case err != nil:
		status = "FAILED"
		message = err.Error()
	case !result.Success:
		status = "FAILED"
		message = result.Message
	}
	if status == "FAILED" {
		log.Printf("[SCHEDULER] schedule %d for user %d failed: %s", sched.ID, sched.UserID, message)
	}

	ranAt := time.Now()
	next, nerr := ComputeNextRun(ranAt, sched.Frequency, sched.DayOfWeek, sched.DayOfMonth, sched.TimeOfDay)
	updates := map[string]interface{}{
		"last_run_at":      ranAt,
		"last_run_status":  status,
		"last_run_message": message,
		"run_count":        gorm.Expr("run_count + 1"),
	}
	if nerr == nil {
		updates["next_run_at"] = next
	} else {
		// Stored fields no longer compute; park the schedule instead of
		// firing it every minute.
		log.Printf("[SCHEDULER] schedule %d has invalid timing fields, pausing: %v", sched.ID, nerr)
		updates["status"] = models.ScheduleStatusPaused
	}

	if err := db.Model(&models.ScheduledPurchase{}).Where("id = ?", sched.ID).Updates(updates).Error; err != nil {
		log.Printf("[SCHEDULER] failed to advance schedule %d: %v", sched.ID, err)
	}
}
