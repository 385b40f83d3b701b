package models

import (
	"time"

	"gorm.io/gorm"
)

// ScheduleFrequency defines how often a scheduled purchase fires
type ScheduleFrequency string

const (
	FrequencyDaily   ScheduleFrequency = "DAILY"
	FrequencyWeekly  ScheduleFrequency = "WEEKLY"
	FrequencyMonthly ScheduleFrequency = "MONTHLY"
)

// ScheduleStatus defines the lifecycle state of a scheduled purchase
type ScheduleStatus string

const (
	ScheduleStatusActive    ScheduleStatus = "ACTIVE"
	ScheduleStatusPaused    ScheduleStatus = "PAUSED"
	ScheduleStatusCancelled ScheduleStatus = "CANCELLED"
)

// ScheduledPurchase is a recurring purchase. NextRunAt is always derivable
// from Frequency + DayOfWeek/DayOfMonth + TimeOfDay so a restarted
// scheduler computes identical firing times.
type ScheduledPurchase struct {
	gorm.Model
	UserID      uint              `gorm:"not null;index" json:"userId"`
	ServiceType ServiceType       `gorm:"type:varchar(20);not null" json:"serviceType"` // DATA or AIRTIME
	Network     string            `gorm:"type:varchar(30)" json:"network"`
	PlanID      uint              `gorm:"default:0" json:"planId"` // data plans
	Amount      float64           `gorm:"default:0" json:"amount"` // airtime
	Destination string            `gorm:"type:varchar(50);not null" json:"destination"`
	Frequency   ScheduleFrequency `gorm:"type:varchar(20);not null" json:"frequency"`
	DayOfWeek   int               `gorm:"default:0" json:"dayOfWeek"`  // 0=Sunday .. 6=Saturday, weekly only
	DayOfMonth  int               `gorm:"default:1" json:"dayOfMonth"` // monthly only
	TimeOfDay   string            `gorm:"type:varchar(5);not null" json:"timeOfDay"` // "HH:MM"

	NextRunAt      *time.Time     `gorm:"index" json:"nextRunAt"`
	LastRunAt      *time.Time     `json:"lastRunAt"`
	LastRunStatus  string         `gorm:"type:varchar(20)" json:"lastRunStatus"` // SUCCESS / FAILED
	LastRunMessage string         `gorm:"type:text" json:"lastRunMessage"`
	RunCount       int            `gorm:"default:0" json:"runCount"`
	Status         ScheduleStatus `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"`
	IsDeleted      bool           `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ScheduledPurchase) TableName() string {
	return "scheduled_purchases"
}
