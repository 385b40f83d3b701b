package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"vtu/models"

	"gorm.io/gorm"
)

// GetDataPlan looks up an active data plan by id
func GetDataPlan(db *gorm.DB, planID uint) (*models.DataPlan, error) {
	var plan models.DataPlan
	err := db.Where("id = ? AND is_active = true AND is_deleted = false", planID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load data plan: %w", err)
	}
	return &plan, nil
}

// GetCablePlan looks up an active cable plan by id
func GetCablePlan(db *gorm.DB, planID uint) (*models.CablePlan, error) {
	var plan models.CablePlan
	err := db.Where("id = ? AND is_active = true AND is_deleted = false", planID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cable plan: %w", err)
	}
	return &plan, nil
}

// GetExamPin looks up an active exam pin type by id
func GetExamPin(db *gorm.DB, pinID uint) (*models.ExamPin, error) {
	var pin models.ExamPin
	err := db.Where("id = ? AND is_active = true AND is_deleted = false", pinID).First(&pin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load exam pin: %w", err)
	}
	return &pin, nil
}

// ListDataPlans returns active data plans, optionally filtered by network
func ListDataPlans(db *gorm.DB, network string) ([]models.DataPlan, error) {
	query := db.Where("is_active = true AND is_deleted = false")
	if network != "" {
		query = query.Where("network = ?", strings.ToUpper(network))
	}
	var plans []models.DataPlan
	if err := query.Order("selling_price ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list data plans: %w", err)
	}
	return plans, nil
}

// ListCablePlans returns active cable plans, optionally filtered by provider
func ListCablePlans(db *gorm.DB, provider string) ([]models.CablePlan, error) {
	query := db.Where("is_active = true AND is_deleted = false")
	if provider != "" {
		query = query.Where("provider = ?", strings.ToUpper(provider))
	}
	var plans []models.CablePlan
	if err := query.Order("selling_price ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list cable plans: %w", err)
	}
	return plans, nil
}

// ListExamPins returns active exam pin types
func ListExamPins(db *gorm.DB) ([]models.ExamPin, error) {
	var pins []models.ExamPin
	if err := db.Where("is_active = true AND is_deleted = false").
		Order("exam_type ASC").Find(&pins).Error; err != nil {
		return nil, fmt.Errorf("failed to list exam pins: %w", err)
	}
	return pins, nil
}

// UpsertDataPlan creates or updates a data plan. Selling below cost is a
// valid promotion, it is only logged.
func UpsertDataPlan(db *gorm.DB, adminID uint, plan *models.DataPlan) error {
	plan.Network = strings.ToUpper(plan.Network)
	if plan.SellingPrice < plan.CostPrice {
		log.Printf("[CATALOG] admin %d priced data plan %q below cost (%.2f < %.2f)",
			adminID, plan.Name, plan.SellingPrice, plan.CostPrice)
	}
	if err := db.Save(plan).Error; err != nil {
		return fmt.Errorf("failed to upsert data plan: %w", err)
	}
	log.Printf("[CATALOG] admin %d upserted data plan %d (%s %s)", adminID, plan.ID, plan.Network, plan.Name)
	return nil
}

// UpsertCablePlan creates or updates a cable plan
func UpsertCablePlan(db *gorm.DB, adminID uint, plan *models.CablePlan) error {
	plan.Provider = strings.ToUpper(plan.Provider)
	if plan.SellingPrice < plan.CostPrice {
		log.Printf("[CATALOG] admin %d priced cable plan %q below cost (%.2f < %.2f)",
			adminID, plan.Name, plan.SellingPrice, plan.CostPrice)
	}
	if err := db.Save(plan).Error; err != nil {
		return fmt.Errorf("failed to upsert cable plan: %w", err)
	}
	log.Printf("[CATALOG] admin %d upserted cable plan %d (%s %s)", adminID, plan.ID, plan.Provider, plan.Name)
	return nil
}

// UpsertExamPin creates or updates an exam pin type
func UpsertExamPin(db *gorm.DB, adminID uint, pin *models.ExamPin) error {
	pin.ExamType = strings.ToUpper(pin.ExamType)
	if pin.SellingPrice < pin.CostPrice {
		log.Printf("[CATALOG] admin %d priced exam pin %q below cost (%.2f < %.2f)",
			adminID, pin.Name, pin.SellingPrice, pin.CostPrice)
	}
	if err := db.Save(pin).Error; err != nil {
		return fmt.Errorf("failed to upsert exam pin: %w", err)
	}
	log.Printf("[CATALOG] admin %d upserted exam pin %d (%s)", adminID, pin.ID, pin.Name)
	return nil
}

// DeleteDataPlan soft-deletes a data plan
func DeleteDataPlan(db *gorm.DB, adminID uint, planID uint) error {
	result := db.Model(&models.DataPlan{}).
		Where("id = ? AND is_deleted = false", planID).
		Update("is_deleted", true)
	if result.Error != nil {
		return fmt.Errorf("failed to delete data plan: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	log.Printf("[CATALOG] admin %d deleted data plan %d", adminID, planID)
	return nil
}
