package services

import (
	"testing"

	"vtu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAndGetDataPlan(t *testing.T) {
	db := newTestDB(t)

	plan := &models.DataPlan{
		Network:      "mtn",
		PlanCode:     "mtn-1gb",
		Name:         "1GB - 30 Days",
		CostPrice:    800,
		SellingPrice: 1000,
		IsActive:     true,
	}
	require.NoError(t, UpsertDataPlan(db, 1, plan))
	assert.Equal(t, "MTN", plan.Network)

	loaded, err := GetDataPlan(db, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 200.0, loaded.Profit())

	// Update through the same path
	plan.SellingPrice = 1200
	require.NoError(t, UpsertDataPlan(db, 1, plan))
	loaded, err = GetDataPlan(db, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, loaded.SellingPrice)
}

func TestGetDataPlanSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	plan := seedDataPlan(t, db, "MTN", 800, 1000)

	require.NoError(t, db.Model(plan).Update("is_active", false).Error)
	_, err := GetDataPlan(db, plan.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = GetDataPlan(db, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDataPlansFiltersByNetwork(t *testing.T) {
	db := newTestDB(t)
	seedDataPlan(t, db, "MTN", 800, 1000)
	seedDataPlan(t, db, "GLO", 700, 900)

	all, err := ListDataPlans(db, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	// Cheapest first
	assert.Equal(t, "GLO", all[0].Network)

	mtn, err := ListDataPlans(db, "mtn")
	require.NoError(t, err)
	require.Len(t, mtn, 1)
	assert.Equal(t, "MTN", mtn[0].Network)
}

func TestDeleteDataPlan(t *testing.T) {
	db := newTestDB(t)
	plan := seedDataPlan(t, db, "MTN", 800, 1000)

	require.NoError(t, DeleteDataPlan(db, 1, plan.ID))
	_, err := GetDataPlan(db, plan.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, DeleteDataPlan(db, 1, plan.ID), ErrNotFound)
}

func TestCablePlanAndExamPinCatalog(t *testing.T) {
	db := newTestDB(t)

	cable := &models.CablePlan{
		Provider:     "dstv",
		PlanCode:     "dstv-compact",
		Name:         "Compact",
		CostPrice:    10000,
		SellingPrice: 10500,
		Months:       1,
		IsActive:     true,
	}
	require.NoError(t, UpsertCablePlan(db, 1, cable))
	assert.Equal(t, "DSTV", cable.Provider)

	loaded, err := GetCablePlan(db, cable.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, loaded.Profit())

	pin := &models.ExamPin{
		ExamType:     "waec",
		PlanCode:     "waec-checker",
		Name:         "WAEC Result Checker",
		CostPrice:    3000,
		SellingPrice: 3500,
		IsActive:     true,
	}
	require.NoError(t, UpsertExamPin(db, 1, pin))
	assert.Equal(t, "WAEC", pin.ExamType)

	pins, err := ListExamPins(db)
	require.NoError(t, err)
	assert.Len(t, pins, 1)
}
