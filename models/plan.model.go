package models

import (
	"gorm.io/gorm"
)

// DataPlan is a purchasable data bundle. CostPrice is what the provider
// charges us, SellingPrice is what the user pays. SellingPrice below
// CostPrice is allowed (promotions) and only logged on upsert.
type DataPlan struct {
	gorm.Model
	Network      string  `gorm:"type:varchar(30);not null;index" json:"network"` // MTN, GLO, AIRTEL, 9MOBILE
	PlanCode     string  `gorm:"type:varchar(100);not null" json:"planCode"`     // provider-side variation code
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`         // e.g. "1.5GB - 30 Days"
	DataAmount   string  `gorm:"type:varchar(50)" json:"dataAmount"`
	Validity     string  `gorm:"type:varchar(50)" json:"validity"`
	CostPrice    float64 `gorm:"not null" json:"costPrice"`
	SellingPrice float64 `gorm:"not null" json:"sellingPrice"`
	IsActive     bool    `gorm:"default:true" json:"isActive"`
	IsDeleted    bool    `gorm:"default:false" json:"isDeleted"`
}

func (DataPlan) TableName() string {
	return "data_plans"
}

func (p *DataPlan) Profit() float64 {
	return p.SellingPrice - p.CostPrice
}

// CablePlan is a cable TV bouquet (DSTV, GOTV, Startimes)
type CablePlan struct {
	gorm.Model
	Provider     string  `gorm:"type:varchar(30);not null;index" json:"provider"` // DSTV, GOTV, STARTIMES
	PlanCode     string  `gorm:"type:varchar(100);not null" json:"planCode"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	CostPrice    float64 `gorm:"not null" json:"costPrice"`
	SellingPrice float64 `gorm:"not null" json:"sellingPrice"`
	Months       int     `gorm:"default:1" json:"months"`
	IsActive     bool    `gorm:"default:true" json:"isActive"`
	IsDeleted    bool    `gorm:"default:false" json:"isDeleted"`
}

func (CablePlan) TableName() string {
	return "cable_plans"
}

func (p *CablePlan) Profit() float64 {
	return p.SellingPrice - p.CostPrice
}

// ExamPin is a result-checker pin type (WAEC, NECO, NABTEB)
type ExamPin struct {
	gorm.Model
	ExamType     string  `gorm:"type:varchar(30);not null;index" json:"examType"`
	PlanCode     string  `gorm:"type:varchar(100);not null" json:"planCode"`
	Name         string  `gorm:"type:varchar(255);not null" json:"name"`
	CostPrice    float64 `gorm:"not null" json:"costPrice"`
	SellingPrice float64 `gorm:"not null" json:"sellingPrice"`
	IsActive     bool    `gorm:"default:true" json:"isActive"`
	IsDeleted    bool    `gorm:"default:false" json:"isDeleted"`
}

func (ExamPin) TableName() string {
	return "exam_pins"
}

func (p *ExamPin) Profit() float64 {
	return p.SellingPrice - p.CostPrice
}
