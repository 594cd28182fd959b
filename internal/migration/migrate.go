package migration

import (
	"github.com/campushq/campus-backend/internal/domain"
	"gorm.io/gorm"
)

// Run executes AutoMigrate for every table and seeds the plan catalog if
// empty.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Tenant{},
		&domain.User{},
		&domain.Branch{},
		&domain.Plan{},
		&domain.Subscription{},
		&domain.Payment{},
		&domain.ConfigEntry{},
		&domain.Student{},
		&domain.FeeHead{},
	); err != nil {
		return err
	}

	var count int64
	db.Model(&domain.Plan{}).Count(&count)
	if count == 0 {
		return seedPlans(db)
	}

	return nil
}

// seedPlans inserts the plan catalog. Prices are monthly, in paise.
func seedPlans(db *gorm.DB) error {
	plans := []domain.Plan{
		{Code: domain.PlanFree, Name: "Free", MonthlyPricePaise: 0, Currency: "INR", Active: true, Public: true, DisplayOrder: 1},
		{Code: domain.PlanBasic, Name: "Basic", MonthlyPricePaise: 149900, Currency: "INR", Active: true, Public: true, DisplayOrder: 2},
		{Code: domain.PlanPro, Name: "Pro", MonthlyPricePaise: 499900, Currency: "INR", Active: true, Public: true, DisplayOrder: 3},
		{Code: domain.PlanEnterprise, Name: "Enterprise", MonthlyPricePaise: 1999900, Currency: "INR", Active: true, Public: false, DisplayOrder: 4},
	}

	return db.Create(&plans).Error
}
