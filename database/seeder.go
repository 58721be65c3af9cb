// database/seeder.go
package database

import (
	"errors"
	"metalflow-app/models"
	"metalflow-app/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedBranches(db)
	SeedProductionAreas(db)
	SeedItems(db)
}

func SeedBranches(db *gorm.DB) {
	branches := []models.Branch{
		{Code: "HOU", Name: "Houston", City: "Houston", Region: "TX", Country: "US", IsActive: true},
		{Code: "DAL", Name: "Dallas", City: "Dallas", Region: "TX", Country: "US", IsActive: true},
	}

	for _, b := range branches {
		var existing models.Branch
		err := db.Where("code = ?", b.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&b).Error; err != nil {
				utils.Log.WithError(err).Warnf("Gagal insert branch %s", b.Code)
			}
		}
	}
}

func SeedProductionAreas(db *gorm.DB) {
	var branches []models.Branch
	if err := db.Find(&branches).Error; err != nil {
		utils.Log.WithError(err).Warn("Gagal membaca branch untuk seed production area")
		return
	}

	templates := []models.ProductionArea{
		{Code: "CTL", Name: "Cut To Length", AreaType: models.AreaCTL},
		{Code: "SLIT", Name: "Slitter", AreaType: models.AreaSlitter},
		{Code: "SHEET", Name: "Sheet Picking", AreaType: models.AreaSheetPicking},
		{Code: "COIL", Name: "Coil Picking", AreaType: models.AreaCoilPicking},
	}

	for _, b := range branches {
		for _, a := range templates {
			a.BranchID = b.ID
			a.IsActive = true
			var existing models.ProductionArea
			err := db.Where("branch_id = ? AND code = ?", b.ID, a.Code).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.Create(&a).Error; err != nil {
					utils.Log.WithError(err).Warnf("Gagal insert production area %s/%s", b.Code, a.Code)
				}
			}
		}
	}
}

func SeedItems(db *gorm.DB) {
	items := []models.Item{
		{ItemCode: "HR-A36-0250", Description: "HR A36 .250 COIL", Type: models.ItemTypeCoil, Uom: "LBS", ThicknessIn: decimal.RequireFromString("0.25"), IsActive: true},
		{ItemCode: "CR-1008-0036", Description: "CR 1008 .036 SHEET", Type: models.ItemTypeSheet, Uom: "PCS", ThicknessIn: decimal.RequireFromString("0.036"), IsActive: true},
	}

	for _, item := range items {
		var existing models.Item
		err := db.Where("item_code = ?", item.ItemCode).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&item).Error; err != nil {
				utils.Log.WithError(err).Warnf("Gagal insert item %s", item.ItemCode)
			} else {
				utils.Log.Infof("Insert item: %s", item.ItemCode)
			}
		}
	}
}
