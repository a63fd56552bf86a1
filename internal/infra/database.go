package infra

import (
	"time"

	"phoneshop/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase opens the Postgres connection and runs schema migration.
func NewDatabase(url string, env string) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if env == "development" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Supplier{},
		&model.Customer{},
		&model.Product{},
		&model.IMEI{},
		&model.StockMovement{},
		&model.Purchase{},
		&model.PurchaseItem{},
		&model.IMEIEntry{},
		&model.PurchaseExpense{},
		&model.PurchasePayment{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Installment{},
		&model.InstallmentPayment{},
		&model.Repair{},
		&model.TradeIn{},
		&model.Warranty{},
		&model.Expense{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
