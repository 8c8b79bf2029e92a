package database

import (
	"log"

	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/config"
	"github.com/CORE-Convenience-Operation-Retail-ERP/back/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	// Legacy migration: read receipts used to live in a jsonb read_by
	// column on chat_messages. They are a typed table now; drop the old
	// column if this database still carries it (before AutoMigrate so it
	// does not get recreated from stale snapshots).
	if DB.Migrator().HasTable(&models.ChatMessage{}) {
		if DB.Migrator().HasColumn(&models.ChatMessage{}, "read_by") {
			log.Println("dropping legacy chat_messages.read_by column...")
			if err := DB.Exec("ALTER TABLE chat_messages DROP COLUMN read_by").Error; err != nil {
				log.Printf("could not drop read_by column (continuing): %v", err)
			}
		}
		if DB.Migrator().HasColumn(&models.ChatMessage{}, "reactions") {
			log.Println("dropping legacy chat_messages.reactions column...")
			if err := DB.Exec("ALTER TABLE chat_messages DROP COLUMN reactions").Error; err != nil {
				log.Printf("could not drop reactions column (continuing): %v", err)
			}
		}
	}

	err = DB.AutoMigrate(
		&models.Store{},
		&models.Employee{},
		&models.Product{},
		&models.StoreStock{},
		&models.WarehouseStock{},
		&models.HQStock{},
		&models.StockAdjustLog{},
		&models.StockTransfer{},
		&models.SalesTransaction{},
		&models.SalesSettlement{},
		&models.Disposal{},
		&models.PartTimer{},
		&models.Attendance{},
		&models.ShiftSchedule{},
		&models.VerifiedDevice{},
		&models.ChatRoom{},
		&models.ChatMessage{},
		&models.MessageRead{},
		&models.MessageReaction{},
		&models.Notification{},
		&models.BoardPost{},
		&models.BoardComment{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}

	// Backstop for the settlement duplicate check: at most one periodic
	// settlement per (store, date, type). Shift settlements are exempt, so
	// a partial index is needed and AutoMigrate cannot express it.
	if err := DB.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_settlement_periodic_once
		ON sales_settlements (store_id, settlement_date, type)
		WHERE type IN ('DAILY', 'MONTHLY', 'YEARLY')
	`).Error; err != nil {
		log.Printf("could not create settlement unique index (continuing): %v", err)
	}

	log.Println("database ready, migration complete")
}
