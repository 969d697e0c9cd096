// file: database/connect.go
package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sian-alcock/pairshead-2020/models"
)

var DB *gorm.DB

func Connect() {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "root:123456@tcp(localhost:3306)/pairshead?charset=utf8mb4&parseTime=True&loc=Local"
	}

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB:", err)
	}

	// 连接池配置；ConnMaxLifetime 设 1 小时避开 MySQL wait_timeout
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection successfully established and connection pool configured.")
}

// MigrateTables 自动迁移全部表结构（部署时一次性执行）
func MigrateTables() {
	err := DB.AutoMigrate(
		&models.Club{},
		&models.Event{},
		&models.Band{},
		&models.Crew{},
		&models.Competitor{},
		&models.Race{},
		&models.RaceTime{},
		&models.RaceTimingSync{},
		&models.EventOrder{},
		&models.OriginalEventCategory{},
		&models.MastersAdjustment{},
		&models.MarshallingDivision{},
		&models.NumberLocation{},
		&models.EventMeetingKey{},
		&models.GlobalSettings{},
		&models.User{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	log.Println("Database migration completed.")
}
