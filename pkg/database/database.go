package database

import (
	"campus_club_backend/internal/config"
	"campus_club_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func dialector(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == "postgres" {
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.DBName,
			cfg.SSLMode,
		)
		return postgres.Open(dsn)
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)
	return mysql.Open(dsn)
}

func InitDB(cfg *config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Database connection established (%s)", cfg.Driver)
	return db, nil
}

// Migrate 建表并写入默认站点配置
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Teacher{},
		&model.Course{},
		&model.Event{},
		&model.AttendanceSession{},
		&model.AttendanceRecord{},
		&model.Challenge{},
		&model.Submission{},
		&model.LeaderboardEntry{},
		&model.AppSetting{},
	)
	if err != nil {
		return err
	}

	log.Println("Database migration completed")

	var count int64
	db.Model(&model.AppSetting{}).Count(&count)
	if count == 0 {
		defaults := map[string]string{
			model.SettingSiteTitle:        `"Campus Club"`,
			model.SettingArenaEnabled:     `true`,
			model.SettingAttendanceStatus: `["present","absent","late","excused"]`,
		}
		for key, value := range defaults {
			setting := &model.AppSetting{
				Key:   key,
				Value: datatypes.JSON(value),
			}
			if err := db.Create(setting).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
