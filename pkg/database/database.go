package database

import (
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	log.Println("Database migration completed")

	if err := SeedQuestions(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate 建表并维护 improvement_plans.user_id、analysis_jobs.interview_id 唯一索引
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.Interview{},
		&model.Feedback{},
		&model.ImprovementPlan{},
		&model.AnalysisJob{},
	)
}
