// Package testutil 为各包测试提供内存 SQLite 数据库与常用夹具
package testutil

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/pkg/database"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试独立的共享缓存内存库，测试结束自动关闭
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "hashed",
		Role:      model.Candidate,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func CreateInterview(t *testing.T, db *gorm.DB, ownerID uint) *model.Interview {
	t.Helper()
	interview := &model.Interview{
		Title:      "Interview Session",
		UserID:     ownerID,
		Industry:   "Software Development",
		JobTitle:   "Backend Developer",
		Difficulty: model.DifficultyIntermediate,
		Duration:   30,
		Status:     model.InterviewScheduled,
	}
	if err := db.Create(interview).Error; err != nil {
		t.Fatalf("create interview: %v", err)
	}
	return interview
}

func Score(v float64) *float64 {
	return &v
}

// Category 以 子项=分数 的形式构造一个评价大类
func Category(scores map[string]float64) model.CategoryFeedback {
	out := model.CategoryFeedback{}
	for k, v := range scores {
		out[k] = model.SubcategoryFeedback{Score: Score(v)}
	}
	return out
}
