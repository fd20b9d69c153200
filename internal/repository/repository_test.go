package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/qa-forum/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// :memory: 下多连接各是一个库，收敛到单连接
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&model.User{}, &model.Question{}, &model.QuestionTag{}, &model.Answer{},
		&model.Comment{}, &model.Tag{}, &model.Vote{}, &model.Subscription{},
		&model.Notification{}, &model.View{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
