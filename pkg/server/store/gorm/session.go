package gorm

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/infraflow-ai/infraflow/pkg/cipher"
)

// session binds ctx to db while keeping the cipher db was opened with, so
// encrypted columns still round trip.
func session(db *gorm.DB, ctx context.Context) *gorm.DB {
	if db.Statement != nil {
		if c, ok := cipher.FromContext(db.Statement.Context); ok {
			if _, has := cipher.FromContext(ctx); !has {
				ctx = cipher.WithContext(ctx, c)
			}
		}
	}
	return db.WithContext(ctx)
}

// notFound maps gorm.ErrRecordNotFound to sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// update writes every column of value, including zero values, without
// touching its identity or creation columns. Missing or soft deleted rows
// yield sentinel.
func update(db *gorm.DB, value any, sentinel error) error {
	tx := db.Model(value).Select("*").Omit("id", "created_at", "created_by", "deleted_at", clause.Associations).Updates(value)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return sentinel
	}
	return nil
}
