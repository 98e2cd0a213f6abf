package repository

import (
	"context"
	"errors"
	"time"

	"gomarketplace/internal/domain/model"
	repo "gomarketplace/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StorageGormRepository struct {
	db *gorm.DB
}

// DI
func NewStorageGormRepository(db *gorm.DB) *StorageGormRepository {
	return &StorageGormRepository{db: db}
}

// キーの値を取得
func (r *StorageGormRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var entry model.StorageEntry

	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// 無ければ作成、あれば値を上書き
func (r *StorageGormRepository) Set(ctx context.Context, key string, value []byte) error {
	entry := model.StorageEntry{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

// キーを削除
func (r *StorageGormRepository) Delete(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.StorageEntry{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
