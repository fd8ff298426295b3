package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sequence is a named monotonic counter used for document numbering. The
// row is locked for the duration of the allocating transaction, so two
// concurrent requests can never receive the same number.
type Sequence struct {
	Name      string    `gorm:"type:varchar(100);primaryKey"`
	Value     int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Sequence) TableName() string {
	return "sequences"
}

// NumberAllocator hands out gap-free sequential numbers per named series
type NumberAllocator struct {
	db *gorm.DB
}

// NewNumberAllocator creates a new NumberAllocator
func NewNumberAllocator(db *gorm.DB) *NumberAllocator {
	return &NumberAllocator{db: db}
}

// Next increments and returns the counter for the series, creating it on
// first use. SQLite serializes writers so the row lock is a no-op there.
func (a *NumberAllocator) Next(ctx context.Context, series string) (int64, error) {
	var value int64
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq Sequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&seq, "name = ?", series).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = Sequence{Name: series, Value: 1, UpdatedAt: time.Now()}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
			value = seq.Value
			return nil
		}
		if err != nil {
			return err
		}

		seq.Value++
		seq.UpdatedAt = time.Now()
		if err := tx.Save(&seq).Error; err != nil {
			return err
		}
		value = seq.Value
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// NextNumber allocates the next number in a yearly series and formats it
// as PREFIX-YYYY-NNNNN, e.g. "D-2026-00042".
func (a *NumberAllocator) NextNumber(ctx context.Context, prefix string) (string, error) {
	year := time.Now().Year()
	series := fmt.Sprintf("%s-%d", prefix, year)
	n, err := a.Next(ctx, series)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, n), nil
}
