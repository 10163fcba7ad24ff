package services

import (
  "context"
  "gorm.io/gorm"
)

// runInTx reuses a caller-supplied transaction when present, otherwise
// opens one. A nil db (service tests with fake repos) just runs the
// function directly.
func runInTx(ctx context.Context, db *gorm.DB, tx *gorm.DB, fn func(tx *gorm.DB) error) error {
  if tx != nil {
    return fn(tx)
  }
  if db == nil {
    return fn(nil)
  }
  return db.WithContext(ctx).Transaction(fn)
}
