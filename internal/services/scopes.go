package services

import "gorm.io/gorm"

// OwnedOrDefault scopes a query to rows owned by the requester or by the
// system-owner (admin) account. This is the single visibility predicate for
// category types and budget plans: defaults are readable by everyone,
// private rows only by their owner.
func OwnedOrDefault(userID, adminID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? OR user_id = ?", userID, adminID)
	}
}

// OwnedBy scopes a query to rows owned by the requester only. Categories and
// transactions are never shared.
func OwnedBy(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
