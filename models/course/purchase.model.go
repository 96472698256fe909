package course

import "gorm.io/gorm"

// Purchase lifecycle states. Only PAID grants course access.
const (
	PurchasePending = "PENDING"
	PurchasePaid    = "PAID"
	PurchaseExpired = "EXPIRED"
)

// HasPurchased reports whether a PAID purchase exists for the (user, course)
// pair. This is the single source of truth for paid access on every
// content-serving path.
func HasPurchased(db *gorm.DB, userID, courseID uint) bool {
	var count int64
	db.Model(&Purchase{}).
		Where("user_id = ? AND course_id = ? AND status = ? AND is_deleted = false", userID, courseID, PurchasePaid).
		Count(&count)
	return count > 0
}

// Purchase records a checkout attempt and, once paid, grants a user
// permanent access to a course's non-free chapters. The composite unique
// index keeps webhook retries from ever producing a second row per
// (user, course) pair.
type Purchase struct {
	gorm.Model
	UserID    uint    `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_course"`
	CourseID  uint    `json:"course_id" gorm:"index;not null;uniqueIndex:idx_user_course"`
	OrderID   string  `json:"order_id" gorm:"uniqueIndex;not null"` // gateway order id
	Status    string  `json:"status" gorm:"default:'PENDING'"`      // PENDING, PAID, EXPIRED
	Amount    float64 `json:"amount" gorm:"default:0"`
	IsDeleted bool    `json:"-" gorm:"default:false"`
}
