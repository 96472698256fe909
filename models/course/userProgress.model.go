package course

import "gorm.io/gorm"

// UserProgress tracks a user's completion of a single chapter. Rows are
// created lazily on first completion and upserted thereafter; the unique
// (user, chapter) index makes repeat completions idempotent.
type UserProgress struct {
	gorm.Model
	UserID      uint `json:"user_id" gorm:"index;not null;uniqueIndex:idx_user_chapter"`
	ChapterID   uint `json:"chapter_id" gorm:"index;not null;uniqueIndex:idx_user_chapter"`
	CourseID    uint `json:"course_id" gorm:"index;not null"` // denormalized for aggregates
	IsCompleted bool `json:"is_completed" gorm:"default:false"`
	IsDeleted   bool `json:"-" gorm:"default:false"`
}

// CourseCompletion counts a user's completed chapters against the course's
// chapter total. The total covers every non-deleted chapter regardless of
// published state, matching how the catalog reports course length.
func CourseCompletion(db *gorm.DB, userID, courseID uint) (completed, total int64, err error) {
	if err = db.Model(&Chapter{}).
		Where("course_id = ? AND is_deleted = false", courseID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	if err = db.Model(&UserProgress{}).
		Where("user_id = ? AND course_id = ? AND is_completed = true AND is_deleted = false", userID, courseID).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}

	return completed, total, nil
}

// CompletionPercentage returns the percentage of completed chapters rounded
// to two decimals. A course with no chapters is 0 percent complete.
func CompletionPercentage(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	pct := 100 * float64(completed) / float64(total)
	return float64(int64(pct*100+0.5)) / 100
}
