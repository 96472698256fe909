package course

import "gorm.io/gorm"

// Chapter is an individually addressable video unit within a course,
// ordered by Position. Free chapters are viewable without a purchase.
type Chapter struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"video_url,omitempty"`
	Position    int    `json:"position" gorm:"default:0"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsFree      bool   `json:"is_free" gorm:"default:false"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}

// MuxData holds the video provider's asset metadata for a chapter.
type MuxData struct {
	gorm.Model
	ChapterID  uint   `json:"chapter_id" gorm:"uniqueIndex;not null"`
	AssetID    string `json:"asset_id"`
	PlaybackID string `json:"playback_id"`
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}

// CanAccessChapter decides whether chapter content (video URL, playback id)
// may be served. It must be applied on every path that emits protected
// fields, not just for UI gating.
func CanAccessChapter(ch *Chapter, hasPurchased bool) bool {
	return ch.IsFree || hasPurchased
}
