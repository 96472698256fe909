package course

import "gorm.io/gorm"

// CEFR-style course levels, ordered easiest to hardest.
var Levels = []string{"A1", "A2", "B1", "B2", "C1", "C2"}

// IsValidLevel reports whether s is one of the course levels.
func IsValidLevel(s string) bool {
	for _, l := range Levels {
		if s == l {
			return true
		}
	}
	return false
}

// Course represents a purchasable video course. A course starts as a draft
// (title + category only) and is filled in incrementally before publishing.
type Course struct {
	gorm.Model
	Title       string  `json:"title" gorm:"not null"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Price       float64 `json:"price" gorm:"default:0"`
	Level       string  `json:"level" gorm:"default:'A1'"`
	IsPublished bool    `json:"is_published" gorm:"default:false"`
	CategoryID  uint    `json:"category_id" gorm:"index;not null"`
	TeacherID   uint    `json:"teacher_id" gorm:"index;not null"` // owning user
	Version     int     `json:"version" gorm:"default:1"`         // optimistic concurrency token
	IsDeleted   bool    `json:"-" gorm:"default:false"`
}

// Attachment is a downloadable file belonging to a course, visible to purchasers.
type Attachment struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"index;not null"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	IsDeleted bool   `json:"-" gorm:"default:false"`
}
