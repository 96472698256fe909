package adminController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetDashboard returns the global platform counters for the admin console.
func GetDashboard(c *fiber.Ctx) error {
	db := database.Database.Db

	var totalUsers, totalTeachers int64
	db.Model(&models.User{}).Where("is_deleted = ?", false).Count(&totalUsers)
	db.Model(&models.User{}).Where("role = ? AND is_deleted = ?", models.RoleTeacher, false).Count(&totalTeachers)

	var totalCourses, publishedCourses int64
	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&totalCourses)
	db.Model(&courseModels.Course{}).Where("is_published = ? AND is_deleted = ?", true, false).Count(&publishedCourses)

	var totalPurchases int64
	db.Model(&courseModels.Purchase{}).
		Where("status = ? AND is_deleted = ?", courseModels.PurchasePaid, false).
		Count(&totalPurchases)

	var totalRevenue float64
	db.Model(&courseModels.Purchase{}).
		Where("status = ? AND is_deleted = ?", courseModels.PurchasePaid, false).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&totalRevenue)

	type PurchaseWithDetails struct {
		courseModels.Purchase
		UserEmail   string `json:"user_email"`
		CourseTitle string `json:"course_title"`
	}

	var recent []courseModels.Purchase
	db.Where("status = ? AND is_deleted = ?", courseModels.PurchasePaid, false).
		Order("updated_at desc").
		Limit(10).
		Find(&recent)

	recentWithDetails := make([]PurchaseWithDetails, len(recent))
	for i, p := range recent {
		var buyer models.User
		var course courseModels.Course
		db.Where("id = ?", p.UserID).First(&buyer)
		db.Where("id = ?", p.CourseID).First(&course)
		recentWithDetails[i] = PurchaseWithDetails{
			Purchase:    p,
			UserEmail:   buyer.Email,
			CourseTitle: course.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"users": fiber.Map{
			"total":    totalUsers,
			"teachers": totalTeachers,
		},
		"courses": fiber.Map{
			"total":     totalCourses,
			"published": publishedCourses,
		},
		"purchases": fiber.Map{
			"total":   totalPurchases,
			"revenue": totalRevenue,
		},
		"recent_purchases": recentWithDetails,
	})
}
