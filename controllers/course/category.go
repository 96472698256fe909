package courseController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"log"

	"github.com/gofiber/fiber/v2"
)

// GetCategories lists all catalog categories. Public.
func GetCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := database.Database.Db.Where("is_deleted = ?", false).Order("name asc").Find(&categories).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch categories!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Categories fetched successfully!", fiber.Map{
		"categories": categories,
	})
}

func CreateCategory(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCategory").(*struct {
		Name string `json:"name"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Category names are unique
	if err := database.Database.Db.Where("name = ? AND is_deleted = ?", reqData.Name, false).First(&models.Category{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category already exists!", nil)
	}

	category := models.Category{Name: reqData.Name}
	if err := database.Database.Db.Create(&category).Error; err != nil {
		log.Printf("Error creating category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Category created successfully!", category)
}

func UpdateCategory(c *fiber.Ctx) error {
	categoryID := c.Locals("categoryID").(int)
	reqData, ok := c.Locals("validatedCategory").(*struct {
		Name string `json:"name"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var category models.Category
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", categoryID, false).First(&category).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
	}

	var clash models.Category
	if err := database.Database.Db.Where("name = ? AND id != ? AND is_deleted = ?", reqData.Name, categoryID, false).First(&clash).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category already exists!", nil)
	}

	category.Name = reqData.Name
	if err := database.Database.Db.Save(&category).Error; err != nil {
		log.Printf("Error updating category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category updated successfully!", category)
}

// DeleteCategory removes an empty category. Categories with courses are
// kept to preserve the catalog's referential integrity.
func DeleteCategory(c *fiber.Ctx) error {
	categoryID := c.Locals("categoryID").(int)

	var category models.Category
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", categoryID, false).First(&category).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Category not found!", nil)
	}

	var courseCount int64
	database.Database.Db.Model(&courseModels.Course{}).
		Where("category_id = ? AND is_deleted = ?", categoryID, false).
		Count(&courseCount)
	if courseCount > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Category still has courses!", nil)
	}

	category.IsDeleted = true
	if err := database.Database.Db.Save(&category).Error; err != nil {
		log.Printf("Error deleting category: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete category!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Category deleted successfully!", nil)
}
