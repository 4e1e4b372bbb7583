package catalog

import (
	"strings"

	"billing-backend/internal/apperr"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CompanyResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// POST /company/create?name=
// The client sends the name as a query parameter, not a body.
func CreateCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		name := strings.TrimSpace(c.Query("name"))
		if name == "" {
			return apperr.Validation("name", "required")
		}

		company := models.Company{Name: name}
		if err := database.DB.Create(&company).Error; err != nil {
			return apperr.Conflict("company name already exists")
		}

		return c.Status(fiber.StatusCreated).JSON(CompanyResponse{ID: company.ID, Name: company.Name})
	}
}

// GET /company/get-all
func ListCompaniesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var companies []models.Company
		if err := database.DB.Order("name ASC").Find(&companies).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load companies")
		}

		resp := make([]CompanyResponse, 0, len(companies))
		for _, co := range companies {
			resp = append(resp, CompanyResponse{ID: co.ID, Name: co.Name})
		}
		return c.JSON(resp)
	}
}

// PATCH /company/update?com_id=&name=
func UpdateCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("com_id")
		if id <= 0 {
			return apperr.Validation("com_id", "required")
		}
		name := strings.TrimSpace(c.Query("name"))
		if name == "" {
			return apperr.Validation("name", "required")
		}

		var company models.Company
		if err := database.DB.First(&company, "id = ?", id).Error; err != nil {
			return apperr.NotFound("company", uint(id))
		}

		company.Name = name
		if err := database.DB.Save(&company).Error; err != nil {
			return apperr.Conflict("company name already exists")
		}
		return c.JSON(CompanyResponse{ID: company.ID, Name: company.Name})
	}
}

// DELETE /company/delete?id=
// Blocked while items still reference the company.
func DeleteCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("id")
		if id <= 0 {
			return apperr.Validation("id", "required")
		}

		var company models.Company
		if err := database.DB.First(&company, "id = ?", id).Error; err != nil {
			return apperr.NotFound("company", uint(id))
		}

		var itemCount int64
		database.DB.Model(&models.Item{}).Where("company_id = ?", id).Count(&itemCount)
		if itemCount > 0 {
			return apperr.Conflict("company has items, delete or reassign them first")
		}

		if err := database.DB.Delete(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete company")
		}
		return c.JSON(fiber.Map{"message": "company deleted"})
	}
}
