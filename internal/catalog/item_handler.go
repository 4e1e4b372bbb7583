package catalog

import (
	"strings"

	"billing-backend/internal/apperr"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ItemRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	HSNCode       string  `json:"hsn_code"`
	Unit          string  `json:"unit"`
	PurchasePrice float64 `json:"purchase_price"`
	SalePrice     float64 `json:"sale_price"`
	StockQuantity float64 `json:"stock_quantity"`
	GSTRate       float64 `json:"gst_rate"`
	CompanyID     uint    `json:"company_id"`
}

type ItemResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	HSNCode       string  `json:"hsn_code"`
	Unit          string  `json:"unit"`
	PurchasePrice float64 `json:"purchase_price"`
	SalePrice     float64 `json:"sale_price"`
	StockQuantity float64 `json:"stock_quantity"`
	GSTRate       float64 `json:"gst_rate"`
	CompanyID     uint    `json:"company_id"`
	CompanyName   string  `json:"company_name,omitempty"`
}

func toItemResponse(item *models.Item) ItemResponse {
	return ItemResponse{
		ID:            item.ID,
		Name:          item.Name,
		Description:   item.Description,
		HSNCode:       item.HSNCode,
		Unit:          item.Unit,
		PurchasePrice: item.PurchasePrice,
		SalePrice:     item.SalePrice,
		StockQuantity: item.StockQuantity,
		GSTRate:       item.GSTRate,
		CompanyID:     item.CompanyID,
		CompanyName:   item.Company.Name,
	}
}

func validateItem(body *ItemRequest) error {
	body.Name = strings.TrimSpace(body.Name)
	switch {
	case body.Name == "":
		return apperr.Validation("name", "required")
	case body.Unit == "":
		return apperr.Validation("unit", "required")
	case body.CompanyID == 0:
		return apperr.Validation("company_id", "required")
	case body.PurchasePrice < 0:
		return apperr.Validation("purchase_price", "must not be negative")
	case body.SalePrice < 0:
		return apperr.Validation("sale_price", "must not be negative")
	case body.StockQuantity < 0:
		return apperr.Validation("stock_quantity", "must not be negative")
	case body.GSTRate < 0 || body.GSTRate > 100:
		return apperr.Validation("gst_rate", "must be between 0 and 100")
	}
	return nil
}

// POST /item/create
func CreateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validateItem(&body); err != nil {
			return err
		}

		var company models.Company
		if err := database.DB.First(&company, "id = ?", body.CompanyID).Error; err != nil {
			return apperr.NotFound("company", body.CompanyID)
		}

		item := models.Item{
			Name:          body.Name,
			Description:   body.Description,
			HSNCode:       body.HSNCode,
			Unit:          body.Unit,
			PurchasePrice: models.Round2(body.PurchasePrice),
			SalePrice:     models.Round2(body.SalePrice),
			StockQuantity: body.StockQuantity,
			GSTRate:       body.GSTRate,
			CompanyID:     body.CompanyID,
		}
		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create item")
		}

		item.Company = company
		return c.Status(fiber.StatusCreated).JSON(toItemResponse(&item))
	}
}

// GET /item/get?item_id=
func GetItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("item_id")
		if id <= 0 {
			return apperr.Validation("item_id", "required")
		}

		var item models.Item
		if err := database.DB.Preload("Company").First(&item, "id = ?", id).Error; err != nil {
			return apperr.NotFound("item", uint(id))
		}
		return c.JSON(toItemResponse(&item))
	}
}

// GET /item/get-all
func ListItemsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.Item
		if err := database.DB.Preload("Company").Order("name ASC").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load items")
		}
		return c.JSON(itemListResponse(items))
	}
}

// GET /item/get-by-company?company_name=
func ListItemsByCompanyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyName := strings.TrimSpace(c.Query("company_name"))
		if companyName == "" {
			return apperr.Validation("company_name", "required")
		}

		var company models.Company
		if err := database.DB.Where("name = ?", companyName).First(&company).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "company not found: "+companyName)
		}

		var items []models.Item
		err := database.DB.Preload("Company").
			Where("company_id = ?", company.ID).
			Order("name ASC").
			Find(&items).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load items")
		}
		return c.JSON(itemListResponse(items))
	}
}

func itemListResponse(items []models.Item) []ItemResponse {
	resp := make([]ItemResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toItemResponse(&items[i]))
	}
	return resp
}

// PUT /item/update
// Full replace. Manual stock corrections come through here; invoicing is the
// only other writer of stock_quantity.
func UpdateItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			ID uint `json:"id"`
			ItemRequest
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.ID == 0 {
			return apperr.Validation("id", "required")
		}
		if err := validateItem(&body.ItemRequest); err != nil {
			return err
		}

		var item models.Item
		if err := database.DB.First(&item, "id = ?", body.ID).Error; err != nil {
			return apperr.NotFound("item", body.ID)
		}
		var company models.Company
		if err := database.DB.First(&company, "id = ?", body.CompanyID).Error; err != nil {
			return apperr.NotFound("company", body.CompanyID)
		}

		item.Name = body.Name
		item.Description = body.Description
		item.HSNCode = body.HSNCode
		item.Unit = body.Unit
		item.PurchasePrice = models.Round2(body.PurchasePrice)
		item.SalePrice = models.Round2(body.SalePrice)
		item.StockQuantity = body.StockQuantity
		item.GSTRate = body.GSTRate
		item.CompanyID = body.CompanyID

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update item")
		}
		item.Company = company
		return c.JSON(toItemResponse(&item))
	}
}

// DELETE /item/delete?id=
// Blocked while invoice lines reference the item so history stays resolvable.
func DeleteItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("id")
		if id <= 0 {
			return apperr.Validation("id", "required")
		}

		var item models.Item
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return apperr.NotFound("item", uint(id))
		}

		var lineCount int64
		database.DB.Model(&models.InvoiceItem{}).Where("item_id = ?", id).Count(&lineCount)
		if lineCount > 0 {
			return apperr.Conflict("item is referenced by invoices and cannot be deleted")
		}

		if err := database.DB.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete item")
		}
		return c.JSON(fiber.Map{"message": "item deleted"})
	}
}
