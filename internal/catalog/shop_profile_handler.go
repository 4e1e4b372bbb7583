package catalog

import (
	"strings"

	"billing-backend/internal/apperr"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ShopProfileRequest struct {
	ShopName            string `json:"shop_name"`
	GSTIN               string `json:"gstin"`
	Address             string `json:"address"`
	Phone               string `json:"phone"`
	Email               string `json:"email"`
	BankName            string `json:"bank_name"`
	AccountNumber       string `json:"account_number"`
	IFSCCode            string `json:"ifsc_code"`
	QRCodeURL           string `json:"qr_code_url"`
	AuthorizedSignatory string `json:"authorized_signatory"`
}

type ShopProfileResponse struct {
	ID uint `json:"id"`
	ShopProfileRequest
}

func toShopProfileResponse(p *models.ShopProfile) ShopProfileResponse {
	return ShopProfileResponse{
		ID: p.ID,
		ShopProfileRequest: ShopProfileRequest{
			ShopName:            p.ShopName,
			GSTIN:               p.GSTIN,
			Address:             p.Address,
			Phone:               p.Phone,
			Email:               p.Email,
			BankName:            p.BankName,
			AccountNumber:       p.AccountNumber,
			IFSCCode:            p.IFSCCode,
			QRCodeURL:           p.QRCodeURL,
			AuthorizedSignatory: p.AuthorizedSignatory,
		},
	}
}

func applyShopProfile(p *models.ShopProfile, body *ShopProfileRequest) {
	p.ShopName = body.ShopName
	p.GSTIN = body.GSTIN
	p.Address = body.Address
	p.Phone = body.Phone
	p.Email = body.Email
	p.BankName = body.BankName
	p.AccountNumber = body.AccountNumber
	p.IFSCCode = body.IFSCCode
	p.QRCodeURL = body.QRCodeURL
	p.AuthorizedSignatory = body.AuthorizedSignatory
}

// POST /shop-profile/create
func CreateShopProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ShopProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		body.ShopName = strings.TrimSpace(body.ShopName)
		if body.ShopName == "" {
			return apperr.Validation("shop_name", "required")
		}

		var profile models.ShopProfile
		applyShopProfile(&profile, &body)
		if err := database.DB.Create(&profile).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create shop profile")
		}
		return c.Status(fiber.StatusCreated).JSON(toShopProfileResponse(&profile))
	}
}

// GET /shop-profile/get-all
func ListShopProfilesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var profiles []models.ShopProfile
		if err := database.DB.Order("shop_name ASC").Find(&profiles).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load shop profiles")
		}

		resp := make([]ShopProfileResponse, 0, len(profiles))
		for i := range profiles {
			resp = append(resp, toShopProfileResponse(&profiles[i]))
		}
		return c.JSON(resp)
	}
}

// GET /shop-profile/get-by-id?shop_id=
func GetShopProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("shop_id")
		if id <= 0 {
			return apperr.Validation("shop_id", "required")
		}

		var profile models.ShopProfile
		if err := database.DB.First(&profile, "id = ?", id).Error; err != nil {
			return apperr.NotFound("shop_profile", uint(id))
		}
		return c.JSON(toShopProfileResponse(&profile))
	}
}

// PATCH /shop-profile/update
func UpdateShopProfileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			ID uint `json:"id"`
			ShopProfileRequest
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.ID == 0 {
			return apperr.Validation("id", "required")
		}
		body.ShopName = strings.TrimSpace(body.ShopName)
		if body.ShopName == "" {
			return apperr.Validation("shop_name", "required")
		}

		var profile models.ShopProfile
		if err := database.DB.First(&profile, "id = ?", body.ID).Error; err != nil {
			return apperr.NotFound("shop_profile", body.ID)
		}

		applyShopProfile(&profile, &body.ShopProfileRequest)
		if err := database.DB.Save(&profile).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update shop profile")
		}
		return c.JSON(toShopProfileResponse(&profile))
	}
}
