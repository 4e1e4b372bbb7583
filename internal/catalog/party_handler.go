package catalog

import (
	"strings"

	"billing-backend/internal/apperr"
	"billing-backend/internal/database"
	"billing-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type PartyRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"` // customer | supplier | both
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	GSTNumber string `json:"gst_number"`
}

type PartyResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address"`
	GSTNumber string `json:"gst_number"`
}

func toPartyResponse(p *models.Party) PartyResponse {
	return PartyResponse{
		ID:        p.ID,
		Name:      p.Name,
		Type:      string(p.Type),
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		GSTNumber: p.GSTNumber,
	}
}

func validateParty(body *PartyRequest) error {
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		return apperr.Validation("name", "required")
	}
	if !models.PartyType(body.Type).Valid() {
		return apperr.Validation("type", "must be one of customer, supplier, both")
	}
	return nil
}

// POST /party/create
func CreatePartyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body PartyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validateParty(&body); err != nil {
			return err
		}

		party := models.Party{
			Name:      body.Name,
			Type:      models.PartyType(body.Type),
			Email:     body.Email,
			Phone:     body.Phone,
			Address:   body.Address,
			GSTNumber: body.GSTNumber,
		}
		if err := database.DB.Create(&party).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not create party")
		}
		return c.Status(fiber.StatusCreated).JSON(toPartyResponse(&party))
	}
}

// GET /party/get?party_id=
func GetPartyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("party_id")
		if id <= 0 {
			return apperr.Validation("party_id", "required")
		}

		var party models.Party
		if err := database.DB.First(&party, "id = ?", id).Error; err != nil {
			return apperr.NotFound("party", uint(id))
		}
		return c.JSON(toPartyResponse(&party))
	}
}

// GET /party/get-all
func ListPartiesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var parties []models.Party
		if err := database.DB.Order("name ASC").Find(&parties).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load parties")
		}
		return c.JSON(partyListResponse(parties))
	}
}

// GET /party/get-by-type?type=
// A party typed "both" shows up in customer and supplier listings.
func ListPartiesByTypeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		partyType := models.PartyType(c.Query("type"))
		if !partyType.Valid() {
			return apperr.Validation("type", "must be one of customer, supplier, both")
		}

		q := database.DB.Order("name ASC")
		if partyType == models.PartyTypeBoth {
			q = q.Where("type = ?", partyType)
		} else {
			q = q.Where("type = ? OR type = ?", partyType, models.PartyTypeBoth)
		}

		var parties []models.Party
		if err := q.Find(&parties).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load parties")
		}
		return c.JSON(partyListResponse(parties))
	}
}

func partyListResponse(parties []models.Party) []PartyResponse {
	resp := make([]PartyResponse, 0, len(parties))
	for i := range parties {
		resp = append(resp, toPartyResponse(&parties[i]))
	}
	return resp
}

// PATCH /party/update?party_id=
func UpdatePartyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("party_id")
		if id <= 0 {
			return apperr.Validation("party_id", "required")
		}

		var body PartyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validateParty(&body); err != nil {
			return err
		}

		var party models.Party
		if err := database.DB.First(&party, "id = ?", id).Error; err != nil {
			return apperr.NotFound("party", uint(id))
		}

		party.Name = body.Name
		party.Type = models.PartyType(body.Type)
		party.Email = body.Email
		party.Phone = body.Phone
		party.Address = body.Address
		party.GSTNumber = body.GSTNumber

		if err := database.DB.Save(&party).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not update party")
		}
		return c.JSON(toPartyResponse(&party))
	}
}

// DELETE /party/delete?id=
// Blocked while invoices reference the party.
func DeletePartyHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.QueryInt("id")
		if id <= 0 {
			return apperr.Validation("id", "required")
		}

		var party models.Party
		if err := database.DB.First(&party, "id = ?", id).Error; err != nil {
			return apperr.NotFound("party", uint(id))
		}

		var invoiceCount int64
		database.DB.Model(&models.Invoice{}).Where("party_id = ?", id).Count(&invoiceCount)
		if invoiceCount > 0 {
			return apperr.Conflict("party is referenced by invoices and cannot be deleted")
		}

		if err := database.DB.Delete(&party).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete party")
		}
		return c.JSON(fiber.Map{"message": "party deleted"})
	}
}
