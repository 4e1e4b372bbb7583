package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler maps domain errors onto HTTP responses. Wired as the Fiber
// app-level error handler so handlers can just return errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		ve *ValidationError
		nf *NotFoundError
		is *InsufficientStockError
		op *OverpaymentError
		cf *ConflictError
		fe *fiber.Error
	)

	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ve.Error(), "field": ve.Field,
		})
	case errors.As(err, &nf):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": nf.Error(), "entity": nf.Entity, "id": nf.ID,
		})
	case errors.As(err, &is):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     is.Error(),
			"item_id":   is.ItemID,
			"item_name": is.ItemName,
			"requested": is.Requested,
			"available": is.Available,
		})
	case errors.As(err, &op):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":      op.Error(),
			"invoice_id": op.InvoiceID,
			"paid_total": op.PaidTotal,
			"net_amount": op.NetAmount,
		})
	case errors.As(err, &cf):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": cf.Error()})
	case errors.As(err, &fe):
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	case errors.Is(err, ErrStorage):
		log.Error().Err(err).Msg("storage failure surfaced to client")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "storage temporarily unavailable",
		})
	}

	log.Error().Err(err).Msg("unexpected error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "unexpected server error",
	})
}
