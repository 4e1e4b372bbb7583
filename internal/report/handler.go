package report

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// GET /report/dashboard
// Optional ?as_of=YYYY-MM-DD pins the reference date, default is today.
func DashboardHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		asOf := time.Now()
		if v := c.Query("as_of"); v != "" {
			parsed, err := time.Parse("2006-01-02", v)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "as_of must be 'YYYY-MM-DD'")
			}
			asOf = parsed
		}

		report, err := svc.ComputeDashboard(asOf)
		if err != nil {
			return err
		}
		return c.JSON(report)
	}
}

// GET /report/sales-excel
func SalesExcelHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := svc.ExportSalesExcel()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build sales export")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="sales-register.xlsx"`)
		return c.Send(data)
	}
}
