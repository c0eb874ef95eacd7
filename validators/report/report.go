package reportValidator

import (
	"coursely/middleware"
	"coursely/services/report"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RevenueQuery holds a validated revenue report request.
type RevenueQuery struct {
	Granularity report.Granularity
	From        time.Time
	To          time.Time
}

// RevenueReport validates the revenue report query parameters
func RevenueReport() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)

		granularity := report.Granularity(c.Query("granularity", string(report.Day)))
		switch granularity {
		case report.Day, report.Week, report.Month, report.Year:
		default:
			errors["granularity"] = "Granularity must be one of day, week, month, year!"
		}

		from, err := time.Parse("2006-01-02", c.Query("from"))
		if err != nil {
			errors["from"] = "From date must be in YYYY-MM-DD format!"
		}

		to, err := time.Parse("2006-01-02", c.Query("to"))
		if err != nil {
			errors["to"] = "To date must be in YYYY-MM-DD format!"
		}

		if len(errors) == 0 {
			// Make the range inclusive of the whole "to" day.
			to = to.Add(24*time.Hour - time.Nanosecond)
			if to.Before(from) {
				errors["to"] = "To date must not be before from date!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedRevenueQuery", &RevenueQuery{
			Granularity: granularity,
			From:        from,
			To:          to,
		})
		return c.Next()
	}
}
