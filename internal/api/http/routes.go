package httpapi

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/pipeline"
	"github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the read-only consumer surface into the Fiber app.
// Consumers only ever see the store's query API; no handler exposes raw
// connections or provider internals.
func RegisterRoutes(app *fiber.App, store weather.Store, pl *pipeline.Pipeline) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/latest", func(c *fiber.Ctx) error {
		// city is an optional case-insensitive substring filter.
		records := store.Latest(c.Context(), c.Query("city"))
		return c.JSON(fiber.Map{
			"count":        len(records),
			"observations": records,
		})
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		req, err := parseWindowQuery(c, true)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records := store.History(c.Context(), req.City, req.Days)
		return c.JSON(fiber.Map{
			"city":         req.City,
			"days":         req.Days,
			"count":        len(records),
			"observations": records,
		})
	})

	v1.Get("/weather/stats", func(c *fiber.Ctx) error {
		req, err := parseWindowQuery(c, false)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		stats, ok := store.Stats(c.Context(), req.City, req.Days)
		if !ok {
			// Empty window reads as "no data", not an error.
			return c.JSON(fiber.Map{"empty": true})
		}
		return c.JSON(stats)
	})

	v1.Get("/pipeline/status", func(c *fiber.Ctx) error {
		return c.JSON(pl.Status(c.Context()))
	})
}

// windowQuery holds query parameters for windowed history/stats lookups.
type windowQuery struct {
	City string
	Days int `validate:"gte=1,lte=365"`
}

func parseWindowQuery(c *fiber.Ctx, cityRequired bool) (windowQuery, error) {
	req := windowQuery{
		City: c.Query("city"),
		Days: 7,
	}
	if cityRequired && req.City == "" {
		return req, fiber.NewError(fiber.StatusBadRequest, "city is required")
	}

	if v := c.Query("days"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return req, fiber.NewError(fiber.StatusBadRequest, "days must be an integer")
		}
		req.Days = days
	}

	if err := validate.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}
