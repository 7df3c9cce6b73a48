package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/jogging-weather/internal/auth"
	"github.com/i474232898/jogging-weather/internal/jogging"
)

// RegisterRoutes wires the jogging handlers into the Fiber app behind authMW.
func RegisterRoutes(app *fiber.App, service *jogging.Service, authMW fiber.Handler) {
	v1 := app.Group("/api/v1", authMW)

	v1.Post("/jogging-results", func(c *fiber.Ctx) error {
		owner, ok := auth.OwnerID(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if _, err := service.Create(c.UserContext(), owner, decodePayload(c.Body())); err != nil {
			return toHTTPError(err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	v1.Get("/jogging-results", func(c *fiber.Ctx) error {
		owner, ok := auth.OwnerID(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		records, err := service.List(c.UserContext(), owner, jogging.Params{
			Page:   optionalQuery(c, "page"),
			Count:  optionalQuery(c, "count"),
			Filter: optionalQuery(c, "filter"),
		})
		if err != nil {
			return toHTTPError(err)
		}

		views := make([]RecordView, 0, len(records))
		for _, rec := range records {
			views = append(views, toRecordView(rec))
		}
		return c.Status(fiber.StatusOK).JSON(views)
	})
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RecordView is the JSON shape of a listed record.
type RecordView struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	Distance  float64         `json:"distance"`
	Time      int             `json:"time"`
	Location  string          `json:"location"`
	Weather   json.RawMessage `json:"weather"`
	CreatedAt time.Time       `json:"created_at"`
}

func toRecordView(rec jogging.Record) RecordView {
	return RecordView{
		ID:        rec.ID,
		Date:      rec.Date.Format(jogging.DateLayout),
		Distance:  rec.Distance,
		Time:      rec.Duration,
		Location:  rec.Location,
		Weather:   rec.Weather,
		CreatedAt: rec.CreatedAt,
	}
}

// decodePayload returns nil for anything that is not a JSON object, which
// the validator reports as a missing field.
func decodePayload(body []byte) jogging.Payload {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload jogging.Payload
	if err := dec.Decode(&payload); err != nil {
		return nil
	}
	return payload
}

func optionalQuery(c *fiber.Ctx, key string) *string {
	args := c.Context().QueryArgs()
	if !args.Has(key) {
		return nil
	}
	v := string(args.Peek(key))
	return &v
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, jogging.ErrConditionUnavailable):
		// Provider details stay in the logs.
		return fiber.NewError(fiber.StatusBadRequest, jogging.ErrConditionUnavailable.Error())
	case jogging.IsClientError(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusRequestTimeout, "request cancelled")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}
}
