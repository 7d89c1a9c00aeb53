package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"phonexchange_backend/models"
	"phonexchange_backend/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RequestValidationError is returned when a request body or query string is
// rejected before reaching a service.
type RequestValidationError struct {
	Fields []models.ErrorDetail
}

func (e *RequestValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "request validation failed: " + strings.Join(parts, ", ")
}

func invalidField(field, message string) *RequestValidationError {
	return &RequestValidationError{Fields: []models.ErrorDetail{{
		Code:    string(utils.ErrCodeValidationFailed),
		Field:   field,
		Message: message,
	}}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names rather than Go ones.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON decodes the request body into out and runs struct validation.
func bindJSON(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return invalidField("body", "malformed JSON body")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]models.ErrorDetail, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, models.ErrorDetail{
				Code:    string(utils.ErrCodeValidationFailed),
				Field:   fe.Field(),
				Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
			})
		}
		return &RequestValidationError{Fields: fields}
	}
	return nil
}

func statusFor(code utils.ErrorCode) int {
	switch code {
	case utils.ErrCodeNotFound:
		return fiber.StatusNotFound
	case utils.ErrCodeValidationFailed:
		return fiber.StatusBadRequest
	case utils.ErrCodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every error a handler or middleware returns.
func ErrorHandler(log utils.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			verr *RequestValidationError
			serr *utils.StandardError
			ferr *fiber.Error
		)

		switch {
		case errors.As(err, &verr):
			return c.Status(fiber.StatusBadRequest).JSON(
				models.ErrorResponse("Request validation failed", models.ValidationErrors{Errors: verr.Fields}))

		case errors.As(err, &serr):
			status := statusFor(serr.Code)
			if status >= fiber.StatusInternalServerError {
				log.WithError(err).Error("request failed", map[string]interface{}{
					"method": c.Method(),
					"path":   c.Path(),
					"code":   string(serr.Code),
				})
			}
			return c.Status(status).JSON(models.ErrorResponse(serr.Message, models.ErrorDetail{
				Code:    string(serr.Code),
				Message: serr.Details,
			}))

		case errors.As(err, &ferr):
			return c.Status(ferr.Code).JSON(models.ErrorResponse(ferr.Message, nil))
		}

		log.WithError(err).Error("unhandled error", map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(
			models.ErrorResponse("Internal Server Error", nil))
	}
}
