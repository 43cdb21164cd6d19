package server

import (
	stderrors "errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// renderError maps a rich error onto the wire: the HTTP status comes from
// the error code and the body is a single detail message. Internal causes
// are logged but never serialized.
func renderError(logger Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			var fiberErr *fiber.Error
			if stderrors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(fiber.Map{
					"detail": fiberErr.Message,
				})
			}
			richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
				WithCode(errors.CodeInternal)
		}

		status := richErr.Code
		if status < http.StatusBadRequest {
			if richErr.Category == errors.CategoryValidation {
				status = http.StatusUnprocessableEntity
			} else {
				status = http.StatusInternalServerError
			}
		}

		if status >= http.StatusInternalServerError {
			logger.Error(
				"request failed",
				"error", richErr.Message,
				"category", richErr.Category,
				"details", print.MaybePrettyJSON(richErr.Metadata),
			)
		} else {
			logger.Debug(
				"request rejected",
				"error", richErr.Message,
				"category", richErr.Category,
				"status", status,
			)
		}

		return c.Status(status).JSON(fiber.Map{
			"detail": richErr.Message,
		})
	}
}
