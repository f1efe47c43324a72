package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// BadRequest writes a 400 Bad Request response with the given error message.
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Failure(CodeInvalidRequest, message, nil))
}

// InvalidRequestBody writes a 400 Bad Request response for malformed request bodies.
func InvalidRequestBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, Failure(CodeInvalidRequest, MsgInvalidRequestBody, nil))
}

// ValidationError writes a 400 Bad Request response with validation error details.
func ValidationError(c echo.Context, details map[string]string) error {
	return c.JSON(http.StatusBadRequest, Failure(CodeValidationError, MsgValidationFailed, details))
}

// ValidationErrorWithMessage writes a 400 Bad Request response with a custom message.
func ValidationErrorWithMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Failure(CodeValidationError, message, nil))
}

// NotFound writes a 404 Not Found response for an unknown history id.
func NotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, Failure(CodeNotFound, MsgSearchNotFound, nil))
}

// GatewayTimeout writes a 504 Gateway Timeout response.
func GatewayTimeout(c echo.Context) error {
	return c.JSON(http.StatusGatewayTimeout, Failure(CodeTimeout, MsgTimeout, nil))
}

// RequestCancelled writes a 504 Gateway Timeout response for cancelled requests.
func RequestCancelled(c echo.Context) error {
	return c.JSON(http.StatusGatewayTimeout, Failure(CodeTimeout, MsgRequestCancelled, nil))
}

// HistoryFailed writes a 500 response for a search whose history write failed.
func HistoryFailed(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, Failure(CodeInternalError, MsgHistoryFailed, nil))
}

// InternalServerError writes a 500 Internal Server Error response.
func InternalServerError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, Failure(CodeInternalError, MsgInternalError, nil))
}
