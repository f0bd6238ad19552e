package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dev-castle-server/internal/schemas"
)

// WriteAndLogResponse encodes the response object to JSON and writes it to the HTTP response
// with the provided status code.
func WriteAndLogResponse(ctx *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(ctx, "debug", "Returning response")
	ctx.JSON(statusCode, response)
}

// WriteAndLogError logs the provided error and sends an error response with the specified
// status code and the catalog error. The underlying error never reaches the client.
func WriteAndLogError(ctx *gin.Context, customErr *schemas.CustomError, statusCode int, err error) {
	LogMessageWithFields(ctx, "error", "Error occurred: "+err.Error())
	LogMessageWithFields(ctx, "error", "Returning "+customErr.Code+" / "+customErr.Message)
	errorDto := &schemas.ErrorDTO{
		Error: *customErr,
	}
	ctx.JSON(statusCode, errorDto)
}

// WriteAndLogValidationError sends a BadRequest response carrying the itemized
// field errors of a failed request validation.
func WriteAndLogValidationError(ctx *gin.Context, fields []schemas.FieldErrorDTO, err error) {
	LogMessageWithFields(ctx, "error", "Validation failed: "+err.Error())
	errorDto := &schemas.ValidationErrorDTO{
		Error:  *schemas.BadRequest,
		Fields: fields,
	}
	ctx.JSON(http.StatusBadRequest, errorDto)
}
