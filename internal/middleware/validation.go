package middleware

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"dev-castle-server/internal/schemas"
	"dev-castle-server/internal/utils"
)

// ValidateAndSanitizeStruct binds the request body into a fresh instance of
// the given model type, strips markup from its string fields, validates it
// and stores the result in the request context. A failure aborts the chain
// with an itemized 400 response before any handler runs.
func ValidateAndSanitizeStruct(model interface{}) gin.HandlerFunc {
	modelType := reflect.TypeOf(model).Elem()

	return func(c *gin.Context) {
		obj := reflect.New(modelType).Interface()

		if err := c.ShouldBindJSON(obj); err != nil {
			utils.LogMessageWithFields(c, "error", "Body decoding failed: "+err.Error())
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		validator := utils.GetValidator()
		if err := validator.SanitizeData(obj); err != nil {
			utils.LogMessageWithFields(c, "error", "Sanitizing failed: "+err.Error())
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ErrorDTO{Error: *schemas.BadRequest})
			return
		}

		if err := validator.Validate.Struct(obj); err != nil {
			fields := utils.FieldErrors(err)
			utils.LogMessageWithFields(c, "error", "Validation failed: "+err.Error())
			c.AbortWithStatusJSON(http.StatusBadRequest, &schemas.ValidationErrorDTO{
				Error:  *schemas.BadRequest,
				Fields: fields,
			})
			return
		}

		// Set the sanitized object in the context
		c.Set(utils.SanitizedPayloadKey.String(), obj)
		c.Next()
	}
}
