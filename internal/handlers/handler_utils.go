// Package handlers implements the HTTP handlers of the API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"dev-castle-server/internal/schemas"
	"dev-castle-server/internal/utils"
)

// callerId resolves the authenticated user id that the JWT middleware stored
// in the request context. A missing or malformed identity is rejected with
// 401 and the caller must stop.
func callerId(c *gin.Context) (primitive.ObjectID, bool) {
	raw, ok := c.Value(utils.UserIdKey.String()).(string)
	if !ok {
		utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, errors.New("no identity in request context"))
		return primitive.NilObjectID, false
	}

	userId, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InvalidToken, http.StatusUnauthorized, err)
		return primitive.NilObjectID, false
	}

	return userId, true
}

// sanitizedPayload retrieves the request body the validation middleware bound
// and validated. The assertion only fails when a route is wired without the
// middleware, which is a programming error surfaced as a 400.
func sanitizedPayload[T any](c *gin.Context) (*T, bool) {
	payload, ok := c.Value(utils.SanitizedPayloadKey.String()).(*T)
	if !ok {
		utils.WriteAndLogError(c, schemas.BadRequest, http.StatusBadRequest, errors.New("no sanitized payload in request context"))
		return nil, false
	}

	return payload, true
}
