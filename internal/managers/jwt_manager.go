package managers

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"dev-castle-server/internal/schemas"
	"dev-castle-server/internal/utils"
)

// tokenValidity is the fixed validity window of an issued token. Tokens are
// stateless: the server verifies signature and expiry only, there is no
// revocation list, so a token stays valid until this window elapses.
const tokenValidity = 10 * time.Hour

type JWTMgr interface {
	GenerateJWT(userId string) (string, error)
	ValidateJWT(tokenString string) (string, error)
	JWTMiddleware() gin.HandlerFunc
}

// JWTManager handles JWT generation, signing, and validation.
type JWTManager struct {
	secret []byte
}

// TokenClaims is the claim set of an issued token. The user identity lives
// under the "user" key, matching what the client already expects.
type TokenClaims struct {
	User UserClaim `json:"user"`
	jwt.RegisteredClaims
}

// UserClaim carries the identifier of the authenticated user.
type UserClaim struct {
	ID string `json:"id"`
}

// NewJWTManager creates a new JWTManager with the given signing secret.
func NewJWTManager(secret []byte) JWTMgr {
	return &JWTManager{secret: secret}
}

// NewJWTManagerFromEnv creates a new JWTManager with the secret supplied via
// the JWT_SECRET environment variable. The secret is never hardcoded.
func NewJWTManagerFromEnv() (JWTMgr, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}

	return NewJWTManager([]byte(secret)), nil
}

// GenerateJWT generates a new signed JWT bound to the given user id,
// expiring ten hours from issuance.
func (jm *JWTManager) GenerateJWT(userId string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		User: UserClaim{ID: userId},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenValidity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jm.secret)
}

// ValidateJWT validates the given JWT and returns the embedded user id if the
// signature matches and the token has not expired. Validation is pure and
// stateless, no store lookup is involved.
func (jm *JWTManager) ValidateJWT(tokenString string) (string, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("invalid signing method")
		}
		return jm.secret, nil
	})

	if err != nil {
		return "", err
	}

	if !token.Valid || claims.User.ID == "" {
		return "", jwt.ErrSignatureInvalid
	}

	return claims.User.ID, nil
}

// JWTMiddleware gates protected routes. A rejection aborts the handler chain,
// nothing runs after it. On success the resolved user id is stored in the
// request context for the handlers.
func (jm *JWTManager) JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.TokenNotProvided})
			return
		}

		userId, err := jm.ValidateJWT(tokenString)
		if err != nil {
			utils.LogMessageWithFields(c, "warn", "Token rejected: "+err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, &schemas.ErrorDTO{Error: *schemas.InvalidToken})
			return
		}

		c.Set(utils.UserIdKey.String(), userId)
		c.Next()
	}
}

// extractToken reads the bearer token from the Authorization header, falling
// back to the legacy x-auth-token header the original client used.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return c.GetHeader("x-auth-token")
}
