// Package schemas defines the data structures and the error catalog of the API.
package schemas

// CustomError is a struct that represents a well-known API error
// Code is a stable identifier for the error
// Message is the human-readable description returned to the client
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	// BadRequest is returned when the request body fails decoding or validation.
	BadRequest = &CustomError{
		Code:    "ERR-001",
		Message: "The request body is invalid. Please check the request body and try again.",
	}
	// UserAlreadyRegistered is returned when the email is already taken.
	UserAlreadyRegistered = &CustomError{
		Code:    "ERR-002",
		Message: "User already registered",
	}
	// EmailUnreachable is returned when MX verification of the email failed.
	EmailUnreachable = &CustomError{
		Code:    "ERR-003",
		Message: "The email address is unreachable. Please check the email address and try again.",
	}
	// InvalidCredentials is deliberately identical for an unknown email and a
	// wrong password, so the endpoint cannot be used to enumerate accounts.
	InvalidCredentials = &CustomError{
		Code:    "ERR-004",
		Message: "Invalid email or password",
	}
	// TokenNotProvided is returned when the request carries no token at all.
	TokenNotProvided = &CustomError{
		Code:    "ERR-005",
		Message: "Token not provided, authorization failed",
	}
	// InvalidToken is returned when the token is malformed, tampered or expired.
	InvalidToken = &CustomError{
		Code:    "ERR-006",
		Message: "Invalid token",
	}
	// NotAuthorized is returned when a valid identity acts on a resource it does not own.
	NotAuthorized = &CustomError{
		Code:    "ERR-007",
		Message: "User not authorized",
	}
	UserNotFound = &CustomError{
		Code:    "ERR-008",
		Message: "User not found",
	}
	PostNotFound = &CustomError{
		Code:    "ERR-009",
		Message: "Post not found",
	}
	PostAlreadyLiked = &CustomError{
		Code:    "ERR-010",
		Message: "Post already liked",
	}
	PostNotLiked = &CustomError{
		Code:    "ERR-011",
		Message: "Post has not been liked",
	}
	CommentNotFound = &CustomError{
		Code:    "ERR-012",
		Message: "Comment not found",
	}
	ProfileNotFound = &CustomError{
		Code:    "ERR-013",
		Message: "There's no profile for this user",
	}
	InvalidExperienceId = &CustomError{
		Code:    "ERR-014",
		Message: "Invalid experience id",
	}
	InvalidEducationId = &CustomError{
		Code:    "ERR-015",
		Message: "Invalid education id",
	}
	// DatabaseError is returned for any failed document-store operation.
	// The underlying error is logged, never sent to the client.
	DatabaseError = &CustomError{
		Code:    "ERR-016",
		Message: "Server error",
	}
	// InternalServerError is returned for non-database failures, e.g. a failed
	// token signing operation.
	InternalServerError = &CustomError{
		Code:    "ERR-017",
		Message: "Server error",
	}
)
