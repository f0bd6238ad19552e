package schemas

// ErrorDTO is a struct that represents an error response
// Error is the custom error, see CustomError
type ErrorDTO struct {
	Error CustomError `json:"error"`
}

// ValidationErrorDTO is a struct that represents a failed request validation
// Error is always BadRequest; Fields itemizes the offending fields
type ValidationErrorDTO struct {
	Error  CustomError     `json:"error"`
	Fields []FieldErrorDTO `json:"fields"`
}

// FieldErrorDTO is a single itemized validation failure
// Field is the JSON name of the offending field
// Message is the human-readable reason
type FieldErrorDTO struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// TokenDTO is a struct that represents a token response
// Token is the JWT token
type TokenDTO struct {
	Token string `json:"token"`
}

// MessageDTO is a struct that represents a plain confirmation response
type MessageDTO struct {
	Message string `json:"msg"`
}

// MetadataDTO is a struct that represents the version response of the root route
type MetadataDTO struct {
	ApiVersion string `json:"apiVersion"`
	ApiName    string `json:"apiName"`
}
