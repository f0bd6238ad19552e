// Package schemas defines the request structures for various operations in the application.
package schemas

// RegistrationRequest is a struct that represents a registration request
// Firstname and Lastname are required
// Email is required and must be a valid email
// Password is required and must be at least 8 characters
type RegistrationRequest struct {
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// LoginRequest is a struct that represents a login request
// Email is required and must be a valid email
// Password is required but deliberately unconstrained beyond that, so a
// wrong-length password still yields the uniform credentials error
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreatePostRequest is a struct that represents a create post request
// Text is required
type CreatePostRequest struct {
	Text string `json:"text" validate:"required"`
}

// CreateCommentRequest is a struct that represents a create comment request
// Text is required
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// UpdateProfileRequest is a struct that represents a profile upsert request
// Status and Skills are required; Skills is a comma-separated string that is
// split and trimmed server-side. Fields left empty are not touched on update.
type UpdateProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"required"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills" validate:"required"`
	Youtube        string `json:"youtube"`
	Facebook       string `json:"facebook"`
	Twitter        string `json:"twitter"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
	Xing           string `json:"xing"`
	Stackoverflow  string `json:"stackoverflow"`
}

// AddExperienceRequest is a struct that represents an experience entry request
// Title, Company and From are required
type AddExperienceRequest struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// AddEducationRequest is a struct that represents an education entry request
// School, Degree, FieldOfStudy and From are required
type AddEducationRequest struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}
