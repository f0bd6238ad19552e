package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev-castle-server/internal/schemas"
)

func TestFieldErrorMessages(t *testing.T) {
	testCases := []struct {
		name    string
		request schemas.RegistrationRequest
		field   string
		message string
	}{
		{
			"MissingFirstname",
			schemas.RegistrationRequest{Lastname: "Archer", Email: "alice@x.com", Password: "password1"},
			"firstname",
			"First name is required",
		},
		{
			"MissingLastname",
			schemas.RegistrationRequest{Firstname: "Alice", Email: "alice@x.com", Password: "password1"},
			"lastname",
			"Last name is required",
		},
		{
			"InvalidEmail",
			schemas.RegistrationRequest{Firstname: "Alice", Lastname: "Archer", Email: "nope", Password: "password1"},
			"email",
			"Please enter a valid email",
		},
		{
			"ShortPassword",
			schemas.RegistrationRequest{Firstname: "Alice", Lastname: "Archer", Email: "alice@x.com", Password: "short1"},
			"password",
			"Password should be 8 or more characters",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := GetValidator().Validate.Struct(tc.request)
			require.Error(t, err)

			fields := FieldErrors(err)
			require.Len(t, fields, 1)
			assert.Equal(t, tc.field, fields[0].Field)
			assert.Equal(t, tc.message, fields[0].Message)
		})
	}
}

func TestValidRegistrationPasses(t *testing.T) {
	request := schemas.RegistrationRequest{
		Firstname: "Alice",
		Lastname:  "Archer",
		Email:     "alice@x.com",
		Password:  "password1",
	}
	assert.NoError(t, GetValidator().Validate.Struct(request))
}

func TestSanitizeDataStripsMarkup(t *testing.T) {
	request := &schemas.CreatePostRequest{Text: `hello <script>alert("x")</script>world`}

	require.NoError(t, GetValidator().SanitizeData(request))
	assert.Equal(t, "hello world", request.Text)
}

func TestSanitizeDataHandlesNestedStructs(t *testing.T) {
	type inner struct {
		Note string
	}
	type outer struct {
		Title string
		Inner inner
	}

	obj := &outer{Title: "<b>bold</b>", Inner: inner{Note: "<i>note</i>"}}
	require.NoError(t, GetValidator().SanitizeData(obj))
	assert.Equal(t, "bold", obj.Title)
	assert.Equal(t, "note", obj.Inner.Note)
}

func TestSanitizeDataRejectsNonStruct(t *testing.T) {
	value := "plain string"
	assert.Error(t, GetValidator().SanitizeData(&value))
}
