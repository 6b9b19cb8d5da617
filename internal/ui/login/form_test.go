package login

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://campuscalm.example.com"))
	assert.NoError(t, ValidateURL(" http://localhost:8000 "))
	assert.Error(t, ValidateURL(""))
	assert.Error(t, ValidateURL("localhost:8000"))
	assert.Error(t, ValidateURL("ftp://example.com"))
}

func TestValidateRequired(t *testing.T) {
	v := ValidateRequired("Session cookie")
	assert.NoError(t, v("abc"))
	assert.EqualError(t, v("  "), "Session cookie is required")
}

func TestNewForm_BindsResult(t *testing.T) {
	r := &Result{BaseURL: "http://localhost:8000", Locale: "en"}
	assert.NotNil(t, NewForm(r))
}
