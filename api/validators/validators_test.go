package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/foodorder-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleLine struct {
	Qty int `json:"qty" validate:"gte=1"`
}

type sampleBody struct {
	Email string       `json:"email" validate:"required,email"`
	Lines []sampleLine `json:"lines" validate:"required,min=1,dive"`
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","lines":[{"qty":1}],"extra":true}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDecodeJSONBodyReportsNestedFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"nope","lines":[{"qty":0}]}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be greater than or equal to 1", details["lines[0].qty"])
}

func TestDecodeJSONBodyEmpty(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=30&bad=x&big=500", nil)

	v, err := ParseQueryInt(req, "limit", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	v, err = ParseQueryInt(req, "missing", 20, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	_, err = ParseQueryInt(req, "bad", 20, 1, 100)
	assert.Error(t, err)
	_, err = ParseQueryInt(req, "big", 20, 1, 100)
	assert.Error(t, err)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc", SanitizeString("  abcdef ", 3))
	assert.Equal(t, "hi", SanitizeString(" hi ", 0))
}

func TestQueryString(t *testing.T) {
	req := httptest.NewRequest("GET", "/?cursor=%20abc%20&long=abcdef", nil)
	assert.Equal(t, "abc", QueryString(req, "cursor", 0))
	assert.Equal(t, "abc", QueryString(req, "long", 3))
	assert.Equal(t, "", QueryString(req, "missing", 10))
}

func TestParseQueryIntErrorNamesField(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=0", nil)
	_, err := ParseQueryInt(req, "limit", 20, 1, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit must be between 1 and 100")
}

type optionalPatch struct {
	Qty *int `json:"qty,omitempty" validate:"omitempty,gte=0"`
}

func TestDecodeOptionalJSONBody(t *testing.T) {
	var empty optionalPatch
	require.NoError(t, DecodeOptionalJSONBody(httptest.NewRequest("PUT", "/", strings.NewReader("")), &empty))
	assert.Nil(t, empty.Qty)

	var bad optionalPatch
	err := DecodeOptionalJSONBody(httptest.NewRequest("PUT", "/", strings.NewReader(`{"qty":-2}`)), &bad)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	var malformed optionalPatch
	err = DecodeOptionalJSONBody(httptest.NewRequest("PUT", "/", strings.NewReader(`{"qty":`)), &malformed)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
