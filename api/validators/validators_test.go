package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/angelmondragon/tvshop-backend/pkg/pagination"
	"github.com/angelmondragon/tvshop-backend/pkg/shipping"
)

type quantityBody struct {
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Note     string `json:"note" validate:"omitempty,max=5"`
}

func decode(t *testing.T, body string) (quantityBody, *pkgerrors.Error) {
	t.Helper()
	var dest quantityBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := DecodeJSONBody(httptest.NewRecorder(), req, &dest)
	if err == nil {
		return dest, nil
	}
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	return dest, typed
}

func violationsOf(t *testing.T, err *pkgerrors.Error) []shipping.FieldViolation {
	t.Helper()
	details, ok := err.Details().(map[string]any)
	require.True(t, ok, "details missing")
	violations, ok := details["violations"].([]shipping.FieldViolation)
	require.True(t, ok, "violations missing")
	return violations
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	dest, err := decode(t, `{"quantity":3,"note":"gift"}`)
	require.Nil(t, err)
	assert.Equal(t, 3, dest.Quantity)
	assert.Equal(t, "gift", dest.Note)
}

func TestDecodeJSONBodyReportsFieldViolations(t *testing.T) {
	_, err := decode(t, `{"quantity":0,"note":"too long"}`)
	require.NotNil(t, err)

	violations := violationsOf(t, err)
	assert.ElementsMatch(t, []shipping.FieldViolation{
		{Field: "quantity", Reason: "is required"},
		{Field: "note", Reason: "must be at most 5 characters"},
	}, violations)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	_, err := decode(t, `{"quantity":1,"coupon":"FREE"}`)
	require.NotNil(t, err)
	assert.Equal(t, []shipping.FieldViolation{{Field: "coupon", Reason: "is not accepted"}}, violationsOf(t, err))
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":    ``,
		"syntax":   `{"quantity":`,
		"type":     `{"quantity":"three"}`,
		"trailing": `{"quantity":1}{"quantity":2}`,
		"oversize": `{"note":"` + strings.Repeat("x", MaxBodyBytes) + `"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decode(t, body)
			require.NotNil(t, err)
		})
	}
}

func TestParsePage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	params, err := ParsePage(req)
	require.NoError(t, err)
	assert.Equal(t, pagination.Params{Limit: pagination.DefaultLimit}, params)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=10&cursor=%20", nil)
	params, err = ParsePage(req)
	require.NoError(t, err)
	assert.Equal(t, 10, params.Limit)
	assert.Empty(t, params.Cursor)

	for _, query := range []string{"limit=0", "limit=101", "limit=ten", "cursor=not-a-cursor"} {
		req = httptest.NewRequest(http.MethodGet, "/api/v1/orders?"+query, nil)
		_, err = ParsePage(req)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation), query)
	}
}
