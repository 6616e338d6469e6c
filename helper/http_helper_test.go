package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movie-catalog/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/go-playground/validator.v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper()

	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{models.NotFoundf("x"), http.StatusNotFound},
		{models.InvalidArgumentf("x"), http.StatusBadRequest},
		{models.Conflictf("x"), http.StatusConflict},
		{models.Forbiddenf("x"), http.StatusForbidden},
		{models.Unauthorizedf("x"), http.StatusUnauthorized},
		{models.Internal("x", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", models.Forbiddenf("x")), http.StatusForbidden},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, h.GetStatusCode(tc.err), "%v", tc.err)
	}
}

func TestUnderscore(t *testing.T) {
	assert.Equal(t, "poster_url", Underscore("PosterURL"))
	assert.Equal(t, "movie_id", Underscore("MovieID"))
	assert.Equal(t, "old_password", Underscore("OldPassword"))
	assert.Equal(t, "username", Underscore("Username"))
	assert.Equal(t, "http_code", Underscore("HTTPCode"))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSendErrorFromErrHidesInternalDetails(t *testing.T) {
	h := NewHTTPHelper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/movies", nil)

	h.SendErrorFromErr(c, models.Internal("list movies", errors.New("connection refused")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "internal server error", body["error"])
	assert.Equal(t, "internalError", body["code_type"])
}

func TestBindJSONValidation(t *testing.T) {
	h := NewHTTPHelper()

	cases := []struct {
		name   string
		body   string
		ok     bool
		fields []string
	}{
		{"valid", `{"username":"alex","email":"alex@example.com","password":"Password1"}`, true, nil},
		{"bad username", `{"username":"a!","email":"alex@example.com","password":"Password1"}`, false, []string{"username"}},
		{"weak password", `{"username":"alex","email":"alex@example.com","password":"password"}`, false, []string{"password"}},
		{"missing email", `{"username":"alex","password":"Password1"}`, false, []string{"email"}},
		{"malformed", `{"username":`, false, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tc.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var req models.RegisterRequest
			assert.Equal(t, tc.ok, h.BindJSON(c, &req))
			if tc.ok {
				return
			}

			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decode(t, w)
			assert.Equal(t, false, body["success"])
			if len(tc.fields) == 0 {
				return
			}
			details, ok := body["details"].(map[string]interface{})
			require.True(t, ok)
			for _, field := range tc.fields {
				assert.Contains(t, details, field)
			}
		})
	}
}

func TestCustomRulesRegistered(t *testing.T) {
	h := NewHTTPHelper()

	require.NotPanics(t, func() {
		assert.NoError(t, h.Validate.Var("alex_01", "username"))
		assert.Error(t, h.Validate.Var("a!", "username"))
		assert.NoError(t, h.Validate.Var("Password1", "password"))
		assert.Error(t, h.Validate.Var("password", "password"))
	})

	err := h.Validate.Struct(models.RegisterRequest{Username: "a!", Email: "alex@example.com", Password: "weak"})
	var validationErrors validator.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))

	messages := map[string]string{}
	for _, fe := range validationErrors {
		messages[fe.Field()] = fe.Translate(h.Translator)
	}
	assert.Equal(t, "username must be 3-20 characters of letters, digits or underscore", messages["username"])
	assert.Equal(t, "password must be at least 8 characters with a digit, a lowercase and an uppercase letter", messages["password"])
}

func TestSendPage(t *testing.T) {
	h := NewHTTPHelper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "http://example.com/api/admin/users?page=2&limit=10&filter=active", nil)

	h.SendPage(c, "users", []int{1, 2, 3, 4, 5}, 2, 10, 15)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])

	pagination, ok := body["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 15, pagination["total_records"])
	assert.EqualValues(t, 2, pagination["total_pages"])
	assert.EqualValues(t, 2, pagination["current_page"])

	links := pagination["links"].(map[string]interface{})
	assert.Contains(t, links["previous"], "page=1")
	assert.Contains(t, links["previous"], "filter=active")
	assert.Equal(t, "", links["next"])
}
