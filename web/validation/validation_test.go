package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/quillpress/blog-api/util/json_util"
	"github.com/quillpress/blog-api/web/entity"
	"github.com/quillpress/blog-api/web/locale"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(locale.LocalizerMiddleware())
	r.POST("/users", Body[entity.CreateUserRequest](), func(c *gin.Context) {
		c.JSON(http.StatusOK, BodyFrom[entity.CreateUserRequest](c))
	})
	r.PUT("/blogs/:id", ParamID("id"), Body[entity.UpdateBlogRequest](), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetID(c, "id")})
	})
	r.POST("/comments", Body[entity.CreateCommentRequest](), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeErrors(t *testing.T, w *httptest.ResponseRecorder) map[string]entity.FieldError {
	t.Helper()
	var resp entity.ErrorMsg
	require.NoError(t, json_util.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Validation error", resp.Message)
	byField := map[string]entity.FieldError{}
	for _, e := range resp.Errors {
		byField[e.Field] = e
	}
	return byField
}

func TestCreateUserRules(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"bad email", `{"email":"nope","name":"Jane","username":"jane","password":"secret123"}`,
			"email", "Must be a valid email address"},
		{"short name", `{"email":"j@x.io","name":"J","username":"jane","password":"secret123"}`,
			"name", "Name must be between 2 and 50 characters"},
		{"username chars", `{"email":"j@x.io","name":"Jane","username":"jane doe","password":"secret123"}`,
			"username", "Username can only contain letters, numbers, underscores, and dashes"},
		{"short password", `{"email":"j@x.io","name":"Jane","username":"jane","password":"a1"}`,
			"password", "Password must be at least 8 characters long"},
		{"password without digit", `{"email":"j@x.io","name":"Jane","username":"jane","password":"abcdefgh"}`,
			"password", "Password must contain at least one letter and one number"},
		{"role id", `{"email":"j@x.io","name":"Jane","username":"jane","password":"secret123","roleId":0}`,
			"roleId", "Valid role ID is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/users", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			errs := decodeErrors(t, w)
			require.Contains(t, errs, tt.field)
			assert.Equal(t, tt.msg, errs[tt.field].Msg)
			assert.Equal(t, entity.LocationBody, errs[tt.field].Location)
		})
	}
}

func TestCreateUserNormalizes(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodPost, "/users",
		`{"email":"  Jane@Example.COM ","name":" Jane ","username":"jane_1","password":" secret123 ","extra":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got entity.CreateUserRequest
	require.NoError(t, json_util.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "Jane", got.Name)
	assert.Equal(t, " secret123 ", got.Password)
	assert.Nil(t, got.RoleId)
}

func TestMissingBodyReportsRequiredFields(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodPost, "/comments", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decodeErrors(t, w)
	assert.Contains(t, errs, "content")
	assert.Contains(t, errs, "blogId")
}

func TestCommentContentLimit(t *testing.T) {
	r := newRouter()
	long := strings.Repeat("x", 1001)
	w := do(r, http.MethodPost, "/comments", `{"content":"`+long+`","blogId":1}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Comment content must be between 1 and 1000 characters", decodeErrors(t, w)["content"].Msg)

	w = do(r, http.MethodPost, "/comments", `{"content":"`+long[:1000]+`","blogId":1}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestMalformedJSON(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodPost, "/comments", `{"content":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeErrors(t, w), "body")

	w = do(r, http.MethodPost, "/comments", `{"content":"hi","blogId":"one"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParamID(t *testing.T) {
	r := newRouter()

	w := do(r, http.MethodPut, "/blogs/abc", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decodeErrors(t, w)["id"]
	assert.Equal(t, "id must be a positive integer", e.Msg)
	assert.Equal(t, entity.LocationParams, e.Location)

	w = do(r, http.MethodPut, "/blogs/0", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/blogs/12", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":12}`, w.Body.String())
}

func TestUpdateBlogOptionalFields(t *testing.T) {
	r := newRouter()

	w := do(r, http.MethodPut, "/blogs/1", `{"title":"  ab  "}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title must be between 3 and 100 characters", decodeErrors(t, w)["title"].Msg)

	w = do(r, http.MethodPut, "/blogs/1", `{"isPublic":false}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHasLetterAndDigit(t *testing.T) {
	assert.True(t, hasLetterAndDigit("abc12345"))
	assert.False(t, hasLetterAndDigit("12345678"))
	assert.False(t, hasLetterAndDigit("abcdefgh"))
}

func TestSpanishMessages(t *testing.T) {
	r := newRouter()
	req := httptest.NewRequest(http.MethodPost, "/comments", strings.NewReader(`{"blogId":1}`))
	req.Header.Set("Accept-Language", "es-ES")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp entity.ErrorMsg
	require.NoError(t, json_util.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Error de validación", resp.Message)
}
