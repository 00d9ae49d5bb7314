package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCoerceID(t *testing.T) {
	cases := []struct {
		in   interface{}
		want uint
	}{
		{float64(12), 12},
		{"7", 7},
		{" 8 ", 8},
		{float64(2.5), 0},
		{float64(-1), 0},
		{"abc", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, coerceID(tc.in), "%v", tc.in)
	}
}

func TestCoerceQuantity(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int
	}{
		{float64(3), 3},
		{float64(2.9), 2},
		{"4", 4},
		{"x", 0},
		{"0", 0},
		{float64(0), 0},
		{nil, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, coerceQuantity(tc.in), "%v", tc.in)
	}
}

func staticRouter() *gin.Engine {
	fsys := fstest.MapFS{
		"index.html":    {Data: []byte("<html>app</html>")},
		"assets/app.js": {Data: []byte("console.log(1)")},
	}
	r := gin.New()
	r.NoRoute(NewStatic(fsys).NoRoute)
	return r
}

func TestStatic_ServesAssetsAndFallsBack(t *testing.T) {
	r := staticRouter()

	for _, tc := range []struct {
		path string
		body string
	}{
		{"/", "<html>app</html>"},
		{"/assets/app.js", "console.log(1)"},
		{"/restaurants/12", "<html>app</html>"},
		{"/../../etc/passwd", "<html>app</html>"},
		{"/assets", "<html>app</html>"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, tc.path)
		assert.Equal(t, tc.body, w.Body.String(), tc.path)
	}
}

func TestStatic_UnknownAPIPathIsJSON404(t *testing.T) {
	r := staticRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}

func TestStatic_NoIndex(t *testing.T) {
	r := gin.New()
	r.NoRoute(NewStatic(fstest.MapFS{}).NoRoute)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	r := gin.New()
	r.GET("/health", Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
