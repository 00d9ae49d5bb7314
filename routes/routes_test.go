package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"mealmatch/config"
	"mealmatch/events"
	"mealmatch/handlers"
	"mealmatch/models"
	"mealmatch/repository"
	"mealmatch/service"
	"mealmatch/session"
	"mealmatch/storage"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type app struct {
	srv *httptest.Server
	db  *gorm.DB
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := config.OpenDB(config.Config{DBDriver: "sqlite", DBDSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	uploadDir := t.TempDir()
	uploads, err := storage.NewUploads(uploadDir)
	require.NoError(t, err)

	sessions, err := session.New(config.Config{SessionStore: "memory", SessionLifetime: time.Hour}, nil)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	h := handlers.New(handlers.Deps{
		Auth:        service.NewAuthService(users, uploads, bcrypt.MinCost),
		Profile:     service.NewProfileService(users, uploads, bcrypt.MinCost),
		Restaurants: service.NewRestaurantService(repository.NewRestaurantRepository(db), repository.NewMenuRepository(db)),
		Orders:      service.NewOrderService(repository.NewOrderRepository(db), events.NopPublisher{}),
		Sessions:    sessions,
	})

	srv := httptest.NewServer(NewRouter(Options{
		Handler:   h,
		Static:    handlers.NewStatic(fstest.MapFS{"index.html": {Data: []byte("<html>app</html>")}}),
		Sessions:  sessions,
		Users:     users,
		UploadDir: uploadDir,
		Logger:    zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return &app{srv: srv, db: db}
}

func (a *app) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func (a *app) register(t *testing.T, c *http.Client, email, role string) *http.Response {
	t.Helper()
	resp, err := c.PostForm(a.srv.URL+"/api/auth/register", url.Values{
		"name":     {"Tester"},
		"email":    {email},
		"password": {"secret"},
		"role":     {role},
	})
	require.NoError(t, err)
	return resp
}

func (a *app) postJSON(t *testing.T, c *http.Client, path, body string) *http.Response {
	t.Helper()
	resp, err := c.Post(a.srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func (a *app) get(t *testing.T, c *http.Client, path string) *http.Response {
	t.Helper()
	resp, err := c.Get(a.srv.URL + path)
	require.NoError(t, err)
	return resp
}

func TestAuthFlow(t *testing.T) {
	a := newApp(t)
	c := a.client(t)

	me := decode(t, a.get(t, c, "/api/auth/me"))
	assert.Nil(t, me["user"])

	resp := a.register(t, c, "Eve@Example.com", "customer")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, resp)["ok"])

	me = decode(t, a.get(t, c, "/api/auth/me"))
	user := me["user"].(map[string]interface{})
	assert.Equal(t, "eve@example.com", user["email"])
	assert.Equal(t, "customer", user["role"])
	assert.NotContains(t, user, "password_hash")
	assert.NotContains(t, user, "PasswordHash")

	resp = a.register(t, a.client(t), "EVE@example.com", "owner")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = a.postJSON(t, c, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Nil(t, decode(t, a.get(t, c, "/api/auth/me"))["user"])

	resp = a.postJSON(t, c, "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = a.postJSON(t, c, "/api/auth/login", `{"email":"eve@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.NotNil(t, decode(t, a.get(t, c, "/api/auth/me"))["user"])
}

func TestRegister_InvalidRole(t *testing.T) {
	a := newApp(t)

	resp := a.register(t, a.client(t), "x@example.com", "admin")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestLogin_FailuresLookTheSame(t *testing.T) {
	a := newApp(t)
	c := a.client(t)
	a.register(t, c, "l@example.com", "customer").Body.Close()

	wrong := a.postJSON(t, a.client(t), "/api/auth/login", `{"email":"l@example.com","password":"bad"}`)
	unknown := a.postJSON(t, a.client(t), "/api/auth/login", `{"email":"who@example.com","password":"secret"}`)
	garbage := a.postJSON(t, a.client(t), "/api/auth/login", `not json`)

	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, garbage.StatusCode)
	assert.Equal(t, decode(t, wrong), decode(t, unknown))
	garbage.Body.Close()
}

func TestProfile(t *testing.T) {
	a := newApp(t)
	c := a.client(t)

	resp := a.get(t, c, "/api/profile")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	a.register(t, c, "p@example.com", "customer").Body.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("name", "Pat"))
	part, err := w.CreateFormFile("photo", "avatar.png")
	require.NoError(t, err)
	part.Write([]byte("PNGDATA"))
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPut, a.srv.URL+"/api/profile", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err = c.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	photoURL, ok := body["photo_url"].(string)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(photoURL, "/uploads/"))

	profile := decode(t, a.get(t, c, "/api/profile"))["user"].(map[string]interface{})
	assert.Equal(t, "Pat", profile["name"])
	assert.Equal(t, photoURL, profile["photo_url"])

	resp = a.get(t, c, photoURL)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "PNGDATA", string(b))
}

func TestOwnerRestaurants(t *testing.T) {
	a := newApp(t)
	owner := a.client(t)
	customer := a.client(t)
	a.register(t, owner, "o@example.com", "owner").Body.Close()
	a.register(t, customer, "c@example.com", "customer").Body.Close()

	payload := `{"name":"Halal Ramen","area":"Shibuya","cuisine":"Japanese","price_level":"¥¥","halal":true}`

	resp := a.postJSON(t, a.client(t), "/api/owner/restaurants", payload)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = a.postJSON(t, customer, "/api/owner/restaurants", payload)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = a.postJSON(t, owner, "/api/owner/restaurants", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = a.postJSON(t, owner, "/api/owner/restaurants", payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotZero(t, decode(t, resp)["restaurant_id"])

	resp = a.postJSON(t, owner, "/api/owner/restaurants", `{"name":"Tokyo Sushi","area":"Ginza","cuisine":"Japanese"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	list := decode(t, a.get(t, a.client(t), "/api/restaurants?cuisine=Halal&area=All+Areas&price=All+Prices"))["restaurants"].([]interface{})
	require.Len(t, list, 1)
	r := list[0].(map[string]interface{})
	assert.Equal(t, "Halal Ramen", r["name"])
	assert.Equal(t, "¥¥", r["price_level"])
	assert.Equal(t, true, r["halal"])

	list = decode(t, a.get(t, a.client(t), "/api/restaurants?cuisine=Japanese"))["restaurants"].([]interface{})
	assert.Len(t, list, 2)

	list = decode(t, a.get(t, a.client(t), "/api/restaurants?q=sushi"))["restaurants"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "¥", list[0].(map[string]interface{})["price_level"])
}

func seedMenu(t *testing.T, db *gorm.DB) (models.Restaurant, models.MenuItem) {
	t.Helper()
	owner := models.User{Name: "O", Email: "seed-owner@example.com", PasswordHash: "x", Role: models.RoleOwner}
	require.NoError(t, db.Create(&owner).Error)
	r := models.Restaurant{OwnerID: owner.ID, Name: "Curry House", PriceLevel: models.PriceLow}
	require.NoError(t, db.Create(&r).Error)
	item := models.MenuItem{RestaurantID: r.ID, Name: "Katsu Curry", Price: 950}
	require.NoError(t, db.Create(&item).Error)
	return r, item
}

func TestMenu(t *testing.T) {
	a := newApp(t)
	r, item := seedMenu(t, a.db)
	c := a.client(t)

	items := decode(t, a.get(t, c, "/api/menu/"+jsonID(r.ID)))["items"].([]interface{})
	require.Len(t, items, 1)
	got := items[0].(map[string]interface{})
	assert.Equal(t, item.Name, got["name"])
	assert.Equal(t, 950.0, got["price"])
	assert.Contains(t, got, "old_price")
	assert.Contains(t, got, "discount")

	empty := decode(t, a.get(t, c, "/api/menu/99999"))["items"].([]interface{})
	assert.Empty(t, empty)

	resp := a.get(t, c, "/api/menu/abc")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}

func TestOrders(t *testing.T) {
	a := newApp(t)
	r, item := seedMenu(t, a.db)
	c := a.client(t)

	resp := a.get(t, c, "/api/orders")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	a.register(t, c, "buyer@example.com", "customer").Body.Close()

	resp = a.postJSON(t, c, "/api/orders", `{"restaurant_id":1,"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	resp = a.postJSON(t, c, "/api/orders", `{{{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
	var count int64
	a.db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)

	body := `{"restaurant_id":` + jsonID(r.ID) + `,"items":[` +
		`{"menu_item_id":` + jsonID(item.ID) + `,"quantity":2},` +
		`{"menu_item_id":424242,"quantity":1},` +
		`{"menu_item_id":"` + jsonID(item.ID) + `","quantity":"many"}]}`
	resp = a.postJSON(t, c, "/api/orders", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decode(t, resp)
	assert.Equal(t, true, created["ok"])
	assert.Equal(t, 1.0, created["dropped_items"])
	firstID := created["order_id"].(float64)

	var lines []models.OrderItem
	require.NoError(t, a.db.Where("order_id = ?", uint(firstID)).Order("id").Find(&lines).Error)
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
	assert.Equal(t, 950.0, lines[0].Price)

	resp = a.postJSON(t, c, "/api/orders", `{"items":[{"menu_item_id":`+jsonID(item.ID)+`}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	secondID := decode(t, resp)["order_id"].(float64)

	orders := decode(t, a.get(t, c, "/api/orders"))["orders"].([]interface{})
	require.Len(t, orders, 2)
	newest := orders[0].(map[string]interface{})
	assert.Equal(t, secondID, newest["id"])
	assert.Equal(t, "pending", newest["status"])
	assert.Contains(t, newest, "created_at")
	assert.NotContains(t, newest, "items")
	assert.Equal(t, firstID, orders[1].(map[string]interface{})["id"])
}

func TestFallbacks(t *testing.T) {
	a := newApp(t)
	c := a.client(t)

	resp := a.get(t, c, "/some/client/route")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "<html>app</html>", string(b))

	resp = a.get(t, c, "/api/unknown")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = a.get(t, c, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
