package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/fragrance-catalog/internal/config"
	"github.com/javajoker/fragrance-catalog/internal/database"
	"github.com/javajoker/fragrance-catalog/internal/i18n"
	"github.com/javajoker/fragrance-catalog/internal/models"
	"github.com/javajoker/fragrance-catalog/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:      "router-test-secret",
			AccessTokenTTL: 1,
			Issuer:         "fragrance-catalog",
		},
		CORS:    config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Catalog: config.CatalogConfig{MaxPageSize: 50},
		I18n:    config.I18nConfig{DefaultLocale: "en"},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

type RouterTestSuite struct {
	suite.Suite
	store  *database.Handle
	router *gin.Engine
}

func (suite *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize("en"))
}

func (suite *RouterTestSuite) SetupTest() {
	suite.store = testutil.NewStore(suite.T())
	suite.router = Initialize(suite.store, testConfig())
}

func (suite *RouterTestSuite) do(method, path string, body interface{}, token string) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(jsonData)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var resp envelope
	if w.Body.Len() > 0 {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func (suite *RouterTestSuite) signup(username string) string {
	w, resp := suite.do(http.MethodPost, "/api/signup", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "TestPass123!",
	}, "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	suite.Require().NoError(json.Unmarshal(resp.Data, &data))
	suite.Require().NotEmpty(data.Token)
	return data.Token
}

func (suite *RouterTestSuite) createFragrance(token string, body map[string]interface{}) uint {
	w, resp := suite.do(http.MethodPost, "/api/fragrances", body, token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		ID uint `json:"id"`
	}
	suite.Require().NoError(json.Unmarshal(resp.Data, &data))
	return data.ID
}

func (suite *RouterTestSuite) TestSignupAndLogin() {
	suite.signup("testuser")

	w, resp := suite.do(http.MethodPost, "/api/signup", map[string]interface{}{
		"username": "testuser",
		"email":    "again@example.com",
		"password": "TestPass123!",
	}, "")
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("CONFLICT", resp.Error.Code)

	w, resp = suite.do(http.MethodPost, "/api/signup", map[string]interface{}{
		"username": "x",
		"email":    "not-an-email",
		"password": "short",
	}, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("VALIDATION_ERROR", resp.Error.Code)

	w, resp = suite.do(http.MethodPost, "/api/login", map[string]interface{}{
		"username": "testuser",
		"password": "WrongPass123!",
	}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("UNAUTHORIZED", resp.Error.Code)

	w, resp = suite.do(http.MethodPost, "/api/login", map[string]interface{}{
		"username": "testuser",
		"password": "TestPass123!",
	}, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	var data struct {
		Token string             `json:"token"`
		User  models.UserSummary `json:"user"`
	}
	suite.Require().NoError(json.Unmarshal(resp.Data, &data))
	suite.Equal("testuser", data.User.Username)
	suite.NotContains(string(resp.Data), "password")

	w, resp = suite.do(http.MethodGet, "/api/me", nil, data.Token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(string(resp.Data), `"username":"testuser"`)
}

func (suite *RouterTestSuite) TestProtectedRoutesRejectUniformly() {
	id := testutil.Insert(suite.T(), suite.store, testutil.Fixture{Name: "Guarded", Prices: []float64{10}, Ratings: []int{3}})

	routes := []struct {
		method, path string
		body         interface{}
	}{
		{http.MethodPost, "/api/fragrances", map[string]interface{}{"name": "Sneaky"}},
		{http.MethodDelete, fmt.Sprintf("/api/fragrances/%d", id), nil},
		{http.MethodPost, "/api/reviews", map[string]interface{}{"fragrance_id": id, "rating": 5}},
		{http.MethodPut, "/api/reviews/1", map[string]interface{}{"rating": 1}},
		{http.MethodPut, "/api/prices/1", map[string]interface{}{"amount": 1}},
		{http.MethodGet, "/api/me", nil},
	}

	for _, token := range []string{"", "invalid.token.value"} {
		for _, route := range routes {
			w, resp := suite.do(route.method, route.path, route.body, token)
			suite.Equal(http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
			suite.Require().NotNil(resp.Error)
			suite.Equal("UNAUTHORIZED", resp.Error.Code)
		}
	}

	suite.Equal(int64(1), testutil.Count(suite.T(), suite.store, "fragrances"))
	suite.Equal(int64(1), testutil.Count(suite.T(), suite.store, "reviews"))

	var price models.Price
	suite.Require().NoError(suite.store.DB().First(&price).Error)
	suite.InDelta(10.0, price.Amount, 0.001)
}

func (suite *RouterTestSuite) TestCreateAndReadFragrance() {
	token := suite.signup("creator")

	id := suite.createFragrance(token, map[string]interface{}{
		"name":         "Aventus",
		"house":        "Creed",
		"release_date": "2010-01-01",
		"price":        435,
		"size":         "100ml",
		"notes":        []string{"Bergamot", "Musk", "Stardust"},
	})

	w, resp := suite.do(http.MethodGet, fmt.Sprintf("/api/fragrances/%d", id), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	var detail map[string]interface{}
	suite.Require().NoError(json.Unmarshal(resp.Data, &detail))
	suite.ElementsMatch([]string{"fragrance", "notes", "perfumers", "prices", "reviews"}, keys(detail))

	fragrance := detail["fragrance"].(map[string]interface{})
	suite.Equal(float64(id), fragrance["id"])
	suite.Equal("Aventus", fragrance["name"])
	suite.Equal("Creed", fragrance["house"])
	suite.Equal("2010-01-01", fragrance["release_date"])
	suite.Nil(fragrance["rating"])
	suite.Nil(fragrance["perfumer"])
	suite.Nil(fragrance["description"])
	suite.Equal(float64(0), fragrance["popularity"])
	suite.Equal(float64(435), fragrance["price"])
	suite.Len(detail["notes"], 2)
	suite.Len(detail["prices"], 1)
	suite.Len(detail["reviews"], 0)

	prices := detail["prices"].([]interface{})
	suite.Equal("100ml", prices[0].(map[string]interface{})["size"])
	suite.Contains(prices[0], "price_id")
}

func (suite *RouterTestSuite) TestCreateFragranceValidation() {
	token := suite.signup("creator")

	bad := []map[string]interface{}{
		{},
		{"name": "   "},
		{"name": "Negative", "price": -5, "size": "50ml"},
		{"name": "Dated", "release_date": "01/02/2020"},
		{"name": 12},
	}
	for _, body := range bad {
		w, resp := suite.do(http.MethodPost, "/api/fragrances", body, token)
		suite.Equal(http.StatusBadRequest, w.Code, "%v", body)
		suite.False(resp.Success)
	}
	suite.Equal(int64(0), testutil.Count(suite.T(), suite.store, "fragrances"))
}

func (suite *RouterTestSuite) TestListFragrances() {
	bleu := testutil.Insert(suite.T(), suite.store, testutil.Fixture{
		Name: "Bleu", House: "Chanel", Notes: []string{"Bergamot", "Vanilla"}, Prices: []float64{95}, Ratings: []int{5, 4},
	})
	sauvage := testutil.Insert(suite.T(), suite.store, testutil.Fixture{
		Name: "Sauvage", House: "Dior", Notes: []string{"Bergamot", "Lavender"}, Prices: []float64{80}, Ratings: []int{3},
	})
	bare := testutil.Insert(suite.T(), suite.store, testutil.Fixture{Name: "Bare"})

	list := func(query string) []uint {
		w, resp := suite.do(http.MethodGet, "/api/fragrances"+query, nil, "")
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		var rows []struct {
			ID uint `json:"id"`
		}
		suite.Require().NoError(json.Unmarshal(resp.Data, &rows))
		ids := make([]uint, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ID)
		}
		return ids
	}

	suite.Equal([]uint{bleu, sauvage, bare}, list(""))
	suite.Equal([]uint{sauvage, bleu, bare}, list("?sort=price_asc"))
	suite.Equal([]uint{bare, bleu, sauvage}, list("?sort=name_asc"))
	suite.Equal([]uint{bleu, sauvage, bare}, list("?sort=unknown"))
	suite.Equal([]uint{sauvage}, list("?search=DIOR"))
	suite.Equal([]uint{bleu}, list("?notes=Bergamot,Vanilla"))
	suite.Equal([]uint{bleu}, list("?notes=Bergamot&notes=Vanilla"))
	suite.Equal([]uint{bleu, sauvage}, list("?notes=Vanilla&notes=Lavender&note_match=any"))
	suite.Empty(list("?notes=Oud"))

	w, resp := suite.do(http.MethodGet, "/api/fragrances?limit=1&page=2", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("2", w.Header().Get("X-Page"))
	suite.Equal("1", w.Header().Get("X-Per-Page"))
	suite.Equal(float64(2), resp.Meta["page"])
	suite.Contains(string(resp.Data), fmt.Sprintf(`"id":%d`, sauvage))
}

func (suite *RouterTestSuite) TestFragranceNotFound() {
	w, resp := suite.do(http.MethodGet, "/api/fragrances/9999", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", resp.Error.Code)

	w, resp = suite.do(http.MethodGet, "/api/fragrances/abc", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("BAD_REQUEST", resp.Error.Code)

	req, _ := http.NewRequest(http.MethodGet, "/api/fragrances/9999", nil)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Contains(rec.Body.String(), "Parfum introuvable")
}

func (suite *RouterTestSuite) TestReviewLifecycle() {
	owner := suite.signup("owner")
	other := suite.signup("other")
	id := testutil.Insert(suite.T(), suite.store, testutil.Fixture{Name: "Terre", Ratings: []int{3}})

	w, resp := suite.do(http.MethodPost, "/api/reviews", map[string]interface{}{
		"fragrance_id": id,
		"rating":       5,
	}, owner)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var review models.Review
	suite.Require().NoError(json.Unmarshal(resp.Data, &review))
	suite.Equal("owner", review.ReviewerName)
	suite.Nil(review.Text)

	w, resp = suite.do(http.MethodGet, fmt.Sprintf("/api/fragrances/%d", id), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	var detail struct {
		Fragrance struct {
			Rating     float64 `json:"rating"`
			Popularity int     `json:"popularity"`
		} `json:"fragrance"`
		Reviews []struct {
			Text *string `json:"text"`
		} `json:"reviews"`
	}
	suite.Require().NoError(json.Unmarshal(resp.Data, &detail))
	suite.Equal(2, detail.Fragrance.Popularity)
	suite.InDelta(4.0, detail.Fragrance.Rating, 0.001)
	suite.Nil(detail.Reviews[0].Text)

	path := fmt.Sprintf("/api/reviews/%d", review.ID)
	w, resp = suite.do(http.MethodPut, path, map[string]interface{}{"rating": 1}, other)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("FORBIDDEN", resp.Error.Code)

	w, resp = suite.do(http.MethodPut, path, map[string]interface{}{"rating": 4, "text": "Better"}, owner)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(string(resp.Data), `"reviewer_name":"owner"`)
	suite.Contains(string(resp.Data), `"text":"Better"`)

	for _, body := range []map[string]interface{}{{"rating": 0}, {"rating": 6}, {"rating": "five"}} {
		w, _ = suite.do(http.MethodPut, path, body, owner)
		suite.Equal(http.StatusBadRequest, w.Code, "%v", body)
	}

	w, resp = suite.do(http.MethodPut, "/api/reviews/9999", map[string]interface{}{"rating": 3}, owner)
	suite.Equal(http.StatusNotFound, w.Code)

	w, resp = suite.do(http.MethodPost, "/api/reviews", map[string]interface{}{"fragrance_id": 9999, "rating": 3}, owner)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", resp.Error.Code)
}

func (suite *RouterTestSuite) TestUpdatePrice() {
	token := suite.signup("pricer")
	testutil.Insert(suite.T(), suite.store, testutil.Fixture{Name: "Priced", Prices: []float64{50}})

	var price models.Price
	suite.Require().NoError(suite.store.DB().First(&price).Error)
	path := fmt.Sprintf("/api/prices/%d", price.ID)

	for _, amount := range []float64{0, -1} {
		w, _ := suite.do(http.MethodPut, path, map[string]interface{}{"amount": amount}, token)
		suite.Equal(http.StatusBadRequest, w.Code)
	}

	w, resp := suite.do(http.MethodPut, path, map[string]interface{}{"amount": 42.5}, token)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(string(resp.Data), `"amount":42.5`)

	w, _ = suite.do(http.MethodPut, "/api/prices/9999", map[string]interface{}{"amount": 5}, token)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *RouterTestSuite) TestDeleteFragrance() {
	token := suite.signup("deleter")
	id := testutil.Insert(suite.T(), suite.store, testutil.Fixture{
		Name: "Gone", Notes: []string{"Rose"}, Prices: []float64{30}, Ratings: []int{2},
	})
	path := fmt.Sprintf("/api/fragrances/%d", id)

	w, _ := suite.do(http.MethodDelete, path, nil, token)
	suite.Require().Equal(http.StatusOK, w.Code)

	w, _ = suite.do(http.MethodGet, path, nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	w, _ = suite.do(http.MethodDelete, path, nil, token)
	suite.Equal(http.StatusNotFound, w.Code)

	for _, table := range []string{"fragrances", "reviews", "prices", "details", "fragrance_notes"} {
		suite.Equal(int64(0), testutil.Count(suite.T(), suite.store, table), table)
	}
}

func (suite *RouterTestSuite) TestNotes() {
	w, resp := suite.do(http.MethodGet, "/api/notes", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	var notes []struct {
		Name string `json:"note_name"`
		Type string `json:"type"`
	}
	suite.Require().NoError(json.Unmarshal(resp.Data, &notes))
	suite.Len(notes, 14)
	suite.Equal("Base", notes[0].Type)
}

func (suite *RouterTestSuite) TestHealthAndMetrics() {
	w, _ := suite.do(http.MethodGet, "/health", nil, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"healthy","degraded":false}`, w.Body.String())

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Contains(rec.Body.String(), "fragrance_catalog_http_requests_total")
}

func (suite *RouterTestSuite) TestAuditLogRecorded() {
	token := suite.signup("auditor")
	id := suite.createFragrance(token, map[string]interface{}{"name": "Logged"})

	var logs []models.AuditLog
	suite.Require().NoError(suite.store.DB().Where("resource_type = ?", "fragrances").Find(&logs).Error)
	suite.Require().Len(logs, 1)
	suite.Equal(id, *logs[0].ResourceID)
	suite.NotNil(logs[0].UserID)

	var signup models.AuditLog
	suite.Require().NoError(suite.store.DB().Where("resource_type = ?", "signup").First(&signup).Error)
	suite.Equal("[REDACTED]", signup.NewValues["password"])
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func TestDegradedStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := Initialize(testutil.NewDegradedStore(t), testConfig())

	for _, path := range []string{"/api/fragrances", "/api/notes", "/api/fragrances/1"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusServiceUnavailable || !bytes.Contains(rec.Body.Bytes(), []byte("STORE_UNAVAILABLE")) {
			t.Errorf("%s: got %d %s", path, rec.Code, rec.Body.String())
		}
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("health: got %d", rec.Code)
	}
}

func TestReadsCanRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.Catalog.RequireAuthForReads = true
	r := Initialize(testutil.NewStore(t), cfg)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fragrances", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("list without token: got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("notes stay public: got %d", rec.Code)
	}
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
