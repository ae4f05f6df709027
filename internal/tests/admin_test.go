package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/commodity-admin/internal/catalog"
	"github.com/javajoker/commodity-admin/internal/config"
	"github.com/javajoker/commodity-admin/internal/i18n"
	"github.com/javajoker/commodity-admin/internal/router"
	"github.com/javajoker/commodity-admin/internal/services"
	"github.com/javajoker/commodity-admin/internal/utils"
)

const (
	upstreamCookie = "connect.sid"
	upstreamToken  = "upstream-session-1"
	adminPassword  = "s3cret"
)

// fakeCatalog is a minimal catalog service.
type fakeCatalog struct {
	mu            sync.Mutex
	seenTokens    []string
	uploadedNames []string
	logouts       int
}

func (f *fakeCatalog) token(r *http.Request) string {
	if c, err := r.Cookie(upstreamCookie); err == nil {
		return c.Value
	}
	return ""
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.seenTokens = append(f.seenTokens, f.token(r))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/adminlogin":
		var creds catalog.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != adminPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":"Invalid credentials"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: upstreamCookie, Value: upstreamToken})
		_, _ = io.WriteString(w, `{"success":true}`)
	case "/adminlogout":
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{}`)
	case "/getCommodities":
		_, _ = io.WriteString(w, `{"commodities":[{"_id":"p1","name":"Linen Shirt","slug":"linen-shirt","variants":[]}],
			"pagination":{"totalCommodities":1,"totalPages":1,"currentPage":1}}`)
	case "/apiCat1":
		_, _ = io.WriteString(w, `[{"_id":"men","label":"Men"}]`)
	case "/apiCat2", "/apiCat3", "/getBrands":
		_, _ = io.WriteString(w, `[]`)
	case "/upload-csv":
		_, header, err := r.FormFile(catalog.CSVFormField)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"missing file"}`)
			return
		}
		f.mu.Lock()
		f.uploadedNames = append(f.uploadedNames, header.Filename)
		f.mu.Unlock()
		_, _ = io.WriteString(w, `{"inserted":3}`)
	case "/api/ping":
		_, _ = io.WriteString(w, `{"pong":true}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":"not found"}`)
	}
}

type AdminTestSuite struct {
	suite.Suite
	catalog    *fakeCatalog
	server     *httptest.Server
	cfg        *config.Config
	workspaces *services.WorkspaceStore
	router     *gin.Engine
}

func (suite *AdminTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-session-secret")
	require.NoError(suite.T(), i18n.Initialize("en"))
}

func (suite *AdminTestSuite) SetupTest() {
	suite.catalog = &fakeCatalog{}
	suite.server = httptest.NewServer(suite.catalog)

	suite.cfg = &config.Config{
		Environment: "test",
		Catalog: config.CatalogConfig{
			BaseURL:       suite.server.URL,
			Origin:        suite.server.URL,
			SessionCookie: upstreamCookie,
			Timeout:       5 * time.Second,
		},
		Session: config.SessionConfig{
			CookieName:  "auth-token",
			TTLHours:    1,
			PublicPaths: []string{"/login"},
			LoginPath:   "/login",
			HomePath:    "/",
		},
		Upload:   config.UploadConfig{MaxBytes: 1 << 20, StatusTTL: time.Minute},
		Frontend: config.FrontendConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		I18n:     config.I18nConfig{DefaultLocale: "en"},
	}

	client := catalog.New(suite.cfg.Catalog)
	cache := services.NewMemoryReferenceCache(time.Minute)
	brands := services.NewBrandService(cache)
	suite.workspaces = services.NewWorkspaceStore(
		func(token string) services.CatalogAPI { return client.WithSession(token) },
		services.NewCategoryService(cache),
		brands,
		nil,
		services.WorkspaceOptions{
			IdleTTL:         time.Hour,
			UploadMaxBytes:  suite.cfg.Upload.MaxBytes,
			UploadStatusTTL: suite.cfg.Upload.StatusTTL,
		},
	)

	suite.router = router.Initialize(suite.cfg, router.Dependencies{
		Workspaces: suite.workspaces,
		Brands:     brands,
		Auth: services.NewAuthService(
			func(token string) services.SessionAPI { return client.WithSession(token) },
			suite.workspaces,
			suite.cfg.Session,
		),
	})
}

func (suite *AdminTestSuite) TearDownTest() {
	suite.server.Close()
}

func (suite *AdminTestSuite) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AdminTestSuite) login() *http.Cookie {
	body, _ := json.Marshal(map[string]string{"email": "Admin@Example.com", "password": adminPassword})
	req, _ := http.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := suite.do(req, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	for _, c := range w.Result().Cookies() {
		if c.Name == suite.cfg.Session.CookieName && c.Value != "" {
			return c
		}
	}
	suite.T().Fatal("login did not set the session cookie")
	return nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *AdminTestSuite) TestLoginSetsSessionCookie() {
	cookie := suite.login()

	assert.True(suite.T(), cookie.HttpOnly)
	upstream, email := services.ResolveSession(cookie.Value)
	assert.Equal(suite.T(), upstreamToken, upstream)
	assert.Equal(suite.T(), "admin@example.com", email)
}

func (suite *AdminTestSuite) TestLoginRejectsBadPassword() {
	body, _ := json.Marshal(map[string]string{"email": "admin@example.com", "password": "wrong"})
	req, _ := http.NewRequest(http.MethodPost, "/v1/auth/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := suite.do(req, nil)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.False(suite.T(), decode(suite.T(), w)["success"].(bool))
}

func (suite *AdminTestSuite) TestLoginFormPostRedirects() {
	form := url.Values{"email": {"admin@example.com"}, "password": {"wrong"}}
	req, _ := http.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := suite.do(req, nil)

	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.True(suite.T(), strings.HasPrefix(w.Header().Get("Location"), "/login?error="))
}

func (suite *AdminTestSuite) TestPagesAreGated() {
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	w := suite.do(req, nil)
	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/login", w.Header().Get("Location"))

	cookie := suite.login()

	req, _ = http.NewRequest(http.MethodGet, "/login", nil)
	w = suite.do(req, cookie)
	assert.Equal(suite.T(), http.StatusFound, w.Code)
	assert.Equal(suite.T(), "/", w.Header().Get("Location"))

	req, _ = http.NewRequest(http.MethodGet, "/product/linen-shirt", nil)
	w = suite.do(req, cookie)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `data-slug="linen-shirt"`)
}

func (suite *AdminTestSuite) TestLoginPageShowsError() {
	req, _ := http.NewRequest(http.MethodGet, "/login?error=Invalid+credentials", nil)
	w := suite.do(req, nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "Invalid credentials")
}

func (suite *AdminTestSuite) TestAPIRequiresSession() {
	req, _ := http.NewRequest(http.MethodGet, "/v1/products", nil)
	w := suite.do(req, nil)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *AdminTestSuite) TestProductsForwardUpstreamSession() {
	cookie := suite.login()

	req, _ := http.NewRequest(http.MethodGet, "/v1/products", nil)
	w := suite.do(req, cookie)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	data := decode(suite.T(), w)["data"].(map[string]interface{})
	rows := data["rows"].([]interface{})
	require.Len(suite.T(), rows, 1)
	assert.Equal(suite.T(), "Linen Shirt", rows[0].(map[string]interface{})["name"])
	assert.Contains(suite.T(), rows[0].(map[string]interface{}), "image")
	assert.Equal(suite.T(), false, data["show_spinner"])

	suite.catalog.mu.Lock()
	defer suite.catalog.mu.Unlock()
	assert.Equal(suite.T(), upstreamToken, suite.catalog.seenTokens[len(suite.catalog.seenTokens)-1])
}

func (suite *AdminTestSuite) TestBulkUploadFlow() {
	cookie := suite.login()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(catalog.CSVFormField, "products.csv")
	require.NoError(suite.T(), err)
	_, _ = part.Write([]byte("name,price\nShirt,10\n"))
	require.NoError(suite.T(), mw.WriteField("source", "drop"))
	require.NoError(suite.T(), mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/v1/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := suite.do(req, cookie)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	req, _ = http.NewRequest(http.MethodPost, "/v1/uploads/submit", nil)
	w = suite.do(req, cookie)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	data := decode(suite.T(), w)["data"].(map[string]interface{})
	assert.Equal(suite.T(), "Uploaded! Inserted 3 rows", data["status"].(map[string]interface{})["message"])

	suite.catalog.mu.Lock()
	defer suite.catalog.mu.Unlock()
	assert.Equal(suite.T(), []string{"products.csv"}, suite.catalog.uploadedNames)
}

func (suite *AdminTestSuite) TestUploadRejectsNonCSV() {
	cookie := suite.login()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile(catalog.CSVFormField, "photo.png")
	_, _ = part.Write([]byte{0x89, 'P', 'N', 'G'})
	require.NoError(suite.T(), mw.Close())

	req, _ := http.NewRequest(http.MethodPost, "/v1/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := suite.do(req, cookie)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	details := decode(suite.T(), w)["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(suite.T(), "Error: Only .csv files are allowed.", details["message"])
}

func (suite *AdminTestSuite) TestLogoutDropsWorkspace() {
	cookie := suite.login()

	req, _ := http.NewRequest(http.MethodGet, "/v1/view", nil)
	require.Equal(suite.T(), http.StatusOK, suite.do(req, cookie).Code)
	assert.Equal(suite.T(), 1, suite.workspaces.Len())

	req, _ = http.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	w := suite.do(req, cookie)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())

	assert.Equal(suite.T(), 0, suite.workspaces.Len())
	suite.catalog.mu.Lock()
	assert.Equal(suite.T(), 1, suite.catalog.logouts)
	suite.catalog.mu.Unlock()

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == suite.cfg.Session.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(suite.T(), cleared)
}

func (suite *AdminTestSuite) TestCatalogProxy() {
	req, _ := http.NewRequest(http.MethodGet, "/api/ping", nil)
	w := suite.do(req, nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.JSONEq(suite.T(), `{"pong":true}`, w.Body.String())
}

func (suite *AdminTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := suite.do(req, nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "healthy", decode(suite.T(), w)["status"])
}

func TestAdminTestSuite(t *testing.T) {
	suite.Run(t, new(AdminTestSuite))
}
