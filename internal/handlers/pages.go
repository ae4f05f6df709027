// internal/handlers/pages.go
package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/commodity-admin/internal/models"
	"github.com/javajoker/commodity-admin/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = map[string]*template.Template{
	"login":     mustPage("login.html"),
	"dashboard": mustPage("dashboard.html"),
	"product":   mustPage("product.html"),
}

func mustPage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

type pageData struct {
	Title string
	Lang  string
	Email string
	Error string
	Tab   models.Tab
	Slug  string
	Menu  []models.MenuItem
}

// PageHandler renders the HTML shells behind the session gate.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func renderPage(c *gin.Context, name string, data pageData) {
	data.Lang = utils.GetLangFromContext(c)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := pageTemplates[name].ExecuteTemplate(c.Writer, name+".html", data); err != nil {
		logrus.WithError(err).WithField("page", name).Error("Failed to render page")
	}
}

// GET /login
func (h *PageHandler) Login(c *gin.Context) {
	renderPage(c, "login", pageData{
		Title: "Admin Login",
		Error: c.Query("error"),
	})
}

// GET /
func (h *PageHandler) Dashboard(c *gin.Context) {
	tab := models.Tab(c.Query("tab"))
	if !tab.Valid() {
		tab = models.DefaultViewState().Tab
	}
	renderPage(c, "dashboard", pageData{
		Title: "Commodity Admin",
		Email: utils.GetAdminEmailFromContext(c),
		Tab:   tab,
		Menu:  models.SidebarMenu,
	})
}

// GET /product/:slug
func (h *PageHandler) Product(c *gin.Context) {
	slug := c.Param("slug")
	renderPage(c, "product", pageData{
		Title: slug,
		Email: utils.GetAdminEmailFromContext(c),
		Slug:  slug,
	})
}
