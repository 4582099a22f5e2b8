package handlers

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
}

type RouterConfig struct {
	SecureCookies bool
}

func NewRouter(cfg RouterConfig, ordersHandler *OrdersHandler, apiHandler *APIHandler) (*gin.Engine, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(RequestLogger(), gin.Recovery(), VisitorID(cfg.SecureCookies))
	router.SetHTMLTemplate(tmpl)

	router.GET("/", ordersHandler.Home)

	// Orders page
	router.GET("/orders", ordersHandler.Page)
	router.POST("/orders/fetch", ordersHandler.StartFetch)
	router.POST("/orders/clear", ordersHandler.ClearPage)

	// API endpoints
	api := router.Group("/api")
	{
		api.GET("/orders", ordersHandler.Snapshot)
		api.POST("/orders/fetch", ordersHandler.Fetch)
		api.POST("/orders/clear", ordersHandler.Clear)

		api.PUT("/session", apiHandler.StoreSession)
		api.DELETE("/session", apiHandler.DeleteSession)

		api.GET("/fetch-logs", apiHandler.FetchLogs)
	}

	return router, nil
}
