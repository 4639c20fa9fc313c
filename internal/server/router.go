package server

import (
	"fmt"
	"html/template"
	"net/http"

	"asvs-dashboard/internal/config"
	"asvs-dashboard/internal/handlers"
	"asvs-dashboard/internal/middleware"
	"asvs-dashboard/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.Default()

	handlers.SetLevelLadder(cfg.Levels)

	r.Static("/static", "./web/static")

	r.SetFuncMap(template.FuncMap{
		"eq": func(a, b interface{}) bool { return a == b },
		// округление процентов — дело шаблона, движок отдаёт сырое значение
		"pct": func(p float64) string { return fmt.Sprintf("%.1f", p) },
	})
	r.LoadHTMLGlob("web/templates/*.html")

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("asvs_session", store))

	r.Use(middleware.InjectUser())

	// ГЛАВНАЯ (дашборд соответствия)
	r.GET("/", handlers.IndexPage)

	// AUTH
	r.GET("/register", handlers.ShowRegister)
	r.POST("/register", handlers.Register)
	r.GET("/login", handlers.ShowLogin)
	r.POST("/login", handlers.Login)
	r.GET("/logout", handlers.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	// РАЗДЕЛЫ ЧЕК-ЛИСТА
	auth.GET("/section/:slug", handlers.ShowSection)

	// РЕЗУЛЬТАТЫ И ЭКСПОРТ
	auth.GET("/results", handlers.ResultsPage)
	auth.GET("/results/export", handlers.ExportResults)

	// конструктор чек-листа — только админ
	auth.GET("/admin",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ShowAdmin,
	)
	auth.POST("/admin/requirements",
		middleware.RequireRole(models.RoleAdmin),
		handlers.SaveRequirements,
	)

	// АУДИТ
	auth.GET("/audit",
		middleware.RequireRole(models.RoleAdmin),
		handlers.ListAuditLogs,
	)

	// ====== JSON API ДЛЯ СТРАНИЦ ======
	auth.GET("/api/search", handlers.QuickSearch)
	auth.POST("/api/requirements/:id/field", handlers.UpdateRequirementField)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
