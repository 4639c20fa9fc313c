package handlers

import (
	"errors"
	"net/http"

	"asvs-dashboard/internal/apperr"
	"asvs-dashboard/internal/database"
	"asvs-dashboard/internal/models"
	"asvs-dashboard/internal/search"

	"github.com/gin-gonic/gin"
)

// ShowSection — страница раздела: требования пары (раздел, пользователь)
// в порядке создания. Параметр q — локальный фильтр по тексту и
// комментарию, считается заново на каждый ввод по уже загруженному списку.
func ShowSection(c *gin.Context) {
	uid := currentUserID(c)
	slug := c.Param("slug")

	section, err := database.SectionBySlug(slug)
	if errors.Is(err, apperr.ErrNotFound) {
		c.String(http.StatusNotFound, "Раздел не найден")
		return
	}
	if err != nil {
		c.String(http.StatusServiceUnavailable, "Данные временно недоступны")
		return
	}

	reqs, err := database.ListRequirements(section.ID, uid)
	if err != nil {
		c.String(http.StatusServiceUnavailable, "Данные временно недоступны")
		return
	}

	q := c.Query("q")
	filtered := search.Filter(reqs, q)

	render(c, http.StatusOK, "section.html", gin.H{
		"section":  section,
		"reqs":     filtered,
		"total":    len(reqs),
		"q":        q,
		"statuses": []models.RequirementStatus{
			models.StatusValid,
			models.StatusNonValid,
			models.StatusNotApplicable,
			models.StatusUnanswered,
		},
	})
}
