package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"asvs-dashboard/internal/apperr"

	"github.com/gin-gonic/gin"
)

// ResultsPage — сводная таблица по разделам плюс итог.
func ResultsPage(c *gin.Context) {
	uid := currentUserID(c)

	sectionStats, overall, err := loadStats(uid)
	if err != nil && !errors.Is(err, apperr.ErrInvariant) {
		log.Printf("failed to load results for user %d: %v", uid, err)
		render(c, http.StatusOK, "results.html", gin.H{
			"DataUnavailable": true,
		})
		return
	}
	if err != nil {
		log.Printf("integrity fault in results for user %d: %v", uid, err)
	}

	render(c, http.StatusOK, "results.html", gin.H{
		"SectionStats":   sectionStats,
		"Overall":        overall,
		"IntegrityFault": err != nil,
	})
}

// ExportResults отдаёт срез статистики как JSON-документ — единственная
// поверхность данных для внешнего генератора PDF. Сам рендеринг отчёта
// живёт вне приложения.
func ExportResults(c *gin.Context) {
	uid := currentUserID(c)

	sectionStats, overall, err := loadStats(uid)
	if err != nil && !errors.Is(err, apperr.ErrInvariant) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"generated_at":  time.Now().UTC(),
		"section_stats": sectionStats,
		"overall_stats": overall,
	})
}
