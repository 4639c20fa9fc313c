package handlers

import (
	"errors"
	"log"
	"net/http"

	"asvs-dashboard/internal/apperr"
	"asvs-dashboard/internal/database"
	"asvs-dashboard/internal/stats"

	"github.com/gin-gonic/gin"
)

// шкала уровней ASVS из конфига; задаётся один раз при сборке роутера
var levelLadder []stats.LevelThreshold

func SetLevelLadder(ladder []stats.LevelThreshold) {
	levelLadder = ladder
}

// loadStats — статистика пользователя: разделы + все его требования,
// пересчёт с нуля при каждом запросе.
func loadStats(userID uint) ([]stats.SectionStat, stats.OverallStat, error) {
	sections, err := database.ListSections()
	if err != nil {
		return nil, stats.OverallStat{}, err
	}
	reqs, err := database.ListAllRequirements(userID)
	if err != nil {
		return nil, stats.OverallStat{}, err
	}
	return stats.Compute(sections, reqs, levelLadder)
}

func IndexPage(c *gin.Context) {
	uid := currentUserID(c)
	if uid == 0 {
		render(c, http.StatusOK, "index.html", gin.H{"isAuthed": false})
		return
	}

	sectionStats, overall, err := loadStats(uid)
	if err != nil && !errors.Is(err, apperr.ErrInvariant) {
		// не показываем нули как "нулевое соответствие" — данные недоступны
		log.Printf("failed to load stats for user %d: %v", uid, err)
		render(c, http.StatusOK, "dashboard.html", gin.H{
			"DataUnavailable": true,
		})
		return
	}
	if err != nil {
		// висячие ссылки: затронутые разделы помечены unavailable,
		// остальной дашборд живёт
		log.Printf("integrity fault in stats for user %d: %v", uid, err)
	}

	render(c, http.StatusOK, "dashboard.html", gin.H{
		"SectionStats":   sectionStats,
		"Overall":        overall,
		"IntegrityFault": err != nil,
	})
}
