package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"asvs-dashboard/internal/apperr"
	"asvs-dashboard/internal/database"
	"asvs-dashboard/internal/session"

	"github.com/gin-gonic/gin"
)

// трекеры сохранений по пользователям; состояние живёт в процессе,
// а не в сессионной куке — флаг "поле сейчас сохраняется" нужен серверу
var (
	trackersMu sync.Mutex
	trackers   = map[uint]*session.SaveTracker{}
)

func trackerFor(userID uint) *session.SaveTracker {
	trackersMu.Lock()
	defer trackersMu.Unlock()
	t := trackers[userID]
	if t == nil {
		t = session.NewSaveTracker()
		trackers[userID] = t
	}
	return t
}

// UpdateRequirementField — отложенное сохранение одного поля требования
// (статус, комментарий, инструмент, ссылка на код). Пока сохранение поля
// в полёте, повторное не принимается: медленный ранний запрос не
// перезапишет поздний ввод. При сбое хранилища поле остаётся грязным и
// сохраняется повторно тем же запросом.
func UpdateRequirementField(c *gin.Context) {
	uid := currentUserID(c)
	id := c.Param("id")
	field := strings.TrimSpace(c.PostForm("field"))
	value := c.PostForm("value")

	tracker := trackerFor(uid)
	if !tracker.Begin(id, field) {
		c.JSON(http.StatusConflict, gin.H{
			"state": "saving",
			"error": "предыдущее сохранение поля ещё не завершено",
		})
		return
	}

	updatedAt, err := database.UpdateRequirementField(id, uid, field, value)
	switch {
	case errors.Is(err, apperr.ErrValidation):
		tracker.Fail(id, field)
		c.JSON(http.StatusBadRequest, gin.H{"state": "error", "error": "Недопустимое поле или значение"})
	case errors.Is(err, apperr.ErrNotFound):
		tracker.Fail(id, field)
		c.JSON(http.StatusNotFound, gin.H{"state": "error", "error": "Требование не найдено"})
	case err != nil:
		// хранилище недоступно: изменение не потеряно, поле помечено
		// несохранённым, можно повторить
		tracker.Fail(id, field)
		c.JSON(http.StatusServiceUnavailable, gin.H{"state": "dirty", "error": "Не удалось сохранить, попробуйте ещё раз"})
	default:
		tracker.Succeed(id, field)
		database.CreateAuditLog(uid, "requirement", id, "field_update", "Обновлено поле "+field)
		c.JSON(http.StatusOK, gin.H{"state": "saved", "updated_at": updatedAt})
	}
}
