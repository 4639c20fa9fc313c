package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"asvs-dashboard/internal/database"
	"asvs-dashboard/internal/search"

	"github.com/gin-gonic/gin"
)

// по Runner на пользователя: поколения поиска не должны пересекаться
// между сессиями
var (
	runnersMu sync.Mutex
	runners   = map[uint]*search.Runner{}
)

func runnerFor(userID uint) *search.Runner {
	runnersMu.Lock()
	defer runnersMu.Unlock()
	r := runners[userID]
	if r == nil {
		r = search.NewRunner(search.DefaultDebounce)
		runners[userID] = r
	}
	return r
}

// QuickSearch — глобальный поиск из шапки. Запрос короче двух символов —
// состояние "insufficient-input", не ошибка и не пустая выдача. Остальные
// запросы идут через debounce: выполняется только последний, результат
// вытесненного помечается superseded и клиентом игнорируется.
func QuickSearch(c *gin.Context) {
	uid := currentUserID(c)
	q := strings.TrimSpace(c.Query("q"))

	if len([]rune(q)) < database.MinSearchQueryLen {
		c.JSON(http.StatusOK, gin.H{"state": "insufficient-input", "results": []database.SearchResult{}})
		return
	}

	var results []database.SearchResult
	err := runnerFor(uid).Run(c.Request.Context(), func() error {
		var err error
		results, _, err = database.SearchRequirements(uid, q)
		return err
	})
	if errors.Is(err, search.ErrSuperseded) {
		c.JSON(http.StatusOK, gin.H{"state": "superseded"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"state": "error"})
		return
	}
	if results == nil {
		results = []database.SearchResult{}
	}

	c.JSON(http.StatusOK, gin.H{"state": "ok", "results": results})
}
