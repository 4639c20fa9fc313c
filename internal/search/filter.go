// Package search — фильтрация списка требований на странице раздела и
// debounce быстрого поиска (побеждает последний ввод).
package search

import (
	"strings"

	"asvs-dashboard/internal/models"
)

// Filter — синхронный фильтр по уже загруженному списку требований:
// подстрока без учёта регистра в тексте требования или в комментарии.
// Пустой запрос возвращает список как есть.
func Filter(reqs []models.Requirement, query string) []models.Requirement {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return reqs
	}

	out := make([]models.Requirement, 0, len(reqs))
	for _, r := range reqs {
		if strings.Contains(strings.ToLower(r.VerificationRequirement), q) ||
			strings.Contains(strings.ToLower(r.Comment), q) {
			out = append(out, r)
		}
	}
	return out
}
