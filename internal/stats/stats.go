// Package stats — чистый пересчёт статистики соответствия по текущему
// набору требований. Никакого состояния: на входе разделы и требования,
// на выходе проценты по разделам и итог.
package stats

import (
	"sort"
	"strings"

	"asvs-dashboard/internal/apperr"
	"asvs-dashboard/internal/models"
)

type SectionStat struct {
	SectionID  string  `json:"section_id"`
	Name       string  `json:"section_name"`
	Slug       string  `json:"section_slug"`
	OrderIndex int     `json:"order_index"`
	ValidCount int     `json:"valid_count"`
	TotalCount int     `json:"total_count"`
	// не округляется: форматирование — дело шаблона
	ValidityPercentage float64 `json:"validity_percentage"`
	// раздел ещё не оценивался (нет ни одного требования) —
	// не путать с "оценён и провален"
	Unassessed bool `json:"unassessed"`
	// статистика не посчитана из-за нарушения целостности
	Unavailable bool `json:"unavailable"`
}

type OverallStat struct {
	ValidSum                  int     `json:"valid_sum"`
	TotalSum                  int     `json:"total_sum"`
	OverallValidityPercentage float64 `json:"overall_validity_percentage"`
	ASVSLevelAcquired         string  `json:"asvs_level_acquired"`
}

// LevelThreshold — ступень шкалы уровней: метка и минимальный процент.
type LevelThreshold struct {
	Label      string
	MinPercent float64
}

// Percentage — доля valid от total в процентах; деление на ноль даёт 0.
func Percentage(valid, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(valid) / float64(total)
}

// AcquireLevel возвращает старшую метку шкалы, чей порог достигнут.
// Шкала должна быть отсортирована по возрастанию порога (это гарантирует
// config), тогда результат монотонен по pct.
func AcquireLevel(pct float64, ladder []LevelThreshold) string {
	level := ""
	for _, t := range ladder {
		if pct >= t.MinPercent {
			level = t.Label
		}
	}
	return level
}

// Compute группирует требования по разделам и считает статистику.
//
// Требование, ссылающееся на неизвестный раздел, — нарушение целостности:
// такая группа попадает в результат с флагом Unavailable, исключается из
// итоговых сумм, а Compute возвращает ErrInvariant. Остальные разделы при
// этом посчитаны полностью — ошибка не валит весь дашборд.
func Compute(sections []models.Section, reqs []models.Requirement, ladder []LevelThreshold) ([]SectionStat, OverallStat, error) {
	known := make(map[string]models.Section, len(sections))
	for _, s := range sections {
		known[s.ID] = s
	}

	type counts struct{ valid, total int }
	bySection := make(map[string]*counts)
	var dangling []string

	for _, r := range reqs {
		c := bySection[r.SectionID]
		if c == nil {
			c = &counts{}
			bySection[r.SectionID] = c
			if _, ok := known[r.SectionID]; !ok {
				dangling = append(dangling, r.SectionID)
			}
		}
		c.total++
		if r.Status == models.StatusValid {
			c.valid++
		}
	}

	out := make([]SectionStat, 0, len(sections)+len(dangling))
	var overall OverallStat

	for _, s := range sections {
		st := SectionStat{
			SectionID:  s.ID,
			Name:       s.Name,
			Slug:       s.Slug,
			OrderIndex: s.OrderIndex,
		}
		if c := bySection[s.ID]; c != nil {
			st.ValidCount = c.valid
			st.TotalCount = c.total
		}
		st.ValidityPercentage = Percentage(st.ValidCount, st.TotalCount)
		st.Unassessed = st.TotalCount == 0
		overall.ValidSum += st.ValidCount
		overall.TotalSum += st.TotalCount
		out = append(out, st)
	}

	// висячие группы показываем как недоступные, в суммы не включаем
	for _, id := range dangling {
		out = append(out, SectionStat{SectionID: id, Unavailable: true, Unassessed: true})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })

	overall.OverallValidityPercentage = Percentage(overall.ValidSum, overall.TotalSum)
	overall.ASVSLevelAcquired = AcquireLevel(overall.OverallValidityPercentage, ladder)

	var err error
	if len(dangling) > 0 {
		err = apperr.Invariantf("requirements reference unknown sections: %s", strings.Join(dangling, ", "))
	}
	return out, overall, err
}
