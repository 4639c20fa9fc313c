package database

import (
	"errors"
	"strings"
	"time"

	"asvs-dashboard/internal/apperr"
	"asvs-dashboard/internal/models"

	"gorm.io/gorm"
)

// MinSearchQueryLen — короче этого запрос не ищем (state "insufficient-input").
const MinSearchQueryLen = 2

// SearchLimit — потолок выдачи быстрого поиска.
const SearchLimit = 10

// RequirementTemplate — заготовка требования из админки:
// текст плюс классификация, без статуса и заметок.
type RequirementTemplate struct {
	VerificationRequirement string
	ASVSLevel               string
	SectionCode             string
	Area                    string
	NIST                    string
	CWE                     string
}

// SearchResult — строка выдачи быстрого поиска с данными раздела
// для перехода по ссылке.
type SearchResult struct {
	ID                      string `json:"id"`
	VerificationRequirement string `json:"verification_requirement"`
	SectionCode             string `json:"section_code"`
	CWE                     string `json:"cwe"`
	SectionID               string `json:"section_id"`
	SectionName             string `json:"section_name"`
	SectionSlug             string `json:"section_slug"`
}

// поля, которые можно менять через UpdateRequirementField;
// имя поля формы -> колонка
var updatableFields = map[string]string{
	"status":                "status",
	"comment":               "comment",
	"tool_used":             "tool_used",
	"source_code_reference": "source_code_reference",
}

func ListSections() ([]models.Section, error) {
	var sections []models.Section
	if err := DB.Order("order_index asc").Find(&sections).Error; err != nil {
		return nil, apperr.TransientIO(err)
	}
	return sections, nil
}

func SectionBySlug(slug string) (models.Section, error) {
	var section models.Section
	err := DB.Where("slug = ?", slug).First(&section).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return section, apperr.NotFoundf("section %q", slug)
	}
	if err != nil {
		return section, apperr.TransientIO(err)
	}
	return section, nil
}

func SectionByID(id string) (models.Section, error) {
	var section models.Section
	err := DB.First(&section, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return section, apperr.NotFoundf("section %s", id)
	}
	if err != nil {
		return section, apperr.TransientIO(err)
	}
	return section, nil
}

// ListRequirements — требования пары (раздел, пользователь) в порядке создания.
func ListRequirements(sectionID string, userID uint) ([]models.Requirement, error) {
	var reqs []models.Requirement
	err := DB.
		Where("section_id = ? AND user_id = ?", sectionID, userID).
		Order("created_at asc, id asc").
		Find(&reqs).Error
	if err != nil {
		return nil, apperr.TransientIO(err)
	}
	return reqs, nil
}

// ListAllRequirements — все требования пользователя, для пересчёта статистики.
func ListAllRequirements(userID uint) ([]models.Requirement, error) {
	var reqs []models.Requirement
	err := DB.
		Where("user_id = ?", userID).
		Order("created_at asc, id asc").
		Find(&reqs).Error
	if err != nil {
		return nil, apperr.TransientIO(err)
	}
	return reqs, nil
}

// ReplaceRequirements целиком заменяет набор требований пары
// (раздел, пользователь) на переданные шаблоны, каждый со статусом
// Unanswered. Это не merge: удаление и вставка идут одной транзакцией,
// частично смешанного состояния не бывает.
func ReplaceRequirements(sectionID string, userID uint, templates []RequirementTemplate) error {
	if sectionID == "" {
		return apperr.Validationf("section id is empty")
	}

	var count int64
	if err := DB.Model(&models.Section{}).Where("id = ?", sectionID).Count(&count).Error; err != nil {
		return apperr.TransientIO(err)
	}
	if count == 0 {
		return apperr.Validationf("section %s does not exist", sectionID)
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("section_id = ? AND user_id = ?", sectionID, userID).
			Delete(&models.Requirement{}).Error; err != nil {
			return err
		}

		now := time.Now()
		for i, t := range templates {
			req := models.Requirement{
				SectionID:               sectionID,
				UserID:                  userID,
				VerificationRequirement: t.VerificationRequirement,
				Status:                  models.StatusUnanswered,
				ASVSLevel:               t.ASVSLevel,
				SectionCode:             t.SectionCode,
				Area:                    t.Area,
				NIST:                    t.NIST,
				CWE:                     t.CWE,
				// порядок задаётся временем создания; шаг в микросекунду,
				// чтобы порядок шаблонов пережил вставку в одной транзакции
				CreatedAt: now.Add(time.Duration(i) * time.Microsecond),
			}
			if err := tx.Create(&req).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.TransientIO(err)
	}
	return nil
}

// UpdateRequirementField меняет ровно одно поле требования, принадлежащего
// userID, и освежает updated_at. Повтор с тем же значением — семантический
// no-op, но updated_at обновляется и в этом случае (один UPDATE, без
// предварительного чтения). Чужая или несуществующая запись — ErrNotFound:
// владение проверяется на границе мутации.
func UpdateRequirementField(id string, userID uint, field, value string) (time.Time, error) {
	column, ok := updatableFields[field]
	if !ok {
		return time.Time{}, apperr.Validationf("unknown field %q", field)
	}
	if field == "status" && !models.KnownStatus(value) {
		return time.Time{}, apperr.Validationf("unknown status %q", value)
	}

	now := time.Now()
	res := DB.Model(&models.Requirement{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{column: value, "updated_at": now})
	if res.Error != nil {
		return time.Time{}, apperr.TransientIO(res.Error)
	}
	if res.RowsAffected == 0 {
		return time.Time{}, apperr.NotFoundf("requirement %s for user %d", id, userID)
	}
	return now, nil
}

// SearchRequirements — быстрый поиск по всем разделам пользователя:
// подстрока без учёта регистра в тексте требования, коде раздела или CWE.
// Запрос короче MinSearchQueryLen — это не ошибка, а "мало ввода":
// второй результат false. Выдача в порядке создания, не больше SearchLimit.
func SearchRequirements(userID uint, query string) ([]SearchResult, bool, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchQueryLen {
		return nil, false, nil
	}

	like := "%" + strings.ToLower(query) + "%"
	var results []SearchResult
	err := DB.Model(&models.Requirement{}).
		Select(`requirements.id, requirements.verification_requirement,
			requirements.section_code, requirements.cwe, requirements.section_id,
			sections.name as section_name, sections.slug as section_slug`).
		Joins("JOIN sections ON sections.id = requirements.section_id").
		Where("requirements.user_id = ?", userID).
		Where(`LOWER(requirements.verification_requirement) LIKE ?
			OR LOWER(requirements.section_code) LIKE ?
			OR LOWER(requirements.cwe) LIKE ?`, like, like, like).
		Order("requirements.created_at asc, requirements.id asc").
		Limit(SearchLimit).
		Scan(&results).Error
	if err != nil {
		return nil, true, apperr.TransientIO(err)
	}
	return results, true, nil
}
