package database

import (
	"fmt"
	"testing"
	"time"

	"asvs-dashboard/internal/apperr"
	"asvs-dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	userOne uint = 1
	userTwo uint = 2
)

func setupTestDB(t *testing.T) models.Section {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Section{},
		&models.Requirement{},
		&models.AuditLog{},
	))

	old := DB
	DB = db
	t.Cleanup(func() { DB = old })

	section := models.Section{Name: "Authentication", Slug: "authentication", OrderIndex: 2}
	require.NoError(t, db.Create(&section).Error)
	return section
}

func TestReplaceRequirementsReplacesWholeSet(t *testing.T) {
	section := setupTestDB(t)

	first := []RequirementTemplate{
		{VerificationRequirement: "old one", SectionCode: "2.1.1"},
		{VerificationRequirement: "old two", SectionCode: "2.1.2"},
		{VerificationRequirement: "old three", SectionCode: "2.1.3"},
	}
	require.NoError(t, ReplaceRequirements(section.ID, userOne, first))

	// статус проставляем руками: замена обязана сбросить его обратно
	var all []models.Requirement
	require.NoError(t, DB.Find(&all).Error)
	_, err := UpdateRequirementField(all[0].ID, userOne, "status", string(models.StatusValid))
	require.NoError(t, err)

	second := []RequirementTemplate{
		{VerificationRequirement: "new one", SectionCode: "2.2.1"},
		{VerificationRequirement: "new two", SectionCode: "2.2.2"},
	}
	require.NoError(t, ReplaceRequirements(section.ID, userOne, second))

	reqs, err := ListRequirements(section.ID, userOne)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "new one", reqs[0].VerificationRequirement)
	assert.Equal(t, "new two", reqs[1].VerificationRequirement)
	for _, r := range reqs {
		assert.Equal(t, models.StatusUnanswered, r.Status)
	}
}

func TestReplaceRequirementsDoesNotTouchOtherUsers(t *testing.T) {
	section := setupTestDB(t)

	require.NoError(t, ReplaceRequirements(section.ID, userOne, []RequirementTemplate{
		{VerificationRequirement: "mine"},
	}))
	require.NoError(t, ReplaceRequirements(section.ID, userTwo, []RequirementTemplate{
		{VerificationRequirement: "theirs"},
	}))

	// замена у второго пользователя не задела набор первого
	reqs, err := ListRequirements(section.ID, userOne)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "mine", reqs[0].VerificationRequirement)
}

func TestReplaceRequirementsValidation(t *testing.T) {
	setupTestDB(t)

	err := ReplaceRequirements("", userOne, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = ReplaceRequirements("no-such-section", userOne, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListRequirementsCreationOrder(t *testing.T) {
	section := setupTestDB(t)

	var templates []RequirementTemplate
	for i := 1; i <= 5; i++ {
		templates = append(templates, RequirementTemplate{
			VerificationRequirement: fmt.Sprintf("req %d", i),
		})
	}
	require.NoError(t, ReplaceRequirements(section.ID, userOne, templates))

	reqs, err := ListRequirements(section.ID, userOne)
	require.NoError(t, err)
	require.Len(t, reqs, 5)
	for i, r := range reqs {
		assert.Equal(t, fmt.Sprintf("req %d", i+1), r.VerificationRequirement)
	}
}

func TestUpdateRequirementFieldOwnership(t *testing.T) {
	section := setupTestDB(t)

	require.NoError(t, ReplaceRequirements(section.ID, userOne, []RequirementTemplate{
		{VerificationRequirement: "owned by user one"},
	}))
	reqs, err := ListRequirements(section.ID, userOne)
	require.NoError(t, err)

	// чужой пользователь: строка для него не существует
	_, err = UpdateRequirementField(reqs[0].ID, userTwo, "comment", "hijack")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// и несуществующий id тоже NotFound
	_, err = UpdateRequirementField("missing", userOne, "comment", "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// владелец — ок
	_, err = UpdateRequirementField(reqs[0].ID, userOne, "comment", "fine")
	require.NoError(t, err)
}

func TestUpdateRequirementFieldWhitelist(t *testing.T) {
	section := setupTestDB(t)

	require.NoError(t, ReplaceRequirements(section.ID, userOne, []RequirementTemplate{
		{VerificationRequirement: "req"},
	}))
	reqs, err := ListRequirements(section.ID, userOne)
	require.NoError(t, err)
	id := reqs[0].ID

	// поля вне белого списка менять нельзя
	_, err = UpdateRequirementField(id, userOne, "user_id", "99")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = UpdateRequirementField(id, userOne, "verification_requirement", "rewrite")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// статус только из четырёх значений
	_, err = UpdateRequirementField(id, userOne, "status", "Maybe")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	for _, field := range []string{"status", "comment", "tool_used", "source_code_reference"} {
		value := "note"
		if field == "status" {
			value = string(models.StatusNotApplicable)
		}
		_, err = UpdateRequirementField(id, userOne, field, value)
		require.NoError(t, err, "field %s", field)
	}
}

func TestUpdateRequirementFieldTouchesOnlyThatField(t *testing.T) {
	section := setupTestDB(t)

	require.NoError(t, ReplaceRequirements(section.ID, userOne, []RequirementTemplate{
		{VerificationRequirement: "req", SectionCode: "2.1.1", CWE: "CWE-287"},
	}))
	reqs, err := ListRequirements(section.ID, userOne)
	require.NoError(t, err)

	_, err = UpdateRequirementField(reqs[0].ID, userOne, "comment", "reviewed")
	require.NoError(t, err)

	var got models.Requirement
	require.NoError(t, DB.First(&got, "id = ?", reqs[0].ID).Error)
	assert.Equal(t, "reviewed", got.Comment)
	assert.Equal(t, "req", got.VerificationRequirement)
	assert.Equal(t, "2.1.1", got.SectionCode)
	assert.Equal(t, "CWE-287", got.CWE)
	assert.Equal(t, models.StatusUnanswered, got.Status)
}

// повтор с тем же значением — семантический no-op, но updated_at
// освежается и в этом случае (один UPDATE без предварительного чтения)
func TestUpdateRequirementFieldRefreshesTimestamp(t *testing.T) {
	section := setupTestDB(t)

	require.NoError(t, ReplaceRequirements(section.ID, userOne, []RequirementTemplate{
		{VerificationRequirement: "req"},
	}))
	reqs, err := ListRequirements(section.ID, userOne)
	require.NoError(t, err)
	id := reqs[0].ID

	first, err := UpdateRequirementField(id, userOne, "comment", "same value")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	second, err := UpdateRequirementField(id, userOne, "comment", "same value")
	require.NoError(t, err)
	assert.True(t, second.After(first))

	var got models.Requirement
	require.NoError(t, DB.First(&got, "id = ?", id).Error)
	assert.Equal(t, "same value", got.Comment)
}

func TestSearchRequirements(t *testing.T) {
	section := setupTestDB(t)

	require.NoError(t, ReplaceRequirements(section.ID, userOne, []RequirementTemplate{
		{VerificationRequirement: "Verify that AUTHENTICATION controls are enforced", SectionCode: "2.1.1", CWE: "CWE-306"},
		{VerificationRequirement: "Verify TLS configuration", SectionCode: "9.1.1", CWE: "CWE-319"},
		{VerificationRequirement: "Verify password storage", SectionCode: "2.4.1", CWE: "CWE-916"},
	}))
	// чужие требования в выдачу не попадают
	require.NoError(t, ReplaceRequirements(section.ID, userTwo, []RequirementTemplate{
		{VerificationRequirement: "authentication requirement of another user"},
	}))

	// запрос короче двух символов — "мало ввода", не ошибка и не пустая выдача
	results, ok, err := SearchRequirements(userOne, "a")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, results)

	// подстрока без учёта регистра в тексте требования
	results, ok, err = SearchRequirements(userOne, "auth")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, results, 1)
	assert.Equal(t, "2.1.1", results[0].SectionCode)
	assert.Equal(t, "authentication", results[0].SectionSlug)

	// по коду раздела и по CWE тоже ищется
	results, _, err = SearchRequirements(userOne, "9.1")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "CWE-319", results[0].CWE)

	results, _, err = SearchRequirements(userOne, "cwe-916")
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, _, err = SearchRequirements(userOne, "no such text")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchRequirementsCap(t *testing.T) {
	section := setupTestDB(t)

	var templates []RequirementTemplate
	for i := 0; i < 15; i++ {
		templates = append(templates, RequirementTemplate{
			VerificationRequirement: fmt.Sprintf("verify logging rule %02d", i),
		})
	}
	require.NoError(t, ReplaceRequirements(section.ID, userOne, templates))

	results, ok, err := SearchRequirements(userOne, "logging")
	require.NoError(t, err)
	require.True(t, ok)
	// потолок выдачи, порядок создания
	require.Len(t, results, SearchLimit)
	assert.Equal(t, "verify logging rule 00", results[0].VerificationRequirement)
	assert.Equal(t, "verify logging rule 09", results[9].VerificationRequirement)
}
