package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"asvs-dashboard/internal/apperr"
	"asvs-dashboard/internal/database"

	"github.com/gin-gonic/gin"
)

// стартовый набор требований для кнопки "загрузить пример"
var sampleTemplates = []database.RequirementTemplate{
	{
		VerificationRequirement: "Verify that secure architecture design is considered and implemented consistently across all components and services.",
		ASVSLevel:               "L1",
		SectionCode:             "1.1.1",
		Area:                    "Architecture",
		NIST:                    "SA-8",
		CWE:                     "CWE-1008",
	},
	{
		VerificationRequirement: "Verify that all components are up to date and supported by the vendor with security patches available.",
		ASVSLevel:               "L1",
		SectionCode:             "1.1.2",
		Area:                    "Architecture",
		NIST:                    "SA-22",
		CWE:                     "CWE-1104",
	},
}

// ShowAdmin — конструктор чек-листа: выбор раздела и редактирование
// строк-шаблонов. ?sample=1 подставляет пример вместо сохранённых строк.
func ShowAdmin(c *gin.Context) {
	uid := currentUserID(c)

	sections, err := database.ListSections()
	if err != nil {
		c.String(http.StatusServiceUnavailable, "Данные временно недоступны")
		return
	}

	selected := c.Query("section")
	var rows []database.RequirementTemplate

	if selected != "" {
		if c.Query("sample") == "1" {
			rows = sampleTemplates
		} else {
			reqs, err := database.ListRequirements(selected, uid)
			if err != nil {
				c.String(http.StatusServiceUnavailable, "Данные временно недоступны")
				return
			}
			for _, r := range reqs {
				rows = append(rows, database.RequirementTemplate{
					VerificationRequirement: r.VerificationRequirement,
					ASVSLevel:               r.ASVSLevel,
					SectionCode:             r.SectionCode,
					Area:                    r.Area,
					NIST:                    r.NIST,
					CWE:                     r.CWE,
				})
			}
		}
	}

	render(c, http.StatusOK, "admin.html", gin.H{
		"sections": sections,
		"selected": selected,
		"rows":     rows,
		"error":    "",
	})
}

// SaveRequirements — сохранение чек-листа раздела. Это полная замена:
// прежний набор пары (раздел, пользователь) удаляется, новый вставляется
// со статусом Unanswered, всё одной транзакцией.
func SaveRequirements(c *gin.Context) {
	uid := currentUserID(c)

	sectionID := strings.TrimSpace(c.PostForm("section_id"))

	texts := c.PostFormArray("verification_requirement")
	levels := c.PostFormArray("asvs_level")
	codes := c.PostFormArray("section_code")
	areas := c.PostFormArray("area")
	nists := c.PostFormArray("nist")
	cwes := c.PostFormArray("cwe")

	at := func(vals []string, i int) string {
		if i < len(vals) {
			return strings.TrimSpace(vals[i])
		}
		return ""
	}

	var templates []database.RequirementTemplate
	for i := range texts {
		text := strings.TrimSpace(texts[i])
		if text == "" {
			// пустые строки формы не сохраняем
			continue
		}
		templates = append(templates, database.RequirementTemplate{
			VerificationRequirement: text,
			ASVSLevel:               at(levels, i),
			SectionCode:             at(codes, i),
			Area:                    at(areas, i),
			NIST:                    at(nists, i),
			CWE:                     at(cwes, i),
		})
	}

	if err := database.ReplaceRequirements(sectionID, uid, templates); err != nil {
		status := http.StatusInternalServerError
		msg := "Ошибка сохранения требований"
		if errors.Is(err, apperr.ErrValidation) {
			status = http.StatusBadRequest
			msg = "Выберите существующий раздел"
		}
		sections, _ := database.ListSections()
		render(c, status, "admin.html", gin.H{
			"sections": sections,
			"selected": sectionID,
			"rows":     templates,
			"error":    msg,
		})
		return
	}

	database.CreateAuditLog(uid, "section", sectionID, "replace_batch",
		fmt.Sprintf("Чек-лист раздела заменён, требований: %d", len(templates)))

	c.Redirect(http.StatusFound, "/admin?section="+sectionID)
}
