package goals

import (
	"github.com/moneymap/backend/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategoryInfo is a goal category together with its display label.
type CategoryInfo struct {
	Value models.GoalCategory `json:"value" example:"savings"`
	Label string              `json:"label" example:"Savings"`
}

// Categories returns all valid goal categories with display labels.
func Categories() []CategoryInfo {
	caser := cases.Title(language.English)

	categories := models.GoalCategories()
	infos := make([]CategoryInfo, 0, len(categories))
	for _, category := range categories {
		label := caser.String(string(category))

		// "Emergency" alone reads odd in the UI
		if category == models.CategoryEmergency {
			label = "Emergency Fund"
		}

		infos = append(infos, CategoryInfo{Value: category, Label: label})
	}

	return infos
}
