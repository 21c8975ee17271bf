// Package catalog holds the static question templates, category and role
// mappings, and the generator that turns them into fresh interview questions.
package catalog

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/skillcheck/interviewer/internal/model"
)

var wordRegex = regexp.MustCompile(`\b\w+\b`)

// categoryFunctions maps each category to its representative spreadsheet
// vocabulary, used as prompt hints and follow-up suggestions.
var categoryFunctions = map[model.Category][]string{
	model.CategoryBasicFormulas:    {"SUM", "AVERAGE", "COUNT", "MAX", "MIN"},
	model.CategoryLookupFunctions:  {"VLOOKUP", "HLOOKUP", "INDEX", "MATCH"},
	model.CategoryDataAnalysis:     {"PIVOT", "FILTER", "SORT", "SUBTOTAL"},
	model.CategoryAdvancedFormulas: {"IF", "SUMIF", "COUNTIF", "NESTED"},
	model.CategoryDataManipulation: {"CONCATENATE", "TEXT", "DATE", "TIME"},
	model.CategoryScenarioBased:    {"DASHBOARD", "REPORTING", "ANALYSIS"},
}

// roleFocus maps each known role to the categories its interviews draw from.
var roleFocus = map[model.Role][]model.Category{
	model.RoleFinance:       {model.CategoryBasicFormulas, model.CategoryLookupFunctions, model.CategoryScenarioBased},
	model.RoleOperations:    {model.CategoryDataAnalysis, model.CategoryDataManipulation, model.CategoryScenarioBased},
	model.RoleDataAnalytics: {model.CategoryAdvancedFormulas, model.CategoryDataAnalysis, model.CategoryLookupFunctions},
}

// questionTemplate is a question text with substitution slots.
type questionTemplate struct {
	template   string
	variations map[string][]string
	category   model.Category
	difficulty model.Difficulty
}

var baseTemplates = []questionTemplate{
	{
		template: "What function would you use to {action} in Excel?",
		variations: map[string][]string{
			"action": {"sum values in a range", "find the average", "count non-empty cells"},
		},
		category:   model.CategoryBasicFormulas,
		difficulty: model.DifficultyBasic,
	},
	{
		template: "How would you {task} in a large dataset?",
		variations: map[string][]string{
			"task": {"remove duplicates", "find unique values", "filter specific criteria"},
		},
		category:   model.CategoryDataAnalysis,
		difficulty: model.DifficultyIntermediate,
	},
	{
		template: "Explain the difference between {concept1} and {concept2}.",
		variations: map[string][]string{
			"concept1": {"VLOOKUP", "absolute references", "SUMIF"},
			"concept2": {"INDEX-MATCH", "relative references", "SUMIFS"},
		},
		category:   model.CategoryAdvancedFormulas,
		difficulty: model.DifficultyAdvanced,
	},
}

// RoleFocus returns the focus categories for a role. Unknown roles fall back
// to basic formulas so generation still yields something.
func RoleFocus(role model.Role) []model.Category {
	if cats, ok := roleFocus[role]; ok {
		return cats
	}
	return []model.Category{model.CategoryBasicFormulas}
}

// RolesForCategory returns every role whose focus includes the category.
func RolesForCategory(category model.Category) []model.Role {
	var roles []model.Role
	for _, role := range []model.Role{model.RoleFinance, model.RoleOperations, model.RoleDataAnalytics} {
		for _, c := range roleFocus[role] {
			if c == category {
				roles = append(roles, role)
				break
			}
		}
	}
	return roles
}

// FunctionHints returns the vocabulary associated with a category.
func FunctionHints(category model.Category) []string {
	return categoryFunctions[category]
}

// fillTemplate renders a template with one randomly chosen substitution per
// variation slot.
func fillTemplate(t questionTemplate) string {
	text := t.template
	for key, values := range t.variations {
		text = strings.ReplaceAll(text, "{"+key+"}", values[rand.IntN(len(values))])
	}
	return text
}

// extractKeywords lowercases and tokenizes rendered question text.
func extractKeywords(text string) []string {
	return wordRegex.FindAllString(strings.ToLower(text), -1)
}
