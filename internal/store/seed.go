package store

import (
	"time"

	"github.com/skillcheck/interviewer/internal/model"
)

// seedQuestions is the canonical starter bank used when no snapshot exists.
// Six questions spanning all three difficulties and multiple categories.
func seedQuestions() []model.Question {
	now := time.Now()
	all := []model.Role{model.RoleFinance, model.RoleOperations, model.RoleDataAnalytics}

	seed := []model.Question{
		{
			ID:          1,
			Text:        "What Excel function would you use to sum values in range A1:A10?",
			Type:        model.TypeFormula,
			Category:    model.CategoryBasicFormulas,
			Difficulty:  model.DifficultyBasic,
			Keywords:    []string{"SUM", "formula", "range"},
			TargetRoles: all,
		},
		{
			ID:          2,
			Text:        "How would you remove duplicate values from a dataset in Excel?",
			Type:        model.TypeConcept,
			Category:    model.CategoryDataManipulation,
			Difficulty:  model.DifficultyIntermediate,
			Keywords:    []string{"remove duplicates", "data", "filter", "unique"},
			TargetRoles: []model.Role{model.RoleDataAnalytics, model.RoleOperations},
		},
		{
			ID:          3,
			Text:        "Explain the difference between VLOOKUP and INDEX-MATCH functions.",
			Type:        model.TypeConcept,
			Category:    model.CategoryLookupFunctions,
			Difficulty:  model.DifficultyAdvanced,
			Keywords:    []string{"VLOOKUP", "INDEX", "MATCH", "lookup"},
			TargetRoles: []model.Role{model.RoleFinance, model.RoleDataAnalytics},
		},
		{
			ID:          4,
			Text:        "How would you create a pivot table to analyze sales data by region and product?",
			Type:        model.TypeConcept,
			Category:    model.CategoryDataAnalysis,
			Difficulty:  model.DifficultyIntermediate,
			Keywords:    []string{"pivot table", "sales data", "analysis", "region"},
			TargetRoles: all,
		},
		{
			ID:          5,
			Text:        "What's the difference between absolute and relative cell references? Give examples.",
			Type:        model.TypeConcept,
			Category:    model.CategoryBasicFormulas,
			Difficulty:  model.DifficultyBasic,
			Keywords:    []string{"absolute", "relative", "cell reference", "$"},
			TargetRoles: all,
		},
		{
			ID:          6,
			Text:        "How would you use SUMIF to calculate total sales for a specific product?",
			Type:        model.TypeFormula,
			Category:    model.CategoryAdvancedFormulas,
			Difficulty:  model.DifficultyIntermediate,
			Keywords:    []string{"SUMIF", "conditional", "criteria", "sales"},
			TargetRoles: []model.Role{model.RoleFinance, model.RoleOperations},
		},
	}

	for i := range seed {
		seed[i].EffectivenessScore = 0.5
		seed[i].CreatedDate = now
	}
	return seed
}
