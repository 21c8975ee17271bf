// Package report turns a completed session's evaluations into a hiring
// decision with rationale and next steps.
package report

import (
	"fmt"
	"math"

	"github.com/skillcheck/interviewer/internal/model"
)

const defaultThreshold = 70

// roleThresholds are the minimum average scores per role. Unknown roles use
// the default.
var roleThresholds = map[model.Role]float64{
	model.RoleFinance:       75,
	model.RoleOperations:    70,
	model.RoleDataAnalytics: 80,
}

// skillTags are the fixed skills reported in every breakdown.
var skillTags = []string{"formula_knowledge", "data_manipulation", "analytical_thinking", "attention_to_detail"}

// GenerateFinalReport aggregates all evaluations (main questions and
// follow-ups alike) into the final hiring report. An empty evaluation list
// produces a zero-score, REJECT-shaped report rather than an error.
func GenerateFinalReport(evaluations []model.Evaluation, role model.Role) model.Report {
	if len(evaluations) == 0 {
		return model.Report{
			OverallScore:            0,
			HiringDecision:          makeHiringDecision(0, role, evaluations),
			ExecutiveSummary:        "Candidate did not provide any answers. The system could not conduct an assessment.",
			DetailedScores:          model.DetailedScores{},
			SkillsBreakdown:         assessSkills(0),
			CriticalGaps:            []string{"CRITICAL: No answers provided for evaluation."},
			RecommendationRationale: "Candidate did not engage in the interview process.",
			NextSteps:               []string{"Reject application", "No data available to assess skills"},
		}
	}

	n := float64(len(evaluations))
	var scoreSum, technicalSum, depthSum, practicalSum float64
	for _, e := range evaluations {
		scoreSum += float64(e.Score)
		technicalSum += float64(e.TechnicalAccuracy)
		depthSum += float64(e.Depth)
		practicalSum += float64(e.PracticalApplication)
	}
	avg := scoreSum / n

	decision := makeHiringDecision(avg, role, evaluations)

	return model.Report{
		OverallScore:     round1(avg),
		HiringDecision:   decision,
		ExecutiveSummary: executiveSummary(avg, decision.Decision),
		DetailedScores: model.DetailedScores{
			TechnicalAccuracy:    round1(technicalSum / n),
			DepthOfUnderstanding: round1(depthSum / n),
			PracticalApplication: round1(practicalSum / n),
		},
		SkillsBreakdown:         assessSkills(avg),
		CriticalGaps:            criticalGaps(evaluations, role, avg),
		RecommendationRationale: rationale(decision.Decision),
		NextSteps:               nextSteps(decision.Decision),
	}
}

// makeHiringDecision applies the decision ladder, then the majority-failure
// override. MeetsThreshold stays tied to the average alone, so it can be true
// under a forced REJECT.
func makeHiringDecision(avg float64, role model.Role, evaluations []model.Evaluation) model.HiringDecision {
	threshold, ok := roleThresholds[role]
	if !ok {
		threshold = defaultThreshold
	}

	var decision model.Decision
	confidence := "High"
	switch {
	case avg >= 85:
		decision = model.DecisionStrongHire
	case avg >= threshold:
		decision, confidence = model.DecisionConditionalHire, "Medium"
	case avg >= 50:
		decision = model.DecisionNoHireTraining
	default:
		decision = model.DecisionReject
	}

	criticalFailures := 0
	for _, e := range evaluations {
		if e.Score < 30 {
			criticalFailures++
		}
	}
	if criticalFailures > len(evaluations)/2 {
		decision, confidence = model.DecisionReject, "High"
	}

	return model.HiringDecision{
		Decision:       decision,
		Confidence:     confidence,
		MeetsThreshold: avg >= threshold,
	}
}

// assessSkills sets every fixed skill tag to the same tier; the breakdown is
// average-driven, not per-skill differentiated.
func assessSkills(avg float64) map[string]model.SkillLevel {
	level := model.SkillWeak
	switch {
	case avg >= 80:
		level = model.SkillStrong
	case avg >= 60:
		level = model.SkillAdequate
	}

	skills := make(map[string]model.SkillLevel, len(skillTags))
	for _, tag := range skillTags {
		skills[tag] = level
	}
	return skills
}

// criticalGaps collects up to three gaps in source order.
func criticalGaps(evaluations []model.Evaluation, role model.Role, avg float64) []string {
	var gaps []string

	if avg < 30 {
		gaps = append(gaps, "CRITICAL: Lacks basic Excel formula knowledge")
	}
	if avg < 50 {
		gaps = append(gaps, "MAJOR: Cannot perform essential Excel functions")
	}

	weak := 0
	for _, e := range evaluations {
		if e.Score < 40 {
			weak++
		}
	}
	if weak > 2 {
		gaps = append(gaps, "PATTERN: Consistent poor performance across multiple areas")
	}

	if role == model.RoleFinance && avg < 70 {
		gaps = append(gaps, "FINANCE CRITICAL: Insufficient Excel skills for financial analysis")
	} else if role == model.RoleDataAnalytics && avg < 75 {
		gaps = append(gaps, "ANALYTICS CRITICAL: Cannot handle data analysis requirements")
	}

	if len(gaps) > 3 {
		gaps = gaps[:3]
	}
	return gaps
}

func executiveSummary(avg float64, decision model.Decision) string {
	switch decision {
	case model.DecisionStrongHire:
		return fmt.Sprintf("**RECOMMEND FOR HIRE**: Strong Excel proficiency (Score: %.0f/100). Ready for immediate deployment.", avg)
	case model.DecisionConditionalHire:
		return fmt.Sprintf("**CONDITIONAL HIRE**: Adequate Excel foundation (Score: %.0f/100) but requires training.", avg)
	case model.DecisionNoHireTraining:
		return fmt.Sprintf("**NOT RECOMMENDED**: Lacks essential Excel skills (Score: %.0f/100). Needs extensive training.", avg)
	default:
		return fmt.Sprintf("**REJECT**: Insufficient Excel knowledge (Score: %.0f/100). Not suitable even with training.", avg)
	}
}

func rationale(decision model.Decision) string {
	switch decision {
	case model.DecisionStrongHire:
		return "Consistently high performance across Excel areas. Ready to contribute."
	case model.DecisionConditionalHire:
		return "Solid foundation with trainable gaps (2-4 weeks training)."
	case model.DecisionNoHireTraining:
		return "Major gaps requiring 6-8 weeks of training."
	default:
		return "Critical deficiencies. Training won't be enough."
	}
}

func nextSteps(decision model.Decision) []string {
	switch decision {
	case model.DecisionStrongHire:
		return []string{"Proceed with job offer", "Assign Excel-heavy tasks", "Consider mentoring role"}
	case model.DecisionConditionalHire:
		return []string{"Hire with training plan", "Assign mentor", "Re-evaluate after 1 month"}
	case model.DecisionNoHireTraining:
		return []string{"Do not hire", "Recommend Excel fundamentals course", "Reconsider after certification"}
	default:
		return []string{"Reject application", "Do not consider for Excel roles", "Focus on other candidates"}
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
