package report

import (
	"strings"
	"testing"

	"github.com/skillcheck/interviewer/internal/model"
)

func evals(scores ...int) []model.Evaluation {
	out := make([]model.Evaluation, len(scores))
	for i, s := range scores {
		out[i] = model.Evaluation{
			Score:                s,
			TechnicalAccuracy:    s,
			Depth:                s,
			PracticalApplication: s,
		}
	}
	return out
}

func TestGenerateFinalReportEmpty(t *testing.T) {
	rep := GenerateFinalReport(nil, model.RoleFinance)

	if rep.OverallScore != 0 {
		t.Errorf("OverallScore = %v, want 0", rep.OverallScore)
	}
	if rep.HiringDecision.Decision != model.DecisionReject {
		t.Errorf("Decision = %q, want REJECT", rep.HiringDecision.Decision)
	}
	if rep.HiringDecision.MeetsThreshold {
		t.Error("MeetsThreshold = true, want false")
	}
	if len(rep.CriticalGaps) != 1 || !strings.HasPrefix(rep.CriticalGaps[0], "CRITICAL:") {
		t.Errorf("CriticalGaps = %v, want single CRITICAL entry", rep.CriticalGaps)
	}
	if len(rep.NextSteps) == 0 || rep.NextSteps[0] != "Reject application" {
		t.Errorf("NextSteps = %v", rep.NextSteps)
	}
	for tag, level := range rep.SkillsBreakdown {
		if level != model.SkillWeak {
			t.Errorf("skill %q = %q, want WEAK", tag, level)
		}
	}
}

func TestGenerateFinalReportDecisions(t *testing.T) {
	tests := []struct {
		name           string
		role           model.Role
		scores         []int
		wantDecision   model.Decision
		wantConfidence string
		wantThreshold  bool
	}{
		{"strong hire", model.RoleFinance, []int{90, 90, 90, 90, 90, 90}, model.DecisionStrongHire, "High", true},
		{"conditional hire finance", model.RoleFinance, []int{80, 80, 80, 80, 80, 80}, model.DecisionConditionalHire, "Medium", true},
		{"finance threshold is 75", model.RoleFinance, []int{74, 74, 74, 74, 74, 74}, model.DecisionNoHireTraining, "High", false},
		{"operations threshold is 70", model.RoleOperations, []int{74, 74, 74, 74, 74, 74}, model.DecisionConditionalHire, "Medium", true},
		{"analytics threshold is 80", model.RoleDataAnalytics, []int{79, 79, 79, 79, 79, 79}, model.DecisionNoHireTraining, "High", false},
		{"unknown role uses default", model.Role("support"), []int{72, 72, 72}, model.DecisionConditionalHire, "Medium", true},
		{"training required", model.RoleOperations, []int{55, 55, 55, 55, 55, 55}, model.DecisionNoHireTraining, "High", false},
		{"reject below fifty", model.RoleOperations, []int{45, 45, 45}, model.DecisionReject, "High", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := GenerateFinalReport(evals(tt.scores...), tt.role)

			if rep.HiringDecision.Decision != tt.wantDecision {
				t.Errorf("Decision = %q, want %q", rep.HiringDecision.Decision, tt.wantDecision)
			}
			if rep.HiringDecision.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %q, want %q", rep.HiringDecision.Confidence, tt.wantConfidence)
			}
			if rep.HiringDecision.MeetsThreshold != tt.wantThreshold {
				t.Errorf("MeetsThreshold = %v, want %v", rep.HiringDecision.MeetsThreshold, tt.wantThreshold)
			}
		})
	}
}

func TestMajorityCriticalFailuresForceReject(t *testing.T) {
	// Three of five answers under 30 force a REJECT even though the average
	// (55) would otherwise land on training.
	rep := GenerateFinalReport(evals(100, 100, 25, 25, 25), model.RoleOperations)

	if rep.HiringDecision.Decision != model.DecisionReject {
		t.Errorf("Decision = %q, want REJECT under majority failures", rep.HiringDecision.Decision)
	}
	if rep.HiringDecision.Confidence != "High" {
		t.Errorf("Confidence = %q, want High", rep.HiringDecision.Confidence)
	}

	// Exactly half is not a majority.
	rep = GenerateFinalReport(evals(100, 100, 100, 20, 20, 20), model.RoleOperations)
	if rep.HiringDecision.Decision == model.DecisionReject {
		t.Error("half of the answers failing should not force a REJECT")
	}
}

func TestDetailedScoresAveraged(t *testing.T) {
	evaluations := []model.Evaluation{
		{Score: 80, TechnicalAccuracy: 90, Depth: 70, PracticalApplication: 60},
		{Score: 60, TechnicalAccuracy: 50, Depth: 50, PracticalApplication: 80},
	}
	rep := GenerateFinalReport(evaluations, model.RoleOperations)

	if rep.OverallScore != 70 {
		t.Errorf("OverallScore = %v, want 70", rep.OverallScore)
	}
	want := model.DetailedScores{TechnicalAccuracy: 70, DepthOfUnderstanding: 60, PracticalApplication: 70}
	if rep.DetailedScores != want {
		t.Errorf("DetailedScores = %+v, want %+v", rep.DetailedScores, want)
	}
}

func TestAssessSkills(t *testing.T) {
	tests := []struct {
		avg  float64
		want model.SkillLevel
	}{
		{85, model.SkillStrong},
		{80, model.SkillStrong},
		{79.9, model.SkillAdequate},
		{60, model.SkillAdequate},
		{59.9, model.SkillWeak},
	}

	for _, tt := range tests {
		skills := assessSkills(tt.avg)
		if len(skills) != len(skillTags) {
			t.Fatalf("assessSkills(%v) has %d tags, want %d", tt.avg, len(skills), len(skillTags))
		}
		for tag, level := range skills {
			if level != tt.want {
				t.Errorf("assessSkills(%v)[%q] = %q, want %q", tt.avg, tag, level, tt.want)
			}
		}
	}
}

func TestCriticalGaps(t *testing.T) {
	tests := []struct {
		name   string
		role   model.Role
		scores []int
		want   []string
	}{
		{
			"no gaps on strong performance",
			model.RoleOperations, []int{90, 90, 90},
			nil,
		},
		{
			"finance specific gap",
			model.RoleFinance, []int{65, 65, 65},
			[]string{"FINANCE CRITICAL: Insufficient Excel skills for financial analysis"},
		},
		{
			"analytics specific gap",
			model.RoleDataAnalytics, []int{72, 72, 72},
			[]string{"ANALYTICS CRITICAL: Cannot handle data analysis requirements"},
		},
		{
			"cap at three",
			model.RoleFinance, []int{20, 20, 20, 20},
			[]string{
				"CRITICAL: Lacks basic Excel formula knowledge",
				"MAJOR: Cannot perform essential Excel functions",
				"PATTERN: Consistent poor performance across multiple areas",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := GenerateFinalReport(evals(tt.scores...), tt.role)
			if len(rep.CriticalGaps) != len(tt.want) {
				t.Fatalf("CriticalGaps = %v, want %v", rep.CriticalGaps, tt.want)
			}
			for i := range tt.want {
				if rep.CriticalGaps[i] != tt.want[i] {
					t.Errorf("gap[%d] = %q, want %q", i, rep.CriticalGaps[i], tt.want[i])
				}
			}
		})
	}
}

func TestExecutiveSummaryMatchesDecision(t *testing.T) {
	rep := GenerateFinalReport(evals(90, 90, 90), model.RoleOperations)
	if !strings.Contains(rep.ExecutiveSummary, "RECOMMEND FOR HIRE") {
		t.Errorf("ExecutiveSummary = %q, want strong hire wording", rep.ExecutiveSummary)
	}
	if !strings.Contains(rep.ExecutiveSummary, "90/100") {
		t.Errorf("ExecutiveSummary = %q, want score rendered", rep.ExecutiveSummary)
	}
}
