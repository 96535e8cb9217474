package placement

import (
	"fmt"
	"strings"

	"github.com/noah-isme/placement-cell-api/internal/models"
)

const (
	stageSelected = "Selected"
	statusApplied = "Applied Only"
)

// Walk follows one student through the stages under sequential gating: a
// stage is reached only when the previous stage was passed, and the walk
// stops at the first stage that is not passed.
func Walk(stages []string, passed []bool) models.StudentProgression {
	p := models.StudentProgression{TotalStages: len(stages)}
	if len(stages) == 0 || len(passed) == 0 {
		return p
	}
	p.Applied = passed[0]
	if !p.Applied {
		return p
	}

	failedIdx := -1
	for i, stage := range stages {
		ok := i < len(passed) && passed[i]
		p.Progression = append(p.Progression, models.StageProgress{Stage: stage, Index: i, Passed: ok})
		if !ok {
			failedIdx = i
			p.FailedAtStage = stage
			break
		}
		p.StagesPassed++
		p.LastPassedStage = stage
	}
	p.ReachedFinal = len(p.Progression) == len(stages)
	p.FinalStatus = finalStatus(stages, p.StagesPassed-1, failedIdx)
	return p
}

func finalStatus(stages []string, lastIdx, failedIdx int) string {
	last := len(stages) - 1
	switch {
	case lastIdx >= 0 && (strings.EqualFold(stages[lastIdx], stageSelected) || lastIdx == last):
		return stageSelected
	case failedIdx > 0 && !strings.EqualFold(stages[failedIdx], stageSelected):
		return fmt.Sprintf("Failed at %s", stages[failedIdx])
	case lastIdx > 0:
		return fmt.Sprintf("Reached %s", stages[lastIdx])
	default:
		return statusApplied
	}
}

// rowProgress reads the stage cells of one row and walks them.
func rowProgress(layout Layout, row []string) models.StudentProgression {
	values := make([]bool, len(layout.StageCols))
	for i, col := range layout.StageCols {
		values[i] = Truthy(cell(row, col))
	}
	p := Walk(layout.Stages, values)
	p.Name = cell(row, layout.NameCol)
	if layout.HasReg() {
		p.RegNo = cell(row, layout.RegCol)
	}
	return p
}

func usableName(name string) bool {
	n := Normalize(name)
	return n != "" && n != "NAN"
}

// BuildCompanyFunnel folds one round matrix into a company funnel. Only
// students who applied are counted; a name repeated in the sheet is counted
// once, using its first row. A malformed matrix yields an ErrMalformedSource.
func BuildCompanyFunnel(m models.RoundMatrix) (models.CompanyFunnel, error) {
	layout, err := ParseLayout(m)
	if err != nil {
		return models.CompanyFunnel{}, err
	}

	funnel := models.CompanyFunnel{
		CompanyID:   m.CompanyID,
		CompanyName: m.CompanyName,
		Stages:      layout.Stages,
		Students:    []models.StudentProgression{},
	}
	if funnel.CompanyName == "" {
		funnel.CompanyName = m.CompanyID
	}

	reached := make([]int, len(layout.Stages))
	passed := make([]int, len(layout.Stages))
	seen := make(map[string]struct{})
	for _, row := range m.Rows {
		name := cell(row, layout.NameCol)
		if !usableName(name) {
			continue
		}
		key := Normalize(name)
		if _, dup := seen[key]; dup {
			continue
		}
		p := rowProgress(layout, row)
		if !p.Applied {
			continue
		}
		seen[key] = struct{}{}
		for _, step := range p.Progression {
			reached[step.Index]++
			if step.Passed {
				passed[step.Index]++
			}
		}
		funnel.Students = append(funnel.Students, p)
	}

	funnel.StageStats, funnel.Conversions = stageStats(layout.Stages, reached, passed)
	funnel.TotalApplied = passed[0]
	funnel.TotalSelected = passed[len(passed)-1]
	for i, stage := range layout.Stages {
		if strings.EqualFold(stage, stageSelected) {
			funnel.TotalSelected = passed[i]
			break
		}
	}
	return funnel, nil
}

func stageStats(stages []string, reached, passed []int) ([]models.StageStat, []models.StageConversion) {
	stats := make([]models.StageStat, len(stages))
	conversions := make([]models.StageConversion, 0, len(stages))
	for i, stage := range stages {
		stats[i] = models.StageStat{Stage: stage, Reached: reached[i], Passed: passed[i]}
		if i+1 < len(stages) {
			rate := percent(passed[i+1], passed[i])
			stats[i].ConversionRate = rate
			conversions = append(conversions, models.StageConversion{
				From:      stage,
				To:        stages[i+1],
				FromCount: passed[i],
				ToCount:   passed[i+1],
				Rate:      rate,
			})
		}
	}
	return stats, conversions
}

// BuildCompanyFunnels builds a funnel per matrix, reporting malformed ones as skipped.
func BuildCompanyFunnels(matrices []models.RoundMatrix) ([]models.CompanyFunnel, []models.SkippedSource) {
	funnels := make([]models.CompanyFunnel, 0, len(matrices))
	var skipped []models.SkippedSource
	for _, m := range matrices {
		f, err := BuildCompanyFunnel(m)
		if err != nil {
			skipped = append(skipped, skippedFrom(m, err))
			continue
		}
		funnels = append(funnels, f)
	}
	return funnels, skipped
}

func skippedFrom(m models.RoundMatrix, err error) models.SkippedSource {
	source := m.Source
	if source == "" {
		source = m.CompanyID
	}
	return models.SkippedSource{Source: source, Reason: err.Error()}
}
