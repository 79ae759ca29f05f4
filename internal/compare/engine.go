package compare

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/wtp/internal/calculation"
	"github.com/rgehrsitz/wtp/internal/domain"
)

// ErrScenarioNotFound is returned when a base or alternative id is unknown.
var ErrScenarioNotFound = errors.New("scenario not found")

var nowFunc = time.Now

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	Evaluator         *calculation.Evaluator
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(ev *calculation.Evaluator) *CompareEngine {
	return &CompareEngine{
		Evaluator:         ev,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	// BaseScenarioID selects the base; zero means the active scenario.
	BaseScenarioID int
	// ScenarioIDs restricts the alternatives; empty means every other scenario.
	ScenarioIDs []int
}

// Compare evaluates the plan's scenarios and measures each against the base.
func (ce *CompareEngine) Compare(ctx context.Context, plan *domain.Plan, options CompareOptions) (*ComparisonSet, error) {
	if len(plan.Scenarios) == 0 {
		return nil, fmt.Errorf("plan has no scenarios: %w", ErrScenarioNotFound)
	}

	baseID := options.BaseScenarioID
	if baseID == 0 {
		baseID = plan.ActiveScenario
	}
	baseIdx := indexOf(plan.Scenarios, baseID)
	if baseIdx < 0 {
		if options.BaseScenarioID != 0 {
			return nil, fmt.Errorf("base scenario %d: %w", baseID, ErrScenarioNotFound)
		}
		baseIdx = 0
	}

	var alternatives []domain.Scenario
	if len(options.ScenarioIDs) == 0 {
		for i, s := range plan.Scenarios {
			if i != baseIdx {
				alternatives = append(alternatives, s)
			}
		}
	} else {
		for _, id := range options.ScenarioIDs {
			idx := indexOf(plan.Scenarios, id)
			if idx < 0 {
				return nil, fmt.Errorf("alternative scenario %d: %w", id, ErrScenarioNotFound)
			}
			if idx != baseIdx {
				alternatives = append(alternatives, plan.Scenarios[idx])
			}
		}
	}

	return ce.CompareScenarios(ctx, plan.Inputs, plan.ActiveScenario, plan.Scenarios[baseIdx], alternatives)
}

// CompareScenarios compares explicit scenarios against base.
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	in domain.Inputs,
	activeID int,
	base domain.Scenario,
	alternatives []domain.Scenario,
) (*ComparisonSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	baseEval := ce.Evaluator.Evaluate(base, in)
	baseResult := ce.MetricsCalculator.CalculateMetrics(&baseEval)
	baseResult.Active = base.ID == activeID

	results := []ComparisonResult{}
	for _, alt := range alternatives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		eval := ce.Evaluator.Evaluate(alt, in)
		altResult := ce.MetricsCalculator.CalculateMetrics(&eval)
		altResult.Active = alt.ID == activeID
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		results = append(results, altResult)
	}

	compSet := &ComparisonSet{
		TaxYear:            baseEval.TaxYear,
		StateName:          baseEval.StateName,
		BaseScenarioName:   base.Name,
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func indexOf(list []domain.Scenario, id int) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
