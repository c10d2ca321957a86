package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/finsight/backend/internal/model"
)

// RecommendBudgets derives a suggested monthly budget per expense category
// from the trailing MonthsToAnalyze months of history. Categories with fewer
// than two populated months or an average spend under 10 currency units are
// treated as noise and dropped. Results are sorted by recommended amount,
// largest first.
func (e *Engine) RecommendBudgets(txns []model.Transaction, categories []model.Category, budgets []model.Budget) []model.BudgetRecommendation {
	cutoff := e.cfg.Now().AddDate(0, -e.cfg.MonthsToAnalyze, 0)

	var recent []model.Transaction
	for _, t := range txns {
		if !t.Date.Before(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) < e.cfg.MinRecommendationSample {
		return nil
	}

	// Seed every category so untouched ones are consciously dropped below
	// rather than silently missing.
	names := make(map[string]string, len(categories))
	monthly := make(map[string]map[string]float64, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
		monthly[c.ID] = make(map[string]float64)
	}

	for _, t := range recent {
		if t.Type != model.TransactionTypeExpense || t.Category == nil {
			continue
		}
		byMonth, ok := monthly[t.Category.ID]
		if !ok {
			byMonth = make(map[string]float64)
			monthly[t.Category.ID] = byMonth
			names[t.Category.ID] = t.Category.Name
		}
		byMonth[t.Date.Format("2006-01")] += math.Abs(t.Amount)
	}

	current := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		current[b.CategoryID] = b.Amount
	}

	var out []model.BudgetRecommendation
	for catID, byMonth := range monthly {
		if len(byMonth) < 2 {
			continue
		}

		months := make([]string, 0, len(byMonth))
		for m := range byMonth {
			months = append(months, m)
		}
		sort.Strings(months)

		totals := make([]float64, len(months))
		monthlyData := make([]model.MonthlyTotal, len(months))
		for i, m := range months {
			totals[i] = byMonth[m]
			monthlyData[i] = model.MonthlyTotal{Month: m, Total: byMonth[m]}
		}

		mean := Mean(totals)
		if mean < 10 {
			continue
		}
		sd := StdDev(totals)
		cv := CoefficientOfVariation(totals)
		trend := ClassifyTrend(TrendSlope(totals))

		var recommended float64
		var confidence model.ConfidenceLevel
		switch {
		case cv < 0.2:
			recommended = mean * 1.1
			confidence = model.ConfidenceHigh
		case cv < 0.5:
			recommended = mean + 0.5*sd
			confidence = model.ConfidenceMedium
		default:
			recommended = mean + sd
			confidence = model.ConfidenceLow
		}

		switch trend {
		case model.TrendIncreasing:
			recommended *= 1.05
		case model.TrendDecreasing:
			recommended *= 0.95
		}

		recommended = math.Ceil(recommended/5) * 5

		rec := model.BudgetRecommendation{
			CategoryID:        catID,
			CategoryName:      names[catID],
			RecommendedBudget: recommended,
			Confidence:        confidence,
			Reasoning:         buildReasoning(names[catID], len(months), mean, cv, trend),
			HistoricalAvg:     mean,
			HistoricalStdDev:  sd,
			Trend:             trend,
			MonthlyData:       monthlyData,
		}
		if amount, ok := current[catID]; ok {
			a := amount
			rec.CurrentBudget = &a
		}

		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RecommendedBudget > out[j].RecommendedBudget
	})

	return out
}

func buildReasoning(name string, months int, mean, cv float64, trend model.TrendDirection) string {
	consistency := "highly variable"
	switch {
	case cv < 0.2:
		consistency = "very consistent"
	case cv < 0.5:
		consistency = "somewhat variable"
	}

	direction := "holding steady"
	switch trend {
	case model.TrendIncreasing:
		direction = "trending up"
	case model.TrendDecreasing:
		direction = "trending down"
	}

	return fmt.Sprintf("Across %d months you spent an average of $%.2f/month on %s. Spending is %s and %s.",
		months, mean, name, consistency, direction)
}

// TotalRecommendedBudget sums the recommended amounts.
func TotalRecommendedBudget(recs []model.BudgetRecommendation) float64 {
	var total float64
	for _, r := range recs {
		total += r.RecommendedBudget
	}
	return total
}

// BudgetDifferences pairs recommendations against existing budgets, sorted
// by absolute delta, largest first. Categories without an existing budget
// report a delta equal to the full recommendation.
func BudgetDifferences(recs []model.BudgetRecommendation, budgets []model.Budget) []model.BudgetDifference {
	current := make(map[string]float64, len(budgets))
	for _, b := range budgets {
		current[b.CategoryID] = b.Amount
	}

	out := make([]model.BudgetDifference, 0, len(recs))
	for _, r := range recs {
		diff := model.BudgetDifference{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			Recommended:  r.RecommendedBudget,
			Delta:        r.RecommendedBudget,
		}
		if amount, ok := current[r.CategoryID]; ok {
			a := amount
			diff.Current = &a
			diff.Delta = r.RecommendedBudget - amount
		}
		out = append(out, diff)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Delta) > math.Abs(out[j].Delta)
	})

	return out
}
