package insights

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/finsight/backend/internal/model"
)

// DetectAnomalies runs every anomaly detector over the transaction set and
// returns the merged findings sorted by severity, critical first. Fewer than
// MinTransactions transactions yields no findings.
func (e *Engine) DetectAnomalies(txns []model.Transaction) []model.Anomaly {
	if len(txns) < e.cfg.MinTransactions {
		return nil
	}

	var anomalies []model.Anomaly
	anomalies = append(anomalies, e.detectDuplicates(txns)...)
	anomalies = append(anomalies, e.detectUnusualAmounts(txns)...)
	anomalies = append(anomalies, e.detectUnusualTiming(txns)...)
	anomalies = append(anomalies, e.detectRapidSpending(txns)...)

	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Severity.Rank() < anomalies[j].Severity.Rank()
	})

	return anomalies
}

// detectDuplicates finds groups of near-identical transactions: amounts
// within DuplicateAmountTolerance, dates within DuplicateWindowDays, and
// description similarity at least DuplicateSimilarity. Grouping is greedy --
// each transaction joins at most one group, so a transaction similar to two
// otherwise-dissimilar clusters lands in whichever was scanned first. That
// is a known approximation, kept deliberately.
func (e *Engine) detectDuplicates(txns []model.Transaction) []model.Anomaly {
	var out []model.Anomaly
	consumed := make([]bool, len(txns))

	for i := range txns {
		if consumed[i] {
			continue
		}

		group := []int{i}
		for j := i + 1; j < len(txns); j++ {
			if consumed[j] {
				continue
			}
			if math.Abs(math.Abs(txns[i].Amount)-math.Abs(txns[j].Amount)) >= e.cfg.DuplicateAmountTolerance {
				continue
			}
			days := math.Abs(txns[i].Date.Sub(txns[j].Date).Hours()) / 24
			if days > float64(e.cfg.DuplicateWindowDays) {
				continue
			}
			if Similarity(txns[i].Description, txns[j].Description) < e.cfg.DuplicateSimilarity {
				continue
			}
			consumed[j] = true
			group = append(group, j)
		}

		if len(group) < 2 {
			continue
		}
		consumed[i] = true

		confidence := 95
		if len(group) == 2 {
			sim := Similarity(txns[group[0]].Description, txns[group[1]].Description)
			confidence = int(math.Round(sim * 100))
		}

		severity := model.SeverityMedium
		if confidence > 90 {
			severity = model.SeverityHigh
		}

		ids := make([]string, 0, len(group))
		dates := make([]string, 0, len(group))
		for _, idx := range group {
			ids = append(ids, txns[idx].ID)
			dates = append(dates, txns[idx].Date.Format("2006-01-02"))
		}

		amount := math.Abs(txns[group[0]].Amount)
		out = append(out, model.Anomaly{
			ID:             e.cfg.NewID(),
			Type:           model.AnomalyTypeDuplicate,
			Severity:       severity,
			TransactionIDs: ids,
			Title:          fmt.Sprintf("Possible duplicate: %s", txns[group[0]].Description),
			Description: fmt.Sprintf("%d transactions of about $%.2f within %d days look like the same charge.",
				len(group), amount, e.cfg.DuplicateWindowDays),
			Confidence:      confidence,
			SuggestedAction: model.ActionReview,
			Details: map[string]any{
				"amount":      amount,
				"description": txns[group[0]].Description,
				"dates":       dates,
				"group_size":  len(group),
			},
		})
	}

	return out
}

// detectUnusualAmounts flags transactions whose absolute amount is a
// z-score outlier within its income/expense partition. Partitions smaller
// than MinPartitionSize or with zero spread are skipped.
func (e *Engine) detectUnusualAmounts(txns []model.Transaction) []model.Anomaly {
	partitions := make(map[model.TransactionType][]model.Transaction)
	for _, t := range txns {
		partitions[t.Type] = append(partitions[t.Type], t)
	}

	var out []model.Anomaly
	for _, part := range []model.TransactionType{model.TransactionTypeExpense, model.TransactionTypeIncome} {
		group := partitions[part]
		if len(group) < e.cfg.MinPartitionSize {
			continue
		}

		amounts := make([]float64, len(group))
		for i, t := range group {
			amounts[i] = math.Abs(t.Amount)
		}
		mean := Mean(amounts)
		sd := StdDev(amounts)
		if sd == 0 {
			continue
		}

		for i, t := range group {
			z := (amounts[i] - mean) / sd
			if math.Abs(z) <= e.cfg.ZScoreThreshold {
				continue
			}

			severity := model.SeverityMedium
			switch {
			case math.Abs(z) > 4:
				severity = model.SeverityCritical
			case math.Abs(z) > 3:
				severity = model.SeverityHigh
			}

			confidence := int(math.Round(math.Min(95, 50+math.Abs(z)*10)))

			out = append(out, model.Anomaly{
				ID:             e.cfg.NewID(),
				Type:           model.AnomalyTypeUnusualAmount,
				Severity:       severity,
				TransactionIDs: []string{t.ID},
				Title:          fmt.Sprintf("Unusual %s amount: %s", part, t.Description),
				Description: fmt.Sprintf("$%.2f is %.1f standard deviations from your typical %s of $%.2f.",
					amounts[i], math.Abs(z), part, mean),
				Confidence:      confidence,
				SuggestedAction: model.ActionFlag,
				Details: map[string]any{
					"amount":  amounts[i],
					"mean":    mean,
					"std_dev": sd,
					"z_score": z,
					"date":    t.Date.Format("2006-01-02"),
				},
			})
		}
	}

	return out
}

// detectUnusualTiming buckets transactions by day of week and flags any day
// whose count exceeds both twice the per-day average and five in absolute
// terms. The finding is aggregate, so it carries no transaction ids.
func (e *Engine) detectUnusualTiming(txns []model.Transaction) []model.Anomaly {
	var counts [7]int
	var totals [7]float64
	for _, t := range txns {
		d := int(t.Date.Weekday())
		counts[d]++
		totals[d] += math.Abs(t.Amount)
	}

	avgPerDay := float64(len(txns)) / 7

	var out []model.Anomaly
	for d := 0; d < 7; d++ {
		if float64(counts[d]) <= 2*avgPerDay || counts[d] <= 5 {
			continue
		}

		day := time.Weekday(d)
		out = append(out, model.Anomaly{
			ID:             e.cfg.NewID(),
			Type:           model.AnomalyTypeUnusualTiming,
			Severity:       model.SeverityLow,
			TransactionIDs: []string{},
			Title:          fmt.Sprintf("Heavy activity on %ss", day),
			Description: fmt.Sprintf("%d transactions totalling $%.2f fell on a %s, well above your daily average of %.1f.",
				counts[d], totals[d], day, avgPerDay),
			Confidence:      70,
			SuggestedAction: model.ActionReview,
			Details: map[string]any{
				"day_of_week":   day.String(),
				"count":         counts[d],
				"total_amount":  totals[d],
				"daily_average": avgPerDay,
			},
		})
	}

	return out
}

// detectRapidSpending scans chronologically for bursts: at least
// RapidCountThreshold transactions inside a RapidWindowHours window. After a
// burst is emitted the scan jumps past it so one cluster produces one
// finding; the overlap check against already-emitted windows guards the
// same invariant if the jump is ever relaxed.
func (e *Engine) detectRapidSpending(txns []model.Transaction) []model.Anomaly {
	ordered := make([]model.Transaction, len(txns))
	copy(ordered, txns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	window := float64(e.cfg.RapidWindowHours)
	emitted := make(map[string]bool)

	var out []model.Anomaly
	for i := 0; i < len(ordered); {
		end := i
		var total float64
		for end < len(ordered) && ordered[end].Date.Sub(ordered[i].Date).Hours() <= window {
			total += math.Abs(ordered[end].Amount)
			end++
		}

		count := end - i
		if count < e.cfg.RapidCountThreshold {
			i++
			continue
		}

		overlap := false
		for k := i; k < end; k++ {
			if emitted[ordered[k].ID] {
				overlap = true
				break
			}
		}
		if overlap {
			i++
			continue
		}

		ids := make([]string, 0, count)
		for k := i; k < end; k++ {
			ids = append(ids, ordered[k].ID)
			emitted[ordered[k].ID] = true
		}

		severity := model.SeverityMedium
		if count >= 10 {
			severity = model.SeverityHigh
		}

		out = append(out, model.Anomaly{
			ID:             e.cfg.NewID(),
			Type:           model.AnomalyTypeUnusualFrequency,
			Severity:       severity,
			TransactionIDs: ids,
			Title:          fmt.Sprintf("%d transactions in %d hours", count, e.cfg.RapidWindowHours),
			Description: fmt.Sprintf("A burst of %d transactions totalling $%.2f starting %s.",
				count, total, ordered[i].Date.Format("2006-01-02")),
			Confidence:      75,
			SuggestedAction: model.ActionReview,
			Details: map[string]any{
				"count":        count,
				"total_amount": total,
				"window_hours": e.cfg.RapidWindowHours,
				"start":        ordered[i].Date.Format("2006-01-02"),
			},
		})

		i = end
	}

	return out
}

// AnomalySummary aggregates a finding list for display.
type AnomalySummary struct {
	Total      int                       `json:"total"`
	BySeverity map[model.Severity]int    `json:"by_severity"`
	ByType     map[model.AnomalyType]int `json:"by_type"`
}

// SummarizeAnomalies counts findings per severity and per type.
func SummarizeAnomalies(anomalies []model.Anomaly) AnomalySummary {
	summary := AnomalySummary{
		Total:      len(anomalies),
		BySeverity: make(map[model.Severity]int),
		ByType:     make(map[model.AnomalyType]int),
	}
	for _, a := range anomalies {
		summary.BySeverity[a.Severity]++
		summary.ByType[a.Type]++
	}
	return summary
}
