package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Fleet Operations Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Trains: %d | Routes: %d\n\n", r.TrainCount, r.RouteCount))

	// Fleet Summary
	sb.WriteString("## Fleet Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Trips | %d |\n", r.FleetSummary.TotalTrips))
	sb.WriteString(fmt.Sprintf("| Completion Rate | %.4f |\n", r.FleetSummary.CompletionRate))
	sb.WriteString(fmt.Sprintf("| Total Revenue | %.2f |\n", r.FleetSummary.TotalRevenue))
	sb.WriteString(fmt.Sprintf("| Total Net Profit | %.2f |\n", r.FleetSummary.TotalNetProfit))
	sb.WriteString(fmt.Sprintf("| Total Distance (km) | %.1f |\n", r.FleetSummary.TotalDistanceKm))
	sb.WriteString(fmt.Sprintf("| Date Range Start (ms) | %d |\n", r.FleetSummary.DateRangeStart))
	sb.WriteString(fmt.Sprintf("| Date Range End (ms) | %d |\n", r.FleetSummary.DateRangeEnd))
	sb.WriteString("\n")

	// Train/Route Metrics
	sb.WriteString("## Train/Route Metrics\n\n")
	if len(r.PairMetrics) > 0 {
		sb.WriteString("| Train | Route | Trips | Completion | Mean | Median | P10 | P90 | MaxIncomplete |\n")
		sb.WriteString("|-------|-------|-------|------------|------|--------|-----|-----|---------------|\n")
		for _, m := range r.PairMetrics {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %.4f | %.2f | %.2f | %.2f | %.2f | %d |\n",
				m.TrainName, m.RouteName, m.TotalTrips, m.CompletionRate,
				m.NetProfitMean, m.NetProfitMedian, m.NetProfitP10, m.NetProfitP90,
				m.MaxConsecutiveIncomplete))
		}
	} else {
		sb.WriteString("No trips recorded.\n")
	}
	sb.WriteString("\n")

	// Track Condition
	sb.WriteString("## Track Condition\n\n")
	if len(r.RouteWear) > 0 {
		sb.WriteString("| Route | Segment | Distance (km) | Wear | Eff. Roughness | Maintenance |\n")
		sb.WriteString("|-------|---------|---------------|------|----------------|-------------|\n")
		for _, w := range r.RouteWear {
			due := ""
			if w.NeedsMaintenance {
				due = "DUE"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %.1f | %.4f | %.4f | %s |\n",
				w.RouteName, w.SegmentName, w.DistanceKm, w.WearLevel, w.EffectiveRoughness, due))
		}
	} else {
		sb.WriteString("No routes registered.\n")
	}
	sb.WriteString("\n")

	// Servicing
	sb.WriteString("## Servicing Queue\n\n")
	if len(r.Servicing) > 0 {
		sb.WriteString("| Train | Durability | Fuel | Repair | Refuel |\n")
		sb.WriteString("|-------|-----------|------|--------|--------|\n")
		for _, s := range r.Servicing {
			sb.WriteString(fmt.Sprintf("| %s | %.1f%% | %.1f | %s | %s |\n",
				s.TrainName, s.DurabilityPct*100, s.FuelLevel,
				flag(s.NeedsRepair), flag(s.NeedsRefuel)))
		}
	} else {
		sb.WriteString("All trains within service limits.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func flag(b bool) string {
	if b {
		return "YES"
	}
	return "-"
}
