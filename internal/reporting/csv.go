package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the train/route metrics table as CSV string.
func RenderCSV(rows []PairMetricRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("train_name,route_name,total_trips,completion_rate,")
	sb.WriteString("net_profit_mean,net_profit_median,net_profit_p10,net_profit_p90,")
	sb.WriteString("max_consecutive_incomplete\n")

	// Rows
	for _, m := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%d\n",
			m.TrainName,
			m.RouteName,
			m.TotalTrips,
			m.CompletionRate,
			m.NetProfitMean,
			m.NetProfitMedian,
			m.NetProfitP10,
			m.NetProfitP90,
			m.MaxConsecutiveIncomplete,
		))
	}

	return sb.String()
}
