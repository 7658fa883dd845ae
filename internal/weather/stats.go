package weather

import "time"

// Summarize aggregates observations into a StatsSummary covering the window
// [from, to]. The second return value is false when there is nothing to
// aggregate, so callers never see a NaN-bearing summary.
func Summarize(records []Observation, from, to time.Time) (StatsSummary, bool) {
	if len(records) == 0 {
		return StatsSummary{}, false
	}

	var (
		sumTemp     float64
		sumHumidity float64
		sumPressure float64
	)

	minTemp := records[0].TemperatureCelsius
	maxTemp := records[0].TemperatureCelsius
	cities := make(map[string]struct{})

	for _, r := range records {
		sumTemp += r.TemperatureCelsius
		sumHumidity += r.Humidity
		sumPressure += r.Pressure

		if r.TemperatureCelsius < minTemp {
			minTemp = r.TemperatureCelsius
		}
		if r.TemperatureCelsius > maxTemp {
			maxTemp = r.TemperatureCelsius
		}

		cities[r.City] = struct{}{}
	}

	n := float64(len(records))

	return StatsSummary{
		TotalRecords:   len(records),
		AvgTemperature: sumTemp / n,
		MinTemperature: minTemp,
		MaxTemperature: maxTemp,
		AvgHumidity:    sumHumidity / n,
		AvgPressure:    sumPressure / n,
		CitiesCovered:  len(cities),
		RangeStart:     from,
		RangeEnd:       to,
	}, true
}
