package stats

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type CsvStatsRenderer struct {
}

func NewCsvStatsRenderer() *CsvStatsRenderer {
	return &CsvStatsRenderer{}
}

// RenderStats writes one row per day followed by the week total:
//
//	Date,Sessions,Excluded,Time
//	02/01/2023,3,0,03:00:00
//	...
//	Total,12,1,18:30:00
func (r *CsvStatsRenderer) RenderStats(stats WeeklyStats) (string, error) {
	data := make([][]string, 0, len(stats.Days)+2)
	data = append(data, []string{"Date", "Sessions", "Excluded", "Time"})

	sessions, excluded := 0, 0
	for _, day := range stats.Days {
		date := day.Date
		if parsed, err := time.Parse(time.DateOnly, day.Date); err == nil {
			date = parsed.Format("02/01/2006")
		}
		data = append(data, []string{
			date,
			strconv.Itoa(day.Sessions),
			strconv.Itoa(day.Excluded),
			durationToString(day.TotalTime),
		})
		sessions += day.Sessions
		excluded += day.Excluded
	}
	data = append(data, []string{"Total", strconv.Itoa(sessions), strconv.Itoa(excluded), durationToString(stats.TotalTime)})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func durationToString(duration time.Duration) string {
	hours := strconv.Itoa(int(duration.Hours()))
	if len(hours) == 1 {
		hours = "0" + hours
	}
	minutes := strconv.Itoa(int(duration.Minutes()) % 60)
	if len(minutes) == 1 {
		minutes = "0" + minutes
	}
	seconds := strconv.Itoa(int(duration.Seconds()) % 60)
	if len(seconds) == 1 {
		seconds = "0" + seconds
	}
	return hours + ":" + minutes + ":" + seconds
}
