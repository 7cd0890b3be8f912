package dialogue

import (
	"fmt"
	"time"
)

// meetingWindow resolves a YYYY-MM-DD date and HH:mm time in loc into a
// start and end instant.
func meetingWindow(date, clock string, loc *time.Location, durationMin int) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid meeting time %q %q: %w", date, clock, err)
	}
	return start, start.Add(time.Duration(durationMin) * time.Minute), nil
}

func formatWindow(start, end time.Time) string {
	return fmt.Sprintf("%s, %s-%s %s",
		start.Format("Mon 02 Jan 2006"),
		start.Format("15:04"),
		end.Format("15:04"),
		start.Format("MST"),
	)
}
