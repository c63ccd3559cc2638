package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"promoforge/calendar"
	"promoforge/config"
	"promoforge/schedule"
	"promoforge/utils"
)

// Prints the computed deadline map for a campaign window, for planners who
// want the dates without creating any tickets.
func main() {
	startStr := flag.String("start", "", "campaign start, 2006-01-02 or 2006-01-02 15:04")
	endStr := flag.String("end", "", "campaign end, 2006-01-02 or 2006-01-02 15:04")
	flag.Parse()
	defer utils.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("loading configuration: %v", err)
		os.Exit(1)
	}

	start, err := parseInstant(*startStr)
	if err != nil {
		utils.LogError("invalid -start: %v", err)
		os.Exit(1)
	}
	end, err := parseInstant(*endStr)
	if err != nil {
		utils.LogError("invalid -end: %v", err)
		os.Exit(1)
	}

	cal := calendar.New(cfg.ExtraHolidays...)
	deadlines, err := schedule.NewScheduler(cal).Compute(start, end)
	if err != nil {
		utils.LogError("computing deadlines: %v", err)
		os.Exit(1)
	}

	for _, name := range schedule.Names() {
		fmt.Printf("%-26s %s\n", name, deadlines[name].Format("Mon 02-01-2006"))
	}
}

func parseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("value is required")
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
