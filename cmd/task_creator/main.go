package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"promoforge/api"
	"promoforge/calendar"
	"promoforge/catalog"
	"promoforge/config"
	"promoforge/models"
	"promoforge/schedule"
	"promoforge/services"
	"promoforge/utils"
)

// metaFlags collects repeated -meta key=value pairs.
type metaFlags map[string]string

func (m metaFlags) String() string {
	pairs := make([]string, 0, len(m))
	for k, v := range m {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func (m metaFlags) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("meta must be key=value, got %q", value)
	}
	m[key] = val
	return nil
}

func main() {
	kind := flag.String("kind", "", "campaign kind (see -list-kinds)")
	tasks := flag.String("tasks", "", "comma-separated task types to create")
	startStr := flag.String("start", "", "campaign start, 2006-01-02 or 2006-01-02 15:04")
	endStr := flag.String("end", "", "campaign end, 2006-01-02 or 2006-01-02 15:04")
	assignee := flag.String("assignee", "", "tracker account id to assign created tickets to")
	listKinds := flag.Bool("list-kinds", false, "print supported campaign kinds and exit")
	meta := metaFlags{}
	flag.Var(meta, "meta", "campaign metadata key=value (repeatable)")
	flag.Parse()
	defer utils.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		utils.LogError("loading configuration: %v", err)
		os.Exit(1)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		utils.LogError("loading task catalog: %v", err)
		os.Exit(1)
	}

	if *listKinds {
		for _, name := range cat.KindNames() {
			fmt.Println(name)
		}
		return
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

	if _, ok := meta["parent"]; !ok && cfg.DefaultParent != "" {
		meta["parent"] = cfg.DefaultParent
	}

	cal := calendar.New(cfg.ExtraHolidays...)
	sched := schedule.NewScheduler(cal)
	jira := api.NewJiraClient(cfg)
	orch := services.NewOrchestrator(cat, sched, jira)
	orch.SetProgress(func(ev models.ProgressEvent) {
		fmt.Printf("[%d/%d] %s\n", ev.Step, ev.Total, ev.Label)
	})

	startTime := time.Now()
	result, err := orch.Run(context.Background(), services.Request{
		Kind:       *kind,
		Tasks:      strings.Split(*tasks, ","),
		Start:      start,
		End:        end,
		Meta:       meta,
		AssigneeID: *assignee,
	})

	for name, ct := range result.Created {
		fmt.Printf("%-22s %-12s %s\n", name, ct.Key, ct.URL)
	}
	if err != nil {
		utils.LogError("run %s failed: %v", result.RunID, err)
		os.Exit(1)
	}
	for _, le := range result.LinkErrors {
		utils.LogWarn("%v", le)
	}
	for _, ue := range result.UpdateErrors {
		utils.LogWarn("%v", ue)
	}

	fmt.Printf("\nstatus:  %s\nprimary: %s\n", result.Status, result.PrimaryLink)
	utils.TrackTime(startTime, "task creation")
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath != "" {
		return catalog.LoadFile(cfg.CatalogPath)
	}
	return catalog.Load()
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
