// Package schedule computes the named deadline map for a campaign window.
// Deadline names are a fixed vocabulary shared with the task catalog and the
// template engine; the arithmetic behind each name is the business rule, not
// an implementation detail.
package schedule

import (
	"errors"
	"fmt"
	"time"

	"promoforge/calendar"
)

// ErrInvalidRange is returned when the campaign end precedes its start.
var ErrInvalidRange = errors.New("campaign end precedes start")

// Deadline vocabulary. Every name is available to content templates; the
// tracker due date of each task type references one of these by name.
const (
	MasterTask             = "master_task"
	LocalTask              = "local_task"
	TextTask               = "text_task"
	DesignTaskStart        = "design_task_start"
	DesignTask             = "design_task"
	SettingTask            = "setting_task"
	EmailTask              = "email_task"
	ContentTask            = "content_task"
	SMMDate                = "smm_date"
	NewsPlacement          = "news_placement"
	NewsDeadline           = "news_deadline"
	EmailDeadline          = "email_deadline"
	BannerPlacement        = "banner_placement"
	BannerDeadline         = "banner_deadline"
	PagePlacement          = "page_placement"
	PageDeadline           = "page_deadline"
	MsngrPlacement         = "msngr_placement"
	PushPlacement          = "push_placement"
	MsngrPlacementDeadline = "msngr_placement_deadline"
	MsngrDeadline          = "msngr_deadline"
	PushDeadline           = "push_deadline"
	EndNewsPlacement       = "end_news_placement"
	EndNewsDeadline        = "end_news_deadline"
)

// names lists the vocabulary in report order.
var names = []string{
	MasterTask, LocalTask, TextTask, DesignTaskStart, DesignTask, SettingTask,
	EmailTask, ContentTask, SMMDate, NewsPlacement, NewsDeadline, EmailDeadline,
	BannerPlacement, BannerDeadline, PagePlacement, PageDeadline,
	MsngrPlacement, PushPlacement, MsngrPlacementDeadline,
	MsngrDeadline, PushDeadline, EndNewsPlacement, EndNewsDeadline,
}

// Names returns the deadline vocabulary in report order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Known reports whether name belongs to the deadline vocabulary.
func Known(name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// DeadlineMap maps a deadline name to its computed instant. Computed fresh per
// request and treated as immutable afterwards.
type DeadlineMap map[string]time.Time

// Scheduler derives deadline maps from campaign start/end instants using a
// holiday-aware calendar.
type Scheduler struct {
	cal *calendar.Calendar
}

// NewScheduler creates a scheduler on top of cal.
func NewScheduler(cal *calendar.Calendar) *Scheduler {
	return &Scheduler{cal: cal}
}

// Compute produces the full deadline map for a campaign window. The map is
// independent of the campaign kind: every kind draws its due dates from the
// same vocabulary. Fails with ErrInvalidRange before any further work when
// end < start.
func (s *Scheduler) Compute(start, end time.Time) (DeadlineMap, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start %s, end %s",
			ErrInvalidRange, start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))
	}

	d := make(DeadlineMap, len(names))

	d[MasterTask] = start
	d[LocalTask] = s.cal.ShiftWorkingDays(start, -2)
	d[TextTask] = s.cal.ShiftWorkingDays(d[LocalTask], -1)
	d[DesignTaskStart] = s.cal.ShiftWorkingDays(start, -3)
	d[DesignTask] = s.cal.ShiftWorkingDays(d[DesignTaskStart], -2)
	d[SettingTask] = d[DesignTaskStart]
	d[EmailTask] = s.cal.ShiftWorkingDays(start, -1)
	d[ContentTask] = s.cal.ShiftWorkingDays(start, -1)
	d[SMMDate] = s.cal.ShiftWorkingDays(start, -1)

	d[NewsPlacement] = s.cal.NearestWorkingDay(start, -1)
	d[NewsDeadline] = s.cal.ShiftWorkingDays(d[NewsPlacement], -2)
	d[EmailDeadline] = s.cal.ShiftWorkingDays(start, -2)
	d[BannerPlacement] = s.cal.NearestWorkingDay(start, -1)
	d[BannerDeadline] = s.cal.ShiftWorkingDays(d[BannerPlacement], -1)
	d[PagePlacement] = s.cal.ShiftWorkingDays(start, -1)
	d[PageDeadline] = s.cal.ShiftWorkingDays(d[PagePlacement], -1)

	// Messenger/push placements target start+1 and start+2 calendar days
	// with no working-day adjustment; the distribution team shifts them
	// independently. The matching deadlines follow the weekly-cadence rule.
	d[MsngrPlacement] = start.AddDate(0, 0, 1)
	d[PushPlacement] = start.AddDate(0, 0, 2)
	d[MsngrPlacementDeadline] = s.cal.ShiftWorkingDays(start, -1)
	d[MsngrDeadline], d[PushDeadline] = s.messengerAndPush(start)

	// The post-campaign news slot depends on when the campaign ends: past
	// 14:00 the next full working day is consumed, so placement moves one
	// working day out; otherwise the next working day itself is the slot.
	var endPlacement time.Time
	if end.Hour() > 14 {
		endPlacement = s.cal.ShiftWorkingDays(end, 1)
	} else {
		endPlacement = s.cal.NearestWorkingDay(end, 1)
	}
	d[EndNewsPlacement] = endPlacement
	d[EndNewsDeadline] = s.cal.ShiftWorkingDays(endPlacement, -1)

	return d, nil
}

// messengerAndPush derives the messenger and push deadlines from the start+1
// and start+2 candidates. When both candidates are non-working the campaign
// misses the weekly distribution window entirely, so each candidate walks
// backward one calendar day at a time to the preceding Thursday, the weekly
// cadence anchor; the holiday table is deliberately ignored in that walk.
// Otherwise each candidate independently moves one working day back.
func (s *Scheduler) messengerAndPush(start time.Time) (time.Time, time.Time) {
	msngr := start.AddDate(0, 0, 1)
	push := start.AddDate(0, 0, 2)

	if !s.cal.IsWorkingDay(msngr) && !s.cal.IsWorkingDay(push) {
		for msngr.Weekday() != time.Thursday {
			msngr = msngr.AddDate(0, 0, -1)
		}
		for push.Weekday() != time.Thursday {
			push = push.AddDate(0, 0, -1)
		}
		return msngr, push
	}

	return s.cal.ShiftWorkingDays(msngr, -1), s.cal.ShiftWorkingDays(push, -1)
}
