package schedule

// Date layouts used in rendered content. ISO feeds tracker date fields; the
// day-first forms appear inside human-facing summaries and descriptions.
const (
	layoutISO   = "2006-01-02"
	layoutDayMY = "02-01-2006"
	layoutShort = "02/01"
)

// varFormats defines every template variable derived from the deadline map.
// Several deadlines are exposed more than once under suffixed names because
// the content patterns embed them in different spots: ISO values go into
// tracker fields, _d forms into body text, _s/_title forms into summaries.
var varFormats = []struct {
	key    string
	source string
	layout string
}{
	{MasterTask, MasterTask, layoutISO},
	{"master_task_d", MasterTask, layoutShort},
	{LocalTask, LocalTask, layoutISO},
	{"local_task_d", LocalTask, layoutShort},
	{TextTask, TextTask, layoutISO},
	{"text_task_d", TextTask, layoutDayMY},
	{DesignTaskStart, DesignTaskStart, layoutDayMY},
	{DesignTask, DesignTask, layoutISO},
	{"design_task_d", DesignTask, layoutDayMY},
	{SettingTask, SettingTask, layoutISO},
	{"setting_task_d", SettingTask, layoutShort},
	{EmailTask, EmailTask, layoutISO},
	{ContentTask, ContentTask, layoutDayMY},
	{SMMDate, SMMDate, layoutDayMY},
	{NewsPlacement, NewsPlacement, layoutDayMY},
	{NewsDeadline, NewsDeadline, layoutDayMY},
	{EmailDeadline, EmailDeadline, layoutDayMY},
	{BannerPlacement, BannerPlacement, layoutDayMY},
	{BannerDeadline, BannerDeadline, layoutDayMY},
	{PagePlacement, PagePlacement, layoutISO},
	{"page_placement_d", PagePlacement, layoutDayMY},
	{"page_placement_s", PagePlacement, layoutShort},
	{PageDeadline, PageDeadline, layoutDayMY},
	{"page_deadline_title", PageDeadline, layoutShort},
	{MsngrPlacement, MsngrPlacement, layoutDayMY},
	{PushPlacement, PushPlacement, layoutDayMY},
	{MsngrPlacementDeadline, MsngrPlacementDeadline, layoutISO},
	{MsngrDeadline, MsngrDeadline, layoutDayMY},
	{PushDeadline, PushDeadline, layoutDayMY},
	{EndNewsPlacement, EndNewsPlacement, layoutDayMY},
	{EndNewsDeadline, EndNewsDeadline, layoutDayMY},
}

// TemplateVars flattens the deadline map into the string variables consumed
// by content templates, including the suffixed format variants.
func (d DeadlineMap) TemplateVars() map[string]string {
	vars := make(map[string]string, len(varFormats))
	for _, f := range varFormats {
		t, ok := d[f.source]
		if !ok {
			continue
		}
		vars[f.key] = t.Format(f.layout)
	}
	return vars
}

// DueDate returns the tracker-format due date for a deadline name, or the
// empty string when the name is absent.
func (d DeadlineMap) DueDate(name string) string {
	t, ok := d[name]
	if !ok {
		return ""
	}
	return t.Format(layoutISO)
}
