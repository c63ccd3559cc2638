package models

// PatternContent holds the summary/description templates mined from an
// existing tracker ticket that serves as the content pattern for a task type.
type PatternContent struct {
	Summary     string
	Description string
}

// FieldPayload is the concrete set of ticket fields produced by one render
// pass for one task type. A fresh value is built per profile per phase and is
// never mutated after construction.
type FieldPayload struct {
	Project     string
	IssueType   string
	Summary     string
	Description string
	DueDate     string // tracker date format, 2006-01-02
	Labels      []string
	AssigneeID  string
	Components  []string
	ParentKey   string
	// Extra carries tracker-specific fields (custom field ids etc.) already
	// rendered to their final values.
	Extra map[string]any
}

// LinkKind names a cross-ticket link type using the tracker's own vocabulary.
type LinkKind string

const (
	LinkCauses    LinkKind = "causes"
	LinkBlockedBy LinkKind = "is blocked by"
	LinkRelatesTo LinkKind = "relates to"
)

// CreatedTask is the result of creating one ticket during a run.
type CreatedTask struct {
	Name string // profile name, e.g. main_task
	Key  string // tracker issue key, e.g. PRMR-12345
	URL  string // plain permalink
	Link string // smart-link markup for embedding in descriptions
}

// ProgressEvent is one step of the ordered progress stream emitted during a
// run. Step is monotonically increasing; Total is fixed when the run starts.
type ProgressEvent struct {
	Step  int
	Total int
	Label string
}

// RunStatus classifies the overall outcome of an orchestration run.
type RunStatus int

const (
	// RunSucceeded means every ticket was created, linked and finalized.
	RunSucceeded RunStatus = iota
	// RunDegraded means all tickets were created but some link or update
	// calls failed; the affected tickets keep their placeholder tokens.
	RunDegraded
	// RunFailed means ticket creation aborted partway. Created holds the
	// tickets that already exist; they are not rolled back.
	RunFailed
)

func (s RunStatus) String() string {
	switch s {
	case RunSucceeded:
		return "succeeded"
	case RunDegraded:
		return "degraded"
	case RunFailed:
		return "failed"
	}
	return "unknown"
}

// RunResult is returned from every orchestration run, including failed ones,
// so the caller always knows exactly which profiles produced a ticket.
type RunResult struct {
	RunID        string
	Status       RunStatus
	PrimaryLink  string
	Created      map[string]CreatedTask
	LinkErrors   []error
	UpdateErrors []error
}
