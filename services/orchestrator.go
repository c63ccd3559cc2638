// Package services drives the multi-phase creation of a campaign's task
// graph: render every selected task type from its content pattern, create the
// tickets in declared order, wire the cross-ticket links, then re-render each
// description with the now-known permalinks.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"promoforge/catalog"
	"promoforge/models"
	"promoforge/render"
	"promoforge/schedule"
	"promoforge/utils"
)

// TicketService is the external issue tracker as the orchestrator sees it.
type TicketService interface {
	GetContent(ctx context.Context, ticketID string) (models.PatternContent, error)
	CreateTicket(ctx context.Context, payload models.FieldPayload) (string, error)
	UpdateTicket(ctx context.Context, ticketID string, payload models.FieldPayload) error
	CreateLink(ctx context.Context, kind models.LinkKind, fromID, toID string) error
	BrowseURL(key string) string
	SmartLink(key string) string
}

// ProgressFunc receives the ordered progress stream of a run. Purely
// observational; it never affects control flow.
type ProgressFunc func(models.ProgressEvent)

// Request is the invocation surface of one orchestration run.
type Request struct {
	Kind       string
	Tasks      []string
	Start      time.Time
	End        time.Time
	Meta       map[string]string
	AssigneeID string
}

// Orchestrator executes task-graph runs. Safe for concurrent use: each run
// holds no state beyond the read-only catalog and calendar.
type Orchestrator struct {
	cat      *catalog.Catalog
	sched    *schedule.Scheduler
	svc      TicketService
	log      *zap.SugaredLogger
	progress ProgressFunc
}

// NewOrchestrator wires an orchestrator from its collaborators.
func NewOrchestrator(cat *catalog.Catalog, sched *schedule.Scheduler, svc TicketService) *Orchestrator {
	return &Orchestrator{
		cat:   cat,
		sched: sched,
		svc:   svc,
		log:   utils.Logger(),
	}
}

// SetProgress installs a progress callback for subsequent runs.
func (o *Orchestrator) SetProgress(fn ProgressFunc) {
	o.progress = fn
}

// Run executes the full pipeline for one campaign. The returned result is
// meaningful even on error: Created always lists exactly the tickets that
// exist in the tracker.
func (o *Orchestrator) Run(ctx context.Context, req Request) (models.RunResult, error) {
	result := models.RunResult{
		RunID:   uuid.NewString(),
		Status:  models.RunFailed,
		Created: make(map[string]models.CreatedTask),
	}
	log := o.log.With("run_id", result.RunID, "kind", req.Kind)

	kind, ok := o.cat.Kind(req.Kind)
	if !ok {
		return result, fmt.Errorf("%w: %s", ErrUnknownKind, req.Kind)
	}

	deadlines, err := o.sched.Compute(req.Start, req.End)
	if err != nil {
		return result, err
	}

	// Collecting: requested names outside the kind's profiles are ignored.
	selected := kind.Select(req.Tasks)
	if len(selected) == 0 {
		return result, fmt.Errorf("%w for kind %s", ErrNoTasksSelected, req.Kind)
	}

	total := 5 * len(selected)
	step := 0
	emit := func(label string) {
		step++
		if o.progress != nil {
			o.progress(models.ProgressEvent{Step: step, Total: total, Label: label})
		}
	}
	for _, p := range selected {
		emit("collect " + p.Name)
	}
	log.Infow("run collected", "tasks", len(selected))

	vars := o.buildVars(deadlines, req.Meta)

	// Rendering, pass one: cross-task links become literal placeholder
	// tokens so the rendered text stays a valid template for finalization.
	payloads := make(map[string]models.FieldPayload, len(selected))
	phaseOne := render.WithPlaceholders(vars)
	for _, p := range selected {
		content, err := o.svc.GetContent(ctx, p.Pattern)
		if err != nil {
			return result, fmt.Errorf("rendering %s: %w", p.Name, err)
		}
		payload, err := render.BuildPayload(p, content, phaseOne, req.AssigneeID, deadlines.DueDate(p.Due))
		if err != nil {
			return result, err
		}
		payloads[p.Name] = payload
		emit("render " + p.Name)
	}

	// Creating: declared order, main task first. A failure aborts the run;
	// already-created tickets stay (no compensating transaction exists).
	for _, p := range selected {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		key, err := o.svc.CreateTicket(ctx, payloads[p.Name])
		if err != nil {
			log.Errorw("creation aborted", "profile", p.Name, "error", err)
			return result, &CreationError{Profile: p.Name, Err: err}
		}
		result.Created[p.Name] = models.CreatedTask{
			Name: p.Name,
			Key:  key,
			URL:  o.svc.BrowseURL(key),
			Link: o.svc.SmartLink(key),
		}
		emit("create " + p.Name)
	}

	// Linking: best effort, failures logged and collected.
	links := kind.Links(result.Created)
	for _, p := range selected {
		if _, ok := result.Created[p.Name]; !ok {
			continue
		}
		for _, l := range links {
			if l.To != p.Name {
				continue
			}
			err := o.svc.CreateLink(ctx, l.Kind, result.Created[l.From].Key, result.Created[l.To].Key)
			if err != nil {
				le := &LinkError{Kind: l.Kind, From: l.From, To: l.To, Err: err}
				log.Warnw("link failed", "from", l.From, "to", l.To, "kind", l.Kind, "error", err)
				result.LinkErrors = append(result.LinkErrors, le)
			}
		}
		emit("link " + p.Name)
	}

	// Finalizing: re-render descriptions with resolved links. Profiles that
	// were not selected keep their literal placeholder tokens.
	finalVars := render.WithPlaceholders(vars)
	for name, ct := range result.Created {
		finalVars[name] = ct.Link
	}
	for _, p := range selected {
		ct := result.Created[p.Name]
		payload := payloads[p.Name]
		description, err := render.Render(payload.Description, finalVars)
		if err != nil {
			ue := &UpdateError{Profile: p.Name, Key: ct.Key, Err: err}
			log.Warnw("finalize render failed", "profile", p.Name, "error", err)
			result.UpdateErrors = append(result.UpdateErrors, ue)
			emit("finalize " + p.Name)
			continue
		}
		payload.Description = description
		if err := o.svc.UpdateTicket(ctx, ct.Key, payload); err != nil {
			ue := &UpdateError{Profile: p.Name, Key: ct.Key, Err: err}
			log.Warnw("finalize update failed", "profile", p.Name, "error", err)
			result.UpdateErrors = append(result.UpdateErrors, ue)
		}
		emit("finalize " + p.Name)
	}

	result.PrimaryLink = o.primaryLink(selected, result.Created)
	result.Status = models.RunSucceeded
	if len(result.LinkErrors) > 0 || len(result.UpdateErrors) > 0 {
		result.Status = models.RunDegraded
	}
	log.Infow("run finished", "status", result.Status.String(), "created", len(result.Created))
	return result, nil
}

// buildVars merges the deadline variables with campaign metadata and derived
// entries. Metadata wins on collision.
func (o *Orchestrator) buildVars(deadlines schedule.DeadlineMap, meta map[string]string) map[string]string {
	vars := deadlines.TemplateVars()
	for k, v := range meta {
		vars[k] = v
	}
	if manager, ok := o.cat.Managers[meta["project"]]; ok {
		vars["project_manager"] = manager
	}
	return vars
}

// primaryLink prefers the main task; with no main task the created profile
// with the smallest declared creation order wins.
func (o *Orchestrator) primaryLink(selected []catalog.Profile, created map[string]models.CreatedTask) string {
	if ct, ok := created["main_task"]; ok {
		return ct.URL
	}
	for _, p := range selected {
		if ct, ok := created[p.Name]; ok {
			return ct.URL
		}
	}
	return ""
}
