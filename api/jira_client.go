// Package api talks to the Jira REST API on behalf of the orchestrator.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"promoforge/config"
	"promoforge/models"
	"promoforge/utils"
)

// JiraClient implements the ticket service contract against Jira Cloud.
type JiraClient struct {
	cfg    *config.Config
	client *resty.Client
}

// NewJiraClient creates a new Jira client with basic auth and a per-call
// timeout taken from the configuration.
func NewJiraClient(cfg *config.Config) *JiraClient {
	client := resty.New().
		SetBaseURL(cfg.TrackerURL).
		SetBasicAuth(cfg.TrackerEmail, cfg.TrackerAPIToken).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Content-Type", "application/json")
	return &JiraClient{cfg: cfg, client: client}
}

// CheckAuth verifies the configured credentials against the tracker.
func (j *JiraClient) CheckAuth(ctx context.Context) error {
	resp, err := j.client.R().SetContext(ctx).Get("/rest/api/2/myself")
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("auth failed: %s", resp.String())
	}
	return nil
}

// GetContent fetches the summary and description of an existing ticket for
// use as a content pattern. Idempotent, retried on transient failures.
func (j *JiraClient) GetContent(ctx context.Context, ticketID string) (models.PatternContent, error) {
	var body struct {
		Fields struct {
			Summary     string `json:"summary"`
			Description string `json:"description"`
		} `json:"fields"`
	}

	err := j.withRetry(ctx, func(ctx context.Context) error {
		resp, err := j.client.R().
			SetContext(ctx).
			SetQueryParam("fields", "summary,description").
			SetResult(&body).
			Get("/rest/api/2/issue/" + ticketID)
		return checkResponse(resp, err, http.StatusOK)
	})
	if err != nil {
		return models.PatternContent{}, fmt.Errorf("fetch pattern %s: %w", ticketID, err)
	}

	return models.PatternContent{
		Summary:     body.Fields.Summary,
		Description: body.Fields.Description,
	}, nil
}

// CreateTicket creates one ticket and returns its key. Creation is never
// retried: a timed-out create may still have succeeded server-side, and a
// blind retry would duplicate the ticket.
func (j *JiraClient) CreateTicket(ctx context.Context, payload models.FieldPayload) (string, error) {
	var body struct {
		Key string `json:"key"`
	}

	resp, err := j.client.R().
		SetContext(ctx).
		SetBody(map[string]any{"fields": buildFields(payload)}).
		SetResult(&body).
		Post("/rest/api/2/issue")
	if err := checkResponse(resp, err, http.StatusCreated); err != nil {
		return "", fmt.Errorf("create ticket: %w", err)
	}
	if body.Key == "" {
		return "", fmt.Errorf("create ticket: response carries no issue key")
	}

	utils.LogInfo("created ticket %s (%s)", body.Key, payload.Summary)
	return body.Key, nil
}

// UpdateTicket replaces the fields of an existing ticket. Idempotent for our
// payloads, retried on transient failures.
func (j *JiraClient) UpdateTicket(ctx context.Context, ticketID string, payload models.FieldPayload) error {
	err := j.withRetry(ctx, func(ctx context.Context) error {
		resp, err := j.client.R().
			SetContext(ctx).
			SetBody(map[string]any{"fields": buildFields(payload)}).
			Put("/rest/api/2/issue/" + ticketID)
		return checkResponse(resp, err, http.StatusNoContent)
	})
	if err != nil {
		return fmt.Errorf("update ticket %s: %w", ticketID, err)
	}
	return nil
}

// CreateLink creates a typed link between two tickets.
func (j *JiraClient) CreateLink(ctx context.Context, kind models.LinkKind, fromID, toID string) error {
	err := j.withRetry(ctx, func(ctx context.Context) error {
		resp, err := j.client.R().
			SetContext(ctx).
			SetBody(map[string]any{
				"type":         map[string]string{"name": string(kind)},
				"inwardIssue":  map[string]string{"key": fromID},
				"outwardIssue": map[string]string{"key": toID},
			}).
			Post("/rest/api/2/issueLink")
		return checkResponse(resp, err, http.StatusCreated)
	})
	if err != nil {
		return fmt.Errorf("link %s %q %s: %w", fromID, kind, toID, err)
	}
	return nil
}

// BrowseURL renders the plain permalink of a ticket.
func (j *JiraClient) BrowseURL(key string) string {
	return j.cfg.BrowseHost + "/browse/" + key
}

// SmartLink renders the rich-text smart-link markup embedded in ticket
// descriptions.
func (j *JiraClient) SmartLink(key string) string {
	url := j.BrowseURL(key)
	return fmt.Sprintf("[%s|%s|smart-link]", url, url)
}

// withRetry runs fn with bounded exponential backoff. Transport errors and
// 5xx/429 responses are retried; anything else fails immediately.
func (j *JiraClient) withRetry(ctx context.Context, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(uint64(j.cfg.MaxRetries), retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		var re *responseError
		if errors.As(err, &re) && !re.retryable() {
			return err
		}
		return retry.RetryableError(err)
	})
}

type responseError struct {
	status int
	body   string
}

func (e *responseError) Error() string {
	return fmt.Sprintf("tracker returned %d: %s", e.status, e.body)
}

func (e *responseError) retryable() bool {
	return e.status >= http.StatusInternalServerError || e.status == http.StatusTooManyRequests
}

func checkResponse(resp *resty.Response, err error, want int) error {
	if err != nil {
		return err
	}
	if resp.StatusCode() != want {
		return &responseError{status: resp.StatusCode(), body: resp.String()}
	}
	return nil
}

// buildFields assembles the REST field object from a payload.
func buildFields(p models.FieldPayload) map[string]any {
	fields := map[string]any{
		"project":     map[string]string{"key": p.Project},
		"issuetype":   map[string]string{"name": p.IssueType},
		"summary":     p.Summary,
		"description": p.Description,
	}
	if p.DueDate != "" {
		fields["duedate"] = p.DueDate
	}
	if p.Labels != nil {
		fields["labels"] = p.Labels
	}
	if p.AssigneeID != "" {
		fields["assignee"] = map[string]string{"accountId": p.AssigneeID}
	}
	if len(p.Components) > 0 {
		components := make([]map[string]string, 0, len(p.Components))
		for _, c := range p.Components {
			components = append(components, map[string]string{"name": c})
		}
		fields["components"] = components
	}
	if p.ParentKey != "" {
		fields["parent"] = map[string]string{"key": p.ParentKey}
	}
	for k, v := range p.Extra {
		fields[k] = v
	}
	return fields
}
