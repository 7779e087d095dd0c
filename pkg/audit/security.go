// Package audit provides security audit logging for the admin surface.
// Events are emitted as structured JSON on a dedicated logger namespace so
// they can be filtered out of the regular application log and shipped to
// whatever is watching for abuse.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType categorizes security-relevant events for filtering and alerting.
type EventType string

const (
	// EventAdminLogin is logged on every admin login attempt.
	EventAdminLogin EventType = "admin_login"
	// EventTokenRejected is logged when the widget gate rejects a
	// slug/token pair. Bursts of these look like token guessing.
	EventTokenRejected EventType = "feedback_token_rejected"
	// EventFeedbackModerated is logged when an admin changes feedback
	// moderation state.
	EventFeedbackModerated EventType = "feedback_moderated"
	// EventFeedbackDeleted is logged when an admin deletes feedback.
	EventFeedbackDeleted EventType = "feedback_deleted"
	// EventProjectDeleted is logged when a project and its feedback are
	// removed.
	EventProjectDeleted EventType = "project_deleted"
	// EventFlagToggled is logged when a feature flag changes.
	EventFlagToggled EventType = "feature_flag_toggled"
)

// Event is one auditable action with the context needed to reconstruct it.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType EventType `json:"event_type"`
	Actor     string    `json:"actor,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	Details   any       `json:"details,omitempty"`
	Severity  string    `json:"severity"` // info, warning
}

// Auditor writes audit events to a namespaced logger.
type Auditor struct {
	logger *zap.Logger
}

// New creates an Auditor. The logger gets a "security_audit" namespace so
// downstream collectors can filter on it.
func New(logger *zap.Logger) *Auditor {
	return &Auditor{logger: logger.Named("security_audit")}
}

func (a *Auditor) record(event Event) {
	event.Timestamp = time.Now().UTC()

	// Marshaling known types does not fail.
	eventJSON, _ := json.Marshal(event)

	fields := []zap.Field{
		zap.String("event_json", string(eventJSON)),
		zap.String("event_type", string(event.EventType)),
		zap.String("actor", event.Actor),
		zap.String("client_ip", event.ClientIP),
		zap.String("severity", event.Severity),
	}

	if event.Severity == "warning" {
		a.logger.Warn(string(event.EventType), fields...)
		return
	}
	a.logger.Info(string(event.EventType), fields...)
}

// LoginAttempt records an admin login, successful or not. Failures are
// warnings: repeated ones from the same IP are the signal worth alerting on.
func (a *Auditor) LoginAttempt(email, clientIP string, success bool) {
	severity := "info"
	if !success {
		severity = "warning"
	}
	a.record(Event{
		EventType: EventAdminLogin,
		Actor:     email,
		ClientIP:  clientIP,
		Details:   map[string]bool{"success": success},
		Severity:  severity,
	})
}

// TokenRejected records a failed widget gate check. The submitted slug is
// logged; the submitted token is not.
func (a *Auditor) TokenRejected(projectSlug, clientIP string) {
	a.record(Event{
		EventType: EventTokenRejected,
		ClientIP:  clientIP,
		Details:   map[string]string{"project_slug": projectSlug},
		Severity:  "warning",
	})
}

// FeedbackModerated records a moderation state change.
func (a *Auditor) FeedbackModerated(feedbackID uuid.UUID, status, actor string) {
	a.record(Event{
		EventType: EventFeedbackModerated,
		Actor:     actor,
		Details: map[string]string{
			"feedback_id": feedbackID.String(),
			"status":      status,
		},
		Severity: "info",
	})
}

// FeedbackDeleted records a feedback deletion.
func (a *Auditor) FeedbackDeleted(feedbackID uuid.UUID, actor string) {
	a.record(Event{
		EventType: EventFeedbackDeleted,
		Actor:     actor,
		Details:   map[string]string{"feedback_id": feedbackID.String()},
		Severity:  "info",
	})
}

// ProjectDeleted records a project deletion, which cascades to feedback.
func (a *Auditor) ProjectDeleted(projectSlug, actor string) {
	a.record(Event{
		EventType: EventProjectDeleted,
		Actor:     actor,
		Details:   map[string]string{"project_slug": projectSlug},
		Severity:  "info",
	})
}

// FlagToggled records a feature flag change.
func (a *Auditor) FlagToggled(flag string, enabled bool, actor string) {
	a.record(Event{
		EventType: EventFlagToggled,
		Actor:     actor,
		Details: map[string]any{
			"flag":    flag,
			"enabled": enabled,
		},
		Severity: "info",
	})
}
