package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

// Notification kinds published to the queue by the API and rendered by
// the worker.
const (
	KindWelcome          = "welcome"
	KindRoleChanged      = "role_changed"
	KindStrategyApproved = "strategy_approved"
	KindStrategyRejected = "strategy_rejected"
)

// NotificationJob is the JSON payload put on the RabbitMQ queue.
// Data keys depend on Kind: DisplayName always; Role for role_changed;
// StrategyName for the strategy kinds.
type NotificationJob struct {
	To   string            `json:"to"`
	Kind string            `json:"kind"`
	Data map[string]string `json:"data,omitempty"`
}

var subjects = map[string]string{
	KindWelcome:          "Welcome to QuantDeck",
	KindRoleChanged:      "Your QuantDeck role has changed",
	KindStrategyApproved: "Strategy approved",
	KindStrategyRejected: "Strategy rejected",
}

var bodies = map[string]*template.Template{
	KindWelcome: template.Must(template.New(KindWelcome).Parse(
		`<p>Hi {{.DisplayName}},</p><p>Your account is ready. Submit a strategy to the advisor to get your first analysis.</p>`)),
	KindRoleChanged: template.Must(template.New(KindRoleChanged).Parse(
		`<p>Hi {{.DisplayName}},</p><p>An administrator changed your role to <b>{{.Role}}</b>. The change applies the next time your session refreshes.</p>`)),
	KindStrategyApproved: template.Must(template.New(KindStrategyApproved).Parse(
		`<p>Hi {{.DisplayName}},</p><p>Your strategy <b>{{.StrategyName}}</b> was approved. You can start it from your dashboard.</p>`)),
	KindStrategyRejected: template.Must(template.New(KindStrategyRejected).Parse(
		`<p>Hi {{.DisplayName}},</p><p>Your strategy <b>{{.StrategyName}}</b> was rejected by the review team.</p>`)),
}

// Render produces the subject and HTML body for a job.
func Render(job NotificationJob) (subject, html string, err error) {
	subject, ok := subjects[job.Kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", job.Kind)
	}
	tpl := bodies[job.Kind]
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, job.Data); err != nil {
		return "", "", err
	}
	return subject, buf.String(), nil
}
