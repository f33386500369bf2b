// Package notification renders and sends the transactional emails of the
// application and interview workflows. Sending is best effort: failures are
// logged and reported in Result, never returned as errors.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"jobhub/internal/domain/application"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

var (
	ErrRecipientRequired   = errors.New("recipient email is required")
	ErrUnsupportedDecision = errors.New("decision must be ACCEPTED or REJECTED")
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Result struct {
	Sent  bool   `json:"sent"`
	Error string `json:"error,omitempty"`
}

type DecisionInput struct {
	To            string
	JobseekerName string
	JobTitle      string
	CompanyName   string
	Decision      application.Status
	Message       string
	NextSteps     string
}

type InterviewInput struct {
	To              string
	JobseekerName   string
	JobTitle        string
	CompanyName     string
	Title           string
	ScheduledAt     time.Time
	DurationMinutes int
	MeetingType     string
	MeetingURL      string
	Location        string
	Reason          string
}

// WIB is the zone used for dates in email bodies.
var WIB = time.FixedZone("WIB", 7*60*60)

type Dispatcher struct {
	mailer Mailer
	logger *zap.Logger
	appURL string
}

func NewDispatcher(mailer Mailer, appURL string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{mailer: mailer, logger: logger, appURL: strings.TrimRight(appURL, "/")}
}

func (d *Dispatcher) SendApplicationDecision(ctx context.Context, in DecisionInput) Result {
	var (
		tpl     *template.Template
		subject string
	)
	switch in.Decision {
	case application.StatusAccepted:
		tpl, subject = acceptedTemplate, fmt.Sprintf("Selamat! Lamaran Anda untuk %s diterima", in.JobTitle)
	case application.StatusRejected:
		tpl, subject = rejectedTemplate, fmt.Sprintf("Update lamaran Anda untuk %s", in.JobTitle)
	default:
		return d.fail("application_decision", in.To, ErrUnsupportedDecision)
	}
	return d.send(ctx, "application_decision", in.To, subject, tpl, d.decisionData(in))
}

func (d *Dispatcher) SendInterviewInvitation(ctx context.Context, in InterviewInput) Result {
	subject := fmt.Sprintf("Undangan interview: %s - %s", in.JobTitle, in.CompanyName)
	return d.send(ctx, "interview_invitation", in.To, subject, invitationTemplate, d.interviewData(in))
}

func (d *Dispatcher) SendInterviewRescheduled(ctx context.Context, in InterviewInput) Result {
	subject := fmt.Sprintf("Jadwal interview diubah: %s - %s", in.JobTitle, in.CompanyName)
	return d.send(ctx, "interview_rescheduled", in.To, subject, rescheduledTemplate, d.interviewData(in))
}

func (d *Dispatcher) SendInterviewCancelled(ctx context.Context, in InterviewInput) Result {
	subject := fmt.Sprintf("Interview dibatalkan: %s - %s", in.JobTitle, in.CompanyName)
	return d.send(ctx, "interview_cancelled", in.To, subject, cancelledTemplate, d.interviewData(in))
}

func (d *Dispatcher) send(ctx context.Context, kind, to, subject string, tpl *template.Template, data any) Result {
	to = strings.TrimSpace(to)
	if to == "" {
		return d.fail(kind, to, ErrRecipientRequired)
	}
	if d.mailer == nil {
		return d.fail(kind, to, errors.New("no mail transport configured"))
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return d.fail(kind, to, errors.Wrap(err, "render template"))
	}

	if err := d.mailer.Send(ctx, Message{To: to, Subject: subject, HTML: buf.String()}); err != nil {
		return d.fail(kind, to, err)
	}
	d.logger.Info("email sent", zap.String("kind", kind), zap.String("to", to))
	return Result{Sent: true}
}

func (d *Dispatcher) fail(kind, to string, err error) Result {
	d.logger.Warn("email not sent", zap.String("kind", kind), zap.String("to", to), zap.Error(err))
	return Result{Sent: false, Error: err.Error()}
}

type decisionData struct {
	Name        string
	JobTitle    string
	CompanyName string
	Message     string
	NextSteps   string
	AppURL      string
}

func (d *Dispatcher) decisionData(in DecisionInput) decisionData {
	return decisionData{
		Name:        displayName(in.JobseekerName),
		JobTitle:    in.JobTitle,
		CompanyName: in.CompanyName,
		Message:     strings.TrimSpace(in.Message),
		NextSteps:   strings.TrimSpace(in.NextSteps),
		AppURL:      d.appURL,
	}
}

type interviewData struct {
	Name        string
	JobTitle    string
	CompanyName string
	Title       string
	When        string
	Duration    int
	Online      bool
	MeetingType string
	MeetingURL  string
	Location    string
	Reason      string
	AppURL      string
}

func (d *Dispatcher) interviewData(in InterviewInput) interviewData {
	return interviewData{
		Name:        displayName(in.JobseekerName),
		JobTitle:    in.JobTitle,
		CompanyName: in.CompanyName,
		Title:       in.Title,
		When:        FormatWIB(in.ScheduledAt),
		Duration:    in.DurationMinutes,
		Online:      strings.TrimSpace(in.MeetingURL) != "",
		MeetingType: meetingLabel(in.MeetingType),
		MeetingURL:  in.MeetingURL,
		Location:    in.Location,
		Reason:      strings.TrimSpace(in.Reason),
		AppURL:      d.appURL,
	}
}

func displayName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Pencari Kerja"
	}
	return name
}

func meetingLabel(t string) string {
	switch t {
	case "GOOGLE_MEET":
		return "Google Meet"
	case "ZOOM":
		return "Zoom"
	case "IN_PERSON":
		return "Tatap muka"
	default:
		return t
	}
}

var (
	dayNames   = [...]string{"Minggu", "Senin", "Selasa", "Rabu", "Kamis", "Jumat", "Sabtu"}
	monthNames = [...]string{"Januari", "Februari", "Maret", "April", "Mei", "Juni", "Juli", "Agustus", "September", "Oktober", "November", "Desember"}
)

// FormatWIB renders t as "Senin, 2 Maret 2026 16:00 WIB".
func FormatWIB(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	w := t.In(WIB)
	return fmt.Sprintf("%s, %d %s %d %02d:%02d WIB",
		dayNames[w.Weekday()], w.Day(), monthNames[w.Month()-1], w.Year(), w.Hour(), w.Minute())
}
