package telegram

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/Roma7-7-7/salon-notifier/internal/appointments"
)

const (
	noAppointmentsToday     = "No appointments today."
	noAppointmentsTodayCmd  = "No appointments for today! 🎉"
	noAppointmentsThisMonth = "No appointments this month. 🗓"
)

var funcs = template.FuncMap{
	"clock":   func(t time.Time) string { return t.Format("15:04") },
	"date":    func(t time.Time) string { return t.Format("02/01/2006") },
	"day":     func(t time.Time) string { return t.Format("02/01") },
	"weekday": func(t time.Time) string { return t.Format("Mon") },
	"month":   func(t time.Time) string { return t.Format("January 2006") },
}

var reminderTemplate = template.Must(template.New("reminder").Funcs(funcs).Parse(
	`⏰ Upcoming appointment at {{.At | clock}} ({{.At | date}})
👤 {{.ClientName}}
💇 {{.Service}}{{if .Category}} ({{.Category}}){{end}}
`))

var digestTemplate = template.Must(template.New("digest").Funcs(funcs).Parse(
	`📅 Appointments for today, {{.Day | date}}:
{{- range .Items}}
- {{.At | clock}} {{.ClientName}} - {{.Service}}
{{- end}}
Total: {{len .Items}}
`))

var todayTemplate = template.Must(template.New("today").Funcs(funcs).Parse(
	`Today's appointments:
{{- range .}}
- {{.At | clock}} {{.ClientName}} - {{.Service}}
{{- end}}
`))

var monthTemplate = template.Must(template.New("month").Funcs(funcs).Parse(
	`Appointments for {{.Day | month}}:
{{- range .Items}}
- {{.At | day}} {{.At | weekday}} {{.At | clock}} {{.ClientName}} - {{.Service}}
{{- end}}
`))

type agendaData struct {
	Day   time.Time
	Items []appointments.Scheduled
}

func RenderReminder(s appointments.Scheduled) (string, error) {
	return execute(reminderTemplate, s)
}

// RenderDigest renders the daily summary. An empty day still produces a message.
func RenderDigest(day time.Time, items []appointments.Scheduled) (string, error) {
	if len(items) == 0 {
		return noAppointmentsToday, nil
	}
	return execute(digestTemplate, agendaData{Day: day, Items: items})
}

func RenderToday(items []appointments.Scheduled) (string, error) {
	if len(items) == 0 {
		return noAppointmentsTodayCmd, nil
	}
	return execute(todayTemplate, items)
}

func RenderMonth(month time.Time, items []appointments.Scheduled) (string, error) {
	if len(items) == 0 {
		return noAppointmentsThisMonth, nil
	}
	return execute(monthTemplate, agendaData{Day: month, Items: items})
}

func execute(tmpl *template.Template, data any) (string, error) {
	buff := &bytes.Buffer{}
	if err := tmpl.Execute(buff, data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", tmpl.Name(), err)
	}
	return buff.String(), nil
}
