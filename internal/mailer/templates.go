package mailer

import (
	"bytes"
	"html/template"
)

var reminderTemplate = template.Must(template.New("reminder").Parse(`
<p>Dear {{.ReviewerName}},</p>
<p>You still have <b>{{.PendingCount}}</b> papers pending review for the event
<b>{{.EventTitle}}</b>.</p>
<p>The review deadline is <b>{{.Deadline}}</b>.</p>
<p>Please complete your reviews at the earliest.</p>
<p>Research Coordination Team</p>
`))

var acceptedReportTemplate = template.Must(template.New("accepted").Parse(`
<p>Hello Coordinator,</p>
<p>Attached is the latest accepted paper list for <b>{{.EventTitle}}</b>.</p>
`))

type ReminderData struct {
	ReviewerName string
	PendingCount int
	EventTitle   string
	Deadline     string
}

type AcceptedReportData struct {
	EventTitle string
}

func RenderReminder(data ReminderData) (string, error) {
	return render(reminderTemplate, data)
}

func RenderAcceptedReport(data AcceptedReportData) (string, error) {
	return render(acceptedReportTemplate, data)
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
