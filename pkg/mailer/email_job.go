package mailer

// EmailJob is the JSON payload put on the notification queue.
// When Template is set the worker renders subject, text and html from it and
// Data; Subject and Text are kept as the fallback content.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// DataString returns Data[key] when it holds a string.
func (j EmailJob) DataString(key string) string {
	if v, ok := j.Data[key].(string); ok {
		return v
	}
	return ""
}
