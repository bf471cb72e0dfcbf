package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-users-api/config"
	mailtpl "github.com/oksasatya/go-ddd-users-api/pkg/mailer/templates"
)

// ErrMalformedJob marks a payload that can never be delivered.
var ErrMalformedJob = errors.New("mailer: malformed job")

// Worker turns queued EmailJobs into sent mail.
type Worker struct {
	cfg     *config.Config
	sender  Sender
	logger  *logrus.Logger
	timeout time.Duration
}

func NewWorker(cfg *config.Config, sender Sender, logger *logrus.Logger) *Worker {
	return &Worker{cfg: cfg, sender: sender, logger: logger, timeout: 15 * time.Second}
}

// Handle decodes body, renders its template and sends it once.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedJob, err)
	}
	if job.To == "" {
		return fmt.Errorf("%w: missing recipient", ErrMalformedJob)
	}

	msg := Message{To: job.To, Subject: job.Subject, Text: job.Text, HTML: job.HTML, Tag: job.Template}
	if job.Template == mailtpl.AccountCreated {
		data := mailtpl.NewAccountCreatedData(w.cfg, job.DataString("FirstName"), job.To, job.DataString("UserID"),
			mailtpl.WithTime(time.Now()))
		s, t, h, err := mailtpl.Render(job.Template, data)
		if err != nil {
			// fall back to the plain content carried by the job
			w.logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		} else {
			msg.Subject, msg.Text, msg.HTML = s, t, h
		}
	} else if job.Template != "" {
		w.logger.WithField("template", job.Template).Warn("unknown template, sending plain content")
	}

	c, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.sender.Send(c, msg); err != nil {
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return nil
}
