package services

import (
	"fmt"
	"net/smtp"

	"github.com/sachinsingh018/networkqy/config"
	"github.com/sachinsingh018/networkqy/utils"
)

type mailJob struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers email off the request path. Enqueue never blocks and
// never reports failure to the caller: the primary action has already
// committed, and mail is strictly best-effort.
type Mailer struct {
	cfg   config.Config
	queue chan mailJob
	stop  chan struct{}
	done  chan struct{}
}

func NewMailer(cfg config.Config) *Mailer {
	size := cfg.MailQueueSize
	if size <= 0 {
		size = 256
	}
	return &Mailer{
		cfg:   cfg,
		queue: make(chan mailJob, size),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
}

func (m *Mailer) Start() {
	go func() {
		defer close(m.done)
		for {
			select {
			case job := <-m.queue:
				if err := m.send(job); err != nil {
					utils.ErrorLogger.Printf("mailer: send to %s failed: %v", job.To, err)
				}
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *Mailer) Stop() {
	close(m.stop)
	<-m.done
}

// Enqueue hands a message to the background worker. When the queue is full
// the message is dropped with a log line rather than stalling the request
// that triggered it. Returns whether the message was queued.
func (m *Mailer) Enqueue(to, subject, html string) bool {
	select {
	case m.queue <- mailJob{To: to, Subject: subject, HTML: html}:
		return true
	default:
		utils.ErrorLogger.Printf("mailer: queue full, dropping mail to %s (%s)", to, subject)
		return false
	}
}

func (m *Mailer) send(job mailJob) error {
	if m.cfg.SMTPHost == "" {
		// No SMTP configured (development); treat as delivered.
		utils.InfoLogger.Printf("mailer: SMTP disabled, skipping mail to %s (%s)", job.To, job.Subject)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)
	msg := []byte("From: " + m.cfg.MailFrom + "\r\n" +
		"To: " + job.To + "\r\n" +
		"Subject: " + job.Subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" + job.HTML)

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}
	return smtp.SendMail(addr, auth, m.cfg.MailFrom, []string{job.To}, msg)
}
