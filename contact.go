package main

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// ContactMessage is one submission of the contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Message string
}

// Mailer delivers contact form submissions.
type Mailer interface {
	Send(ctx context.Context, msg ContactMessage) error
}

var plainPolicy = bluemonday.StrictPolicy()

func plain(s string) string {
	return strings.TrimSpace(html.UnescapeString(plainPolicy.Sanitize(s)))
}

// parseContact cleans a submission and reports what is wrong with it.
func parseContact(name, email, message string) (ContactMessage, error) {
	msg := ContactMessage{
		Name:    plain(name),
		Email:   strings.TrimSpace(email),
		Message: plain(message),
	}
	if msg.Name == "" || msg.Message == "" {
		return msg, fmt.Errorf("name and message are required")
	}
	addr, err := mail.ParseAddress(msg.Email)
	if err != nil {
		return msg, fmt.Errorf("invalid email address")
	}
	msg.Email = addr.Address
	// Header injection guard for Subject and Reply-To.
	msg.Name = strings.Join(strings.Fields(msg.Name), " ")
	return msg, nil
}

type smtpMailer struct {
	cfg SMTPConfig
	log *zap.Logger
}

func (m *smtpMailer) Send(_ context.Context, msg ContactMessage) error {
	if !m.cfg.Configured() {
		return fmt.Errorf("SMTP credentials not configured")
	}
	to := m.cfg.ToEmail
	if to == "" {
		to = m.cfg.User
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", msg.Name)
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	raw := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + msg.Email + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{to}, raw); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.log.Info("contact email sent", zap.String("from", msg.Email))
	return nil
}

func (s *server) setupContactRoutes(r *gin.Engine) {
	contact := r.Group("/", s.csrf)

	contact.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"title":     "Contact Me",
			"csrfField": csrf.TemplateField(c.Request),
		})
	})

	contact.POST("/contact", func(c *gin.Context) {
		msg, err := parseContact(c.PostForm("fullName"), c.PostForm("email"), c.PostForm("message"))
		if err != nil {
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Please check the form: " + err.Error() + ".",
			})
			return
		}

		if err := s.mailer.Send(c.Request.Context(), msg); err != nil {
			s.log.Error("sending contact email", zap.Error(err))
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": "Sorry, there was an error sending your message. Please try again later.",
			})
			return
		}

		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": "Thank you for your message! I'll get back to you soon.",
		})
	})
}
