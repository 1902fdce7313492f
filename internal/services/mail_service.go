package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	BaseURL  string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		BaseURL:  baseURL,
		Enabled:  enabled,
	}
}

// sendAsync fires and forgets: notification delivery never blocks or
// fails the state change that triggered it.
func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: ToolRank <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.From, subject, mime, body))

		err := smtp.SendMail(addr, auth, s.From, to, msg)
		if err != nil {
			log.Printf("warn: failed to send email to %v: %v", to, err)
		}
	}()
}

func (s *MailService) parseTemplate(templateName string, data interface{}) (string, error) {
	path := filepath.Join("web", "templates", "email", templateName)
	t, err := template.ParseFiles(path)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

func (s *MailService) SendVerificationEmail(email, code string) {
	body, err := s.parseTemplate("verify.html", map[string]string{
		"Code": code,
	})
	if err != nil {
		log.Printf("Error rendering verification email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "Welcome to ToolRank, verify your email", body)
}

func (s *MailService) SendToolApprovedEmail(email, toolName, slug string) {
	body, err := s.parseTemplate("tool_approved.html", map[string]string{
		"ToolName": toolName,
		"ToolURL":  s.BaseURL + "/api/tools/" + slug,
	})
	if err != nil {
		log.Printf("Error rendering approval email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "🎉 "+toolName+" is now live on ToolRank", body)
}

func (s *MailService) SendToolRejectedEmail(email, toolName, reason string) {
	body, err := s.parseTemplate("tool_rejected.html", map[string]string{
		"ToolName": toolName,
		"Reason":   reason,
	})
	if err != nil {
		log.Printf("Error rendering rejection email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "Your ToolRank submission: "+toolName, body)
}

func (s *MailService) SendClaimDecisionEmail(email, toolName string, approved bool) {
	body, err := s.parseTemplate("claim_decision.html", map[string]interface{}{
		"ToolName": toolName,
		"Approved": approved,
	})
	if err != nil {
		log.Printf("Error rendering claim email: %v", err)
		return
	}
	subject := "Your founder claim for " + toolName
	if approved {
		subject = "✅ You're verified as the founder of " + toolName
	}
	s.sendAsync([]string{email}, subject, body)
}

func (s *MailService) SendReviewPublishedEmail(email, toolName string) {
	body, err := s.parseTemplate("review_published.html", map[string]string{
		"ToolName": toolName,
	})
	if err != nil {
		log.Printf("Error rendering review email: %v", err)
		return
	}
	s.sendAsync([]string{email}, "💬 New review on "+toolName, body)
}

// SendNewsletter delivers one issue to every recipient, each with their
// own unsubscribe link.
func (s *MailService) SendNewsletter(subject, htmlBody string, recipients map[string]string) int {
	sent := 0
	for email, token := range recipients {
		body, err := s.parseTemplate("newsletter.html", map[string]interface{}{
			"Body":           template.HTML(htmlBody),
			"UnsubscribeURL": s.BaseURL + "/api/newsletter/unsubscribe?token=" + token,
		})
		if err != nil {
			log.Printf("Error rendering newsletter for %s: %v", email, err)
			continue
		}
		s.sendAsync([]string{email}, subject, body)
		sent++
	}
	return sent
}
