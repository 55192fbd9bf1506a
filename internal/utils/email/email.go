package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/finances-service/internal/config"
	"github.com/Dan9191/finances-service/internal/i18n"
	"github.com/Dan9191/finances-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	s := &Sender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.sendSMTP
	return s
}

func (s *Sender) sendSMTP(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	return e.Send(addr, auth)
}

// SendFinanceDigest sends an owner the list of finance alerts of the day
func (s *Sender) SendFinanceDigest(digest *models.OwnerDigest) error {
	if !digest.HasAlerts() {
		return fmt.Errorf("digest for %s has no alerts", digest.Owner.ID)
	}

	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{digest.Owner.Email}
	e.Subject = digestSubject(digest, s.cfg.Locale)
	e.Text = []byte(digestBody(digest, s.cfg.Locale, s.cfg.DashboardBaseURL))

	if err := s.send(e); err != nil {
		s.logger.Errorf("Failed to send finance digest to %s: %v", digest.Owner.Email, err)
		return fmt.Errorf("failed to send finance digest: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", digest.Owner.Email, e.Subject)
	return nil
}

func digestSubject(digest *models.OwnerDigest, locale string) string {
	printer := i18n.Printer(locale)
	n := len(digest.Overview.Alerts)
	if digest.Overview.Alerts[0].Severity == models.SeverityCritical {
		return printer.Sprintf(i18n.DigestSubjectCritical, n)
	}
	return printer.Sprintf(i18n.DigestSubject, n)
}

func digestBody(digest *models.OwnerDigest, locale, baseURL string) string {
	printer := i18n.Printer(locale)
	name := digest.Owner.FullName
	if name == "" {
		name = printer.Sprintf(i18n.DigestDefaultName)
	}
	overview := digest.Overview
	kpis := overview.KPIs

	var b strings.Builder
	b.WriteString(printer.Sprintf(i18n.DigestGreeting, name))
	b.WriteString("\n\n")
	b.WriteString(printer.Sprintf(i18n.DigestIntro, digest.GeneratedAt.Format("2006-01-02")))
	b.WriteString("\n\n")
	b.WriteString(printer.Sprintf(i18n.DigestKPIs,
		i18n.Amount(kpis.MonthlyRevenue), i18n.Amount(kpis.PendingPayments),
		i18n.Amount(kpis.OverdueAmount), kpis.CollectionRate, kpis.OccupationRate,
	))
	b.WriteString("\n\n")

	b.WriteString(printer.Sprintf(i18n.DigestAlerts))
	b.WriteString("\n")
	for _, a := range overview.Alerts {
		fmt.Fprintf(&b, "- [%s] %s: %s\n  %s%s\n",
			strings.ToUpper(string(a.Severity)), a.Title, a.Description,
			strings.TrimRight(baseURL, "/"), a.Href)
	}
	b.WriteString("\n")
	b.WriteString(printer.Sprintf(i18n.DigestSignoff))
	return b.String()
}
