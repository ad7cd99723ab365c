package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	appURL    string
	appName   string
	isDev     bool
}

func NewEmailService(apiKey, fromEmail, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		appURL:    appURL,
		appName:   appName,
		isDev:     isDev,
	}
}

// SendWelcomeEmail greets a user right after they claim their profile URL.
func (s *EmailService) SendWelcomeEmail(email, fullName, username string) error {
	profileURL := fmt.Sprintf("%s/%s", s.appURL, username)
	subject, body := welcomeEmailTemplate(fullName, profileURL, s.appName)
	return s.send("welcome", email, subject, body)
}

// SendFollowNotification tells a user someone started following them.
func (s *EmailService) SendFollowNotification(email, followedName, followerName, followerUsername string) error {
	followerURL := fmt.Sprintf("%s/%s", s.appURL, followerUsername)
	subject, body := followNotificationTemplate(followedName, followerName, followerURL, s.appName)
	return s.send("follow_notification", email, subject, body)
}

func (s *EmailService) send(emailType, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", emailType, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", emailType, "to", to)
	}
	return err
}

func welcomeEmailTemplate(name, profileURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your page is live:
%s

Declare up to 10 goals for the year, break them into sub-goals, and share the
link. You can adjust your goals during the Resolution window (Dec 25 - Jan 3)
and the first three days of April, July, and October; progress can be marked
any day of the year.

Best,
The %s Team`, name, profileURL, appName)

	return subject, body
}

func followNotificationTemplate(name, followerName, followerURL, appName string) (string, string) {
	subject := fmt.Sprintf("%s is now following you on %s", followerName, appName)
	body := fmt.Sprintf(`Hi %s,

%s started following your goals. See theirs here:
%s

Best,
The %s Team`, name, followerName, followerURL, appName)

	return subject, body
}
