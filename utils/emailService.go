package utils

import (
	"fmt"
	"log"

	"vtu/config"
	"vtu/database"
	"vtu/models"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers one HTML email through SendGrid
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	apiKey := config.AppConfig.SendGridAPIKey
	if apiKey == "" {
		log.Println("[EMAIL] SENDGRID_API_KEY not set, skipping email to", toEmail)
		return nil
	}

	from := mail.NewEmail("VTU Wallet", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(apiKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] failed to send to %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 400 {
		log.Printf("[EMAIL] sendgrid returned %d for %s", resp.StatusCode, toEmail)
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

// getEmailTemplate wraps body content in the standard layout
func getEmailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #0B3D2E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #222222; line-height: 1.6; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
			<div class="footer">This is an automated notification from VTU Wallet.</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// EmailNotifier delivers purchase and gift events by email. Fire and
// forget: a delivery failure is logged and never reaches the caller.
type EmailNotifier struct{}

// Notify looks up the user and sends the event email asynchronously
func (EmailNotifier) Notify(userID uint, event, message string) {
	go func() {
		var user models.User
		if err := database.Database.Db.
			Select("name, email").
			Where("id = ? AND is_deleted = false", userID).
			First(&user).Error; err != nil || user.Email == "" {
			return
		}

		subject := "VTU Wallet notification"
		title := "Notification"
		switch event {
		case "purchase.completed":
			subject = "Your purchase was successful"
			title = "Purchase Successful"
		case "gift.claimed":
			subject = "Your gift was claimed"
			title = "Gift Claimed"
		}

		body := fmt.Sprintf("<p>Dear %s,</p><p>%s</p>", user.Name, message)
		if err := SendEmail(user.Email, user.Name, subject, getEmailTemplate(title, body)); err != nil {
			log.Printf("[EMAIL] notification %q to user %d failed: %v", event, userID, err)
		}
	}()
}
