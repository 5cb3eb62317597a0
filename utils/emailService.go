package utils

import (
	"ascend/config"
	"ascend/database"
	"ascend/models"
	protocolModels "ascend/models/protocol"
	"fmt"
	"log"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email through Sendgrid. Delivery is best
// effort; failures are logged and never propagated to the caller.
func SendEmail(toEmail, toName, subject, htmlBody string) error {
	if config.AppConfig.SendgridApiKey == "" {
		log.Printf("[EMAIL] Sendgrid disabled, skipping %q to %s", subject, toEmail)
		return nil
	}

	from := mail.NewEmail("Ascend", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridApiKey)
	response, err := client.Send(message)
	if err != nil {
		log.Printf("[EMAIL] Error sending %q to %s: %v", subject, toEmail, err)
		return err
	}
	if response.StatusCode >= 300 {
		log.Printf("[EMAIL] Sendgrid returned %d for %q to %s", response.StatusCode, subject, toEmail)
		return fmt.Errorf("sendgrid status %d", response.StatusCode)
	}
	return nil
}

// SendMilestoneEmail congratulates the user on a streak milestone
func SendMilestoneEmail(userID uint, milestone int) {
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		log.Printf("[EMAIL] Error fetching user %d for milestone email: %v", userID, err)
		return
	}

	subject := fmt.Sprintf("%d days in a row - keep it up!", milestone)
	body := getEmailTemplate("Streak Milestone", fmt.Sprintf(`
		<h2>Congratulations, %s!</h2>
		<p>You just hit a <strong>%d-day streak</strong> on your protocol.</p>
		<p>Consistency is what rewires habits. Keep showing up.</p>`, user.Name, milestone))

	go SendEmail(user.Email, user.Name, subject, body)
}

// notifyExpiredProtocols emails users whose protocols the batch just
// expired. Only protocols flagged within the last hour are picked up, so
// a re-run does not re-send.
func notifyExpiredProtocols() {
	db := database.Database.Db

	var expired []protocolModels.Protocol
	if err := db.Where("status = ? AND is_deleted = ?", protocolModels.StatusExpired, false).
		Where("updated_at > ?", time.Now().Add(-time.Hour)).
		Find(&expired).Error; err != nil {
		log.Printf("[EMAIL] Error fetching expired protocols: %v", err)
		return
	}

	for _, p := range expired {
		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", p.UserID, false).First(&user).Error; err != nil {
			continue
		}

		subject := "Your protocol has expired"
		body := getEmailTemplate("Protocol Expired", fmt.Sprintf(`
			<h2>Hi %s,</h2>
			<p>Your protocol <strong>%s</strong> ran past its 7-day window and has expired.</p>
			<p>Start a fresh protocol today and pick up where you left off.</p>`, user.Name, p.Title))

		go SendEmail(user.Email, user.Name, subject, body)
	}
}

// getEmailTemplate wraps body content in the standard layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B2A4A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B2A4A; line-height: 1.6; }
			.content h2 { color: #1B2A4A; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				This is an automated message from Ascend.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}
