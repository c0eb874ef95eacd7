package utils

import (
	"coursely/config"
	"fmt"
	"net/smtp"
	"strings"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	// MIME basics
	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Coursely <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// HTML wrapper shared by all notification emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #00004D; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #00004D; line-height: 1.6; }
			.content h2 { color: #00004D; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #d7b56d; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>COURSELY</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Coursely. All rights reserved.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// SendCertificateIssuedEmail notifies a student that their certificate is ready
func SendCertificateIssuedEmail(email, name, courseName, serial string) {
	subject := "Certificate Issued: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You have earned a certificate for completing <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Certificate Serial:</strong> %s
		</div>
		<p>You can view and share your certificate from your dashboard at any time.</p>
	`, name, courseName, serial)

	go SendEmail([]string{email}, subject, getEmailTemplate("Certificate Issued!", body))
}

// SendPaymentReceiptEmail confirms a settled enrollment payment to the student
func SendPaymentReceiptEmail(email, name, courseName string, grossCents int64) {
	subject := "Payment Received: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have recorded your payment of <strong>$%.2f</strong> for <strong>%s</strong>.</p>
		<p>Your enrollment is now fully active. Happy learning!</p>
	`, name, float64(grossCents)/100, courseName)

	go SendEmail([]string{email}, subject, getEmailTemplate("Payment Confirmed", body))
}
