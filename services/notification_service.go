package services

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"metalflow-app/config"
	"metalflow-app/utils"
	"metalflow-app/wms/pickinglist"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// NotificationService mengirim ringkasan import picking list lewat email
type NotificationService struct {
	Host       string
	Port       int
	User       string
	Password   string
	From       string
	Recipients []string
	Timeout    time.Duration

	send func(*gomail.Message) error
}

// NewNotificationService mengembalikan nil jika SMTP atau penerima belum dikonfigurasi
func NewNotificationService() *NotificationService {
	if config.SMTPHost == "" || len(config.NotifyEmails) == 0 {
		return nil
	}
	svc := &NotificationService{
		Host:       config.SMTPHost,
		Port:       config.SMTPPort,
		User:       config.SMTPUser,
		Password:   config.SMTPPassword,
		From:       config.SMTPFrom,
		Recipients: config.NotifyEmails,
		Timeout:    time.Duration(config.SMTPTimeout) * time.Second,
	}
	svc.send = func(msg *gomail.Message) error {
		return gomail.NewDialer(svc.Host, svc.Port, svc.User, svc.Password).DialAndSend(msg)
	}
	return svc
}

func (s *NotificationService) NotifyImported(ctx context.Context, doc *pickinglist.ImportDocument, summary *pickinglist.ImportSummary) error {
	if s == nil || s.send == nil || len(s.Recipients) == 0 {
		return nil
	}

	msg := s.buildMessage(doc, summary)
	if err := s.sendWithin(ctx, msg); err != nil {
		return errors.Wrapf(err, "send import notification for %s", summary.PickingListNumber)
	}

	utils.LoggerFromContext(ctx).
		WithField("import_id", summary.ImportID.String()).
		WithField("recipients", strings.Join(s.Recipients, ",")).
		Info("import notification sent")
	return nil
}

// sendWithin membatasi lama request menunggu SMTP; pengiriman yang lewat batas
// tetap berjalan di background
func (s *NotificationService) sendWithin(ctx context.Context, msg *gomail.Message) error {
	if s.Timeout <= 0 {
		return s.send(msg)
	}

	done := make(chan error, 1)
	go func() { done <- s.send(msg) }()

	timer := time.NewTimer(s.Timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return errors.Errorf("smtp did not answer within %s", s.Timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *NotificationService) buildMessage(doc *pickinglist.ImportDocument, summary *pickinglist.ImportSummary) *gomail.Message {
	action := "updated"
	if summary.ListCreated {
		action = "created"
	}
	subject := fmt.Sprintf("Picking list %s %s", summary.PickingListNumber, action)

	var rows strings.Builder
	for _, line := range doc.Lines {
		fmt.Fprintf(&rows, "<tr><td>%d</td><td>%s</td><td>%s %s</td><td>%s</td><td>%d</td></tr>",
			line.LineNumber,
			html.EscapeString(line.ItemCode),
			line.OrderQty.Value.String(),
			html.EscapeString(line.OrderUnit),
			line.LineWeightLbs.Value.String(),
			len(line.ReservedMaterials))
	}

	body := fmt.Sprintf(`
		<html>
			<body>
				<h3>Picking list %s was %s</h3>
				<p>Sold to: <strong>%s</strong>, ship via: %s</p>
				<p>Lines created: %d, lines updated: %d, reserved materials: %d</p>
				<table border="1" cellpadding="4">
					<tr><th>Line</th><th>Item</th><th>Qty</th><th>Weight (lbs)</th><th>Tags</th></tr>
					%s
				</table>
				<p>This is an auto-generated email. Please do not reply to this email or its recipients.</p>
			</body>
		</html>
	`, html.EscapeString(summary.PickingListNumber), action,
		html.EscapeString(doc.SoldTo), html.EscapeString(doc.ShipVia),
		summary.LinesCreated, summary.LinesUpdated, summary.ReservedMaterials,
		rows.String())

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.From)
	msg.SetHeader("To", s.Recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)
	return msg
}
