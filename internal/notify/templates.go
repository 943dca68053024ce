package notify

import (
	"bytes"
	"html/template"
	"time"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

type emailData struct {
	Heading   string
	Intro     string
	Client    string
	Shop      string
	Barber    string
	Service   string
	Date      string
	Time      string
	Duration  int
	Price     float64
	Phone     string
	Location  string
	WhatsApp  string
	Reference string
	Footnote  string
}

var emailTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <div style="background: #3b82f6; color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0;">
      <h1>{{.Heading}}</h1>
      <p>{{.Intro}}</p>
    </div>
    <div style="background: #f9fafb; padding: 30px; border: 1px solid #e5e7eb;">
      <p>Hi <strong>{{.Client}}</strong>,</p>
      <table style="width: 100%; border-collapse: collapse;">
        <tr><td><strong>Service:</strong></td><td>{{.Service}}</td></tr>
        <tr><td><strong>Date:</strong></td><td>{{.Date}}</td></tr>
        <tr><td><strong>Time:</strong></td><td>{{.Time}}</td></tr>
        <tr><td><strong>Duration:</strong></td><td>{{.Duration}} minutes</td></tr>
        <tr><td><strong>Price:</strong></td><td>{{printf "%.2f" .Price}}</td></tr>
        <tr><td><strong>Barber:</strong></td><td>{{.Barber}}</td></tr>
        {{if .Phone}}<tr><td><strong>Contact:</strong></td><td>{{.Phone}}</td></tr>{{end}}
        {{if .Location}}<tr><td><strong>Location:</strong></td><td>{{.Location}}</td></tr>{{end}}
        <tr><td><strong>Reference:</strong></td><td>{{.Reference}}</td></tr>
      </table>
      {{if .WhatsApp}}<p><a href="{{.WhatsApp}}">Message the barber on WhatsApp</a></p>{{end}}
      <p>{{.Footnote}}</p>
      <p><strong>The BarberBook Team</strong></p>
    </div>
  </div>
</body>
</html>`))

func shopName(b *models.Barber) string {
	if b.ShopName != "" {
		return b.ShopName
	}
	return b.Name
}

func location(b *models.Barber) string {
	if b.Address == "" {
		return ""
	}
	loc := b.Address
	if b.City != "" {
		loc += ", " + b.City
	}
	return loc
}

func newEmailData(bk *models.Booking, barber *models.Barber) emailData {
	return emailData{
		Client:    bk.ClientName,
		Shop:      shopName(barber),
		Barber:    barber.Name,
		Service:   bk.ServiceName,
		Date:      time.Time(bk.AppointmentDate).Format("Monday, January 2, 2006"),
		Time:      bk.AppointmentTime,
		Duration:  bk.DurationMinutes,
		Price:     bk.Price,
		Phone:     barber.Phone,
		Location:  location(barber),
		WhatsApp:  WhatsAppLink(barber.Phone, "Hi, about my booking "+bk.Reference.String()),
		Reference: bk.Reference.String(),
	}
}

func render(d emailData) (string, error) {
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func confirmationEmail(bk *models.Booking, barber *models.Barber) (string, string, error) {
	d := newEmailData(bk, barber)
	d.Heading = "Booking Confirmed!"
	d.Intro = "Your appointment with " + d.Shop + " is confirmed"
	d.Footnote = "We'll send you a reminder before your appointment. To reschedule or cancel, use your dashboard or contact the barber."

	html, err := render(d)
	return "Booking Confirmation - " + d.Shop, html, err
}

func cancellationEmail(bk *models.Booking, barber *models.Barber) (string, string, error) {
	d := newEmailData(bk, barber)
	d.Heading = "Booking Cancelled"
	d.Intro = "Your appointment with " + d.Shop + " has been cancelled"
	d.Footnote = "You can book a new time any moment from the barber's page."

	html, err := render(d)
	return "Booking Cancelled - " + d.Shop, html, err
}

func reminderEmail(bk *models.Booking, barber *models.Barber) (string, string, error) {
	d := newEmailData(bk, barber)
	d.Heading = "See you soon"
	d.Intro = "Reminder of your upcoming appointment with " + d.Shop
	d.Footnote = "Please arrive on time."

	html, err := render(d)
	return "Reminder: Upcoming Appointment - " + d.Shop, html, err
}
