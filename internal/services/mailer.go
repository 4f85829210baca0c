package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/example/pujapath/internal/models"
)

// Mailer sends transactional email. Every send is best effort: callers fire
// it from a goroutine and failures are logged, never surfaced to the request
// that triggered them.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

// NewMailer constructs a Mailer for the given SMTP transport.
func NewMailer(host string, port int, user, password, from string, log *zap.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		log:    log.With(zap.String("service", "mailer")),
	}
}

// SendOTP emails a one-time verification code.
func (m *Mailer) SendOTP(to, code string) {
	text := fmt.Sprintf("Your PujaPath verification code is %s. It expires in 5 minutes.", code)
	html := fmt.Sprintf(`<p>Your PujaPath verification code is</p>
<h2 style="letter-spacing:4px">%s</h2>
<p>It expires in 5 minutes. If you did not request this, ignore this email.</p>`, code)

	m.send(to, "Your PujaPath verification code", text, html, nil)
}

// SendOrderConfirmation emails a paid order summary.
func (m *Mailer) SendOrderConfirmation(order *models.Order) {
	if order.CustomerEmail == "" {
		return
	}

	var lines, rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&lines, "  - %s x%d  ₹%.2f\n", item.ItemName, item.Quantity, item.Subtotal)
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%d</td><td>₹%.2f</td></tr>", item.ItemName, item.Quantity, item.Subtotal)
	}

	text := fmt.Sprintf(`Namaste %s,

Your order %s is confirmed and paid.

Items:
%s
Total: ₹%.2f

Shipping to: %s, %s, %s %s

Thank you for shopping with PujaPath.`,
		order.CustomerName, order.OrderNumber, lines.String(), order.TotalAmount,
		order.ShippingAddress, order.City, order.State, order.Pincode)

	html := fmt.Sprintf(`<p>Namaste %s,</p>
<p>Your order <b>%s</b> is confirmed and paid.</p>
<table border="1" cellpadding="4"><tr><th>Item</th><th>Qty</th><th>Subtotal</th></tr>%s</table>
<p><b>Total: ₹%.2f</b></p>
<p>Shipping to: %s, %s, %s %s</p>
<p>Thank you for shopping with PujaPath.</p>`,
		order.CustomerName, order.OrderNumber, rows.String(), order.TotalAmount,
		order.ShippingAddress, order.City, order.State, order.Pincode)

	m.send(order.CustomerEmail, fmt.Sprintf("Order %s confirmed", order.OrderNumber), text, html, nil)
}

// SendBookingConfirmation emails a paid booking summary with a calendar
// invite for the ceremony date.
func (m *Mailer) SendBookingConfirmation(booking *models.Booking) {
	if booking.Email == "" {
		return
	}

	panditName := "your pandit"
	if booking.Pandit != nil {
		panditName = booking.Pandit.Name
	}
	date := booking.Date.Format("Monday, 2 January 2006")

	text := fmt.Sprintf(`Namaste %s,

Your booking %s is confirmed and paid.

Ceremony: %s
Pandit: %s
Date: %s
Address: %s
Amount: ₹%.2f

A calendar invite is attached. We look forward to serving you.`,
		booking.CustomerName, booking.BookingNumber, booking.PujaType,
		panditName, date, booking.Address, booking.Amount)

	html := fmt.Sprintf(`<p>Namaste %s,</p>
<p>Your booking <b>%s</b> is confirmed and paid.</p>
<ul>
<li>Ceremony: %s</li>
<li>Pandit: %s</li>
<li>Date: %s</li>
<li>Address: %s</li>
<li>Amount: ₹%.2f</li>
</ul>
<p>A calendar invite is attached. We look forward to serving you.</p>`,
		booking.CustomerName, booking.BookingNumber, booking.PujaType,
		panditName, date, booking.Address, booking.Amount)

	invite := BuildBookingInvite(booking)
	m.send(booking.Email, fmt.Sprintf("Booking %s confirmed", booking.BookingNumber), text, html, []byte(invite))
}

// BuildBookingInvite renders the ceremony as an all-day iCalendar event.
func BuildBookingInvite(booking *models.Booking) string {
	panditName := "Pandit"
	if booking.Pandit != nil {
		panditName = booking.Pandit.Name
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodRequest)
	cal.SetProductId("-//PujaPath//Booking//EN")

	event := cal.AddEvent(fmt.Sprintf("%s@pujapath.in", booking.BookingNumber))
	event.SetCreatedTime(time.Now())
	event.SetDtStampTime(time.Now())
	event.SetAllDayStartAt(booking.Date)
	event.SetAllDayEndAt(booking.Date.AddDate(0, 0, 1))
	event.SetSummary(fmt.Sprintf("Puja Ceremony: %s", booking.PujaType))
	event.SetLocation(booking.Address)
	event.SetDescription(fmt.Sprintf("Booking %s with %s. Amount paid: ₹%.2f.",
		booking.BookingNumber, panditName, booking.Amount))

	return cal.Serialize()
}

func (m *Mailer) send(to, subject, text, html string, invite []byte) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)

	if invite != nil {
		msg.Attach("invite.ics",
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(invite)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {"text/calendar; method=REQUEST"}}),
		)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("send failed", zap.String("to", to), zap.String("subject", subject), zap.Error(err))
		return
	}

	m.log.Info("sent", zap.String("to", to), zap.String("subject", subject))
}
