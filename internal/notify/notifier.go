package notify

import (
	"sync"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

// Notifier emails clients about their bookings. Confirmation and
// cancellation mails are sent in the background and never fail the
// request that triggered them.
type Notifier struct {
	mailer Mailer
	wg     sync.WaitGroup
}

func NewNotifier(mailer Mailer) *Notifier {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &Notifier{mailer: mailer}
}

func (n *Notifier) BookingConfirmed(bk models.Booking, barber models.Barber) {
	n.async(bk, barber, "confirmation", confirmationEmail)
}

func (n *Notifier) BookingCancelled(bk models.Booking, barber models.Barber) {
	n.async(bk, barber, "cancellation", cancellationEmail)
}

// Reminder sends synchronously so the caller can record delivery.
func (n *Notifier) Reminder(bk *models.Booking, barber *models.Barber) error {
	if bk.ClientEmail == "" {
		return nil
	}
	subject, html, err := reminderEmail(bk, barber)
	if err != nil {
		return err
	}
	return n.mailer.Send(bk.ClientEmail, subject, html)
}

// Wait blocks until background mails are done.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

type buildFunc func(*models.Booking, *models.Barber) (string, string, error)

func (n *Notifier) async(bk models.Booking, barber models.Barber, kind string, build buildFunc) {
	if n == nil || bk.ClientEmail == "" {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		subject, html, err := build(&bk, &barber)
		if err == nil {
			err = n.mailer.Send(bk.ClientEmail, subject, html)
		}
		if err != nil {
			zap.L().Warn("booking email failed",
				zap.String("kind", kind),
				zap.Uint("booking_id", bk.ID),
				zap.Error(err),
			)
		}
	}()
}
