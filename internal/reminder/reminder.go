package reminder

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/barberbook/internal/domain/booking"
	"github.com/BruksfildServices01/barberbook/internal/models"
)

// Sender is satisfied by notify.Notifier.
type Sender interface {
	Reminder(b *models.Booking, barber *models.Barber) error
}

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Job emails clients whose confirmed booking starts within lead. Each
// booking is reminded at most once.
type Job struct {
	repo   domain.Repository
	sender Sender
	lead   time.Duration
	now    func() time.Time
}

func NewJob(repo domain.Repository, sender Sender, lead time.Duration) *Job {
	if lead <= 0 {
		lead = time.Hour
	}
	return &Job{repo: repo, sender: sender, lead: lead, now: time.Now}
}

// Start schedules the job; stop the returned cron to end it.
func (j *Job) Start(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithParser(cronParser))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		j.Run(ctx)
	}); err != nil {
		return nil, err
	}
	c.Start()
	zap.L().Info("reminder job scheduled", zap.String("schedule", spec), zap.Duration("lead", j.lead))
	return c, nil
}

// Run sends one round of reminders and returns how many went out.
func (j *Job) Run(ctx context.Context) int {
	now := j.now()

	bookings, err := j.repo.ListBookingsStartingBetween(ctx, now, now.Add(j.lead))
	if err != nil {
		zap.L().Error("reminder query failed", zap.Error(err))
		return 0
	}

	sent := 0
	for i := range bookings {
		bk := &bookings[i]

		if err := j.sender.Reminder(bk, &bk.Barber); err != nil {
			zap.L().Warn("reminder not sent",
				zap.Uint("booking_id", bk.ID),
				zap.Error(err),
			)
			continue
		}

		if err := j.repo.MarkReminderSent(ctx, bk.ID, now); err != nil {
			zap.L().Error("reminder not recorded",
				zap.Uint("booking_id", bk.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	if sent > 0 {
		zap.L().Info("reminders sent", zap.Int("count", sent))
	}
	return sent
}
