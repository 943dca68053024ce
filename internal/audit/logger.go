package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberbook/internal/models"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		BarberID:  ev.BarberID,
		ActorID:   ev.ActorID,
		ActorRole: ev.ActorRole,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityID:  ev.EntityID,
		Metadata:  metaJSON,
	}

	return l.db.Create(&row).Error
}

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Filter narrows a barber's trail. Empty fields match everything.
type Filter struct {
	BarberID uint
	Action   string
	Entity   string
	Limit    int
}

// List returns the newest entries for one barber.
func (l *Logger) List(f Filter) ([]models.AuditLog, error) {
	limit := f.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}

	q := l.db.Where("barber_id = ?", f.BarberID)
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}

	var logs []models.AuditLog
	err := q.
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
