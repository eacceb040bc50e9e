package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	AppointmentStatusUpcoming  AppointmentStatus = "upcoming"
	AppointmentStatusOngoing   AppointmentStatus = "ongoing"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
	AppointmentStatusOvertime  AppointmentStatus = "overtime"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// ValidAppointmentStatus reports whether s is one of the known appointment
// lifecycle states.
func ValidAppointmentStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusUpcoming, AppointmentStatusOngoing,
		AppointmentStatusCanceled, AppointmentStatusOvertime,
		AppointmentStatusCompleted:
		return true
	}
	return false
}

// Appointment is one committed reservation. BeginTime/EndTime are absolute
// timestamps: the requested calendar date combined with the time slot's
// time-of-day.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID         uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	Status     AppointmentStatus `bun:"status,notnull" json:"status"`
	ApplyTime  time.Time         `bun:"apply_time,notnull" json:"applyTime"`
	FinishTime *time.Time        `bun:"finish_time" json:"finishTime,omitempty"`
	BeginTime  time.Time         `bun:"begin_time,notnull" json:"beginTime"`
	EndTime    time.Time         `bun:"end_time,notnull" json:"endTime"`
	CreatedAt  time.Time         `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt  time.Time         `bun:"updated_at,notnull" json:"updatedAt"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}

// UserAppointment records who booked an appointment. Exactly one row exists
// per appointment.
type UserAppointment struct {
	bun.BaseModel `bun:"table:user_appointments"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	AppointmentID uuid.UUID `bun:"appointment_id,notnull,type:uuid" json:"appointmentId"`
	UserID        int64     `bun:"user_id,notnull" json:"userId"`
}

// VenueAppointment records which venue an appointment occupies. Exactly one
// row exists per appointment.
type VenueAppointment struct {
	bun.BaseModel `bun:"table:venue_appointments"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	AppointmentID uuid.UUID `bun:"appointment_id,notnull,type:uuid" json:"appointmentId"`
	VenueID       int64     `bun:"venue_id,notnull" json:"venueId"`
}

type BillStatus string

const (
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
)

// Bill is the financial record opened at booking time. Settlement happens
// downstream; the booking path only ever creates pending bills.
type Bill struct {
	bun.BaseModel `bun:"table:bills"`

	ID            uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	AppointmentID uuid.UUID  `bun:"appointment_id,notnull,type:uuid" json:"appointmentId"`
	UserID        int64      `bun:"user_id,notnull" json:"userId"`
	Status        BillStatus `bun:"status,notnull" json:"status"`
	Amount        int64      `bun:"amount,notnull" json:"amount"`
	CreatedTime   time.Time  `bun:"created_time,notnull" json:"createdTime"`
}

func (b *Bill) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); !ok {
		return nil
	}
	if b.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		b.ID = id
	}
	if b.CreatedTime.IsZero() {
		b.CreatedTime = time.Now().UTC()
	}
	return nil
}
