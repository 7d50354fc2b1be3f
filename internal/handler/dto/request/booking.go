package request

import (
	"parkspot/internal/pkg/apitime"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/commands"

	"github.com/google/uuid"
)

var (
	ErrMissingField = errs.New("missing required field")
)

type CreateBookingRequest struct {
	SlotID      uuid.UUID         `json:"slot_id" binding:"required"`
	RequesterID uuid.UUID         `json:"requester_id" binding:"required"`
	StartTime   apitime.UTCMillis `json:"start_time"`
	EndTime     apitime.UTCMillis `json:"end_time"`
}

func (r CreateBookingRequest) Validate() error {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return errs.Wrap(ErrMissingField, "start_time and end_time are required")
	}
	return nil
}

func (r CreateBookingRequest) ToParams() commands.CreateBookingParams {
	return commands.CreateBookingParams{
		SlotID:      r.SlotID,
		RequesterID: r.RequesterID,
		StartTime:   r.StartTime.Time,
		EndTime:     r.EndTime.Time,
	}
}

type ModifyBookingRequest struct {
	SlotID    *uuid.UUID        `json:"slot_id,omitempty"`
	StartTime apitime.UTCMillis `json:"start_time"`
	EndTime   apitime.UTCMillis `json:"end_time"`
}

func (r ModifyBookingRequest) Validate() error {
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return errs.Wrap(ErrMissingField, "start_time and end_time are required")
	}
	return nil
}

func (r ModifyBookingRequest) ToParams() commands.ModifyBookingParams {
	return commands.ModifyBookingParams{
		SlotID:    r.SlotID,
		StartTime: r.StartTime.Time,
		EndTime:   r.EndTime.Time,
	}
}
