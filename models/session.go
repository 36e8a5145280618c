package models

import (
	"time"
)

type Session struct {
	ID               string    `json:"id"`
	EventID          string    `json:"eventId"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Tags             []string  `json:"tags"`
	SpeakerID        string    `json:"speakerId,omitempty"`
	SpeakerName      string    `json:"speakerName,omitempty"`
	Location         string    `json:"location,omitempty"`
	MaxAttendees     int       `json:"maxAttendees,omitempty"`
	CurrentAttendees int       `json:"currentAttendees"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
