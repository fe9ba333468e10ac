package dto

import (
	"time"

	"github.com/google/uuid"
)

type ActivityResponse struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	TargetID      uuid.UUID `json:"targetId"`
	Title         string    `json:"title"`
	CommunityName string    `json:"communityName,omitempty"`
	Date          time.Time `json:"date"`
}
