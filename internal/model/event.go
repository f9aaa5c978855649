package model

import "time"

// swagger:model Event
type Event struct {
	BaseModel
	Title       string     `gorm:"size:200;not null" json:"title"`
	Slug        string     `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description string     `gorm:"type:text" json:"description"`
	Location    string     `gorm:"size:200" json:"location"`
	StartsAt    time.Time  `gorm:"index;not null" json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt,omitempty"`
	PosterURL   string     `gorm:"size:500" json:"posterUrl"`
	PosterKey   string     `gorm:"size:300" json:"-"`
	Published   bool       `gorm:"default:false;index" json:"published"`
	CreatedBy   uint       `json:"createdBy"`
}

func (Event) TableName() string {
	return "events"
}
