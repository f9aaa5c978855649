package model

// swagger:model Course
type Course struct {
	BaseModel
	Title       string   `gorm:"size:200;not null" json:"title"`
	Slug        string   `gorm:"size:220;uniqueIndex;not null" json:"slug"`
	Description string   `gorm:"type:text" json:"description"`
	TeacherID   *uint    `gorm:"index" json:"teacherId,omitempty"`
	Teacher     *Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Schedule    string   `gorm:"size:200" json:"schedule"`
	Room        string   `gorm:"size:100" json:"room"`
	Capacity    int      `gorm:"default:0" json:"capacity"`
	Active      bool     `gorm:"not null" json:"active"`
}

func (Course) TableName() string {
	return "courses"
}
