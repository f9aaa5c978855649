package model

// Teacher 教师档案，可选关联一个登录账号
// swagger:model Teacher
type Teacher struct {
	BaseModel
	Name    string `gorm:"size:100;not null" json:"name"`
	Slug    string `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Email   string `gorm:"size:100" json:"email"`
	Phone   string `gorm:"size:30" json:"phone"`
	Subject string `gorm:"size:100" json:"subject"`
	Bio     string `gorm:"type:text" json:"bio"`
	UserID  *uint  `gorm:"index" json:"userId,omitempty"`
}

func (Teacher) TableName() string {
	return "teachers"
}
