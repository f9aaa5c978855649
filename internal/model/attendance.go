package model

import "time"

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// AttendanceSession 一次点名（某节课或某次活动）
// swagger:model AttendanceSession
type AttendanceSession struct {
	BaseModel
	Title     string    `gorm:"size:200;not null" json:"title"`
	CourseID  *uint     `gorm:"index" json:"courseId,omitempty"`
	Date      time.Time `gorm:"index;not null" json:"date"`
	CreatedBy uint      `gorm:"index;not null" json:"createdBy"`
	Closed    bool      `gorm:"default:false" json:"closed"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

// AttendanceRecord 单个学生在一次点名中的状态
// swagger:model AttendanceRecord
type AttendanceRecord struct {
	BaseModel
	SessionID   uint             `gorm:"not null;uniqueIndex:idx_session_student" json:"sessionId"`
	StudentID   string           `gorm:"size:64;not null;uniqueIndex:idx_session_student" json:"studentId"`
	StudentName string           `gorm:"size:100;not null" json:"studentName"`
	Status      AttendanceStatus `gorm:"size:20;not null" json:"status"`
	Note        string           `gorm:"size:500" json:"note"`
	RecordedBy  uint             `gorm:"index" json:"recordedBy"`
	ClientIP    string           `gorm:"size:64" json:"-"`
}

func (AttendanceRecord) TableName() string {
	return "attendance"
}

// AttendanceSummary 按状态统计
type AttendanceSummary struct {
	SessionID uint                       `json:"sessionId"`
	Total     int64                      `json:"total"`
	ByStatus  map[AttendanceStatus]int64 `json:"byStatus"`
}
