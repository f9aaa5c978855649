package service

import (
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"
	"errors"
	"fmt"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"gorm.io/gorm"
)

type SessionInput struct {
	Title    string    `json:"title" binding:"required,max=200"`
	CourseID *uint     `json:"courseId"`
	Date     time.Time `json:"date"`
}

type RecordInput struct {
	StudentID   string                 `json:"studentId" binding:"required,max=64"`
	StudentName string                 `json:"studentName" binding:"required,max=100"`
	Status      model.AttendanceStatus `json:"status" binding:"required"`
	Note        string                 `json:"note" binding:"max=500"`
}

type AttendanceService struct {
	AttendanceRepo *repository.AttendanceRepository
	CourseRepo     *repository.CourseRepository
	Publisher      AttendancePublisher
}

func NewAttendanceService(attendanceRepo *repository.AttendanceRepository, courseRepo *repository.CourseRepository, publisher AttendancePublisher) *AttendanceService {
	return &AttendanceService{
		AttendanceRepo: attendanceRepo,
		CourseRepo:     courseRepo,
		Publisher:      publisher,
	}
}

func (s *AttendanceService) CreateSession(user *util.Claims, input SessionInput) (*model.AttendanceSession, error) {
	if input.CourseID != nil {
		if _, err := s.CourseRepo.FindByID(*input.CourseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrNotFound
			}
			return nil, err
		}
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	session := &model.AttendanceSession{
		Title:     strings.TrimSpace(input.Title),
		CourseID:  input.CourseID,
		Date:      date,
		CreatedBy: user.UserID,
	}
	if err := s.AttendanceRepo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions 管理员看到全部场次，教师只看到自己创建的
func (s *AttendanceService) ListSessions(user *util.Claims) ([]model.AttendanceSession, error) {
	if user.IsAdmin() {
		return s.AttendanceRepo.ListSessions(0)
	}
	return s.AttendanceRepo.ListSessions(user.UserID)
}

func (s *AttendanceService) GetSession(id uint) (*model.AttendanceSession, error) {
	session, err := s.AttendanceRepo.FindSession(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return session, err
}

func (s *AttendanceService) ownedSession(user *util.Claims, id uint) (*model.AttendanceSession, error) {
	session, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && session.CreatedBy != user.UserID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

func (s *AttendanceService) CloseSession(user *util.Claims, id uint) (*model.AttendanceSession, error) {
	session, err := s.ownedSession(user, id)
	if err != nil {
		return nil, err
	}
	if session.Closed {
		return session, nil
	}
	if err := s.AttendanceRepo.CloseSession(id); err != nil {
		return nil, err
	}
	session.Closed = true
	s.publish(id, EventSessionClosed, map[string]interface{}{"sessionId": id})
	return session, nil
}

func (s *AttendanceService) DeleteSession(user *util.Claims, id uint) error {
	if _, err := s.ownedSession(user, id); err != nil {
		return err
	}
	if err := s.AttendanceRepo.DeleteSession(id); err != nil {
		return err
	}
	s.publish(id, EventSessionClosed, map[string]interface{}{"sessionId": id, "deleted": true})
	return nil
}

func (s *AttendanceService) Summary(id uint) (*model.AttendanceSummary, error) {
	if _, err := s.GetSession(id); err != nil {
		return nil, err
	}
	counts, err := s.AttendanceRepo.CountByStatus(id)
	if err != nil {
		return nil, err
	}

	summary := &model.AttendanceSummary{SessionID: id, ByStatus: counts}
	for _, n := range counts {
		summary.Total += n
	}
	return summary, nil
}

// Record 批量登记考勤。同一批次内以及库中已有的学生编号都会被跳过，返回实际新增条数。
func (s *AttendanceService) Record(user *util.Claims, sessionID uint, inputs []RecordInput, clientIP string) (int64, error) {
	if len(inputs) == 0 {
		return 0, util.ErrNoRecords
	}
	for i, in := range inputs {
		if strings.TrimSpace(in.StudentID) == "" || strings.TrimSpace(in.StudentName) == "" {
			return 0, fmt.Errorf("%w: record %d is missing student id or name", util.ErrNoRecords, i)
		}
		if !in.Status.Valid() {
			return 0, fmt.Errorf("%w: %q", util.ErrInvalidStatus, in.Status)
		}
	}

	session, err := s.ownedSession(user, sessionID)
	if err != nil {
		return 0, err
	}
	if session.Closed {
		return 0, util.ErrSessionClosed
	}

	existing, err := s.AttendanceRepo.StudentIDs(sessionID)
	if err != nil {
		return 0, err
	}
	seen := mapset.NewThreadUnsafeSet[string](existing...)

	records := make([]model.AttendanceRecord, 0, len(inputs))
	for _, in := range inputs {
		studentID := strings.TrimSpace(in.StudentID)
		if !seen.Add(studentID) {
			continue
		}
		records = append(records, model.AttendanceRecord{
			SessionID:   sessionID,
			StudentID:   studentID,
			StudentName: strings.TrimSpace(in.StudentName),
			Status:      in.Status,
			Note:        in.Note,
			RecordedBy:  user.UserID,
			ClientIP:    clientIP,
		})
	}

	created, err := s.AttendanceRepo.CreateRecords(records)
	if err != nil {
		return 0, err
	}
	if created > 0 {
		s.publish(sessionID, EventAttendanceCreated, map[string]interface{}{
			"sessionId": sessionID,
			"created":   created,
		})
	}
	return created, nil
}

func (s *AttendanceService) ListRecords(sessionID uint) ([]model.AttendanceRecord, error) {
	if _, err := s.GetSession(sessionID); err != nil {
		return nil, err
	}
	return s.AttendanceRepo.ListRecords(sessionID)
}

// DeleteRecord 只有登记人、场次创建者或管理员可以删除
func (s *AttendanceService) DeleteRecord(user *util.Claims, id uint) error {
	record, err := s.AttendanceRepo.FindRecord(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	if err != nil {
		return err
	}

	if !user.IsAdmin() && record.RecordedBy != user.UserID {
		session, err := s.GetSession(record.SessionID)
		if err != nil {
			return err
		}
		if session.CreatedBy != user.UserID {
			return util.ErrPermissionDenied
		}
	}

	if err := s.AttendanceRepo.DeleteRecord(id); err != nil {
		return err
	}
	s.publish(record.SessionID, EventAttendanceDeleted, map[string]interface{}{
		"sessionId": record.SessionID,
		"id":        record.ID,
		"studentId": record.StudentID,
	})
	return nil
}

func (s *AttendanceService) publish(sessionID uint, eventType string, data map[string]interface{}) {
	if s.Publisher == nil {
		return
	}
	s.Publisher.Publish(sessionID, WSMessage{Type: eventType, Data: data})
}
