package repository

import (
	"campus_club_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceRepository struct {
	DB *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

func (r *AttendanceRepository) CreateSession(session *model.AttendanceSession) error {
	return r.DB.Create(session).Error
}

func (r *AttendanceRepository) FindSession(id uint) (*model.AttendanceSession, error) {
	var session model.AttendanceSession
	err := r.DB.First(&session, id).Error
	return &session, err
}

// ListSessions createdBy 为 0 时返回全部
func (r *AttendanceRepository) ListSessions(createdBy uint) ([]model.AttendanceSession, error) {
	var sessions []model.AttendanceSession
	q := r.DB.Order("date DESC")
	if createdBy != 0 {
		q = q.Where("created_by = ?", createdBy)
	}
	err := q.Find(&sessions).Error
	return sessions, err
}

func (r *AttendanceRepository) CloseSession(id uint) error {
	return r.DB.Model(&model.AttendanceSession{}).Where("id = ?", id).Update("closed", true).Error
}

// DeleteSession 同时物理删除该场次的全部记录
func (r *AttendanceRepository) DeleteSession(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("session_id = ?", id).Delete(&model.AttendanceRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.AttendanceSession{}, id).Error
	})
}

// CreateRecords 已存在的 (session_id, student_id) 直接跳过，返回实际插入条数
func (r *AttendanceRepository) CreateRecords(records []model.AttendanceRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	result := r.DB.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(records, 100)
	return result.RowsAffected, result.Error
}

func (r *AttendanceRepository) FindRecord(id uint) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := r.DB.First(&record, id).Error
	return &record, err
}

func (r *AttendanceRepository) ListRecords(sessionID uint) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.DB.Where("session_id = ?", sessionID).Order("student_name ASC").Find(&records).Error
	return records, err
}

func (r *AttendanceRepository) StudentIDs(sessionID uint) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.AttendanceRecord{}).Where("session_id = ?", sessionID).Pluck("student_id", &ids).Error
	return ids, err
}

// DeleteRecord 物理删除，之后同一学生可以重新登记
func (r *AttendanceRepository) DeleteRecord(id uint) error {
	return r.DB.Unscoped().Delete(&model.AttendanceRecord{}, id).Error
}

func (r *AttendanceRepository) CountByStatus(sessionID uint) (map[model.AttendanceStatus]int64, error) {
	var rows []struct {
		Status model.AttendanceStatus
		Count  int64
	}
	err := r.DB.Model(&model.AttendanceRecord{}).
		Select("status, COUNT(*) AS count").
		Where("session_id = ?", sessionID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.AttendanceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
