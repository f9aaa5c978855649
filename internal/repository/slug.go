package repository

import "gorm.io/gorm"

// slugTaken 检查 slug 是否已被其他记录占用（含软删除记录，唯一索引仍然生效），excludeID 为 0 时不排除
func slugTaken(db *gorm.DB, value interface{}, slug string, excludeID uint) (bool, error) {
	var count int64
	q := db.Unscoped().Model(value).Where("slug = ?", slug)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}
