package model

// LeaderboardEntry 用户在所有挑战上的最佳得分之和
// swagger:model LeaderboardEntry
type LeaderboardEntry struct {
	BaseModel
	UserID      uint   `gorm:"uniqueIndex;not null" json:"userId"`
	UserName    string `gorm:"size:100" json:"userName"`
	TotalScore  int    `gorm:"not null;default:0;index" json:"totalScore"`
	SolvedCount int    `gorm:"not null;default:0" json:"solvedCount"`
	Rank        int    `gorm:"-" json:"rank"`
}

func (LeaderboardEntry) TableName() string {
	return "leaderboard"
}
