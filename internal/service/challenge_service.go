package service

import (
	"campus_club_backend/internal/judge"
	"campus_club_backend/internal/model"
	"campus_club_backend/internal/repository"
	"campus_club_backend/internal/util"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ChallengeInput struct {
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Difficulty   string           `json:"difficulty"`
	FunctionName string           `json:"functionName"`
	StarterCode  string           `json:"starterCode"`
	TestCases    []model.TestCase `json:"testCases"`
	Points       int              `json:"points"`
	TimeLimit    int              `json:"timeLimit"`
	MaxAttempts  *int             `json:"maxAttempts"`
	Published    bool             `json:"published"`
}

// ChallengeView 学生看到的挑战：测试用例只暴露输入
type ChallengeView struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Difficulty    string            `json:"difficulty"`
	FunctionName  string            `json:"functionName"`
	StarterCode   string            `json:"starterCode"`
	Examples      []json.RawMessage `json:"examples"`
	TestCaseCount int               `json:"testCaseCount"`
	Points        int               `json:"points"`
	TimeLimit     int               `json:"timeLimit"`
	MaxAttempts   *int              `json:"maxAttempts"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func NewChallengeView(c *model.Challenge) ChallengeView {
	cases := c.Cases()
	examples := make([]json.RawMessage, 0, len(cases))
	for _, tc := range cases {
		examples = append(examples, tc.Input)
	}
	return ChallengeView{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Difficulty:    c.Difficulty,
		FunctionName:  c.FunctionName,
		StarterCode:   c.StarterCode,
		Examples:      examples,
		TestCaseCount: len(cases),
		Points:        c.Points,
		TimeLimit:     c.TimeLimit,
		MaxAttempts:   c.MaxAttempts,
		CreatedAt:     c.CreatedAt,
	}
}

type ChallengeService struct {
	ChallengeRepo *repository.ChallengeRepository
}

func NewChallengeService(challengeRepo *repository.ChallengeRepository) *ChallengeService {
	return &ChallengeService{ChallengeRepo: challengeRepo}
}

// Find 未发布的挑战对非管理员不存在
func (s *ChallengeService) Find(user *util.Claims, id string) (*model.Challenge, error) {
	challenge, err := s.ChallengeRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !challenge.Published && (user == nil || !user.IsAdmin()) {
		return nil, util.ErrChallengeHidden
	}
	return challenge, nil
}

// Get 管理员返回完整定义，其他人返回 ChallengeView
func (s *ChallengeService) Get(user *util.Claims, id string) (interface{}, error) {
	challenge, err := s.Find(user, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return challenge, nil
	}
	return NewChallengeView(challenge), nil
}

func (s *ChallengeService) List(user *util.Claims) (interface{}, error) {
	if user.IsAdmin() {
		return s.ChallengeRepo.List(false)
	}

	challenges, err := s.ChallengeRepo.List(true)
	if err != nil {
		return nil, err
	}
	views := make([]ChallengeView, 0, len(challenges))
	for i := range challenges {
		views = append(views, NewChallengeView(&challenges[i]))
	}
	return views, nil
}

func (s *ChallengeService) Create(user *util.Claims, input ChallengeInput) (*model.Challenge, error) {
	challenge := &model.Challenge{CreatedBy: user.UserID}
	applyChallengeInput(challenge, input)
	if err := judge.ValidateChallenge(challenge); err != nil {
		return nil, err
	}
	if err := s.ChallengeRepo.Create(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// Update 已有的提交记录保持不变，不会重新评测
func (s *ChallengeService) Update(id string, input ChallengeInput) (*model.Challenge, error) {
	challenge, err := s.ChallengeRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	applyChallengeInput(challenge, input)
	if err := judge.ValidateChallenge(challenge); err != nil {
		return nil, err
	}
	if err := s.ChallengeRepo.Update(challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) Delete(id string) error {
	if _, err := s.ChallengeRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotFound
		}
		return err
	}
	return s.ChallengeRepo.Delete(id)
}

func applyChallengeInput(c *model.Challenge, in ChallengeInput) {
	c.Title = strings.TrimSpace(in.Title)
	c.Description = in.Description
	c.Difficulty = in.Difficulty
	if c.Difficulty == "" {
		c.Difficulty = "easy"
	}
	c.FunctionName = strings.TrimSpace(in.FunctionName)
	c.StarterCode = in.StarterCode
	c.TestCases = datatypes.NewJSONType(in.TestCases)
	c.Points = in.Points
	c.TimeLimit = in.TimeLimit
	if c.TimeLimit == 0 {
		c.TimeLimit = 30
	}
	c.MaxAttempts = in.MaxAttempts
	c.Published = in.Published
}
