package repository

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/util"
	"context"
	"errors"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// QuestionFilter 空字段不参与过滤
type QuestionFilter struct {
	Industry   string
	JobTitle   string
	Difficulty string
	Type       string
}

func (r *QuestionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.DB.WithContext(ctx).Create(question).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.WithContext(ctx).First(&question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) DistinctIndustries(ctx context.Context) ([]string, error) {
	var industries []string
	err := r.DB.WithContext(ctx).Model(&model.Question{}).
		Distinct("industry").
		Order("industry").
		Pluck("industry", &industries).Error
	return industries, err
}

// FindPublic limit <= 0 表示不限制条数
func (r *QuestionRepository) FindPublic(ctx context.Context, filter QuestionFilter, limit int) ([]model.Question, error) {
	q := r.DB.WithContext(ctx).Where("is_public = ?", true)
	if filter.Industry != "" {
		q = q.Where("industry = ?", filter.Industry)
	}
	if filter.JobTitle != "" {
		q = q.Where("job_title = ?", filter.JobTitle)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var questions []model.Question
	err := q.Order("id").Find(&questions).Error
	return questions, err
}

// EnsureQuestions 按题干与行业查找，不存在则创建
func (r *QuestionRepository) EnsureQuestions(ctx context.Context, questions []model.Question) ([]model.Question, error) {
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		item := q
		err := r.DB.WithContext(ctx).
			Where("text = ? AND industry = ?", item.Text, item.Industry).
			FirstOrCreate(&item).Error
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
