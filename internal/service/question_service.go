package service

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/repository"
	"context"
)

type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{QuestionRepo: questionRepo}
}

func (s *QuestionService) Industries(ctx context.Context) ([]string, error) {
	industries, err := s.QuestionRepo.DistinctIndustries(ctx)
	if industries == nil {
		industries = []string{}
	}
	return industries, err
}

func (s *QuestionService) ByIndustry(ctx context.Context, filter repository.QuestionFilter) ([]model.Question, error) {
	questions, err := s.QuestionRepo.FindPublic(ctx, filter, 0)
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, err
}

type CreateQuestionInput struct {
	Text         string             `json:"text" binding:"required"`
	Industry     string             `json:"industry" binding:"required"`
	JobTitle     string             `json:"jobTitle" binding:"required"`
	Difficulty   string             `json:"difficulty"`
	Type         model.QuestionType `json:"type" binding:"required"`
	SampleAnswer string             `json:"sampleAnswer"`
	Keywords     []string           `json:"keywords"`
	IsPublic     *bool              `json:"isPublic"`
}

// Create 题库维护，审核员与管理员可用
func (s *QuestionService) Create(ctx context.Context, authorID uint, input CreateQuestionInput) (*model.Question, error) {
	q := &model.Question{
		Text:         input.Text,
		Industry:     input.Industry,
		JobTitle:     input.JobTitle,
		Difficulty:   firstNonEmpty(input.Difficulty, model.DifficultyIntermediate),
		Type:         input.Type,
		SampleAnswer: input.SampleAnswer,
		Keywords:     nonNilStrings(input.Keywords),
		CreatedBy:    &authorID,
		IsPublic:     true,
	}
	if input.IsPublic != nil {
		q.IsPublic = *input.IsPublic
	}
	if err := s.QuestionRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}
