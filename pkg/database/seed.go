package database

import (
	"careerzoom_backend/internal/model"
	"fmt"
	"log"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var seedJobTitles = map[string][]string{
	"Software Development": {"Frontend Developer", "Backend Developer", "Full Stack Developer"},
	"Data Science":         {"Data Scientist", "Data Analyst", "Machine Learning Engineer"},
	"Product Management":   {"Product Manager", "Product Owner"},
}

var seedIndustries = []string{"Software Development", "Data Science", "Product Management"}

var seedBehavioral = []string{
	"Tell me about yourself.",
	"What is your greatest professional achievement?",
	"Describe a time when you had to overcome a significant challenge at work.",
	"How do you handle conflict with colleagues?",
	"Tell me about a time you failed and what you learned from it.",
}

var seedTechnical = map[string][]string{
	"Software Development": {
		"Explain the concept of RESTful APIs and their principles.",
		"Describe the difference between SQL and NoSQL databases.",
		"What are the SOLID principles in object-oriented programming?",
	},
	"Data Science": {
		"Explain the difference between supervised and unsupervised learning.",
		"Describe the bias-variance tradeoff in machine learning models.",
		"How would you handle imbalanced data in a classification problem?",
	},
	"Product Management": {
		"How do you prioritize features in a product roadmap?",
		"How do you measure the success of a product feature?",
		"How do you collaborate with engineering teams to ensure successful delivery?",
	},
}

var seedSituational = []string{
	"How would you handle a situation where you're assigned more work than you can handle?",
	"How would you handle a situation where your team disagrees with your approach?",
	"What would you do if you realized you made a significant mistake on a project?",
}

// SeedQuestions 题库为空时写入默认题目
func SeedQuestions(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Question{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	levels := []string{model.DifficultyBeginner, model.DifficultyIntermediate, model.DifficultyAdvanced}
	var questions []model.Question
	add := func(text, industry, jobTitle, difficulty string, qType model.QuestionType) {
		questions = append(questions, model.Question{
			Text:         text,
			Industry:     industry,
			JobTitle:     jobTitle,
			Difficulty:   difficulty,
			Type:         qType,
			SampleAnswer: fmt.Sprintf("Sample answer for %q in %s - %s", text, industry, jobTitle),
			Keywords:     keywordsOf(text),
			IsPublic:     true,
		})
	}

	for _, industry := range seedIndustries {
		for _, jobTitle := range seedJobTitles[industry] {
			for i, q := range seedBehavioral {
				add(q, industry, jobTitle, levels[i%3], model.QuestionBehavioral)
			}
			for i, q := range seedTechnical[industry] {
				add(q, industry, jobTitle, levels[1+i%2], model.QuestionTechnical)
			}
			for i, q := range seedSituational {
				add(q, industry, jobTitle, levels[i%2], model.QuestionSituational)
			}
		}
	}

	if err := db.CreateInBatches(questions, 100).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d interview questions", len(questions))
	return nil
}

func keywordsOf(text string) datatypes.JSONSlice[string] {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}
