package service

import (
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/testutil"
	"reflect"
	"testing"

	"gorm.io/datatypes"
)

func feedbackWith(t model.FeedbackType, content, delivery, technical map[string]float64) *model.Feedback {
	return &model.Feedback{
		Type:              t,
		ContentFeedback:   datatypes.NewJSONType(testutil.Category(content)),
		DeliveryFeedback:  datatypes.NewJSONType(testutil.Category(delivery)),
		TechnicalFeedback: datatypes.NewJSONType(testutil.Category(technical)),
	}
}

func TestExtractScoresFollowsCategoryOrder(t *testing.T) {
	fb := feedbackWith(model.FeedbackPeer,
		map[string]float64{"depth": 3, "clarity": 4},
		map[string]float64{"pacing": 2},
		map[string]float64{"accuracy": 5},
	)

	got := ExtractScores(fb)
	want := []float64{4, 3, 2, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractScores = %v, want %v", got, want)
	}
}

func TestExtractScoresSkipsUnscored(t *testing.T) {
	fb := feedbackWith(model.FeedbackSelf, map[string]float64{"clarity": 0}, nil, nil)
	fb.DeliveryFeedback = datatypes.NewJSONType(model.CategoryFeedback{
		"pacing": {Comments: "no score given"},
	})

	got := ExtractScores(fb)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
	if avg := averageOf(got); avg != 0 {
		t.Fatalf("average of no scores = %v, want 0", avg)
	}
}

func TestClassifyAreasThresholds(t *testing.T) {
	fb := feedbackWith(model.FeedbackPeer,
		map[string]float64{"clarity": 2.9, "relevance": 3, "depth": 3.99, "structure": 4},
		map[string]float64{"confidence": 5, "pacing": 1},
		nil,
	)

	weak, strong := ClassifyAreas(fb)
	if want := []string{"content_clarity", "delivery_pacing"}; !reflect.DeepEqual(weak, want) {
		t.Errorf("weak = %v, want %v", weak, want)
	}
	if want := []string{"content_structure", "delivery_confidence"}; !reflect.DeepEqual(strong, want) {
		t.Errorf("strong = %v, want %v", strong, want)
	}
}

func TestClassifyAreasUnknownSubcategoriesSorted(t *testing.T) {
	fb := feedbackWith(model.FeedbackPeer, nil, nil,
		map[string]float64{"zeta": 1, "accuracy": 1, "alpha": 1},
	)

	weak, strong := ClassifyAreas(fb)
	if want := []string{"technical_accuracy", "technical_alpha", "technical_zeta"}; !reflect.DeepEqual(weak, want) {
		t.Errorf("weak = %v, want %v", weak, want)
	}
	if strong == nil || len(strong) != 0 {
		t.Errorf("strong = %#v, want empty", strong)
	}
}

func TestMergeTagsKeepsFirstSeenOrder(t *testing.T) {
	got := mergeTags([]string{"b", "a"}, []string{"a", "c", "b", "d"})
	if want := []string{"b", "a", "c", "d"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("mergeTags = %v, want %v", got, want)
	}
}

func TestApplyFeedbackImprovementPercentage(t *testing.T) {
	plan := model.NewImprovementPlan(1)

	applyFeedback(plan, 2, nil, nil, nil)
	if plan.Progress.LatestInterviewScore != 2 || plan.Progress.ImprovementPercentage != 0 {
		t.Fatalf("after first feedback: %+v", plan.Progress)
	}

	applyFeedback(plan, 3, nil, nil, nil)
	if plan.Progress.ImprovementPercentage != 50 {
		t.Fatalf("improvement = %v, want 50", plan.Progress.ImprovementPercentage)
	}

	// 无分数的反馈使最新分归零，下一次不再计算百分比
	applyFeedback(plan, 0, nil, nil, nil)
	if plan.Progress.ImprovementPercentage != -100 {
		t.Fatalf("improvement = %v, want -100", plan.Progress.ImprovementPercentage)
	}
	applyFeedback(plan, 4, nil, nil, nil)
	if plan.Progress.ImprovementPercentage != -100 || plan.Progress.LatestInterviewScore != 4 {
		t.Fatalf("after zero baseline: %+v", plan.Progress)
	}
}

func TestApplyFeedbackRoundsPercentage(t *testing.T) {
	plan := model.NewImprovementPlan(1)
	applyFeedback(plan, 3, nil, nil, nil)
	applyFeedback(plan, 4, nil, nil, nil)
	if plan.Progress.ImprovementPercentage != 33.33 {
		t.Fatalf("improvement = %v, want 33.33", plan.Progress.ImprovementPercentage)
	}
}
