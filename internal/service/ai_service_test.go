package service

import (
	"careerzoom_backend/internal/config"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
)

func TestParseRecommendations(t *testing.T) {
	cases := map[string]string{
		"array":   `[{"area":"delivery","description":"Slow down","resources":[{"title":"Pacing","url":"https://x","type":"video"}]},{"area":"content","description":"Use STAR"}]`,
		"wrapped": `{"recommendations":[{"area":"delivery","description":"Slow down","resources":[{"title":"Pacing","url":"https://x","type":"video"}]},{"area":"content","description":"Use STAR"}]}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			recs, err := parseRecommendations(content)
			if err != nil {
				t.Fatal(err)
			}
			if len(recs) != 2 || recs[0].Area != "delivery" || recs[0].Resources[0].Type != "video" {
				t.Fatalf("recs = %+v", recs)
			}
			if recs[1].Resources == nil {
				t.Fatal("missing resources should become an empty slice")
			}
		})
	}

	if _, err := parseRecommendations(`{"advice":"practice"}`); err == nil {
		t.Fatal("want error for payload without recommendations")
	}
}

func TestGenerateRecommendationsMock(t *testing.T) {
	svc := NewAIService(config.AIConfig{UseMock: true, APIKey: "set"})
	if !svc.MockEnabled() {
		t.Fatal("use_mock should force mock mode")
	}
	cases := []struct {
		name  string
		areas []string
		want  []string
	}{
		{"delivery", []string{"delivery_confidence"}, []string{"delivery"}},
		{"content and technical", []string{"technical_accuracy", "content_structure"}, []string{"content", "technical"}},
		{"unmatched", []string{"delivery_pacing"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs, err := svc.GenerateRecommendations(context.Background(), tc.areas)
			if err != nil {
				t.Fatal(err)
			}
			if recs == nil {
				t.Fatal("mock recommendations should be an empty slice, not nil")
			}
			var areas []string
			for _, r := range recs {
				areas = append(areas, r.Area)
			}
			if !reflect.DeepEqual(areas, tc.want) {
				t.Fatalf("areas = %v, want %v", areas, tc.want)
			}
		})
	}
}

func completion(content string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	})
	return body
}

func TestGenerateRecommendationsVendor(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/chat/completions" || r.Header.Get("Authorization") != "Bearer key" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		var req chatCompletionRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[0].Content, "Delivery Pacing") {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(completion(`{"recommendations":[{"area":"delivery","description":"Slow down"}]}`))
	}))
	defer srv.Close()

	svc := NewAIService(config.AIConfig{BaseURL: srv.URL + "/", APIKey: "key", Model: "gpt-test", TimeoutSeconds: 5})
	recs, err := svc.GenerateRecommendations(context.Background(), []string{"delivery_pacing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].Description != "Slow down" {
		t.Fatalf("recs = %+v", recs)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("calls = %d", calls)
	}
}

func TestChatJSONClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	svc := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "key", TimeoutSeconds: 5})
	_, err := svc.GenerateRecommendations(context.Background(), []string{"content_clarity"})
	if err == nil || !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("err = %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("4xx should not be retried, calls = %d", calls)
	}
}
