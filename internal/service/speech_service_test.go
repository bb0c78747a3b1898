package service

import (
	"careerzoom_backend/internal/config"
	"careerzoom_backend/internal/model"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/testutil"
	"careerzoom_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

type fakeSynthesizer struct {
	mu     sync.Mutex
	mock   bool
	err    error
	voices []string
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voices = append(f.voices, voice)
	if f.err != nil {
		return nil, f.err
	}
	if f.mock {
		return placeholderAudio, nil
	}
	return []byte("mp3:" + voice + ":" + text), nil
}

func (f *fakeSynthesizer) SpeechModel() string { return "tts-test" }
func (f *fakeSynthesizer) MockEnabled() bool   { return f.mock }

func newSpeechFixture(t *testing.T, synth *fakeSynthesizer) (*SpeechService, *model.Question, string) {
	t.Helper()
	db := testutil.NewDB(t)
	dir := t.TempDir()
	storage := NewStorageService(context.Background(), &config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: dir}})
	questions := repository.NewQuestionRepository(db)
	q := &model.Question{Text: "Tell me about yourself.", Industry: "General", JobTitle: "Any", Type: model.QuestionBehavioral}
	if err := questions.Create(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	return NewSpeechService(questions, synth, storage), q, dir
}

func TestResolveVoice(t *testing.T) {
	cases := map[string]string{
		"":        DefaultVoice,
		"nova":    "nova",
		"shimmer": "shimmer",
		"robot":   DefaultVoice,
		"Nova":    DefaultVoice,
	}
	for in, want := range cases {
		if got := ResolveVoice(in); got != want {
			t.Fatalf("ResolveVoice(%q) = %q, want %q", in, got, want)
		}
	}
	if len(VoiceCatalog) != 6 {
		t.Fatalf("voices = %d, want 6", len(VoiceCatalog))
	}
}

func TestQuestionAudioCachesInStorage(t *testing.T) {
	synth := &fakeSynthesizer{}
	svc, q, dir := newSpeechFixture(t, synth)
	ctx := context.Background()

	first, err := svc.QuestionAudio(ctx, q.ID, "robot")
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != "mp3:alloy:Tell me about yourself." {
		t.Fatalf("audio = %q", first)
	}
	key := audioCacheKey(q.Text, "alloy", "tts-test")
	if _, err := os.Stat(filepath.Join(dir, key)); err != nil {
		t.Fatalf("audio not cached: %v", err)
	}

	second, err := svc.QuestionAudio(ctx, q.ID, "alloy")
	if err != nil {
		t.Fatal(err)
	}
	if string(second) != string(first) || len(synth.voices) != 1 {
		t.Fatalf("second call should hit the cache, synth calls = %v", synth.voices)
	}

	if _, err := svc.QuestionAudio(ctx, q.ID, "onyx"); err != nil {
		t.Fatal(err)
	}
	if len(synth.voices) != 2 || synth.voices[1] != "onyx" {
		t.Fatalf("a different voice is a different cache entry, calls = %v", synth.voices)
	}
}

func TestQuestionAudioFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown question", func(t *testing.T) {
		svc, _, _ := newSpeechFixture(t, &fakeSynthesizer{})
		if _, err := svc.QuestionAudio(ctx, 999, ""); !errors.Is(err, util.ErrQuestionNotFound) {
			t.Fatalf("want ErrQuestionNotFound, got %v", err)
		}
	})

	t.Run("vendor failure", func(t *testing.T) {
		svc, q, dir := newSpeechFixture(t, &fakeSynthesizer{err: errors.New("quota exceeded")})
		audio, err := svc.QuestionAudio(ctx, q.ID, "echo")
		if err != nil {
			t.Fatal(err)
		}
		if string(audio) != string(placeholderAudio) {
			t.Fatalf("audio = %v, want placeholder", audio)
		}
		if _, err := os.Stat(filepath.Join(dir, audioCacheKey(q.Text, "echo", "tts-test"))); !os.IsNotExist(err) {
			t.Fatal("failed synthesis must not be cached")
		}
	})

	t.Run("mock mode", func(t *testing.T) {
		svc, q, dir := newSpeechFixture(t, &fakeSynthesizer{mock: true})
		audio, err := svc.QuestionAudio(ctx, q.ID, "fable")
		if err != nil {
			t.Fatal(err)
		}
		if string(audio) != string(placeholderAudio) {
			t.Fatalf("audio = %v", audio)
		}
		if _, err := os.Stat(filepath.Join(dir, "audio-cache")); !os.IsNotExist(err) {
			t.Fatal("mock audio must not be cached")
		}
	})
}

func TestAISynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req speechRequest
		json.NewDecoder(r.Body).Decode(&req)
		if r.URL.Path != "/audio/speech" || req.Voice != "nova" || req.Model != "tts-1" || req.Input != "Hello" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"bad request"}}`))
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-audio"))
	}))
	defer srv.Close()

	svc := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "key", TimeoutSeconds: 5})
	audio, err := svc.Synthesize(context.Background(), "Hello", "nova")
	if err != nil {
		t.Fatal(err)
	}
	if string(audio) != "ID3-audio" {
		t.Fatalf("audio = %q", audio)
	}

	if _, err := svc.Synthesize(context.Background(), "Hello", "echo"); err == nil {
		t.Fatal("want error on 4xx")
	}

	mock := NewAIService(config.AIConfig{})
	audio, err = mock.Synthesize(context.Background(), "Hello", "nova")
	if err != nil || string(audio) != string(placeholderAudio) {
		t.Fatalf("mock audio = %v, %v", audio, err)
	}
}
