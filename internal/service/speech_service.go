package service

import (
	"bytes"
	"careerzoom_backend/internal/repository"
	"careerzoom_backend/internal/util"
	"careerzoom_backend/pkg/logger"
	"careerzoom_backend/pkg/monitoring"
	"careerzoom_backend/pkg/tracing"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	DefaultVoice     = "alloy"
	defaultTTSModel  = "tts-1"
	audioContentType = "audio/mpeg"
	audioCachePrefix = "audio-cache/"
)

// placeholderAudio 模拟模式与接口失败时返回的静音数据
var placeholderAudio = []byte{0, 0, 0, 0}

type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// VoiceCatalog 题目朗读可选的音色
var VoiceCatalog = []Voice{
	{ID: "alloy", Name: "Alloy", Description: "Neutral, versatile voice"},
	{ID: "echo", Name: "Echo", Description: "Enhanced clarity and presence"},
	{ID: "fable", Name: "Fable", Description: "Warm, friendly voice"},
	{ID: "onyx", Name: "Onyx", Description: "Deep, authoritative voice"},
	{ID: "nova", Name: "Nova", Description: "Professional female voice"},
	{ID: "shimmer", Name: "Shimmer", Description: "Energetic, youthful voice"},
}

// ResolveVoice 未知音色退回 alloy
func ResolveVoice(voice string) string {
	for _, v := range VoiceCatalog {
		if v.ID == voice {
			return voice
		}
	}
	if voice != "" {
		logger.Log.Debug("未知音色，使用默认音色", zap.String("voice", voice))
	}
	return DefaultVoice
}

type speechRequest struct {
	Model          string `json:"model"`
	Voice          string `json:"voice"`
	Input          string `json:"input"`
	ResponseFormat string `json:"response_format"`
}

func (s *AIService) SpeechModel() string {
	if s.config.TTSModel == "" {
		return defaultTTSModel
	}
	return s.config.TTSModel
}

// Synthesize 调用 /audio/speech 返回 mp3 数据；模拟模式返回占位音频
func (s *AIService) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if s.config.MockEnabled() {
		return placeholderAudio, nil
	}

	ctx, span := tracing.StartSpan(ctx, "ai.speech", attribute.String("ai.voice", voice))
	defer monitoring.ObserveVendorCall("openai", "speech")()

	payload := speechRequest{Model: s.SpeechModel(), Voice: voice, Input: text, ResponseFormat: "mp3"}
	var audio []byte
	attempt := func() error {
		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post("/audio/speech")
		if err != nil {
			return err
		}
		if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500 {
			return fmt.Errorf("speech vendor status %d", resp.StatusCode())
		}
		if resp.IsError() {
			msg := gjson.GetBytes(resp.Body(), "error.message").String()
			return backoff.Permanent(fmt.Errorf("speech vendor status %d: %s", resp.StatusCode(), msg))
		}
		if len(resp.Body()) == 0 {
			return backoff.Permanent(errors.New("empty audio from speech vendor"))
		}
		audio = resp.Body()
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 30 * time.Second
	err := backoff.Retry(attempt, backoff.WithContext(backoff.WithMaxRetries(policy, 3), ctx))
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	return audio, nil
}

// SpeechSynthesizer AIService 为默认实现
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
	SpeechModel() string
	MockEnabled() bool
}

type SpeechService struct {
	QuestionRepo *repository.QuestionRepository
	Synthesizer  SpeechSynthesizer
	Storage      *StorageService
}

func NewSpeechService(questionRepo *repository.QuestionRepository, synthesizer SpeechSynthesizer, storage *StorageService) *SpeechService {
	return &SpeechService{QuestionRepo: questionRepo, Synthesizer: synthesizer, Storage: storage}
}

func (s *SpeechService) Voices() []Voice {
	return VoiceCatalog
}

// QuestionAudio 朗读题目文本，生成结果按 文本+音色+模型 缓存到存储中
func (s *SpeechService) QuestionAudio(ctx context.Context, questionID uint, voice string) ([]byte, error) {
	question, err := s.QuestionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	voice = ResolveVoice(voice)

	if s.Synthesizer.MockEnabled() {
		return s.Synthesizer.Synthesize(ctx, question.Text, voice)
	}

	key := audioCacheKey(question.Text, voice, s.Synthesizer.SpeechModel())
	cached, err := s.Storage.Download(ctx, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, util.ErrObjectNotFound) {
		logger.Log.Warn("读取语音缓存失败", zap.String("object", key), zap.Error(err))
	}

	audio, err := s.Synthesizer.Synthesize(ctx, question.Text, voice)
	if err != nil {
		monitoring.SpeechFailures.Inc()
		logger.Log.Warn("语音合成失败，返回占位音频", zap.Uint("questionId", questionID), zap.Error(err))
		return placeholderAudio, nil
	}

	if _, err := s.Storage.Upload(ctx, key, bytes.NewReader(audio), int64(len(audio)), audioContentType); err != nil {
		logger.Log.Warn("写入语音缓存失败", zap.String("object", key), zap.Error(err))
	}
	return audio, nil
}

func audioCacheKey(text, voice, model string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + voice + "\x00" + text))
	return audioCachePrefix + hex.EncodeToString(sum[:]) + ".mp3"
}
