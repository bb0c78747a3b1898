package service

import (
	"careerzoom_backend/internal/config"
	"careerzoom_backend/pkg/logger"
	"careerzoom_backend/pkg/monitoring"
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type MeetingRequest struct {
	Topic     string
	Agenda    string
	Duration  int
	StartTime time.Time
}

type ZoomMeeting struct {
	ID        string `json:"id"`
	Topic     string `json:"topic"`
	Status    string `json:"status,omitempty"`
	StartURL  string `json:"start_url"`
	JoinURL   string `json:"join_url"`
	Password  string `json:"password,omitempty"`
	Duration  int    `json:"duration,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
}

type ZoomRecording struct {
	ID            string `json:"id"`
	MeetingID     string `json:"meeting_id"`
	RecordingType string `json:"recording_type"`
	FileType      string `json:"file_type"`
	DownloadURL   string `json:"download_url"`
}

// ZoomService Server-to-Server OAuth，访问令牌缓存到过期前一分钟
type ZoomService struct {
	config config.ZoomConfig
	client *resty.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewZoomService(cfg config.ZoomConfig) *ZoomService {
	return &ZoomService{
		config: cfg,
		client: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetTimeout(15 * time.Second),
	}
}

func (s *ZoomService) MockEnabled() bool {
	return s.config.MockEnabled()
}

func (s *ZoomService) accessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" && time.Now().Before(s.tokenExpiry) {
		return s.token, nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBasicAuth(s.config.ClientID, s.config.ClientSecret).
		SetFormData(map[string]string{
			"grant_type": "account_credentials",
			"account_id": s.config.AccountID,
		}).
		Post(s.config.OAuthURL)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("zoom oauth status %d: %s", resp.StatusCode(), gjson.GetBytes(resp.Body(), "reason").String())
	}

	token := gjson.GetBytes(resp.Body(), "access_token").String()
	if token == "" {
		return "", fmt.Errorf("zoom oauth returned no access token")
	}
	expiresIn := gjson.GetBytes(resp.Body(), "expires_in").Int()
	if expiresIn <= 0 {
		expiresIn = 3600
	}
	s.token = token
	s.tokenExpiry = time.Now().Add(time.Duration(expiresIn)*time.Second - time.Minute)
	return token, nil
}

func (s *ZoomService) do(ctx context.Context, operation, method, path string, body interface{}) ([]byte, error) {
	defer monitoring.ObserveVendorCall("zoom", operation)()

	var out []byte
	attempt := func() error {
		token, err := s.accessToken(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		req := s.client.R().SetContext(ctx).SetAuthToken(token)
		if body != nil {
			req = req.SetBody(body)
		}
		resp, err := req.Execute(method, path)
		if err != nil {
			return err
		}
		if resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500 {
			return fmt.Errorf("zoom status %d", resp.StatusCode())
		}
		if resp.IsError() {
			return backoff.Permanent(fmt.Errorf("zoom status %d: %s", resp.StatusCode(), gjson.GetBytes(resp.Body(), "message").String()))
		}
		out = resp.Body()
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		logger.Log.Error("Zoom 接口调用失败", zap.String("operation", operation), zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (s *ZoomService) CreateMeeting(ctx context.Context, req MeetingRequest) (*ZoomMeeting, error) {
	duration := req.Duration
	if duration <= 0 {
		duration = 30
	}
	if s.MockEnabled() {
		return mockZoomMeeting(req.Topic, duration, req.StartTime), nil
	}

	payload := map[string]interface{}{
		"topic":      req.Topic,
		"type":       2,
		"start_time": req.StartTime.UTC().Format(time.RFC3339),
		"duration":   duration,
		"timezone":   "UTC",
		"agenda":     req.Agenda,
		"settings": map[string]interface{}{
			"host_video":        true,
			"participant_video": true,
			"join_before_host":  true,
			"mute_upon_entry":   false,
			"auto_recording":    "cloud",
			"waiting_room":      false,
		},
	}
	body, err := s.do(ctx, "create_meeting", http.MethodPost, "/users/me/meetings", payload)
	if err != nil {
		return nil, err
	}
	return parseZoomMeeting(body), nil
}

func (s *ZoomService) GetMeeting(ctx context.Context, meetingID string) (*ZoomMeeting, error) {
	if s.MockEnabled() {
		return &ZoomMeeting{
			ID:       meetingID,
			Topic:    "Simulated Zoom Meeting",
			Status:   "waiting",
			StartURL: fmt.Sprintf("https://zoom.us/s/%s?zak=mock-zoom-key", meetingID),
			JoinURL:  fmt.Sprintf("https://zoom.us/j/%s", meetingID),
			Password: "mockpassword",
		}, nil
	}
	body, err := s.do(ctx, "get_meeting", http.MethodGet, "/meetings/"+meetingID, nil)
	if err != nil {
		return nil, err
	}
	return parseZoomMeeting(body), nil
}

func (s *ZoomService) GetRecordings(ctx context.Context, meetingID string) ([]ZoomRecording, error) {
	if meetingID == "" {
		return nil, nil
	}
	if s.MockEnabled() {
		return []ZoomRecording{{
			ID:            fmt.Sprintf("recording_%s_1", meetingID),
			MeetingID:     meetingID,
			RecordingType: "shared_screen_with_speaker_view",
			FileType:      "MP4",
			DownloadURL:   fmt.Sprintf("https://zoom.us/rec/download/%s_recording_1.mp4", meetingID),
		}}, nil
	}
	body, err := s.do(ctx, "get_recordings", http.MethodGet, "/meetings/"+meetingID+"/recordings", nil)
	if err != nil {
		return nil, err
	}

	var recordings []ZoomRecording
	gjson.GetBytes(body, "recording_files").ForEach(func(_, f gjson.Result) bool {
		recordings = append(recordings, ZoomRecording{
			ID:            f.Get("id").String(),
			MeetingID:     f.Get("meeting_id").String(),
			RecordingType: f.Get("recording_type").String(),
			FileType:      f.Get("file_type").String(),
			DownloadURL:   f.Get("download_url").String(),
		})
		return true
	})
	return recordings, nil
}

// parseZoomMeeting Zoom 返回的 id 是数字，统一转成字符串
func parseZoomMeeting(body []byte) *ZoomMeeting {
	r := gjson.ParseBytes(body)
	return &ZoomMeeting{
		ID:        r.Get("id").String(),
		Topic:     r.Get("topic").String(),
		Status:    r.Get("status").String(),
		StartURL:  r.Get("start_url").String(),
		JoinURL:   r.Get("join_url").String(),
		Password:  r.Get("password").String(),
		Duration:  int(r.Get("duration").Int()),
		StartTime: r.Get("start_time").String(),
		Timezone:  r.Get("timezone").String(),
	}
}

func mockZoomMeeting(topic string, duration int, start time.Time) *ZoomMeeting {
	id := fmt.Sprintf("%d", rand.Intn(90000000)+10000000)
	return &ZoomMeeting{
		ID:        id,
		Topic:     topic,
		StartURL:  fmt.Sprintf("https://zoom.us/s/%s?zak=mock-zoom-key", id),
		JoinURL:   fmt.Sprintf("https://zoom.us/j/%s", id),
		Password:  "mockpassword",
		Duration:  duration,
		StartTime: start.UTC().Format(time.RFC3339),
		Timezone:  "UTC",
	}
}
