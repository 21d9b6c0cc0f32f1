package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/planner"
	"github.com/MertKocakaplan/aceit-sub001/services/ai"
	"github.com/MertKocakaplan/aceit-sub001/services/storage"
	"github.com/MertKocakaplan/aceit-sub001/utils/cache"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultSolverDailyLimit = 20

	// Presigned image URLs are short-lived; clients re-fetch the query
	// when they need a fresh one.
	imageURLTTL = 15 * time.Minute
)

var (
	ErrSolverQuotaExceeded = errors.New("daily solver limit reached")
	ErrQueryNotFound       = errors.New("solver query not found")
)

// SolverService answers student questions through the AI client, enforcing
// a per-user daily quota in Redis and archiving every query with its result.
type SolverService struct {
	db       *gorm.DB
	cache    *cache.RedisCache
	settings *SettingsService
	spaces   *storage.SpacesClient // nil when object storage is not configured
}

// NewSolverService creates a new solver service
func NewSolverService(db *gorm.DB, redisCache *cache.RedisCache, settings *SettingsService, spaces *storage.SpacesClient) *SolverService {
	return &SolverService{db: db, cache: redisCache, settings: settings, spaces: spaces}
}

// SolveRequest is one question submitted to the solver
type SolveRequest struct {
	SubjectID    *uint  `json:"subject_id"`
	QuestionText string `json:"question_text" validate:"required,min=3,max=8000"`
	ImageName    string `json:"image_name"`
	ImageData    []byte `json:"-"`
}

// SolverAnswer is the structured payload the model is asked to return
type SolverAnswer struct {
	Answer     string   `json:"answer"`
	Steps      []string `json:"steps"`
	Confidence string   `json:"confidence"`
}

// Solve runs one solver query end to end: quota check, optional image
// upload, completion call, and archival. The SolverQuery row is written
// before the AI call so failed attempts remain visible in history.
func (s *SolverService) Solve(ctx context.Context, userID uint, req SolveRequest) (*model.SolverQuery, error) {
	used, limit, err := s.consumeQuota(ctx, userID)
	if err != nil {
		return nil, err
	}
	if used > limit {
		return nil, fmt.Errorf("%w (%d per day)", ErrSolverQuotaExceeded, limit)
	}

	query := &model.SolverQuery{
		UserID:       userID,
		SubjectID:    req.SubjectID,
		QuestionText: req.QuestionText,
		Status:       model.SolverPending,
	}

	if len(req.ImageData) > 0 && s.spaces != nil {
		key := storage.QuestionImageKey(userID, req.ImageName)
		if err := s.spaces.UploadBytes(ctx, key, req.ImageData, "image/jpeg"); err != nil {
			log.Printf("SolverService: image upload failed for user %d: %v", userID, err)
		} else {
			query.ImageKey = key
		}
	}

	if err := s.db.WithContext(ctx).Create(query).Error; err != nil {
		return nil, fmt.Errorf("failed to record solver query: %w", err)
	}

	answer, err := s.askModel(ctx, query)
	if err != nil {
		s.markFailed(ctx, query, err)
		return nil, err
	}

	payload, err := json.Marshal(answer)
	if err != nil {
		s.markFailed(ctx, query, err)
		return nil, fmt.Errorf("failed to encode solver result: %w", err)
	}

	updates := map[string]interface{}{
		"status": model.SolverCompleted,
		"result": datatypes.JSON(payload),
	}
	if err := s.db.WithContext(ctx).Model(query).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to store solver result: %w", err)
	}
	query.Status = model.SolverCompleted
	query.Result = datatypes.JSON(payload)
	s.attachImageURL(query)
	return query, nil
}

// History returns the user's past queries, newest first
func (s *SolverService) History(ctx context.Context, userID uint, limit int) ([]model.SolverQuery, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var queries []model.SolverQuery
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&queries).Error
	if err != nil {
		return nil, err
	}
	for i := range queries {
		s.attachImageURL(&queries[i])
	}
	return queries, nil
}

// GetQuery returns one archived query owned by the user
func (s *SolverService) GetQuery(ctx context.Context, queryID, userID uint) (*model.SolverQuery, error) {
	var query model.SolverQuery
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ?", userID).
		First(&query, queryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQueryNotFound
	}
	if err != nil {
		return nil, err
	}
	s.attachImageURL(&query)
	return &query, nil
}

// DeleteQuery removes an archived query along with its stored question
// photo. A storage failure only logs; the orphaned object ages out with
// the dated key prefix.
func (s *SolverService) DeleteQuery(ctx context.Context, queryID, userID uint) error {
	var query model.SolverQuery
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&query, queryID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrQueryNotFound
	}
	if err != nil {
		return err
	}

	if query.ImageKey != "" && s.spaces != nil {
		if err := s.spaces.DeleteFile(ctx, query.ImageKey); err != nil {
			log.Printf("SolverService: failed to delete image %s: %v", query.ImageKey, err)
		}
	}

	return s.db.WithContext(ctx).Delete(&query).Error
}

// attachImageURL fills the transient ImageURL field with a presigned
// download link when the query has a stored photo and object storage is
// configured.
func (s *SolverService) attachImageURL(query *model.SolverQuery) {
	if s.spaces == nil || query.ImageKey == "" {
		return
	}
	url, err := s.spaces.PresignedURL(query.ImageKey, imageURLTTL)
	if err != nil {
		log.Printf("SolverService: failed to presign image %s: %v", query.ImageKey, err)
		return
	}
	query.ImageURL = url
}

// QuotaStatus reports today's usage against the configured limit
func (s *SolverService) QuotaStatus(ctx context.Context, userID uint) (used int64, limit int64, err error) {
	limit = s.dailyLimit()
	if s.cache == nil {
		return 0, limit, nil
	}
	raw, err := s.cache.Get(ctx, s.quotaKey(userID))
	if err != nil {
		return 0, limit, nil
	}
	used, _ = strconv.ParseInt(raw, 10, 64)
	return used, limit, nil
}

// consumeQuota increments today's counter and returns the new value. The
// key embeds the user's local calendar date so the window rolls at local
// midnight, and expires after two days as a safety margin.
func (s *SolverService) consumeQuota(ctx context.Context, userID uint) (used int64, limit int64, err error) {
	limit = s.dailyLimit()
	if s.cache == nil {
		return 1, limit, nil
	}
	key := s.quotaKey(userID)
	used, err = s.cache.Increment(ctx, key)
	if err != nil {
		// Redis being down must not block the solver
		log.Printf("SolverService: quota increment failed: %v", err)
		return 1, limit, nil
	}
	if used == 1 {
		if err := s.cache.Expire(ctx, key, 48*time.Hour); err != nil {
			log.Printf("SolverService: quota expire failed: %v", err)
		}
	}
	return used, limit, nil
}

func (s *SolverService) quotaKey(userID uint) string {
	return fmt.Sprintf("solver:quota:%d:%s", userID, planner.NewDateKey(time.Now()))
}

func (s *SolverService) dailyLimit() int64 {
	raw, err := s.settings.Get(model.SettingSolverDaily)
	if err != nil {
		return defaultSolverDailyLimit
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit <= 0 {
		return defaultSolverDailyLimit
	}
	return limit
}

func (s *SolverService) askModel(ctx context.Context, query *model.SolverQuery) (*SolverAnswer, error) {
	client, err := s.aiClient()
	if err != nil {
		return nil, err
	}

	prompt := query.QuestionText
	if query.SubjectID != nil {
		var subject model.Subject
		if err := s.db.WithContext(ctx).First(&subject, *query.SubjectID).Error; err == nil {
			prompt = fmt.Sprintf("Subject: %s\n\n%s", subject.Name, query.QuestionText)
		}
	}
	messages := []ai.Message{
		{Role: "system", Content: solverSystemPrompt},
		{Role: "user", Content: prompt},
	}
	content, err := client.Complete(ctx, messages, &ai.ResponseFormat{Type: "json_object"})
	if err != nil {
		return nil, fmt.Errorf("solver completion failed: %w", err)
	}

	var answer SolverAnswer
	if err := ai.ExtractJSONTo(content, &answer); err != nil {
		return nil, fmt.Errorf("solver returned unusable answer: %w", err)
	}
	return &answer, nil
}

func (s *SolverService) aiClient() (*ai.Client, error) {
	apiKey, err := s.settings.Get(model.SettingAIAPIKey)
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}
	endpoint, err := s.settings.Get(model.SettingAIEndpoint)
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}
	modelName, err := s.settings.Get(model.SettingAIModel)
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}
	return ai.NewClient(ai.Config{APIKey: apiKey, BaseURL: endpoint, Model: modelName}), nil
}

func (s *SolverService) markFailed(ctx context.Context, query *model.SolverQuery, cause error) {
	updates := map[string]interface{}{
		"status":    model.SolverFailed,
		"error_msg": cause.Error(),
	}
	if err := s.db.WithContext(ctx).Model(query).Updates(updates).Error; err != nil {
		log.Printf("SolverService: failed to mark query %d failed: %v", query.ID, err)
	}
}

const solverSystemPrompt = `You are a tutor helping students preparing for national university entrance exams. ` +
	`Solve the given question step by step. Respond with a single JSON object of the form ` +
	`{"answer":"...","steps":["..."],"confidence":"high|medium|low"}. ` +
	`The answer field holds the final result, steps hold the worked solution, one step per entry.`
