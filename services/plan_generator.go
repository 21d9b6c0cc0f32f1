package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/planner"
	"github.com/MertKocakaplan/aceit-sub001/services/ai"
	"gorm.io/gorm"
)

var ErrNoSubjects = errors.New("no subjects available for plan generation")

// PlanGenerator builds study plans from an LLM and persists them through
// the same validation and activation path as manually created plans.
type PlanGenerator struct {
	db       *gorm.DB
	plans    *PlanService
	settings *SettingsService
}

// NewPlanGenerator creates a new plan generator
func NewPlanGenerator(db *gorm.DB, plans *PlanService, settings *SettingsService) *PlanGenerator {
	return &PlanGenerator{db: db, plans: plans, settings: settings}
}

// GeneratePlanRequest describes what the user wants generated
type GeneratePlanRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=255"`
	StartDate  string `json:"start_date" validate:"required,datekey"`
	EndDate    string `json:"end_date" validate:"required,datekey"`
	SubjectIDs []uint `json:"subject_ids" validate:"required,min=1"`
	DailyHours int    `json:"daily_hours" validate:"omitempty,min=1,max=16"`
	Notes      string `json:"notes" validate:"omitempty,max=2000"`
	Activate   bool   `json:"activate"`
}

// generatedPlan mirrors the JSON shape the model is instructed to return
type generatedPlan struct {
	Days []struct {
		Date  string `json:"date"`
		Slots []struct {
			Subject   string `json:"subject"`
			Topic     string `json:"topic"`
			StartTime string `json:"start_time"`
			EndTime   string `json:"end_time"`
			Type      string `json:"type"`
			Rationale string `json:"rationale"`
		} `json:"slots"`
	} `json:"days"`
}

// Generate asks the model for a schedule covering the requested date range
// and persists it as an AI-generated plan. Subject and topic names in the
// model response are resolved back to rows; unknown topics are dropped,
// unknown subjects fail the slot's day entry.
func (g *PlanGenerator) Generate(ctx context.Context, userID uint, req GeneratePlanRequest) (*model.StudyPlan, error) {
	startKey, err := planner.ParseDateKey(req.StartDate)
	if err != nil {
		return nil, err
	}
	endKey, err := planner.ParseDateKey(req.EndDate)
	if err != nil {
		return nil, err
	}
	if endKey.Time().Before(startKey.Time()) {
		return nil, ErrBadDateRange
	}

	var subjects []model.Subject
	if err := g.db.WithContext(ctx).
		Preload("Topics").
		Where("id IN ?", req.SubjectIDs).
		Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch subjects: %w", err)
	}
	if len(subjects) == 0 {
		return nil, ErrNoSubjects
	}

	client, err := g.client()
	if err != nil {
		return nil, err
	}

	messages := []ai.Message{
		{Role: "system", Content: plannerSystemPrompt},
		{Role: "user", Content: g.buildPrompt(subjects, startKey, endKey, req)},
	}
	content, err := client.Complete(ctx, messages, &ai.ResponseFormat{Type: "json_object"})
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	var generated generatedPlan
	if err := ai.ExtractJSONTo(content, &generated); err != nil {
		return nil, fmt.Errorf("model returned unusable plan: %w", err)
	}
	if len(generated.Days) == 0 {
		return nil, errors.New("model returned an empty plan")
	}

	plan, err := g.assemble(userID, req, startKey, endKey, subjects, &generated)
	if err != nil {
		return nil, err
	}
	if err := planner.NormalizePlan(plan); err != nil {
		return nil, fmt.Errorf("generated plan failed normalization: %w", err)
	}

	err = g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if req.Activate {
			if err := deactivatePlans(tx, userID); err != nil {
				return err
			}
			plan.IsActive = true
		}
		return tx.Create(plan).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist generated plan: %w", err)
	}

	log.Printf("PlanGenerator: created plan %d for user %d (%d days)", plan.ID, userID, len(plan.Days))
	return g.plans.FetchPlan(ctx, plan.ID, userID)
}

// client resolves AI credentials from app settings. A missing key surfaces
// later as ErrMissingAPIKey from the first completion call.
func (g *PlanGenerator) client() (*ai.Client, error) {
	apiKey, err := g.settings.Get(model.SettingAIAPIKey)
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}
	endpoint, err := g.settings.Get(model.SettingAIEndpoint)
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}
	modelName, err := g.settings.Get(model.SettingAIModel)
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		return nil, err
	}
	return ai.NewClient(ai.Config{
		APIKey:  apiKey,
		BaseURL: endpoint,
		Model:   modelName,
	}), nil
}

const plannerSystemPrompt = `You are a study planner for students preparing for national university entrance exams. ` +
	`You produce concrete weekly schedules. Respond with a single JSON object of the form ` +
	`{"days":[{"date":"YYYY-MM-DD","slots":[{"subject":"...","topic":"...","start_time":"HH:MM","end_time":"HH:MM","type":"study|review|practice|break","rationale":"..."}]}]}. ` +
	`Dates are local calendar dates, times are 24-hour. Slots within a day must not overlap and end_time must be after start_time. ` +
	`Only use the subjects and topics listed in the request. Keep rationales to one sentence.`

func (g *PlanGenerator) buildPrompt(subjects []model.Subject, start, end planner.DateKey, req GeneratePlanRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build a study plan from %s to %s.\n", start, end)
	if req.DailyHours > 0 {
		fmt.Fprintf(&b, "Target roughly %d hours of study per day.\n", req.DailyHours)
	}
	b.WriteString("Subjects and their topics:\n")
	for _, subject := range subjects {
		fmt.Fprintf(&b, "- %s:", subject.Name)
		for i, topic := range subject.Topics {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, " %s", topic.Name)
		}
		b.WriteString("\n")
	}
	if req.Notes != "" {
		fmt.Fprintf(&b, "Student notes: %s\n", req.Notes)
	}
	return b.String()
}

// assemble turns the model output into a plan entity, resolving names to rows
func (g *PlanGenerator) assemble(userID uint, req GeneratePlanRequest, start, end planner.DateKey, subjects []model.Subject, generated *generatedPlan) (*model.StudyPlan, error) {
	subjectsByName := make(map[string]*model.Subject, len(subjects))
	topicsByName := make(map[string]map[string]uint, len(subjects))
	for i := range subjects {
		subject := &subjects[i]
		key := strings.ToLower(strings.TrimSpace(subject.Name))
		subjectsByName[key] = subject
		topics := make(map[string]uint, len(subject.Topics))
		for _, topic := range subject.Topics {
			topics[strings.ToLower(strings.TrimSpace(topic.Name))] = topic.ID
		}
		topicsByName[key] = topics
	}

	plan := &model.StudyPlan{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Notes,
		StartDate:   start.Time(),
		EndDate:     end.Time(),
		AIGenerated: true,
	}

	seen := make(map[planner.DateKey]bool, len(generated.Days))
	for _, genDay := range generated.Days {
		dayKey, err := planner.ParseDateKey(genDay.Date)
		if err != nil {
			log.Printf("PlanGenerator: skipping day with bad date %q", genDay.Date)
			continue
		}
		if seen[dayKey] {
			continue
		}
		date := dayKey.Time()
		if date.Before(start.Time()) || date.After(end.Time()) {
			continue
		}
		seen[dayKey] = true

		day := model.PlanDay{Date: date}
		for _, genSlot := range genDay.Slots {
			subjectKey := strings.ToLower(strings.TrimSpace(genSlot.Subject))
			subject, ok := subjectsByName[subjectKey]
			if !ok {
				log.Printf("PlanGenerator: skipping slot with unknown subject %q", genSlot.Subject)
				continue
			}
			slot := model.StudySlot{
				SubjectID:   subject.ID,
				StartTime:   genSlot.StartTime,
				EndTime:     genSlot.EndTime,
				Type:        model.SlotType(genSlot.Type),
				AIRationale: genSlot.Rationale,
			}
			if topicID, ok := topicsByName[subjectKey][strings.ToLower(strings.TrimSpace(genSlot.Topic))]; ok {
				slot.TopicID = &topicID
			}
			if _, _, _, err := planner.ValidateSlotTimes(slot.StartTime, slot.EndTime); err != nil {
				log.Printf("PlanGenerator: skipping slot %s-%s: %v", genSlot.StartTime, genSlot.EndTime, err)
				continue
			}
			day.Slots = append(day.Slots, slot)
		}
		if len(day.Slots) > 0 {
			plan.Days = append(plan.Days, day)
		}
	}
	if len(plan.Days) == 0 {
		return nil, errors.New("model produced no usable days")
	}

	return plan, nil
}
