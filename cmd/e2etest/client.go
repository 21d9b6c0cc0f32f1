package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MertKocakaplan/aceit-sub001/model"
	"github.com/MertKocakaplan/aceit-sub001/planner"
)

// apiClient is a thin JSON client over the running API. It doubles as the
// planner.PlanMutator for the workflow under test, so the exact HTTP
// surface the web client uses is what gets exercised.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope mirrors the API's response wrapper with the payload left raw
// so callers can decode into their own types.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func (c *apiClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: status %d, unparseable body: %s", method, path, resp.StatusCode, raw)
	}
	if resp.StatusCode >= 400 || !env.Success {
		if env.Error != nil {
			return fmt.Errorf("%s %s: status %d: %s (%s)", method, path, resp.StatusCode, env.Error.Message, env.Error.Code)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if out != nil && len(env.Data) > 0 {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

type authPayload struct {
	AccessToken string `json:"access_token"`
}

// registerOrLogin creates a fresh account, falling back to login when the
// email already exists from a previous run.
func (c *apiClient) registerOrLogin(ctx context.Context, email, password, name string) error {
	var auth authPayload
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email": email, "password": password, "name": name,
	}, &auth)
	if err != nil {
		err = c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email": email, "password": password,
		}, &auth)
	}
	if err != nil {
		return err
	}
	c.token = auth.AccessToken
	return nil
}

func (c *apiClient) listSubjects(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	if err := c.do(ctx, http.MethodGet, "/api/v1/subjects", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (c *apiClient) createPlan(ctx context.Context, req interface{}) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	if err := c.do(ctx, http.MethodPost, "/api/v1/plans", req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *apiClient) getPlan(ctx context.Context, planID uint) (*model.StudyPlan, error) {
	var plan model.StudyPlan
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/plans/%d", planID), nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *apiClient) deletePlan(ctx context.Context, planID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/plans/%d", planID), nil, nil)
}

type weekGridPayload struct {
	Bounds struct {
		MinHour int `json:"min_hour"`
		MaxHour int `json:"max_hour"`
	} `json:"bounds"`
	PxPerHour float64 `json:"px_per_hour"`
	Entries   []struct {
		DateKey string `json:"date_key"`
		Slots   []struct {
			Slot     *model.StudySlot `json:"slot"`
			Geometry planner.Geometry `json:"geometry"`
		} `json:"slots"`
	} `json:"entries"`
}

func (c *apiClient) getWeekGrid(ctx context.Context, planID uint, date string) (*weekGridPayload, error) {
	var grid weekGridPayload
	path := fmt.Sprintf("/api/v1/plans/%d/week?date=%s", planID, date)
	if err := c.do(ctx, http.MethodGet, path, nil, &grid); err != nil {
		return nil, err
	}
	return &grid, nil
}

// SetSlotCompletion implements planner.PlanMutator over the HTTP API.
func (c *apiClient) SetSlotCompletion(ctx context.Context, slotID uint, completed bool, outcome *planner.Outcome) error {
	body := map[string]interface{}{"completed": completed}
	if outcome != nil {
		body["correct"] = outcome.Correct
		body["wrong"] = outcome.Wrong
		body["blank"] = outcome.Blank
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/slots/%d/completion", slotID), body, nil)
}
