// Package planner covers Planner plans, buckets and tasks.
//
// Planner is the one Graph workload that rejects tag-less mutations, so
// every update and delete here goes through the conditional helpers and a
// missing tag fails client-side before any request is issued.
package planner

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/riddler/msgraph"
)

// Plan represents a Planner plan.
type Plan struct {
	Etag            string `json:"@odata.etag"`
	ID              string `json:"id"`
	Title           string `json:"title"`
	Owner           string `json:"owner"`
	CreatedDateTime string `json:"createdDateTime"`
}

// Bucket represents a Planner bucket within a plan.
type Bucket struct {
	Etag      string `json:"@odata.etag"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	PlanID    string `json:"planId"`
	OrderHint string `json:"orderHint"`
}

// Task represents a Planner task.
type Task struct {
	Etag              string          `json:"@odata.etag"`
	ID                string          `json:"id"`
	PlanID            string          `json:"planId"`
	BucketID          string          `json:"bucketId"`
	Title             string          `json:"title"`
	PercentComplete   int             `json:"percentComplete"`
	Priority          int             `json:"priority"`
	DueDateTime       string          `json:"dueDateTime"`
	CompletedDateTime string          `json:"completedDateTime"`
	CreatedDateTime   string          `json:"createdDateTime"`
	Assignments       json.RawMessage `json:"assignments"`
}

// Service exposes Planner operations over a Graph client.
type Service struct {
	client *msgraph.Client
}

// NewService creates a planner service.
func NewService(client *msgraph.Client) *Service {
	return &Service{client: client}
}

// GetPlan fetches a plan by ID.
func (s *Service) GetPlan(ctx context.Context, planID string) (*Plan, error) {
	body, err := s.client.Get(ctx, "/planner/plans/"+planID)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &plan, nil
}

// UpdatePlan applies a conditional partial update. The tag must come from
// a prior read of the plan; Planner rejects unconditional updates.
func (s *Service) UpdatePlan(ctx context.Context, planID string, patch map[string]any, tag string) (*Plan, error) {
	body, err := s.client.UpdateWithTag(ctx, "/planner/plans/"+planID, patch, tag)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &plan, nil
}

// ListBuckets returns the buckets of a plan.
func (s *Service) ListBuckets(ctx context.Context, planID string, opts msgraph.ListOptions) ([]Bucket, string, error) {
	return msgraph.ListAs[Bucket](ctx, s.client, "/planner/plans/"+planID+"/buckets", opts)
}

// ListPlanTasks returns the tasks of a plan.
func (s *Service) ListPlanTasks(ctx context.Context, planID string, opts msgraph.ListOptions) ([]Task, string, error) {
	return msgraph.ListAs[Task](ctx, s.client, "/planner/plans/"+planID+"/tasks", opts)
}

// GetTask fetches a task by ID.
func (s *Service) GetTask(ctx context.Context, taskID string) (*Task, error) {
	body, err := s.client.Get(ctx, "/planner/tasks/"+taskID)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &task, nil
}

// CreateTask creates a task from local-form attributes, e.g.
// {"plan_id": ..., "bucket_id": ..., "title": ...}. Creation needs no tag.
func (s *Service) CreateTask(ctx context.Context, attrs map[string]any) (*Task, error) {
	body, err := s.client.Post(ctx, "/planner/tasks", attrs)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &task, nil
}

// UpdateTask applies a conditional partial update and returns the task
// with its fresh tag.
func (s *Service) UpdateTask(ctx context.Context, taskID string, patch map[string]any, tag string) (*Task, error) {
	body, err := s.client.UpdateWithTag(ctx, "/planner/tasks/"+taskID, patch, tag)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return &task, nil
}

// DeleteTask removes a task conditionally.
func (s *Service) DeleteTask(ctx context.Context, taskID, tag string, opts msgraph.DeleteOptions) error {
	return s.client.DeleteWithTag(ctx, "/planner/tasks/"+taskID, tag, opts)
}
