package service

import (
	"context"

	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/policy"
	"github.com/newsroom-cms/api/internal/repository"
	"github.com/newsroom-cms/api/internal/validation"
	"github.com/rs/zerolog"
)

// taskService is the concrete implementation of TaskService
type taskService struct {
	tasks     repository.TaskRepository
	users     repository.UserRepository
	validator *validation.Validator
	log       zerolog.Logger
}

// newTaskService creates a new TaskService
func newTaskService(repos *repository.Repositories, validator *validation.Validator, log zerolog.Logger) *taskService {
	return &taskService{
		tasks:     repos.Task,
		users:     repos.User,
		validator: validator,
		log:       log.With().Str("service", "task").Logger(),
	}
}

// List returns every task for an admin, with assignee details, and only the
// actor's own tasks for a writer
func (s *taskService) List(ctx context.Context, actor policy.Actor) ([]*models.Task, error) {
	if policy.Can(policy.ListAllTasks, actor) {
		return s.tasks.List(ctx, repository.TaskFilter{WithAssignee: policy.Can(policy.ViewAssignee, actor)})
	}
	return s.tasks.List(ctx, repository.TaskFilter{AssigneeID: &actor.UserID})
}

func (s *taskService) Get(ctx context.Context, actor policy.Actor, id int64) (*models.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeTask(policy.ViewTask, actor, policy.TaskRefOf(task)); err != nil {
		return nil, err
	}
	if !policy.Can(policy.ViewAssignee, actor) {
		task.AssignedTo = nil
	}
	return task, nil
}

func (s *taskService) Create(ctx context.Context, actor policy.Actor, req *models.CreateTaskRequest) (*models.Task, error) {
	if err := policy.AuthorizeTask(policy.CreateTask, actor, policy.TaskRef{}); err != nil {
		return nil, err
	}
	if err := validation.Err(s.validator.ValidateTaskCreate(req)); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, req.AssignedToID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     models.PriorityLow,
		DueDate:      req.DueDate,
		AssignedToID: req.AssignedToID,
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, storeErr(err, "task")
	}

	s.log.Info().Int64("task_id", task.ID).Msg("Task created")
	return task, nil
}

func (s *taskService) Update(ctx context.Context, actor policy.Actor, id int64, req *models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	ref := policy.TaskRefOf(task)
	if err := policy.AuthorizeTask(policy.UpdateTask, actor, ref); err != nil {
		return nil, err
	}
	if req.AssignedToID.Set && !sameID(req.AssignedToID.Value, task.AssignedToID) {
		if err := policy.AuthorizeTask(policy.ReassignTask, actor, ref); err != nil {
			return nil, err
		}
	}
	if err := validation.Err(s.validator.ValidateTaskUpdate(req)); err != nil {
		return nil, err
	}
	if req.AssignedToID.Set {
		if err := s.checkAssignee(ctx, req.AssignedToID.Value); err != nil {
			return nil, err
		}
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.IsCompleted != nil {
		task.IsCompleted = *req.IsCompleted
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.AssignedToID.Set {
		task.AssignedToID = req.AssignedToID.Value
	}
	task.AssignedTo = nil

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, storeErr(err, "task")
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, actor policy.Actor, id int64) (*models.Task, error) {
	if err := policy.AuthorizeTask(policy.DeleteTask, actor, policy.TaskRef{}); err != nil {
		return nil, err
	}
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return nil, storeErr(err, "task")
	}
	task.AssignedTo = nil
	s.log.Info().Int64("task_id", id).Msg("Task deleted")
	return task, nil
}

// ToggleStatus flips the completion flag
func (s *taskService) ToggleStatus(ctx context.Context, actor policy.Actor, id int64) (*models.Task, error) {
	task, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeTask(policy.ToggleTask, actor, policy.TaskRefOf(task)); err != nil {
		return nil, err
	}

	task.IsCompleted = !task.IsCompleted
	task.AssignedTo = nil
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, storeErr(err, "task")
	}
	return task, nil
}

func (s *taskService) load(ctx context.Context, id int64) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("task not found")
	}
	return task, nil
}

func (s *taskService) checkAssignee(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	exists, err := s.users.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.Validation("assigned user %d does not exist", *id)
	}
	return nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
