package service

import (
	"context"
	"fmt"
	"time"

	"todo-backend/internal/domain"
	"todo-backend/internal/query"
	"todo-backend/internal/repository"
)

// --- Input/Output Structs (DTOs) ---

// CreateTodoRequest holds the data needed to create a new todo. Status and
// priority default to pending/medium when omitted.
type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTodoRequest holds a partial update. Pointer fields distinguish a
// field being omitted from one being set to its zero value.
type UpdateTodoRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

// TodoResponse is the standard representation of a todo returned by the
// service.
type TodoResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TodoListResponse is the paginated envelope returned by ListTodos.
type TodoListResponse struct {
	Items      []TodoResponse `json:"items"`
	Page       int            `json:"page"`
	Size       int            `json:"size"`
	Total      int64          `json:"total"`
	TotalPages int64          `json:"total_pages"`
}

// --- Service Interface ---

// TodoService defines the operations for managing todos. It owns the
// business rules: validation, timestamp stamping, pagination metadata and
// error translation.
type TodoService interface {
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)
	GetTodoByID(ctx context.Context, id string) (*TodoResponse, error)
	ListTodos(ctx context.Context, params query.Params) (*TodoListResponse, error)
	UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*TodoResponse, error)
	DeleteTodo(ctx context.Context, id string) error
	ListByStatus(ctx context.Context, status string) ([]TodoResponse, error)
	ListOverdue(ctx context.Context) ([]TodoResponse, error)
}

// --- Service Implementation ---

type todoService struct {
	repo repository.TodoRepository
	now  func() time.Time
}

// NewTodoService creates a new todoService backed by the given repository.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return NewTodoServiceWithClock(repo, time.Now)
}

// NewTodoServiceWithClock is NewTodoService with an injected clock, so
// timestamp stamping and overdue computation are deterministic in tests.
func NewTodoServiceWithClock(repo repository.TodoRepository, now func() time.Time) TodoService {
	return &todoService{repo: repo, now: now}
}

// CreateTodo validates the payload, stamps timestamps and stores the todo.
// Validation happens before any store call.
func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	status := domain.StatusPending
	if req.Status != "" {
		status = domain.Status(req.Status)
	}
	priority := domain.PriorityMedium
	if req.Priority != "" {
		priority = domain.Priority(req.Priority)
	}

	now := s.now().UTC()
	todo := &domain.Todo{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := todo.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, todo); err != nil {
		return nil, err
	}
	return toResponse(todo), nil
}

// GetTodoByID retrieves a single todo by its id.
func (s *todoService) GetTodoByID(ctx context.Context, id string) (*TodoResponse, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(todo), nil
}

// ListTodos builds the query spec, executes it and assembles the paginated
// envelope. A page beyond the last one is a valid, empty result rather than
// an error.
func (s *todoService) ListTodos(ctx context.Context, params query.Params) (*TodoListResponse, error) {
	spec, err := query.Build(params)
	if err != nil {
		return nil, err
	}

	todos, total, err := s.repo.Find(ctx, spec)
	if err != nil {
		return nil, err
	}

	items := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		items = append(items, *toResponse(&todos[i]))
	}

	// total_pages = ceil(total / size), in integer arithmetic.
	totalPages := (total + int64(spec.Size) - 1) / int64(spec.Size)

	return &TodoListResponse{
		Items:      items,
		Page:       spec.Page,
		Size:       spec.Size,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// UpdateTodo validates only the supplied fields and applies them; the
// repository stamps updated_at as part of the same atomic operation.
func (s *todoService) UpdateTodo(ctx context.Context, id string, req UpdateTodoRequest) (*TodoResponse, error) {
	patch := domain.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		patch.Priority = &priority
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	todo, err := s.repo.Update(ctx, id, patch, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return toResponse(todo), nil
}

// DeleteTodo removes a todo, failing with domain.ErrNotFound when no record
// was removed.
func (s *todoService) DeleteTodo(ctx context.Context, id string) error {
	existed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return domain.ErrNotFound
	}
	return nil
}

// ListByStatus validates the status and returns all todos carrying it.
func (s *todoService) ListByStatus(ctx context.Context, status string) ([]TodoResponse, error) {
	st := domain.Status(status)
	if !st.IsValid() {
		return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidFilter, status)
	}

	todos, err := s.repo.FindByStatus(ctx, st)
	if err != nil {
		return nil, err
	}
	return toResponses(todos), nil
}

// ListOverdue returns todos past their due date that are not completed.
// "Now" is computed once per call.
func (s *todoService) ListOverdue(ctx context.Context) ([]TodoResponse, error) {
	todos, err := s.repo.FindOverdue(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return toResponses(todos), nil
}

func toResponse(todo *domain.Todo) *TodoResponse {
	return &TodoResponse{
		ID:          todo.ID.Hex(),
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status.String(),
		Priority:    todo.Priority.String(),
		DueDate:     todo.DueDate,
		CreatedAt:   todo.CreatedAt,
		UpdatedAt:   todo.UpdatedAt,
	}
}

func toResponses(todos []domain.Todo) []TodoResponse {
	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, *toResponse(&todos[i]))
	}
	return responses
}
