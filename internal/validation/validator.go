package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Field length limits
const (
	MaxTitleLength = 255
	MaxNameLength  = 100
	MaxEmailLength = 255
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator provides validation methods
type Validator struct {
	minPasswordLength int
}

// NewValidator creates a new validator instance
func NewValidator(minPasswordLength int) *Validator {
	if minPasswordLength < 1 {
		minPasswordLength = 1
	}
	return &Validator{minPasswordLength: minPasswordLength}
}

// Err folds errs into a single validation error, or nil when errs is empty
func Err(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return apperr.Validation("%s", strings.Join(msgs, "; "))
}

// IsValidEmail reports whether s looks like an email address
func IsValidEmail(s string) bool {
	return len(s) <= MaxEmailLength && emailRegex.MatchString(s)
}

// IsValidSlug reports whether s is kebab-case
func IsValidSlug(s string) bool {
	return slugRegex.MatchString(s)
}

func required(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	return nil
}

func maxLen(field, value string, n int) *ValidationError {
	if len(value) > n {
		return &ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, n)}
	}
	return nil
}

func collect(errs []ValidationError, checks ...*ValidationError) []ValidationError {
	for _, c := range checks {
		if c != nil {
			errs = append(errs, *c)
		}
	}
	return errs
}

func (v *Validator) password(field, value string) *ValidationError {
	if value == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	if len(value) < v.minPasswordLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%s must be at least %d characters", field, v.minPasswordLength),
		}
	}
	return nil
}

func email(field, value string) *ValidationError {
	if value == "" {
		return &ValidationError{Field: field, Message: field + " is required"}
	}
	if !IsValidEmail(value) {
		return &ValidationError{Field: field, Message: "invalid email format", Value: value}
	}
	return nil
}

// ValidateLogin validates a login request
func (v *Validator) ValidateLogin(req *models.LoginRequest) []ValidationError {
	var errs []ValidationError
	if req.Email == "" || req.Password == "" {
		errs = append(errs, ValidationError{Field: "email", Message: "email and password are required"})
	}
	return errs
}

// ValidateRegister validates a registration request
func (v *Validator) ValidateRegister(req *models.RegisterRequest) []ValidationError {
	return collect(nil,
		required("name", req.Name),
		maxLen("name", req.Name, MaxNameLength),
		email("email", req.Email),
		v.password("password", req.Password),
	)
}

// ValidateUserUpdate validates the supplied fields of a user update
func (v *Validator) ValidateUserUpdate(req *models.UpdateUserRequest) []ValidationError {
	var errs []ValidationError
	if req.Name != nil {
		errs = collect(errs, required("name", *req.Name), maxLen("name", *req.Name, MaxNameLength))
	}
	if req.Email != nil {
		errs = collect(errs, email("email", *req.Email))
	}
	if req.Role != nil && !models.ValidRoles[*req.Role] {
		errs = append(errs, ValidationError{
			Field:   "role",
			Message: "invalid role, must be one of: ADMIN, WRITER",
			Value:   *req.Role,
		})
	}
	if req.Password != nil {
		errs = collect(errs, v.password("password", *req.Password))
	}
	return errs
}

// ValidateCategory validates a category create or rename
func (v *Validator) ValidateCategory(req *models.CategoryRequest) []ValidationError {
	return collect(nil, required("name", req.Name), maxLen("name", req.Name, MaxNameLength))
}

// ValidateArticleCreate validates the fields of a new article. Status rules
// depend on the actor and live in the policy package.
func (v *Validator) ValidateArticleCreate(req *models.CreateArticleRequest) []ValidationError {
	return collect(nil,
		required("title", req.Title),
		maxLen("title", req.Title, MaxTitleLength),
		required("summary", req.Summary),
		required("content", req.Content),
		positiveID("categoryId", req.CategoryID),
	)
}

// ValidateArticleUpdate validates the supplied fields of an article update
func (v *Validator) ValidateArticleUpdate(req *models.UpdateArticleRequest) []ValidationError {
	var errs []ValidationError
	if req.Title != nil {
		errs = collect(errs, required("title", *req.Title), maxLen("title", *req.Title, MaxTitleLength))
	}
	if req.Summary != nil {
		errs = collect(errs, required("summary", *req.Summary))
	}
	if req.Content != nil {
		errs = collect(errs, required("content", *req.Content))
	}
	return collect(errs, positiveID("categoryId", req.CategoryID.Value))
}

// ValidateTaskCreate validates a new task
func (v *Validator) ValidateTaskCreate(req *models.CreateTaskRequest) []ValidationError {
	return collect(nil,
		required("title", req.Title),
		maxLen("title", req.Title, MaxTitleLength),
		required("description", req.Description),
		priority(req.Priority),
		positiveID("assignedToId", req.AssignedToID),
	)
}

// ValidateTaskUpdate validates the supplied fields of a task update
func (v *Validator) ValidateTaskUpdate(req *models.UpdateTaskRequest) []ValidationError {
	var errs []ValidationError
	if req.Title != nil {
		errs = collect(errs, required("title", *req.Title), maxLen("title", *req.Title, MaxTitleLength))
	}
	if req.Description != nil {
		errs = collect(errs, required("description", *req.Description))
	}
	return collect(errs, priority(req.Priority), positiveID("assignedToId", req.AssignedToID.Value))
}

func priority(p *int) *ValidationError {
	if p != nil && (*p < models.PriorityLow || *p > models.PriorityHigh) {
		return &ValidationError{
			Field:   "priority",
			Message: fmt.Sprintf("priority must be between %d and %d", models.PriorityLow, models.PriorityHigh),
			Value:   *p,
		}
	}
	return nil
}

func positiveID(field string, id *int64) *ValidationError {
	if id != nil && *id <= 0 {
		return &ValidationError{Field: field, Message: field + " must be a positive integer", Value: *id}
	}
	return nil
}
