// Package validation checks raw form input against the FlowTrack form schemas.
//
// Each schema kind maps to a tagged input struct. A field reports only the
// message of its first failing tag, and a form that fails any tag produces no
// typed record.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/DevNiNi18/flowtrack/internal/constants"
	"github.com/go-playground/validator/v10"
)

// Kind identifies a form schema.
type Kind string

const (
	KindLogin    Kind = "login"
	KindRegister Kind = "register"
	KindProject  Kind = "project"
	KindTask     Kind = "task"
)

// Field names as submitted by the client.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldProjectTitle    = "projectTitle"
	FieldDueDate         = "dueDate"
	FieldTaskTitle       = "taskTitle"
)

// Values is the raw field-value mapping of a submitted form.
type Values map[string]string

// Error maps each failing field to its first failing message.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message reported for name, if any.
func (e *Error) Field(name string) (string, bool) {
	msg, ok := e.Fields[name]
	return msg, ok
}

// LoginForm is a validated login submission.
type LoginForm struct {
	Email    string
	Password string
}

// RegisterForm is a validated registration submission.
type RegisterForm struct {
	Email    string
	Password string
}

// ProjectForm is a validated project creation submission.
type ProjectForm struct {
	Title   string
	DueDate time.Time
}

// TaskForm is a validated task creation submission.
type TaskForm struct {
	Title string
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"min=8,bcryptmax"`
}

type registerInput struct {
	Email           string `json:"email" validate:"required,email,max=254"`
	Password        string `json:"password" validate:"min=8,bcryptmax"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type projectInput struct {
	Title   string `json:"projectTitle" validate:"required"`
	DueDate string `json:"dueDate" validate:"required,datetime=2006-01-02|datetime=2006-01-02T15:04:05Z07:00"`
}

type taskInput struct {
	Title string `json:"taskTitle" validate:"required"`
}

// messages maps field and failing tag to the reported message. The "" entry
// covers any other tag on that field.
var messages = map[string]map[string]string{
	FieldEmail: {
		"required": "Email is required",
		"":         "Invalid Email",
	},
	FieldPassword: {
		"min": fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength),
		"":    fmt.Sprintf("Password must be at most %d characters", constants.MaxPasswordLength),
	},
	FieldConfirmPassword: {
		"required": "Please confirm your password",
		"eqfield":  "Passwords do not match",
	},
	FieldProjectTitle: {"": "Field is required"},
	FieldDueDate: {
		"required": "Select Date",
		"":         "Invalid date",
	},
	FieldTaskTitle: {"": "Field is required"},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	// bcrypt rejects inputs longer than 72 bytes.
	if err := v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= constants.MaxPasswordLength
	}); err != nil {
		panic(err)
	}
	return v
}

func input(kind Kind, values Values) (any, error) {
	switch kind {
	case KindLogin:
		return &loginInput{
			Email:    normalizeEmail(values[FieldEmail]),
			Password: values[FieldPassword],
		}, nil
	case KindRegister:
		return &registerInput{
			Email:           normalizeEmail(values[FieldEmail]),
			Password:        values[FieldPassword],
			ConfirmPassword: values[FieldConfirmPassword],
		}, nil
	case KindProject:
		return &projectInput{
			Title:   strings.TrimSpace(values[FieldProjectTitle]),
			DueDate: strings.TrimSpace(values[FieldDueDate]),
		}, nil
	case KindTask:
		return &taskInput{Title: strings.TrimSpace(values[FieldTaskTitle])}, nil
	default:
		return nil, fmt.Errorf("validation: unknown schema %q", kind)
	}
}

// Check validates values against kind. It returns nil or an *Error.
func Check(kind Kind, values Values) error {
	in, err := input(kind, values)
	if err != nil {
		return err
	}
	return check(in)
}

func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation: %w", err)
	}

	failed := make(map[string]string, len(fieldErrs))
	mismatch := false
	for _, fe := range fieldErrs {
		if fe.Field() == FieldConfirmPassword && fe.Tag() == "eqfield" {
			mismatch = true
			continue
		}
		failed[fe.Field()] = message(fe.Field(), fe.Tag())
	}
	// The password match is only judged once every other field is valid.
	if mismatch && len(failed) == 0 {
		failed[FieldConfirmPassword] = message(FieldConfirmPassword, "eqfield")
	}
	return &Error{Fields: failed}
}

func message(field, tag string) string {
	byTag := messages[field]
	if msg, ok := byTag[tag]; ok {
		return msg
	}
	if msg, ok := byTag[""]; ok {
		return msg
	}
	return "Invalid value"
}

// Validate checks values against kind and returns the matching typed form
// (LoginForm, RegisterForm, ProjectForm or TaskForm).
func Validate(kind Kind, values Values) (any, error) {
	switch kind {
	case KindLogin:
		return Login(values)
	case KindRegister:
		return Register(values)
	case KindProject:
		return Project(values)
	case KindTask:
		return Task(values)
	default:
		return nil, fmt.Errorf("validation: unknown schema %q", kind)
	}
}

// Login validates a login form.
func Login(values Values) (LoginForm, error) {
	in, _ := input(KindLogin, values)
	if err := check(in); err != nil {
		return LoginForm{}, err
	}
	form := in.(*loginInput)
	return LoginForm{Email: form.Email, Password: form.Password}, nil
}

// Register validates a registration form.
func Register(values Values) (RegisterForm, error) {
	in, _ := input(KindRegister, values)
	if err := check(in); err != nil {
		return RegisterForm{}, err
	}
	form := in.(*registerInput)
	return RegisterForm{Email: form.Email, Password: form.Password}, nil
}

// Project validates a project creation form.
func Project(values Values) (ProjectForm, error) {
	in, _ := input(KindProject, values)
	if err := check(in); err != nil {
		return ProjectForm{}, err
	}
	form := in.(*projectInput)
	due, err := ParseDate(form.DueDate)
	if err != nil {
		return ProjectForm{}, &Error{Fields: map[string]string{FieldDueDate: message(FieldDueDate, "")}}
	}
	return ProjectForm{Title: form.Title, DueDate: due}, nil
}

// Task validates a task creation form.
func Task(values Values) (TaskForm, error) {
	in, _ := input(KindTask, values)
	if err := check(in); err != nil {
		return TaskForm{}, err
	}
	return TaskForm{Title: in.(*taskInput).Title}, nil
}

// ParseDate parses a YYYY-MM-DD or RFC 3339 value into midnight UTC of that
// calendar date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := time.Parse(constants.DateLayout, value)
	if err != nil {
		t, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}, err
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
