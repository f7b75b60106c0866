package service

import "github.com/99minutos/ops-dashboard/internal/core/domain"

type loginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type emailForm struct {
	Email string `json:"email" validate:"required,email"`
}

type otpForm struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp"   validate:"required,len=6,numeric"`
}

type newPasswordForm struct {
	Email       string `json:"email"       validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type userForm struct {
	ID    domain.ID       `json:"id"    validate:"required"`
	Email string          `json:"email" validate:"required,email"`
	Phone string          `json:"phone" validate:"required"`
	Role  domain.UserRole `json:"role"  validate:"required,oneof=admin write read"`
	Name  string          `json:"name"  validate:"required"`
}

func userFormOf(u domain.User) userForm {
	return userForm{ID: u.ID, Email: u.Email, Phone: u.Phone, Role: u.Role, Name: u.DisplayName()}
}

type taskForm struct {
	ID          domain.ID         `json:"id"          validate:"required"`
	Title       string            `json:"title"       validate:"required"`
	Description string            `json:"description" validate:"required"`
	AssignedTo  domain.ID         `json:"assignedTo"  validate:"required"`
	Status      domain.TaskStatus `json:"status"      validate:"required,oneof=pending in-progress completed"`
	Priority    domain.Priority   `json:"priority"    validate:"required,oneof=low medium high"`
}

func taskFormOf(t domain.Task) taskForm {
	return taskForm{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		Status:      t.Status,
		Priority:    t.Priority,
	}
}

type statusForm struct {
	ID     domain.ID         `json:"id"     validate:"required"`
	Status domain.TaskStatus `json:"status" validate:"required,oneof=pending in-progress completed"`
}
