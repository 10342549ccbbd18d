package models

import "time"

const (
	RoleDevelopmentOfficer = "development_officer"
	RoleSupervisor         = "supervisor"
	RoleTrainer            = "trainer"
	RoleProjectManager     = "project_manager"
	RoleProvincialOfficer  = "provincial_officer"
)

type User struct {
	ID              string          `json:"id"`
	FullName        string          `json:"full_name"`
	Email           string          `json:"email"`
	Role            string          `json:"role"`
	Province        *string         `json:"province"`
	Specializations Specializations `json:"specializations"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type UserFilter struct {
	Role           string
	Specialization string
	IDs            []string
}
