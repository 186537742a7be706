// Package seed provides the admin accounts a directory starts with.
//
// The built-in fixture mirrors the demo accounts of the dashboard. A YAML file
// with the same shape may replace it:
//
//	users:
//	  - email: admin@movemate.com
//	    password: admin123
//	    name: Admin User
//	    role: admin
//	    security_question: What was your first car?
//	    security_answer: toyota
package seed

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"movemate-admin/internal/model"
	"movemate-admin/internal/secret"
)

// User is a plaintext fixture entry. Secrets are hashed by Build.
type User struct {
	ID               string     `yaml:"id"`
	Email            string     `yaml:"email"`
	Password         string     `yaml:"password"`
	Name             string     `yaml:"name"`
	Role             model.Role `yaml:"role"`
	Avatar           string     `yaml:"avatar"`
	LastLogin        string     `yaml:"last_login"`
	SecurityQuestion string     `yaml:"security_question"`
	SecurityAnswer   string     `yaml:"security_answer"`
}

type file struct {
	Users []User `yaml:"users"`
}

const lastLoginLayout = "January 2, 2006"

// Default returns the demo accounts.
func Default() []User {
	return []User{
		{
			ID:               "1",
			Email:            "admin@movemate.com",
			Password:         "admin123",
			Name:             "Admin User",
			Role:             model.RoleAdmin,
			LastLogin:        "April 28, 2025",
			SecurityQuestion: "What was your first car?",
			SecurityAnswer:   "toyota",
		},
		{
			ID:               "2",
			Email:            "john@movemate.com",
			Password:         "john123",
			Name:             "John Smith",
			Role:             model.RoleSuperAdmin,
			LastLogin:        "April 26, 2025",
			SecurityQuestion: "What is your mother's maiden name?",
			SecurityAnswer:   "smith",
		},
		{
			ID:               "3",
			Email:            "sarah@movemate.com",
			Password:         "sarah123",
			Name:             "Sarah Johnson",
			Role:             model.RoleEditor,
			LastLogin:        "April 27, 2025",
			SecurityQuestion: "In what city were you born?",
			SecurityAnswer:   "chicago",
		},
	}
}

// LoadFile reads a YAML fixture.
func LoadFile(path string) ([]User, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("seed file %s has no users", path)
	}
	return f.Users, nil
}

// Load returns the fixture at path, or Default when path is empty.
func Load(path string) ([]User, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// Build validates fixture entries and hashes their secrets.
func Build(users []User, now time.Time) ([]model.AdminUser, error) {
	out := make([]model.AdminUser, 0, len(users))
	seen := make(map[string]bool, len(users))

	for i, u := range users {
		email := secret.NormalizeEmail(u.Email)
		if email == "" {
			return nil, fmt.Errorf("seed user %d: email required", i)
		}
		if seen[email] {
			return nil, fmt.Errorf("seed user %d: duplicate email %s", i, email)
		}
		seen[email] = true

		role := u.Role
		if role == "" {
			role = model.RoleAdmin
		}
		if !role.Valid() {
			return nil, fmt.Errorf("seed user %s: unknown role %q", email, role)
		}

		pw, err := secret.HashPassword(u.Password)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", email, err)
		}

		au := model.AdminUser{
			ID:           strings.TrimSpace(u.ID),
			Email:        email,
			PasswordHash: pw,
			Name:         u.Name,
			Role:         role,
			Avatar:       u.Avatar,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if au.ID == "" {
			au.ID = uuid.NewString()
		}

		if u.SecurityQuestion != "" && strings.TrimSpace(u.SecurityAnswer) != "" {
			ans, err := secret.HashAnswer(u.SecurityAnswer)
			if err != nil {
				return nil, fmt.Errorf("seed user %s: %w", email, err)
			}
			au.SecurityQuestion = u.SecurityQuestion
			au.SecurityAnswerHash = ans
		}

		if u.LastLogin != "" {
			if ts, err := time.Parse(lastLoginLayout, u.LastLogin); err == nil {
				ts = ts.UTC()
				au.LastLoginAt = &ts
			}
		}

		out = append(out, au)
	}
	return out, nil
}
