// Package seed loads demo fixtures from YAML into empty stores.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/staffboard/todo-system/internal/core/domain"
	"github.com/staffboard/todo-system/internal/core/ports"
)

type usersFile struct {
	Users []struct {
		Username string `yaml:"username"`
		Email    string `yaml:"email"`
		Password string `yaml:"password"`
		Role     string `yaml:"role"`
	} `yaml:"users"`
}

type appFile struct {
	Employees []struct {
		Username    string `yaml:"username"`
		FirstName   string `yaml:"first_name"`
		LastName    string `yaml:"last_name"`
		DateOfBirth string `yaml:"date_of_birth"`
		Specialty   string `yaml:"specialty"`
		HireDate    string `yaml:"hire_date"`
	} `yaml:"employees"`
	Tasks []struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		IsCompleted bool   `yaml:"is_completed"`
		Assignee    string `yaml:"assignee"`
	} `yaml:"tasks"`
}

// Users registers the credentials listed in path when repo is empty.
// Passwords go through auth so they are hashed the same way as live
// registrations.
func Users(ctx context.Context, path string, repo ports.UserRepository, auth ports.AuthService, log zerolog.Logger) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if n > 0 {
		log.Debug().Int64("existing", n).Msg("user store not empty, skipping seed")
		return nil
	}

	var uf usersFile
	if err := readYAML(path, &uf); err != nil {
		return err
	}

	created := 0
	for _, u := range uf.Users {
		if u.Username == "" || u.Password == "" {
			continue
		}
		err := auth.Register(ctx, ports.RegisterInput{
			Username: u.Username,
			Email:    u.Email,
			Password: u.Password,
			Role:     u.Role,
		})
		if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrDuplicateEmail) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed user %q: %w", u.Username, err)
		}
		created++
	}

	log.Info().Int("count", created).Str("file", path).Msg("seeded users")
	return nil
}

// App inserts the employees and tasks listed in path when the employee table
// is empty. Tasks reference their assignee by username.
func App(ctx context.Context, path string, employees ports.EmployeeRepository, tasks ports.TaskRepository, log zerolog.Logger) error {
	n, err := employees.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed app: %w", err)
	}
	if n > 0 {
		log.Debug().Int64("existing", n).Msg("employee store not empty, skipping seed")
		return nil
	}

	var af appFile
	if err := readYAML(path, &af); err != nil {
		return err
	}

	ids := make(map[string]uint, len(af.Employees))
	for _, fe := range af.Employees {
		dob, err := parseDate(fe.DateOfBirth)
		if err != nil {
			return fmt.Errorf("seed employee %q: date_of_birth: %w", fe.Username, err)
		}
		hired, err := parseDate(fe.HireDate)
		if err != nil {
			return fmt.Errorf("seed employee %q: hire_date: %w", fe.Username, err)
		}

		e := &domain.Employee{
			Username:    fe.Username,
			FirstName:   fe.FirstName,
			LastName:    fe.LastName,
			DateOfBirth: dob,
			Specialty:   fe.Specialty,
			HireDate:    hired,
		}
		if err := employees.Create(ctx, e); err != nil {
			return fmt.Errorf("seed employee %q: %w", fe.Username, err)
		}
		ids[e.Username] = e.ID
	}

	for _, ft := range af.Tasks {
		id, ok := ids[ft.Assignee]
		if !ok {
			return fmt.Errorf("seed task %q: unknown assignee %q", ft.Title, ft.Assignee)
		}
		t := &domain.Task{
			Title:       ft.Title,
			Description: ft.Description,
			IsCompleted: ft.IsCompleted,
			EmployeeID:  id,
		}
		if err := tasks.Create(ctx, t); err != nil {
			return fmt.Errorf("seed task %q: %w", ft.Title, err)
		}
	}

	log.Info().Int("employees", len(af.Employees)).Int("tasks", len(af.Tasks)).Str("file", path).Msg("seeded task data")
	return nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}
