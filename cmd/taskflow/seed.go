package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taskflow/taskflow-api/internal/app"
	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
	"github.com/taskflow/taskflow-api/internal/core/service"
)

// fixtures is the layout of a seed file.
type fixtures struct {
	Users []fixtureUser `yaml:"users"`
	Tasks []fixtureTask `yaml:"tasks"`
}

type fixtureUser struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Username string `yaml:"username"`
	Role     string `yaml:"role"`
}

type fixtureTask struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Assignee    string `yaml:"assignee"`
	Priority    string `yaml:"priority"`
	DueDate     string `yaml:"due_date"`
	Status      string `yaml:"status"`
}

func loadFixtures(path string) (*fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fixtures
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

func seedCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create users and tasks from a YAML fixture file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFixtures(file)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return seed(ctx, a, f)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "fixtures.yaml", "fixture file")
	return cmd
}

// seed provisions every user, then creates the tasks as the first admin.
// Users that already exist are skipped.
func seed(ctx context.Context, a *app.App, f *fixtures) error {
	for _, u := range f.Users {
		res, err := a.Provisioner.Provision(ctx, ports.ProvisionRequest{
			Email:    u.Email,
			Password: u.Password,
			Username: u.Username,
			Role:     u.Role,
		})
		switch {
		case res != nil && strings.Contains(res.Error, "already been registered"):
			fmt.Printf("user %s exists, skipped\n", u.Email)
		case res != nil && res.Error != "":
			return fmt.Errorf("seed user %s: %s", u.Email, res.Error)
		case err != nil:
			return fmt.Errorf("seed user %s: %w", u.Email, err)
		default:
			fmt.Printf("user %s created\n", u.Email)
		}
	}
	if len(f.Tasks) == 0 {
		return nil
	}

	adminIDs, err := a.Store.Roles.UserIDsWithRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if len(adminIDs) == 0 {
		return errors.New("seeding tasks needs an admin; add one under users or run setup-admin")
	}
	profiles, err := a.Store.Profiles.List(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]string, len(profiles))
	for _, p := range profiles {
		byName[p.Username] = p.UserID
	}

	admin := domain.Identity{ID: adminIDs[0], IsAdmin: true}
	board := a.Boards.Open(admin, service.NewLogToaster(a.Log))
	for _, t := range f.Tasks {
		assignee, ok := byName[t.Assignee]
		if !ok {
			return fmt.Errorf("task %q: unknown assignee %q", t.Title, t.Assignee)
		}
		input := ports.CreateTaskInput{
			Title:      t.Title,
			AssignedTo: assignee,
			Priority:   t.Priority,
		}
		if input.Priority == "" {
			input.Priority = domain.PriorityMedium
		}
		if t.Description != "" {
			d := t.Description
			input.Description = &d
		}
		if t.DueDate != "" {
			due, err := time.Parse(dateLayout, t.DueDate)
			if err != nil {
				return fmt.Errorf("task %q: due_date: %w", t.Title, err)
			}
			input.DueDate = &due
		}

		task, err := board.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("task %q: %w", t.Title, err)
		}
		if status := domain.TaskStatus(t.Status); t.Status != "" && status != domain.StatusTodo {
			if err := board.UpdateStatus(ctx, task.ID, status); err != nil {
				return fmt.Errorf("task %q: %w", t.Title, err)
			}
		}
		fmt.Printf("task %q assigned to %s\n", t.Title, t.Assignee)
	}
	return nil
}
