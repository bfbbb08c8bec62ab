package service

import (
	"github.com/rs/zerolog"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

// TaskBoards opens per-identity task boards over shared dependencies.
type TaskBoards struct {
	deps TaskBoardDeps
}

func NewTaskBoards(deps TaskBoardDeps) *TaskBoards {
	return &TaskBoards{deps: deps}
}

func (f *TaskBoards) Open(identity domain.Identity, toaster ports.Toaster) ports.TaskBoard {
	return NewTaskBoard(identity, f.deps, toaster)
}

// UserDirectories opens per-identity user directories.
type UserDirectories struct {
	deps UserDirectoryDeps
}

func NewUserDirectories(deps UserDirectoryDeps) *UserDirectories {
	return &UserDirectories{deps: deps}
}

func (f *UserDirectories) Open(identity domain.Identity, toaster ports.Toaster) ports.UserDirectory {
	return NewUserDirectory(identity, f.deps, toaster)
}

// Inboxes opens per-identity notification inboxes.
type Inboxes struct {
	repo ports.NotificationRepository
	log  zerolog.Logger
}

func NewInboxes(repo ports.NotificationRepository, log zerolog.Logger) *Inboxes {
	return &Inboxes{repo: repo, log: log}
}

func (f *Inboxes) Open(identity domain.Identity) ports.Inbox {
	return NewInbox(identity, f.repo, f.log)
}
