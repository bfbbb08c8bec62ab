package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/taskflow/taskflow-api/internal/core/domain"
	"github.com/taskflow/taskflow-api/internal/core/ports"
)

func seededTask(id, title, assignee, creator string, created time.Time) domain.Task {
	return domain.Task{
		ID:         id,
		Title:      title,
		Status:     domain.StatusTodo,
		Priority:   domain.PriorityMedium,
		AssignedTo: assignee,
		CreatedBy:  creator,
		CreatedAt:  created,
	}
}

func TestTaskBoard_Create_ShipReport(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	board, rec := f.open(adminA)
	ctx := context.Background()

	task, err := board.Create(ctx, ports.CreateTaskInput{Title: "Ship report", AssignedTo: memberU.ID, Priority: domain.PriorityHigh})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, ok := f.tasks.get(task.ID)
	if !ok {
		t.Fatalf("task %s not stored", task.ID)
	}
	if stored.Status != domain.StatusTodo {
		t.Fatalf("expected status todo, got %s", stored.Status)
	}
	if stored.CreatedBy != adminA.ID || stored.AssignedTo != memberU.ID {
		t.Fatalf("unexpected ownership: created_by=%s assigned_to=%s", stored.CreatedBy, stored.AssignedTo)
	}
	if f.tasks.inserts != 1 {
		t.Fatalf("expected exactly one insert, got %d", f.tasks.inserts)
	}

	notes := f.notes.all()
	if len(notes) != 1 {
		t.Fatalf("expected one notification, got %d", len(notes))
	}
	if notes[0].UserID != memberU.ID || !strings.Contains(notes[0].Message, "Ship report") {
		t.Fatalf("unexpected notification: %+v", notes[0])
	}
	if notes[0].TaskID == nil || *notes[0].TaskID != task.ID {
		t.Fatalf("notification not linked to task")
	}
	if notes[0].Read {
		t.Fatalf("new notification should be unread")
	}
	if len(f.publisher.published) != 1 {
		t.Fatalf("expected notification to be published once, got %d", len(f.publisher.published))
	}
	if rec.Last() != "Task created successfully" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
	if got := board.Tasks(); len(got) != 1 || got[0].ID != task.ID {
		t.Fatalf("board was not reloaded after create: %+v", got)
	}
}

func TestTaskBoard_Create_NotificationFailureStillSucceeds(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	f.notes.failFrom = 1
	board, rec := f.open(adminA)

	if _, err := board.Create(context.Background(), ports.CreateTaskInput{Title: "Audit", AssignedTo: memberU.ID}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if f.tasks.count() != 1 {
		t.Fatalf("task should exist even though notification failed")
	}
	if rec.Last() != "Task created successfully" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
}

func TestTaskBoard_Create_InsertFailure(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	f.tasks.insertErr = errBackend
	board, rec := f.open(adminA)

	_, err := board.Create(context.Background(), ports.CreateTaskInput{Title: "x", AssignedTo: memberU.ID})
	var remote *domain.RemoteError
	if !errors.As(err, &remote) || !errors.Is(err, errBackend) {
		t.Fatalf("expected RemoteError wrapping backend error, got %v", err)
	}
	if rec.Last() != "Failed to create task" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
	if len(f.notes.all()) != 0 {
		t.Fatalf("no notification should be written when insert fails")
	}
}

func TestTaskBoard_NonAdminMutationsAreForbidden(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	f.tasks.seed(seededTask("t1", "Existing", memberU.ID, adminA.ID, time.Now()))
	board, rec := f.open(memberU)
	ctx := context.Background()

	if _, err := board.Create(ctx, ports.CreateTaskInput{Title: "x", AssignedTo: memberU.ID}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Create: expected ErrForbidden, got %v", err)
	}
	if err := board.Update(ctx, "t1", ports.UpdateTaskInput{Title: "y"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Update: expected ErrForbidden, got %v", err)
	}
	if err := board.Delete(ctx, "t1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("Delete: expected ErrForbidden, got %v", err)
	}

	if f.tasks.inserts != 0 || f.tasks.writes != 0 || f.tasks.lists != 0 {
		t.Fatalf("expected no storage calls, got inserts=%d writes=%d lists=%d", f.tasks.inserts, f.tasks.writes, f.tasks.lists)
	}
	if f.notes.inserts != 0 {
		t.Fatalf("expected no notification writes, got %d", f.notes.inserts)
	}
	if f.tasks.count() != 1 {
		t.Fatalf("task row count changed")
	}
	toasts := rec.All()
	if len(toasts) != 3 {
		t.Fatalf("expected one toast per refused call, got %+v", toasts)
	}
	for _, tt := range toasts {
		if tt.Kind != "error" || tt.Message != permissionDenied {
			t.Fatalf("unexpected toast %+v", tt)
		}
	}
}

func TestTaskBoard_Load_ScopesNonAdmin(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f.tasks.seed(
		seededTask("t1", "Mine old", memberU.ID, adminA.ID, base),
		seededTask("t2", "Other", "user-v", adminA.ID, base.Add(time.Hour)),
		seededTask("t3", "Mine new", memberU.ID, adminA.ID, base.Add(2*time.Hour)),
	)
	f.tasks.profiles[memberU.ID] = &domain.Profile{ID: "p-u", UserID: memberU.ID, Username: "uma"}

	member, _ := f.open(memberU)
	if err := member.Load(context.Background(), false); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	got := member.Tasks()
	if len(got) != 2 || got[0].ID != "t3" || got[1].ID != "t1" {
		t.Fatalf("unexpected member view: %+v", got)
	}
	if got[0].Assignee == nil || got[0].Assignee.Username != "uma" {
		t.Fatalf("expected assignee profile to be embedded")
	}

	admin, _ := f.open(adminA)
	if err := admin.Load(context.Background(), false); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if n := len(admin.Tasks()); n != 3 {
		t.Fatalf("admin should see all tasks, got %d", n)
	}
	if err := admin.Load(context.Background(), true); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if n := len(admin.Tasks()); n != 0 {
		t.Fatalf("admin scoped to self should see only own tasks, got %d", n)
	}
}

func TestTaskBoard_Load_Idempotent(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f.tasks.seed(
		seededTask("t1", "One", memberU.ID, adminA.ID, base),
		seededTask("t2", "Two", memberU.ID, adminA.ID, base.Add(time.Minute)),
		seededTask("t3", "Three", "user-v", adminA.ID, base.Add(2*time.Minute)),
	)
	board, _ := f.open(adminA)
	ctx := context.Background()

	if err := board.Load(ctx, false); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	first := board.Tasks()
	if err := board.Load(ctx, false); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if second := board.Tasks(); !reflect.DeepEqual(first, second) {
		t.Fatalf("consecutive loads differ:\n%+v\n%+v", first, second)
	}
}

func TestTaskBoard_Load_FailureKeepsPreviousList(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	f.tasks.seed(seededTask("t1", "One", memberU.ID, adminA.ID, time.Now()))
	board, _ := f.open(adminA)
	ctx := context.Background()

	if err := board.Load(ctx, false); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	f.tasks.listErr = errBackend
	if err := board.Load(ctx, false); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if len(board.Tasks()) != 1 {
		t.Fatalf("previous list should be kept on failure")
	}
	if board.Loading() {
		t.Fatalf("loading flag should be cleared after failure")
	}
}

func TestTaskBoard_Load_RequiresIdentity(t *testing.T) {
	f := newBoardFixture()
	board, _ := f.open(domain.Identity{})
	if err := board.Load(context.Background(), false); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if f.tasks.lists != 0 {
		t.Fatalf("no fetch should happen without identity")
	}
}

func TestTaskBoard_UpdateStatus_MemberCompletesAdminTask(t *testing.T) {
	f := newBoardFixture(adminA.ID, adminB.ID)
	f.tasks.seed(seededTask("t1", "Ship report", memberU.ID, adminA.ID, time.Now()))
	board, rec := f.open(memberU)
	ctx := context.Background()

	if err := board.Load(ctx, false); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := board.UpdateStatus(ctx, "t1", domain.StatusDone); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}

	stored, _ := f.tasks.get("t1")
	if stored.Status != domain.StatusDone {
		t.Fatalf("expected status done, got %s", stored.Status)
	}

	notes := f.notes.all()
	if len(notes) != 2 {
		t.Fatalf("expected one notification per admin, got %d", len(notes))
	}
	targets := map[string]bool{}
	for _, n := range notes {
		if !strings.Contains(n.Message, "Ship report") {
			t.Fatalf("notification missing task title: %q", n.Message)
		}
		targets[n.UserID] = true
	}
	if !targets[adminA.ID] || !targets[adminB.ID] {
		t.Fatalf("unexpected notification targets: %v", targets)
	}
	if rec.Last() != "Task status updated" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
	if got := board.Tasks(); got[0].Status != domain.StatusDone {
		t.Fatalf("board was not reloaded after status change")
	}
}

func TestTaskBoard_UpdateStatus_DistinctAdmins(t *testing.T) {
	f := newBoardFixture(adminA.ID, adminA.ID, adminB.ID)
	f.tasks.seed(seededTask("t1", "Dup", memberU.ID, adminA.ID, time.Now()))
	board, _ := f.open(memberU)
	ctx := context.Background()
	_ = board.Load(ctx, false)

	if err := board.UpdateStatus(ctx, "t1", domain.StatusDone); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if n := len(f.notes.all()); n != 2 {
		t.Fatalf("expected one notification per distinct admin, got %d", n)
	}
}

func TestTaskBoard_UpdateStatus_CreatorGetsNoNotice(t *testing.T) {
	f := newBoardFixture(adminA.ID, adminB.ID)
	f.tasks.seed(seededTask("t1", "Own", adminA.ID, adminA.ID, time.Now()))
	board, _ := f.open(adminA)
	ctx := context.Background()
	_ = board.Load(ctx, false)

	if err := board.UpdateStatus(ctx, "t1", domain.StatusDone); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if n := len(f.notes.all()); n != 0 {
		t.Fatalf("expected no notifications when creator completes own task, got %d", n)
	}
}

func TestTaskBoard_UpdateStatus_NonTerminalGetsNoNotice(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	f.tasks.seed(seededTask("t1", "Start", memberU.ID, adminA.ID, time.Now()))
	board, _ := f.open(memberU)
	ctx := context.Background()
	_ = board.Load(ctx, false)

	if err := board.UpdateStatus(ctx, "t1", domain.StatusInProgress); err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if n := len(f.notes.all()); n != 0 {
		t.Fatalf("expected no notifications for in_progress, got %d", n)
	}
}

func TestTaskBoard_UpdateStatus_PartialNoticeFailure(t *testing.T) {
	f := newBoardFixture(adminA.ID, adminB.ID)
	f.notes.failFrom = 2
	f.tasks.seed(seededTask("t1", "Partial", memberU.ID, adminA.ID, time.Now()))
	board, rec := f.open(memberU)
	ctx := context.Background()
	_ = board.Load(ctx, false)

	if err := board.UpdateStatus(ctx, "t1", domain.StatusDone); err != nil {
		t.Fatalf("UpdateStatus should succeed despite notice failure: %v", err)
	}
	if n := len(f.notes.all()); n != 1 {
		t.Fatalf("expected the first notice to persist and the rest to stop, got %d", n)
	}
	if rec.Last() != "Task status updated" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
}

func TestTaskBoard_UpdateStatus_NotLoaded(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	f.tasks.seed(seededTask("t1", "Hidden", "user-v", adminA.ID, time.Now()))
	board, rec := f.open(memberU)
	ctx := context.Background()
	_ = board.Load(ctx, false)

	if err := board.UpdateStatus(ctx, "t1", domain.StatusDone); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if rec.Last() != "Task not found" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
	if err := board.UpdateStatus(ctx, "missing", domain.StatusDone); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if f.tasks.writes != 0 {
		t.Fatalf("expected no writes, got %d", f.tasks.writes)
	}
}

func TestTaskBoard_UpdateStatus_InvalidStatus(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	f.tasks.seed(seededTask("t1", "x", memberU.ID, adminA.ID, time.Now()))
	board, _ := f.open(adminA)
	_ = board.Load(context.Background(), false)

	if err := board.UpdateStatus(context.Background(), "t1", "archived"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if f.tasks.writes != 0 {
		t.Fatalf("expected no writes, got %d", f.tasks.writes)
	}
}

func TestTaskBoard_UpdateStatus_WriteFailure(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	f.tasks.seed(seededTask("t1", "x", memberU.ID, adminA.ID, time.Now()))
	board, rec := f.open(memberU)
	_ = board.Load(context.Background(), false)
	f.tasks.writeErr = errBackend

	err := board.UpdateStatus(context.Background(), "t1", domain.StatusDone)
	if !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if rec.Last() != "Failed to update task status" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
	if len(f.notes.all()) != 0 {
		t.Fatalf("no notices should be written when the status write fails")
	}
}

func TestTaskBoard_Update_OverwritesFields(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	orig := seededTask("t1", "Draft", memberU.ID, adminA.ID, time.Now())
	orig.Description = strPtr("keep me?")
	orig.DueDate = &due
	f.tasks.seed(orig)
	board, rec := f.open(adminA)

	err := board.Update(context.Background(), "t1", ports.UpdateTaskInput{
		Title:      "Final",
		AssignedTo: "user-v",
		Priority:   domain.PriorityUrgent,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	stored, _ := f.tasks.get("t1")
	if stored.Title != "Final" || stored.AssignedTo != "user-v" || stored.Priority != domain.PriorityUrgent {
		t.Fatalf("fields not overwritten: %+v", stored)
	}
	if stored.Description != nil || stored.DueDate != nil {
		t.Fatalf("absent optional fields should be cleared: %+v", stored)
	}
	if stored.Status != domain.StatusTodo || stored.CreatedBy != adminA.ID {
		t.Fatalf("status and creator must not change on update")
	}
	if rec.Last() != "Task updated successfully" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
}

func TestTaskBoard_Update_NotFound(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	board, rec := f.open(adminA)

	if err := board.Update(context.Background(), "missing", ports.UpdateTaskInput{Title: "x"}); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if rec.Last() != "Failed to update task" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
}

func TestTaskBoard_Delete(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	f.tasks.seed(
		seededTask("t1", "Keep", memberU.ID, adminA.ID, time.Now()),
		seededTask("t2", "Drop", memberU.ID, adminA.ID, time.Now().Add(time.Second)),
	)
	board, rec := f.open(adminA)
	ctx := context.Background()

	if err := board.Delete(ctx, "t2"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := f.tasks.get("t2"); ok {
		t.Fatalf("task should be deleted")
	}
	if rec.Last() != "Task deleted" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
	if got := board.Tasks(); len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("board not reloaded after delete: %+v", got)
	}

	f.tasks.writeErr = errBackend
	if err := board.Delete(ctx, "t1"); !errors.Is(err, errBackend) {
		t.Fatalf("expected backend error, got %v", err)
	}
	if rec.Last() != "Failed to delete task" {
		t.Fatalf("unexpected toast %q", rec.Last())
	}
}

func TestTaskBoard_BlankDescriptionStoredAsNil(t *testing.T) {
	f := newBoardFixture(adminA.ID)
	board, _ := f.open(adminA)

	task, err := board.Create(context.Background(), ports.CreateTaskInput{Title: "x", AssignedTo: memberU.ID, Description: strPtr("  ")})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if stored, _ := f.tasks.get(task.ID); stored.Description != nil {
		t.Fatalf("blank description should be stored as nil")
	}
}
