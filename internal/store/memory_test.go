package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"task-manager/internal/models"
)

// steppingClock advances one second per call.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func TestMemoryTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.now = steppingClock()
	owner := uuid.New()

	first := models.Task{UserID: owner, Title: "first", Status: "open"}
	second := models.Task{UserID: owner, Title: "second", Status: "open"}
	if err := m.CreateTask(ctx, &first); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := m.CreateTask(ctx, &second); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tasks, err := m.ListTasks(ctx, owner)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatalf("ListTasks: got %+v, want newest first", tasks)
	}

	update := models.Task{ID: first.ID, UserID: owner, Title: "renamed", Status: "done"}
	if err := m.UpdateTask(ctx, &update); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !update.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: got %v, want %v", update.CreatedAt, first.CreatedAt)
	}
	if !update.UpdatedAt.After(first.UpdatedAt) {
		t.Errorf("UpdatedAt not refreshed: %v vs %v", update.UpdatedAt, first.UpdatedAt)
	}
	if update.Title != "renamed" || update.Status != "done" {
		t.Errorf("UpdateTask: got %+v", update)
	}

	if err := m.DeleteTask(ctx, first.ID, owner); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := m.DeleteTask(ctx, first.ID, owner); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteTask: got %v, want ErrNotFound", err)
	}
}

func TestMemoryListOrderEqualTimestamps(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.now = func() time.Time { return fixedNow }
	owner := uuid.New()

	for i := 0; i < 5; i++ {
		task := models.Task{UserID: owner, Title: "t", Status: "open"}
		if err := m.CreateTask(ctx, &task); err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
	}

	// Ties on created_at fall back to id DESC, as in the SQL backends.
	tasks, _ := m.ListTasks(ctx, owner)
	if len(tasks) != 5 {
		t.Fatalf("len: got %d, want 5", len(tasks))
	}
	for i := 1; i < len(tasks); i++ {
		if tasks[i-1].ID.String() <= tasks[i].ID.String() {
			t.Errorf("position %d: id %s not after %s", i, tasks[i-1].ID, tasks[i].ID)
		}
	}

	again, _ := m.ListTasks(ctx, owner)
	for i := range tasks {
		if again[i].ID != tasks[i].ID {
			t.Fatalf("order changed between calls at position %d", i)
		}
	}
}

func TestMemoryTimestampPrecision(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	owner := uuid.New()

	task := models.Task{UserID: owner, Title: "t", Status: "open"}
	if err := m.CreateTask(ctx, &task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	update := models.Task{ID: task.ID, UserID: owner, Title: "t2", Status: "open"}
	if err := m.UpdateTask(ctx, &update); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	for name, ts := range map[string]time.Time{"created_at": task.CreatedAt, "updated_at": update.UpdatedAt} {
		if ts.Nanosecond()%int(time.Microsecond) != 0 {
			t.Errorf("%s %v carries sub-microsecond precision", name, ts)
		}
	}
}

func TestMemoryOwnerScoping(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	alice, bob := uuid.New(), uuid.New()

	task := models.Task{UserID: alice, Title: "private", Status: "open"}
	if err := m.CreateTask(ctx, &task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if tasks, _ := m.ListTasks(ctx, bob); len(tasks) != 0 {
		t.Errorf("bob sees %d tasks, want 0", len(tasks))
	}

	steal := models.Task{ID: task.ID, UserID: bob, Title: "mine", Status: "open"}
	if err := m.UpdateTask(ctx, &steal); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob UpdateTask: got %v, want ErrNotFound", err)
	}
	if err := m.DeleteTask(ctx, task.ID, bob); !errors.Is(err, ErrNotFound) {
		t.Errorf("bob DeleteTask: got %v, want ErrNotFound", err)
	}

	tasks, _ := m.ListTasks(ctx, alice)
	if len(tasks) != 1 || tasks[0].Title != "private" {
		t.Errorf("alice tasks: got %+v", tasks)
	}
}

func TestMemoryUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	user := models.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash"}
	if err := m.CreateUser(ctx, &user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	dup := models.User{Name: "Other", Email: "ada@example.com", PasswordHash: "hash2"}
	if err := m.CreateUser(ctx, &dup); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate CreateUser: got %v, want ErrEmailTaken", err)
	}

	found, err := m.FindUserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("FindUserByEmail: %v", err)
	}
	if found.ID != user.ID || found.Name != "Ada" {
		t.Errorf("FindUserByEmail: got %+v", found)
	}
	if _, err := m.FindUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user: got %v, want ErrNotFound", err)
	}
}

func TestMemoryConcurrentRegistration(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- m.CreateUser(ctx, &models.User{Name: "Ada", Email: "race@example.com"})
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		switch {
		case err == nil:
			created++
		case !errors.Is(err, ErrEmailTaken):
			t.Errorf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Errorf("created %d accounts, want 1", created)
	}
}
