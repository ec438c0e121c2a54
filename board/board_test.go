package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"testing"

	"mission-control/models"
	"mission-control/utilities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMain(m *testing.M) {
	utilities.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeAPI guarda as tarefas em memória e conta as chamadas.
type fakeAPI struct {
	mu        sync.Mutex
	tasks     []models.Task
	patches   int
	lists     int
	failPatch error
	nextID    int
}

func newFakeAPI(tasks ...models.Task) *fakeAPI {
	return &fakeAPI{tasks: tasks}
}

func (f *fakeAPI) ListTasks(context.Context) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return append([]models.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) CreateTask(_ context.Context, d TaskDraft) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t := models.Task{ID: fmt.Sprintf("new-%d", f.nextID), Title: d.Title, Desc: d.Desc,
		Status: d.Status, Priority: d.Priority, AssignedTo: d.AssignedTo, Comments: []models.Comment{}}
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, id string, p TaskPatch) (models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches++
	if f.failPatch != nil {
		return models.Task{}, f.failPatch
	}
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			if p.Status != nil {
				f.tasks[i].Status = *p.Status
			}
			return f.tasks[i], nil
		}
	}
	return models.Task{}, &APIError{StatusCode: 404, Message: "Task not found"}
}

func (f *fakeAPI) DeleteTask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return &APIError{StatusCode: 404, Message: "Task not found"}
}

func task(id string, status models.TaskStatus) models.Task {
	return models.Task{ID: id, Title: "Task " + id, Status: status, Priority: models.PriorityMedium}
}

func loadedBoard(t *testing.T, api *fakeAPI) *Board {
	t.Helper()
	b := New(api)
	require.NoError(t, b.Refresh(context.Background()))
	return b
}

func ids(tasks []models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestDragOver_ColumnChangesLocalStatusOnly(t *testing.T) {
	api := newFakeAPI(task("a", models.StatusPlanning), task("b", models.StatusDone))
	b := loadedBoard(t, api)

	assert.True(t, b.DragOver("a", string(models.StatusInProgress)))
	assert.Equal(t, []string{"a"}, ids(b.Column(models.StatusInProgress)))
	assert.Zero(t, api.patches)

	// Mesma coluna: nada muda.
	assert.False(t, b.DragOver("a", string(models.StatusInProgress)))
}

func TestDragOver_TaskInSameColumnReorders(t *testing.T) {
	api := newFakeAPI(task("a", models.StatusPlanning), task("x", models.StatusDone), task("b", models.StatusPlanning), task("c", models.StatusPlanning))
	b := loadedBoard(t, api)

	assert.True(t, b.DragOver("a", "c"))
	assert.Equal(t, []string{"b", "c", "a"}, ids(b.Column(models.StatusPlanning)))

	assert.True(t, b.DragOver("a", "b"))
	assert.Equal(t, []string{"a", "b", "c"}, ids(b.Column(models.StatusPlanning)))
}

func TestDragOver_NoOps(t *testing.T) {
	api := newFakeAPI(task("a", models.StatusPlanning), task("b", models.StatusDone))
	b := loadedBoard(t, api)
	before := b.Tasks()

	assert.False(t, b.DragOver("a", "b"), "task in another column")
	assert.False(t, b.DragOver("a", "nowhere"))
	assert.False(t, b.DragOver("ghost", string(models.StatusDone)))
	assert.False(t, b.DragOver("a", "a"))
	assert.Equal(t, before, b.Tasks())
}

func TestDrop_SendsLocalStatus(t *testing.T) {
	api := newFakeAPI(task("a", models.StatusPlanning))
	b := loadedBoard(t, api)

	b.DragOver("a", string(models.StatusDone))
	require.NoError(t, b.Drop(context.Background(), "a"))

	assert.Equal(t, 1, api.patches)
	assert.Equal(t, models.StatusDone, api.tasks[0].Status)
	assert.Equal(t, models.StatusDone, b.Tasks()[0].Status)
}

func TestDrop_FailureRefetches(t *testing.T) {
	api := newFakeAPI(task("a", models.StatusPlanning))
	b := loadedBoard(t, api)
	api.failPatch = errors.New("boom")

	b.DragOver("a", string(models.StatusDone))
	err := b.Drop(context.Background(), "a")
	require.Error(t, err)

	assert.Equal(t, 2, api.lists)
	assert.Equal(t, models.StatusPlanning, b.Tasks()[0].Status, "local state rolled back")
}

func TestDrop_AnyTransitionAllowed(t *testing.T) {
	api := newFakeAPI(task("a", models.StatusDone))
	b := loadedBoard(t, api)

	require.NoError(t, b.Move(context.Background(), "a", models.StatusPlanning))
	assert.Equal(t, models.StatusPlanning, api.tasks[0].Status)
}

func TestRefresh_StaleResponseDiscarded(t *testing.T) {
	slow := &blockingAPI{fakeAPI: newFakeAPI(task("old", models.StatusPlanning)), release: make(chan struct{}), started: make(chan struct{})}
	b := New(slow)

	done := make(chan error)
	go func() { done <- b.Refresh(context.Background()) }()
	<-slow.started

	// Uma recarga mais nova termina antes da antiga.
	slow.fakeAPI.tasks = []models.Task{task("new", models.StatusPlanning)}
	require.NoError(t, b.Refresh(context.Background()))
	close(slow.release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"new"}, ids(b.Tasks()))
}

// blockingAPI segura a primeira ListTasks até release ser fechado, devolvendo
// o estado da hora em que foi chamada.
type blockingAPI struct {
	*fakeAPI
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (b *blockingAPI) ListTasks(ctx context.Context) ([]models.Task, error) {
	first := false
	b.once.Do(func() { first = true })
	tasks, err := b.fakeAPI.ListTasks(ctx)
	if first {
		close(b.started)
		<-b.release
	}
	return tasks, err
}

func TestFilter(t *testing.T) {
	desc := "Needs the Fetch hooks"
	a := task("a", models.StatusPlanning)
	a.Title = "Backend Integration"
	b1 := task("b", models.StatusDone)
	b1.Desc = &desc
	b1.Priority = models.PriorityHigh
	b := loadedBoard(t, newFakeAPI(a, b1))

	assert.Equal(t, []string{"a"}, ids(b.Filter(Filter{Search: "backend"})))
	assert.Equal(t, []string{"b"}, ids(b.Filter(Filter{Search: "FETCH"})))
	assert.Equal(t, []string{"b"}, ids(b.Filter(Filter{Priority: models.PriorityHigh})))
	assert.Equal(t, []string{"a"}, ids(b.Filter(Filter{Status: models.StatusPlanning})))
	assert.Len(t, b.Filter(Filter{}), 2)
	assert.Empty(t, b.Filter(Filter{Search: "backend", Status: models.StatusDone}))
}

func TestDuplicate(t *testing.T) {
	who := "Ana"
	src := task("a", models.StatusDone)
	src.Priority = models.PriorityHigh
	src.AssignedTo = &who
	api := newFakeAPI(src)
	b := loadedBoard(t, api)

	dup, err := b.Duplicate(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Task a (Copy)", dup.Title)
	assert.Equal(t, models.StatusPlanning, dup.Status)
	assert.Equal(t, models.PriorityHigh, dup.Priority)
	assert.Equal(t, &who, dup.AssignedTo)
	assert.Len(t, b.Tasks(), 2)
}

func TestCompleteAllAndDeleteAll(t *testing.T) {
	api := newFakeAPI(task("a", models.StatusPlanning), task("b", models.StatusInProgress), task("c", models.StatusPlanning))
	b := loadedBoard(t, api)
	ctx := context.Background()

	require.NoError(t, b.CompleteAll(ctx, []string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, ids(b.Column(models.StatusDone)))

	err := b.DeleteAll(ctx, []string{"a", "ghost"})
	assert.Error(t, err)
	assert.Equal(t, []string{"b", "c"}, ids(b.Tasks()))
}

func TestReorder(t *testing.T) {
	b := loadedBoard(t, newFakeAPI(task("a", models.StatusPlanning), task("b", models.StatusPlanning), task("c", models.StatusDone)))

	assert.True(t, b.Reorder("a", 1))
	assert.Equal(t, []string{"b", "a"}, ids(b.Column(models.StatusPlanning)))
	assert.False(t, b.Reorder("a", 1), "already last")
	assert.False(t, b.Reorder("c", -1))
}

func TestDragOver_PreservesTasks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 8).Draw(t, "n")
		var tasks []models.Task
		for i := 0; i < n; i++ {
			st := rapid.SampledFrom(models.Statuses).Draw(t, "status")
			tasks = append(tasks, task(fmt.Sprint(i), st))
		}
		b := New(newFakeAPI(tasks...))
		if err := b.Refresh(context.Background()); err != nil {
			t.Fatal(err)
		}

		targets := append(ids(tasks), "Planning", "In Progress", "Done", "bogus")
		steps := rapid.IntRange(1, 20).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			active := rapid.SampledFrom(ids(tasks)).Draw(t, "active")
			over := rapid.SampledFrom(targets).Draw(t, "over")
			b.DragOver(active, over)
		}

		got := ids(b.Tasks())
		want := ids(tasks)
		sort.Strings(got)
		sort.Strings(want)
		if fmt.Sprint(got) != fmt.Sprint(want) {
			t.Fatalf("task set changed: got %v want %v", got, want)
		}
		for _, tk := range b.Tasks() {
			if !tk.Status.Valid() {
				t.Fatalf("invalid status %q", tk.Status)
			}
		}
	})
}
