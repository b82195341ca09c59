package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sophia-api/internal/store"
	"github.com/phrazzld/sophia-api/internal/task"
)

const taskColumnList = "SELECT id, type, payload, status, error_message, created_at, updated_at FROM tasks"

func newStoredTask() *task.MockTask {
	return task.NewMockTask(uuid.New(), task.TaskTypeQuoteGeneration, []byte(`{"request_id":"c56a4180-65aa-42ec-a945-5fd21dec0538"}`))
}

func taskRows(tasks ...*task.MockTask) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "type", "payload", "status", "error_message", "created_at", "updated_at",
	})
	now := time.Now().UTC()
	for _, t := range tasks {
		rows.AddRow(t.ID(), t.Type(), t.Payload(), string(t.Status()), nil, now, now)
	}
	return rows
}

func TestNewPostgresTaskStore(t *testing.T) {
	t.Run("panics on nil db", func(t *testing.T) {
		assert.Panics(t, func() {
			NewPostgresTaskStore(nil, discardLogger())
		})
	})

	t.Run("accepts nil logger", func(t *testing.T) {
		db, _ := newMockDB(t)
		s := NewPostgresTaskStore(db, nil)
		assert.NotNil(t, s)
	})
}

func TestTaskStoreSaveTask(t *testing.T) {
	t.Run("inserts the task with both timestamps", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, discardLogger())
		mockTask := newStoredTask()

		mock.ExpectExec("INSERT INTO tasks").
			WithArgs(
				mockTask.ID(),
				mockTask.Type(),
				mockTask.Payload(),
				string(task.TaskStatusPending),
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.SaveTask(context.Background(), mockTask)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps database errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, discardLogger())

		mock.ExpectExec("INSERT INTO tasks").
			WillReturnError(errors.New("connection reset"))

		err := s.SaveTask(context.Background(), newStoredTask())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save task to database")
	})
}

func TestTaskStoreUpdateTaskStatus(t *testing.T) {
	t.Run("updates status and error message", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, discardLogger())
		taskID := uuid.New()

		mock.ExpectExec("UPDATE tasks").
			WithArgs(
				string(task.TaskStatusFailed),
				"generator exploded",
				sqlmock.AnyArg(),
				taskID,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.UpdateTaskStatus(context.Background(), taskID, task.TaskStatusFailed, "generator exploded")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no row matches", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, discardLogger())

		mock.ExpectExec("UPDATE tasks").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.UpdateTaskStatus(context.Background(), uuid.New(), task.TaskStatusCompleted, "")

		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("wraps database errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, discardLogger())

		mock.ExpectExec("UPDATE tasks").
			WillReturnError(errors.New("connection reset"))

		err := s.UpdateTaskStatus(context.Background(), uuid.New(), task.TaskStatusCompleted, "")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update task status")
	})
}

func TestTaskStoreGetPendingTasks(t *testing.T) {
	t.Run("returns pending rows oldest first", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, discardLogger())
		first := newStoredTask()
		second := newStoredTask()

		mock.ExpectQuery(taskColumnList + " WHERE status =").
			WithArgs(string(task.TaskStatusPending)).
			WillReturnRows(taskRows(first, second))

		tasks, err := s.GetPendingTasks(context.Background())

		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Equal(t, first.ID(), tasks[0].ID())
		assert.Equal(t, second.ID(), tasks[1].ID())
		assert.Equal(t, task.TaskStatusPending, tasks[0].Status())
		assert.Equal(t, first.Payload(), tasks[0].Payload())
	})

	t.Run("returns no rows without error", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, discardLogger())

		mock.ExpectQuery(taskColumnList + " WHERE status =").
			WithArgs(string(task.TaskStatusPending)).
			WillReturnRows(taskRows())

		tasks, err := s.GetPendingTasks(context.Background())

		require.NoError(t, err)
		assert.Len(t, tasks, 0)
	})
}

func TestTaskStoreGetProcessingTasks(t *testing.T) {
	t.Run("zero age fetches every processing task", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, discardLogger())
		stuck := newStoredTask()
		stuck.TaskStatus = task.TaskStatusProcessing

		mock.ExpectQuery(taskColumnList + " WHERE status =").
			WithArgs(string(task.TaskStatusProcessing)).
			WillReturnRows(taskRows(stuck))

		tasks, err := s.GetProcessingTasks(context.Background(), 0)

		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, task.TaskStatusProcessing, tasks[0].Status())
	})

	t.Run("non-zero age filters on updated_at", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, discardLogger())

		mock.ExpectQuery("WHERE status = .+ AND updated_at <").
			WithArgs(string(task.TaskStatusProcessing), sqlmock.AnyArg()).
			WillReturnRows(taskRows())

		tasks, err := s.GetProcessingTasks(context.Background(), 30*time.Minute)

		require.NoError(t, err)
		assert.Len(t, tasks, 0)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps query errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewPostgresTaskStore(db, discardLogger())

		mock.ExpectQuery(taskColumnList).
			WillReturnError(errors.New("connection reset"))

		tasks, err := s.GetProcessingTasks(context.Background(), 0)

		require.Error(t, err)
		assert.Nil(t, tasks)
		assert.Contains(t, err.Error(), "failed to query tasks by status")
	})
}

func TestDatabaseTaskRequiresRebuild(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresTaskStore(db, discardLogger())
	stored := newStoredTask()

	mock.ExpectQuery(taskColumnList + " WHERE status =").
		WithArgs(string(task.TaskStatusPending)).
		WillReturnRows(taskRows(stored))

	tasks, err := s.GetPendingTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	// Recovered rows carry no execution logic
	err = tasks[0].Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rebuilt by a task factory")
}

func TestTaskStoreWithTx(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewPostgresTaskStore(db, discardLogger())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE tasks").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)

	txStore := s.WithTx(tx)
	err = txStore.UpdateTaskStatus(context.Background(), uuid.New(), task.TaskStatusProcessing, "")
	require.NoError(t, err)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
