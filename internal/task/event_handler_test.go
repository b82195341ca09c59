package task

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sophia-api/internal/events"
)

// mockTaskCreator is a mock implementation of TaskCreator
type mockTaskCreator struct {
	CreateTaskFn     func(requestID uuid.UUID) (Task, error)
	CreateTaskCalled bool
	LastRequestID    uuid.UUID
}

func (m *mockTaskCreator) CreateTask(requestID uuid.UUID) (Task, error) {
	m.CreateTaskCalled = true
	m.LastRequestID = requestID
	return m.CreateTaskFn(requestID)
}

// mockTaskSubmitter is a mock implementation of TaskSubmitter
type mockTaskSubmitter struct {
	SubmitFn       func(ctx context.Context, task Task) error
	SubmitCalled   bool
	LastSubmitTask Task
}

func (m *mockTaskSubmitter) Submit(ctx context.Context, task Task) error {
	m.SubmitCalled = true
	m.LastSubmitTask = task
	return m.SubmitFn(ctx, task)
}

func TestTaskFactoryEventHandler_HandleEvent(t *testing.T) {
	logger := setupTestLogger()

	t.Run("successfully handle quote generation event", func(t *testing.T) {
		mockTask := CreateMockTaskWithPayload("event task")

		mockFactory := &mockTaskCreator{
			CreateTaskFn: func(requestID uuid.UUID) (Task, error) {
				return mockTask, nil
			},
		}

		mockRunner := &mockTaskSubmitter{
			SubmitFn: func(ctx context.Context, task Task) error {
				return nil
			},
		}

		handler := NewTaskFactoryEventHandler(mockFactory, mockRunner, logger)

		ctx := context.Background()
		requestID := uuid.New()

		payload := map[string]string{"request_id": requestID.String()}
		event, err := events.NewTaskRequestEvent(TaskTypeQuoteGeneration, payload)
		require.NoError(t, err)

		err = handler.HandleEvent(ctx, event)
		assert.NoError(t, err)

		assert.True(t, mockFactory.CreateTaskCalled)
		assert.Equal(t, requestID, mockFactory.LastRequestID)
		assert.True(t, mockRunner.SubmitCalled)
		assert.Equal(t, Task(mockTask), mockRunner.LastSubmitTask)
	})

	t.Run("ignore unsupported event type", func(t *testing.T) {
		mockFactory := &mockTaskCreator{
			CreateTaskFn: func(requestID uuid.UUID) (Task, error) {
				t.Fail() // Should not be called
				return nil, nil
			},
		}

		mockRunner := &mockTaskSubmitter{
			SubmitFn: func(ctx context.Context, task Task) error {
				t.Fail() // Should not be called
				return nil
			},
		}

		handler := NewTaskFactoryEventHandler(mockFactory, mockRunner, logger)

		event, err := events.NewTaskRequestEvent("unsupported_type", map[string]string{"key": "value"})
		require.NoError(t, err)

		err = handler.HandleEvent(context.Background(), event)
		assert.NoError(t, err)

		assert.False(t, mockFactory.CreateTaskCalled)
		assert.False(t, mockRunner.SubmitCalled)
	})

	t.Run("handle invalid request ID", func(t *testing.T) {
		mockFactory := &mockTaskCreator{
			CreateTaskFn: func(requestID uuid.UUID) (Task, error) {
				t.Fail() // Should not be called
				return nil, nil
			},
		}

		mockRunner := &mockTaskSubmitter{
			SubmitFn: func(ctx context.Context, task Task) error {
				t.Fail() // Should not be called
				return nil
			},
		}

		handler := NewTaskFactoryEventHandler(mockFactory, mockRunner, logger)

		payload := map[string]string{"request_id": "invalid-uuid"}
		event, err := events.NewTaskRequestEvent(TaskTypeQuoteGeneration, payload)
		require.NoError(t, err)

		err = handler.HandleEvent(context.Background(), event)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid request ID")

		assert.False(t, mockFactory.CreateTaskCalled)
		assert.False(t, mockRunner.SubmitCalled)
	})

	t.Run("handle task creation failure", func(t *testing.T) {
		expectedErr := errors.New("task creation failed")

		mockFactory := &mockTaskCreator{
			CreateTaskFn: func(requestID uuid.UUID) (Task, error) {
				return nil, expectedErr
			},
		}

		mockRunner := &mockTaskSubmitter{
			SubmitFn: func(ctx context.Context, task Task) error {
				t.Fail() // Should not be called
				return nil
			},
		}

		handler := NewTaskFactoryEventHandler(mockFactory, mockRunner, logger)

		ctx := context.Background()
		requestID := uuid.New()

		payload := map[string]string{"request_id": requestID.String()}
		event, err := events.NewTaskRequestEvent(TaskTypeQuoteGeneration, payload)
		require.NoError(t, err)

		err = handler.HandleEvent(ctx, event)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create task")

		assert.True(t, mockFactory.CreateTaskCalled)
		assert.Equal(t, requestID, mockFactory.LastRequestID)
		assert.False(t, mockRunner.SubmitCalled)
	})

	t.Run("handle task submission failure", func(t *testing.T) {
		expectedErr := errors.New("task submission failed")
		mockTask := CreateMockTaskWithPayload("doomed task")

		mockFactory := &mockTaskCreator{
			CreateTaskFn: func(requestID uuid.UUID) (Task, error) {
				return mockTask, nil
			},
		}

		mockRunner := &mockTaskSubmitter{
			SubmitFn: func(ctx context.Context, task Task) error {
				return expectedErr
			},
		}

		handler := NewTaskFactoryEventHandler(mockFactory, mockRunner, logger)

		ctx := context.Background()
		requestID := uuid.New()

		payload := map[string]string{"request_id": requestID.String()}
		event, err := events.NewTaskRequestEvent(TaskTypeQuoteGeneration, payload)
		require.NoError(t, err)

		err = handler.HandleEvent(ctx, event)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to submit task")

		assert.True(t, mockFactory.CreateTaskCalled)
		assert.Equal(t, requestID, mockFactory.LastRequestID)
		assert.True(t, mockRunner.SubmitCalled)
		assert.Equal(t, Task(mockTask), mockRunner.LastSubmitTask)
	})
}
