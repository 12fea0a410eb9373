package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPayload is a test payload type.
type testPayload struct {
	Recipient string `json:"recipient"`
	Attempts  int    `json:"attempts"`
}

// testTask implements the task interface for testing.
type testTask struct {
	name     string
	executed bool
	payload  testPayload
	err      error
}

func (t *testTask) Name() string { return t.name }

func (t *testTask) Handle(ctx context.Context, p testPayload) error {
	t.executed = true
	t.payload = p
	return t.err
}

func TestTaskRegistry_RegisterAndGet(t *testing.T) {
	registry := newTaskRegistry()

	task := &testTask{name: "send_message"}
	wrapper := newTaskWrapper[testPayload, *testTask](task)
	registry.register("send_message", wrapper)

	executor, ok := registry.get("send_message")
	assert.True(t, ok)
	assert.NotNil(t, executor)

	executor, ok = registry.get("nonexistent")
	assert.False(t, ok)
	assert.Nil(t, executor)
}

func TestTaskRegistry_Names(t *testing.T) {
	registry := newTaskRegistry()

	names := registry.names()
	assert.Empty(t, names)

	task1 := &testTask{name: "send_message"}
	task2 := &testTask{name: "send_digest"}
	registry.register("send_message", newTaskWrapper[testPayload, *testTask](task1))
	registry.register("send_digest", newTaskWrapper[testPayload, *testTask](task2))

	names = registry.names()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "send_message")
	assert.Contains(t, names, "send_digest")
}

func TestTaskWrapper_Execute(t *testing.T) {
	t.Run("successful execution", func(t *testing.T) {
		task := &testTask{name: "send_message"}
		wrapper := newTaskWrapper[testPayload, *testTask](task)

		payload := testPayload{Recipient: "to@example.com", Attempts: 2}
		rawPayload, err := json.Marshal(payload)
		require.NoError(t, err)

		err = wrapper.Execute(context.Background(), rawPayload)
		assert.NoError(t, err)
		assert.True(t, task.executed)
		assert.Equal(t, "to@example.com", task.payload.Recipient)
		assert.Equal(t, 2, task.payload.Attempts)
	})

	t.Run("empty payload", func(t *testing.T) {
		task := &testTask{name: "send_message"}
		wrapper := newTaskWrapper[testPayload, *testTask](task)

		err := wrapper.Execute(context.Background(), nil)
		assert.NoError(t, err)
		assert.True(t, task.executed)
		assert.Equal(t, testPayload{}, task.payload)
	})

	t.Run("invalid payload", func(t *testing.T) {
		task := &testTask{name: "send_message"}
		wrapper := newTaskWrapper[testPayload, *testTask](task)

		err := wrapper.Execute(context.Background(), []byte("invalid json"))
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidPayload))
	})

	t.Run("task returns error", func(t *testing.T) {
		taskErr := errors.New("provider refused the message")
		task := &testTask{name: "send_message", err: taskErr}
		wrapper := newTaskWrapper[testPayload, *testTask](task)

		err := wrapper.Execute(context.Background(), nil)
		assert.ErrorIs(t, err, taskErr)
	})
}

// emptyPayloadTask uses an empty struct as payload.
type emptyPayloadTask struct {
	executed bool
}

func (t *emptyPayloadTask) Name() string { return "empty_payload" }

func (t *emptyPayloadTask) Handle(ctx context.Context, p struct{}) error {
	t.executed = true
	return nil
}

func TestTaskWrapper_EmptyPayload(t *testing.T) {
	task := &emptyPayloadTask{}
	wrapper := newTaskWrapper[struct{}, *emptyPayloadTask](task)

	err := wrapper.Execute(context.Background(), nil)
	assert.NoError(t, err)
	assert.True(t, task.executed)
}
