package task

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Claim(t *testing.T) {
	t.Run("pool task can be claimed once", func(t *testing.T) {
		task, err := NewPoolTask("Cut panels for D-42", "", "carpenter")
		require.NoError(t, err)
		assert.Nil(t, task.AssigneeID)

		first := uuid.New()
		require.NoError(t, task.Claim(first))
		assert.Equal(t, first, *task.AssigneeID)

		err = task.Claim(uuid.New())
		assert.Error(t, err, "second claim must fail")
	})

	t.Run("assigned task cannot be claimed", func(t *testing.T) {
		task, err := NewTask("Call customer", "", uuid.New())
		require.NoError(t, err)
		assert.Error(t, task.Claim(uuid.New()))
	})

	t.Run("return to pool clears assignee", func(t *testing.T) {
		task, err := NewPoolTask("Assemble wardrobe", "", "installer")
		require.NoError(t, err)
		require.NoError(t, task.Claim(uuid.New()))
		require.NoError(t, task.Transition(TaskStatusInProgress))

		require.NoError(t, task.ReturnToPool())
		assert.Nil(t, task.AssigneeID)
		assert.Equal(t, TaskStatusTodo, task.Status)
	})
}

func TestTask_Transitions(t *testing.T) {
	task, err := NewTask("Prepare quote", "", uuid.New())
	require.NoError(t, err)

	require.NoError(t, task.Transition(TaskStatusInProgress))
	require.NoError(t, task.Transition(TaskStatusReview))
	require.NoError(t, task.Transition(TaskStatusDone))
	assert.NotNil(t, task.CompletedAt)

	assert.Error(t, task.Transition(TaskStatusInProgress), "done is terminal")
	assert.Error(t, task.Update("x", ""), "finished task rejects edits")

	t.Run("skipping straight to done from todo is rejected", func(t *testing.T) {
		fresh, err := NewTask("x", "", uuid.New())
		require.NoError(t, err)
		assert.Error(t, fresh.Transition(TaskStatusDone))
	})

	t.Run("unassigned pool task cannot start", func(t *testing.T) {
		pooled, err := NewPoolTask("x", "", "carpenter")
		require.NoError(t, err)
		assert.Error(t, pooled.Transition(TaskStatusInProgress))
	})
}

func TestTask_Overdue(t *testing.T) {
	task, err := NewTask("Deliver", "", uuid.New())
	require.NoError(t, err)
	assert.False(t, task.IsOverdue())

	past := time.Now().Add(-time.Hour)
	task.SetDueDate(&past)
	assert.True(t, task.IsOverdue())

	require.NoError(t, task.Transition(TaskStatusInProgress))
	require.NoError(t, task.Transition(TaskStatusDone))
	assert.False(t, task.IsOverdue(), "finished tasks are never overdue")
}

func TestChecklistItem_Toggle(t *testing.T) {
	item, err := NewChecklistItem(uuid.New(), "Check fittings", 0)
	require.NoError(t, err)
	assert.False(t, item.Done)
	item.Toggle()
	assert.True(t, item.Done)
	item.Toggle()
	assert.False(t, item.Done)
}
