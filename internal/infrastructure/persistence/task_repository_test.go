package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	taskapp "github.com/furniflow/backend/internal/application/task"
)

// Drives a full service update through the version-checked repository. The
// service calls several domain mutators before one Save; the UPDATE must
// still match the version the row was loaded with.
func TestTaskService_Update_ThroughVersionedRepository(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	repo := NewGormTaskRepository(db)
	service := taskapp.NewTaskService(repo, nil, nil, nil, nil)

	taskID := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE id = \$1`).
		WithArgs(taskID, 1).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "description", "status", "priority", "version", "created_at", "updated_at",
		}).AddRow(taskID, "Measure the site", "", "todo", "medium", 3, now, now))

	// SET args in gorm map order, then WHERE id and the loaded version
	mock.ExpectExec(`UPDATE "tasks" SET .+ WHERE id = \$12 AND version = \$13`).
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), 4, taskID, 3,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	due := now.Add(72 * time.Hour)
	resp, err := service.Update(context.Background(), taskID, taskapp.UpdateTaskRequest{
		Title:       "Measure the site and doorways",
		Description: "Check stair access too",
		Priority:    "high",
		DueDate:     &due,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, resp.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}
