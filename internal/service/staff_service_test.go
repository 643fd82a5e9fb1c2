package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newStaffService(db *gorm.DB) StaffService {
	return NewStaffService(
		repository.NewStaffRepository(db),
		repository.NewRoleRepository(db),
		repository.NewPropertyRepository(db),
		newTestRecorder(db),
	)
}

func createTestStaff(t *testing.T, db *gorm.DB, svc StaffService, email string) *model.Staff {
	t.Helper()
	role := createTestRole(t, db, "Field Agent "+email)
	actor := createTestAdmin(t, db, "mgr-"+email, false)
	staff, err := svc.Create(context.Background(), CreateStaffRequest{
		Name:   "Agent",
		Email:  email,
		Phone:  "9876543210",
		RoleID: role.ID,
	}, actor.ID)
	require.NoError(t, err)
	return staff
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newStaffService(db)
	staff := createTestStaff(t, db, svc, "agent@example.com")
	actor := createTestAdmin(t, db, "second-mgr@example.com", false)

	_, err := svc.Create(context.Background(), CreateStaffRequest{
		Name:   "Clone",
		Email:  staff.Email,
		Phone:  "1234567890",
		RoleID: staff.RoleID,
	}, actor.ID)

	require.Error(t, err)
	assert.Equal(t, "Email already exists", err.Error())
}

func TestCreateStaffUnknownRole(t *testing.T) {
	db := newTestDB(t)
	svc := newStaffService(db)
	actor := createTestAdmin(t, db, "mgr@example.com", false)

	_, err := svc.Create(context.Background(), CreateStaffRequest{
		Name:   "Roleless",
		Email:  "roleless@example.com",
		Phone:  "1234567890",
		RoleID: actor.ID, // not a role
	}, actor.ID)

	require.Error(t, err)
	assert.Equal(t, "Role not found", err.Error())
}

func TestCreateTask(t *testing.T) {
	db := newTestDB(t)
	svc := newStaffService(db)
	staff := createTestStaff(t, db, svc, "tasked@example.com")
	actor := createTestAdmin(t, db, "assigner@example.com", false)

	task, err := svc.CreateTask(context.Background(), CreateTaskRequest{
		StaffID:  staff.ID,
		TaskType: model.TaskVisit,
		Title:    "Site visit at Green Meadows",
		DueDate:  time.Now().Add(48 * time.Hour),
	}, actor.ID)
	require.NoError(t, err)

	assert.Equal(t, model.TaskPending, task.Status)
	assert.Equal(t, model.PriorityMedium, task.Priority)
	assert.Equal(t, actor.ID, task.CreatedByID)
}

func TestCreateTaskInactiveStaff(t *testing.T) {
	db := newTestDB(t)
	svc := newStaffService(db)
	staff := createTestStaff(t, db, svc, "away@example.com")
	actor := createTestAdmin(t, db, "assigner@example.com", false)

	status := model.StaffSuspended
	_, err := svc.Update(context.Background(), staff.ID, UpdateStaffRequest{Status: &status})
	require.NoError(t, err)

	_, err = svc.CreateTask(context.Background(), CreateTaskRequest{
		StaffID:  staff.ID,
		TaskType: model.TaskVisit,
		Title:    "Should fail",
		DueDate:  time.Now().Add(time.Hour),
	}, actor.ID)

	require.Error(t, err)
	assert.Equal(t, "Tasks can only be assigned to active staff members", err.Error())
}

func TestCreateTaskInvalidType(t *testing.T) {
	db := newTestDB(t)
	svc := newStaffService(db)
	staff := createTestStaff(t, db, svc, "typed@example.com")
	actor := createTestAdmin(t, db, "assigner@example.com", false)

	_, err := svc.CreateTask(context.Background(), CreateTaskRequest{
		StaffID:  staff.ID,
		TaskType: "paperwork",
		Title:    "Should fail",
		DueDate:  time.Now().Add(time.Hour),
	}, actor.ID)

	require.Error(t, err)
}

func TestDeleteStaffWithOpenTasks(t *testing.T) {
	db := newTestDB(t)
	svc := newStaffService(db)
	staff := createTestStaff(t, db, svc, "busy@example.com")
	actor := createTestAdmin(t, db, "assigner@example.com", false)

	task, err := svc.CreateTask(context.Background(), CreateTaskRequest{
		StaffID:  staff.ID,
		TaskType: model.TaskMaintenance,
		Title:    "Fix the lift",
		DueDate:  time.Now().Add(time.Hour),
	}, actor.ID)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), staff.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open task(s) are assigned to them")

	// Completing the task unblocks the delete.
	done := model.TaskCompleted
	_, err = svc.UpdateTask(context.Background(), task.ID, UpdateTaskRequest{Status: &done})
	require.NoError(t, err)

	assert.NoError(t, svc.Delete(context.Background(), staff.ID))
}

func TestUpdateTaskCompletionTimestamps(t *testing.T) {
	db := newTestDB(t)
	svc := newStaffService(db)
	staff := createTestStaff(t, db, svc, "timer@example.com")
	actor := createTestAdmin(t, db, "assigner@example.com", false)

	task, err := svc.CreateTask(context.Background(), CreateTaskRequest{
		StaffID:  staff.ID,
		TaskType: model.TaskVerification,
		Title:    "Verify ownership papers",
		DueDate:  time.Now().Add(time.Hour),
	}, actor.ID)
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)

	done := model.TaskCompleted
	completed, err := svc.UpdateTask(context.Background(), task.ID, UpdateTaskRequest{Status: &done})
	require.NoError(t, err)
	assert.NotNil(t, completed.CompletedAt)

	reopened := model.TaskInProgress
	task, err = svc.UpdateTask(context.Background(), task.ID, UpdateTaskRequest{Status: &reopened})
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)
}

func TestLogPerformanceScoreBounds(t *testing.T) {
	db := newTestDB(t)
	svc := newStaffService(db)
	staff := createTestStaff(t, db, svc, "scored@example.com")
	actor := createTestAdmin(t, db, "reviewer@example.com", false)

	_, err := svc.LogPerformance(context.Background(), staff.ID, LogPerformanceRequest{
		Score: 120,
	}, actor.ID)
	require.Error(t, err)

	entry, err := svc.LogPerformance(context.Background(), staff.ID, LogPerformanceRequest{
		Score:   85,
		Remarks: "Consistent follow-ups",
	}, actor.ID)
	require.NoError(t, err)
	assert.Equal(t, 85, entry.Score)

	perf, err := svc.Performance(context.Background(), staff.ID)
	require.NoError(t, err)
	assert.InDelta(t, 85.0, perf.AverageScore, 0.01)
}
