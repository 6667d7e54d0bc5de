package dto

import (
	"testing"
	"time"

	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/progress"
	"github.com/DevNiNi18/flowtrack/internal/services"
	"github.com/DevNiNi18/flowtrack/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToProjectDTO(t *testing.T) {
	p := services.ProjectWithProgress{
		Project: models.Project{
			ID:      "p-1",
			Title:   "Design Portfolio Website",
			DueDate: time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
		},
		Progress: progress.Summary{Total: 3, Completed: 1, Percent: 33, Status: progress.StatusInProgress},
	}

	got := ToProjectDTO(p)

	assert.Equal(t, "2025-12-01", got.DueDate)
	assert.Equal(t, 33, got.Progress)
	assert.Equal(t, progress.StatusInProgress, got.Status)
	assert.Equal(t, 3, got.TotalTasks)
	assert.Equal(t, 1, got.CompletedTasks)
}

func TestToProjectListResponse(t *testing.T) {
	projects := []services.ProjectWithProgress{{Project: models.Project{ID: "p-1"}}}

	unpaged := ToProjectListResponse(projects, nil, 1)
	require.Len(t, unpaged.Projects, 1)
	assert.Nil(t, unpaged.Pagination)

	paged := ToProjectListResponse(projects, &utils.PaginationParams{Page: 2, Limit: 1, Offset: 1}, 5)
	require.NotNil(t, paged.Pagination)
	assert.Equal(t, utils.PaginationResponse{Page: 2, Limit: 1, Total: 5}, *paged.Pagination)
}

func TestToTaskListResponse_EmptyIsNotNull(t *testing.T) {
	resp := ToTaskListResponse(nil, progress.Compute(nil))

	assert.NotNil(t, resp.Tasks)
	assert.Empty(t, resp.Tasks)
	assert.Equal(t, progress.StatusNotStarted, resp.Progress.Status)
}
