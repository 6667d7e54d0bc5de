package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/DevNiNi18/flowtrack/internal/constants"
	"github.com/DevNiNi18/flowtrack/internal/dto"
	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/progress"
	"github.com/DevNiNi18/flowtrack/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env     storeEnv
	handler *TaskHandler
	ownerID string
	project *services.ProjectWithProgress
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.env = setupStoreEnv(suite.T())

	// Create handler (without AI service for tests)
	suite.handler = NewTaskHandler(suite.env.tasks, zerolog.Nop())

	suite.ownerID = suite.env.createUser(suite.T(), "owner@example.com").ID
	suite.project = suite.env.createProject(suite.T(), suite.ownerID, "Thesis")
}

// setProjectContext simulates RequireProjectAccess middleware
func (suite *TaskHandlerTestSuite) setProjectContext(c *gin.Context) {
	c.Set(constants.ContextKeyProject, suite.project.Project)
	setParam(c, suite.project.ID)
}

// setTaskContext simulates RequireTaskAccess middleware
func (suite *TaskHandlerTestSuite) setTaskContext(c *gin.Context, task models.Task) {
	c.Set(constants.ContextKeyTask, task)
	setParam(c, task.ID)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	c, w := createAuthContext(http.MethodPost, "/api/projects/x/tasks", map[string]string{
		"taskTitle": "Collect sources",
	}, suite.ownerID)
	suite.setProjectContext(c)

	suite.handler.CreateTask(c)

	suite.Require().Equal(http.StatusCreated, w.Code)

	response := decode[dto.TaskMutationResponse](suite.T(), w)
	assert.Equal(suite.T(), "Collect sources", response.Task.Title)
	assert.False(suite.T(), response.Task.Completed)
	assert.Equal(suite.T(), suite.project.ID, response.Task.ProjectID)
	assert.Equal(suite.T(), progress.Summary{Total: 1, Status: progress.StatusNotStarted}, response.Progress)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_ValidationError() {
	c, w := createAuthContext(http.MethodPost, "/api/projects/x/tasks", map[string]string{
		"taskTitle": "",
	}, suite.ownerID)
	suite.setProjectContext(c)

	suite.handler.CreateTask(c)

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "Field is required", decode[errorBody](suite.T(), w).Details["taskTitle"])

	tasks, err := suite.env.tasks.List(context.Background(), suite.project.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), tasks)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingProjectContext() {
	c, w := createAuthContext(http.MethodPost, "/api/projects/x/tasks", map[string]string{
		"taskTitle": "Orphan",
	}, suite.ownerID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	first := suite.env.createTask(suite.T(), suite.project.ID, "Outline")
	second := suite.env.createTask(suite.T(), suite.project.ID, "Draft")

	c, w := createAuthContext(http.MethodGet, "/api/projects/x/tasks", nil, suite.ownerID)
	suite.setProjectContext(c)

	suite.handler.ListTasks(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	response := decode[dto.TaskListResponse](suite.T(), w)
	suite.Require().Len(response.Tasks, 2)
	ids := []string{response.Tasks[0].ID, response.Tasks[1].ID}
	assert.ElementsMatch(suite.T(), []string{first.ID, second.ID}, ids)
	assert.Equal(suite.T(), 2, response.Progress.Total)
	assert.Equal(suite.T(), progress.StatusNotStarted, response.Progress.Status)
}

func (suite *TaskHandlerTestSuite) TestToggleTask_RecomputesProgress() {
	tasks := []*models.Task{
		suite.env.createTask(suite.T(), suite.project.ID, "Outline"),
		suite.env.createTask(suite.T(), suite.project.ID, "Draft"),
		suite.env.createTask(suite.T(), suite.project.ID, "Revise"),
	}

	var last dto.TaskMutationResponse
	for i, task := range tasks {
		c, w := createAuthContext(http.MethodPost, "/api/tasks/x/toggle", nil, suite.ownerID)
		suite.setTaskContext(c, *task)

		suite.handler.ToggleTask(c)

		suite.Require().Equal(http.StatusOK, w.Code)
		last = decode[dto.TaskMutationResponse](suite.T(), w)
		assert.True(suite.T(), last.Task.Completed)

		if i == 0 {
			assert.Equal(suite.T(), 33, last.Progress.Percent)
			assert.Equal(suite.T(), progress.StatusInProgress, last.Progress.Status)
		}
	}

	assert.Equal(suite.T(), 100, last.Progress.Percent)
	assert.Equal(suite.T(), progress.StatusCompleted, last.Progress.Status)
}

func (suite *TaskHandlerTestSuite) TestToggleTask_DeletedMeanwhile() {
	task := suite.env.createTask(suite.T(), suite.project.ID, "Outline")
	suite.Require().NoError(suite.env.tasks.Delete(context.Background(), task.ID))

	c, w := createAuthContext(http.MethodPost, "/api/tasks/x/toggle", nil, suite.ownerID)
	suite.setTaskContext(c, *task)

	suite.handler.ToggleTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_Idempotent() {
	task := suite.env.createTask(suite.T(), suite.project.ID, "Outline")

	for range 2 {
		c, w := createAuthContext(http.MethodDelete, "/api/tasks/"+task.ID, nil, suite.ownerID)
		setParam(c, task.ID)

		suite.handler.DeleteTask(c)

		suite.Require().Equal(http.StatusOK, w.Code)
	}

	tasks, err := suite.env.tasks.List(context.Background(), suite.project.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), tasks)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_OtherOwnerLeavesTask() {
	task := suite.env.createTask(suite.T(), suite.project.ID, "Outline")
	intruder := suite.env.createUser(suite.T(), "intruder@example.com")

	c, w := createAuthContext(http.MethodDelete, "/api/tasks/"+task.ID, nil, intruder.ID)
	setParam(c, task.ID)

	suite.handler.DeleteTask(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	tasks, err := suite.env.tasks.List(context.Background(), suite.project.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), tasks, 1)
}

func (suite *TaskHandlerTestSuite) TestSuggestTasks_NotConfigured() {
	c, w := createAuthContext(http.MethodPost, "/api/projects/x/tasks/suggest", map[string]string{
		"text": "read five papers and write a summary",
	}, suite.ownerID)
	suite.setProjectContext(c)

	suite.handler.SuggestTasks(c)

	assert.Equal(suite.T(), http.StatusServiceUnavailable, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
