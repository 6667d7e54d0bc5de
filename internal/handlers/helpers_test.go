package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DevNiNi18/flowtrack/internal/constants"
	"github.com/DevNiNi18/flowtrack/internal/database"
	"github.com/DevNiNi18/flowtrack/internal/models"
	"github.com/DevNiNi18/flowtrack/internal/repository"
	"github.com/DevNiNi18/flowtrack/internal/services"
	"github.com/DevNiNi18/flowtrack/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// storeEnv wires the services to an in-memory SQLite database.
type storeEnv struct {
	db       *gorm.DB
	auth     *services.AuthService
	projects *services.ProjectService
	tasks    *services.TaskService
}

func setupStoreEnv(t *testing.T) storeEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, zerolog.Nop()))

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	return storeEnv{
		db:       db,
		auth:     services.NewAuthService(userRepo),
		projects: services.NewProjectService(projectRepo, taskRepo),
		tasks:    services.NewTaskService(taskRepo, projectRepo, nil),
	}
}

func (env storeEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := env.auth.Register(context.Background(), validation.Values{
		validation.FieldEmail:           email,
		validation.FieldPassword:        "supersecret",
		validation.FieldConfirmPassword: "supersecret",
	})
	require.NoError(t, err)
	return user
}

func (env storeEnv) createProject(t *testing.T, ownerID, title string) *services.ProjectWithProgress {
	t.Helper()
	project, err := env.projects.Create(context.Background(), ownerID, validation.Values{
		validation.FieldProjectTitle: title,
		validation.FieldDueDate:      "2025-12-01",
	})
	require.NoError(t, err)
	return project
}

func (env storeEnv) createTask(t *testing.T, projectID, title string) *models.Task {
	t.Helper()
	task, err := env.tasks.Create(context.Background(), projectID, validation.Values{
		validation.FieldTaskTitle: title,
	})
	require.NoError(t, err)
	return task
}

// createAuthContext builds a test context as RequireAuth would leave it
func createAuthContext(method, url string, body any, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if userID != "" {
		c.Set(constants.ContextKeyUserID, userID)
	}

	return c, w
}

func setParam(c *gin.Context, id string) {
	c.Params = gin.Params{{Key: "id", Value: id}}
}

type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
