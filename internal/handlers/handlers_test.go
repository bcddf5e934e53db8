package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/join-board/internal/constants"
	"github.com/yukikurage/join-board/internal/kvstore"
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/repository"
	"github.com/yukikurage/join-board/internal/services"
)

const testGuestEmail = "guest@join.local"

// testEnv holds services over one in-memory user database.
type testEnv struct {
	store          kvstore.Store
	authService    *services.AuthService
	contactService *services.ContactService
	taskService    *services.TaskService
	boardService   *services.BoardService
}

func newTestEnv(t *testing.T, store kvstore.Store, ai *services.AIService) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userDB := repository.NewUserDatabaseRepository(store, "userDataBase", nil)
	userRepo := repository.NewUserRepository(userDB)
	taskRepo := repository.NewTaskRepository(userDB)
	contactRepo := repository.NewContactRepository(userDB)

	return testEnv{
		store:          store,
		authService:    services.NewAuthService(userRepo, testGuestEmail, nil),
		contactService: services.NewContactService(contactRepo, userRepo, testGuestEmail, nil),
		taskService:    services.NewTaskService(taskRepo, contactRepo, ai, nil),
		boardService:   services.NewBoardService(taskRepo, userRepo, testGuestEmail),
	}
}

func (env testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := env.authService.Signup(context.Background(), services.SignupInput{
		Name:            "Anna Berg",
		Email:           email,
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
	})
	require.NoError(t, err)
	return user
}

func (env testEnv) createTask(t *testing.T, userID uint64, title string) *models.Task {
	t.Helper()
	task, err := env.taskService.CreateTask(context.Background(), userID, services.CreateTaskInput{
		Title:    title,
		Subtasks: []string{"first step"},
	})
	require.NoError(t, err)
	return task
}

// createAuthContext builds a context as RequireAuth leaves it.
func createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// unreachableStore fails like a remote store without network.
type unreachableStore struct{}

func (unreachableStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("dial tcp: connection refused")
}

func (unreachableStore) Set(ctx context.Context, key, value string) error {
	return errors.New("dial tcp: connection refused")
}

func c0() context.Context {
	return context.Background()
}

func contactInput(name string) services.CreateContactInput {
	return services.CreateContactInput{Name: name, Email: "contact@example.com"}
}

func createTaskWithAssignee(contactID string) services.CreateTaskInput {
	return services.CreateTaskInput{Title: "Assigned", AssigneeIDs: []string{contactID}}
}
