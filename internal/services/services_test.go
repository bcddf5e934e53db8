package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/join-board/internal/kvstore"
	"github.com/yukikurage/join-board/internal/models"
	"github.com/yukikurage/join-board/internal/repository"
)

const (
	testKey        = "userDataBase"
	testGuestEmail = "guest@join.local"
)

type testEnv struct {
	store    *kvstore.MemoryStore
	db       repository.UserDatabaseRepository
	users    repository.UserRepository
	auth     *AuthService
	contacts *ContactService
	tasks    *TaskService
	board    *BoardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := kvstore.NewMemoryStore()
	db := repository.NewUserDatabaseRepository(store, testKey, nil)
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	contactRepo := repository.NewContactRepository(db)

	return &testEnv{
		store:    store,
		db:       db,
		users:    userRepo,
		auth:     NewAuthService(userRepo, testGuestEmail, nil),
		contacts: NewContactService(contactRepo, userRepo, testGuestEmail, nil),
		tasks:    NewTaskService(taskRepo, contactRepo, nil, nil),
		board:    NewBoardService(taskRepo, userRepo, testGuestEmail),
	}
}

func (e *testEnv) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) seed(t *testing.T, document string) {
	t.Helper()
	require.True(t, json.Valid([]byte(document)))
	require.NoError(t, e.store.Set(context.Background(), testKey, document))
}

// brokenStore fails like an unreachable remote.
type brokenStore struct{}

func (brokenStore) Get(ctx context.Context, key string) (string, error) {
	return "", errors.New("dial tcp: i/o timeout")
}

func (brokenStore) Set(ctx context.Context, key, value string) error {
	return errors.New("dial tcp: i/o timeout")
}
