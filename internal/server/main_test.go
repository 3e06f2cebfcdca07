package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"devmate/internal/config"
	"devmate/internal/database"
	"devmate/internal/featureflags"
	"devmate/internal/mailer"
	"devmate/internal/models"
	"devmate/internal/notifications"
	"devmate/internal/repository"
	"devmate/internal/retention"
	"devmate/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testPassword satisfies the registration password policy.
const testPassword = "Password123!"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

// newTestServer builds a fully wired server over an in-memory database and an
// optional Redis client, plus a Fiber app with all routes registered. The
// Prometheus middleware is left out so tests can construct servers freely.
func newTestServer(t *testing.T, redisClient *redis.Client) (*Server, *fiber.App) {
	t.Helper()

	db := setupTestDB(t)
	cfg := &config.Config{
		JWTSecret:    "test-secret",
		Port:         "8080",
		FeatureFlags: "follow_notifications=on",
		FrontendURL:  "http://localhost:5173",
		EmailFrom:    "no-reply@devmate.test",
	}

	s := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		userRepo:         repository.NewUserRepository(db),
		postRepo:         repository.NewPostRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		followRepo:       repository.NewFollowRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		messageRepo:      repository.NewMessageRepository(db),
		featureFlags:     featureflags.NewManager(cfg.FeatureFlags),
		mailer:           mailer.New("", cfg.EmailFrom),
	}
	s.postService = service.NewPostService(s.postRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.userService = service.NewUserService(s.userRepo)
	s.followService = service.NewFollowService(s.followRepo, s.userRepo)
	s.notificationService = service.NewNotificationService(s.notificationRepo)
	s.messageService = service.NewMessageService(s.messageRepo, s.userRepo)
	s.janitor = retention.NewJanitor(s.notificationRepo)

	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
		s.hub = notifications.NewHub()
		s.hubs = []wireableHub{s.hub}
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// seedUser inserts a user directly through the repository with the shared
// test password already hashed.
func seedUser(t *testing.T, s *Server, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hash),
		Skills:   []string{"go"},
	}
	require.NoError(t, s.userRepo.Create(t.Context(), user))
	return user
}

// bearer returns an Authorization header value for the given user.
func bearer(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func drainBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
