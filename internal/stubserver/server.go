// Package stubserver is an in-memory implementation of the student-helper
// backend contract. It exists for local development and for the test
// suites: every endpoint the client consumes is served, with real bcrypt
// credential checks and real JWT access tokens, and AI responses that come
// from OpenAI when a key is configured or canned text otherwise.
package stubserver

import (
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// TokenTTL is how long issued access tokens stay valid.
const TokenTTL = 24 * time.Hour

// Config configures the stub server.
type Config struct {
	JWTSecret   string
	OpenAIKey   string
	OpenAIModel string
}

// Server is the stub backend.
type Server struct {
	app       *fiber.App
	store     *memStore
	responder Responder
	secret    []byte
}

// New builds the server and registers all routes.
func New(cfg Config) *Server {
	s := &Server{
		app:    fiber.New(fiber.Config{AppName: "studenthelper dev server", DisableStartupMessage: true}),
		store:  newMemStore(),
		secret: []byte(cfg.JWTSecret),
	}

	if cfg.OpenAIKey != "" {
		s.responder = newOpenAIResponder(cfg.OpenAIKey, cfg.OpenAIModel)
		logrus.WithField("model", cfg.OpenAIModel).Info("dev server using OpenAI responder")
	} else {
		s.responder = cannedResponder{}
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Use(recover.New())

	s.app.Post("/auth/register", s.handleRegister)
	s.app.Post("/auth/login", s.handleLogin)

	authed := s.app.Group("", s.requireAuth)
	authed.Get("/auth/myInfo", s.handleMyInfo)
	authed.Post("/auth/change_password", s.handleChangePassword)

	authed.Get("/events", s.handleGetEvents)
	authed.Post("/events", s.handleCreateEvent)
	authed.Post("/events/delete", s.handleDeleteEvent)

	authed.Get("/chat/history", s.handleChatHistory)
	authed.Post("/chat/message", s.handleChatMessage)
	authed.Post("/chat/examAnalyse", s.handleExamAnalyse)
	authed.Post("/chat/analyze-schoolwork", s.handleAnalyzeSchoolwork)
	authed.Get("/schoolwork/:id", s.handleGetSchoolwork)
	authed.Post("/chat/generate-test", s.handleGenerateTest)
	authed.Post("/chat/extract-events", s.handleExtractEvents)

	authed.Get("/recent-scores", s.handleRecentScores)
	authed.Post("/save-score", s.handleSaveScore)
}

// Listen serves on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Serve serves on an existing listener; tests use it with a port-0 listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// issueToken signs an HS256 access token for a user.
func (s *Server) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

const bearerPrefix = "Bearer "

// requireAuth validates the bearer token and stores the user id in Locals.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if len(authHeader) <= len(bearerPrefix) || authHeader[:len(bearerPrefix)] != bearerPrefix {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}

	tokenStr := authHeader[len(bearerPrefix):]
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid or expired token",
		})
	}

	if s.store.userByID(claims.Subject) == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unknown user",
		})
	}

	c.Locals("user_id", claims.Subject)
	return c.Next()
}

func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
