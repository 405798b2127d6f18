package api

import (
	"context"
	"innervoice/app/config"
	"innervoice/app/service/metrics"
	"innervoice/app/service/mood"
	"innervoice/app/service/peer"
	"innervoice/app/service/privacy"
	"innervoice/app/service/session"
	"innervoice/app/service/transcribe"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const shutdownTimeout = 10 * time.Second

type Sessions interface {
	Create() *session.Session
	Get(id string) (*session.Session, error)
}

type Journal interface {
	List(ctx context.Context, sessionID string) ([]mood.Entry, error)
	Dashboard(ctx context.Context, sessionID string) (*mood.Dashboard, error)
}

type Board interface {
	List(ctx context.Context) ([]peer.Post, error)
	Post(ctx context.Context, content string) (peer.Post, error)
}

type Wiper interface {
	DeleteAllData(ctx context.Context) (*privacy.Report, error)
}

type Transcriber interface {
	Enabled() bool
	Transcribe(ctx context.Context, audio io.Reader, lang string) (string, error)
}

type Services struct {
	Sessions Sessions
	Journal  Journal
	Board    Board
	Privacy  Wiper
	Voice    Transcriber
	Metrics  http.Handler
}

type Server struct {
	app      *fiber.App
	listen   string
	services Services
}

func New(di *do.Injector) (*Server, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewServer(cfg.Server, Services{
		Sessions: do.MustInvoke[*session.Manager](di),
		Journal:  do.MustInvoke[*mood.Service](di),
		Board:    do.MustInvoke[*peer.Service](di),
		Privacy:  do.MustInvoke[*privacy.Service](di),
		Voice:    do.MustInvoke[*transcribe.Service](di),
		Metrics:  do.MustInvoke[*metrics.Service](di).Handler(),
	}), nil
}

func NewServer(cfg config.Server, services Services) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "innervoice",
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())

	s := &Server{
		app:      app,
		listen:   cfg.Listen,
		services: services,
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	s.app.Get("/health", s.health)
	if s.services.Metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.services.Metrics))
	}

	api := s.app.Group("/api")
	api.Get("/languages", s.languages)

	sessions := api.Group("/sessions")
	sessions.Post("/", s.createSession)
	sessions.Get("/:id/messages", s.listMessages)
	sessions.Post("/:id/messages", s.sendMessage)
	sessions.Post("/:id/voice", s.sendVoice)
	sessions.Delete("/:id/conversation", s.deleteConversation)
	sessions.Get("/:id/memory", s.memory)
	sessions.Get("/:id/moods", s.moods)
	sessions.Get("/:id/dashboard", s.dashboard)

	api.Get("/posts", s.listPosts)
	api.Post("/posts", s.createPost)

	api.Delete("/data", s.deleteAllData)
}

func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is done, then shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API listening", slog.String("addr", s.listen))
		errCh <- s.app.Listen(s.listen)
	}()

	select {
	case err := <-errCh:
		return oops.In("api").With("addr", s.listen).Wrapf(err, "listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("Shutting down HTTP API")

	if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
		return oops.In("api").Wrapf(err, "shutdown")
	}

	return nil
}
