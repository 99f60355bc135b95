package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	custommw "meme_gallery/internal/middleware"
	httprouters "meme_gallery/internal/transport/http"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
	token   []byte
}

func New(log *slog.Logger, tokenSecret []byte, host, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore(tokenSecret)))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	e.Use(custommw.PrometheusMetrics)

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
		token:   tokenSecret,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.routers.HealthCheck)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.e.GET("/share/:id", s.routers.SharePage)

	api := s.e.Group("/api")
	{
		api.GET("/memes", s.routers.ListMemes)
		api.POST("/memes", s.routers.AddMeme)
		api.GET("/memes/search", s.routers.SearchMemes)
		api.GET("/memes/export", s.routers.ExportMemes)
		api.POST("/memes/tags", s.routers.UpdateTags)
		api.DELETE("/memes/:id", s.routers.DeleteMeme)

		api.POST("/verify-key", s.routers.VerifyKey)
		api.POST("/upload", s.routers.Upload)

		api.GET("/friends", s.routers.ListFriends)
		api.POST("/friends", s.routers.FriendAction)

		api.GET("/proxy", s.routers.Proxy)

		// Массовые операции требуют токен, выданный verify-key.
		admin := api.Group("")
		admin.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: s.token,
			// Отсутствующий заголовок echo-jwt по умолчанию отдаёт как 400;
			// для клиента и то и другое — 401.
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
			},
		}))
		{
			admin.DELETE("/memes/clear", s.routers.ClearMemes)
			admin.POST("/memes/import", s.routers.ImportMemes)
			admin.POST("/scan-repo", s.routers.ScanRepo)
		}
	}

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}
}

// Echo открывает внутренний роутер для httptest-сценариев.
func (s *Server) Echo() *echo.Echo {
	return s.e
}
