// Package web assembles the gin engine, the background jobs and the HTTP
// server of the quillpress API.
package web

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/quillpress/blog-api/caching"
	"github.com/quillpress/blog-api/config"
	"github.com/quillpress/blog-api/logger"
	"github.com/quillpress/blog-api/util/common"
	"github.com/quillpress/blog-api/util/random"
	"github.com/quillpress/blog-api/web/controller"
	"github.com/quillpress/blog-api/web/entity"
	"github.com/quillpress/blog-api/web/job"
	"github.com/quillpress/blog-api/web/locale"
	"github.com/quillpress/blog-api/web/middleware"
	"github.com/quillpress/blog-api/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

const shutdownTimeout = 10 * time.Second

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set outside debug mode")

type Server struct {
	httpServer *http.Server
	listener   net.Listener

	api *controller.APIController

	cache         *caching.Cache
	authService   *service.AuthService
	serverService *service.ServerService

	cron *cron.Cron
}

// NewServer prepares a server signing tokens with JWT_SECRET. In debug mode
// a missing secret is replaced by a random one valid for this process only.
func NewServer() (*Server, error) {
	secret := config.GetJWTSecret()
	if secret == "" {
		if !config.IsDebug() {
			return nil, ErrMissingJWTSecret
		}
		secret = random.Seq(48)
		logger.Warning("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}
	return newServer(secret), nil
}

func newServer(secret string) *Server {
	cache := caching.NewCache()
	return &Server{
		cache:         cache,
		authService:   service.NewAuthService(secret, service.NewUserService(cache)),
		serverService: service.NewServerService(cache),
	}
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	if err := locale.InitLocalizer(); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(s.serverService.RecordRequest),
		gzip.Gzip(gzip.DefaultCompression),
		locale.LocalizerMiddleware(),
	)

	g := engine.Group("/")
	s.api = controller.NewAPIController(g, s.cache, s.authService, s.serverService)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, entity.ErrorMsg{Message: http.StatusText(http.StatusNotFound)})
	})
	engine.NoMethod(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, entity.ErrorMsg{Message: http.StatusText(http.StatusMethodNotAllowed)})
	})

	return engine, nil
}

func (s *Server) startTask() {
	if _, err := s.cron.AddJob("@every 10m", job.NewCheckpointJob()); err != nil {
		logger.Warning("add checkpoint job failed:", err)
	}
	if _, err := s.cron.AddJob("@hourly", job.NewStatsNotifyJob(s.serverService)); err != nil {
		logger.Warning("add stats job failed:", err)
	}
	if _, err := s.cron.AddJob("@daily", job.NewClearLogsJob()); err != nil {
		logger.Warning("add clear logs job failed:", err)
	}
}

func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("Web server running HTTP on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped:", err)
		}
	}()

	s.startTask()
	return nil
}

// Stop stops the cron jobs, then drains in-flight requests.
func (s *Server) Stop() error {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	var err1, err2 error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err1 = s.httpServer.Shutdown(ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
		if errors.Is(err2, net.ErrClosed) {
			err2 = nil
		}
	}
	s.cache.Flush()
	return common.Combine(err1, err2)
}
