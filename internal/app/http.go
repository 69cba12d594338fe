package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-todo-ai/internal/config"
	"github.com/adanyl0v/go-todo-ai/internal/delivery/http/v1"
	"github.com/adanyl0v/go-todo-ai/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.Use(gin.Recovery())
	mustRegisterRoutes(router)

	server := &http.Server{
		Addr:         net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:      router,
		ReadTimeout:  httpCfg.ReadTimeout,
		WriteTimeout: httpCfg.WriteTimeout,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// kill (no params) sends SIGTERM, kill -2 sends SIGINT.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func mustRegisterRoutes(router gin.IRouter) {
	err := v1.RegisterValidators()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to register validators")
		panic(err)
	}

	authCfg := config.Global().Auth
	authService := services.NewAuthService(
		componentLogger("auth"),
		[]byte(authCfg.JWTSecret),
		authCfg.JWTIssuer,
		authCfg.JWTAudience,
	)
	todoService := services.NewTodoService(componentLogger("todos"), globalPostgresPool)

	handler := v1.New(
		componentLogger("http"),
		authService,
		todoService,
		globalAssistant,
		globalDefaultLocation,
	)
	router.Use(handler.HandleRequestLogger)
	v1.RegisterRoutes(router, handler)
}
