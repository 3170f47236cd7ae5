package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/chanserv/internal/config"
	"github.com/vovakirdan/chanserv/internal/dispatch"
)

// NewServer builds the HTTP server: the websocket endpoint, a health check
// and the read-only monitoring API.
//
// /ws is served by the mux directly; gin's ResponseWriter refuses the hijack
// once websocket.Accept has written the 101 response.
func NewServer(hub *dispatch.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	api := NewAPIHandlers(hub, logger)

	router.GET("/health", healthHandler)

	group := router.Group("/api", LoggerMiddleware(logger))
	group.GET("/users", api.ListUsers)
	group.GET("/channels", api.ListChannels)
	group.GET("/channels/:name", api.GetChannel)
	group.GET("/stats", api.Stats)

	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
