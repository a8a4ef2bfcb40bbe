package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path"
	"time"

	"github.com/Domenick1991/aviaapp/config"
	"github.com/Domenick1991/aviaapp/internal/log"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

const (
	swaggerFile     = "aviaapp.swagger.json"
	shutdownTimeout = 5 * time.Second
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	health     *health.Server
}

// Run starts the gRPC ops server and the HTTP API and blocks until ctx is
// canceled or a server fails.
func Run(ctx context.Context, cfg *config.Config, router *gin.Engine, db Pinger) error {
	s := newServers(cfg, router)
	s.reportHealth(ctx, db)

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info(ctx, "servers started",
		slog.String("http", cfg.HTTP.Address),
		slog.String("grpc", cfg.GRPC.Address),
	)

	select {
	case err := <-errCh:
		s.grpcServer.Stop()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Info(context.Background(), "servers stopped")
		return nil
	}
}

func newServers(cfg *config.Config, router *gin.Engine) *Servers {
	grpcSrv := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	reflection.Register(grpcSrv)

	if cfg.HTTP.SwaggerDir != "" {
		mountDocs(router, cfg.HTTP.SwaggerDir)
	}

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		health: healthSrv,
	}
}

// mountDocs serves the OpenAPI files under /swagger/ and the UI under /docs/.
func mountDocs(router *gin.Engine, dir string) {
	files := http.StripPrefix("/swagger/", http.FileServer(http.Dir(dir)))
	router.GET("/swagger/*file", gin.WrapH(files))

	ui := httpSwagger.Handler(httpSwagger.URL(path.Join("/swagger", swaggerFile)))
	router.GET("/docs/*any", gin.WrapH(ui))
}

// reportHealth marks the service SERVING only once the database answers.
func (s *Servers) reportHealth(ctx context.Context, db Pinger) {
	status := healthpb.HealthCheckResponse_SERVING
	if db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()
		if err := db.Ping(pingCtx); err != nil {
			log.Error(ctx, "database ping failed", log.Err(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	s.health.SetServingStatus("", status)
}
