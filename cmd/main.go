package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/theWebPartyTime/matchroom/internal/config"
	"github.com/theWebPartyTime/matchroom/internal/metrics"
	"github.com/theWebPartyTime/matchroom/internal/player"
	"github.com/theWebPartyTime/matchroom/internal/room"
)

func main() {
	configPath := flag.String("config", "", "path to a .toml or .yaml config file")
	flag.Parse()

	if *configPath == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			*configPath = defaultConfigPath
		}
	}

	settings, err := config.Load(*configPath, envFile)
	if err != nil {
		log.Fatal(err)
	}

	level, err := log.ParseLevel(settings.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if level < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	collector := metrics.New()
	connected := newConnections()
	coordinator := room.NewCoordinator(
		coordinatorConfig(settings.Room),
		player.NewRegistry(),
		connected,
		room.WithMetrics(collector),
	)

	node, err := centrifuge.New(centrifugeMainConfig(level))
	if err != nil {
		log.Fatal(err)
	}

	node.OnConnect(onConnect(node, coordinator, connected))

	if err := node.Run(); err != nil {
		log.Fatal(err)
	}

	wsHandler := centrifuge.NewWebsocketHandler(node, wsMainConfig(settings.Server))

	router := gin.Default()
	router.SetTrustedProxies(nil)

	router.GET("/", root)
	router.GET("/health", health(coordinator, connected))
	router.GET("/metrics", gin.WrapH(collector.Handler()))
	router.GET(settings.Server.SocketPath, gin.WrapH(anonymous(wsHandler)))

	server := &http.Server{
		Addr:    settings.Server.Address,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Infof("Listening on %s (rooms of %d)", settings.Server.Address, settings.Room.Capacity)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		return coordinator.Run(ctx)
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("HTTP shutdown: %v", err)
		}
		return node.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal(err)
	}
}
