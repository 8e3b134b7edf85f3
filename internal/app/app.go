// Package app wires the counting station's components together.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/bun"

	"conteo-station/config"
	"conteo-station/internal/backend"
	stationhttp "conteo-station/internal/http"
	"conteo-station/internal/i18n"
	"conteo-station/internal/logger"
	"conteo-station/internal/nav"
	"conteo-station/internal/scan"
	"conteo-station/internal/service"
	"conteo-station/internal/session"
	"conteo-station/internal/store"
)

// Components holds the initialized application, exposed so the server can
// drive shutdown behavior and tests can reach into the wiring.
type Components struct {
	Router     *gin.Engine
	Controller *session.Controller
	Procesador *scan.Procesador
	Hub        *scan.Hub
	DB         *bun.DB
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(cfg config.Config) (*Components, error) {
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	db, err := store.OpenDB(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	if err := store.Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate local store: %w", err)
	}

	cli := backend.NewHTTPClient(cfg.Backend, logger.Componente("backend"))

	controller := session.NewController(
		cli,
		store.NewSQLiteSessionStore(db),
		store.NewSQLiteHistorialStore(db),
		logger.Componente("session"),
	)
	guard := nav.NewGuard(controller, logger.Componente("nav"))

	plantillas := service.NewPlantillasService(cli, cfg.Backend.PlantillaTTL, logger.Componente("plantillas"))
	historial := service.NewHistorialService(cli, store.NewSQLiteHistorialStore(db), logger.Componente("historial"))

	hub := scan.NewHub(cfg.Scanner.BufferSize, logger.Componente("scan"))
	procesador := scan.NewProcesador(
		scan.NewHubSource(hub),
		controller,
		hub,
		i18n.GetTranslator(),
		logger.Componente("scan"),
	)

	handlers := stationhttp.Handlers{
		Sesion:    stationhttp.NewSesionHandler(controller, plantillas, historial, guard, logger.Componente("http")),
		Nav:       stationhttp.NewNavHandler(guard),
		Historial: stationhttp.NewHistorialHandler(historial, plantillas, logger.Componente("http")),
		Escaner:   stationhttp.NewEscanerHandler(hub, logger.Componente("ws")),
		Health: stationhttp.NewHealthHandler(logger.Componente("health"),
			stationhttp.HealthCheckerFunc{
				Nombre: "store",
				Fn:     func(ctx context.Context) error { return db.PingContext(ctx) },
			},
		),
	}

	routerCfg := stationhttp.RouterConfig{
		RateLimit:   cfg.Server.RateLimit,
		RateWindow:  cfg.Server.RateWindow,
		APIKeys:     cfg.Server.APIKeys,
		CORSOrigins: cfg.Server.CORSOrigins,
	}

	return &Components{
		Router:     stationhttp.NewRouter(handlers, routerCfg),
		Controller: controller,
		Procesador: procesador,
		Hub:        hub,
		DB:         db,
	}, nil
}
