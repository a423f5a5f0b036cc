package http

import (
	"net/http"

	"github.com/padelclub/turnero/internal/config"
	"github.com/padelclub/turnero/internal/engine"
	"github.com/padelclub/turnero/internal/events"
	"github.com/padelclub/turnero/internal/metrics"
	"github.com/padelclub/turnero/internal/players"
	"github.com/padelclub/turnero/internal/turns"
)

type Server struct {
	Engine         *engine.Engine
	Turns          turns.TurnStore
	Players        players.PlayerDirectory
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	MetricsStore   metrics.MetricsStore
	Dispatcher     *events.Dispatcher
	Cfg            config.Config
	Router         *http.ServeMux
}
