// Package server renders the portal's role-gated views and hosts the route
// guards that keep them behind the session.
package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/vetcare/portal/alerts"
	"github.com/vetcare/portal/appointments"
	"github.com/vetcare/portal/internal/config"
	"github.com/vetcare/portal/owners"
	"github.com/vetcare/portal/patients"
	"github.com/vetcare/portal/session"
	"github.com/vetcare/portal/users"
)

// Clients bundles the typed backend clients the views render from
type Clients struct {
	Owners       *owners.Client
	Patients     *patients.Client
	Appointments *appointments.Client
	Users        *users.Client
}

type Server struct {
	env     string // Environment (e.g. "DEV", "PROD")
	mux     *http.ServeMux
	routes  []string
	config  config.Config
	session *session.Manager
	alerts  *alerts.Channel
	clients Clients
}

func New(cfg config.Config, sessionManager *session.Manager, alertChannel *alerts.Channel, clients Clients) (*Server, error) {
	if sessionManager == nil {
		return nil, fmt.Errorf("[server.New] session manager is required")
	}
	if alertChannel == nil {
		return nil, fmt.Errorf("[server.New] alert channel is required")
	}
	if clients.Owners == nil || clients.Patients == nil || clients.Appointments == nil || clients.Users == nil {
		return nil, fmt.Errorf("[server.New] all backend clients are required")
	}

	s := &Server{
		mux:     http.NewServeMux(),
		config:  cfg,
		session: sessionManager,
		alerts:  alertChannel,
		clients: clients,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + resetColor
	} else {
		displayMethod = gray + paddedMethod + resetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
