package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/vetcare/portal/alerts"
	"github.com/vetcare/portal/api"
	"github.com/vetcare/portal/appointments"
	"github.com/vetcare/portal/internal/config"
	"github.com/vetcare/portal/owners"
	"github.com/vetcare/portal/patients"
	"github.com/vetcare/portal/server"
	"github.com/vetcare/portal/session"
	"github.com/vetcare/portal/tokens"
	"github.com/vetcare/portal/users"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running portal: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Portal stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	store, err := tokens.NewFileStore(c.GetDataFolder())
	if err != nil {
		return fmt.Errorf("tokens.NewFileStore: %w", err)
	}

	client, err := api.New(c.GetAPIBaseURL(), store, api.WithTimeout(c.GetRequestTimeout()))
	if err != nil {
		return fmt.Errorf("api.New: %w", err)
	}

	sessionManager, err := session.NewManager(client, store)
	if err != nil {
		return fmt.Errorf("session.NewManager: %w", err)
	}

	// Restore any persisted session before taking traffic. A dead backend
	// degrades to anonymous rather than blocking startup.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), c.GetRequestTimeout())
	defer cancelLoad()
	if err := sessionManager.LoadSession(loadCtx); err != nil {
		return fmt.Errorf("session.LoadSession: %w", err)
	}

	portal, err := server.New(c, sessionManager, alerts.NewChannel(alerts.WithTTL(c.GetAlertTTL())), server.Clients{
		Owners:       owners.NewClient(client),
		Patients:     patients.NewClient(client),
		Appointments: appointments.NewClient(client),
		Users:        users.NewClient(client),
	})
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: portal}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func listenAndServe(server *http.Server) error {
	log.Printf("Portal listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
