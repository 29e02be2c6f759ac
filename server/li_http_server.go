package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
)

type LocationIntelHttpServer struct {
	router          *Router
	muxRouter       *mux.Router
	addr            string
	shutdownTimeout time.Duration
}

func NewLocationIntelHttpServer(router *Router, muxRouter *mux.Router, port int, shutdownTimeout time.Duration) *LocationIntelHttpServer {
	return &LocationIntelHttpServer{
		router:          router,
		muxRouter:       muxRouter,
		addr:            fmt.Sprintf(":%d", port),
		shutdownTimeout: shutdownTimeout,
	}
}

// Start serves until an interrupt or termination signal arrives, then shuts
// down gracefully within the configured timeout.
func (s *LocationIntelHttpServer) Start() {
	s.router.RegisterRoutes()

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.muxRouter,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Println("Starting server on", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down the server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
