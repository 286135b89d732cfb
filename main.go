package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "fieldbook/internal/config"
	intdb "fieldbook/internal/db"
	"fieldbook/internal/gateway"
	router "fieldbook/internal/http"
	"fieldbook/internal/services"

	"github.com/gin-gonic/gin"
)

const sweepInterval = 5 * time.Minute

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	if err := intdb.Bootstrap(db); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	// One gateway client for the process lifetime, injected everywhere.
	gw := gateway.NewStripeGateway(env.StripeSecretKey)

	r := router.NewRouter(env, gw)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runAnomalySweep(sweepCtx, gw, env)

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}

// runAnomalySweep periodically repairs bookings whose payment settled
// but whose status write was lost.
func runAnomalySweep(ctx context.Context, gw gateway.PaymentGateway, env intconfig.Env) {
	svc := services.PaymentService{Gateway: gw, ClientURL: env.ClientURL, RequestID: "sweep"}
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := svc.SweepAnomalies(ctx); err != nil {
				log.Printf("[PAYMENT] action=sweep_error msg=%v", err)
			} else if n > 0 {
				log.Printf("[PAYMENT] action=sweep repaired=%d", n)
			}
		}
	}
}
