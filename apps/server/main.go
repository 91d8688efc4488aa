package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/auth"
	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/gateway"
	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/ledger"
	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/lobby"
	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/table"
)

const defaultListenAddr = ":55556"

func main() {
	authService, authMode, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init auth manager: %v", err)
	}
	if authService != nil {
		defer authService.Close()
	}
	ledgerService, ledgerMode, err := ledger.NewServiceFromEnv(authMode)
	if err != nil {
		log.Fatalf("[Server] Failed to init history service: %v", err)
	}
	defer ledgerService.Close()

	gw := gateway.New(authService)
	lby := lobby.New(tableConfigFromEnv(), gw.SendToSeat, ledgerService)
	gw.SetLobby(lby)

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			lby.ReapIdleTables(10 * time.Minute)
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.HandleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if authService != nil {
		auth.NewHTTPHandler(authService).RegisterRoutes(mux)
	}
	ledger.NewHTTPHandler(authService, ledgerService).RegisterRoutes(mux)

	addr := listenAddrFromEnv()
	log.Printf("[Server] Auth mode: %s", authMode)
	log.Printf("[Server] History mode: %s", ledgerMode)
	log.Printf("[Server] Starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

func listenAddrFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		return v
	}
	return defaultListenAddr
}

func tableConfigFromEnv() table.TableConfig {
	return table.TableConfig{
		TotalDeals:    envIntOrDefault("TOTAL_DEALS", 16),
		MinHumanSeats: envIntOrDefault("MIN_HUMAN_SEATS", 1),
		Seed:          int64(envIntOrDefault("DEAL_SEED", 0)),
	}
}

func envIntOrDefault(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
