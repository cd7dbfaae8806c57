// Package main is the entry point for the Dominion game server. It only
// handles dependency injection and server initialization; no game rules
// belong here.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dominionboardgame/server/internal/content"
	"github.com/dominionboardgame/server/internal/engine"
	"github.com/dominionboardgame/server/internal/events"
	"github.com/dominionboardgame/server/internal/infra/archive"
	"github.com/dominionboardgame/server/internal/infra/cache"
	"github.com/dominionboardgame/server/internal/infra/storage"
	"github.com/dominionboardgame/server/internal/network"
	"github.com/dominionboardgame/server/internal/platform/logger"
	"github.com/dominionboardgame/server/internal/platform/metrics"
	"github.com/dominionboardgame/server/internal/platform/optimization"
)

// persisterAdapter translates audit-log events to storage rows.
type persisterAdapter struct {
	repo storage.EventRepository
}

func (a *persisterAdapter) Append(event events.GameEvent) error {
	var payloadMap map[string]interface{}
	if event.Payload != nil {
		payloadBytes, _ := json.Marshal(event.Payload)
		json.Unmarshal(payloadBytes, &payloadMap)
	}

	start := time.Now()
	err := a.repo.Append(context.Background(), storage.GameEvent{
		ID:        event.ID,
		GameID:    event.GameID,
		Timestamp: event.Timestamp,
		EventType: string(event.Type),
		ActorID:   event.ActorID,
		Turn:      event.Turn,
		Payload:   payloadMap,
	})
	metrics.Get().RecordEventWrite(time.Since(start), err)
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// createGameRequest is the payload of POST /api/games/create.
type createGameRequest struct {
	GameID  string `json:"game_id"`
	Seed    int64  `json:"seed"`
	Players []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"players"`
}

func main() {
	appLogger := logger.NewLogger()
	appLogger.Info("Initializing Dominion authoritative server...")

	opt := optimization.DefaultConfig()

	dataDir := envOr("DATA_DIR", "data")
	bundle, err := content.Load(dataDir)
	if err != nil {
		appLogger.Error("Failed to load content bundle: " + err.Error())
		os.Exit(1)
	}
	if err := bundle.Validate(); err != nil {
		appLogger.Error("Content bundle invalid: " + err.Error())
		os.Exit(1)
	}
	appLogger.Info("Content bundle loaded from " + dataDir)

	// Event persistence: Postgres when DATABASE_URL is set, embedded
	// SQLite otherwise. The snapshot tables exist only on the SQLite
	// path; Postgres deployments rebuild state by replaying events.
	var db *sql.DB
	var eventRepo storage.EventRepository
	var snapRepo storage.SnapshotRepository
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		appLogger.Info("Connecting to Postgres event store...")
		db, err = storage.InitPostgres(dbURL)
		if err != nil {
			appLogger.Error("Failed to initialize Postgres: " + err.Error())
			os.Exit(1)
		}
		eventRepo = storage.NewPostgresEventRepository(db)
	} else {
		dbPath := envOr("DB_PATH", "dominion.db")
		appLogger.Info("Initializing SQLite database " + dbPath + "...")
		db, err = storage.InitSQLite(dbPath)
		if err != nil {
			appLogger.Error("Failed to initialize SQLite: " + err.Error())
			os.Exit(1)
		}
		eventRepo = storage.NewSQLiteEventRepository(db)
		snapRepo = storage.NewSQLiteSnapshotRepository(db)
	}
	db.SetMaxOpenConns(opt.DBMaxOpenConns)
	db.SetMaxIdleConns(opt.DBMaxIdleConns)
	defer db.Close()

	eventLog := events.NewEventLog(&persisterAdapter{repo: eventRepo})
	reconstructor := storage.NewReconstructor(eventRepo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var snapCache *cache.SnapshotCache
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client, err := cache.NewRedisClient(ctx, addr)
		if err != nil {
			appLogger.Warn("Redis unavailable, running without snapshot cache: " + err.Error())
		} else {
			snapCache = cache.NewSnapshotCache(client)
			appLogger.Info("Snapshot cache connected at " + addr)
		}
	}

	archiveStore, err := archive.NewStore(envOr("ARCHIVE_DIR", "archive"))
	if err != nil {
		appLogger.Error("Failed to initialize archive store: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, eventLog)

	rooms := network.NewRegistry()
	if snapRepo != nil {
		resumeGames(ctx, rooms, snapRepo, snapCache, eventRepo, reconstructor, bundle, hub, eventLog, appLogger)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		network.ServeWS(hub, rooms, w, r)
	})

	mux.HandleFunc("/api/games/create", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req createGameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if req.GameID == "" || len(req.Players) < 2 {
			http.Error(w, "Need game_id and at least 2 players", http.StatusBadRequest)
			return
		}
		if req.Seed == 0 {
			req.Seed = time.Now().UnixNano()
		}
		seats := make([]engine.Seat, 0, len(req.Players))
		for _, p := range req.Players {
			seats = append(seats, engine.Seat{ID: p.ID, Name: p.Name})
		}

		room, err := network.NewRoom(req.GameID, req.Seed, bundle, seats, hub, eventLog, appLogger)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		room.SetPersistence(snapRepo, snapCache)
		if err := rooms.Add(room); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		appLogger.Event("GAME_CREATED", "", "GameID:"+req.GameID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"game_id": req.GameID,
			"seed":    req.Seed,
			"players": len(seats),
		})
	})

	replayHandler := network.NewReplayHandler(eventLog, reconstructor, archiveStore, appLogger)
	replayHandler.RegisterRoutes(mux)

	spectator := network.NewSpectatorBridge(rooms, hub, appLogger)
	spectator.RegisterRoutes(mux)

	mux.HandleFunc("/metrics", metrics.Handler())
	mux.HandleFunc("/metrics/prometheus", metrics.PrometheusHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := envOr("ADDR", ":8080")
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		appLogger.Info("Server listening on " + addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed: " + err.Error())
			cancel()
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down...")
	archiveFinishedGames(rooms, eventLog, archiveStore, appLogger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Graceful shutdown failed: " + err.Error())
	}
	eventLog.Close()
	cancel()
	appLogger.Info("Server stopped.")
}

// resumeGames rebuilds every unfinished match found in the snapshot
// tables. The seat order comes from the PLAYER_JOINED events and the
// command script from the applied-command ledger; replaying both against
// the recorded seed restores the exact pre-shutdown state.
func resumeGames(ctx context.Context, rooms *network.Registry, snapRepo storage.SnapshotRepository, snapCache *cache.SnapshotCache, eventRepo storage.EventRepository, rec *storage.Reconstructor, bundle *content.Bundle, hub *network.Hub, eventLog *events.EventLog, appLogger *logger.Logger) {
	records, err := snapRepo.ListGames(ctx)
	if err != nil {
		appLogger.Warn("Could not list games for resume: " + err.Error())
		return
	}
	for _, record := range records {
		if record.Winner != "" {
			continue
		}

		joined, err := eventRepo.GetByEventType(ctx, record.GameID, string(events.EventTypePlayerJoined))
		if err != nil || len(joined) < 2 {
			appLogger.Warn("Skipping resume of " + record.GameID + ": seat order unavailable")
			continue
		}
		seats := make([]engine.Seat, 0, len(joined))
		for _, e := range joined {
			name, _ := e.Payload["name"].(string)
			seats = append(seats, engine.Seat{ID: e.ActorID, Name: name})
		}

		script, err := rec.CommandScript(ctx, record.GameID)
		if err != nil {
			appLogger.Warn("Skipping resume of " + record.GameID + ": " + err.Error())
			continue
		}

		room, err := network.ResumeRoom(record.GameID, record.Seed, bundle, seats, script, hub, eventLog, appLogger)
		if err != nil {
			appLogger.Error("Failed to resume game " + record.GameID + ": " + err.Error())
			continue
		}
		room.SetPersistence(snapRepo, snapCache)
		if err := rooms.Add(room); err != nil {
			appLogger.Warn("Could not register resumed game " + record.GameID + ": " + err.Error())
		}
	}
}

// archiveFinishedGames writes the compressed history of every finished
// match to the archive store before the process exits.
func archiveFinishedGames(rooms *network.Registry, eventLog *events.EventLog, store *archive.Store, appLogger *logger.Logger) {
	for _, id := range rooms.IDs() {
		room, ok := rooms.Get(id)
		if !ok {
			continue
		}
		snap := room.Snapshot()
		if snap.Winner == "" {
			continue
		}
		history := eventLog.GetByGame(id)
		players := make([]string, 0, len(snap.Players))
		for _, p := range snap.Players {
			players = append(players, p.ID)
		}
		meta := archive.Meta{
			GameID:     id,
			Seed:       room.Seed(),
			Players:    players,
			Winner:     snap.Winner,
			WinReason:  snap.WinReason,
			Turns:      snap.TotalTurns,
			EventCount: len(history),
		}
		doc := network.ArchiveDocument{Snapshot: snap, Events: history}
		if err := store.Save(meta, doc); err != nil {
			appLogger.Warn("Failed to archive game " + id + ": " + err.Error())
			continue
		}
		appLogger.Info("Archived finished game " + id)
	}
}
