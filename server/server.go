package server

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/spf13/viper"

	"msgboard/db/jsonfile"
	"msgboard/pkg/message"
)

type Server struct {
	router   *mux.Router
	logger   *slog.Logger
	message  message.Repository
	sessions *sessions.CookieStore
	validate *validator.Validate
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// New wires a server around the given message store. The session key signs
// the flash-message cookie; tests pass a fixed key, Run derives one from
// config or generates a throwaway.
func New(store message.Repository, logger *slog.Logger, sessionKey []byte) *Server {
	server := &Server{
		router:   mux.NewRouter(),
		logger:   logger,
		message:  store,
		sessions: sessions.NewCookieStore(sessionKey),
		validate: validator.New(),
	}
	server.RegisterRoutes()
	return server
}

func Run(env *string) {
	viper.SetConfigType("json")

	var level slog.Level
	switch *env {
	case "dev":
		viper.SetConfigName("msgboard_dev")
		level = slog.LevelDebug
	case "prod":
		viper.SetConfigName("msgboard_prod")
		level = slog.LevelInfo
	default:
		viper.SetConfigName("msgboard_staging")
		level = slog.LevelDebug
	}

	viper.AddConfigPath("$HOME/.msgboard")
	viper.AddConfigPath(".")
	viper.SetDefault("dataFile", "data.json")
	viper.SetDefault("listenAddr", "127.0.0.1:8000")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		slog.Warn("No config file found, running on defaults", "error", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	store := jsonfile.NewJSONFile(viper.GetString("dataFile"), logger)
	logger.Info("Using data file", "path", viper.GetString("dataFile"))

	// Without a configured key every restart invalidates outstanding flash
	// cookies, which is harmless for one-shot banners.
	key := []byte(viper.GetString("sessionKey"))
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
	}

	server := New(store, logger, key)

	addr := viper.GetString("listenAddr")
	logger.Info("Starting HTTP server", "addr", addr)
	if err := http.ListenAndServe(addr, server); err != nil {
		logger.Error("HTTP server failed", "error", err)
	}
}
