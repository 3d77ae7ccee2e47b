package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/devnazarchuk/depity-hr-sub000/internal"
	"github.com/devnazarchuk/depity-hr-sub000/internal/appstate"
	"github.com/devnazarchuk/depity-hr-sub000/internal/auth"
	"github.com/devnazarchuk/depity-hr-sub000/internal/rbac"
	"github.com/devnazarchuk/depity-hr-sub000/internal/storage"
	"github.com/devnazarchuk/depity-hr-sub000/internal/storage/postgres"
	"github.com/devnazarchuk/depity-hr-sub000/internal/storage/sqlite"
	"github.com/devnazarchuk/depity-hr-sub000/pkg/logger"
)

var (
	loginEmail    string
	loginPassword string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Log in and print the scoped dashboard snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDashboard(); err != nil {
			fmt.Fprintf(os.Stderr, "dashboard: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&loginEmail, "email", "", "login email")
	dashboardCmd.Flags().StringVar(&loginPassword, "password", "", "login password")
	_ = dashboardCmd.MarkFlagRequired("email")
	_ = dashboardCmd.MarkFlagRequired("password")
}

func runDashboard() error {
	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.LoggerWrapper()

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	state, err := buildState(cfg, store, log)
	if err != nil {
		return err
	}
	sessions := state.Sessions()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions.Start(ctx)
	defer sessions.Stop()

	if err := sessions.Login(loginEmail, loginPassword); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer sessions.Logout()

	actor := sessions.CurrentUser()
	stats := state.Stats()

	fmt.Printf("Signed in as %s (%s, %s)\n", actor.Name, actor.Role, actor.Department)
	fmt.Printf("Session time left: %s\n", sessions.TimeLeft().Round(time.Second))
	fmt.Printf("Users visible: %d (active %d, pending %d, new this week %d)\n",
		stats.TotalUsers, stats.ActiveUsers, stats.PendingUsers, stats.NewThisWeek)
	fmt.Printf("Documents: %d (starred %d)\n", stats.Documents, stats.StarredDocuments)
	fmt.Printf("Onboarding: %d open, %d done\n", stats.OnboardingOpen, stats.OnboardingDone)
	return nil
}

func buildState(cfg *internal.Config, store storage.Store, log *slog.Logger) (*appstate.State, error) {
	accessSecret := cfg.Session.AccessTokenSecret
	refreshSecret := cfg.Session.RefreshTokenSecret
	if accessSecret == "" {
		// per-process secret: restored sessions from earlier runs will be
		// dropped, which only costs a re-login
		var err error
		accessSecret, err = auth.GenerateRandomSecret()
		if err != nil {
			return nil, err
		}
	}
	if refreshSecret == "" {
		var err error
		refreshSecret, err = auth.GenerateRandomSecret()
		if err != nil {
			return nil, err
		}
	}

	creds := auth.NewStoreCredentials(store, log)
	directory := auth.NewStoreDirectory(store, log)
	tokens := auth.NewJWTTokenGenerator(accessSecret, refreshSecret)

	sessions := auth.NewManager(creds, directory, tokens, store, log)
	// config values seed the settings on first run only; once the user
	// has saved their own preferences those win across restarts
	if _, ok, _ := store.Read(storage.KeySettings); !ok {
		sessions.UpdateSettings(auth.SettingsPatch{
			SessionTimeoutMinutes: &cfg.Session.TimeoutMinutes,
			AutoRefresh:           &cfg.Session.AutoRefresh,
			ShowSessionTimer:      &cfg.Session.ShowSessionTimer,
		})
	}

	return appstate.New(rbac.NewCatalog(), rbac.NewResolver(), sessions, creds, store, log), nil
}

func openStore(cfg *internal.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return sqlite.Open(cfg.Storage.Path)
	case "postgres":
		return postgres.Open(cfg.Storage.Source)
	default:
		return storage.NewMemory(), nil
	}
}
