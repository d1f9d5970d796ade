package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"wall-service/internal/config"
	"wall-service/internal/logger"
	"wall-service/pkg/wallclient"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const usage = `Usage: wallclient <command> [flags]

Commands:
  login    --mail <mail> --password <password>   log in and join the wall
  watch                                          resume the stored identity and join the wall
  logout                                         log out and forget the stored identity

Flags common to every command:
  --api <url>        REST root (WALL_API_URL)
  --ws <url>         notification endpoint (WALL_WS_URL)
  --identity <path>  identity file (WALL_IDENTITY_FILE)
  --window <dur>     notification display time (WALL_DISPLAY_WINDOW)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func defaultIdentityPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "wall", "identity.json")
}

// newFlagSet declares the flags shared by every command and binds them to v
func newFlagSet(name string, v *viper.Viper) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.String("api", "http://localhost:8080/api/v1", "REST root")
	fs.String("ws", "ws://localhost:8080/api/v1/ws", "notification endpoint")
	fs.String("identity", defaultIdentityPath(), "identity file")
	fs.Duration("window", wallclient.DefaultDisplayWindow, "notification display time")
	fs.String("log-level", "warn", "log level")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }

	v.BindEnv("api", "WALL_API_URL")
	v.BindEnv("ws", "WALL_WS_URL")
	v.BindEnv("identity", "WALL_IDENTITY_FILE")
	v.BindEnv("window", "WALL_DISPLAY_WINDOW")
	v.BindEnv("log-level", "LOG_LEVEL")
	return fs
}

func run(command string, args []string) error {
	v := viper.New()
	fs := newFlagSet(command, v)

	var mail, password *string
	if command == "login" {
		mail = fs.String("mail", "", "account mail")
		password = fs.String("password", "", "account password")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := v.BindPFlags(fs); err != nil {
		return err
	}

	logger.Setup(os.Stderr, config.LogConfig{Level: v.GetString("log-level")}, "wallclient")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := wallclient.NewApp(wallclient.Config{
		APIBaseURL:    v.GetString("api"),
		WSEndpoint:    v.GetString("ws"),
		DisplayWindow: v.GetDuration("window"),
		Store:         wallclient.NewFileIdentityStore(v.GetString("identity")),
		OnStateChange: func(s wallclient.State) {
			slog.Info("Wall channel state changed", "state", s)
		},
	})
	defer app.Close()

	switch command {
	case "login":
		if *mail == "" || *password == "" {
			return errors.New("--mail and --password are required")
		}
		id, err := app.Login(ctx, *mail, *password)
		if err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", id.Username)
		return newConsole(app, os.Stdout).Run(ctx, os.Stdin)

	case "watch":
		id, err := app.Restore(ctx)
		if err != nil {
			return fmt.Errorf("could not resume session, log in again: %w", err)
		}
		if id == nil {
			return errors.New("no stored identity, run: wallclient login")
		}
		fmt.Printf("Welcome back %s (last login %s)\n", id.Username, id.LastLogin.Local().Format(time.DateTime))
		return newConsole(app, os.Stdout).Run(ctx, os.Stdin)

	case "logout":
		store := wallclient.NewFileIdentityStore(v.GetString("identity"))
		id, err := store.Load()
		if err != nil {
			if errors.Is(err, wallclient.ErrNoIdentity) {
				return nil
			}
			return err
		}
		app.API().SetToken(id.Token)
		return app.Logout(ctx)

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
