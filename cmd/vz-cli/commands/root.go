package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"vzchat-backend/internal/components/telemetry"
	"vzchat-backend/internal/scrapers/vz"
	"vzchat-backend/lib/configutil"
	"vzchat-backend/lib/restyutil"
	"vzchat-backend/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
	// NotifyAddress receives the unread digest of `inbox --notify`.
	NotifyAddress string `json:"notify_address"`
}

type Config struct {
	BaseUrl           string           `json:"base_url"`
	Username          string           `json:"username"`
	Password          string           `json:"password"`
	RequestsPerSecond float64          `json:"requests_per_second"`
	Verbose           bool             `json:"verbose"`
	Telemetry         telemetry.Config `json:"telemetry"`
	Smtp              SmtpConfig       `json:"smtp"`
}

const session_env = "VZ_SESSION"

var (
	configPath   *string
	sessionToken *string
	dumpDir      *string
)

var (
	config    Config
	client    *vz.Client
	providers telemetry.Telemetry
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "vzchat.json5", "The config file, looked up from the working directory upwards.")
	sessionToken = rootCmd.PersistentFlags().String("session", "", fmt.Sprintf("An existing session token, defaults to $%s or a fresh login.", session_env))
	dumpDir = rootCmd.PersistentFlags().String("dump", "", "Write every http exchange into this directory (it is emptied first).")
}

var rootCmd = &cobra.Command{
	Use:   "vz-cli",
	Short: "vz-cli is a CLI for driving and validating the sexvz.net scraper.",
	// errors are logged once by ExecuteContext
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configutil.ReadRecursively[Config](*configPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
		config = cfg

		telemetry.InitSlog(config.Verbose)

		var tel telemetry.API = telemetry.SlogAPI{}
		if config.Telemetry.Enabled() {
			providers, err = telemetry.Setup(cmd.Context(), "vz-cli", config.Telemetry)
			if err != nil {
				return fmt.Errorf("setup telemetry: %w", err)
			}
			otelApi, err := telemetry.NewOtelAPI(tel)
			if err != nil {
				return fmt.Errorf("setup telemetry: %w", err)
			}
			tel = otelApi
		}

		opts := vz.ClientOptions{
			BaseUrl:           config.BaseUrl,
			RequestsPerSecond: config.RequestsPerSecond,
		}
		if *dumpDir != "" {
			output, err := restyutil.NewFilesystemOutput(*dumpDir)
			if err != nil {
				return fmt.Errorf("create dump directory: %w", err)
			}
			opts.Dump = output
		}

		client, err = vz.NewClient(opts, tel)
		if err != nil {
			return fmt.Errorf("create client: %w", err)
		}
		return nil
	},
}

func ExecuteContext(ctx context.Context) {
	if err := execute(ctx, rootCmd); err != nil {
		serviceutil.Fatal("vz-cli", err)
	}
}

// execute runs cmd and flushes telemetry whether or not the command failed.
func execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	flushTelemetry()
	return err
}

func flushTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := providers.Shutdown(ctx); err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}

// resolveSession prefers --session, then $VZ_SESSION, then logs in with the
// configured credentials.
func resolveSession(ctx context.Context) (vz.Session, error) {
	token := *sessionToken
	if token == "" {
		token = os.Getenv(session_env)
	}
	if token != "" {
		return vz.NewSession(token)
	}

	if config.Username == "" || config.Password == "" {
		return vz.Session{}, fmt.Errorf(
			"no session: pass --session, set $%s or configure username and password in %s",
			session_env,
			*configPath,
		)
	}
	slog.Info("logging in", "username", config.Username)
	return client.Login(ctx, config.Username, config.Password)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006 15:04:05")
}
