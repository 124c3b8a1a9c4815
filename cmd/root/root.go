package root

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/denysvitali/swapctl/station"
	"github.com/denysvitali/swapctl/swap"
)

var (
	cfgFile  string
	logLevel string
	cfg      *swap.Config
	client   *swap.Client
	session  *station.Session
	log      = logrus.StandardLogger()
)

var RootCmd = &cobra.Command{
	Use:   "swapctl",
	Short: "swapctl - Staff console for battery-swap stations",
	Long: `swapctl is a command line console for battery-swap station staff.
You can inspect pillars and their slots, browse the warehouse, dock and undock batteries,
transfer stock between stations and resolve failed swaps with manual assist.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setLogLevel(); err != nil {
			return err
		}

		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		if err := initConfig(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		if err := initClient(cmd.Context()); err != nil {
			return fmt.Errorf("unable to initialize client: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/swapctl/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	RootCmd.PersistentFlags().String("staff-id", "", "staff id to act as (overrides session.staff_id)")
	RootCmd.PersistentFlags().String("user-id", "", "user id owning the pillars (overrides session.user_id)")

	viper.BindPFlag("config", RootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", RootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("session.staff_id", RootCmd.PersistentFlags().Lookup("staff-id"))
	viper.BindPFlag("session.user_id", RootCmd.PersistentFlags().Lookup("user-id"))

	// SWAPCTL_SESSION_STAFF_ID and friends
	viper.SetEnvPrefix("SWAPCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func initConfig() error {
	configPath := swap.DefaultConfigPath()

	if cfgFile != "" {
		configPath = cfgFile
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(filepath.Dir(configPath))
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug("No config file found, using defaults and environment variables")
	} else {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
		configPath = viper.ConfigFileUsed()
	}

	var err error
	cfg, err = swap.GetConfigFromFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log.Debug("Config file not found, creating empty config")
		cfg = &swap.Config{}
	}

	overrideString(&cfg.BaseURL, "base_url")
	overrideString(&cfg.Username, "username")
	overrideString(&cfg.Password, "password")
	overrideString(&cfg.Token, "token")
	overrideString(&cfg.Session.UserID, "session.user_id")
	overrideString(&cfg.Session.StaffID, "session.staff_id")
	overrideString(&cfg.Session.StationID, "session.station_id")
	if viper.IsSet("requests_per_second") {
		cfg.RequestsPerSecond = viper.GetFloat64("requests_per_second")
	}
	if viper.IsSet("warehouse.page_size") {
		cfg.Warehouse.PageSize = viper.GetInt("warehouse.page_size")
	}

	cfg.ApplyDefaults()
	return nil
}

// overrideString only applies non-empty values so an unset flag does not wipe the file value.
func overrideString(dst *string, key string) {
	if viper.IsSet(key) {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
}

func initClient(ctx context.Context) error {
	if cfg == nil {
		return fmt.Errorf("configuration not loaded")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	client, err = swap.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create swap client: %w", err)
	}
	client.SetConfigPath(GetConfigPath())

	return client.Init(ctx)
}

func setLogLevel() error {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %s", logLevel)
	}
	log.SetLevel(lvl)
	return nil
}

func Execute() error {
	return RootCmd.Execute()
}

func GetClient() *swap.Client {
	return client
}

func GetConfig() *swap.Config {
	return cfg
}

func GetLogger() *logrus.Logger {
	return log
}

// GetSession returns the operator identifiers. Whatever the config leaves empty is
// taken from the staff profile of the logged-in account.
func GetSession(ctx context.Context) (station.Session, error) {
	if session != nil {
		return *session, nil
	}
	if client == nil || cfg == nil {
		return station.Session{}, fmt.Errorf("swap client not initialized")
	}

	s := station.Session{
		UserID:    cfg.Session.UserID,
		StaffID:   cfg.Session.StaffID,
		StationID: cfg.Session.StationID,
	}
	if s.UserID == "" || s.StaffID == "" || s.StationID == "" {
		profile, err := client.GetProfile(ctx)
		if err != nil {
			return station.Session{}, fmt.Errorf("failed to load staff profile: %w", err)
		}
		log.Debugf("Using staff profile: %+v", profile)
		if s.UserID == "" {
			s.UserID = profile.UserID
		}
		if s.StaffID == "" {
			s.StaffID = profile.StaffID
		}
		if s.StationID == "" {
			s.StationID = profile.StationID
		}
	}
	session = &s
	return s, nil
}

// NewConsole builds the station view for the current session.
func NewConsole(ctx context.Context) (*station.Console, error) {
	s, err := GetSession(ctx)
	if err != nil {
		return nil, err
	}
	return station.NewConsole(client, s, cfg.PillarTTL()), nil
}

func GetConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if viper.ConfigFileUsed() != "" {
		return viper.ConfigFileUsed()
	}
	return swap.DefaultConfigPath()
}
