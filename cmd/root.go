package cmd

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/playlytics/cachecore/core/config"
	"github.com/playlytics/cachecore/pkg/utils"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cachecore",
	Short: "Read-through analytics cache service",
	Long: `cachecore sits in front of expensive analytics/ML computations and serves
previously computed results from a Valkey/Redis-compatible store, with
computed-key lookup and pattern-based invalidation.`,
}

func init() {
	// Load .env before anything reads the environment
	utils.LoadConfig(".")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load configuration: %v", err)
	}

	initFlags(cfg)
	cobra.OnInitialize(initEnvConfig, initLogger)
}

func initFlags(cfg *config.Config) {
	rootCmd.PersistentFlags().StringVarP(
		&cfg.App.Port,
		"port", "p",
		cfg.App.Port,
		"change port number with --port <number> | example: --port=8080",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&cfg.App.Debug,
		"debug", "d",
		cfg.App.Debug,
		"hide or displaying log with --debug <true/false> | example: --debug=true",
	)
	rootCmd.PersistentFlags().StringSliceVarP(
		&cfg.App.BasicAuth,
		"basic-auth", "b",
		cfg.App.BasicAuth,
		"basic auth credential | -b=yourUsername:yourPassword",
	)
	rootCmd.PersistentFlags().StringVarP(
		&cfg.Valkey.Address,
		"valkey-address", "",
		cfg.Valkey.Address,
		`valkey/redis address --valkey-address <host:port> | example: --valkey-address="localhost:6379"`,
	)
	rootCmd.PersistentFlags().StringVarP(
		&cfg.Valkey.KeyPrefix,
		"key-prefix", "",
		cfg.Valkey.KeyPrefix,
		`namespace prefix applied to every cache key --key-prefix <string> | example: --key-prefix="mlcache"`,
	)
}

// initEnvConfig applies viper-visible settings on top of the loaded config.
func initEnvConfig() {
	viper.AutomaticEnv()

	if envPort := viper.GetString("app_port"); envPort != "" {
		config.Global.App.Port = envPort
	}
	if viper.IsSet("app_debug") {
		config.Global.App.Debug = viper.GetBool("app_debug")
	}
	envBasicAuth := viper.GetString("app_basic_auth")
	if envBasicAuth == "" {
		envBasicAuth = os.Getenv("APP_BASIC_AUTH")
	}
	if envBasicAuth != "" {
		config.Global.App.BasicAuth = strings.Split(envBasicAuth, ",")
	}
	if envAddress := viper.GetString("valkey_address"); envAddress != "" {
		config.Global.Valkey.Address = envAddress
	}
}

func initLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	if config.Global.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
