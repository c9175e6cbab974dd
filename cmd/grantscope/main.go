// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the grantscope CLI.
package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/grantscope/internal/httputil"
	"github.com/pdiddy/grantscope/internal/logging"
	"github.com/pdiddy/grantscope/internal/secrets"
	"github.com/pdiddy/grantscope/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// log is the process logger, set up before any subcommand runs.
	log *logrus.Entry = logrus.NewEntry(logrus.StandardLogger())
	// loadedSecrets holds credentials read from the secrets directory.
	loadedSecrets = secrets.Secrets{}
	logCloser     io.Closer
)

// rootCmd is the base command for the grantscope CLI.
var rootCmd = &cobra.Command{
	Use:   "grantscope",
	Short: "Enrich a funder's publication portfolio with abstracts and full texts",
	Long: `grantscope collects the publications a funding agency has funded from
Crossref, resolves their abstracts and open-access full texts from publisher
pages and the vendor content API, cleans the agency's grant registry export,
and clusters grant topics.

Each stage is a subcommand: metadata, enrich, abstract, fulltext, pdf,
clean, and cluster.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := logging.LoadConfig(viper.GetString("log_config"))
		if err != nil {
			return err
		}
		if lvl := viper.GetString("log_level"); lvl != "" {
			cfg.Level = lvl
		}
		entry, closer, err := logging.New(cfg, os.Stderr)
		if err != nil {
			return err
		}
		log, logCloser = entry, closer

		s, err := secrets.Load(viper.GetString("secrets_dir"), log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./grantscope.yaml or ~/.config/grantscope/grantscope.yaml)")
	pf.String("log-config", logging.DefaultConfigFile, "YAML log configuration")
	pf.String("log-level", "", "override the configured log level")
	pf.String("secrets-dir", secrets.DefaultDir, "directory of credential files")
	pf.Duration("timeout", httputil.DefaultTimeout, "per-request HTTP timeout")
	pf.Int("max-retries", 3, "retries on transport errors, 429 and 5xx")
	pf.Float64("rps", 0, "request rate limit across the shared client (0 disables)")

	bindFlags(pf, map[string]string{
		"log_config":               "log-config",
		"log_level":                "log-level",
		"secrets_dir":              "secrets-dir",
		"http.timeout":             "timeout",
		"http.max_retries":         "max-retries",
		"http.requests_per_second": "rps",
	})
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("could not load .env")
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("grantscope")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "grantscope"))
		}
	}

	viper.SetEnvPrefix("GRANTSCOPE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logrus.WithField("path", viper.ConfigFileUsed()).Debug("using config file")
	}
}

// bindFlags binds viper keys to the named flags.
func bindFlags(flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// httpConfig returns the shared HTTP settings.
func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:           viper.GetDuration("http.timeout"),
		UserAgent:         httputil.DefaultUserAgent,
		MaxRetries:        viper.GetInt("http.max_retries"),
		RequestsPerSecond: viper.GetFloat64("http.requests_per_second"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
