// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/penny-vault/borsdata/borsdata"
	"github.com/penny-vault/borsdata/pkginfo"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "borsdata",
	Short: "borsdata downloads market data from the Börsdata API as tables",
	Long: `borsdata is a command line utility for the Börsdata market data API
(https://borsdata.se). It downloads instrument metadata, KPIs, financial
reports and stock prices for Nordic instruments and reshapes the JSON the
API returns into tables keyed by instrument id, year and period, or date.

Requests are paced to stay under the API's rate limit. Tables are printed as
markdown or saved as CSV for further analysis.

Run ` + "`borsdata init`" + ` to store your API key, then ` + "`borsdata resources`" + `
for a list of everything that can be downloaded.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := zerolog.ParseLevel(viper.GetString("log.level"))
		if err != nil {
			log.Warn().Err(err).Str("Level", viper.GetString("log.level")).Msg("unknown log level; using info")
			level = zerolog.InfoLevel
		}
		zerolog.SetGlobalLevel(level)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.borsdata.toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("api-key", "", "Börsdata API key")
	rootCmd.PersistentFlags().Float64("calls-per-second", borsdata.DefaultCallsPerSecond, "maximum number of API calls per second")

	bindFlag("log.level", rootCmd, "log-level")
	bindFlag("api_key", rootCmd, "api-key")
	bindFlag("calls_per_second", rootCmd, "calls-per-second")

	addOutputFlags(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetDefault("base_url", borsdata.DefaultBaseURL)
	viper.SetDefault("calls_per_second", borsdata.DefaultCallsPerSecond)
	viper.SetDefault("timeout", borsdata.DefaultTimeout)
	viper.SetDefault("max_year_count", borsdata.DefaultCaps.MaxYearCount)
	viper.SetDefault("max_r12q_count", borsdata.DefaultCaps.MaxR12QCount)
	viper.SetDefault("max_count", borsdata.DefaultCaps.MaxCount)

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".borsdata" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".borsdata")
	}

	// BORSDATA_API_KEY, BORSDATA_LOG_LEVEL, ...
	viper.SetEnvPrefix("borsdata")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("ConfigFN", viper.ConfigFileUsed()).Msg("Using config file")
	}
}

func newClient() *borsdata.Client {
	apiKey := viper.GetString("api_key")
	if apiKey == "" {
		log.Fatal().Msg("no API key configured; run `borsdata init` or set BORSDATA_API_KEY")
	}

	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = borsdata.DefaultTimeout
	}

	httpClient := resty.New().SetHeader("User-Agent", pkginfo.UserAgent())

	client := borsdata.New(apiKey,
		borsdata.WithHTTPClient(httpClient),
		borsdata.WithBaseURL(viper.GetString("base_url")),
		borsdata.WithCallsPerSecond(viper.GetFloat64("calls_per_second")),
		borsdata.WithTimeout(timeout),
		borsdata.WithDefaults(borsdata.Defaults{
			MaxYearCount: viper.GetInt("max_year_count"),
			MaxR12QCount: viper.GetInt("max_r12q_count"),
			MaxCount:     viper.GetInt("max_count"),
		}),
		borsdata.WithLogger(log.Logger),
	)

	caps := client.Defaults()
	log.Debug().Int("MaxYearCount", caps.MaxYearCount).Int("MaxR12QCount", caps.MaxR12QCount).
		Int("MaxCount", caps.MaxCount).Dur("Interval", client.Pacer().Interval()).Msg("configured client")

	return client
}

func bindFlag(key string, cmd *cobra.Command, name string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(name)); err != nil {
		log.Panic().Err(err).Str("Flag", name).Msg("BindPFlag failed")
	}
}
