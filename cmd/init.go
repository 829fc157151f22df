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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/penny-vault/borsdata/borsdata"
)

// Config is the layout of $HOME/.borsdata.toml.
type Config struct {
	APIKey         string    `toml:"api_key"`
	BaseURL        string    `toml:"base_url"`
	CallsPerSecond float64   `toml:"calls_per_second"`
	Timeout        string    `toml:"timeout"`
	MaxYearCount   int       `toml:"max_year_count"`
	MaxR12QCount   int       `toml:"max_r12q_count"`
	MaxCount       int       `toml:"max_count"`
	Log            LogConfig `toml:"log"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func positiveNumber(s string) error {
	n, err := cast.ToFloat64E(s)
	if err != nil {
		return errors.New("must be a number")
	}
	if n <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Save your API key and request limits to the config file",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			confirmed bool

			apiKey         string
			callsPerSecond = cast.ToString(borsdata.DefaultCallsPerSecond)
			maxYearCount   = cast.ToString(borsdata.DefaultCaps.MaxYearCount)
			maxR12QCount   = cast.ToString(borsdata.DefaultCaps.MaxR12QCount)
			maxCount       = cast.ToString(borsdata.DefaultCaps.MaxCount)
		)

		form := huh.NewForm(
			// Authentication
			huh.NewGroup(
				huh.NewInput().
					Title("Enter your Börsdata API key:").
					Password(true).
					Value(&apiKey).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("an API key is required")
						}
						return nil
					}),
			),

			// Request limits
			huh.NewGroup(
				huh.NewInput().
					Title("What is the maximum number of requests per second?").
					Value(&callsPerSecond).
					Validate(positiveNumber),
				huh.NewInput().
					Title("How many years of history should be requested by default?").
					Value(&maxYearCount).
					Validate(positiveNumber),
				huh.NewInput().
					Title("How many quarters (and R12 periods) should be requested by default?").
					Value(&maxR12QCount).
					Validate(positiveNumber),
				huh.NewInput().
					Title("How many rows should other history requests return by default?").
					Value(&maxCount).
					Validate(positiveNumber),
			),
		)

		err := form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("error gathering settings")
		}

		config := &Config{
			APIKey:         strings.TrimSpace(apiKey),
			BaseURL:        borsdata.DefaultBaseURL,
			CallsPerSecond: cast.ToFloat64(callsPerSecond),
			Timeout:        borsdata.DefaultTimeout.String(),
			MaxYearCount:   cast.ToInt(maxYearCount),
			MaxR12QCount:   cast.ToInt(maxR12QCount),
			MaxCount:       cast.ToInt(maxCount),
			Log:            LogConfig{Level: "info"},
		}

		// Print configuration summary
		{
			var sb strings.Builder
			keyword := func(s string) string {
				return lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(s)
			}

			fmt.Fprintf(&sb,
				"%s\n\nAPI Key: %s\nRequests/second: %s\nMax years: %s\nMax quarters/R12: %s\nMax rows: %s\n",
				lipgloss.NewStyle().Bold(true).Render("BÖRSDATA CONFIGURATION"),
				keyword(maskKey(config.APIKey)),
				keyword(cast.ToString(config.CallsPerSecond)),
				keyword(cast.ToString(config.MaxYearCount)),
				keyword(cast.ToString(config.MaxR12QCount)),
				keyword(cast.ToString(config.MaxCount)),
			)

			fmt.Println(
				lipgloss.NewStyle().
					Width(60).
					BorderStyle(lipgloss.RoundedBorder()).
					BorderForeground(lipgloss.Color("63")).
					Padding(1, 2).
					Render(sb.String()),
			)
		}

		confirmForm := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Save configuration?").
					Value(&confirmed),
			),
		)

		if err := confirmForm.Run(); err != nil {
			log.Fatal().Err(err).Msg("failed to create wizard")
		}

		if !confirmed {
			log.Info().Msg("Not saving configuration")
			return
		}

		configFN := cfgFile
		if configFN == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				log.Fatal().Err(err).Msg("could not determine user home directory")
			}
			configFN = filepath.Join(home, ".borsdata.toml")
		}

		log.Info().Str("ConfigFile", configFN).Msg("Saving configuration to file")
		configData, err := toml.Marshal(config)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		// the file holds the API key
		err = os.WriteFile(configFN, configData, 0600)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("borsdata has been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
