/*
 * Nuts bankid
 * Copyright (C) 2020. Nuts community
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nuts-foundation/nuts-bankid/configuration"
	"github.com/nuts-foundation/nuts-bankid/engine"
	"github.com/nuts-foundation/nuts-bankid/logging"
)

const confFile = "configfile"

var e = engine.NewBankIDEngine()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := newRootCmd(e).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(e *engine.Engine) *cobra.Command {
	rootCmd := e.Cmd
	flags := rootCmd.PersistentFlags()
	flags.AddFlagSet(e.FlagSet)
	flags.String(confFile, "", "path to a YAML config file, can also be set with BANKID_CONFIGFILE")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v := configuration.NewViper()
		if err := v.BindPFlag(confFile, flags.Lookup(confFile)); err != nil {
			return err
		}
		config, err := configuration.Load(v, flags, v.GetString(confFile))
		if err != nil {
			return err
		}
		*e.Config = *config
		logging.Log().WithField("mode", config.Mode).
			WithField("baseUrl", config.BaseURL).
			WithField("soapUrl", config.SoapURL).
			WithField("strictTLS", config.StrictTLS).
			Debug("Configuration loaded")
		return nil
	}
	return rootCmd
}
