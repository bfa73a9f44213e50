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

package configuration

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nuts-foundation/nuts-bankid/logging"
	"github.com/nuts-foundation/nuts-bankid/pkg/services"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/visibledata"
)

const (
	ConfMode              = "mode"
	ConfBaseURL           = "baseUrl"
	ConfPFX               = "pfx"
	ConfPassphrase        = "passphrase"
	ConfCA                = "ca"
	ConfSoapURL           = "soapUrl"
	ConfCert              = "cert"
	ConfKey               = "key"
	ConfStrictTLS         = "strictTLS"
	ConfCancelMaxAttempts = "cancelMaxAttempts"
	ConfCancelBackoff     = "cancelBackoff"
	ConfAddress           = "address"
	ConfLocale            = "locale"
)

const (
	// ModeRest selects the RP API v5 binding
	ModeRest = "rest"
	// ModeSoap selects the legacy RP v4 binding
	ModeSoap = "soap"

	// EnvPrefix is the prefix of environment variables, e.g. BANKID_PFX
	EnvPrefix = "BANKID"
)

// BankIDConfig holds the settings of both bindings and the dummy server
type BankIDConfig struct {
	Mode              string        `mapstructure:"mode"`
	BaseURL           string        `mapstructure:"baseUrl"`
	PFX               string        `mapstructure:"pfx"`
	Passphrase        string        `mapstructure:"passphrase"`
	CA                string        `mapstructure:"ca"`
	SoapURL           string        `mapstructure:"soapUrl"`
	Cert              string        `mapstructure:"cert"`
	Key               string        `mapstructure:"key"`
	StrictTLS         bool          `mapstructure:"strictTLS"`
	CancelMaxAttempts int           `mapstructure:"cancelMaxAttempts"`
	CancelBackoff     time.Duration `mapstructure:"cancelBackoff"`
	Address           string        `mapstructure:"address"`
	Locale            string        `mapstructure:"locale"`
}

var defaults = map[string]interface{}{
	ConfMode:              ModeRest,
	ConfBaseURL:           "https://appapi2.test.bankid.com/rp/v5.1/",
	ConfPFX:               "",
	ConfPassphrase:        "",
	ConfCA:                "",
	ConfSoapURL:           "https://appapi2.test.bankid.com/rp/v4",
	ConfCert:              "",
	ConfKey:               "",
	ConfStrictTLS:         true,
	ConfCancelMaxAttempts: 10,
	ConfCancelBackoff:     time.Second,
	ConfAddress:           "localhost:1323",
	ConfLocale:            string(visibledata.DefaultLocale),
}

// NewViper returns a viper instance with defaults set that reads BANKID_ prefixed environment variables
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file, binds the flags and unmarshals the result.
// Precedence: flags, environment, file, defaults.
func Load(v *viper.Viper, flags *pflag.FlagSet, file string) (*BankIDConfig, error) {
	if file != "" {
		logging.Log().Infof("Loading config from %s", file)
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: could not read %s: %v", services.ErrConfig, file, err)
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	config := &BankIDConfig{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrConfig, err)
	}
	return config, nil
}

// LoadFromFile loads <path>/<filename>.yaml on top of the defaults
func LoadFromFile(path, filename string) (*BankIDConfig, error) {
	v := NewViper()
	v.AddConfigPath(path)
	v.SetConfigName(filename)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return Load(v, nil, "")
}

// Default returns the configuration with only defaults and environment applied
func Default() *BankIDConfig {
	config, err := Load(NewViper(), nil, "")
	if err != nil {
		logging.Log().WithError(err).Error("Could not load default configuration")
		return &BankIDConfig{}
	}
	return config
}

// Validate checks the settings needed by the configured mode
func (config BankIDConfig) Validate() error {
	var missing []string
	require := func(key, value string) {
		if value == "" {
			missing = append(missing, key)
		}
	}

	switch config.Mode {
	case ModeRest:
		require(ConfBaseURL, config.BaseURL)
		require(ConfPFX, config.PFX)
		require(ConfPassphrase, config.Passphrase)
	case ModeSoap:
		require(ConfSoapURL, config.SoapURL)
		require(ConfCert, config.Cert)
		require(ConfKey, config.Key)
	default:
		return fmt.Errorf("%w: unknown mode %q, use %s or %s", services.ErrConfig, config.Mode, ModeRest, ModeSoap)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s for mode %s", services.ErrConfig, strings.Join(missing, ", "), config.Mode)
	}

	if config.CancelMaxAttempts <= 0 {
		return fmt.Errorf("%w: %s must be positive", services.ErrConfig, ConfCancelMaxAttempts)
	}
	if _, err := visibledata.ParseLocale(config.Locale); err != nil {
		return fmt.Errorf("%w: %v", services.ErrConfig, err)
	}
	return nil
}

// IsConfigError tells if err comes from loading or validating the configuration
func IsConfigError(err error) bool {
	return errors.Is(err, services.ErrConfig)
}
