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

package pkg

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"sync"
	"time"

	gax "github.com/googleapis/gax-go"
	"github.com/goodsign/monday"

	"github.com/nuts-foundation/nuts-bankid/configuration"
	"github.com/nuts-foundation/nuts-bankid/logging"
	"github.com/nuts-foundation/nuts-bankid/pkg/services"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/credentials"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/rest"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/soap"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/visibledata"
)

// CertificateWarningPeriod is how long before expiry the client certificate is reported as NearExpiry
const CertificateWarningPeriod = 30 * 24 * time.Hour

// LegacyConnector connects a SOAP client for a personal number
type LegacyConnector func(ctx context.Context, personalNumber string) (services.LegacyClient, error)

// BankID holds the configuration and the clients of the configured binding
type BankID struct {
	Config configuration.BankIDConfig

	// RelyingParty is the REST client, set by Configure in rest mode
	RelyingParty services.RelyingPartyClient
	// Connector creates SOAP clients, set by Configure in soap mode
	Connector LegacyConnector

	configOnce sync.Once
	configErr  error
}

var instance *BankID
var oneBackend sync.Once

// Instance returns the BankID backend singleton
func Instance() *BankID {
	oneBackend.Do(func() {
		instance = &BankID{
			Config: *configuration.Default(),
		}
	})
	return instance
}

// Configure validates the config and creates the client for the configured mode. Only the first call has effect.
func (b *BankID) Configure() error {
	b.configOnce.Do(func() {
		if err := b.Config.Validate(); err != nil {
			b.configErr = err
			return
		}
		switch b.Config.Mode {
		case configuration.ModeRest:
			if b.RelyingParty != nil {
				return
			}
			client, err := rest.NewClient(&rest.Options{
				PFX:        b.Config.PFX,
				Passphrase: b.Config.Passphrase,
				CA:         b.Config.CA,
				BaseURL:    b.Config.BaseURL,
			})
			if err != nil {
				b.configErr = err
				return
			}
			b.RelyingParty = client
		case configuration.ModeSoap:
			if b.Connector == nil {
				b.Connector = b.connectLegacy
			}
		}
	})
	if b.configErr != nil {
		logging.Log().WithError(b.configErr).Error("Could not configure BankID")
	}
	return b.configErr
}

func (b *BankID) soapOptions() *soap.Options {
	backoff := soap.DefaultCancelBackoff
	if b.Config.CancelBackoff > 0 {
		backoff = gax.Backoff{
			Initial:    b.Config.CancelBackoff,
			Max:        5 * b.Config.CancelBackoff,
			Multiplier: soap.DefaultCancelBackoff.Multiplier,
		}
	}
	return &soap.Options{
		URL:               b.Config.SoapURL,
		Cert:              b.Config.Cert,
		Key:               b.Config.Key,
		Passphrase:        b.Config.Passphrase,
		Insecure:          !b.Config.StrictTLS,
		MaxCancelAttempts: b.Config.CancelMaxAttempts,
		CancelBackoff:     &backoff,
	}
}

func (b *BankID) connectLegacy(ctx context.Context, personalNumber string) (services.LegacyClient, error) {
	client, err := soap.NewClient(b.soapOptions())
	if err != nil {
		return nil, err
	}
	if _, err := client.Connect(ctx, personalNumber); err != nil {
		return nil, err
	}
	return client, nil
}

// REST returns the client of the RP API. It fails when the backend is not configured in rest mode.
func (b *BankID) REST() (services.RelyingPartyClient, error) {
	if err := b.Configure(); err != nil {
		return nil, err
	}
	if b.RelyingParty == nil {
		return nil, fmt.Errorf("%w: REST binding needs mode %s, configured mode is %s", services.ErrConfig, configuration.ModeRest, b.Config.Mode)
	}
	return b.RelyingParty, nil
}

// Legacy returns a SOAP client bound to personalNumber. It fails when the backend is not configured in soap mode.
func (b *BankID) Legacy(ctx context.Context, personalNumber string) (services.LegacyClient, error) {
	if err := b.Configure(); err != nil {
		return nil, err
	}
	if b.Connector == nil {
		return nil, fmt.Errorf("%w: SOAP binding needs mode %s, configured mode is %s", services.ErrConfig, configuration.ModeSoap, b.Config.Mode)
	}
	return b.Connector(ctx, personalNumber)
}

// Locale used for dates in user visible data
func (b *BankID) Locale() monday.Locale {
	locale, err := visibledata.ParseLocale(b.Config.Locale)
	if err != nil {
		return visibledata.DefaultLocale
	}
	return locale
}

// ClientCertificate loads the leaf of the configured client certificate
func (b *BankID) ClientCertificate() (*x509.Certificate, error) {
	var err error
	var pair tls.Certificate
	switch b.Config.Mode {
	case configuration.ModeRest:
		pair, err = credentials.LoadPKCS12(b.Config.PFX, b.Config.Passphrase)
	case configuration.ModeSoap:
		pair, err = credentials.LoadKeyPair(b.Config.Cert, b.Config.Key, b.Config.Passphrase)
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", services.ErrConfig, b.Config.Mode)
	}
	if err != nil {
		return nil, err
	}
	return credentials.Leaf(pair)
}

// CertificateStatus reports the validity of the configured client certificate
func (b *BankID) CertificateStatus() (*x509.Certificate, credentials.ValidityState, error) {
	leaf, err := b.ClientCertificate()
	if err != nil {
		return nil, "", err
	}
	return leaf, credentials.CheckValidity(leaf, CertificateWarningPeriod), nil
}
