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
	"errors"
	"testing"
	"time"

	"github.com/goodsign/monday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-bankid/configuration"
	"github.com/nuts-foundation/nuts-bankid/pkg/services"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/credentials"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/dummy"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/rest"
	"github.com/nuts-foundation/nuts-bankid/test"
)

func testConfig(mode string) configuration.BankIDConfig {
	config := *configuration.Default()
	config.Mode = mode
	return config
}

func TestInstance(t *testing.T) {
	assert.Same(t, Instance(), Instance())
	assert.Equal(t, configuration.ModeRest, Instance().Config.Mode)
}

func TestBankID_Configure(t *testing.T) {
	creds := test.WriteCredentials(t, nil)

	t.Run("ok - rest", func(t *testing.T) {
		config := testConfig(configuration.ModeRest)
		config.PFX = creds.PFX
		config.Passphrase = test.Passphrase
		config.BaseURL = "https://localhost/rp/v5.1"
		b := &BankID{Config: config}

		client, err := b.REST()
		require.NoError(t, err)
		assert.Equal(t, "https://localhost/rp/v5.1/", client.(*rest.Client).BaseURL())

		_, err = b.Legacy(context.Background(), "198605082695")
		assert.True(t, errors.Is(err, services.ErrConfig))
	})

	t.Run("nok - invalid config is reported on every call", func(t *testing.T) {
		b := &BankID{Config: testConfig("grpc")}
		assert.True(t, errors.Is(b.Configure(), services.ErrConfig))

		b.Config.Mode = configuration.ModeRest
		_, err := b.REST()
		assert.True(t, errors.Is(err, services.ErrConfig))
	})

	t.Run("nok - unreadable pfx", func(t *testing.T) {
		config := testConfig(configuration.ModeRest)
		config.PFX = creds.PFX
		config.Passphrase = "wrong"
		b := &BankID{Config: config}

		assert.Error(t, b.Configure())
	})
}

func TestBankID_Legacy(t *testing.T) {
	d := dummy.New()
	server := test.NewMutualTLSServer(d.Echo())
	defer server.Close()
	creds := test.WriteCredentials(t, server)

	config := testConfig(configuration.ModeSoap)
	config.SoapURL = server.URL + dummy.SoapPath
	config.Cert = creds.Cert
	config.Key = creds.Key
	config.Passphrase = test.Passphrase
	config.StrictTLS = false

	t.Run("ok - connect and authenticate", func(t *testing.T) {
		b := &BankID{Config: config}
		client, err := b.Legacy(context.Background(), "198605082695")
		require.NoError(t, err)

		result, err := client.Authenticate(context.Background())
		require.NoError(t, err)
		assert.NotEmpty(t, result.OrderRef)

		_, err = b.REST()
		assert.True(t, errors.Is(err, services.ErrConfig))
	})

	t.Run("nok - strict TLS", func(t *testing.T) {
		strict := config
		strict.StrictTLS = true
		b := &BankID{Config: strict}
		_, err := b.Legacy(context.Background(), "198605082695")
		assert.Error(t, err)
	})

	t.Run("nok - no personal number", func(t *testing.T) {
		b := &BankID{Config: config}
		_, err := b.Legacy(context.Background(), "")
		assert.True(t, errors.Is(err, services.ErrConfig))
	})
}

func TestBankID_soapOptions(t *testing.T) {
	config := testConfig(configuration.ModeSoap)
	config.StrictTLS = false
	config.CancelMaxAttempts = 4
	config.CancelBackoff = 100 * time.Millisecond
	options := (&BankID{Config: config}).soapOptions()

	assert.True(t, options.Insecure)
	assert.Equal(t, 4, options.MaxCancelAttempts)
	assert.Equal(t, 100*time.Millisecond, options.CancelBackoff.Initial)
	assert.Equal(t, 500*time.Millisecond, options.CancelBackoff.Max)
}

func TestBankID_Locale(t *testing.T) {
	b := &BankID{Config: testConfig(configuration.ModeRest)}
	assert.Equal(t, monday.Locale(monday.LocaleSvSE), b.Locale())

	b.Config.Locale = "en_US"
	assert.Equal(t, monday.Locale(monday.LocaleEnUS), b.Locale())

	b.Config.Locale = "xx_XX"
	assert.Equal(t, monday.Locale(monday.LocaleSvSE), b.Locale())
}

func TestBankID_CertificateStatus(t *testing.T) {
	creds := test.WriteCredentials(t, nil)

	t.Run("ok - near expiry", func(t *testing.T) {
		config := testConfig(configuration.ModeRest)
		config.PFX = creds.PFX
		config.Passphrase = test.Passphrase
		credentials.NowFunc = func() time.Time {
			return creds.Identity.Certificate.NotAfter.Add(-time.Minute)
		}
		defer func() {
			credentials.NowFunc = time.Now
		}()

		leaf, state, err := (&BankID{Config: config}).CertificateStatus()
		require.NoError(t, err)
		assert.Equal(t, "FP Testcert 2", leaf.Subject.CommonName)
		assert.Equal(t, credentials.NearExpiry, state)
	})

	t.Run("nok - unknown mode", func(t *testing.T) {
		_, _, err := (&BankID{Config: testConfig("grpc")}).CertificateStatus()
		assert.True(t, errors.Is(err, services.ErrConfig))
	})
}
