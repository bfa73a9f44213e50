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

package soap

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	gax "github.com/googleapis/gax-go"
	"golang.org/x/net/context/ctxhttp"

	"github.com/nuts-foundation/nuts-bankid/logging"
	"github.com/nuts-foundation/nuts-bankid/pkg/services"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/credentials"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/soap/envelope"
)

// DefaultMaxCancelAttempts is used when Options.MaxCancelAttempts is not set
const DefaultMaxCancelAttempts = 10

// DefaultCancelBackoff is used when Options.CancelBackoff is not set
var DefaultCancelBackoff = gax.Backoff{
	Initial:    time.Second,
	Max:        5 * time.Second,
	Multiplier: 1.5,
}

// Options holds the connection settings of the legacy RP v4 service
type Options struct {
	// URL of the service, the WSDL is fetched from URL?wsdl
	URL string
	// Cert is the path to the PEM encoded relying party certificate
	Cert string
	// Key is the path to the PEM encoded private key, it may be encrypted
	Key string
	// Passphrase of the private key
	Passphrase string
	// Insecure turns off strict TLS: the certificate of the server is not verified
	Insecure bool
	// MaxCancelAttempts caps the number of calls made by CancelAuthenticate and CancelSign
	MaxCancelAttempts int
	// CancelBackoff is the pause between two cancel attempts
	CancelBackoff *gax.Backoff
}

// Client is the legacy SOAP binding. Connect must be called before any other operation.
type Client struct {
	options Options

	mutex          sync.RWMutex
	conn           *Conn
	personalNumber string
}

// Conn is the live channel to the SOAP service
type Conn struct {
	// Endpoint is the address taken from the WSDL
	Endpoint    string
	Definitions *envelope.Definitions
	httpClient  *http.Client
}

var _ services.LegacyClient = (*Client)(nil)

// NewClient returns an unconnected client
func NewClient(options *Options) (*Client, error) {
	if options == nil {
		return nil, fmt.Errorf("%w: must include options", services.ErrConfig)
	}
	return &Client{options: *options}, nil
}

// Connect loads the client certificate, fetches the WSDL and binds the client to personalNumber. The returned
// connection is exposed for inspection only.
func (c *Client) Connect(ctx context.Context, personalNumber string) (*Conn, error) {
	if personalNumber == "" {
		return nil, fmt.Errorf("%w: must contain personal number", services.ErrConfig)
	}

	cert, err := credentials.LoadKeyPair(c.options.Cert, c.options.Key, c.options.Passphrase)
	if err != nil {
		return nil, err
	}
	httpClient := credentials.NewHTTPClient(credentials.NewTLSConfig(cert, nil, c.options.Insecure))

	wsdlURL := c.options.URL + "?wsdl"
	logging.Log().Debugf("Fetching WSDL from %s", wsdlURL)
	response, err := ctxhttp.Get(ctx, httpClient, wsdlURL)
	if err != nil {
		return nil, fmt.Errorf("could not fetch WSDL: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not fetch WSDL: %s", response.Status)
	}
	data, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read WSDL: %w", err)
	}
	definitions, err := envelope.ParseWSDL(data)
	if err != nil {
		return nil, err
	}

	conn := &Conn{
		Endpoint:    definitions.Endpoint(),
		Definitions: definitions,
		httpClient:  httpClient,
	}
	if conn.Endpoint == "" {
		conn.Endpoint = c.options.URL
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.conn = conn
	c.personalNumber = personalNumber
	return conn, nil
}

// PersonalNumber returns the personal number the client is bound to
func (c *Client) PersonalNumber() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.personalNumber
}

func (c *Client) connection() (*Conn, string, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	if c.conn == nil {
		return nil, "", services.ErrNotConnected
	}
	return c.conn, c.personalNumber, nil
}

// call does one SOAP round trip. A parsed fault is returned as message, not as error.
func (conn *Conn) call(ctx context.Context, operation, name string, payload interface{}) (*envelope.Message, error) {
	body, err := envelope.New(name, payload)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequest(http.MethodPost, conn.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "text/xml; charset=utf-8")
	request.Header.Set("SOAPAction", `""`)

	logging.Log().Debugf("BankID SOAP %s on %s", operation, conn.Endpoint)
	response, err := ctxhttp.Do(ctx, conn.httpClient, request)
	if err != nil {
		return nil, fmt.Errorf("BankID %s request failed: %w", operation, err)
	}
	defer response.Body.Close()
	data, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read BankID %s response: %w", operation, err)
	}

	message, err := envelope.Parse(data)
	if err != nil {
		return nil, err
	}
	if message.IsFault() {
		// only a fault with a faultstring can be interpreted
		if message.Fault.String == "" {
			return nil, fmt.Errorf("BankID %s returned %s: %w", operation, response.Status, message.Fault)
		}
		logging.Log().Warnf("BankID %s returned fault: %s", operation, message.Fault.String)
		return message, nil
	}
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("BankID %s returned %s", operation, response.Status)
	}
	return message, nil
}
