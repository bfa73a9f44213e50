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

package rest

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/nuts-foundation/nuts-bankid/logging"
	"github.com/nuts-foundation/nuts-bankid/pkg/services"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/credentials"
)

const (
	authPath    = "auth"
	signPath    = "sign"
	collectPath = "collect"
	cancelPath  = "cancel"
)

// Options holds everything needed to set up the mutual TLS channel to the BankID RP API
type Options struct {
	// PFX is the path to the PKCS#12 bundle with the relying party certificate
	PFX string
	// Passphrase of the PFX bundle
	Passphrase string
	// CA is an optional path to a PEM bundle used to verify the BankID server
	CA string
	// BaseURL of the RP API, e.g. https://appapi2.test.bankid.com/rp/v5.1/
	BaseURL string
}

// Client talks to the BankID RP API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ services.RelyingPartyClient = (*Client)(nil)

// NewClient loads the credentials and returns a client bound to them
func NewClient(options *Options) (*Client, error) {
	if options == nil {
		return nil, fmt.Errorf("%w: must include options", services.ErrConfig)
	}
	if options.PFX == "" || options.Passphrase == "" {
		return nil, fmt.Errorf("%w: certificate and passphrase are required", services.ErrConfig)
	}

	cert, err := credentials.LoadPKCS12(options.PFX, options.Passphrase)
	if err != nil {
		return nil, err
	}
	var roots *x509.CertPool
	if options.CA != "" {
		if roots, err = credentials.LoadCAPool(options.CA); err != nil {
			return nil, err
		}
	}

	return &Client{
		baseURL:    normalizeBaseURL(options.BaseURL),
		httpClient: credentials.NewHTTPClient(credentials.NewTLSConfig(cert, roots, false)),
	}, nil
}

func normalizeBaseURL(baseURL string) string {
	if !strings.HasSuffix(baseURL, "/") {
		return baseURL + "/"
	}
	return baseURL
}

// BaseURL returns the normalized base URL, it always ends with a slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Auth starts an authentication order
func (c *Client) Auth(ctx context.Context, request services.AuthRequest) (*services.Response, error) {
	if request.EndUserIP == "" || request.PersonalNumber == "" {
		return nil, fmt.Errorf("%w: both user ip and personal number are required", services.ErrValidation)
	}
	return c.post(ctx, authPath, services.AuthRequest{
		EndUserIP:      request.EndUserIP,
		PersonalNumber: request.PersonalNumber,
	})
}

// Sign starts a signing order. UserNonVisibleData is only sent when set.
func (c *Client) Sign(ctx context.Context, request services.SignRequest) (*services.Response, error) {
	if request.EndUserIP == "" || request.PersonalNumber == "" || request.UserVisibleData == "" {
		return nil, fmt.Errorf("%w: user ip, personal number and visible data are required", services.ErrValidation)
	}
	return c.post(ctx, signPath, request)
}

// Collect returns the current state of an order
func (c *Client) Collect(ctx context.Context, orderRef string) (*services.Response, error) {
	if orderRef == "" {
		return nil, errOrderRefRequired
	}
	return c.post(ctx, collectPath, services.OrderRefRequest{OrderRef: orderRef})
}

// Cancel cancels a pending order
func (c *Client) Cancel(ctx context.Context, orderRef string) (*services.Response, error) {
	if orderRef == "" {
		return nil, errOrderRefRequired
	}
	return c.post(ctx, cancelPath, services.OrderRefRequest{OrderRef: orderRef})
}

var errOrderRefRequired = fmt.Errorf("%w: order reference value is required", services.ErrValidation)

func (c *Client) post(ctx context.Context, path string, body interface{}) (*services.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + path
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	logging.Log().Debugf("BankID POST %s", url)
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("BankID %s request failed: %w", path, err)
	}
	defer response.Body.Close()

	responseBody, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read BankID %s response: %w", path, err)
	}
	if response.StatusCode >= 300 {
		logging.Log().Warnf("BankID %s returned status %d", path, response.StatusCode)
	}

	return &services.Response{
		StatusCode: response.StatusCode,
		Header:     response.Header,
		Body:       responseBody,
	}, nil
}
