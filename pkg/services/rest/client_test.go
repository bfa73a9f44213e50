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
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuts-foundation/nuts-bankid/pkg/services"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/dummy"
	"github.com/nuts-foundation/nuts-bankid/test"
)

const personalNumber = "198605082695"
const endUserIP = "192.168.0.1"

type testContext struct {
	dummy  *dummy.Dummy
	server *httptest.Server
	client *Client
}

func createContext(t *testing.T) *testContext {
	t.Helper()
	d := dummy.New()
	server := test.NewMutualTLSServer(d.Echo())
	t.Cleanup(server.Close)

	creds := test.WriteCredentials(t, server)
	client, err := NewClient(&Options{
		PFX:        creds.PFX,
		Passphrase: test.Passphrase,
		CA:         creds.CA,
		BaseURL:    server.URL + dummy.RestPath,
	})
	require.NoError(t, err)

	return &testContext{dummy: d, server: server, client: client}
}

func TestNewClient(t *testing.T) {
	creds := test.WriteCredentials(t, nil)

	t.Run("nok - no options", func(t *testing.T) {
		client, err := NewClient(nil)
		assert.True(t, errors.Is(err, services.ErrConfig))
		assert.EqualError(t, err, "configuration error: must include options")
		assert.Nil(t, client)
	})

	t.Run("nok - missing certificate", func(t *testing.T) {
		_, err := NewClient(&Options{Passphrase: test.Passphrase, BaseURL: "https://localhost"})
		assert.True(t, errors.Is(err, services.ErrConfig))
	})

	t.Run("nok - missing passphrase", func(t *testing.T) {
		_, err := NewClient(&Options{PFX: creds.PFX, BaseURL: "https://localhost"})
		assert.True(t, errors.Is(err, services.ErrConfig))
		assert.EqualError(t, err, "configuration error: certificate and passphrase are required")
	})

	t.Run("nok - unreadable CA", func(t *testing.T) {
		_, err := NewClient(&Options{PFX: creds.PFX, Passphrase: test.Passphrase, CA: creds.CA, BaseURL: "https://localhost"})
		assert.Error(t, err)
	})

	t.Run("nok - wrong passphrase", func(t *testing.T) {
		_, err := NewClient(&Options{PFX: creds.PFX, Passphrase: "wrong", BaseURL: "https://localhost"})
		assert.Error(t, err)
		assert.False(t, errors.Is(err, services.ErrConfig))
	})

	t.Run("ok - base url gets a trailing slash", func(t *testing.T) {
		client, err := NewClient(&Options{PFX: creds.PFX, Passphrase: test.Passphrase, BaseURL: "https://appapi2.test.bankid.com/rp/v5.1"})
		require.NoError(t, err)
		assert.Equal(t, "https://appapi2.test.bankid.com/rp/v5.1/", client.BaseURL())
	})

	t.Run("ok - trailing slash is kept", func(t *testing.T) {
		client, err := NewClient(&Options{PFX: creds.PFX, Passphrase: test.Passphrase, BaseURL: "https://appapi2.test.bankid.com/rp/v5.1/"})
		require.NoError(t, err)
		assert.Equal(t, "https://appapi2.test.bankid.com/rp/v5.1/", client.BaseURL())
	})
}

func TestClient_Auth(t *testing.T) {
	ctx := createContext(t)

	t.Run("nok - missing end user ip", func(t *testing.T) {
		response, err := ctx.client.Auth(context.Background(), services.AuthRequest{PersonalNumber: personalNumber})
		assert.True(t, errors.Is(err, services.ErrValidation))
		assert.Nil(t, response)
		assert.Equal(t, 0, ctx.dummy.Requests("auth"))
	})

	t.Run("nok - missing personal number", func(t *testing.T) {
		_, err := ctx.client.Auth(context.Background(), services.AuthRequest{EndUserIP: endUserIP})
		assert.EqualError(t, err, "validation error: both user ip and personal number are required")
		assert.Equal(t, 0, ctx.dummy.Requests("auth"))
	})

	t.Run("ok - order is started", func(t *testing.T) {
		response, err := ctx.client.Auth(context.Background(), services.AuthRequest{EndUserIP: endUserIP, PersonalNumber: personalNumber})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.True(t, response.OK())

		order, err := response.Order()
		require.NoError(t, err)
		assert.NotEmpty(t, order.OrderRef)
		assert.NotEmpty(t, order.AutoStartToken)
		assert.NotEmpty(t, order.QRStartToken)
	})

	t.Run("ok - conflict is passed through", func(t *testing.T) {
		response, err := ctx.client.Auth(context.Background(), services.AuthRequest{EndUserIP: endUserIP, PersonalNumber: personalNumber})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, response.StatusCode)
		assert.False(t, response.OK())

		errorResponse, err := response.Error()
		require.NoError(t, err)
		assert.Equal(t, services.ErrorCodeAlreadyInProgress, errorResponse.ErrorCode)
	})
}

func TestClient_Sign(t *testing.T) {
	visibleData := base64.StdEncoding.EncodeToString([]byte("Jag godkänner"))

	t.Run("nok - missing visible data", func(t *testing.T) {
		ctx := createContext(t)
		_, err := ctx.client.Sign(context.Background(), services.SignRequest{EndUserIP: endUserIP, PersonalNumber: personalNumber})
		assert.EqualError(t, err, "validation error: user ip, personal number and visible data are required")
		assert.Equal(t, 0, ctx.dummy.Requests("sign"))
	})

	t.Run("ok - order is started", func(t *testing.T) {
		ctx := createContext(t)
		response, err := ctx.client.Sign(context.Background(), services.SignRequest{
			EndUserIP:          endUserIP,
			PersonalNumber:     personalNumber,
			UserVisibleData:    visibleData,
			UserNonVisibleData: visibleData,
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, response.StatusCode)
		order, err := response.Order()
		require.NoError(t, err)
		assert.NotEmpty(t, order.OrderRef)
		assert.NotEmpty(t, order.AutoStartToken)
	})

	t.Run("ok - non visible data is left out when empty", func(t *testing.T) {
		var body map[string]interface{}
		server := test.NewMutualTLSServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			data, _ := ioutil.ReadAll(request.Body)
			_ = json.Unmarshal(data, &body)
			assert.Equal(t, "/sign", request.URL.Path)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
			writer.WriteHeader(http.StatusOK)
			_, _ = writer.Write([]byte("{}"))
		}))
		defer server.Close()
		creds := test.WriteCredentials(t, server)
		client, err := NewClient(&Options{PFX: creds.PFX, Passphrase: test.Passphrase, CA: creds.CA, BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Sign(context.Background(), services.SignRequest{EndUserIP: endUserIP, PersonalNumber: personalNumber, UserVisibleData: visibleData})
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{
			"endUserIp":       endUserIP,
			"personalNumber":  personalNumber,
			"userVisibleData": visibleData,
		}, body)
	})
}

func TestClient_Collect(t *testing.T) {
	ctx := createContext(t)

	t.Run("nok - missing order ref", func(t *testing.T) {
		_, err := ctx.client.Collect(context.Background(), "")
		assert.EqualError(t, err, "validation error: order reference value is required")
		assert.Equal(t, 0, ctx.dummy.Requests("collect"))
	})

	t.Run("ok - order completes after polling", func(t *testing.T) {
		response, err := ctx.client.Auth(context.Background(), services.AuthRequest{EndUserIP: endUserIP, PersonalNumber: personalNumber})
		require.NoError(t, err)
		order, err := response.Order()
		require.NoError(t, err)

		var collected *services.CollectResponse
		for _, expected := range []services.OrderStatus{services.Pending, services.Pending, services.Complete} {
			response, err = ctx.client.Collect(context.Background(), order.OrderRef)
			require.NoError(t, err)
			collected, err = response.Collect()
			require.NoError(t, err)
			assert.Equal(t, expected, collected.Status)
			assert.Equal(t, order.OrderRef, collected.OrderRef)
		}
		require.NotNil(t, collected.CompletionData)
		assert.Equal(t, personalNumber, collected.CompletionData.User.PersonalNumber)
		assert.Equal(t, endUserIP, collected.CompletionData.Device.IPAddress)
	})

	t.Run("ok - unknown order is passed through", func(t *testing.T) {
		response, err := ctx.client.Collect(context.Background(), "unknown")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	})
}

func TestClient_Cancel(t *testing.T) {
	ctx := createContext(t)

	t.Run("nok - missing order ref", func(t *testing.T) {
		_, err := ctx.client.Cancel(context.Background(), "")
		assert.True(t, errors.Is(err, services.ErrValidation))
		assert.Equal(t, 0, ctx.dummy.Requests("cancel"))
	})

	t.Run("ok - pending order is cancelled", func(t *testing.T) {
		response, err := ctx.client.Auth(context.Background(), services.AuthRequest{EndUserIP: endUserIP, PersonalNumber: personalNumber})
		require.NoError(t, err)
		order, err := response.Order()
		require.NoError(t, err)

		response, err = ctx.client.Cancel(context.Background(), order.OrderRef)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		_, pending := ctx.dummy.Pending(personalNumber)
		assert.False(t, pending)
	})

	t.Run("ok - nothing to cancel is passed through", func(t *testing.T) {
		response, err := ctx.client.Cancel(context.Background(), "unknown")
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, response.StatusCode)
	})
}

func TestClient_transportErrors(t *testing.T) {
	t.Run("nok - server is gone", func(t *testing.T) {
		ctx := createContext(t)
		ctx.server.Close()

		_, err := ctx.client.Collect(context.Background(), "abc")
		assert.Error(t, err)
	})

	t.Run("nok - server certificate is not trusted without CA", func(t *testing.T) {
		d := dummy.New()
		server := test.NewMutualTLSServer(d.Echo())
		defer server.Close()
		creds := test.WriteCredentials(t, server)
		client, err := NewClient(&Options{PFX: creds.PFX, Passphrase: test.Passphrase, BaseURL: server.URL + dummy.RestPath})
		require.NoError(t, err)

		_, err = client.Collect(context.Background(), "abc")
		assert.Error(t, err)
		assert.Equal(t, 0, d.Requests("collect"))
	})
}
