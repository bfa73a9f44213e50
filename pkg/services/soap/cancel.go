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
	"context"
	"encoding/base64"
	"fmt"

	gax "github.com/googleapis/gax-go"
	"github.com/nuts-foundation/nuts-bankid/logging"
	"github.com/nuts-foundation/nuts-bankid/pkg/services"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/soap/envelope"
)

// cancelSignData is sent by CancelSign when the caller has no sign data at hand. BankID only needs a second order
// for the same personal number to cancel the pending one.
var cancelSignData = &services.SignData{
	UserVisibleData:    base64.StdEncoding.EncodeToString([]byte("Cancel")),
	UserNonVisibleData: base64.StdEncoding.EncodeToString([]byte("cancel")),
}

// sleep is replaced in tests
var sleep = gax.Sleep

// CancelAuthenticate cancels the pending authentication order of the bound personal number. The v4 service has no
// cancel operation: a second Authenticate for the same personal number makes BankID cancel both orders and answer
// ALREADY_IN_PROGRESS. When nothing was pending the second order is accepted, so the call is repeated until the
// fault shows up or MaxCancelAttempts is reached.
func (c *Client) CancelAuthenticate(ctx context.Context) (string, error) {
	return c.cancel(ctx, "Authenticate", services.AuthCancelled, c.authenticate)
}

// CancelSign cancels the pending sign order of the bound personal number, see CancelAuthenticate. data may be nil.
func (c *Client) CancelSign(ctx context.Context, data *services.SignData) (string, error) {
	if data == nil {
		data = cancelSignData
	}
	return c.cancel(ctx, "Sign", services.SignCancelled, func(ctx context.Context) (*envelope.Message, error) {
		return c.sign(ctx, data)
	})
}

func (c *Client) cancel(ctx context.Context, operation, cancelled string, issue func(context.Context) (*envelope.Message, error)) (string, error) {
	maxAttempts := c.options.MaxCancelAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxCancelAttempts
	}
	backoff := DefaultCancelBackoff
	if c.options.CancelBackoff != nil {
		backoff = *c.options.CancelBackoff
	}

	for attempt := 1; ; attempt++ {
		message, err := issue(ctx)
		if err != nil {
			return "", err
		}
		if message.IsFault() {
			if message.Fault.String == services.AlreadyInProgress {
				return cancelled, nil
			}
			return "", message.Fault
		}
		if attempt >= maxAttempts {
			logging.Log().Warnf("BankID accepted %d %s orders without conflict, an order may still be pending", attempt, operation)
			return "", fmt.Errorf("%w: %s was accepted %d times", services.ErrCancelAttemptsExhausted, operation, attempt)
		}
		pause := backoff.Pause()
		logging.Log().Debugf("BankID accepted %s while cancelling, retrying in %s", operation, pause)
		if err := sleep(ctx, pause); err != nil {
			return "", err
		}
	}
}
