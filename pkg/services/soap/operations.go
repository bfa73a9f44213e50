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
	"fmt"

	"github.com/nuts-foundation/nuts-bankid/pkg/services"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/soap/envelope"
)

// Authenticate starts an authentication order for the bound personal number. A fault from BankID is returned in
// OrderResult.Error with a nil error.
func (c *Client) Authenticate(ctx context.Context) (*services.OrderResult, error) {
	message, err := c.authenticate(ctx)
	if err != nil {
		return nil, err
	}
	return orderResult(message)
}

func (c *Client) authenticate(ctx context.Context) (*envelope.Message, error) {
	conn, personalNumber, err := c.connection()
	if err != nil {
		return nil, err
	}
	return conn.call(ctx, "Authenticate", envelope.AuthenticateRequestName, envelope.AuthenticateRequest{
		PersonalNumber: personalNumber,
	})
}

// Sign starts a signing order for the bound personal number. Both texts are required.
func (c *Client) Sign(ctx context.Context, data *services.SignData) (*services.OrderResult, error) {
	message, err := c.sign(ctx, data)
	if err != nil {
		return nil, err
	}
	return orderResult(message)
}

func (c *Client) sign(ctx context.Context, data *services.SignData) (*envelope.Message, error) {
	if data == nil {
		return nil, fmt.Errorf("%w: signable data is required", services.ErrValidation)
	}
	if data.UserVisibleData == "" || data.UserNonVisibleData == "" {
		return nil, fmt.Errorf("%w: both userNonVisibleData and userVisibleData is required", services.ErrValidation)
	}
	conn, personalNumber, err := c.connection()
	if err != nil {
		return nil, err
	}
	return conn.call(ctx, "Sign", envelope.SignRequestName, envelope.SignRequest{
		PersonalNumber:     personalNumber,
		UserVisibleData:    data.UserVisibleData,
		UserNonVisibleData: data.UserNonVisibleData,
	})
}

// Collect returns the progress of an order. Unlike Authenticate and Sign, a fault is returned as the bare fault string
// in CollectResult.Fault.
func (c *Client) Collect(ctx context.Context, orderRef string) (*services.CollectResult, error) {
	if orderRef == "" {
		return nil, fmt.Errorf("%w: orderRef is required in a string format", services.ErrValidation)
	}
	conn, _, err := c.connection()
	if err != nil {
		return nil, err
	}
	message, err := conn.call(ctx, "Collect", envelope.CollectRequestName, orderRef)
	if err != nil {
		return nil, err
	}
	if message.IsFault() {
		return &services.CollectResult{Fault: message.Fault.String}, nil
	}

	response := envelope.CollectResponse{}
	if err := message.Decode(&response); err != nil {
		return nil, fmt.Errorf("could not decode collect response: %w", err)
	}
	return &services.CollectResult{
		ProgressStatus: services.ProgressStatus(response.ProgressStatus),
		Signature:      response.Signature,
		UserInfo:       response.UserInfo,
		OcspResponse:   response.OcspResponse,
	}, nil
}

func orderResult(message *envelope.Message) (*services.OrderResult, error) {
	if message.IsFault() {
		return &services.OrderResult{Error: message.Fault.String}, nil
	}
	response := envelope.OrderResponse{}
	if err := message.Decode(&response); err != nil {
		return nil, fmt.Errorf("could not decode order response: %w", err)
	}
	return &services.OrderResult{
		OrderRef:       response.OrderRef,
		AutoStartToken: response.AutoStartToken,
	}, nil
}
