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

//go:generate mockgen -destination=../../mock/services/mock.go -package=services -source=services.go

package services

import "context"

// RelyingPartyClient is implemented by the REST binding
type RelyingPartyClient interface {
	Auth(ctx context.Context, request AuthRequest) (*Response, error)
	Sign(ctx context.Context, request SignRequest) (*Response, error)
	Collect(ctx context.Context, orderRef string) (*Response, error)
	Cancel(ctx context.Context, orderRef string) (*Response, error)
}

// LegacyClient is implemented by a connected SOAP binding. Every call acts on the personal number given at connect.
type LegacyClient interface {
	Authenticate(ctx context.Context) (*OrderResult, error)
	Sign(ctx context.Context, data *SignData) (*OrderResult, error)
	Collect(ctx context.Context, orderRef string) (*CollectResult, error)
	CancelAuthenticate(ctx context.Context) (string, error)
	CancelSign(ctx context.Context, data *SignData) (string, error)
}
