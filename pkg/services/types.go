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

package services

import (
	"errors"
)

// ErrConfig is returned when a client is constructed or connected with missing options
var ErrConfig = errors.New("configuration error")

// ErrValidation is returned when a call is made with missing or malformed arguments. It is always returned before
// anything is sent to BankID.
var ErrValidation = errors.New("validation error")

// ErrNotConnected is returned when a legacy operation is called before Connect
var ErrNotConnected = errors.New("not connected")

// ErrCancelAttemptsExhausted is returned when the legacy cancel loop never saw the conflicting order fault
var ErrCancelAttemptsExhausted = errors.New("cancel attempts exhausted")

// OrderStatus is the status of an order as reported by the REST collect call
type OrderStatus string

const (
	// Pending means the order is being processed
	Pending OrderStatus = "pending"
	// Complete means the order was signed or authenticated by the user
	Complete OrderStatus = "complete"
	// Failed means something went wrong, the hint code tells what
	Failed OrderStatus = "failed"
)

// ProgressStatus is the status of an order as reported by the legacy Collect call
type ProgressStatus string

const (
	OutstandingTransaction ProgressStatus = "OUTSTANDING_TRANSACTION"
	NoClient               ProgressStatus = "NO_CLIENT"
	Started                ProgressStatus = "STARTED"
	UserSign               ProgressStatus = "USER_SIGN"
	UserReq                ProgressStatus = "USER_REQ"
	ProgressComplete       ProgressStatus = "COMPLETE"
)

// AlreadyInProgress is the legacy fault string returned when a second order is started for a personal number
// which already has one pending.
const AlreadyInProgress = "ALREADY_IN_PROGRESS"

// InvalidParameters is the legacy fault string for malformed requests or unknown order references
const InvalidParameters = "INVALID_PARAMETERS"

const (
	// AuthCancelled is returned by a successful legacy CancelAuthenticate
	AuthCancelled = "AUTH_CANCELLED"
	// SignCancelled is returned by a successful legacy CancelSign
	SignCancelled = "SIGN_CANCELLED"
)

// REST API error codes
const (
	ErrorCodeAlreadyInProgress = "alreadyInProgress"
	ErrorCodeInvalidParameters = "invalidParameters"
	ErrorCodeNotFound          = "notFound"
)
