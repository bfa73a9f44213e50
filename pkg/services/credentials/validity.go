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

package credentials

import (
	"crypto/x509"
	"time"
)

// ValidityState describes where the current time lies within the validity window of a certificate
type ValidityState string

const (
	NotValidYet ValidityState = "NOT_VALID_YET"
	Valid       ValidityState = "VALID"
	NearExpiry  ValidityState = "NEAR_EXPIRY"
	Expired     ValidityState = "EXPIRED"
)

// NowFunc is used to store a function that returns the current time. This can be changed when you want to mock the current time.
var NowFunc = time.Now

// CheckValidity returns the state of the certificate. A certificate which expires within warningPeriod is NearExpiry.
func CheckValidity(cert *x509.Certificate, warningPeriod time.Duration) ValidityState {
	now := NowFunc()
	switch {
	case now.Before(cert.NotBefore):
		return NotValidYet
	case now.After(cert.NotAfter):
		return Expired
	case now.Add(warningPeriod).After(cert.NotAfter):
		return NearExpiry
	default:
		return Valid
	}
}
