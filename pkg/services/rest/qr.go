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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// QRData returns the content of the animated QR code for an order, elapsed is the time since the order was started.
// The code must be refreshed every second.
func QRData(qrStartToken, qrStartSecret string, elapsed time.Duration) string {
	seconds := fmt.Sprintf("%d", int64(elapsed/time.Second))
	mac := hmac.New(sha256.New, []byte(qrStartSecret))
	mac.Write([]byte(seconds))
	return fmt.Sprintf("bankid.%s.%s.%s", qrStartToken, seconds, hex.EncodeToString(mac.Sum(nil)))
}

// AutoStartURL returns the link which starts the BankID app on the same device
func AutoStartURL(autoStartToken string) string {
	return fmt.Sprintf("bankid:///?autostarttoken=%s&redirect=null", autoStartToken)
}
