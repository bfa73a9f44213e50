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

package envelope

import (
	"fmt"

	"github.com/nuts-foundation/nuts-bankid/pkg/services"
)

// Fault is a SOAP 1.1 fault. BankID puts the fault status in faultstring and repeats it in the RpFault detail.
type Fault struct {
	Code   string       `xml:"faultcode"`
	String string       `xml:"faultstring"`
	Actor  string       `xml:"faultactor,omitempty"`
	Detail *FaultDetail `xml:"detail,omitempty"`
}

// FaultDetail holds the BankID specific fault information
type FaultDetail struct {
	RpFault *RpFault `xml:"RpFault,omitempty"`
}

// RpFault is the BankID fault detail
type RpFault struct {
	FaultStatus         string `xml:"faultStatus"`
	DetailedDescription string `xml:"detailedDescription,omitempty"`
}

func (f *Fault) Error() string {
	if f.Detail != nil && f.Detail.RpFault != nil && f.Detail.RpFault.DetailedDescription != "" {
		return fmt.Sprintf("SOAP fault %s: %s", f.String, f.Detail.RpFault.DetailedDescription)
	}
	if f.String == "" {
		return fmt.Sprintf("SOAP fault %s without faultstring", f.Code)
	}
	return fmt.Sprintf("SOAP fault %s", f.String)
}

// NewServerFault returns a fault the way BankID reports it
func NewServerFault(status, description string) Fault {
	return Fault{
		Code:   soapPrefix + ":Server",
		String: status,
		Detail: &FaultDetail{RpFault: &RpFault{
			FaultStatus:         status,
			DetailedDescription: description,
		}},
	}
}

// AuthenticateRequest is the payload of the Authenticate operation
type AuthenticateRequest struct {
	PersonalNumber string `xml:"personalNumber"`
}

// SignRequest is the payload of the Sign operation, both data fields are base64 encoded
type SignRequest struct {
	PersonalNumber     string `xml:"personalNumber"`
	UserVisibleData    string `xml:"userVisibleData"`
	UserNonVisibleData string `xml:"userNonVisibleData"`
}

// OrderResponse is returned by Authenticate and Sign
type OrderResponse struct {
	OrderRef       string `xml:"orderRef"`
	AutoStartToken string `xml:"autoStartToken"`
}

// CollectResponse is returned by Collect
type CollectResponse struct {
	ProgressStatus string             `xml:"progressStatus"`
	Signature      string             `xml:"signature,omitempty"`
	UserInfo       *services.UserInfo `xml:"userInfo,omitempty"`
	OcspResponse   string             `xml:"ocspResponse,omitempty"`
}

// Message names
const (
	AuthenticateRequestName = "AuthenticateRequest"
	SignRequestName         = "SignRequest"
	CollectRequestName      = "orderRef"
	OrderResponseName       = "OrderResponse"
	CollectResponseName     = "CollectResponse"
)
