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
	"encoding/json"
	"fmt"
	"net/http"
)

// AuthRequest holds the parameters of a REST auth call
type AuthRequest struct {
	EndUserIP      string `json:"endUserIp"`
	PersonalNumber string `json:"personalNumber"`
}

// SignRequest holds the parameters of a REST sign call. UserNonVisibleData is optional.
type SignRequest struct {
	EndUserIP          string `json:"endUserIp"`
	PersonalNumber     string `json:"personalNumber"`
	UserVisibleData    string `json:"userVisibleData"`
	UserNonVisibleData string `json:"userNonVisibleData,omitempty"`
}

// OrderRefRequest is the body of the REST collect and cancel calls
type OrderRefRequest struct {
	OrderRef string `json:"orderRef"`
}

// Response is the raw answer of the BankID REST API. Any HTTP status is passed through, it is up to the caller
// to interpret it.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK returns true for 2xx responses
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into target
func (r Response) Decode(target interface{}) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("could not decode response body (status %d): %w", r.StatusCode, err)
	}
	return nil
}

// Order decodes the body of a successful auth or sign response
func (r Response) Order() (*OrderResponse, error) {
	result := &OrderResponse{}
	if err := r.Decode(result); err != nil {
		return nil, err
	}
	return result, nil
}

// Collect decodes the body of a successful collect response
func (r Response) Collect() (*CollectResponse, error) {
	result := &CollectResponse{}
	if err := r.Decode(result); err != nil {
		return nil, err
	}
	return result, nil
}

// Error decodes the body of a failed response
func (r Response) Error() (*ErrorResponse, error) {
	result := &ErrorResponse{}
	if err := r.Decode(result); err != nil {
		return nil, err
	}
	return result, nil
}

// OrderResponse is returned by the REST auth and sign calls
type OrderResponse struct {
	OrderRef       string `json:"orderRef"`
	AutoStartToken string `json:"autoStartToken"`
	QRStartToken   string `json:"qrStartToken,omitempty"`
	QRStartSecret  string `json:"qrStartSecret,omitempty"`
}

// CollectResponse is returned by the REST collect call
type CollectResponse struct {
	OrderRef       string          `json:"orderRef"`
	Status         OrderStatus     `json:"status"`
	HintCode       string          `json:"hintCode,omitempty"`
	CompletionData *CompletionData `json:"completionData,omitempty"`
}

// CompletionData is only present when the order is complete
type CompletionData struct {
	User         User   `json:"user"`
	Device       Device `json:"device"`
	Cert         Cert   `json:"cert"`
	Signature    string `json:"signature"`
	OCSPResponse string `json:"ocspResponse"`
}

// User holds the identity of the user that completed the order
type User struct {
	PersonalNumber string `json:"personalNumber"`
	Name           string `json:"name"`
	GivenName      string `json:"givenName"`
	Surname        string `json:"surname"`
}

// Device holds information about the device of the user
type Device struct {
	IPAddress string `json:"ipAddress"`
}

// Cert holds the validity of the certificate of the user, in unix millis as strings
type Cert struct {
	NotBefore string `json:"notBefore"`
	NotAfter  string `json:"notAfter"`
}

// ErrorResponse is the body of a non 2xx REST response
type ErrorResponse struct {
	ErrorCode string `json:"errorCode"`
	Details   string `json:"details"`
}

// SignData holds the texts of a legacy Sign call, both are required and must be base64 encoded
type SignData struct {
	UserVisibleData    string
	UserNonVisibleData string
}

// OrderResult is the outcome of a legacy Authenticate or Sign call. When BankID answered with a fault, only Error is
// set and contains the fault string.
type OrderResult struct {
	OrderRef       string `json:"orderRef,omitempty"`
	AutoStartToken string `json:"autoStartToken,omitempty"`
	Error          string `json:"error,omitempty"`
}

// CollectResult is the outcome of a legacy Collect call. When BankID answered with a fault, only Fault is set.
type CollectResult struct {
	ProgressStatus ProgressStatus `json:"progressStatus,omitempty"`
	Signature      string         `json:"signature,omitempty"`
	UserInfo       *UserInfo      `json:"userInfo,omitempty"`
	OcspResponse   string         `json:"ocspResponse,omitempty"`
	Fault          string         `json:"fault,omitempty"`
}

// UserInfo is the identity in a completed legacy Collect result
type UserInfo struct {
	GivenName      string `json:"givenName" xml:"givenName"`
	Surname        string `json:"surname" xml:"surname"`
	Name           string `json:"name" xml:"name"`
	PersonalNumber string `json:"personalNumber" xml:"personalNumber"`
	NotBefore      string `json:"notBefore" xml:"notBefore"`
	NotAfter       string `json:"notAfter" xml:"notAfter"`
	IPAddress      string `json:"ipAddress" xml:"ipAddress"`
}
