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

package dummy

import (
	"encoding/base64"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nuts-foundation/nuts-bankid/pkg/services"
	"github.com/nuts-foundation/nuts-bankid/pkg/services/soap/envelope"
)

const xmlContentType = "text/xml; charset=utf-8"

func (d *Dummy) wsdl(ctx echo.Context) error {
	d.count("wsdl")
	endpoint := fmt.Sprintf("%s://%s%s", ctx.Scheme(), ctx.Request().Host, SoapPath)
	return ctx.Blob(http.StatusOK, xmlContentType, envelope.WSDL(endpoint))
}

func (d *Dummy) soapCall(ctx echo.Context) error {
	data, err := ioutil.ReadAll(ctx.Request().Body)
	if err != nil {
		return soapFault(ctx, "CLIENT_ERR", err.Error())
	}
	message, err := envelope.Parse(data)
	if err != nil {
		return soapFault(ctx, "CLIENT_ERR", err.Error())
	}

	switch message.Name.Local {
	case envelope.AuthenticateRequestName:
		d.count("Authenticate")
		request := envelope.AuthenticateRequest{}
		if err := message.Decode(&request); err != nil {
			return soapFault(ctx, services.InvalidParameters, err.Error())
		}
		return d.soapOrder(ctx, request.PersonalNumber, false)
	case envelope.SignRequestName:
		d.count("Sign")
		request := envelope.SignRequest{}
		if err := message.Decode(&request); err != nil {
			return soapFault(ctx, services.InvalidParameters, err.Error())
		}
		if _, err := base64.StdEncoding.DecodeString(request.UserVisibleData); err != nil || request.UserVisibleData == "" {
			return soapFault(ctx, services.InvalidParameters, "Invalid userVisibleData")
		}
		return d.soapOrder(ctx, request.PersonalNumber, true)
	case envelope.CollectRequestName:
		d.count("Collect")
		var orderRef string
		if err := message.Decode(&orderRef); err != nil {
			return soapFault(ctx, services.InvalidParameters, err.Error())
		}
		return d.soapCollect(ctx, orderRef)
	default:
		return soapFault(ctx, "CLIENT_ERR", fmt.Sprintf("Unknown operation %s", message.Name.Local))
	}
}

func (d *Dummy) soapOrder(ctx echo.Context, personalNumber string, sign bool) error {
	o, err := d.start(personalNumber, "", sign)
	switch err {
	case nil:
	case errAlreadyInProgress:
		return soapFault(ctx, services.AlreadyInProgress, "Order already in progress for pno "+personalNumber)
	default:
		return soapFault(ctx, services.InvalidParameters, "Incorrect personalNumber")
	}
	return soapResponse(ctx, envelope.OrderResponseName, envelope.OrderResponse{
		OrderRef:       o.ref,
		AutoStartToken: o.autoStartToken,
	})
}

func (d *Dummy) soapCollect(ctx echo.Context, orderRef string) error {
	o, err := d.collect(orderRef)
	if err != nil {
		return soapFault(ctx, services.InvalidParameters, "No such order")
	}

	response := envelope.CollectResponse{}
	switch o.state {
	case stateOutstanding:
		response.ProgressStatus = string(services.OutstandingTransaction)
	case stateUserSign:
		response.ProgressStatus = string(services.UserSign)
	case stateCancelled:
		return soapFault(ctx, "CANCELLED", "Order was cancelled")
	case stateComplete:
		data := completionData(o)
		response.ProgressStatus = string(services.ProgressComplete)
		response.Signature = data.Signature
		response.OcspResponse = data.OCSPResponse
		response.UserInfo = &services.UserInfo{
			GivenName:      data.User.GivenName,
			Surname:        data.User.Surname,
			Name:           data.User.Name,
			PersonalNumber: data.User.PersonalNumber,
			NotBefore:      time.Now().AddDate(-1, 0, 0).Format(time.RFC3339),
			NotAfter:       time.Now().AddDate(1, 0, 0).Format(time.RFC3339),
			IPAddress:      data.Device.IPAddress,
		}
	}
	return soapResponse(ctx, envelope.CollectResponseName, response)
}

func soapResponse(ctx echo.Context, name string, content interface{}) error {
	data, err := envelope.New(name, content)
	if err != nil {
		return err
	}
	return ctx.Blob(http.StatusOK, xmlContentType, data)
}

func soapFault(ctx echo.Context, status, description string) error {
	data, err := envelope.NewFault(envelope.NewServerFault(status, description))
	if err != nil {
		return err
	}
	return ctx.Blob(http.StatusInternalServerError, xmlContentType, data)
}
