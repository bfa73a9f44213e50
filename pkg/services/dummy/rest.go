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
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nuts-foundation/nuts-bankid/pkg/services"
)

func (d *Dummy) auth(ctx echo.Context) error {
	d.count("auth")
	request := services.AuthRequest{}
	if err := ctx.Bind(&request); err != nil || request.EndUserIP == "" {
		return restError(ctx, services.ErrorCodeInvalidParameters, "Invalid endUserIp")
	}
	return d.startOrder(ctx, request.PersonalNumber, request.EndUserIP, false)
}

func (d *Dummy) sign(ctx echo.Context) error {
	d.count("sign")
	request := services.SignRequest{}
	if err := ctx.Bind(&request); err != nil || request.EndUserIP == "" {
		return restError(ctx, services.ErrorCodeInvalidParameters, "Invalid endUserIp")
	}
	if _, err := base64.StdEncoding.DecodeString(request.UserVisibleData); err != nil || request.UserVisibleData == "" {
		return restError(ctx, services.ErrorCodeInvalidParameters, "Invalid userVisibleData")
	}
	return d.startOrder(ctx, request.PersonalNumber, request.EndUserIP, true)
}

func (d *Dummy) startOrder(ctx echo.Context, personalNumber, endUserIP string, sign bool) error {
	o, err := d.start(personalNumber, endUserIP, sign)
	switch err {
	case nil:
	case errAlreadyInProgress:
		return restError(ctx, services.ErrorCodeAlreadyInProgress, "Order already in progress for pno")
	default:
		return restError(ctx, services.ErrorCodeInvalidParameters, "Incorrect personalNumber")
	}
	return ctx.JSON(http.StatusOK, services.OrderResponse{
		OrderRef:       o.ref,
		AutoStartToken: o.autoStartToken,
		QRStartToken:   o.qrStartToken,
		QRStartSecret:  o.qrStartSecret,
	})
}

func (d *Dummy) collectOrder(ctx echo.Context) error {
	d.count("collect")
	request := services.OrderRefRequest{}
	if err := ctx.Bind(&request); err != nil {
		return restError(ctx, services.ErrorCodeInvalidParameters, "Invalid orderRef")
	}
	o, err := d.collect(request.OrderRef)
	if err != nil {
		return restError(ctx, services.ErrorCodeInvalidParameters, "No such order")
	}

	response := services.CollectResponse{OrderRef: o.ref, Status: services.Pending}
	switch o.state {
	case stateOutstanding:
		response.HintCode = "outstandingTransaction"
	case stateUserSign:
		response.HintCode = "userSign"
	case stateCancelled:
		response.Status = services.Failed
		response.HintCode = "cancelled"
	case stateComplete:
		response.Status = services.Complete
		response.CompletionData = completionData(o)
	}
	return ctx.JSON(http.StatusOK, response)
}

func (d *Dummy) cancelOrder(ctx echo.Context) error {
	d.count("cancel")
	request := services.OrderRefRequest{}
	if err := ctx.Bind(&request); err != nil {
		return restError(ctx, services.ErrorCodeInvalidParameters, "Invalid orderRef")
	}
	if err := d.cancel(request.OrderRef); err != nil {
		return restError(ctx, services.ErrorCodeInvalidParameters, "No such order")
	}
	return ctx.JSON(http.StatusOK, map[string]string{})
}

func restError(ctx echo.Context, code, details string) error {
	return ctx.JSON(http.StatusBadRequest, services.ErrorResponse{ErrorCode: code, Details: details})
}

func completionData(o order) *services.CompletionData {
	now := time.Now()
	millis := func(t time.Time) string {
		return strconv.FormatInt(t.UnixNano()/int64(time.Millisecond), 10)
	}
	return &services.CompletionData{
		User: services.User{
			PersonalNumber: o.personalNumber,
			Name:           "Test Testsson",
			GivenName:      "Test",
			Surname:        "Testsson",
		},
		Device: services.Device{IPAddress: o.endUserIP},
		Cert: services.Cert{
			NotBefore: millis(now.AddDate(-1, 0, 0)),
			NotAfter:  millis(now.AddDate(1, 0, 0)),
		},
		Signature:    base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("<dummy order=%q/>", o.ref))),
		OCSPResponse: base64.StdEncoding.EncodeToString([]byte("dummy")),
	}
}
