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
	"github.com/labstack/echo/v4"
)

const (
	// RestPath is where the RP API v5.1 routes are mounted
	RestPath = "/rp/v5.1"
	// SoapPath is where the RP v4 SOAP service is mounted
	SoapPath = "/rp/v4"
)

// Router is the part of echo the dummy routes are mounted on
type Router interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// Register mounts the REST and SOAP routes
func (d *Dummy) Register(router Router) {
	router.POST(RestPath+"/auth", d.auth)
	router.POST(RestPath+"/sign", d.sign)
	router.POST(RestPath+"/collect", d.collectOrder)
	router.POST(RestPath+"/cancel", d.cancelOrder)

	router.GET(SoapPath, d.wsdl)
	router.POST(SoapPath, d.soapCall)
}

// Echo returns a new echo server with only the dummy routes
func (d *Dummy) Echo() *echo.Echo {
	server := echo.New()
	server.HideBanner = true
	d.Register(server)
	return server
}
