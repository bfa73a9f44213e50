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
	"encoding/xml"
	"fmt"
)

// Definitions is the part of a WSDL document needed to find the SOAP endpoint
type Definitions struct {
	XMLName         xml.Name  `xml:"definitions"`
	Name            string    `xml:"name,attr"`
	TargetNamespace string    `xml:"targetNamespace,attr"`
	Services        []Service `xml:"service"`
}

// Service is a wsdl:service
type Service struct {
	Name  string `xml:"name,attr"`
	Ports []Port `xml:"port"`
}

// Port is a wsdl:port with its soap:address
type Port struct {
	Name    string `xml:"name,attr"`
	Binding string `xml:"binding,attr"`
	Address struct {
		Location string `xml:"location,attr"`
	} `xml:"address"`
}

// ParseWSDL reads a WSDL document
func ParseWSDL(data []byte) (*Definitions, error) {
	definitions := &Definitions{}
	if err := xml.Unmarshal(data, definitions); err != nil {
		return nil, fmt.Errorf("could not parse WSDL: %w", err)
	}
	return definitions, nil
}

// Endpoint returns the location of the first port which has one, or an empty string
func (d Definitions) Endpoint() string {
	for _, service := range d.Services {
		for _, port := range service.Ports {
			if port.Address.Location != "" {
				return port.Address.Location
			}
		}
	}
	return ""
}

// WSDL renders a minimal description of the RP v4 service located at endpoint
func WSDL(endpoint string) []byte {
	return []byte(fmt.Sprintf(wsdlTemplate, TypesNS, TypesNS, endpoint))
}

const wsdlTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<wsdl:definitions name="RpService" targetNamespace="http://bankid.com/RpService/v4.0.0/"
    xmlns:wsdl="http://schemas.xmlsoap.org/wsdl/"
    xmlns:soap="http://schemas.xmlsoap.org/wsdl/soap/"
    xmlns:tns="http://bankid.com/RpService/v4.0.0/"
    xmlns:types="%s">
  <wsdl:types>
    <xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema" targetNamespace="%s"/>
  </wsdl:types>
  <wsdl:portType name="RpServicePortType">
    <wsdl:operation name="Authenticate"/>
    <wsdl:operation name="Sign"/>
    <wsdl:operation name="Collect"/>
  </wsdl:portType>
  <wsdl:binding name="RpServiceSoapBinding" type="tns:RpServicePortType">
    <soap:binding style="document" transport="http://schemas.xmlsoap.org/soap/http"/>
  </wsdl:binding>
  <wsdl:service name="RpService">
    <wsdl:port name="RpServiceSoapPort" binding="tns:RpServiceSoapBinding">
      <soap:address location="%s"/>
    </wsdl:port>
  </wsdl:service>
</wsdl:definitions>
`
