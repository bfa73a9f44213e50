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

// Package envelope contains the wire format of the BankID RP v4 SOAP service: SOAP 1.1 envelopes, faults, the
// operation messages and the bits of the WSDL needed to find the service endpoint.
package envelope

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

const (
	// SoapNS is the SOAP 1.1 envelope namespace
	SoapNS = "http://schemas.xmlsoap.org/soap/envelope/"
	// TypesNS is the namespace of the BankID RP v4 messages
	TypesNS = "http://bankid.com/RpService/v4.0.0/types/"

	soapPrefix  = "soapenv"
	typesPrefix = "typ"
)

// ErrEmptyBody is returned when an envelope has no element in its body
var ErrEmptyBody = errors.New("SOAP body is empty")

type requestEnvelope struct {
	XMLName xml.Name `xml:"soapenv:Envelope"`
	SoapEnv string   `xml:"xmlns:soapenv,attr"`
	Typ     string   `xml:"xmlns:typ,attr"`
	Header  struct{} `xml:"soapenv:Header"`
	Body    struct {
		Content prefixed
	} `xml:"soapenv:Body"`
}

// prefixed writes its content as a single element with a namespace prefix. The children of BankID messages are
// unqualified, which rules out a default namespace on the message element.
type prefixed struct {
	name    string
	content interface{}
}

func (p prefixed) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	return e.EncodeElement(p.content, xml.StartElement{Name: xml.Name{Local: p.name}})
}

func marshal(name string, content interface{}) ([]byte, error) {
	env := requestEnvelope{SoapEnv: SoapNS, Typ: TypesNS}
	env.Body.Content = prefixed{name: name, content: content}

	buf := bytes.NewBufferString(xml.Header)
	if err := xml.NewEncoder(buf).Encode(env); err != nil {
		return nil, fmt.Errorf("could not marshal SOAP envelope: %w", err)
	}
	return buf.Bytes(), nil
}

// New wraps a BankID message in an envelope, name is the local name of the message element, e.g. AuthenticateRequest
func New(name string, content interface{}) ([]byte, error) {
	return marshal(typesPrefix+":"+name, content)
}

// NewFault returns an envelope holding a fault
func NewFault(fault Fault) ([]byte, error) {
	return marshal(soapPrefix+":Fault", fault)
}

// Message is a parsed envelope. It either holds a Fault or a payload, never both.
type Message struct {
	// Fault is set when the body contained a SOAP fault
	Fault *Fault
	// Name is the name of the first element in the body
	Name xml.Name
	body []byte
}

// IsFault returns true when the message carries a fault
func (m Message) IsFault() bool {
	return m.Fault != nil
}

// Decode unmarshals the payload element into target
func (m Message) Decode(target interface{}) error {
	decoder := xml.NewDecoder(bytes.NewReader(m.body))
	start, err := firstElement(decoder)
	if err != nil {
		return err
	}
	return decoder.DecodeElement(target, start)
}

type parsedEnvelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Inner []byte `xml:",innerxml"`
	} `xml:"Body"`
}

// Parse reads an envelope and determines whether it holds a fault or a payload
func Parse(data []byte) (*Message, error) {
	env := parsedEnvelope{}
	if err := xml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("could not parse SOAP envelope: %w", err)
	}

	decoder := xml.NewDecoder(bytes.NewReader(env.Body.Inner))
	start, err := firstElement(decoder)
	if err != nil {
		return nil, err
	}

	message := &Message{Name: start.Name, body: env.Body.Inner}
	if start.Name.Local == "Fault" {
		fault := Fault{}
		if err := decoder.DecodeElement(&fault, start); err != nil {
			return nil, fmt.Errorf("could not parse SOAP fault: %w", err)
		}
		message.Fault = &fault
	}
	return message, nil
}

func firstElement(decoder *xml.Decoder) (*xml.StartElement, error) {
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil, ErrEmptyBody
		}
		if err != nil {
			return nil, fmt.Errorf("could not parse SOAP body: %w", err)
		}
		if start, ok := token.(xml.StartElement); ok {
			return &start, nil
		}
	}
}
