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

package test

import (
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/github/fakeca"
	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// Passphrase protects the pfx bundle and the PEM key written by WriteCredentials
const Passphrase = "qwerty123"

// Credentials holds the paths of the files written by WriteCredentials
type Credentials struct {
	PFX  string
	Cert string
	Key  string
	// CA contains the certificate of the TLS server passed to WriteCredentials
	CA       string
	Identity *fakeca.Identity
}

// NewRelyingPartyIdentity issues a client certificate the way the BankID test CA does
func NewRelyingPartyIdentity() *fakeca.Identity {
	ca := fakeca.New(fakeca.IsCA, fakeca.Subject(pkix.Name{
		Organization: []string{"Testbank A AB (publ)"},
		CommonName:   "Test BankID SSL Root CA v1 Test",
	}))
	return ca.Issue(fakeca.Subject(pkix.Name{
		Organization: []string{"Testbank A AB (publ)"},
		CommonName:   "FP Testcert 2",
	}))
}

// WriteCredentials writes a relying party certificate in pfx (SHA-256 MAC, AES) and PEM (encrypted key) form to a temp dir.
// When server is a TLS server its certificate is written as CA bundle.
func WriteCredentials(t *testing.T, server *httptest.Server) Credentials {
	t.Helper()
	dir := t.TempDir()
	identity := NewRelyingPartyIdentity()

	result := Credentials{
		PFX:      filepath.Join(dir, "client.pfx"),
		Cert:     filepath.Join(dir, "client.pem"),
		Key:      filepath.Join(dir, "client.key"),
		CA:       filepath.Join(dir, "ca.pem"),
		Identity: identity,
	}

	pfx, err := pkcs12.Modern2023.Encode(identity.PrivateKey, identity.Certificate, []*x509.Certificate{identity.Issuer.Certificate}, Passphrase)
	if err != nil {
		t.Fatal(err)
	}
	write(t, result.PFX, pfx)
	write(t, result.Cert, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: identity.Certificate.Raw}))

	keyDER, err := x509.MarshalPKCS8PrivateKey(identity.PrivateKey)
	if err != nil {
		t.Fatal(err)
	}
	keyBlock, err := x509.EncryptPEMBlock(rand.Reader, "PRIVATE KEY", keyDER, []byte(Passphrase), x509.PEMCipherAES256)
	if err != nil {
		t.Fatal(err)
	}
	write(t, result.Key, pem.EncodeToMemory(keyBlock))

	if server != nil && server.Certificate() != nil {
		write(t, result.CA, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw}))
	}
	return result
}

// NewMutualTLSServer starts a TLS server which refuses connections without a client certificate
func NewMutualTLSServer(handler http.Handler) *httptest.Server {
	server := httptest.NewUnstartedServer(handler)
	server.TLS = &tls.Config{ClientAuth: tls.RequireAnyClientCert}
	server.StartTLS()
	return server
}

func write(t *testing.T, path string, data []byte) {
	if err := ioutil.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
}
