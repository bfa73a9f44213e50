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
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"
	"software.sslmate.com/src/go-pkcs12"
)

// LoadPKCS12 reads a PKCS#12 (pfx/p12) bundle from disk and decrypts it with the passphrase. The certificate which
// belongs to the private key is returned as leaf, other certificates in the bundle are added as chain.
func LoadPKCS12(path, passphrase string) (tls.Certificate, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, errors.Wrapf(err, "could not read pkcs12 bundle %s", path)
	}
	return ParsePKCS12(raw, passphrase)
}

// ParsePKCS12 decodes a PKCS#12 bundle. Both legacy (SHA-1 MAC, 3DES/RC2) and current (SHA-256 MAC, PBES2/AES)
// bundles are accepted.
func ParsePKCS12(raw []byte, passphrase string) (tls.Certificate, error) {
	key, leaf, chain, err := pkcs12.DecodeChain(raw, passphrase)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "could not decode pkcs12 bundle")
	}
	if key == nil || leaf == nil {
		return tls.Certificate{}, errors.New("pkcs12 bundle must contain a certificate and a private key")
	}

	cert := tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, ca := range chain {
		cert.Certificate = append(cert.Certificate, ca.Raw)
	}
	return cert, nil
}

// LoadKeyPair reads a PEM certificate and a PEM private key from disk. When the key is encrypted it is decrypted with
// the passphrase, an unencrypted key ignores the passphrase.
func LoadKeyPair(certPath, keyPath, passphrase string) (tls.Certificate, error) {
	certPEM, err := ioutil.ReadFile(certPath)
	if err != nil {
		return tls.Certificate{}, errors.Wrapf(err, "could not read certificate %s", certPath)
	}
	keyPEM, err := ioutil.ReadFile(keyPath)
	if err != nil {
		return tls.Certificate{}, errors.Wrapf(err, "could not read private key %s", keyPath)
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return tls.Certificate{}, errors.Errorf("could not decode PEM block in %s", keyPath)
	}
	if x509.IsEncryptedPEMBlock(keyBlock) {
		der, err := x509.DecryptPEMBlock(keyBlock, []byte(passphrase))
		if err != nil {
			return tls.Certificate{}, errors.Wrap(err, "could not decrypt private key")
		}
		keyPEM = pem.EncodeToMemory(&pem.Block{Type: keyBlock.Type, Bytes: der})
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "invalid key pair")
	}
	return cert, nil
}

// LoadCAPool reads a PEM bundle with one or more CA certificates
func LoadCAPool(path string) (*x509.CertPool, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read CA bundle %s", path)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(raw) {
		return nil, errors.Errorf("no certificates found in CA bundle %s", path)
	}
	return pool, nil
}

// Leaf returns the parsed leaf certificate of a key pair
func Leaf(cert tls.Certificate) (*x509.Certificate, error) {
	if cert.Leaf != nil {
		return cert.Leaf, nil
	}
	if len(cert.Certificate) == 0 {
		return nil, errors.New("key pair has no certificate")
	}
	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, errors.Wrap(err, "could not parse leaf certificate")
	}
	return leaf, nil
}

// NewTLSConfig returns a client TLS config presenting cert. When roots is nil the system roots are used.
// insecure disables verification of the server certificate.
func NewTLSConfig(cert tls.Certificate, roots *x509.CertPool, insecure bool) *tls.Config {
	return &tls.Config{
		Certificates:       []tls.Certificate{cert},
		RootCAs:            roots,
		InsecureSkipVerify: insecure,
		MinVersion:         tls.VersionTLS12,
	}
}

// NewHTTPClient returns a http client which does every request over mutual TLS with the given config.
// No timeout is set, callers bound their calls with a context.
func NewHTTPClient(tlsConfig *tls.Config) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: tlsConfig,
		},
	}
}
