package rest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQRData(t *testing.T) {
	token := "67df3917-fa0d-44e5-b327-edcc928297f8"
	secret := "d28db9a7-4cde-429e-a983-359be676944c"

	data := QRData(token, secret, 1500*time.Millisecond)
	parts := strings.Split(data, ".")
	if !assert.Len(t, parts, 4) {
		return
	}
	assert.Equal(t, "bankid", parts[0])
	assert.Equal(t, token, parts[1])
	assert.Equal(t, "1", parts[2])

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("1"))
	assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), parts[3])

	assert.NotEqual(t, data, QRData(token, secret, 2*time.Second))
}

func TestAutoStartURL(t *testing.T) {
	assert.Equal(t, "bankid:///?autostarttoken=abc&redirect=null", AutoStartURL("abc"))
}
