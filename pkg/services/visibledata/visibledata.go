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

package visibledata

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/goodsign/monday"
)

const (
	// DateAttr is filled with the current time when a template is rendered
	DateAttr = "date"
	// MaxUserVisibleData is the largest base64 encoded userVisibleData BankID accepts
	MaxUserVisibleData = 40000
	// MaxUserNonVisibleData is the largest base64 encoded userNonVisibleData BankID accepts
	MaxUserNonVisibleData = 200000

	timeLayout = "Monday, 2 January 2006 15:04:05"
)

// DefaultLocale is used when no locale is configured
const DefaultLocale = monday.Locale(monday.LocaleSvSE)

// ErrTooLarge is returned when the encoded text exceeds what BankID accepts
var ErrTooLarge = errors.New("encoded data too large")

// ErrUnknownLocale is returned by ParseLocale for locales the date formatter does not know
var ErrUnknownLocale = errors.New("unknown locale")

// NowFunc returns the current time, tests replace it.
var NowFunc = time.Now

// Template renders the text shown to the user in the BankID app
type Template struct {
	Text   string
	Locale monday.Locale
}

func (t Template) timeLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		return time.UTC
	}
	return loc
}

// Render fills the template with vars. The DateAttr var is set to the current time in Swedish local time.
func (t Template) Render(vars map[string]string) (string, error) {
	locale := t.Locale
	if locale == "" {
		locale = DefaultLocale
	}
	params := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		params[k] = v
	}
	params[DateAttr] = monday.Format(NowFunc().In(t.timeLocation()), timeLayout, locale)

	return mustache.Render(t.Text, params)
}

// Encode renders the template and returns it base64 encoded as userVisibleData.
func (t Template) Encode(vars map[string]string) (string, error) {
	text, err := t.Render(vars)
	if err != nil {
		return "", err
	}
	return EncodeVisible(text)
}

// EncodeVisible base64 encodes a plain text for userVisibleData
func EncodeVisible(text string) (string, error) {
	return encode(text, MaxUserVisibleData)
}

// EncodeNonVisible base64 encodes data for userNonVisibleData
func EncodeNonVisible(data string) (string, error) {
	return encode(data, MaxUserNonVisibleData)
}

func encode(data string, max int) (string, error) {
	encoded := base64.StdEncoding.EncodeToString([]byte(data))
	if len(encoded) > max {
		return "", fmt.Errorf("%w: %d characters, maximum is %d", ErrTooLarge, len(encoded), max)
	}
	return encoded, nil
}

// ParseLocale checks the locale is supported by the date formatter. An empty string gives DefaultLocale.
func ParseLocale(locale string) (monday.Locale, error) {
	if locale == "" {
		return DefaultLocale, nil
	}
	for _, l := range monday.ListLocales() {
		if string(l) == locale {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownLocale, locale)
}
