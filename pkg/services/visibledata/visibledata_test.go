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
	"strings"
	"testing"
	"time"

	"github.com/goodsign/monday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(t *testing.T) {
	stockholm, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)
	NowFunc = func() time.Time {
		return time.Date(2019, 4, 3, 16, 36, 6, 0, stockholm)
	}
	t.Cleanup(func() {
		NowFunc = time.Now
	})
}

func TestTemplate_Render(t *testing.T) {
	fixedNow(t)

	t.Run("ok - English date", func(t *testing.T) {
		template := Template{Text: "I log in at {{organization}} on {{date}}", Locale: monday.LocaleEnUS}
		result, err := template.Render(map[string]string{"organization": "Testbank"})
		require.NoError(t, err)
		assert.Equal(t, "I log in at Testbank on Wednesday, 3 April 2019 16:36:06", result)
	})

	t.Run("ok - Swedish by default", func(t *testing.T) {
		template := Template{Text: "{{date}}"}
		result, err := template.Render(nil)
		require.NoError(t, err)
		expected := monday.Format(NowFunc(), timeLayout, monday.LocaleSvSE)
		assert.Equal(t, expected, result)
		assert.NotContains(t, result, "Wednesday")
	})

	t.Run("ok - vars are not modified", func(t *testing.T) {
		vars := map[string]string{"a": "b"}
		_, err := Template{Text: "{{a}}"}.Render(vars)
		require.NoError(t, err)
		assert.Len(t, vars, 1)
	})

	t.Run("nok - invalid template", func(t *testing.T) {
		_, err := Template{Text: "{{#open}}"}.Render(nil)
		assert.Error(t, err)
	})
}

func TestTemplate_Encode(t *testing.T) {
	fixedNow(t)

	encoded, err := Template{Text: "Sign {{what}}", Locale: monday.LocaleEnUS}.Encode(map[string]string{"what": "this"})
	require.NoError(t, err)
	decoded, _ := base64.StdEncoding.DecodeString(encoded)
	assert.Equal(t, "Sign this", string(decoded))
}

func TestEncode(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		encoded, err := EncodeVisible("test")
		require.NoError(t, err)
		assert.Equal(t, "dGVzdA==", encoded)
	})

	t.Run("nok - visible data too large", func(t *testing.T) {
		_, err := EncodeVisible(strings.Repeat("a", 30001))
		assert.True(t, errors.Is(err, ErrTooLarge))
	})

	t.Run("ok - non visible data allows more", func(t *testing.T) {
		_, err := EncodeNonVisible(strings.Repeat("a", 30001))
		assert.NoError(t, err)
	})
}

func TestParseLocale(t *testing.T) {
	t.Run("ok - default", func(t *testing.T) {
		locale, err := ParseLocale("")
		assert.NoError(t, err)
		assert.Equal(t, monday.Locale(monday.LocaleSvSE), locale)
	})

	t.Run("ok - known", func(t *testing.T) {
		locale, err := ParseLocale("en_US")
		assert.NoError(t, err)
		assert.Equal(t, monday.Locale(monday.LocaleEnUS), locale)
	})

	t.Run("nok - unknown", func(t *testing.T) {
		_, err := ParseLocale("xx_XX")
		assert.True(t, errors.Is(err, ErrUnknownLocale))
	})
}
