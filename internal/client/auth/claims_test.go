package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func withPayload(payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + base64.RawURLEncoding.EncodeToString([]byte(payload)) + ".sig"
}

func TestDecodeClaims_ReadsPayloadWithoutVerifying(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"UserID": "u1", FirstLoginClaim: "True"})

	// signature tampered: decoding must not care
	claims, err := DecodeClaims(tok[:len(tok)-2] + "xx")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["UserID"])
}

func TestDecodeClaims_Malformed(t *testing.T) {
	for name, tok := range map[string]string{
		"empty":          "",
		"one segment":    "abc",
		"two segments":   "a.b",
		"bad base64":     "a.!!!.c",
		"not json":       withPayload("not json"),
		"json not obj":   withPayload(`[1,2]`),
		"four segments":  "a.b.c.d",
		"padded payload": "a." + base64.URLEncoding.EncodeToString([]byte(`{"a":1}x`)) + ".c",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeClaims(tok)
			require.ErrorIs(t, err, common.ErrDecode)
		})
	}
}

func TestFirstLogin(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"string true", withPayload(`{"FirstLogin":"True"}`), "True"},
		{"string false", withPayload(`{"FirstLogin":"False"}`), "False"},
		{"bool true", withPayload(`{"FirstLogin":true}`), "True"},
		{"bool false", withPayload(`{"FirstLogin":false}`), "False"},
		{"missing claim", withPayload(`{"sub":"x"}`), common.FirstLoginDefault},
		{"empty string", withPayload(`{"FirstLogin":""}`), common.FirstLoginDefault},
		{"number one", withPayload(`{"FirstLogin":1}`), "True"},
		{"number zero", withPayload(`{"FirstLogin":0}`), "False"},
		{"fraction", withPayload(`{"FirstLogin":0.5}`), "True"},
		{"object", withPayload(`{"FirstLogin":{}}`), common.FirstLoginDefault},
		{"malformed token", "garbage", common.FirstLoginDefault},
		{"invalid base64 payload", "x.%%%.y", common.FirstLoginDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, FirstLogin(tt.token))
			})
		})
	}
}

func TestFirstLogin_SignedToken(t *testing.T) {
	assert.Equal(t, "True", FirstLogin(signed(t, jwt.MapClaims{FirstLoginClaim: "True"})))
}

func TestExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	got, ok := ExpiresAt(signed(t, jwt.MapClaims{"exp": exp.Unix()}))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = ExpiresAt(signed(t, jwt.MapClaims{"sub": "x"}))
	assert.False(t, ok)

	_, ok = ExpiresAt(withPayload(`{"exp":"soon"}`))
	assert.False(t, ok)

	_, ok = ExpiresAt("nope")
	assert.False(t, ok)
}
