// Package auth reads advisory claims from session tokens on the client.
//
// Nothing here verifies signatures: the payload segment is only decoded, and
// the values are used for UX hints, never for trust decisions.
package auth

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// FirstLoginClaim names the claim carrying the first-login flag.
const FirstLoginClaim = "FirstLogin"

var parser = jwt.NewParser()

// DecodeClaims decodes the payload segment of a compact JWS. Errors wrap
// common.ErrDecode.
func DecodeClaims(token string) (jwt.MapClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: token has %d segments", common.ErrDecode, len(parts))
	}

	raw, err := parser.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%w: token payload: %w", common.ErrDecode, err)
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: token claims: %w", common.ErrDecode, err)
	}
	return claims, nil
}

// FirstLogin returns the first-login claim of token as a string. Booleans
// render as "True"/"False", numbers as "True" when non-zero. Any decode failure or a missing claim yields
// common.FirstLoginDefault.
func FirstLogin(token string) string {
	claims, err := DecodeClaims(token)
	if err != nil {
		return common.FirstLoginDefault
	}

	switch v := claims[FirstLoginClaim].(type) {
	case string:
		if v == "" {
			return common.FirstLoginDefault
		}
		return v
	case bool:
		return render(v)
	case float64:
		return render(v != 0)
	default:
		return common.FirstLoginDefault
	}
}

func render(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// ExpiresAt returns the exp claim of token, if it can be read.
func ExpiresAt(token string) (time.Time, bool) {
	claims, err := DecodeClaims(token)
	if err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
