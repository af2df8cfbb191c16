package token_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-efact-client/token"
	"github.com/jrsteele09/go-efact-client/token/memstore"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Unix(1_700_000_000, 500_000_000)

func withClock(t *testing.T, now time.Time) {
	t.Helper()
	previous := token.NowTimeFunc
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = previous })
}

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func tokenExpiringAt(t *testing.T, exp int64) string {
	t.Helper()
	return signedToken(t, jwt.MapClaims{
		"user_name":   "jdoe",
		"authorities": []string{"ROLE_USER", "ROLE_DOCS"},
		"scope":       []string{"read"},
		"exp":         exp,
		"jti":         "jti-1",
		"client_id":   "efact-client",
	})
}

func segment(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestDecode(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		claims, ok := token.Decode(tokenExpiringAt(t, 1_800_000_000))
		require.True(t, ok)
		require.Equal(t, "jdoe", claims.UserName)
		require.Equal(t, jwt.ClaimStrings{"ROLE_USER", "ROLE_DOCS"}, claims.Authorities)
		require.Equal(t, jwt.ClaimStrings{"read"}, claims.Scope)
		require.Equal(t, "jti-1", claims.ID)
		require.Equal(t, "efact-client", claims.ClientID)
		require.Equal(t, int64(1_800_000_000), claims.ExpiresAt.Unix())
	})

	t.Run("signature is not checked", func(t *testing.T) {
		raw := segment(`{"alg":"RS256","typ":"JWT"}`) + "." + segment(`{"user_name":"jdoe","exp":1800000000}`) + ".not-a-signature"
		claims, ok := token.Decode(raw)
		require.True(t, ok)
		require.Equal(t, "jdoe", claims.UserName)
	})

	t.Run("unknown alg still yields claims", func(t *testing.T) {
		raw := segment(`{"alg":"XYZ"}`) + "." + segment(`{"user_name":"jdoe"}`) + ".sig"
		claims, ok := token.Decode(raw)
		require.True(t, ok)
		require.Equal(t, "jdoe", claims.UserName)
	})

	t.Run("header content is ignored", func(t *testing.T) {
		payload := segment(`{"user_name":"jdoe","exp":4102444800}`)
		for _, header := range []string{segment("not json"), "%%%", ""} {
			claims, ok := token.Decode(header + "." + payload + ".sig")
			require.True(t, ok, header)
			require.Equal(t, "jdoe", claims.UserName)
			require.Equal(t, int64(4102444800), claims.ExpiresAt.Unix())
		}
	})

	t.Run("string scope and authorities", func(t *testing.T) {
		raw := segment(`{"alg":"RS256"}`) + "." + segment(`{"user_name":"jdoe","scope":"openid profile","authorities":"ROLE_USER","exp":4102444800}`) + ".sig"
		claims, ok := token.Decode(raw)
		require.True(t, ok)
		require.Equal(t, jwt.ClaimStrings{"openid profile"}, claims.Scope)
		require.Equal(t, jwt.ClaimStrings{"ROLE_USER"}, claims.Authorities)
	})

	header := segment(`{"alg":"HS256","typ":"JWT"}`)
	malformed := map[string]string{
		"empty":               "",
		"two segments":        header + "." + segment(`{"user_name":"jdoe"}`),
		"four segments":       header + "." + segment(`{"user_name":"jdoe"}`) + ".sig.extra",
		"payload not base64":  header + ".%%%." + "sig",
		"payload not json":    header + "." + segment("not json") + ".sig",
		"payload json array":  header + "." + segment(`["user_name"]`) + ".sig",
		"exp is not a number": header + "." + segment(`{"exp":"tomorrow"}`) + ".sig",
		"authorities numeric": header + "." + segment(`{"authorities":42}`) + ".sig",
	}
	for name, raw := range malformed {
		t.Run(name, func(t *testing.T) {
			require.NotPanics(t, func() {
				claims, ok := token.Decode(raw)
				require.False(t, ok)
				require.Nil(t, claims)
			})
		})
	}
}

func TestIsExpired(t *testing.T) {
	withClock(t, fixedNow)
	nowSeconds := fixedNow.UnixMilli() / 1000

	t.Run("no token", func(t *testing.T) {
		require.True(t, token.IsExpired(memstore.New()))
	})

	t.Run("undecodable token", func(t *testing.T) {
		require.True(t, token.IsExpired(memstore.NewWithToken("garbage")))
	})

	t.Run("missing exp", func(t *testing.T) {
		raw := signedToken(t, jwt.MapClaims{"user_name": "jdoe"})
		require.True(t, token.IsExpired(memstore.NewWithToken(raw)))
	})

	t.Run("exp equal to now is expired", func(t *testing.T) {
		require.True(t, token.IsExpired(memstore.NewWithToken(tokenExpiringAt(t, nowSeconds))))
	})

	t.Run("one second before the boundary is valid", func(t *testing.T) {
		withClock(t, fixedNow.Add(-time.Second))
		require.False(t, token.IsExpired(memstore.NewWithToken(tokenExpiringAt(t, nowSeconds))))
	})

	t.Run("future exp", func(t *testing.T) {
		require.False(t, token.IsExpired(memstore.NewWithToken(tokenExpiringAt(t, nowSeconds+3600))))
	})
}

func TestCurrent(t *testing.T) {
	withClock(t, fixedNow)

	valid := tokenExpiringAt(t, fixedNow.Unix()+60)
	raw, ok := token.Current(memstore.NewWithToken(valid))
	require.True(t, ok)
	require.Equal(t, valid, raw)

	_, ok = token.Current(memstore.NewWithToken(tokenExpiringAt(t, fixedNow.Unix()-60)))
	require.False(t, ok)

	_, ok = token.Current(memstore.New())
	require.False(t, ok)
}

func TestCurrent_TolerantClaims(t *testing.T) {
	withClock(t, fixedNow)

	t.Run("undecodable header", func(t *testing.T) {
		raw := "%%%." + segment(`{"user_name":"jdoe","exp":4102444800}`) + ".sig"
		store := memstore.NewWithToken(raw)
		require.False(t, token.IsExpired(store))
		current, ok := token.Current(store)
		require.True(t, ok)
		require.Equal(t, raw, current)
	})

	t.Run("space separated scope", func(t *testing.T) {
		raw := signedToken(t, jwt.MapClaims{
			"user_name": "jdoe",
			"scope":     "openid profile",
			"exp":       fixedNow.Unix() + 60,
		})
		store := memstore.NewWithToken(raw)
		require.False(t, token.IsExpired(store))
		_, ok := token.Current(store)
		require.True(t, ok)
	})
}
