package security_test

import (
	"strings"
	"testing"
	"time"

	"fastship/internal/adapters/out/security"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T) *security.JWTIssuer {
	t.Helper()
	issuer, err := security.NewJWTIssuer("secret", time.Hour, "seller", "partner")
	require.NoError(t, err)
	return issuer
}

func TestJWTIssuer(t *testing.T) {
	subject := ports.AccessSubject{ID: kernel.NewUUID(), Name: "Acme", Role: "seller"}

	t.Run("should round trip the subject, jti and expiry", func(t *testing.T) {
		issuer := newIssuer(t)

		token, err := issuer.Issue(subject)
		require.NoError(t, err)
		claims, err := issuer.Parse(token.Token)

		require.NoError(t, err)
		assert.True(t, claims.Subject.ID.IsEqual(subject.ID))
		assert.Equal(t, "Acme", claims.Subject.Name)
		assert.Equal(t, "seller", claims.Subject.Role)
		assert.Equal(t, token.JTI, claims.JTI)
		assert.True(t, token.ExpiresAt.Equal(claims.ExpiresAt))
	})

	t.Run("should issue a distinct jti each time", func(t *testing.T) {
		issuer := newIssuer(t)

		first, err := issuer.Issue(subject)
		require.NoError(t, err)
		second, err := issuer.Issue(subject)
		require.NoError(t, err)

		assert.NotEqual(t, first.JTI, second.JTI)
	})

	t.Run("should refuse an unknown role", func(t *testing.T) {
		_, err := newIssuer(t).Issue(ports.AccessSubject{ID: kernel.NewUUID(), Name: "x", Role: "admin"})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject expired, foreign and tampered tokens", func(t *testing.T) {
		issuer := newIssuer(t)
		issuer.SetClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
		expired, err := issuer.Issue(subject)
		require.NoError(t, err)
		issuer.SetClock(time.Now)

		other, err := security.NewJWTIssuer("other-secret", time.Hour, "seller")
		require.NoError(t, err)
		foreign, err := other.Issue(subject)
		require.NoError(t, err)

		partnerOnly, err := security.NewJWTIssuer("secret", time.Hour, "partner")
		require.NoError(t, err)

		valid, err := issuer.Issue(subject)
		require.NoError(t, err)

		for name, parse := range map[string]func() error{
			"expired":  func() error { _, err := issuer.Parse(expired.Token); return err },
			"foreign":  func() error { _, err := issuer.Parse(foreign.Token); return err },
			"tampered": func() error { _, err := issuer.Parse(valid.Token + "x"); return err },
			"garbage":  func() error { _, err := issuer.Parse("not-a-token"); return err },
			"audience": func() error { _, err := partnerOnly.Parse(valid.Token); return err },
		} {
			require.ErrorIs(t, parse(), errs.ErrInvalidToken, name)
		}
	})

	t.Run("should require a secret", func(t *testing.T) {
		_, err := security.NewJWTIssuer("", time.Hour, "seller")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestURLTokenCodec(t *testing.T) {
	newCodec := func(t *testing.T) *security.URLTokenCodec {
		t.Helper()
		codec, err := security.NewURLTokenCodec("secret", 24*time.Hour)
		require.NoError(t, err)
		return codec
	}

	t.Run("should decode the id with the same salt", func(t *testing.T) {
		codec := newCodec(t)
		id := kernel.NewUUID()

		token, err := codec.Encode(id, ports.SaltShipmentReview)
		require.NoError(t, err)
		got, err := codec.Decode(token, ports.SaltShipmentReview)

		require.NoError(t, err)
		assert.True(t, got.IsEqual(id))
		assert.False(t, strings.ContainsAny(token, "+/="), "token must be URL safe")
	})

	t.Run("should reject another purpose", func(t *testing.T) {
		codec := newCodec(t)
		token, err := codec.Encode(kernel.NewUUID(), ports.SaltEmailVerification)
		require.NoError(t, err)

		_, err = codec.Decode(token, ports.SaltPasswordReset)

		require.ErrorIs(t, err, errs.ErrInvalidToken)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		codec := newCodec(t)
		codec.SetClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
		token, err := codec.Encode(kernel.NewUUID(), ports.SaltPasswordReset)
		require.NoError(t, err)
		codec.SetClock(time.Now)

		_, err = codec.Decode(token, ports.SaltPasswordReset)

		require.ErrorIs(t, err, errs.ErrInvalidToken)
	})
}

func TestPasswordHasher(t *testing.T) {
	fast := security.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

	for _, algorithm := range []string{security.AlgorithmBcrypt, security.AlgorithmArgon2id} {
		t.Run("should verify "+algorithm+" hashes", func(t *testing.T) {
			base, err := security.NewPasswordHasher(algorithm)
			require.NoError(t, err)
			hasher := base.WithCost(4, fast)

			hash, err := hasher.Hash("correct horse")
			require.NoError(t, err)

			ok, err := hasher.Verify(hash, "correct horse")
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = hasher.Verify(hash, "wrong horse")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}

	t.Run("should verify hashes of the other algorithm", func(t *testing.T) {
		argon, err := security.NewPasswordHasher(security.AlgorithmArgon2id)
		require.NoError(t, err)
		bcryptHasher, err := security.NewPasswordHasher(security.AlgorithmBcrypt)
		require.NoError(t, err)

		hash, err := argon.WithCost(4, fast).Hash("secret-pass")
		require.NoError(t, err)
		ok, err := bcryptHasher.Verify(hash, "secret-pass")

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("should report malformed hashes", func(t *testing.T) {
		hasher, err := security.NewPasswordHasher("")
		require.NoError(t, err)

		_, err = hasher.Verify("$argon2id$broken", "x")
		require.Error(t, err)
		_, err = hasher.Verify("plain", "x")
		require.Error(t, err)
	})

	t.Run("should refuse an unknown algorithm", func(t *testing.T) {
		_, err := security.NewPasswordHasher("md5")

		require.Error(t, err)
	})
}
