package ports

import (
	"context"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
)

// ShipmentNotice tells the notification pipeline that a shipment reached a status.
type ShipmentNotice struct {
	ShipmentID kernel.UUID
	Status     shipment.Status
}

// ShipmentNotifier hands notices to the asynchronous notification pipeline.
// Delivery is best effort: implementations log failures and never report them.
type ShipmentNotifier interface {
	Notify(ctx context.Context, notice ShipmentNotice)
}

// VerificationCodeStore keeps the delivery verification code of a shipment with an expiry.
type VerificationCodeStore interface {
	// Put stores code for the shipment, replacing any previous one, for the store's TTL.
	Put(ctx context.Context, shipmentID kernel.UUID, code string) error

	// Consume deletes the stored code if and only if it equals code, atomically.
	// It reports false for a mismatch or a missing (expired) code.
	Consume(ctx context.Context, shipmentID kernel.UUID, code string) (bool, error)
}

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// AccessSubject is the account an access token is issued for.
type AccessSubject struct {
	ID   kernel.UUID
	Name string
	Role string
}

// AccessToken is a signed bearer token and its identifying claims.
type AccessToken struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// AccessClaims are the verified claims of an access token.
type AccessClaims struct {
	Subject   AccessSubject
	JTI       string
	ExpiresAt time.Time
}

// AccessTokenIssuer issues and verifies short lived access tokens.
type AccessTokenIssuer interface {
	Issue(subject AccessSubject) (AccessToken, error)
	// Parse fails with errs.ErrInvalidToken on a bad signature, audience or expiry.
	Parse(token string) (AccessClaims, error)
}

// URL token salts separate the purposes of out-of-band links.
const (
	SaltEmailVerification = "email-verification"
	SaltPasswordReset     = "password-reset"
	SaltShipmentReview    = "shipment-review"
)

// URLTokenCodec encodes an entity id into a signed, salted, expiring token fit for a URL.
type URLTokenCodec interface {
	Encode(id kernel.UUID, salt string) (string, error)
	// Decode fails with errs.ErrInvalidToken on a bad signature, a different salt or expiry.
	Decode(token, salt string) (kernel.UUID, error)
}

// TokenBlacklist records revoked access tokens until they would have expired anyway.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Mail is a templated e-mail message.
type Mail struct {
	To       kernel.Email
	Subject  string
	Template string
	Data     map[string]any
}

// Mailer renders and sends templated e-mail.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// SMSSender sends a text message to a phone number.
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}
