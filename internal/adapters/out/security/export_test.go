package security

import "time"

func (i *JWTIssuer) SetClock(now func() time.Time) {
	i.now = now
}

func (c *URLTokenCodec) SetClock(now func() time.Time) {
	c.now = now
}
