package outbound

import "time"

// TokenIssuer mints signed access tokens for authenticated sessions.
type TokenIssuer interface {
	Issue(userID, email string) (token string, expiresAt time.Time, err error)
}
