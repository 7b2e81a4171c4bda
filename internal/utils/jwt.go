package utils // package utils provides helpers shared by the services and bookingctl

import (
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT and its expiry.
type AccessToken struct {
    Token string
    Exp   time.Time
}

// NewAccessToken signs a token carrying sub, role, iat and exp claims.
// The services only check the role; sub names the operator for logs and
// rate limiting.
func NewAccessToken(secret, subject, role string, ttl time.Duration) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
        "sub":  subject,
        "role": role,
        "iat":  now.Unix(),
        "exp":  exp.Unix(),
    })
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}
