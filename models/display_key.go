package models

import "time"

// DisplayKey authenticates read-only overlay and scoreboard clients on the
// public API. Keys are presented as "<id>.<secret>"; only the bcrypt hash
// of the secret is stored. Issuance happens out of band.
type DisplayKey struct {
	ID         int        `json:"id"`
	Label      string     `json:"label"`
	SecretHash string     `json:"-"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (k *DisplayKey) Revoked() bool {
	return k.RevokedAt != nil
}
