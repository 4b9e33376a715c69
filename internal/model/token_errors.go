package model

import "errors"

// Refresh flow rejections. All three map to an unauthorized response; they
// are distinct so the audit log can tell a replayed token from a stale one.
var (
	ErrTokenRevoked  = errors.New("refresh token revoked")
	ErrTokenExpired  = errors.New("refresh token expired")
	ErrTokenMismatch = errors.New("refresh token mismatch")
)
