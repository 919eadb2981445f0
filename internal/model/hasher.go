package model

// PasswordHasher is the opaque hash/verify capability used for credential
// material. The service never inspects digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}
