package users

import (
	"context"
	"fmt"
)

// Logger is the minimal structured logging surface this package needs.
// glog loggers satisfy it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

// PasswordAuthenticator hashes and verifies password secrets.
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// SecretGenerator produces random secrets for password resets.
type SecretGenerator interface {
	RandomSecret(byteLength int) (string, error)
}

// SecretSender is the credential delivery collaborator. It receives the
// plaintext reset secret exactly once; implementations must not persist it.
type SecretSender interface {
	SendNewSecret(ctx context.Context, email, plaintextSecret string) error
}

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }

func (d defLogger) print(level, msg string, args ...any) {
	out := append([]any{"[" + level + "] USERS " + msg}, args...)
	fmt.Println(out...)
}
