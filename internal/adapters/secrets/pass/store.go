package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kvasek/betterschedule/internal/domain"
	"github.com/kvasek/betterschedule/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

// Store keeps credentials in the local `pass` password store. Reads go
// through gpg, whose pinentry dialog is the user-presence gate: the
// user can refuse it, which maps to domain.ErrAuthenticationDenied and
// must be handled distinctly from a missing entry. Entries never leave
// the local gpg keyring; re-keying the store makes old entries
// unreadable, which surfaces as not-found rather than a crash.
type Store struct {
	run runFunc
}

var _ ports.CredentialStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{run: runPassCommand}
}

func (s *Store) Save(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// insert -f overwrites an existing entry, keeping Save idempotent.
	_, stderr, err := s.run(ctx, value+"\n", "insert", "-m", "-f", key)
	if err != nil {
		return formatError("save", key, err, stderr)
	}

	return nil
}

func (s *Store) Read(ctx context.Context, key string, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// pinentry owns the unlock dialog; the caller's prompt cannot be
	// injected into it, so it only travels with the error context.
	stdout, stderr, err := s.run(ctx, "", "show", key)
	if err != nil {
		if mapped := classifyReadFailure(stderr); mapped != nil {
			return "", fmt.Errorf("pass read %q (%s): %w", key, prompt, mapped)
		}
		return "", formatError("read", key, err, stderr)
	}

	stdout = strings.TrimSuffix(stdout, "\n")
	stdout = strings.TrimSuffix(stdout, "\r")

	return stdout, nil
}

func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, stderr, err := s.run(ctx, "", "rm", "-f", key)
	if err != nil {
		if classifyReadFailure(stderr) == domain.ErrCredentialNotFound {
			return false, nil
		}
		return false, formatError("delete", key, err, stderr)
	}

	return true, nil
}

func classifyReadFailure(stderr string) error {
	lowered := strings.ToLower(stderr)
	switch {
	case strings.Contains(lowered, "is not in the password store"):
		return domain.ErrCredentialNotFound
	case strings.Contains(lowered, "decryption failed"),
		strings.Contains(lowered, "operation cancelled"):
		return domain.ErrAuthenticationDenied
	}
	return nil
}

func runPassCommand(ctx context.Context, input string, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", ErrUnavailable
		}
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	cmd := exec.CommandContext(ctx, path, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}

func formatError(op string, key string, err error, stderr string) error {
	if stderr == "" {
		return fmt.Errorf("pass %s %q: %w", op, key, err)
	}

	return fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
}
