package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/terraincognita07/lullaby/internal/security"
)

// RunIssueTokenCommand prints a bearer token for a device shell.
func RunIssueTokenCommand(out io.Writer, secretKey []byte, device string, ttl time.Duration, now time.Time) error {
	device = strings.TrimSpace(device)
	if device == "" {
		return errors.New("device name is required")
	}
	if ttl <= 0 {
		return errors.New("token ttl must be positive")
	}

	token, err := security.IssueDeviceToken(secretKey, device, ttl, now)
	if err != nil {
		return fmt.Errorf("issue device token: %w", err)
	}

	fmt.Fprintf(out, "Device: %s\n", device)
	fmt.Fprintf(out, "Expires: %s\n", now.Add(ttl).UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "Token: %s\n", token)
	return nil
}
