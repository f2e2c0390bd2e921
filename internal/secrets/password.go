package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// Service groups this app's secrets in the OS keychain.
const Service = "jobscout"

// IMAPAccount is the keyring account name for a mailbox credential.
func IMAPAccount(username, host string) string {
	return fmt.Sprintf("jobscout:imap:%s@%s", username, host)
}

// GetIMAPPassword checks the keychain first, then the environment
// (JOBSCOUT_IMAP_PASSWORD) so CI runs work without a keychain.
func GetIMAPPassword(account string) (string, error) {
	if strings.TrimSpace(account) != "" {
		pw, err := keyring.Get(Service, account)
		if err == nil && strings.TrimSpace(pw) != "" {
			return pw, nil
		}
	}
	if pw := os.Getenv("JOBSCOUT_IMAP_PASSWORD"); strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	return "", errors.New("IMAP password not found (set it in keychain or JOBSCOUT_IMAP_PASSWORD)")
}

func SetIMAPPassword(account, password string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(Service, account, password)
}

func DeleteIMAPPassword(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(Service, account)
}
