package utils

import (
	"os"
	"os/user"
)

// GetUsername returns the login name of the current user, falling back to
// $USER or $USERNAME when the user database has no entry (as in some containers).
func GetUsername() (string, error) {
	u, err := user.Current()
	if err == nil && u.Username != "" {
		return u.Username, nil
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if name := os.Getenv(key); name != "" {
			return name, nil
		}
	}
	return "", err
}

// GetHostname returns the machine name recorded in audit entries.
func GetHostname() (string, error) {
	return os.Hostname()
}
