package auth

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"employee-feedback/src/models"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin123"
)

// CredentialStore checks a username/password pair.
type CredentialStore interface {
	Check(username, password string) (*models.Principal, bool)
}

type account struct {
	principal models.Principal
	hash      []byte
}

// StaticCredentials is a fixed set of admin accounts with bcrypt hashes.
type StaticCredentials struct {
	accounts map[string]account
	dummy    []byte
}

// ParseCredentials reads "user:bcryptHash[:role],..." entries. Account ids
// are assigned by position starting at 1. An empty value yields the
// development account admin/admin123.
func ParseCredentials(raw string) (*StaticCredentials, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DevelopmentCredentials()
	}

	creds := &StaticCredentials{accounts: map[string]account{}}
	for i, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("invalid credential entry %d: want user:hash[:role]", i+1)
		}
		if _, err := bcrypt.Cost([]byte(parts[1])); err != nil {
			return nil, fmt.Errorf("invalid bcrypt hash for %q: %w", parts[0], err)
		}
		role := models.RoleAdmin
		if len(parts) == 3 && parts[2] != "" {
			role = parts[2]
		}
		if _, dup := creds.accounts[parts[0]]; dup {
			return nil, fmt.Errorf("duplicate credential entry for %q", parts[0])
		}
		creds.accounts[parts[0]] = account{
			principal: models.Principal{ID: strconv.Itoa(len(creds.accounts) + 1), Username: parts[0], Role: role},
			hash:      []byte(parts[1]),
		}
	}
	if len(creds.accounts) == 0 {
		return nil, fmt.Errorf("no credential entries found")
	}
	creds.dummy = creds.anyHash()
	return creds, nil
}

// DevelopmentCredentials returns the single admin/admin123 account.
func DevelopmentCredentials() (*StaticCredentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &StaticCredentials{
		accounts: map[string]account{
			defaultAdminUsername: {
				principal: models.Principal{ID: "1", Username: defaultAdminUsername, Role: models.RoleAdmin},
				hash:      hash,
			},
		},
		dummy: hash,
	}, nil
}

// Check reports the principal for a matching username and password.
// Unknown users still pay for one bcrypt comparison.
func (c *StaticCredentials) Check(username, password string) (*models.Principal, bool) {
	acc, ok := c.accounts[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(c.dummy, []byte(password))
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, false
	}
	p := acc.principal
	return &p, true
}

func (c *StaticCredentials) anyHash() []byte {
	for _, acc := range c.accounts {
		return acc.hash
	}
	return nil
}
