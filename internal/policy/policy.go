package policy

import (
	"strings"

	"backend/internal/config"
)

// AccessPolicy answers role questions for an identity (an email address)
// against static allow-lists. It is stateless: unknown identities evaluate
// false everywhere, there are no error conditions.
//
// Identities are normalized (lower-case, trimmed) on both sides before
// comparison, so callers may pass emails exactly as entered.
type AccessPolicy struct {
	admins           map[string]struct{}
	superAdmins      map[string]struct{}
	customerManagers map[string]struct{}
}

// New builds an AccessPolicy from configuration. Super-admins are implicitly
// authorized admins and customer managers.
func New(cfg config.AccessConfig) *AccessPolicy {
	p := &AccessPolicy{
		admins:           make(map[string]struct{}),
		superAdmins:      make(map[string]struct{}),
		customerManagers: make(map[string]struct{}),
	}
	for _, email := range cfg.AdminEmails {
		p.admins[Normalize(email)] = struct{}{}
	}
	for _, email := range cfg.SuperAdminEmails {
		key := Normalize(email)
		p.superAdmins[key] = struct{}{}
		p.admins[key] = struct{}{}
		p.customerManagers[key] = struct{}{}
	}
	for _, email := range cfg.CustomerManagerEmails {
		p.customerManagers[Normalize(email)] = struct{}{}
	}
	return p
}

// Normalize is the single identity-normalization rule used across the
// application: trim surrounding whitespace and lower-case.
func Normalize(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}

// IsAuthorizedAdmin reports whether the identity may use the admin panel at all.
func (p *AccessPolicy) IsAuthorizedAdmin(identity string) bool {
	_, ok := p.admins[Normalize(identity)]
	return ok
}

// IsSuperAdmin reports whether the identity may apply mutations directly and
// review others' requests.
func (p *AccessPolicy) IsSuperAdmin(identity string) bool {
	_, ok := p.superAdmins[Normalize(identity)]
	return ok
}

// CanManageCustomers reports whether the identity may create and delete customers.
func (p *AccessPolicy) CanManageCustomers(identity string) bool {
	_, ok := p.customerManagers[Normalize(identity)]
	return ok
}
