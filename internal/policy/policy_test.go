package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"backend/internal/config"
)

func testConfig() config.AccessConfig {
	return config.AccessConfig{
		AdminEmails:           []string{"imeshi@example.com", "vishwa@example.com", "saman@example.com", "dilshan@example.com"},
		SuperAdminEmails:      []string{"imeshi@example.com", "vishwa@example.com"},
		CustomerManagerEmails: []string{"dilshan@example.com"},
	}
}

func TestSuperAdminImpliesAdminAndCustomerManager(t *testing.T) {
	p := New(testConfig())

	require.True(t, p.IsSuperAdmin("imeshi@example.com"))
	require.True(t, p.IsAuthorizedAdmin("imeshi@example.com"))
	require.True(t, p.CanManageCustomers("imeshi@example.com"))
}

func TestPlainAdminIsNotSuperAdmin(t *testing.T) {
	p := New(testConfig())

	require.True(t, p.IsAuthorizedAdmin("saman@example.com"))
	require.False(t, p.IsSuperAdmin("saman@example.com"))
	require.False(t, p.CanManageCustomers("saman@example.com"))
}

func TestCustomerManagerWithoutSuperAdmin(t *testing.T) {
	p := New(testConfig())

	require.True(t, p.CanManageCustomers("dilshan@example.com"))
	require.False(t, p.IsSuperAdmin("dilshan@example.com"))
}

func TestUnknownIdentityEvaluatesFalseEverywhere(t *testing.T) {
	p := New(testConfig())

	require.False(t, p.IsAuthorizedAdmin("stranger@example.com"))
	require.False(t, p.IsSuperAdmin("stranger@example.com"))
	require.False(t, p.CanManageCustomers("stranger@example.com"))
	require.False(t, p.IsAuthorizedAdmin(""))
}

func TestIdentityNormalization(t *testing.T) {
	p := New(config.AccessConfig{
		AdminEmails:      []string{"  Imeshi@Example.COM "},
		SuperAdminEmails: []string{"VISHWA@example.com"},
	})

	require.True(t, p.IsAuthorizedAdmin("imeshi@example.com"))
	require.True(t, p.IsAuthorizedAdmin(" IMESHI@EXAMPLE.COM"))
	require.True(t, p.IsSuperAdmin("vishwa@example.com "))
}
