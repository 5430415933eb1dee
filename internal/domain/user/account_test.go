// internal/domain/user/account_test.go
package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAccountTest(t *testing.T, cfg *config.Config) (*AdminService, *gorm.DB) {
	t.Helper()

	dsn := "file:account_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)

	// No Redis server runs in tests; the client points at a closed port so
	// credential cleanup fails fast when a test reaches it.
	rc := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	return NewAdminService(db, rc, cfg, l), db
}

func seedUser(t *testing.T, db *gorm.DB, email string, isAdmin bool) *User {
	t.Helper()
	u := &User{Email: email, Password: "x", IsActive: true, IsAdmin: isAdmin}
	require.NoError(t, db.Create(u).Error)
	return u
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	var accErr *AccountError
	require.ErrorAs(t, err, &accErr)
	assert.Equal(t, kind, accErr.Kind)
}

func TestDeleteCustomerAccount_RequiresAuthentication(t *testing.T) {
	svc, _ := setupAccountTest(t, &config.Config{})

	_, err := svc.DeleteCustomerAccount(0, 5)
	requireKind(t, err, ErrKindUnauthenticated)
}

func TestDeleteCustomerAccount_RequiresTargetID(t *testing.T) {
	svc, _ := setupAccountTest(t, &config.Config{})

	_, err := svc.DeleteCustomerAccount(1, 0)
	requireKind(t, err, ErrKindInvalidArgument)
}

func TestDeleteCustomerAccount_UnknownCallerIsUnauthenticated(t *testing.T) {
	svc, _ := setupAccountTest(t, &config.Config{})

	_, err := svc.DeleteCustomerAccount(999, 5)
	requireKind(t, err, ErrKindUnauthenticated)
}

func TestDeleteCustomerAccount_NonAdminCallerIsDenied(t *testing.T) {
	svc, db := setupAccountTest(t, &config.Config{})
	caller := seedUser(t, db, "customer@example.com", false)
	target := seedUser(t, db, "victim@example.com", false)

	_, err := svc.DeleteCustomerAccount(caller.ID, target.ID)
	requireKind(t, err, ErrKindPermissionDenied)
}

// The stored record is what counts, not token claims: an account whose admin
// flag was revoked after its token was issued must still be denied. The one
// exception is the configured super-admin email.
func TestDeleteCustomerAccount_SuperAdminEmailIsPromoted(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.SuperAdminEmail = "owner@example.com"
	svc, db := setupAccountTest(t, cfg)

	// Stored record says non-admin, but the email matches.
	caller := seedUser(t, db, "owner@example.com", false)
	target := seedUser(t, db, "victim@example.com", false)

	// Role check passes; the deletion then fails on credential cleanup
	// because no Redis is reachable, which maps to the internal kind — not
	// permission-denied.
	_, err := svc.DeleteCustomerAccount(caller.ID, target.ID)
	requireKind(t, err, ErrKindInternal)
}

func TestAccountError_Formatting(t *testing.T) {
	err := newAccountError(ErrKindPermissionDenied, "admin role required", nil)
	assert.Equal(t, "permission-denied: admin role required", err.Error())

	wrapped := newAccountError(ErrKindInternal, "boom", assert.AnError)
	assert.Contains(t, wrapped.Error(), "internal: boom")
	assert.ErrorIs(t, wrapped, assert.AnError)
}

func TestEffectiveIsAdmin(t *testing.T) {
	cfg := &config.Config{}
	cfg.Security.SuperAdminEmail = "owner@example.com"

	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	svc := NewService(nil, cfg, l)

	assert.True(t, svc.EffectiveIsAdmin(&User{Email: "owner@example.com", IsAdmin: false}))
	assert.True(t, svc.EffectiveIsAdmin(&User{Email: "staff@example.com", IsAdmin: true}))
	assert.False(t, svc.EffectiveIsAdmin(&User{Email: "customer@example.com", IsAdmin: false}))
}
