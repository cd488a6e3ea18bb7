package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/training-crm-api/internal/models"
	"github.com/noah-isme/training-crm-api/internal/repository"
	appErrors "github.com/noah-isme/training-crm-api/pkg/errors"
)

var testDirector = DirectorCredential{Email: "director@example.com", Code: "0000", Name: "Nabi"}

type authFixture struct {
	kv       *repository.MemoryKV
	staff    *StaffService
	auth     *AuthService
	sessions *repository.SessionRepository
}

func newAuthFixture(t *testing.T, accounts []models.StaffAccount) authFixture {
	t.Helper()
	kv := repository.NewMemoryKV()
	store := newStore(t, kv, repository.KeyStaff, accounts, nil)
	sessions := repository.NewSessionRepository(kv, nil)
	staff := NewStaffService(store, testDirector, nil, nil)
	staff.cost = bcrypt.MinCost
	auth := NewAuthService(store, sessions, testDirector, nil, nil, AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "training-crm-api",
	})
	return authFixture{kv: kv, staff: staff, auth: auth, sessions: sessions}
}

func hashedAccount(t *testing.T, id, email, code string) models.StaffAccount {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	return models.StaffAccount{ID: id, Name: "Manager " + id, Email: email, CodeHash: string(hash), Role: models.RoleManager}
}

func TestLoginAsDirectorIgnoresStaffCollection(t *testing.T) {
	f := newAuthFixture(t, []models.StaffAccount{hashedAccount(t, "u1", "director@example.com", "1111")})

	resp, err := f.auth.Login(context.Background(), models.LoginRequest{Email: "director@example.com", Code: "0000"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDirector, resp.Account.Role)
	assert.Equal(t, models.DirectorAccountID, resp.Account.ID)
	assert.Equal(t, "Nabi", resp.Account.Name)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginAsManagerScenario(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, []models.StaffAccount{hashedAccount(t, "u1", "a@x.com", "1234")})

	resp, err := f.auth.Login(ctx, models.LoginRequest{Email: "A@X.com", Code: "1234"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, resp.Account.Role)
	assert.Equal(t, "u1", resp.Account.ID)

	session, err := f.auth.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.Account.ID)
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, []models.StaffAccount{hashedAccount(t, "u1", "a@x.com", "1234")})

	_, wrongCode := f.auth.Login(ctx, models.LoginRequest{Email: "a@x.com", Code: "9999"})
	_, unknown := f.auth.Login(ctx, models.LoginRequest{Email: "nobody@x.com", Code: "1234"})
	_, directorCase := f.auth.Login(ctx, models.LoginRequest{Email: "DIRECTOR@example.com", Code: "0000"})

	for _, err := range []error{wrongCode, unknown, directorCase} {
		require.Error(t, err)
		appErr := appErrors.FromError(err)
		assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
		assert.Equal(t, "invalid email or access code", appErr.Message)
	}

	_, err := f.auth.Session(ctx)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestLoginUnknownEmailStillComparesCode(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, []models.StaffAccount{hashedAccount(t, "u1", "a@x.com", "1234")})

	var hashes [][]byte
	f.auth.compareCode = func(hash, code []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, code)
	}

	_, err := f.auth.Login(ctx, models.LoginRequest{Email: "nobody@x.com", Code: "1234"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	require.Len(t, hashes, 1)
	cost, err := bcrypt.Cost(hashes[0])
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)

	_, err = f.auth.Login(ctx, models.LoginRequest{Email: "a@x.com", Code: "9999"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
	assert.Len(t, hashes, 2)
}

func TestLoginAcceptsNonEmailDirectorID(t *testing.T) {
	kv := repository.NewMemoryKV()
	store := newStore[models.StaffAccount](t, kv, repository.KeyStaff, nil, nil)
	director := DirectorCredential{Email: "admin", Code: "0000", Name: "Nabi"}
	auth := NewAuthService(store, repository.NewSessionRepository(kv, nil), director, nil, nil, AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
	})

	resp, err := auth.Login(context.Background(), models.LoginRequest{Email: "admin", Code: "0000"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDirector, resp.Account.Role)

	_, err = auth.Login(context.Background(), models.LoginRequest{Email: "", Code: "0000"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAuthenticateIsBoundToSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, []models.StaffAccount{hashedAccount(t, "u1", "a@x.com", "1234")})

	resp, err := f.auth.Login(ctx, models.LoginRequest{Email: "a@x.com", Code: "1234"})
	require.NoError(t, err)

	account, err := f.auth.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", account.ID)

	require.NoError(t, f.auth.Logout(ctx, account.ID))
	_, err = f.auth.Authenticate(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = f.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthenticateRejectsDeletedAccount(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, []models.StaffAccount{hashedAccount(t, "u1", "a@x.com", "1234")})

	resp, err := f.auth.Login(ctx, models.LoginRequest{Email: "a@x.com", Code: "1234"})
	require.NoError(t, err)
	require.NoError(t, f.staff.Delete(ctx, "u1", true))

	_, err = f.auth.Authenticate(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)

	resp, err := f.auth.Login(ctx, models.LoginRequest{Email: testDirector.Email, Code: testDirector.Code})
	require.NoError(t, err)

	restarted := NewAuthService(
		NewEntityStore[models.StaffAccount](repository.NewCollectionRepository[models.StaffAccount](f.kv, repository.KeyStaff, nil, nil), nil, nil),
		repository.NewSessionRepository(f.kv, nil),
		testDirector, nil, nil,
		AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour},
	)
	account, err := restarted.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleDirector, account.Role)
}

func TestUpdateProfileWritesStaffRecord(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, []models.StaffAccount{
		hashedAccount(t, "u1", "a@x.com", "1234"),
		hashedAccount(t, "u2", "b@x.com", "5678"),
	})
	_, err := f.auth.Login(ctx, models.LoginRequest{Email: "a@x.com", Code: "1234"})
	require.NoError(t, err)

	account, err := f.auth.UpdateProfile(ctx, "u1", models.UpdateProfileRequest{Name: strPtr("Aida"), Email: strPtr("Aida@X.com")})
	require.NoError(t, err)
	assert.Equal(t, "aida@x.com", account.Email)

	staff := f.staff.List(ctx, "aida")
	require.Len(t, staff, 1)
	assert.Equal(t, "Aida", staff[0].Name)

	_, err = f.auth.Login(ctx, models.LoginRequest{Email: "aida@x.com", Code: "1234"})
	require.NoError(t, err)

	_, err = f.auth.UpdateProfile(ctx, "u1", models.UpdateProfileRequest{Email: strPtr("b@x.com")})
	assert.ErrorIs(t, err, appErrors.ErrConflict)

	_, err = f.auth.UpdateProfile(ctx, "u2", models.UpdateProfileRequest{Name: strPtr("Other")})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestUpdateProfileDirectorOnlyTouchesSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, nil)
	_, err := f.auth.Login(ctx, models.LoginRequest{Email: testDirector.Email, Code: testDirector.Code})
	require.NoError(t, err)

	account, err := f.auth.UpdateProfile(ctx, models.DirectorAccountID, models.UpdateProfileRequest{Name: strPtr("Boss")})
	require.NoError(t, err)
	assert.Equal(t, "Boss", account.Name)
	assert.Equal(t, "Boss", f.sessions.Get(ctx).Account.Name)
	assert.Empty(t, f.staff.List(ctx, ""))

	_, err = f.auth.UpdateProfile(ctx, models.DirectorAccountID, models.UpdateProfileRequest{Name: strPtr("  ")})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Equal(t, "Boss", f.sessions.Get(ctx).Account.Name)
}
