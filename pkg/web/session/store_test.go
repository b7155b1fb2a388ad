package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "workbuddy-store/pkg/common/errors"
	"workbuddy-store/pkg/core/registration"
	"workbuddy-store/pkg/core/user/service"
)

type fakeAccounts struct {
	registered []service.RegisterInput
	updates    []string
	verified   map[string]string
	resent     []string
	code       string
}

func (f *fakeAccounts) Register(_ context.Context, in service.RegisterInput) error {
	for _, r := range f.registered {
		if r.Email == in.Email {
			return apperrors.ErrEmailTaken
		}
	}
	f.registered = append(f.registered, in)
	return nil
}

func (f *fakeAccounts) UpdateRegistration(_ context.Context, currentEmail string, in service.RegisterInput) error {
	for i, r := range f.registered {
		if r.Email == currentEmail {
			f.registered[i] = in
			f.updates = append(f.updates, currentEmail)
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func (f *fakeAccounts) VerifyEmail(_ context.Context, email, code string) error {
	if code != f.code {
		return apperrors.ErrCodeMismatch
	}
	if f.verified == nil {
		f.verified = map[string]string{}
	}
	f.verified[email] = code
	return nil
}

func (f *fakeAccounts) ResendCode(_ context.Context, email string) error {
	f.resent = append(f.resent, email)
	return nil
}

func fill(w *registration.Wizard, values map[registration.Field]string) {
	for f, v := range values {
		w.UpdateField(f, v)
	}
}

func TestSessionDrivesWizardToVerified(t *testing.T) {
	ctx := context.Background()
	accounts := &fakeAccounts{code: "A1B2C3"}
	store := NewStore(accounts, time.Hour)

	sess := store.Create()
	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, ErrNotRegistered, sess.ResendCode(ctx))

	fill(sess.Wizard, map[registration.Field]string{
		registration.FieldName:            "Ana López",
		registration.FieldEmail:           "ana@example.com",
		registration.FieldPassword:        "12345678",
		registration.FieldConfirmPassword: "12345678",
	})
	require.NoError(t, sess.Wizard.Advance(ctx))
	assert.Equal(t, registration.StepContactInfo, sess.Wizard.Step())
	assert.EqualValues(t, 1, sess.Scrolls())

	fill(sess.Wizard, map[registration.Field]string{
		registration.FieldPhoneNumber: "71234567",
		registration.FieldAddress:     "Calle Arce 123",
		registration.FieldBirthday:    "1990-05-04",
	})
	require.NoError(t, sess.Wizard.Submit(ctx))
	require.Equal(t, registration.StepVerification, sess.Wizard.Step())
	require.Len(t, accounts.registered, 1)
	assert.Equal(t, "7123-4567", accounts.registered[0].PhoneNumber)
	assert.Equal(t, "ana@example.com", sess.Email())

	require.NoError(t, sess.ResendCode(ctx))
	assert.Equal(t, []string{"ana@example.com"}, accounts.resent)

	sess.Wizard.UpdateField(registration.FieldVerificationCode, "A1B2C3")
	require.NoError(t, sess.Wizard.Submit(ctx))
	assert.Equal(t, "A1B2C3", accounts.verified["ana@example.com"])

	view := sess.Wizard.View()
	require.NotNil(t, view.Redirect)
	assert.Equal(t, registration.HomePath, view.Redirect.Path)
	assert.Equal(t, "ana@example.com", view.Redirect.State.Email)
}

func TestSessionResubmitAfterBackUpdatesAccount(t *testing.T) {
	ctx := context.Background()
	accounts := &fakeAccounts{code: "A1B2C3"}
	sess := NewStore(accounts, time.Hour).Create()

	fill(sess.Wizard, map[registration.Field]string{
		registration.FieldName:            "Ana López",
		registration.FieldEmail:           "ana@example.com",
		registration.FieldPassword:        "12345678",
		registration.FieldConfirmPassword: "12345678",
	})
	require.NoError(t, sess.Wizard.Advance(ctx))
	fill(sess.Wizard, map[registration.Field]string{
		registration.FieldPhoneNumber: "71234567",
		registration.FieldAddress:     "Calle Arce 123",
		registration.FieldBirthday:    "1990-05-04",
	})
	require.NoError(t, sess.Wizard.Submit(ctx))
	require.Equal(t, registration.StepVerification, sess.Wizard.Step())

	require.NoError(t, sess.Wizard.Retreat())
	require.NoError(t, sess.Wizard.UpdateField(registration.FieldAddress, "Avenida Norte 9"))
	require.NoError(t, sess.Wizard.Submit(ctx))

	view := sess.Wizard.View()
	require.Equal(t, registration.StepVerification, view.Step, view.SubmissionError)
	require.Len(t, accounts.registered, 1, "no second account")
	assert.Equal(t, "Avenida Norte 9", accounts.registered[0].Address)
	assert.Equal(t, []string{"ana@example.com"}, accounts.updates)

	require.NoError(t, sess.Wizard.Retreat())
	require.NoError(t, sess.Wizard.Retreat())
	require.NoError(t, sess.Wizard.UpdateField(registration.FieldEmail, "ana.nueva@example.com"))
	require.NoError(t, sess.Wizard.Advance(ctx))
	require.NoError(t, sess.Wizard.Submit(ctx))
	require.Equal(t, registration.StepVerification, sess.Wizard.Step())
	assert.Equal(t, "ana.nueva@example.com", sess.Email())
	assert.Equal(t, []string{"ana@example.com", "ana@example.com"}, accounts.updates)

	sess.Wizard.UpdateField(registration.FieldVerificationCode, "A1B2C3")
	require.NoError(t, sess.Wizard.Submit(ctx))
	assert.Contains(t, accounts.verified, "ana.nueva@example.com")
}

func TestBoundIdentityNeedsRegistrationFirst(t *testing.T) {
	b := &boundIdentity{accounts: &fakeAccounts{code: "X"}}
	assert.ErrorIs(t, b.VerifyEmailCode(context.Background(), "X"), ErrNotRegistered)
}

func TestStoreExpiresIdleSessions(t *testing.T) {
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	store := NewStore(&fakeAccounts{}, 10*time.Minute)
	store.now = func() time.Time { return now }

	old := store.Create()
	now = now.Add(5 * time.Minute)
	_, err := store.Get(old.ID)
	require.NoError(t, err, "within ttl")

	now = now.Add(11 * time.Minute)
	_, err = store.Get(old.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1, store.Len())

	fresh := store.Create()
	assert.Equal(t, 1, store.Len(), "expired session swept on create")
	_, err = store.Get(fresh.ID)
	assert.NoError(t, err)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
