package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextAdvance(t *testing.T) {
	valid := validDraft()

	tr := Next(StepBasicInfo, EventAdvance, valid, today)
	assert.Equal(t, StepContactInfo, tr.To)
	assert.Equal(t, RemoteNone, tr.Remote)
	assert.True(t, tr.Moved())

	tr = Next(StepBasicInfo, EventAdvance, Draft{}, today)
	assert.Equal(t, StepBasicInfo, tr.To)
	assert.False(t, tr.Errors.Valid())

	tr = Next(StepContactInfo, EventAdvance, valid, today)
	assert.Equal(t, StepContactInfo, tr.To, "step 2 waits for the remote call")
	assert.Equal(t, RemoteRegister, tr.Remote)

	tr = Next(StepContactInfo, EventAdvance, Draft{}, today)
	assert.Equal(t, RemoteNone, tr.Remote)
	assert.Len(t, tr.Errors, 3)

	tr = Next(StepVerification, EventAdvance, valid, today)
	assert.Equal(t, RemoteVerify, tr.Remote)
	assert.Equal(t, StepVerification, tr.To)

	tr = Next(StepVerification, EventAdvance, Draft{VerificationCode: "ABC"}, today)
	assert.Equal(t, RemoteNone, tr.Remote)
	assert.Contains(t, tr.Errors, FieldVerificationCode)

	tr = Next(StepVerified, EventAdvance, valid, today)
	assert.False(t, tr.Moved())
}

func TestNextRemoteSucceeded(t *testing.T) {
	assert.Equal(t, StepVerification, Next(StepContactInfo, EventRemoteSucceeded, Draft{}, today).To)
	assert.Equal(t, StepVerified, Next(StepVerification, EventRemoteSucceeded, Draft{}, today).To)
	assert.Equal(t, StepBasicInfo, Next(StepBasicInfo, EventRemoteSucceeded, Draft{}, today).To)
}

func TestNextRetreat(t *testing.T) {
	assert.Equal(t, StepBasicInfo, Next(StepBasicInfo, EventRetreat, Draft{}, today).To)
	assert.Equal(t, StepBasicInfo, Next(StepContactInfo, EventRetreat, Draft{}, today).To)
	assert.Equal(t, StepContactInfo, Next(StepVerification, EventRetreat, Draft{}, today).To)
	assert.Equal(t, StepVerified, Next(StepVerified, EventRetreat, Draft{}, today).To)

	tr := Next(StepContactInfo, EventRetreat, Draft{}, today)
	assert.Empty(t, tr.Errors, "retreat never validates")
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "basic_info", StepBasicInfo.String())
	assert.Equal(t, "verified", StepVerified.String())
	assert.Equal(t, "unknown", Step(42).String())
}
