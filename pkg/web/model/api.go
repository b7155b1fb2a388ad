package model

import (
	"workbuddy-store/pkg/core/catalog"
	"workbuddy-store/pkg/core/registration"
)

// Request and response payloads of the HTTP API.
type (
	UpdateFieldReq struct {
		Field string `json:"field" vd:"len($)>0"`
		Value string `json:"value"`
	}

	VisibilityReq struct {
		Target string `json:"target" vd:"$=='password'||$=='confirmPassword'"`
	}

	LoginReq struct {
		Email    string `json:"email" vd:"len($)>0"`
		Password string `json:"password" vd:"len($)>0"`
	}

	ChangePwdReq struct {
		OldPassword string `json:"old_password" vd:"len($)>0"`
		NewPassword string `json:"new_password" vd:"len($)>0"`
	}

	UserRes struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	LoginRes struct {
		Token     string  `json:"token"`
		ExpiresAt int64   `json:"expires_at"`
		User      UserRes `json:"user"`
	}

	// RegistrationRes carries the wizard view. ScrollToTop is set when the
	// action changed the step.
	RegistrationRes struct {
		ID          string            `json:"id"`
		View        registration.View `json:"view"`
		ScrollToTop bool              `json:"scrollToTop"`
	}

	ProductsRes struct {
		catalog.Listing
		Query string `json:"query,omitempty"`
	}

	SectionsRes struct {
		Sections []catalog.Section `json:"sections"`
		Notice   string            `json:"notice,omitempty"`
	}

	ErrorRes struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
)
