package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequestValidate(t *testing.T) {
	req := RegisterRequest{
		Email:    "  Founder@Example.COM ",
		Phone:    "+15550001111",
		Password: "secret1",
		Role:     RoleFounder,
	}

	errs := req.Validate()
	assert.Empty(t, errs)
	assert.Equal(t, "founder@example.com", req.Email)
}

func TestRegisterRequestValidateFailures(t *testing.T) {
	cases := []struct {
		name  string
		req   RegisterRequest
		field string
	}{
		{"missing email", RegisterRequest{Phone: "1", Password: "secret1", Role: RoleFounder}, "email"},
		{"missing phone", RegisterRequest{Email: "a@b.c", Password: "secret1", Role: RoleFounder}, "phone"},
		{"short password", RegisterRequest{Email: "a@b.c", Phone: "1", Password: "abc", Role: RoleFounder}, "password"},
		{"missing role", RegisterRequest{Email: "a@b.c", Phone: "1", Password: "secret1"}, "role"},
		{"bogus role", RegisterRequest{Email: "a@b.c", Phone: "1", Password: "secret1", Role: "WIZARD"}, "role"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.req.Validate()
			assert.Contains(t, errs, tc.field)
		})
	}
}

func TestCreateReportRequestValidate(t *testing.T) {
	assert.Empty(t, (&CreateReportRequest{ReportedUser: "u1", Reason: "fake claims"}).Validate())
	assert.Empty(t, (&CreateReportRequest{ReportedIdea: "i1", Reason: "fake claims"}).Validate())

	errs := (&CreateReportRequest{Reason: "fake claims"}).Validate()
	assert.Contains(t, errs, "reported_user")

	errs = (&CreateReportRequest{ReportedUser: "u1"}).Validate()
	assert.Contains(t, errs, "reason")
}

func TestConversationHasMember(t *testing.T) {
	conv := Conversation{Members: []string{"u1", "u2"}}

	assert.True(t, conv.HasMember("u1"))
	assert.False(t, conv.HasMember("u3"))
}
