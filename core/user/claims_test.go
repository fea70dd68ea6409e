package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testutil "github.com/epistula/epistula-go/tests"
)

func Test_DecodeClaims(t *testing.T) {
	token := testutil.UnverifiedToken(t, map[string]interface{}{
		"sub":           "42",
		"username":      "prof.ada",
		"roles":         []string{RoleProfessor},
		"is_professor":  true,
		"university_id": 7,
		"exp":           time.Now().Add(time.Hour).Unix(),
	})

	claims, err := DecodeClaims(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID())
	assert.Equal(t, "prof.ada", claims.Username)
	assert.Equal(t, []string{RoleProfessor}, claims.Roles)
	assert.True(t, claims.IsProfessor)
	assert.Equal(t, 7, claims.UniversityID)
	assert.False(t, claims.Expired())
}

func Test_DecodeClaims_garbage(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not a jwt", token: "lol"},
		{name: "two parts", token: "a.b"},
		{name: "bad base64", token: "!!.!!.!!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeClaims(tt.token)
			assert.Equal(t, ErrInvalidToken, err)
		})
	}
}

func Test_Claims_Expired(t *testing.T) {
	now := time.Now()
	NowFunc = func() time.Time { return now }
	defer func() { NowFunc = time.Now }()

	mkClaims := func(expOffset time.Duration) *Claims {
		c := new(Claims)
		if expOffset != 0 {
			c.ExpiresAt = now.Add(expOffset).Unix()
		}
		return c
	}

	assert.False(t, mkClaims(time.Hour).Expired())
	assert.True(t, mkClaims(-time.Hour).Expired())
	assert.False(t, mkClaims(0).Expired()) // no expiry claim => treated as live
}

func Test_Roles(t *testing.T) {
	usr := User{Roles: []string{RoleProfessor, RoleUniAdmin}}
	assert.True(t, usr.IsProfessor())
	assert.True(t, usr.IsUniAdmin())
	assert.False(t, usr.IsRoot())
	assert.False(t, usr.IsStudent())

	assert.Equal(t, 30, MaxRolePriority(usr.Roles))
	assert.Equal(t, 0, MaxRolePriority(nil))

	assert.True(t, IsValidRole(RoleStudent))
	assert.False(t, IsValidRole("janitor"))
}
