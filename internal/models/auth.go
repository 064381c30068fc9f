package models

import "github.com/golang-jwt/jwt/v5"

// SignupRequest registers a new account plus its user profile.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      Role   `json:"role" validate:"omitempty,oneof=STUDENT TEACHER"`
}

// LoginRequest carries credentials for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	User  TokenPayload `json:"user"`
	Token string       `json:"token"`
}

// TokenPayload mirrors the claims embedded in issued tokens.
type TokenPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Claims is the JWT payload for access tokens. The subject is looked up by
// email when the principal is resolved, so a changed email invalidates
// previously issued tokens.
type Claims struct {
	AccountID string `json:"id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Principal is the authenticated identity attached to a request: the
// account, its user profile, and the teacher profile when one exists.
type Principal struct {
	Account Account  `json:"account"`
	User    User     `json:"user"`
	Teacher *Teacher `json:"teacher,omitempty"`
}

// IsTeacher reports whether the principal can author courses.
func (p *Principal) IsTeacher() bool {
	return p != nil && p.Account.Role == RoleTeacher && p.Teacher != nil
}
