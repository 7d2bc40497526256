package api

import "context"

// User is the signed-in user's profile as the backend reports it.
type User struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty"`
	Subscribed  bool   `json:"subscribed,omitempty"`
}

// LoginResponse carries the bearer credentials and the user returned by a
// successful sign-in.
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

// Login exchanges credentials for bearer tokens.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	in := map[string]string{"username": username, "password": password}
	var out LoginResponse
	if err := c.post(ctx, "/auth/login/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RegisterRequest carries the fields of a new account.
type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Subscribed  bool   `json:"subscribed"`
}

// Register creates an account.  The backend sends the verification email;
// the client only relays the outcome.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.post(ctx, "/auth/register/", req, nil)
}

// Profile probes the stored credential by fetching the user it belongs to.
// Used at session start to validate a remembered token.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out User
	if err := c.get(ctx, "/auth/profile/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the refresh token server-side.  Local session teardown
// happens regardless of the outcome.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	in := map[string]string{"refresh": refreshToken}
	return c.post(ctx, "/auth/logout/", in, nil)
}

// UpdateProfileRequest carries the editable profile fields.  Absent fields
// keep their stored value, hence the pointers.
type UpdateProfileRequest struct {
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Subscribed *bool   `json:"subscribed,omitempty"`
}

// UpdateProfile applies a partial edit to the signed-in user's profile.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	return c.put(ctx, "/auth/profile/", req, nil)
}

// VerifyEmail activates a fresh account with the code the backend emailed
// at registration.  No credential is required.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	in := map[string]string{"email": email, "verification_code": code}
	return c.post(ctx, "/auth/verify/", in, nil)
}

// ForgotPassword asks the backend to email a reset code.  The backend
// answers 200 whether or not an account exists, so callers cannot probe
// for registered addresses.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	in := map[string]string{"email": email}
	return c.post(ctx, "/auth/forgot-password/", in, nil)
}

// ResetPassword changes the signed-in user's password.  The backend checks
// the current password and its own strength rules.
func (c *Client) ResetPassword(ctx context.Context, current, next string) error {
	in := map[string]string{"current_password": current, "new_password": next}
	return c.post(ctx, "/auth/reset-password/", in, nil)
}
