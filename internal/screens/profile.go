package screens

import (
	"context"
	"errors"

	"github.com/studenthelper/studenthelper/internal/api"
)

var (
	// ErrPasswordRequired is returned when either password field is empty.
	ErrPasswordRequired = errors.New("enter the new password twice")
	// ErrPasswordMismatch is returned when the two entries differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// Profile is the account screen: the signed-in email plus password change.
type Profile struct {
	client *api.Client

	Email string
}

// NewProfile creates the profile controller.
func NewProfile(client *api.Client) *Profile {
	return &Profile{client: client}
}

// Load fetches the signed-in user's email for display.
func (p *Profile) Load(ctx context.Context) error {
	info, err := p.client.MyInfo(ctx)
	if err != nil {
		return err
	}
	p.Email = info.Email
	return nil
}

// ChangePassword requires both fields non-empty and equal before posting.
// Validation failures never issue a request.
func (p *Profile) ChangePassword(ctx context.Context, newPassword, confirm string) error {
	if newPassword == "" || confirm == "" {
		return ErrPasswordRequired
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	return p.client.ChangePassword(ctx, newPassword)
}
