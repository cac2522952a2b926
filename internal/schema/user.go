package schema

import (
	"context"
	"time"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/utils"
)

type userForm struct {
	FirstName string `form:"firstName" validate:"required,max=100"`
	LastName  string `form:"lastName" validate:"required,max=100"`
	Username  string `form:"username" validate:"required,min=3,max=100,excludesall= "`
	Password  string `form:"password" validate:"omitempty,min=8,max=72"`
	Role      string `form:"role" validate:"omitempty,oneof=admin staff"`
	Email     string `form:"email" validate:"required,email,max=255"`
}

// User describes staff accounts. Usernames are unique through the store's
// index rather than the duplicate-name guard. The first account ever
// created is an admin; later accounts default to staff.
func User() Schema[*models.User] {
	return Schema[*models.User]{
		Kind:           models.KindUser,
		New:            func() *models.User { return &models.User{} },
		Decode:         decodeUser,
		DuplicateField: "username",
		BeforeCreate:   assignRole,
		Merge:          keepCredentials,
	}
}

func decodeUser(f Fields, op Op, _ time.Time) (*models.User, utils.FieldErrors) {
	var in userForm
	fe := bind(lowerTokens(f, "role"), &in)
	if op == OpCreate && in.Password == "" {
		fe.Add("password", "password is a required field")
	}
	if len(fe) > 0 {
		return nil, fe
	}

	u := &models.User{
		FirstName: Capitalize(in.FirstName),
		LastName:  Capitalize(in.LastName),
		Username:  in.Username,
		Role:      models.Role(in.Role),
		Email:     in.Email,
	}
	if in.Password != "" {
		if err := u.SetPassword(in.Password); err != nil {
			return nil, utils.FieldErrors{"password": "password could not be hashed"}
		}
	}
	return u, nil
}

func assignRole(ctx context.Context, u *models.User, existing Counter) error {
	n, err := existing.Count(ctx)
	if err != nil {
		return err
	}
	switch {
	case n == 0:
		u.Role = models.RoleAdmin
	case u.Role == "":
		u.Role = models.RoleStaff
	}
	return nil
}

func keepCredentials(stored, incoming *models.User) {
	if incoming.Password == "" {
		incoming.Password = stored.Password
	}
	if incoming.Role == "" {
		incoming.Role = stored.Role
	}
}
