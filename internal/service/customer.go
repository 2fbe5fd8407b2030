package service

import (
	"context"
	"fmt"
	"strings"

	"staykart/internal/model"
	"staykart/internal/repository"
)

// resolveCustomer returns the contact details for a new order. Signed-in
// users fall back to their account details; guests must give an email.
func resolveCustomer(ctx context.Context, users repository.UserRepository, viewer model.Viewer, email, name string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if viewer.UserID != nil && (email == "" || name == "") {
		user, err := users.GetByID(ctx, *viewer.UserID)
		if err != nil {
			return "", "", fmt.Errorf("failed to get user: %w", err)
		}
		if user != nil {
			if email == "" {
				email = user.Email
			}
			if name == "" {
				name = strings.TrimSpace(user.FirstName + " " + user.LastName)
			}
		}
	}

	if email == "" {
		return "", "", model.NewValidationError(model.FieldError{Field: "customerEmail", Msg: "is required"})
	}
	return email, name, nil
}
