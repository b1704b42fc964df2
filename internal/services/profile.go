package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"financas/internal/core"
	"financas/internal/session"
	"financas/internal/store"
)

type ProfileService struct {
	store store.Profiles
}

func NewProfileService(st store.Profiles) *ProfileService {
	return &ProfileService{store: st}
}

// Get returns the caller's profile. Before the first update the profile is
// derived from the session: the name is the local part of the email.
func (s *ProfileService) Get(ctx context.Context, sess session.Session) (core.Profile, error) {
	p, err := s.store.GetProfile(ctx, sess.UserID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	name := sess.Email
	if at := strings.Index(name, "@"); at > 0 {
		name = name[:at]
	}
	return core.Profile{ID: sess.UserID, Name: name, Email: sess.Email}, nil
}

func (s *ProfileService) Update(ctx context.Context, sess session.Session, name, email string) (core.Profile, error) {
	p := core.Profile{ID: sess.UserID, Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if p.Email == "" {
		p.Email = sess.Email
	}
	if err := p.Validate(); err != nil {
		return core.Profile{}, fromDomain(err)
	}
	saved, err := s.store.UpsertProfile(ctx, p)
	if err != nil {
		return core.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return saved, nil
}
