// Package profile is the edit form for the signed-in user's own record.
package profile

import (
	"context"
	"errors"

	"catalog_portal/internal/client/session"
	"catalog_portal/internal/domain/model"
)

const (
	MsgSaved     = "Usuario actualizado correctamente"
	MsgDiscarded = "Cambios descartados"
)

var ErrNoUser = errors.New("No hay usuario logueado.")

// Updater sends a partial update for user id.
type Updater interface {
	UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.UserSnapshot, error)
}

// Form holds the editable fields. The password is never edited here.
type Form struct {
	Username string
	Name     string
	LastName string
	Email    string
	UserType string
}

func formFrom(u model.UserSnapshot) Form {
	return Form{Username: u.Username, Name: u.Name, LastName: u.LastName, Email: u.Email, UserType: u.UserType}
}

type View struct {
	session *session.Store
	api     Updater
	Form    Form
}

// New seeds the form from the current session user.
func New(s *session.Store, api Updater) (*View, error) {
	st := s.State()
	if st.User == nil {
		return nil, ErrNoUser
	}
	return &View{session: s, api: api, Form: formFrom(*st.User)}, nil
}

// Save sends every form field and, on success, makes the returned record the session user.
func (v *View) Save(ctx context.Context) (model.UserSnapshot, error) {
	st := v.session.State()
	if st.User == nil {
		return model.UserSnapshot{}, ErrNoUser
	}
	updated, err := v.api.UpdateUser(ctx, st.User.ID, model.UserPatch{
		Username: model.Some(v.Form.Username),
		Name:     model.Some(v.Form.Name),
		LastName: model.Some(v.Form.LastName),
		Email:    model.Some(v.Form.Email),
		UserType: model.Some(v.Form.UserType),
	})
	if err != nil {
		return model.UserSnapshot{}, err
	}
	v.session.SetUser(updated)
	v.Form = formFrom(updated)
	return updated, nil
}

// Cancel discards edits and restores the form from the session.
func (v *View) Cancel() {
	if u := v.session.State().User; u != nil {
		v.Form = formFrom(*u)
	}
}
