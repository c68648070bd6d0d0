// Package users implements account management: registration, login with
// session-backed JWTs, password reset flows, and the admin-facing user CRUD.
package users

import (
	"context"
	"errors"
	"time"

	"github.com/dkozel/shopfloor/internal/auth"
	"github.com/dkozel/shopfloor/internal/common"
	"github.com/dkozel/shopfloor/internal/docstore"
	"github.com/dkozel/shopfloor/internal/server/config"
	"github.com/dkozel/shopfloor/internal/shared"
)

type Service struct {
	store                       *docstore.Store
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	resetTokenValidityDuration  time.Duration
	bcryptCost                  int
}

func NewService(store *docstore.Store, cfg *config.Config) *Service {
	return &Service{
		store:                       store,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		resetTokenValidityDuration:  cfg.ResetTokenValidityDuration,
		bcryptCost:                  cfg.BcryptCost,
	}
}

// RegisterRequest carries the fields a new account is created from.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	Token string          `json:"token"`
	User  docstore.Record `json:"user"`
}

var validRoles = map[string]bool{
	common.RoleAdmin:    true,
	common.RoleSubAdmin: true,
	common.RoleManager:  true,
	common.RoleEmployee: true,
}

// Register creates a new account. Duplicate emails are rejected here — the
// store itself enforces no business keys.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (docstore.Record, error) {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return nil, common.ErrorValidation
	}
	if req.Role == "" {
		req.Role = common.RoleEmployee
	}
	if !validRoles[req.Role] {
		return nil, common.ErrorValidation
	}
	if req.Status == "" {
		req.Status = "active"
	}

	_, err := s.store.FindByField(ctx, docstore.CollectionUsers, "email", req.Email)
	if err == nil {
		return nil, common.ErrorAlreadyExists
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := s.store.Create(ctx, docstore.CollectionUsers, docstore.Record{
		"name":     req.Name,
		"email":    req.Email,
		"password": hash,
		"role":     req.Role,
		"status":   req.Status,
	})
	if err != nil {
		return nil, err
	}

	return Sanitize(user), nil
}

// Login verifies credentials, records a session and issues a signed token.
// Every failure mode looks the same to the caller (unauthorized) so the
// endpoint leaks nothing about which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.FindByField(ctx, docstore.CollectionUsers, "email", email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if user.String("status") != "active" {
		return nil, common.ErrorUnauthorized
	}

	if !auth.CheckPassword(password, user.String("password")) {
		return nil, common.ErrorUnauthorized
	}

	expiresAt := time.Now().UTC().Add(s.accessTokenValidityDuration).Format(docstore.TimeLayout)
	session, err := s.store.Create(ctx, docstore.CollectionSessions, docstore.Record{
		"userId":    user.ID(),
		"role":      user.String("role"),
		"expiresAt": expiresAt,
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	token, err := auth.GenerateToken(user.ID(), session.ID(), user.String("role"), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err = s.store.Update(ctx, docstore.CollectionUsers, user.ID(), docstore.Record{
		"lastLogin": time.Now().UTC().Format(docstore.TimeLayout),
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, User: Sanitize(user)}, nil
}

// Logout deletes the session; a token whose session is gone no longer
// authenticates. Logging out twice is harmless.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	_, err := s.store.Delete(ctx, docstore.CollectionSessions, sessionID)
	return err
}

// ValidateSession resolves token claims into the live user record. It
// checks the session still exists and has not passed its expiry window.
func (s *Service) ValidateSession(ctx context.Context, claims *auth.Claims) (docstore.Record, error) {
	sessions, err := s.store.FindAll(ctx, docstore.CollectionSessions, docstore.Filter{
		docstore.Equals{Field: docstore.FieldID, Value: claims.SessionID},
		docstore.After{Field: "expiresAt", Threshold: time.Now().UTC()},
	})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, common.ErrorUnauthorized
	}

	user, err := s.store.FindByID(ctx, docstore.CollectionUsers, claims.UserID)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	if user.String("status") != "active" {
		return nil, common.ErrorUnauthorized
	}

	return Sanitize(user), nil
}

// ForgotPassword stamps the account with a fresh single-use reset token and
// returns it. Delivery (mail) is the caller's concern.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.store.FindByField(ctx, docstore.CollectionUsers, "email", email)
	if err != nil {
		return "", err
	}

	token, err := shared.MakeRandHexString(20)
	if err != nil {
		return "", common.ErrorInternal
	}

	expire := time.Now().UTC().Add(s.resetTokenValidityDuration).Format(docstore.TimeLayout)
	_, err = s.store.Update(ctx, docstore.CollectionUsers, user.ID(), docstore.Record{
		"resetPasswordToken":  token,
		"resetPasswordExpire": expire,
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// ResetPassword redeems a reset token: the token must match and its expiry
// must lie strictly in the future. On success the password is replaced and
// the token fields cleared.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return common.ErrorValidation
	}

	matches, err := s.store.FindAll(ctx, docstore.CollectionUsers, docstore.Filter{
		docstore.Equals{Field: "resetPasswordToken", Value: token},
		docstore.After{Field: "resetPasswordExpire", Threshold: time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return common.ErrInvalidToken
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return common.ErrorInternal
	}

	_, err = s.store.Update(ctx, docstore.CollectionUsers, matches[0].ID(), docstore.Record{
		"password":            hash,
		"resetPasswordToken":  "",
		"resetPasswordExpire": "",
	})
	return err
}

// List returns one page of users, optionally narrowed by role and status.
func (s *Service) List(ctx context.Context, page, limit int, role, status string) (*docstore.PageResult, error) {
	var filter docstore.Filter
	if role != "" {
		filter = append(filter, docstore.Equals{Field: "role", Value: role})
	}
	if status != "" {
		filter = append(filter, docstore.Equals{Field: "status", Value: status})
	}

	res, err := s.store.Paginate(ctx, docstore.CollectionUsers, page, limit, filter)
	if err != nil {
		return nil, err
	}
	for i, rec := range res.Data {
		res.Data[i] = Sanitize(rec)
	}
	return res, nil
}

func (s *Service) Get(ctx context.Context, id string) (docstore.Record, error) {
	user, err := s.store.FindByID(ctx, docstore.CollectionUsers, id)
	if err != nil {
		return nil, err
	}
	return Sanitize(user), nil
}

// UpdateRequest lists the account fields an admin may change. Zero values
// mean "leave unchanged"; a supplied password is re-hashed before storage.
type UpdateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (docstore.Record, error) {
	fields := docstore.Record{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Email != "" {
		fields["email"] = req.Email
	}
	if req.Role != "" {
		if !validRoles[req.Role] {
			return nil, common.ErrorValidation
		}
		fields["role"] = req.Role
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password, s.bcryptCost)
		if err != nil {
			return nil, common.ErrorInternal
		}
		fields["password"] = hash
	}

	user, err := s.store.Update(ctx, docstore.CollectionUsers, id, fields)
	if err != nil {
		return nil, err
	}
	return Sanitize(user), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.Delete(ctx, docstore.CollectionUsers, id)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

// Sanitize strips credential material from a user record before it leaves
// the service layer.
func Sanitize(user docstore.Record) docstore.Record {
	if user == nil {
		return nil
	}
	out := docstore.Record{}
	for k, v := range user {
		switch k {
		case "password", "resetPasswordToken", "resetPasswordExpire":
			continue
		}
		out[k] = v
	}
	return out
}
