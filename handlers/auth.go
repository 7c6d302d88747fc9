package handlers

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/middleware"
	"github.com/kevinaaaquil/compro/models"
	"github.com/kevinaaaquil/compro/store"
	"github.com/kevinaaaquil/compro/utils"
)

type AuthHandler struct {
	Store        store.Store
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool
	Mailer       WelcomeMailer // nil disables the welcome mail
	Log          *zap.SugaredLogger

	mail sync.WaitGroup
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// usernameFromEmail derives a default username from the local part of email.
func usernameFromEmail(email string) string {
	local := email
	if i := strings.IndexByte(email, '@'); i >= 0 {
		local = email[:i]
	}
	if u := utils.Slugify(local); u != "" {
		return u
	}
	return utils.NewID()
}

// Register creates an account. The first account ever registered becomes the
// verified SUPER_ADMIN; later accounts are unverified members.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := nopIfNil(h.Log)
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}
	if req.Username == "" {
		req.Username = usernameFromEmail(req.Email)
	}

	ctx := r.Context()
	count, err := h.Store.CountUsers(ctx)
	if err != nil {
		storeError(w, log, err, "registration failed")
		return
	}
	if count > 0 {
		profile, err := h.Store.WebsiteProfile(ctx)
		switch {
		case err == nil && !profile.IsUserRegistrationEnabled:
			writeError(w, http.StatusForbidden, "registration is disabled")
			return
		case err != nil && !store.IsNotFound(err):
			storeError(w, log, err, "registration failed")
			return
		}
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		log.Errorw("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	now := time.Now().UTC()
	user := &models.User{
		ID:           utils.NewID(),
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Roles:        []string{models.RoleMember},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := h.Store.CreateUser(ctx, user); err != nil {
		storeError(w, log, err, "registration failed")
		return
	}

	if count == 0 {
		if err := h.bootstrapAdmin(r, user); err != nil {
			log.Errorw("bootstrap first user", "user_id", user.ID, "error", err)
			if err := h.Store.DeleteUser(ctx, user.ID); err != nil {
				log.Errorw("remove unbootstrapped user", "user_id", user.ID, "error", err)
			}
			writeError(w, http.StatusInternalServerError, "registration failed")
			return
		}
	}
	if h.Mailer != nil {
		h.mail.Add(1)
		go func(email, name string) {
			defer h.mail.Done()
			if err := h.Mailer.SendWelcome(email, name); err != nil {
				log.Warnw("welcome mail", "error", err)
			}
		}(user.Email, user.FullName)
	}

	log.Infow("user registered", "user_id", user.ID, "roles", user.Roles)
	writeJSON(w, http.StatusCreated, dto.RegisterResponse{
		ID:       user.ID,
		Email:    user.Email,
		Name:     user.FullName,
		Username: user.Username,
	})
}

// bootstrapAdmin promotes user when it wins the first-user claim.
func (h *AuthHandler) bootstrapAdmin(r *http.Request, user *models.User) error {
	won, err := h.Store.ClaimFirstUser(r.Context(), user.ID)
	if err != nil || !won {
		return err
	}
	roles := []string{models.RoleSuperAdmin}
	verified := true
	if err := h.Store.UpdateUser(r.Context(), user.ID, models.UserUpdate{Roles: &roles, EmailVerified: &verified}); err != nil {
		return err
	}
	user.Roles = roles
	user.EmailVerified = true
	return nil
}

// Wait blocks until pending welcome mails finish or ctx is done.
func (h *AuthHandler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.mail.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := nopIfNil(h.Log)
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := h.Store.UserByEmail(r.Context(), req.Email)
	if store.IsNotFound(err) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		storeError(w, log, err, "login failed")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !user.EmailVerified {
		writeError(w, http.StatusForbidden, "email is not verified")
		return
	}

	token, claims, err := middleware.NewToken(h.JWTSecret, user, h.SessionTTL)
	if err != nil {
		log.Errorw("sign token", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create token")
		return
	}
	expires := claims.ExpiresAt.Time
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expires,
		User:      dto.NewUserResponse(user),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Session echoes the token snapshot; roles changed since login show up after the next login.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	resp := dto.SessionResponse{
		User: dto.SessionUser{ID: claims.UserID, Email: claims.Email, Roles: claims.Roles},
	}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Time
	}
	writeJSON(w, http.StatusOK, resp)
}
