package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"gitea.com/go-chi/session"
	"github.com/sirupsen/logrus"

	"github.com/cargoflow/cargoflow/actorctx"
	"github.com/cargoflow/cargoflow/authenticator"
	"github.com/cargoflow/cargoflow/models"
	"github.com/cargoflow/cargoflow/services"
)

// AuthController handles login, logout and the optional SSO flow
type AuthController struct {
	services *services.Services
	log      *logrus.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(services *services.Services, log *logrus.Logger) *AuthController {
	return &AuthController{services: services, log: log}
}

// Login authenticates with email and password and opens a session
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var form models.LoginForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := ac.services.Users.Login(r.Context(), &form)
	if err != nil {
		respondServiceError(w, ac.log, err)
		return
	}

	sess := session.GetSession(r)
	sess.Set("user_id", user.ID)

	ac.log.WithFields(logrus.Fields{
		"user": user.Email,
		"site": user.Site,
	}).Info("user logged in")

	respondJSON(w, http.StatusOK, user)
}

// Logout clears the session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	sess.Delete("user_id")

	respondJSON(w, http.StatusOK, nil)
}

// Me returns the acting user's account
func (ac *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	actor := actorctx.FromContext(r.Context())
	if !actor.Known() {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := ac.services.Users.GetByID(r.Context(), actor.UserID)
	if err != nil {
		respondServiceError(w, ac.log, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// CreateUser provisions a new local account. Restricted to privileged roles
// at the router.
func (ac *AuthController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var form models.UserForm
	if err := decodeJSON(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := ac.services.Users.CreateUser(r.Context(), &form)
	if err != nil {
		respondServiceError(w, ac.log, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// LoginSSO initiates the OpenID Connect flow
func (ac *AuthController) LoginSSO(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := generateRandomState()
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		// Save the state in the session to validate in callback
		sess := session.GetSession(r)
		sess.Set("state", state)

		http.Redirect(w, r, auth.GetAuthURL(state), http.StatusTemporaryRedirect)
	}
}

// Callback completes the OpenID Connect flow and maps the identity to a
// local account by email.
func (ac *AuthController) Callback(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		storedState := sess.Get("state")
		if storedState == nil {
			respondError(w, http.StatusBadRequest, "state not found in session")
			return
		}
		if r.URL.Query().Get("state") != storedState.(string) {
			respondError(w, http.StatusBadRequest, "invalid state parameter")
			return
		}

		token, err := auth.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "failed to exchange authorization code")
			return
		}

		claims, err := auth.GetClaims(r.Context(), token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "failed to verify ID token")
			return
		}

		email, _ := claims["email"].(string)
		if email == "" {
			respondError(w, http.StatusUnauthorized, "identity provider returned no email")
			return
		}

		user, err := ac.services.Users.LoginSSO(r.Context(), email)
		if err != nil {
			respondServiceError(w, ac.log, err)
			return
		}

		sess.Set("user_id", user.ID)
		sess.Delete("state")

		ac.log.WithField("user", user.Email).Info("user logged in via SSO")

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
