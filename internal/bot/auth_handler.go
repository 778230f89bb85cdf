package bot

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/raine/ecoinventory-bot/internal/auth"
)

// AuthHandler handles sign in, sign up and sign out.
type AuthHandler struct {
	authenticator auth.Authenticator
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authenticator auth.Authenticator) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
	}
}

// HandleLogin handles "/login <email> <password>".
// Called from session worker - no locking needed.
func (h *AuthHandler) HandleLogin(ctx context.Context, session *UserSession, args []string) {
	if session.isLoggedIn() {
		session.reply(MsgAlreadyLoggedIn, escapeMarkdown(session.user.Name))
		return
	}
	if len(args) != 2 {
		session.reply(MsgLoginUsage)
		return
	}

	user, err := h.authenticator.Login(ctx, args[0], args[1])
	if err != nil {
		h.replyAuthError(session, err)
		return
	}

	session.setUser(user)
	log.Info().Int64("userId", session.userId).Str("role", string(user.Role)).Msg("user signed in")
	session.reply(MsgLoginSuccess, escapeMarkdown(user.Name), user.Role)
}

// HandleSignUp handles "/signup name;email;password;role".
func (h *AuthHandler) HandleSignUp(ctx context.Context, session *UserSession, argsStr string) {
	if session.isLoggedIn() {
		session.reply(MsgAlreadyLoggedIn, escapeMarkdown(session.user.Name))
		return
	}
	fields := splitFields(argsStr)
	if len(fields) != 4 {
		session.reply(MsgSignUpUsage)
		return
	}

	role, err := auth.ParseRole(fields[3])
	if err != nil {
		h.replyAuthError(session, err)
		return
	}

	user, err := h.authenticator.SignUp(ctx, fields[0], fields[1], fields[2], role)
	if err != nil {
		h.replyAuthError(session, err)
		return
	}

	session.setUser(user)
	log.Info().Int64("userId", session.userId).Str("role", string(user.Role)).Msg("user signed up")
	session.reply(MsgLoginSuccess, escapeMarkdown(user.Name), user.Role)
	session.reply(MsgSignUpPasswordHint)
}

// HandleLogout signs the user out. The session inventory is kept.
func (h *AuthHandler) HandleLogout(session *UserSession) {
	session.setUser(nil)
	log.Info().Int64("userId", session.userId).Msg("user signed out")
	session.reply(MsgLoggedOut)
}

func (h *AuthHandler) replyAuthError(session *UserSession, err error) {
	switch {
	case errors.Is(err, auth.ErrBadCredentials),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, auth.ErrMissingPassword),
		errors.Is(err, auth.ErrMissingName),
		errors.Is(err, auth.ErrInvalidRole),
		errors.Is(err, auth.ErrEmailTaken):
		session.reply(MsgLoginFailed, escapeMarkdown(err.Error()))
	default:
		session.replyWithError(err)
	}
}
