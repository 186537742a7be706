package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"movemate-admin/internal/auth"
	"movemate-admin/internal/model"
	"movemate-admin/internal/secret"
	"movemate-admin/internal/session"
)

const (
	pathLogin          = "/admin-login"
	pathForgotPassword = "/admin-forgot-password"
	pathResetSecurity  = "/admin-reset-security"
	pathResetPassword  = "/admin-reset-password"
	pathDashboard      = "/admin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User     *model.AdminUser `json:"user"`
	Redirect string           `json:"redirect"`
}

type forgotRequest struct {
	Email string `json:"email"`
}

type forgotResponse struct {
	*auth.ResetRequest
	Redirect string `json:"redirect"`
}

type securityRequest struct {
	Token  string `json:"token"`
	Answer string `json:"answer"`
}

type resetRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type messageResponse struct {
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type pageResponse struct {
	State auth.State `json:"state"`
	Error string     `json:"error,omitempty"`
}

func (s *Server) authError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("auth flow failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, status, auth.Code(err), auth.Message(err))
}

func (s *Server) tab(r *http.Request) session.Storage {
	return s.deps.Storage.Tab(clientIDFromContext(r.Context()))
}

// tabValue reads key from the client's tab storage. A missing key yields "".
func tabValue(ctx context.Context, tab session.Storage, key string) (string, error) {
	v, err := tab.Get(ctx, key)
	if errors.Is(err, session.ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (s *Server) clearReset(ctx context.Context, tab session.Storage) {
	for _, k := range []string{session.KeyResetEmail, session.KeyResetToken} {
		if err := tab.Clear(ctx, k); err != nil {
			s.logger.Warn("clear reset state failed", "key", k, "error", err)
		}
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	if sess.CurrentUser() != nil {
		http.Redirect(w, r, pathDashboard, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{
		State: sess.State(),
		Error: auth.Message(sess.Err()),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := collect(auth.ValidateEmail(req.Email), auth.ValidatePassword(req.Password)); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	u, err := sessionFromContext(r.Context()).Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.authError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: u, Redirect: pathDashboard})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := sessionFromContext(r.Context()).Logout(r.Context()); err != nil {
		s.authError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Redirect: pathLogin})
}

func (s *Server) handleForgotPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pageResponse{State: sessionFromContext(r.Context()).State()})
}

func (s *Server) handleForgot(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := collect(auth.ValidateEmail(req.Email)); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	ctx := r.Context()
	res, err := sessionFromContext(ctx).InitiatePasswordReset(ctx, req.Email)
	if err != nil {
		s.authError(w, r, err)
		return
	}

	tab := s.tab(r)
	// A new request starts over, so a previously verified token is dropped.
	s.clearReset(ctx, tab)
	if err := tab.Set(ctx, session.KeyResetEmail, secret.NormalizeEmail(req.Email)); err != nil {
		s.authError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, forgotResponse{
		ResetRequest: res,
		Redirect:     pathResetSecurity + "?token=" + url.QueryEscape(res.Token),
	})
}

func (s *Server) handleSecurityPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	email, err := tabValue(ctx, s.tab(r), session.KeyResetEmail)
	if err != nil {
		s.authError(w, r, err)
		return
	}
	if token == "" || email == "" {
		http.Redirect(w, r, pathForgotPassword, http.StatusSeeOther)
		return
	}

	q, err := s.deps.Controller.SecurityQuestion(ctx, email)
	if errors.Is(err, auth.ErrNoAccount) || errors.Is(err, auth.ErrNoSecurityQuestion) {
		http.Redirect(w, r, pathForgotPassword, http.StatusSeeOther)
		return
	}
	if err != nil {
		s.authError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"email":             email,
		"security_question": q,
		"token":             token,
	})
}

func (s *Server) handleSecurity(w http.ResponseWriter, r *http.Request) {
	var req securityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		token = strings.TrimSpace(req.Token)
	}
	tab := s.tab(r)
	email, err := tabValue(ctx, tab, session.KeyResetEmail)
	if err != nil {
		s.authError(w, r, err)
		return
	}
	if token == "" || email == "" {
		http.Redirect(w, r, pathForgotPassword, http.StatusSeeOther)
		return
	}
	if errs := collect(auth.ValidateAnswer(req.Answer)); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	if err := s.deps.Controller.CheckResetToken(ctx, email, token); err != nil {
		s.authError(w, r, err)
		return
	}
	if err := sessionFromContext(ctx).VerifySecurityAnswer(ctx, email, req.Answer); err != nil {
		s.authError(w, r, err)
		return
	}
	if err := tab.Set(ctx, session.KeyResetToken, token); err != nil {
		s.authError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: auth.MsgAnswerVerified, Redirect: pathResetPassword})
}

func (s *Server) handleResetPage(w http.ResponseWriter, r *http.Request) {
	token, err := tabValue(r.Context(), s.tab(r), session.KeyResetToken)
	if err != nil {
		s.authError(w, r, err)
		return
	}
	if token == "" {
		http.Redirect(w, r, pathForgotPassword, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{State: sessionFromContext(r.Context()).State()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	tab := s.tab(r)
	token, err := tabValue(ctx, tab, session.KeyResetToken)
	if err != nil {
		s.authError(w, r, err)
		return
	}
	if token == "" {
		http.Redirect(w, r, pathForgotPassword, http.StatusSeeOther)
		return
	}
	errs := collect(
		auth.ValidatePassword(req.Password),
		auth.ValidateConfirmation(req.Password, req.ConfirmPassword),
	)
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	if err := sessionFromContext(ctx).ResetPassword(ctx, token, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			s.clearReset(ctx, tab)
		}
		s.authError(w, r, err)
		return
	}

	s.clearReset(ctx, tab)
	writeJSON(w, http.StatusOK, messageResponse{Message: auth.MsgPasswordReset, Redirect: pathLogin})
}
