package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/upstream"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	loginPath              = "/api/auth/login"
	twoFactorPath          = "/api/auth/2fa/verify"
	registerPath           = "/api/auth/register"
	verifyEmailPath        = "/api/auth/verify-email"
	resendVerificationPath = "/api/auth/resend-verification"
	forgotPasswordPath     = "/api/auth/password/forgot"
	resetPasswordPath      = "/api/auth/password/reset"
	logoutPath             = "/api/auth/logout"
)

const (
	msgInvalidCredentials = "invalid email or password"
	msgInvalidCode        = "invalid or expired verification code"
	msgTwoFactorRequired  = "two factor authentication required"
	msgRegistered         = "account created, check your email to verify it"
	msgEmailVerified      = "email verified, you can log in now"
	msgVerificationSent   = "if the account exists, a verification email was sent"
	msgResetLinkSent      = "if the account exists, a password reset link was sent"
	msgPasswordReset      = "password changed, you can log in now"
	msgLoggedOut          = "logged out"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=auth_test

type sessionStore interface {
	Create(ctx context.Context, bearerToken, email string, createdAt time.Time) (*session.Session, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Response is the uniform result, plus what a login step hands back to the browser.
type Response struct {
	upstream.Result
	// Token is the dashboard session id, sent back as the Bearer token.
	Token             string `json:"token,omitempty"`
	TwoFactorRequired bool   `json:"two_factor_required,omitempty"`
	ChallengeID       string `json:"challenge_id,omitempty"`
}

type tokenResponse struct {
	Token             string `json:"token"`
	TwoFactorRequired bool   `json:"two_factor_required"`
	ChallengeID       string `json:"challenge_id"`
	User              struct {
		Email string `json:"email"`
	} `json:"user"`
}

type Service struct {
	upstream *upstream.Client
	sessions sessionStore
	now      func() time.Time
}

func NewService(upstreamClient *upstream.Client, sessions sessionStore) *Service {
	return &Service{
		upstream: upstreamClient,
		sessions: sessions,
		now:      time.Now,
	}
}

// Login exchanges credentials for a backend bearer token. Accounts with two
// factor auth enabled get a challenge id instead, to be finished via VerifyTwoFactor.
func (s *Service) Login(ctx context.Context, form LoginForm) Response {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.login")
	defer span.End()

	if err := form.Validate(); err != nil {
		return Response{Result: upstream.ToResult(err)}
	}

	var tokenResp tokenResponse
	err := s.upstream.Anonymous().Post(ctx, loginPath, form, &tokenResp)
	if err != nil {
		log.Debugf("login [%s] failed: %s", form.Email, err)
		return Response{Result: credentialsResult(err, msgInvalidCredentials)}
	}

	if tokenResp.TwoFactorRequired {
		span.SetAttributes(attribute.Bool("auth.2fa", true))
		return Response{
			Result:            upstream.Result{Success: true, Message: msgTwoFactorRequired, Status: http.StatusAccepted},
			TwoFactorRequired: true,
			ChallengeID:       tokenResp.ChallengeID,
		}
	}

	return s.startSession(ctx, tokenResp, form.Email)
}

func (s *Service) VerifyTwoFactor(ctx context.Context, form TwoFactorForm) Response {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.2fa")
	defer span.End()

	if err := form.Validate(); err != nil {
		return Response{Result: upstream.ToResult(err)}
	}

	var tokenResp tokenResponse
	if err := s.upstream.Anonymous().Post(ctx, twoFactorPath, form, &tokenResp); err != nil {
		log.Debugf("2fa challenge [%s] failed: %s", form.ChallengeID, err)
		return Response{Result: credentialsResult(err, msgInvalidCode)}
	}

	return s.startSession(ctx, tokenResp, tokenResp.User.Email)
}

func (s *Service) startSession(ctx context.Context, tokenResp tokenResponse, email string) Response {
	if tokenResp.Token == "" {
		log.Errorf("auth: backend answered without a token for [%s]", email)
		return Response{Result: upstream.ToResult(upstream.ErrUnexpected)}
	}
	if tokenResp.User.Email != "" {
		email = tokenResp.User.Email
	}

	sess, err := s.sessions.Create(ctx, tokenResp.Token, email, s.now())
	if err != nil {
		log.Errorf("auth: create session for [%s]: %s", email, err)
		return Response{Result: upstream.ToResult(err)}
	}

	log.Debugf("new session for [%s]", email)
	return Response{
		Result: upstream.OK(http.StatusOK),
		Token:  sess.ID,
	}
}

func (s *Service) Register(ctx context.Context, form RegisterForm) Response {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.register")
	defer span.End()

	return s.anonymousCall(ctx, &form, registerPath, http.StatusCreated, msgRegistered)
}

func (s *Service) VerifyEmail(ctx context.Context, form VerifyEmailForm) Response {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.verify-email")
	defer span.End()

	return s.anonymousCall(ctx, &form, verifyEmailPath, http.StatusOK, msgEmailVerified)
}

func (s *Service) ResendVerification(ctx context.Context, form EmailForm) Response {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.resend-verification")
	defer span.End()

	return s.anonymousCall(ctx, &form, resendVerificationPath, http.StatusOK, msgVerificationSent)
}

func (s *Service) ForgotPassword(ctx context.Context, form EmailForm) Response {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.forgot-password")
	defer span.End()

	return s.anonymousCall(ctx, &form, forgotPasswordPath, http.StatusOK, msgResetLinkSent)
}

func (s *Service) ResetPassword(ctx context.Context, form ResetPasswordForm) Response {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.reset-password")
	defer span.End()

	return s.anonymousCall(ctx, &form, resetPasswordPath, http.StatusOK, msgPasswordReset)
}

type validatable interface {
	Validate() error
}

func (s *Service) anonymousCall(ctx context.Context, form validatable, path string, okStatus int, okMessage string) Response {
	if err := form.Validate(); err != nil {
		return Response{Result: upstream.ToResult(err)}
	}
	if err := s.upstream.Anonymous().Post(ctx, path, form, nil); err != nil {
		log.Debugf("auth call [%s] failed: %s", path, err)
		return Response{Result: upstream.ToResult(err)}
	}
	return Response{Result: upstream.Result{Success: true, Message: okMessage, Status: okStatus}}
}

// Logout revokes the backend token and drops the dashboard session. The session
// is gone locally even when the backend call fails.
func (s *Service) Logout(ctx context.Context, sess *session.Session) Response {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.auth.logout")
	defer span.End()

	if err := s.upstream.ForSession(sess).Post(ctx, logoutPath, nil, nil); err != nil && !errors.Is(err, upstream.ErrUnauthorized) {
		log.Warnf("logout [%s]: backend token revoke failed: %s", sess.ID, err)
	}

	if _, err := s.sessions.Delete(ctx, sess.ID); err != nil {
		log.Errorf("logout [%s]: delete session: %s", sess.ID, err)
		return Response{Result: upstream.ToResult(err)}
	}
	sess.Expire()

	return Response{Result: upstream.Result{Success: true, Message: msgLoggedOut, Status: http.StatusOK}}
}

// credentialsResult maps a backend 401 on an anonymous auth call to a
// credentials message, since there is no session that could have expired.
func credentialsResult(err error, msg string) upstream.Result {
	res := upstream.ToResult(err)
	if errors.Is(err, upstream.ErrUnauthorized) {
		res.Message = msg
	}
	return res
}
