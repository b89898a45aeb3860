package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/fitdash/internal/middleware"
	"github.com/2beens/fitdash/internal/session"
	"github.com/2beens/fitdash/internal/telemetry/metrics"
	"github.com/2beens/fitdash/internal/telemetry/tracing"
	"github.com/2beens/fitdash/internal/upstream"
	"github.com/2beens/fitdash/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

type authService interface {
	Login(ctx context.Context, form LoginForm) Response
	VerifyTwoFactor(ctx context.Context, form TwoFactorForm) Response
	Register(ctx context.Context, form RegisterForm) Response
	VerifyEmail(ctx context.Context, form VerifyEmailForm) Response
	ResendVerification(ctx context.Context, form EmailForm) Response
	ForgotPassword(ctx context.Context, form EmailForm) Response
	ResetPassword(ctx context.Context, form ResetPasswordForm) Response
	Logout(ctx context.Context, sess *session.Session) Response
}

type MeResponse struct {
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type Handler struct {
	service authService
}

func NewHandler(service authService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
	metricsManager *metrics.Manager,
) {
	authRouter := mainRouter.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/2fa", handler.HandleTwoFactor).Methods("POST", "OPTIONS").Name("login-2fa")
	authRouter.HandleFunc("/register", handler.HandleRegister).Methods("POST", "OPTIONS").Name("register")
	authRouter.HandleFunc("/verify-email", handler.HandleVerifyEmail).Methods("POST", "OPTIONS").Name("verify-email")
	authRouter.HandleFunc("/resend-verification", handler.HandleResendVerification).Methods("POST", "OPTIONS").Name("resend-verification")
	authRouter.HandleFunc("/password/forgot", handler.HandleForgotPassword).Methods("POST", "OPTIONS").Name("forgot-password")
	authRouter.HandleFunc("/password/reset", handler.HandleResetPassword).Methods("POST", "OPTIONS").Name("reset-password")
	authRouter.HandleFunc("/logout", handler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	authRouter.HandleFunc("/me", handler.HandleMe).Methods("GET", "OPTIONS").Name("me")

	// credential endpoints are the brute force target
	authRouter.Use(middleware.RateLimit(rateLimiter, "auth", allowedPerMin, metricsManager))
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	var form LoginForm
	if !decodeForm(w, r, &form) {
		return
	}
	writeResponse(w, handler.service.Login(ctx, form))
}

func (handler *Handler) HandleTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.2fa")
	defer span.End()

	var form TwoFactorForm
	if !decodeForm(w, r, &form) {
		return
	}
	writeResponse(w, handler.service.VerifyTwoFactor(ctx, form))
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.register")
	defer span.End()

	var form RegisterForm
	if !decodeForm(w, r, &form) {
		return
	}
	writeResponse(w, handler.service.Register(ctx, form))
}

func (handler *Handler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.verify-email")
	defer span.End()

	var form VerifyEmailForm
	if !decodeForm(w, r, &form) {
		return
	}
	writeResponse(w, handler.service.VerifyEmail(ctx, form))
}

func (handler *Handler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.resend-verification")
	defer span.End()

	var form EmailForm
	if !decodeForm(w, r, &form) {
		return
	}
	writeResponse(w, handler.service.ResendVerification(ctx, form))
}

func (handler *Handler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.forgot-password")
	defer span.End()

	var form EmailForm
	if !decodeForm(w, r, &form) {
		return
	}
	writeResponse(w, handler.service.ForgotPassword(ctx, form))
}

func (handler *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.reset-password")
	defer span.End()

	var form ResetPasswordForm
	if !decodeForm(w, r, &form) {
		return
	}
	writeResponse(w, handler.service.ResetPassword(ctx, form))
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	sess := session.FromContext(ctx)
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	writeResponse(w, handler.service.Logout(ctx, sess))
}

func (handler *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.me")
	defer span.End()

	sess := session.FromContext(r.Context())
	if sess == nil {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	respJson, err := json.Marshal(MeResponse{
		Email:     sess.Email,
		CreatedAt: sess.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		log.Errorf("marshal auth me: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func decodeForm(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := json.NewDecoder(r.Body).Decode(form); err != nil {
		log.Debugf("auth form [%s]: unmarshal json: %s", r.URL.Path, err)
		writeResponse(w, Response{Result: upstream.Result{
			Message: "invalid request body",
			Status:  http.StatusBadRequest,
		}})
		return false
	}
	return true
}

func writeResponse(w http.ResponseWriter, resp Response) {
	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal auth response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, resp.HTTPStatus())
}
