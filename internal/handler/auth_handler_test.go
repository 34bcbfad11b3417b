package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aiws-admin-api/internal/models"
	appErrors "github.com/noah-isme/aiws-admin-api/pkg/errors"
)

type fakeAuthService struct {
	signIn      models.LoginRequest
	signUp      models.SignUpRequest
	signOutUser string
	signOutReq  models.SignOutRequest
	changed     models.ChangePasswordRequest
	err         error
}

func (f *fakeAuthService) SignIn(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.signIn = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.LoginResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeAuthService) SignUp(_ context.Context, req models.SignUpRequest) (*models.LoginResponse, error) {
	f.signUp = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.LoginResponse{AccessToken: "access", User: models.UserInfo{Email: req.Email, Role: models.RoleStaff}}, nil
}

func (f *fakeAuthService) Refresh(context.Context, models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	return &models.RefreshTokenResponse{AccessToken: "next"}, f.err
}

func (f *fakeAuthService) SignOut(_ context.Context, userID string, req models.SignOutRequest, _, _ string) error {
	f.signOutUser = userID
	f.signOutReq = req
	return f.err
}

func (f *fakeAuthService) CurrentSession(_ context.Context, userID string) (*models.SessionInfo, error) {
	return &models.SessionInfo{User: models.UserInfo{ID: userID}}, f.err
}

func (f *fakeAuthService) Role(context.Context, string) (*models.RoleInfo, error) {
	return &models.RoleInfo{Role: models.RoleStaff}, f.err
}

func (f *fakeAuthService) ChangePassword(_ context.Context, _ string, req models.ChangePasswordRequest) error {
	f.changed = req
	return f.err
}

func authRouter(svc *fakeAuthService, authenticated bool) *gin.Engine {
	h := NewAuthHandler(svc)
	r := gin.New()
	r.POST("/auth/sign-in", h.SignIn)
	r.POST("/auth/sign-up", h.SignUp)
	r.POST("/auth/refresh", h.Refresh)
	secured := r.Group("/auth")
	if authenticated {
		secured.Use(withClaims("user-1", models.RoleAdmin))
	}
	secured.POST("/sign-out", h.SignOut)
	secured.GET("/session", h.Session)
	secured.GET("/role", h.Role)
	secured.POST("/change-password", h.ChangePassword)
	return r
}

func TestAuthHandlerSignInCapturesClient(t *testing.T) {
	svc := &fakeAuthService{}
	rec := perform(authRouter(svc, false), http.MethodPost, "/auth/sign-in", `{"email":"a@aiws.vn","password":"secret"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a@aiws.vn", svc.signIn.Email)
	assert.NotEmpty(t, svc.signIn.IP)
}

func TestAuthHandlerSignInInvalidCredentials(t *testing.T) {
	svc := &fakeAuthService{err: appErrors.ErrInvalidCredentials}
	rec := perform(authRouter(svc, false), http.MethodPost, "/auth/sign-in", `{"email":"a@aiws.vn","password":"bad"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, decodeEnvelope(t, rec).Error.Code)
}

func TestAuthHandlerSignUp(t *testing.T) {
	svc := &fakeAuthService{}
	rec := perform(authRouter(svc, false), http.MethodPost, "/auth/sign-up", `{"email":"new@aiws.vn","password":"secret1","full_name":"New"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "New", svc.signUp.FullName)
}

func TestAuthHandlerSignUpDisabled(t *testing.T) {
	svc := &fakeAuthService{err: appErrors.ErrSignUpDisabled}
	rec := perform(authRouter(svc, false), http.MethodPost, "/auth/sign-up", `{"email":"new@aiws.vn","password":"secret1"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthHandlerSignOutWithoutBody(t *testing.T) {
	svc := &fakeAuthService{}
	rec := perform(authRouter(svc, true), http.MethodPost, "/auth/sign-out", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-1", svc.signOutUser)
	assert.Empty(t, svc.signOutReq.RefreshToken)
}

func TestAuthHandlerSignOutWithToken(t *testing.T) {
	svc := &fakeAuthService{}
	rec := perform(authRouter(svc, true), http.MethodPost, "/auth/sign-out", `{"refresh_token":"abc"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "abc", svc.signOutReq.RefreshToken)
}

func TestAuthHandlerRequiresClaims(t *testing.T) {
	router := authRouter(&fakeAuthService{}, false)
	for _, path := range []string{"/auth/session", "/auth/role"} {
		rec := perform(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
	rec := perform(router, http.MethodPost, "/auth/sign-out", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerSessionAndRole(t *testing.T) {
	router := authRouter(&fakeAuthService{}, true)

	rec := perform(router, http.MethodGet, "/auth/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decodeEnvelope(t, rec).Data), `"id":"user-1"`)

	rec = perform(router, http.MethodGet, "/auth/role", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"role":"staff"}`, string(decodeEnvelope(t, rec).Data))
}

func TestAuthHandlerChangePassword(t *testing.T) {
	svc := &fakeAuthService{}
	rec := perform(authRouter(svc, true), http.MethodPost, "/auth/change-password", `{"old_password":"a","new_password":"bbbbbb"}`)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "bbbbbb", svc.changed.NewPassword)
}
