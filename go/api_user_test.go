package shopserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usermapper "github.com/Apurer/flower-shop-api/internal/domains/users/adapters/http/mapper"
	"github.com/Apurer/flower-shop-api/internal/platform/auth"
)

func TestUserAPI_RegisterLoginAndProfile(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/register", "", map[string]string{
		"email":           "Lan@Example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
		"fullName":        "Lan Nguyen",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decode[dataEnvelope[usermapper.User]](t, rec).Data
	assert.Equal(t, "lan@example.com", registered.Email)
	assert.Equal(t, "customer", registered.Role)

	rec = srv.do(t, http.MethodPost, "/register", "", map[string]string{
		"email":    "lan@example.com",
		"password": "secret1",
		"fullName": "Someone Else",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = srv.do(t, http.MethodPost, "/login", "", map[string]string{"email": "lan@example.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/login", "", map[string]string{"email": "lan@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	session := decode[dataEnvelope[usermapper.LoginResponse]](t, rec).Data
	require.NotEmpty(t, session.Token)
	assert.Equal(t, registered.ID, session.User.ID)

	rec = srv.do(t, http.MethodPut, "/me", session.Token, map[string]string{"phone": "0909000111"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "0909000111", decode[dataEnvelope[usermapper.User]](t, rec).Data.Phone)

	rec = srv.do(t, http.MethodGet, "/me", session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[dataEnvelope[usermapper.User]](t, rec).Data
	assert.Equal(t, "Lan Nguyen", me.FullName)
	assert.Equal(t, "0909000111", me.Phone)
}

func TestUserAPI_RegisterRejectsMalformedEmail(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodPost, "/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "secret1",
		"fullName": "Lan",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserAPI_AdminManagesAccounts(t *testing.T) {
	srv := newTestServer(t)
	admin := srv.token(t, "admin-1", auth.RoleAdmin)

	rec := srv.do(t, http.MethodPost, "/register", "", map[string]string{
		"email":    "staff@example.com",
		"password": "secret1",
		"fullName": "Future Staff",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := decode[dataEnvelope[usermapper.User]](t, rec).Data.ID

	rec = srv.do(t, http.MethodPatch, "/user/"+id, admin, map[string]string{"role": "staff"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "staff", decode[dataEnvelope[usermapper.User]](t, rec).Data.Role)

	rec = srv.do(t, http.MethodPatch, "/user/"+id, admin, map[string]string{"role": "owner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/users?role=staff", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[docsEnvelope[usermapper.User]](t, rec)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, id, page.Docs[0].ID)

	rec = srv.do(t, http.MethodPatch, "/user/"+id, admin, map[string]string{"status": "inactive"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/login", "", map[string]string{"email": "staff@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, rec.Code, "inactive accounts cannot sign in")
}
