package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	userRepo "pharmabook/database/repository/user"
	"pharmabook/models"
	"pharmabook/services/user"
	"pharmabook/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubUserRepo struct {
	byID map[string]*models.User
}

func (r *stubUserRepo) GetByID(id string) (*models.User, error) {
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, userRepo.ErrUserNotFound
}
func (r *stubUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (r *stubUserRepo) GetByTokenHash(hash string) (*models.User, error) {
	for _, u := range r.byID {
		if u.TokenHash == hash {
			return u, nil
		}
	}
	return nil, userRepo.ErrUserNotFound
}
func (r *stubUserRepo) Create(u *models.User) error {
	r.byID[u.ID] = u
	return nil
}
func (r *stubUserRepo) Update(u *models.User) error {
	r.byID[u.ID] = u
	return nil
}
func (r *stubUserRepo) SetTokenHash(id, hash string) error {
	if u, ok := r.byID[id]; ok {
		u.TokenHash = hash
		return nil
	}
	return userRepo.ErrUserNotFound
}

func authTestRouter(t *testing.T) (*gin.Engine, *user.DefaultUserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	utils.AuthCacheClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := &stubUserRepo{byID: map[string]*models.User{}}
	svc := &user.DefaultUserService{Repo: repo, Logger: zap.NewNop()}

	r := gin.New()
	r.GET("/protected", JWTAuthUserMiddleware(repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString("userID")})
	})
	return r, svc
}

func protectedStatus(r *gin.Engine, token string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuthMiddlewareAcceptsFreshTokenAfterReLogin(t *testing.T) {
	r, svc := authTestRouter(t)

	first, err := svc.Register(user.RegisterInput{
		Email: "pat@example.com", Password: "correct-horse", Name: "Pat",
	})
	require.NoError(t, err)

	// Prime the auth cache with the first token's hash.
	require.Equal(t, http.StatusOK, protectedStatus(r, first.Token))

	second, err := svc.Authenticate("pat@example.com", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, protectedStatus(r, second.Token),
		"a freshly issued token must authenticate; a stale cached hash locks the user out")
	assert.Equal(t, http.StatusUnauthorized, protectedStatus(r, first.Token),
		"the superseded token must stop authenticating")
}

func TestAuthMiddlewareRejectsRevokedToken(t *testing.T) {
	r, svc := authTestRouter(t)

	res, err := svc.Register(user.RegisterInput{
		Email: "pat@example.com", Password: "correct-horse", Name: "Pat",
	})
	require.NoError(t, err)

	// Prime the auth cache, then revoke.
	require.Equal(t, http.StatusOK, protectedStatus(r, res.Token))
	require.NoError(t, svc.RevokeToken(res.User.ID))

	assert.Equal(t, http.StatusUnauthorized, protectedStatus(r, res.Token),
		"a revoked token must be rejected even when its hash was cached")
}
