package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	appMiddleware "github.com/devconnector/backend/internal/middleware"
	"github.com/devconnector/backend/internal/models"
	"github.com/devconnector/backend/internal/services"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	router   http.Handler
	users    *services.MemoryUserService
	posts    *services.MemoryPostService
	profiles *services.MemoryProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := services.NewMemoryUserService()
	posts := services.NewMemoryPostService()
	profiles := services.NewMemoryProfileService(users, nil)
	accounts := services.NewMemoryAccountService(posts, profiles, users)

	authHandler := NewAuthHandler(users, testJWTSecret, time.Hour)
	profileHandler := NewProfileHandler(profiles, accounts)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/users", authHandler.Register)
		r.Post("/auth", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.JWTAuth(testJWTSecret))
			r.Get("/auth", authHandler.CurrentUser)
		})

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.ListProfiles)
			r.Get("/user/{userID}", profileHandler.GetProfileByUser)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.JWTAuth(testJWTSecret))

				r.Get("/me", profileHandler.GetMyProfile)
				r.Post("/", profileHandler.UpsertProfile)
				r.Delete("/", profileHandler.DeleteAccount)
				r.Put("/experience", profileHandler.AddExperience)
				r.Delete("/experience/{expID}", profileHandler.DeleteExperience)
				r.Put("/education", profileHandler.AddEducation)
				r.Delete("/education/{eduID}", profileHandler.DeleteEducation)
			})
		})
	})

	return &testEnv{router: r, users: users, posts: posts, profiles: profiles}
}

func (e *testEnv) registerUser(t *testing.T, name, email string) (*models.User, string) {
	t.Helper()
	user, err := e.users.Register(context.Background(), &models.RegisterRequest{
		Name: name, Email: email, Password: "secret123",
	})
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeProfile(t *testing.T, rec *httptest.ResponseRecorder) models.Profile {
	t.Helper()
	var prof models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prof))
	return prof
}

func decodeMsg(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Msg
}

func TestUpsertProfileValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "John", "john@example.com")

	rec := env.do(t, http.MethodPost, "/api/profile", token, map[string]string{
		"status": "",
		"skills": "",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Errors, 2)

	// The rejected submission must not have created anything.
	rec = env.do(t, http.MethodGet, "/api/profile/me", token, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "There is no profile for this user", decodeMsg(t, rec))
}

func TestUpsertProfileHappyPath(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.registerUser(t, "John Doe", "john@example.com")

	rec := env.do(t, http.MethodPost, "/api/profile", token, map[string]string{
		"status":  "Developer",
		"skills":  "Go, HTTP ,MongoDB",
		"company": "Acme",
		"youtube": "https://youtube.com/@john",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	prof := decodeProfile(t, rec)
	require.Equal(t, user.ID, prof.UserID)
	require.Equal(t, "John Doe", prof.Name)
	require.Equal(t, []string{"Go", "HTTP", "MongoDB"}, prof.Skills)
	require.Equal(t, "https://youtube.com/@john", prof.Social.Youtube)

	rec = env.do(t, http.MethodGet, "/api/profile/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Developer", decodeProfile(t, rec).Status)
}

func TestProfileRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/profile/me"},
		{http.MethodPost, "/api/profile"},
		{http.MethodDelete, "/api/profile"},
		{http.MethodPut, "/api/profile/experience"},
		{http.MethodDelete, "/api/profile/experience/x"},
		{http.MethodPut, "/api/profile/education"},
		{http.MethodDelete, "/api/profile/education/x"},
	} {
		rec := env.do(t, tc.method, tc.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestGetProfileByUser(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.registerUser(t, "John", "john@example.com")

	t.Run("malformed id reports not found", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/profile/user/%21bogus%21", "", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Profile not found", decodeMsg(t, rec))
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/profile/user/"+user.ID, "", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("existing profile is public", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/profile", token, map[string]string{
			"status": "Dev", "skills": "Go",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		rec = env.do(t, http.MethodGet, "/api/profile/user/"+user.ID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "John", decodeProfile(t, rec).Name)
	})
}

func TestListProfiles(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/profile", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var profiles []models.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	require.Empty(t, profiles)

	_, token := env.registerUser(t, "John", "john@example.com")
	env.do(t, http.MethodPost, "/api/profile", token, map[string]string{"status": "Dev", "skills": "Go"})

	rec = env.do(t, http.MethodGet, "/api/profile", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	require.Len(t, profiles, 1)
}

func TestExperienceRoutes(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "John", "john@example.com")
	env.do(t, http.MethodPost, "/api/profile", token, map[string]string{"status": "Dev", "skills": "Go"})

	t.Run("validation", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/profile/experience", token, map[string]string{})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp models.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Errors, 3)
	})

	rec := env.do(t, http.MethodPut, "/api/profile/experience", token, map[string]interface{}{
		"title": "Engineer", "company": "First Corp", "from": "2020-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/profile/experience", token, map[string]interface{}{
		"title": "Senior Engineer", "company": "Second Corp", "from": "2022-01-01T00:00:00Z", "current": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	prof := decodeProfile(t, rec)

	t.Run("most recent first", func(t *testing.T) {
		require.Len(t, prof.Experience, 2)
		require.Equal(t, "Second Corp", prof.Experience[0].Company)
		require.True(t, prof.Experience[0].Current)
		require.Equal(t, "First Corp", prof.Experience[1].Company)
	})

	t.Run("delete unknown id is a no-op, not an error", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/profile/experience/no-such-entry", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, decodeProfile(t, rec).Experience, 2)
	})

	t.Run("delete known id", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/profile/experience/"+prof.Experience[0].ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		got := decodeProfile(t, rec)
		require.Len(t, got.Experience, 1)
		require.Equal(t, "First Corp", got.Experience[0].Company)
	})

	t.Run("without a profile", func(t *testing.T) {
		_, otherToken := env.registerUser(t, "NoProfile", "none@example.com")
		rec := env.do(t, http.MethodPut, "/api/profile/experience", otherToken, map[string]interface{}{
			"title": "Engineer", "company": "Acme", "from": "2020-01-01T00:00:00Z",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "There is no profile for this user", decodeMsg(t, rec))
	})
}

func TestEducationRoutes(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "John", "john@example.com")
	env.do(t, http.MethodPost, "/api/profile", token, map[string]string{"status": "Dev", "skills": "Go"})

	t.Run("validation", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/profile/education", token, map[string]string{})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp models.ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Errors, 4)
	})

	rec := env.do(t, http.MethodPut, "/api/profile/education", token, map[string]interface{}{
		"school": "State U", "degree": "BSc", "fieldofstudy": "CS", "from": "2015-09-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	prof := decodeProfile(t, rec)
	require.Len(t, prof.Education, 1)

	rec = env.do(t, http.MethodDelete, "/api/profile/education/"+prof.Education[0].ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decodeProfile(t, rec).Education)
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.registerUser(t, "John", "john@example.com")
	env.do(t, http.MethodPost, "/api/profile", token, map[string]string{"status": "Dev", "skills": "Go"})

	_, err := env.posts.Create(context.Background(), user.ID, "a post")
	require.NoError(t, err)

	rec := env.do(t, http.MethodDelete, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "User deleted", decodeMsg(t, rec))

	remaining, err := env.posts.ListByUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Empty(t, remaining)

	_, err = env.profiles.GetByUserID(context.Background(), user.ID)
	require.ErrorIs(t, err, services.ErrProfileNotFound)

	_, err = env.users.GetByID(context.Background(), user.ID)
	require.ErrorIs(t, err, services.ErrUserNotFound)
}
