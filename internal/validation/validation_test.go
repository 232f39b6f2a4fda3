package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devconnector/backend/internal/models"
)

func TestCheckUpsertProfileRequest(t *testing.T) {
	t.Run("missing status and skills", func(t *testing.T) {
		errs := Check(&models.UpsertProfileRequest{})
		require.Len(t, errs, 2)

		byParam := map[string]models.FieldError{}
		for _, e := range errs {
			byParam[e.Param] = e
		}
		require.Equal(t, "Status is required", byParam["status"].Msg)
		require.Equal(t, "Skills is required", byParam["skills"].Msg)
		require.Equal(t, "body", byParam["status"].Location)
	})

	t.Run("valid request", func(t *testing.T) {
		errs := Check(&models.UpsertProfileRequest{Status: "Dev", Skills: "Go"})
		require.Nil(t, errs)
	})
}

func TestCheckExperienceRequest(t *testing.T) {
	errs := Check(&models.AddExperienceRequest{})
	require.Len(t, errs, 3)

	params := make([]string, 0, len(errs))
	for _, e := range errs {
		params = append(params, e.Param)
	}
	require.ElementsMatch(t, []string{"title", "company", "from"}, params)
}

func TestCheckEducationRequest(t *testing.T) {
	errs := Check(&models.AddEducationRequest{})
	require.Len(t, errs, 4)

	byParam := map[string]string{}
	for _, e := range errs {
		byParam[e.Param] = e.Msg
	}
	require.Equal(t, "Field of study is required", byParam["fieldofstudy"])
	require.Equal(t, "From date is required", byParam["from"])
}

func TestCheckRegisterRequest(t *testing.T) {
	t.Run("short password", func(t *testing.T) {
		errs := Check(&models.RegisterRequest{Name: "A", Email: "a@b.co", Password: "123"})
		require.Len(t, errs, 1)
		require.Equal(t, "password", errs[0].Param)
		require.Equal(t, "Password must be at least 6 characters", errs[0].Msg)
	})

	t.Run("bad email", func(t *testing.T) {
		errs := Check(&models.RegisterRequest{Name: "A", Email: "nope", Password: "123456"})
		require.Len(t, errs, 1)
		require.Equal(t, "Email must be a valid email", errs[0].Msg)
	})
}
