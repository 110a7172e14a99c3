package tms_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/internal/utils"
	"github.com/jrsteele09/go-tms-client/tms"
	"github.com/stretchr/testify/require"
)

func TestNewProject(t *testing.T) {
	p := tms.NewProject{Key: " web ", Name: " Web App ", Description: " main "}
	p.Normalize()
	require.Equal(t, "WEB", p.Key)
	require.Equal(t, "Web App", p.Name)
	require.Equal(t, "main", p.Description)
	require.NoError(t, p.Validate())

	require.ErrorIs(t, tms.NewProject{Name: "x"}.Validate(), errors.ErrRequiredField)
	require.ErrorIs(t, tms.NewProject{Key: "X"}.Validate(), errors.ErrRequiredField)
}

func TestProjectScopedPayloads(t *testing.T) {
	t.Run("plan", func(t *testing.T) {
		require.NoError(t, tms.NewPlan{ProjectID: 1, Name: "Smoke"}.Validate())
		require.ErrorIs(t, tms.NewPlan{Name: "Smoke"}.Validate(), errors.ErrRequiredField)
		require.ErrorIs(t, tms.NewPlan{ProjectID: 1, Name: "  "}.Validate(), errors.ErrRequiredField)
	})

	t.Run("run", func(t *testing.T) {
		require.NoError(t, tms.NewRun{ProjectID: 1, Name: "Nightly"}.Validate())
		require.ErrorIs(t, tms.NewRun{ProjectID: 1}.Validate(), errors.ErrRequiredField)
	})

	t.Run("section", func(t *testing.T) {
		require.NoError(t, tms.NewSection{ProjectID: 1, Name: "Checkout"}.Validate())
		require.ErrorIs(t, tms.NewSection{Name: "Checkout"}.Validate(), errors.ErrRequiredField)
	})

	t.Run("release", func(t *testing.T) {
		require.NoError(t, tms.NewRelease{ProjectID: 1, Name: "R1", DueDate: "2026-11-01"}.Validate())
		require.ErrorIs(t, tms.NewRelease{ProjectID: 1, Name: "R1", DueDate: "01/11/2026"}.Validate(), errors.ErrInvalidRequest)
	})

	t.Run("test case", func(t *testing.T) {
		c := tms.NewTestCase{ProjectID: 1, Title: " Login ", Tags: []string{" smoke ", "", "auth"}}
		c.Normalize()
		require.Equal(t, "Login", c.Title)
		require.Equal(t, []string{"smoke", "auth"}, c.Tags)
		require.NoError(t, c.Validate())

		bad := tms.NewTestCase{ProjectID: 1, Title: "x", Steps: json.RawMessage(`[{`)}
		require.ErrorIs(t, bad.Validate(), errors.ErrInvalidRequest)
	})
}

func TestPlanUpdate(t *testing.T) {
	require.ErrorIs(t, tms.PlanUpdate{}.Validate(), errors.ErrInvalidRequest)
	require.ErrorIs(t, tms.PlanUpdate{Name: utils.Ptr(" ")}.Validate(), errors.ErrRequiredField)
	require.NoError(t, tms.PlanUpdate{Description: utils.Ptr("")}.Validate())

	body, err := json.Marshal(tms.PlanUpdate{ReleaseID: utils.Ptr(int64(4))})
	require.NoError(t, err)
	require.JSONEq(t, `{"release":4}`, string(body))
}
