package postgresql_test

import (
	"context"
	"testing"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/employee"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSetRepository_SettingsScopes(t *testing.T) {
	db := testDatabase(t)
	repo := postgresql.NewRuleSetRepository(db)
	users := postgresql.NewUserRepository(db)
	ctx := context.Background()

	u := createTestUser(t, users, "scoped", user.RoleUser)

	system, err := repo.ListSettings(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, system, len(ruleset.SettingKeys))

	err = repo.UpsertSettings(ctx, &u.ID, []ruleset.Setting{
		{Key: ruleset.KeyBaseSalaryNoClient, Value: decimal.Zero},
		{Key: ruleset.KeyVenueFee, Value: decimal.NewFromInt(150)},
	})
	require.NoError(t, err)

	own, err := repo.ListSettings(ctx, &u.ID)
	require.NoError(t, err)
	require.Len(t, own, 2)

	rs := ruleset.FromSettings(system, own)
	assert.True(t, rs.BaseSalaryNoClient.IsZero())
	assert.True(t, rs.VenueFee.Equal(decimal.NewFromInt(150)))
	assert.True(t, rs.ClientPayment.Equal(decimal.NewFromInt(900)))

	// A second write to the same key updates the row.
	err = repo.UpsertSettings(ctx, &u.ID, []ruleset.Setting{{Key: ruleset.KeyVenueFee, Value: decimal.NewFromInt(160)}})
	require.NoError(t, err)
	own, err = repo.ListSettings(ctx, &u.ID)
	require.NoError(t, err)
	assert.Len(t, own, 2)
}

func TestRuleSetRepository_TemplateLifecycle(t *testing.T) {
	db := testDatabase(t)
	repo := postgresql.NewRuleSetRepository(db)
	employees := postgresql.NewEmployeeRepository(db)
	ctx := context.Background()

	data := ruleset.Default().TemplateData()
	data.BaseSalaryWithClient = decimal.NewFromInt(500)

	tpl, err := repo.CreateTemplate(ctx, ruleset.Template{Name: "Senior", Data: data, IsGlobal: true})
	require.NoError(t, err)
	assert.True(t, tpl.Data.BaseSalaryWithClient.Equal(decimal.NewFromInt(500)))

	_, err = repo.CreateTemplate(ctx, ruleset.Template{Name: "Senior", Data: data, IsGlobal: true})
	assert.ErrorIs(t, err, ruleset.ErrTemplateNameExists)

	emp, err := employees.Create(ctx, employee.Employee{Name: "Lily", TemplateID: &tpl.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.DeleteTemplate(ctx, tpl.ID), ruleset.ErrTemplateInUse)

	require.NoError(t, employees.AssignTemplate(ctx, emp.ID, nil))
	require.NoError(t, repo.DeleteTemplate(ctx, tpl.ID))

	_, err = repo.GetTemplateByID(ctx, tpl.ID)
	assert.ErrorIs(t, err, ruleset.ErrTemplateNotFound)
}

func TestRuleSetRepository_ListTemplatesVisibility(t *testing.T) {
	db := testDatabase(t)
	repo := postgresql.NewRuleSetRepository(db)
	users := postgresql.NewUserRepository(db)
	ctx := context.Background()

	a := createTestUser(t, users, "owner-a", user.RoleUser)
	b := createTestUser(t, users, "owner-b", user.RoleUser)
	data := ruleset.Default().TemplateData()

	_, err := repo.CreateTemplate(ctx, ruleset.Template{Name: "Shared", Data: data, IsGlobal: true})
	require.NoError(t, err)
	_, err = repo.CreateTemplate(ctx, ruleset.Template{Name: "Mine", Data: data, UserID: &a.ID})
	require.NoError(t, err)

	visibleToA, err := repo.ListTemplates(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, visibleToA, 2)

	visibleToB, err := repo.ListTemplates(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, visibleToB, 1)
	assert.Equal(t, "Shared", visibleToB[0].Name)
}
