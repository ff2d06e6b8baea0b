package ruleset

import (
	"testing"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (ruleset.Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, NewResolver(repo, newMapCache(), time.Minute)), repo
}

func TestService_UpdateSettingsScopes(t *testing.T) {
	svc, repo := newTestService()

	userCtx := ctxAs(t, "user-1", user.RoleUser)
	resp, err := svc.UpdateSettings(userCtx, ruleset.UpdateSettingsRequest{
		Values: map[ruleset.SettingKey]decimal.Decimal{ruleset.KeyVenueFee: dec(150)},
	})
	require.NoError(t, err)
	assert.True(t, resp.RuleSet.VenueFee.Equal(dec(150)))
	assert.Len(t, repo.settings["user-1"], 1)
	assert.Empty(t, repo.settings[""], "user writes never touch the system rows")

	for _, s := range resp.Settings {
		if s.Key == ruleset.KeyVenueFee {
			assert.Equal(t, "user", s.Scope)
		} else {
			assert.Equal(t, "default", s.Scope)
		}
	}

	adminCtx := ctxAs(t, "admin-1", user.RoleAdmin)
	_, err = svc.UpdateSettings(adminCtx, ruleset.UpdateSettingsRequest{
		Values: map[ruleset.SettingKey]decimal.Decimal{ruleset.KeyClientPayment: dec(1000)},
	})
	require.NoError(t, err)
	assert.Len(t, repo.settings[""], 1)

	// The user's cached view picks up the new system value.
	mine, err := svc.GetSettings(userCtx)
	require.NoError(t, err)
	assert.True(t, mine.RuleSet.ClientPayment.Equal(dec(1000)))
	assert.True(t, mine.RuleSet.VenueFee.Equal(dec(150)))
}

func TestService_UpdateSettingsRejectsNegative(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.UpdateSettings(ctxAs(t, "user-1", user.RoleUser), ruleset.UpdateSettingsRequest{
		Values: map[ruleset.SettingKey]decimal.Decimal{ruleset.KeyVenueFee: dec(-1)},
	})
	assert.Error(t, err)
}

func TestService_ApplyTemplateKeepsFees(t *testing.T) {
	svc, repo := newTestService()
	ctx := ctxAs(t, "user-1", user.RoleUser)

	data := ruleset.Default().TemplateData()
	data.BaseSalaryWithClient = dec(420)
	created, err := svc.CreateTemplate(ctx, ruleset.CreateTemplateRequest{Name: "Weekend", Data: data})
	require.NoError(t, err)

	resp, err := svc.ApplyTemplate(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, resp.RuleSet.BaseSalaryWithClient.Equal(dec(420)))
	assert.True(t, resp.RuleSet.ClientPayment.Equal(dec(900)))

	assert.Len(t, repo.settings["user-1"], 6)
	for _, s := range repo.settings["user-1"] {
		assert.NotEqual(t, ruleset.KeyClientPayment, s.Key)
		assert.NotEqual(t, ruleset.KeyVenueFee, s.Key)
	}
}

func TestService_TemplatePermissions(t *testing.T) {
	svc, _ := newTestService()
	owner := ctxAs(t, "user-1", user.RoleUser)
	other := ctxAs(t, "user-2", user.RoleUser)
	admin := ctxAs(t, "admin-1", user.RoleAdmin)

	_, err := svc.CreateTemplate(owner, ruleset.CreateTemplateRequest{Name: "Shared", IsGlobal: true})
	assert.ErrorIs(t, err, ruleset.ErrTemplateForbidden)

	private, err := svc.CreateTemplate(owner, ruleset.CreateTemplateRequest{Name: "Private"})
	require.NoError(t, err)

	_, err = svc.GetTemplate(other, private.ID)
	assert.ErrorIs(t, err, ruleset.ErrTemplateNotFound)

	global, err := svc.CreateTemplate(admin, ruleset.CreateTemplateRequest{Name: "House", IsGlobal: true})
	require.NoError(t, err)

	_, err = svc.GetTemplate(other, global.ID)
	require.NoError(t, err)

	name := "Renamed"
	_, err = svc.UpdateTemplate(other, ruleset.UpdateTemplateRequest{ID: global.ID, Name: &name})
	assert.ErrorIs(t, err, ruleset.ErrTemplateForbidden)
	assert.ErrorIs(t, svc.DeleteTemplate(other, global.ID), ruleset.ErrTemplateForbidden)

	updated, err := svc.UpdateTemplate(owner, ruleset.UpdateTemplateRequest{ID: private.ID, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	list, err := svc.ListTemplates(other)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_CreateTemplateFromCurrent(t *testing.T) {
	svc, _ := newTestService()
	ctx := ctxAs(t, "user-1", user.RoleUser)

	_, err := svc.UpdateSettings(ctx, ruleset.UpdateSettingsRequest{
		Values: map[ruleset.SettingKey]decimal.Decimal{ruleset.KeyFirstClientBonus: dec(260)},
	})
	require.NoError(t, err)

	created, err := svc.CreateTemplateFromCurrent(ctx, ruleset.CreateFromCurrentRequest{Name: "Snapshot"})
	require.NoError(t, err)
	assert.True(t, created.Data.FirstClientBonus.Equal(dec(260)))
	assert.True(t, created.Data.BaseSalaryWithClient.Equal(dec(350)))
}
