package ruleset

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/user"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	settings     map[string][]ruleset.Setting
	templates    map[string]ruleset.Template
	listSettings int
	nextID       int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{settings: map[string][]ruleset.Setting{}, templates: map[string]ruleset.Template{}}
}

func scopeKey(userID *string) string {
	if userID == nil {
		return ""
	}
	return *userID
}

func (f *fakeRepo) ListSettings(_ context.Context, userID *string) ([]ruleset.Setting, error) {
	f.listSettings++
	return append([]ruleset.Setting(nil), f.settings[scopeKey(userID)]...), nil
}

func (f *fakeRepo) UpsertSettings(_ context.Context, userID *string, settings []ruleset.Setting) error {
	k := scopeKey(userID)
	for _, s := range settings {
		s.UserID = userID
		replaced := false
		for i, existing := range f.settings[k] {
			if existing.Key == s.Key {
				f.settings[k][i] = s
				replaced = true
			}
		}
		if !replaced {
			f.settings[k] = append(f.settings[k], s)
		}
	}
	return nil
}

func (f *fakeRepo) CreateTemplate(_ context.Context, t ruleset.Template) (ruleset.Template, error) {
	for _, existing := range f.templates {
		if existing.Name == t.Name && scopeKey(existing.UserID) == scopeKey(t.UserID) {
			return ruleset.Template{}, ruleset.ErrTemplateNameExists
		}
	}
	f.nextID++
	t.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", f.nextID)
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.templates[t.ID] = t
	return t, nil
}

func (f *fakeRepo) GetTemplateByID(_ context.Context, id string) (ruleset.Template, error) {
	t, ok := f.templates[id]
	if !ok {
		return ruleset.Template{}, ruleset.ErrTemplateNotFound
	}
	return t, nil
}

func (f *fakeRepo) ListTemplates(_ context.Context, userID string) ([]ruleset.Template, error) {
	var out []ruleset.Template
	for _, t := range f.templates {
		if t.VisibleTo(userID) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateTemplate(_ context.Context, t ruleset.Template) (ruleset.Template, error) {
	if _, ok := f.templates[t.ID]; !ok {
		return ruleset.Template{}, ruleset.ErrTemplateNotFound
	}
	f.templates[t.ID] = t
	return t, nil
}

func (f *fakeRepo) DeleteTemplate(_ context.Context, id string) error {
	if _, ok := f.templates[id]; !ok {
		return ruleset.ErrTemplateNotFound
	}
	delete(f.templates, id)
	return nil
}

type mapCache struct {
	values map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{values: map[string][]byte{}} }

func (c *mapCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = raw
	return nil
}

func (c *mapCache) DeletePrefix(_ context.Context, prefix string) error {
	for k := range c.values {
		if strings.HasPrefix(k, prefix) {
			delete(c.values, k)
		}
	}
	return nil
}

var testTokenAuth = jwtauth.New("HS256", []byte("test-secret"), nil)

func ctxAs(t *testing.T, userID string, role user.Role) context.Context {
	t.Helper()
	ctx, err := jwt.WithClaims(context.Background(), testTokenAuth, jwt.Claims{UserID: userID, Username: userID, Role: role})
	require.NoError(t, err)
	return ctx
}
