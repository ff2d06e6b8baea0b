package ruleset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ktv-ledger/ktv-backend-go/internal/domain/ruleset"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/ktv-ledger/ktv-backend-go/internal/pkg/cache"
)

const globalCachePrefix = "rules:global:"

type ResolverImpl struct {
	repo  ruleset.Repository
	cache cache.Cache
	ttl   time.Duration
}

func NewResolver(repo ruleset.Repository, c cache.Cache, ttl time.Duration) ruleset.Resolver {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &ResolverImpl{repo: repo, cache: c, ttl: ttl}
}

func globalCacheKey(userID *string) string {
	if userID == nil {
		return globalCachePrefix + "system"
	}
	return globalCachePrefix + *userID
}

// Global implements ruleset.Resolver. Cache failures are logged and the
// rule set is read from the database.
func (r *ResolverImpl) Global(ctx context.Context, userID *string) (ruleset.RuleSet, error) {
	key := globalCacheKey(userID)

	var cached ruleset.RuleSet
	found, err := r.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		slog.WarnContext(ctx, "rule set cache read failed", "key", key, "error", err)
	}
	if found {
		return cached, nil
	}

	system, err := r.repo.ListSettings(ctx, nil)
	if err != nil {
		return ruleset.RuleSet{}, fmt.Errorf("failed to load system settings: %w", err)
	}
	var own []ruleset.Setting
	if userID != nil {
		own, err = r.repo.ListSettings(ctx, userID)
		if err != nil {
			return ruleset.RuleSet{}, fmt.Errorf("failed to load user settings: %w", err)
		}
	}

	rs := ruleset.FromSettings(system, own)
	if err := rs.Validate(); err != nil {
		return ruleset.RuleSet{}, fmt.Errorf("%w: stored settings: %w", salary.ErrInconsistentState, err)
	}
	if err := r.cache.SetJSON(ctx, key, rs, r.ttl); err != nil {
		slog.WarnContext(ctx, "rule set cache write failed", "key", key, "error", err)
	}
	return rs, nil
}

// Resolve implements ruleset.Resolver. A template source takes the salary
// side from the template and the fees from the scope's global rule set.
// A template that no longer exists, or stored values that fail validation,
// are reported, never replaced by the global rules.
func (r *ResolverImpl) Resolve(ctx context.Context, src ruleset.Source) (ruleset.RuleSet, error) {
	global, err := r.Global(ctx, src.UserID)
	if err != nil {
		return ruleset.RuleSet{}, err
	}

	switch src.Kind {
	case ruleset.SourceGlobal:
		return global, nil
	case ruleset.SourceTemplate:
		tpl, err := r.repo.GetTemplateByID(ctx, src.TemplateID)
		if err != nil {
			if errors.Is(err, ruleset.ErrTemplateNotFound) {
				return ruleset.RuleSet{}, fmt.Errorf("%w: %w: template %s", salary.ErrInconsistentState, ruleset.ErrTemplateNotFound, src.TemplateID)
			}
			return ruleset.RuleSet{}, err
		}
		rs := global.WithTemplate(tpl.Data)
		if err := rs.Validate(); err != nil {
			return ruleset.RuleSet{}, fmt.Errorf("%w: template %s: %w", salary.ErrInconsistentState, src.TemplateID, err)
		}
		return rs, nil
	}
	return ruleset.RuleSet{}, fmt.Errorf("%w: unknown rule source %q", salary.ErrInvalidInput, src.Kind)
}

// Invalidate implements ruleset.Resolver.
func (r *ResolverImpl) Invalidate(ctx context.Context, userID *string) {
	prefix := globalCachePrefix
	if userID != nil {
		prefix = globalCacheKey(userID)
	}
	if err := r.cache.DeletePrefix(ctx, prefix); err != nil {
		slog.WarnContext(ctx, "rule set cache invalidation failed", "prefix", prefix, "error", err)
	}
}
