package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const patternColumns = `id, slug, title, description, content, tags, difficulty, created_at, updated_at`

const ruleColumns = `id, slug, title, description, content, tags, category, severity, created_at, updated_at`

// contentWhere is shared by pattern and rule listings. Unset filters are
// passed as empty strings and match everything.
const contentWhere = `
	WHERE (@query = '' OR title ILIKE @like OR description ILIKE @like)
	  AND (@tag = '' OR @tag = ANY(tags))
`

func contentArgs(filter model.ContentFilter) pgx.NamedArgs {
	return pgx.NamedArgs{
		"query":  filter.Query,
		"like":   likePattern(filter.Query),
		"tag":    filter.Tag,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	}
}

type PatternRepository struct {
	server *server.Server
}

func NewPatternRepository(s *server.Server) *PatternRepository {
	return &PatternRepository{server: s}
}

// List returns one page of patterns and the total match count.
func (r *PatternRepository) List(ctx context.Context, filter model.ContentFilter) ([]model.Pattern, int, error) {
	args := contentArgs(filter)

	var total int
	countStmt := `SELECT COUNT(*) FROM patterns` + contentWhere
	if err := r.server.DB.Pool.QueryRow(ctx, countStmt, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count patterns: %w", err)
	}

	stmt := `SELECT ` + patternColumns + ` FROM patterns` + contentWhere + `
		ORDER BY title ASC, id ASC
		LIMIT @limit OFFSET @offset
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute list patterns query: %w", err)
	}

	patterns, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Pattern])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to collect patterns: %w", err)
	}

	return patterns, total, nil
}

func (r *PatternRepository) GetBySlug(ctx context.Context, slug string) (*model.Pattern, error) {
	stmt := `SELECT ` + patternColumns + ` FROM patterns WHERE slug = @slug`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"slug": slug})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get pattern query for slug=%s: %w", slug, err)
	}

	pattern, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Pattern])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sqlerr.NotFound("patterns", "slug "+slug)
		}
		return nil, fmt.Errorf("failed to collect pattern for slug=%s: %w", slug, err)
	}

	return &pattern, nil
}

// IDsBySlugs resolves the slugs that exist. Unknown slugs are absent from
// the result.
func (r *PatternRepository) IDsBySlugs(ctx context.Context, slugs []string) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}

	rows, err := r.server.DB.Pool.Query(ctx,
		`SELECT slug, id FROM patterns WHERE slug = ANY(@slugs)`,
		pgx.NamedArgs{"slugs": slugs},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to execute pattern id lookup: %w", err)
	}

	var (
		slug string
		id   uuid.UUID
	)
	_, err = pgx.ForEachRow(rows, []any{&slug, &id}, func() error {
		out[slug] = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect pattern ids: %w", err)
	}

	return out, nil
}

type RuleRepository struct {
	server *server.Server
}

func NewRuleRepository(s *server.Server) *RuleRepository {
	return &RuleRepository{server: s}
}

func (r *RuleRepository) List(ctx context.Context, filter model.ContentFilter) ([]model.Rule, int, error) {
	args := contentArgs(filter)
	args["category"] = filter.Category
	args["severity"] = filter.Severity

	where := contentWhere + `
	  AND (@category = '' OR category = @category)
	  AND (@severity = '' OR severity = @severity)
	`

	var total int
	if err := r.server.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM rules`+where, args).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rules: %w", err)
	}

	stmt := `SELECT ` + ruleColumns + ` FROM rules` + where + `
		ORDER BY title ASC, id ASC
		LIMIT @limit OFFSET @offset
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute list rules query: %w", err)
	}

	rules, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Rule])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to collect rules: %w", err)
	}

	return rules, total, nil
}

func (r *RuleRepository) GetBySlug(ctx context.Context, slug string) (*model.Rule, error) {
	stmt := `SELECT ` + ruleColumns + ` FROM rules WHERE slug = @slug`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"slug": slug})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get rule query for slug=%s: %w", slug, err)
	}

	rule, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Rule])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sqlerr.NotFound("rules", "slug "+slug)
		}
		return nil, fmt.Errorf("failed to collect rule for slug=%s: %w", slug, err)
	}

	return &rule, nil
}
