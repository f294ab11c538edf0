package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/patternhub/internal/model"
	"github.com/deppfellow/patternhub/internal/server"
	"github.com/deppfellow/patternhub/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

type LeadRepository struct {
	server *server.Server
}

func NewLeadRepository(s *server.Server) *LeadRepository {
	return &LeadRepository{server: s}
}

const waitlistColumns = `id, email, name, source, interest, created_at`

// CreateWaitlistSignup inserts a signup keyed by its normalized email. When
// the email is already registered the stored row is returned with
// created=false.
func (r *LeadRepository) CreateWaitlistSignup(ctx context.Context, email string, req *model.WaitlistRequest) (*model.WaitlistSignup, bool, error) {
	stmt := `
		INSERT INTO waitlist_signups (email, name, source, interest)
		VALUES (@email, @name, @source, @interest)
		ON CONFLICT (email) DO NOTHING
		RETURNING ` + waitlistColumns

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"email":    email,
		"name":     req.Name,
		"source":   req.Source,
		"interest": req.Interest,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to execute create waitlist signup query: %w", err)
	}

	signup, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WaitlistSignup])
	if err == nil {
		return &signup, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to collect waitlist signup: %w", err)
	}

	existing, err := r.GetWaitlistSignupByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *LeadRepository) GetWaitlistSignupByEmail(ctx context.Context, email string) (*model.WaitlistSignup, error) {
	stmt := `SELECT ` + waitlistColumns + ` FROM waitlist_signups WHERE email = @email`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{"email": email})
	if err != nil {
		return nil, fmt.Errorf("failed to execute get waitlist signup query: %w", err)
	}

	signup, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.WaitlistSignup])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sqlerr.NotFound("waitlist_signups", "email")
		}
		return nil, fmt.Errorf("failed to collect waitlist signup: %w", err)
	}

	return &signup, nil
}

func (r *LeadRepository) CreateConsultingInquiry(ctx context.Context, req *model.ConsultingRequest) (*model.ConsultingInquiry, error) {
	stmt := `
		INSERT INTO consulting_inquiries (name, email, company, role, message)
		VALUES (@name, @email, @company, @role, @message)
		RETURNING id, name, email, company, role, message, created_at
	`

	rows, err := r.server.DB.Pool.Query(ctx, stmt, pgx.NamedArgs{
		"name":    req.Name,
		"email":   req.Email,
		"company": req.Company,
		"role":    req.Role,
		"message": req.Message,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute create consulting inquiry query: %w", err)
	}

	inquiry, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ConsultingInquiry])
	if err != nil {
		return nil, fmt.Errorf("failed to collect consulting inquiry: %w", err)
	}

	return &inquiry, nil
}
