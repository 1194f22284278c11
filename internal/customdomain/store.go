package customdomain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lnk_domains/internal/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// sortColumns whitelists sortable fields; anything else falls back to createdAt
var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"domain":     "domain",
	"status":     "status",
	"isDefault":  "is_default",
	"verifiedAt": "verified_at",
}

// ListParams represents the parameters for listing a team's domains
type ListParams struct {
	Page      int
	Limit     int
	Status    model.DomainStatus
	Search    string
	SortBy    string
	SortOrder string
}

func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	if _, ok := sortColumns[p.SortBy]; !ok {
		p.SortBy = "createdAt"
	}
	if strings.ToLower(p.SortOrder) == "asc" {
		p.SortOrder = "asc"
	} else {
		p.SortOrder = "desc"
	}
	p.Search = strings.ToLower(strings.TrimSpace(p.Search))
}

// Store persists CustomDomain rows
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create inserts d. The unique index on domain is the conflict signal.
func (s *Store) Create(ctx context.Context, d *model.CustomDomain) error {
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDomainExists
		}
		return fmt.Errorf("failed to create domain: %w", err)
	}
	return nil
}

// FindByID loads a domain regardless of team
func (s *Store) FindByID(ctx context.Context, id string) (*model.CustomDomain, error) {
	var d model.CustomDomain
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find domain: %w", err)
	}
	return &d, nil
}

// FindForTeam loads a domain owned by teamID; other teams' rows are not found
func (s *Store) FindForTeam(ctx context.Context, teamID, id string) (*model.CustomDomain, error) {
	var d model.CustomDomain
	if err := s.db.WithContext(ctx).Where("id = ? AND team_id = ?", id, teamID).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find domain: %w", err)
	}
	return &d, nil
}

// ExistsByDomain reports whether domain is registered by anyone
func (s *Store) ExistsByDomain(ctx context.Context, domain string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.CustomDomain{}).Where("domain = ?", domain).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check domain: %w", err)
	}
	return count > 0, nil
}

// Update applies updates to the row
func (s *Store) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if err := s.db.WithContext(ctx).Model(&model.CustomDomain{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update domain: %w", err)
	}
	return nil
}

// MarkChecking stamps a verification attempt before any DNS I/O.
// status is left alone when nil.
func (s *Store) MarkChecking(ctx context.Context, id string, status *model.DomainStatus, at time.Time) error {
	updates := map[string]interface{}{
		"last_check_at":         at,
		"verification_attempts": gorm.Expr("verification_attempts + ?", 1),
	}
	if status != nil {
		updates["status"] = *status
	}
	return s.Update(ctx, id, updates)
}

// Delete hard-deletes a team's domain
func (s *Store) Delete(ctx context.Context, teamID, id string) error {
	result := s.db.WithContext(ctx).Where("id = ? AND team_id = ?", id, teamID).Delete(&model.CustomDomain{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete domain: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of a team's domains and the filtered total
func (s *Store) List(ctx context.Context, teamID string, params ListParams) ([]model.CustomDomain, int64, error) {
	params.normalize()

	query := s.db.WithContext(ctx).Model(&model.CustomDomain{}).Where("team_id = ?", teamID)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		query = query.Where("domain LIKE ? ESCAPE '!'", "%"+escapeLike(params.Search)+"%")
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count domains: %w", err)
	}

	order := clause.OrderByColumn{
		Column: clause.Column{Name: sortColumns[params.SortBy]},
		Desc:   params.SortOrder == "desc",
	}

	var items []model.CustomDomain
	offset := (params.Page - 1) * params.Limit
	if err := query.Session(&gorm.Session{}).Order(order).Order("id").Limit(params.Limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to query domains: %w", err)
	}

	return items, total, nil
}

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// CountByStatus counts every domain on the platform grouped by status
func (s *Store) CountByStatus(ctx context.Context) (map[model.DomainStatus]int64, error) {
	type row struct {
		Status model.DomainStatus
		Count  int64
	}

	var rows []row
	if err := s.db.WithContext(ctx).Model(&model.CustomDomain{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count domains by status: %w", err)
	}

	counts := make(map[model.DomainStatus]int64, len(model.AllDomainStatuses))
	for _, st := range model.AllDomainStatuses {
		counts[st] = 0
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// SetDefault makes id the team's only default domain in one transaction.
// The team's rows are locked first so concurrent calls serialize.
func (s *Store) SetDefault(ctx context.Context, teamID, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&model.CustomDomain{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("team_id = ?", teamID).
			Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("failed to lock team domains: %w", err)
		}

		found := false
		for _, existing := range ids {
			if existing == id {
				found = true
				break
			}
		}
		if !found {
			return ErrNotFound
		}

		if err := tx.Model(&model.CustomDomain{}).
			Where("team_id = ? AND id <> ? AND is_default = ?", teamID, id, true).
			Update("is_default", false).Error; err != nil {
			return fmt.Errorf("failed to clear default domain: %w", err)
		}

		if err := tx.Model(&model.CustomDomain{}).
			Where("id = ?", id).
			Update("is_default", true).Error; err != nil {
			return fmt.Errorf("failed to set default domain: %w", err)
		}

		return nil
	})
}
