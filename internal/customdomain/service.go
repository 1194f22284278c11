package customdomain

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lnk_domains/internal/domainutil"
	"lnk_domains/internal/model"
	"lnk_domains/internal/resolver"
)

// Config holds the dependencies of a Service
type Config struct {
	DB          *gorm.DB
	Resolver    resolver.Resolver
	TargetCNAME string
	BrandDomain string
	Routes      RouteCache     // optional
	Events      EventPublisher // optional
	Logger      *logrus.Entry
}

// Service drives the custom domain lifecycle
type Service struct {
	store       *Store
	verifier    *Verifier
	routes      RouteCache
	events      EventPublisher
	targetCNAME string
	brandDomain string
	logger      *logrus.Entry
	locks       teamLocks
	now         func() time.Time
}

// NewService creates a Service
func NewService(cfg *Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &Service{
		store:       NewStore(cfg.DB),
		verifier:    NewVerifier(cfg.Resolver, logger),
		routes:      cfg.Routes,
		events:      cfg.Events,
		targetCNAME: domainutil.Normalize(cfg.TargetCNAME),
		brandDomain: domainutil.Normalize(cfg.BrandDomain),
		logger:      logger.WithField("component", "custom-domain-service"),
		now:         time.Now,
	}
	if s.routes == nil {
		s.routes = noopRouteCache{}
	}
	if s.events == nil {
		s.events = noopEventPublisher{}
	}
	return s
}

// CreateInput represents a domain registration request
type CreateInput struct {
	UserID   string
	TeamID   string
	Domain   string
	Type     model.DomainType
	Settings *model.DomainSettings
}

// UpdateInput carries the mutable fields; nil means unchanged
type UpdateInput struct {
	Type     *model.DomainType
	Settings *model.DomainSettings
}

// VerifyResult is returned by Verify; the stored row stays the source of truth
type VerifyResult struct {
	Success       bool   `json:"success"`
	TXTVerified   bool   `json:"txtVerified"`
	CNAMEVerified bool   `json:"cnameVerified"`
	Message       string `json:"message"`
}

// VerificationStatus is the read-only verification view of a domain.
// CurrentRecords is nil until the first verification attempt.
type VerificationStatus struct {
	DomainID             string             `json:"domainId"`
	Domain               string             `json:"domain"`
	Status               model.DomainStatus `json:"status"`
	IsVerified           bool               `json:"isVerified"`
	VerifiedAt           *time.Time         `json:"verifiedAt"`
	LastCheckAt          *time.Time         `json:"lastCheckAt"`
	LastCheckError       *string            `json:"lastCheckError"`
	VerificationAttempts int                `json:"verificationAttempts"`
	RequiredRecords      []model.DNSRecord  `json:"requiredRecords"`
	CurrentRecords       []ObservedRecord   `json:"currentRecords"`
}

// ListResult is one page of domains
type ListResult struct {
	Items []model.CustomDomain
	Total int64
	Page  int
	Limit int
}

// Stats is the platform-wide status breakdown
type Stats struct {
	Total    int64                        `json:"total"`
	ByStatus map[model.DomainStatus]int64 `json:"byStatus"`
}

// Availability is the result of a registration probe
type Availability struct {
	Domain    string `json:"domain"`
	Available bool   `json:"available"`
}

// Create registers a domain for a team in pending state
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.CustomDomain, error) {
	name, err := domainutil.Validate(in.Domain, s.brandDomain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomain, err)
	}

	domainType := in.Type
	if domainType == "" {
		domainType = model.DomainTypeRedirect
	}
	if !domainType.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, domainType)
	}

	token, err := GenerateToken()
	if err != nil {
		return nil, err
	}

	var settings model.DomainSettings
	if in.Settings != nil {
		settings = *in.Settings
	}

	d := &model.CustomDomain{
		TeamID:             in.TeamID,
		UserID:             in.UserID,
		Domain:             name,
		Type:               domainType,
		Status:             model.DomainStatusPending,
		SSLStatus:          model.SSLStatusNone,
		VerificationToken:  token,
		VerificationMethod: model.VerificationMethodTXT,
		IsVerified:         false,
		DNSRecords:         RequiredRecords(name, token, s.targetCNAME),
		Settings:           datatypes.NewJSONType(settings),
	}

	if err := s.store.Create(ctx, d); err != nil {
		return nil, err
	}

	apex, _ := domainutil.EffectiveApex(d.Domain)
	s.logger.WithFields(logrus.Fields{"domain": d.Domain, "apex": apex, "id": d.ID, "team": d.TeamID}).Info("domain registered")
	s.publish(ctx, model.DomainEventCreated, d)
	return d, nil
}

// Get returns a team's domain
func (s *Service) Get(ctx context.Context, teamID, id string) (*model.CustomDomain, error) {
	return s.store.FindForTeam(ctx, teamID, id)
}

// Update changes type and/or settings
func (s *Service) Update(ctx context.Context, teamID, id string, in UpdateInput) (*model.CustomDomain, error) {
	d, err := s.store.FindForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidType, *in.Type)
		}
		updates["type"] = *in.Type
	}
	if in.Settings != nil {
		updates["settings"] = datatypes.NewJSONType(*in.Settings)
	}
	if len(updates) == 0 {
		return d, nil
	}

	if err := s.store.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	d, err = s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.Status == model.DomainStatusActive {
		s.putRoute(ctx, d)
	}
	s.publish(ctx, model.DomainEventUpdated, d)
	return d, nil
}

// Delete hard-deletes a team's domain
func (s *Service) Delete(ctx context.Context, teamID, id string) error {
	d, err := s.store.FindForTeam(ctx, teamID, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, teamID, id); err != nil {
		return err
	}

	s.removeRoute(ctx, d.Domain)
	s.logger.WithFields(logrus.Fields{"domain": d.Domain, "id": d.ID}).Info("domain deleted")
	s.publish(ctx, model.DomainEventDeleted, d)
	return nil
}

// Verify runs one synchronous DNS ownership check and persists the result
func (s *Service) Verify(ctx context.Context, teamID, id string) (*VerifyResult, error) {
	d, err := s.store.FindForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}

	// active domains are re-checked without leaving active
	keepStatus := d.Status == model.DomainStatusActive
	var checking *model.DomainStatus
	if !keepStatus {
		next, err := Transition(d.Status, EventVerifyStart)
		if err != nil {
			return nil, err
		}
		checking = &next
	}

	now := s.now()
	// stamp the attempt before any I/O so an interrupted check stays observable
	if err := s.store.MarkChecking(ctx, id, checking, now); err != nil {
		return nil, err
	}

	check := s.verifier.Check(ctx, d)
	outcome := Derive(check)

	updates := map[string]interface{}{
		"last_check_error": outcome.LastCheckError,
	}
	if !keepStatus {
		next, err := Transition(model.DomainStatusVerifying, outcome.Event)
		if err != nil {
			return nil, err
		}
		updates["status"] = next
	}
	if outcome.Success {
		updates["is_verified"] = true
		if d.VerifiedAt == nil {
			updates["verified_at"] = now
		}
		if !keepStatus {
			updates["ssl_status"] = model.SSLStatusPending
		}
	}

	if err := s.store.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"domain": d.Domain,
		"id":     d.ID,
		"txt":    check.TXTVerified,
		"cname":  check.CNAMEVerified,
	}).Info(outcome.Message)

	if updated, err := s.store.FindByID(ctx, id); err == nil {
		s.publish(ctx, verifyEventType(outcome.Event), updated)
	}

	return &VerifyResult{
		Success:       outcome.Success,
		TXTVerified:   check.TXTVerified,
		CNAMEVerified: check.CNAMEVerified,
		Message:       outcome.Message,
	}, nil
}

// VerificationStatus returns the required records and, once a check has
// been attempted, the records currently published.
func (s *Service) VerificationStatus(ctx context.Context, teamID, id string) (*VerificationStatus, error) {
	d, err := s.store.FindForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}

	status := &VerificationStatus{
		DomainID:             d.ID,
		Domain:               d.Domain,
		Status:               d.Status,
		IsVerified:           d.IsVerified,
		VerifiedAt:           d.VerifiedAt,
		LastCheckAt:          d.LastCheckAt,
		LastCheckError:       d.LastCheckError,
		VerificationAttempts: d.VerificationAttempts,
		RequiredRecords:      append([]model.DNSRecord(nil), d.DNSRecords...),
	}

	if d.LastCheckAt != nil {
		status.CurrentRecords = s.verifier.Observe(ctx, d)
	}

	return status, nil
}

// Activate promotes a verified domain to active. DNS is not re-checked.
func (s *Service) Activate(ctx context.Context, teamID, id string) (*model.CustomDomain, error) {
	d, err := s.store.FindForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}

	if d.Status == model.DomainStatusSuspended {
		return nil, ErrSuspended
	}
	if !d.IsVerified {
		return nil, ErrNotVerified
	}

	next, err := Transition(d.Status, EventActivate)
	if err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, id, map[string]interface{}{
		"status":     next,
		"ssl_status": model.SSLStatusActive,
	}); err != nil {
		return nil, err
	}

	d, err = s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.putRoute(ctx, d)
	s.logger.WithFields(logrus.Fields{"domain": d.Domain, "id": d.ID}).Info("domain activated")
	s.publish(ctx, model.DomainEventActivated, d)
	return d, nil
}

// Suspend forces any domain to suspended
func (s *Service) Suspend(ctx context.Context, teamID, id string) (*model.CustomDomain, error) {
	d, err := s.store.FindForTeam(ctx, teamID, id)
	if err != nil {
		return nil, err
	}

	if d.Status != model.DomainStatusSuspended {
		next, err := Transition(d.Status, EventSuspend)
		if err != nil {
			return nil, err
		}
		if err := s.store.Update(ctx, id, map[string]interface{}{"status": next}); err != nil {
			return nil, err
		}
	}

	if reloaded, err := s.store.FindByID(ctx, id); err == nil {
		d = reloaded
	}

	s.removeRoute(ctx, d.Domain)
	s.logger.WithFields(logrus.Fields{"domain": d.Domain, "id": d.ID}).Warn("domain suspended")
	s.publish(ctx, model.DomainEventSuspended, d)
	return d, nil
}

// SetDefault makes id the only default domain of its team
func (s *Service) SetDefault(ctx context.Context, teamID, id string) (*model.CustomDomain, error) {
	unlock := s.locks.lock(teamID)
	defer unlock()

	if err := s.store.SetDefault(ctx, teamID, id); err != nil {
		return nil, err
	}

	d, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, model.DomainEventDefaultChanged, d)
	return d, nil
}

// List returns a page of the team's domains
func (s *Service) List(ctx context.Context, teamID string, params ListParams) (*ListResult, error) {
	if params.Status != "" {
		if _, ok := model.ParseDomainStatus(string(params.Status)); !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, params.Status)
		}
	}

	params.normalize()
	items, total, err := s.store.List(ctx, teamID, params)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Items: items,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}, nil
}

// Stats counts every domain on the platform by status
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByStatus: counts}
	for _, c := range counts {
		stats.Total += c
	}
	return stats, nil
}

// CheckAvailability reports whether a domain can still be registered
func (s *Service) CheckAvailability(ctx context.Context, domain string) (*Availability, error) {
	name, err := domainutil.Validate(domain, s.brandDomain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomain, err)
	}

	exists, err := s.store.ExistsByDomain(ctx, name)
	if err != nil {
		return nil, err
	}

	return &Availability{Domain: name, Available: !exists}, nil
}

func (s *Service) publish(ctx context.Context, eventType string, d *model.CustomDomain) {
	if err := s.events.Publish(ctx, eventType, d); err != nil {
		s.logger.WithFields(logrus.Fields{"domain": d.Domain, "event": eventType}).Warnf("failed to publish event: %v", err)
	}
}

func (s *Service) putRoute(ctx context.Context, d *model.CustomDomain) {
	if err := s.routes.Put(ctx, d); err != nil {
		s.logger.WithField("domain", d.Domain).Errorf("failed to cache route: %v", err)
	}
}

func (s *Service) removeRoute(ctx context.Context, domain string) {
	if err := s.routes.Remove(ctx, domain); err != nil {
		s.logger.WithField("domain", domain).Errorf("failed to remove cached route: %v", err)
	}
}

func verifyEventType(ev Event) string {
	switch ev {
	case EventVerifyMatched:
		return model.DomainEventVerified
	case EventVerifyPartial:
		return model.DomainEventPending
	default:
		return model.DomainEventFailed
	}
}
