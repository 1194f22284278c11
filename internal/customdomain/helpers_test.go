package customdomain

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"lnk_domains/internal/db"
	"lnk_domains/internal/model"
)

const (
	testTeam   = "team-1"
	otherTeam  = "team-2"
	testUser   = "user-1"
	testTarget = "cname.lnk.day"
)

// stubResolver answers from fixed maps
type stubResolver struct {
	mu       sync.Mutex
	txt      map[string][]string
	cname    map[string][]string
	txtErr   error
	cnameErr error
	onLookup func()
}

func newStubResolver() *stubResolver {
	return &stubResolver{txt: map[string][]string{}, cname: map[string][]string{}}
}

func (r *stubResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	r.mu.Lock()
	hook := r.onLookup
	values, err := r.txt[name], r.txtErr
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return values, err
}

func (r *stubResolver) LookupCNAME(ctx context.Context, name string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cname[name], r.cnameErr
}

func (r *stubResolver) setOnLookup(hook func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onLookup = hook
}

func (r *stubResolver) publish(d *model.CustomDomain, txt, cname bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if txt {
		r.txt[TXTRecordName(d.Domain)] = []string{d.VerificationToken}
	} else {
		delete(r.txt, TXTRecordName(d.Domain))
	}
	if cname {
		r.cname[d.Domain] = []string{testTarget}
	} else {
		delete(r.cname, d.Domain)
	}
}

type recordingRoutes struct {
	mu      sync.Mutex
	puts    []string
	removes []string
}

func (r *recordingRoutes) Put(ctx context.Context, d *model.CustomDomain) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts = append(r.puts, d.Domain)
	return nil
}

func (r *recordingRoutes) Remove(ctx context.Context, domain string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removes = append(r.removes, domain)
	return nil
}

type recordingEvents struct {
	mu    sync.Mutex
	types []string
}

func (e *recordingEvents) Publish(ctx context.Context, eventType string, d *model.CustomDomain) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, eventType)
	return nil
}

type testEnv struct {
	db       *gorm.DB
	svc      *Service
	resolver *stubResolver
	routes   *recordingRoutes
	events   *recordingEvents
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	env := &testEnv{
		db:       conn,
		resolver: newStubResolver(),
		routes:   &recordingRoutes{},
		events:   &recordingEvents{},
	}
	env.svc = NewService(&Config{
		DB:          conn,
		Resolver:    env.resolver,
		TargetCNAME: testTarget,
		BrandDomain: "lnk.day",
		Routes:      env.routes,
		Events:      env.events,
		Logger:      logrus.NewEntry(logger),
	})
	return env
}

func (e *testEnv) create(t *testing.T, team, name string) *model.CustomDomain {
	t.Helper()
	d, err := e.svc.Create(context.Background(), CreateInput{UserID: testUser, TeamID: team, Domain: name})
	require.NoError(t, err)
	return d
}

// insert writes a row directly so tests control timestamps and state
func (e *testEnv) insert(t *testing.T, team, name string, status model.DomainStatus, createdAt time.Time) *model.CustomDomain {
	t.Helper()
	token, err := GenerateToken()
	require.NoError(t, err)
	d := &model.CustomDomain{
		BaseModel:          model.BaseModel{CreatedAt: createdAt, UpdatedAt: createdAt},
		TeamID:             team,
		UserID:             testUser,
		Domain:             name,
		Type:               model.DomainTypeRedirect,
		Status:             status,
		SSLStatus:          model.SSLStatusNone,
		VerificationToken:  token,
		VerificationMethod: model.VerificationMethodTXT,
		DNSRecords:         RequiredRecords(name, token, testTarget),
		Settings:           datatypes.NewJSONType(model.DomainSettings{}),
	}
	require.NoError(t, e.svc.store.Create(context.Background(), d))
	return d
}

func (e *testEnv) reload(t *testing.T, id string) *model.CustomDomain {
	t.Helper()
	d, err := e.svc.store.FindByID(context.Background(), id)
	require.NoError(t, err)
	return d
}
