package component

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComp struct {
	name    string
	stmts   []string
	initErr error
	inited  bool
}

func (f *fakeComp) Name() string         { return f.name }
func (f *fakeComp) Migrations() []string { return f.stmts }
func (f *fakeComp) Init(Env) error {
	f.inited = true
	return f.initErr
}
func (f *fakeComp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/"+f.name, func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(f.name)) })
	return r
}

func TestMigrate_RunsInOrder(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "mysql")

	mock.ExpectExec("CREATE TABLE a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE b").WillReturnError(errors.New("denied"))

	err = Migrate(context.Background(), db, []Component{
		&fakeComp{name: "a", stmts: []string{"CREATE TABLE a"}},
		&fakeComp{name: "b", stmts: []string{"CREATE TABLE b"}},
	})
	assert.ErrorContains(t, err, "migrate b #0")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMount_InitsAndRoutes(t *testing.T) {
	c := &fakeComp{name: "demo"}
	r := chi.NewRouter()
	require.NoError(t, Mount(r, Env{}, []Component{c}))
	assert.True(t, c.inited)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/demo", nil))
	assert.Equal(t, "demo", rr.Body.String())
}

func TestMount_InitError(t *testing.T) {
	err := Mount(chi.NewRouter(), Env{}, []Component{&fakeComp{name: "bad", initErr: errors.New("nope")}})
	assert.ErrorContains(t, err, "init bad")
}

func TestRegisterAndAll_Sorted(t *testing.T) {
	Register(&fakeComp{name: "zz-test"})
	Register(&fakeComp{name: "aa-test"})

	names := []string{}
	for _, c := range All() {
		names = append(names, c.Name())
	}
	assert.IsIncreasing(t, names)
}
