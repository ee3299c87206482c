package users_test

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/clubnexus/clubnexus/internal/app/cascade"
	"github.com/clubnexus/clubnexus/internal/app/features/users"
	"github.com/clubnexus/clubnexus/internal/domain/models"
	"github.com/clubnexus/clubnexus/internal/testutil"
)

func setup(t *testing.T) (http.Handler, *testutil.MemStores, *testutil.Fixtures) {
	t.Helper()
	m := testutil.NewMemStores()
	engine := cascade.New(m.Users(), m.Clubs(), m.Notes(), m.Runner(), zap.NewNop())
	h := users.NewHandler(engine, zap.NewNop())
	return users.Routes(h), m, testutil.NewFixtures(t, m)
}

func admin() models.User {
	return models.User{Email: "root@school.edu", Type: models.TypeAdmin}
}

func TestHandleCreate_AsAdmin(t *testing.T) {
	router, m, _ := setup(t)

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"email":     "sam@school.edu",
		"firstName": "Sam",
		"lastName":  "Lee",
		"type":      "student",
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(req, admin()))

	rec.AssertStatus(t, http.StatusCreated)
	u, err := m.Users().GetByEmail(context.Background(), "sam@school.edu")
	if err != nil || u == nil {
		t.Fatalf("user not persisted: %v %v", u, err)
	}
}

func TestHandleCreate_RequiresAdmin(t *testing.T) {
	router, _, f := setup(t)
	student := f.CreateStudent(context.Background(), "sam@school.edu")

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"email":     "new@school.edu",
		"firstName": "New",
		"lastName":  "Kid",
		"type":      "student",
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(req, student))

	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleCreate_InvalidBody(t *testing.T) {
	router, _, _ := setup(t)

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"email": "not-an-email",
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(req, admin()))

	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleCreate_Duplicate(t *testing.T) {
	router, _, f := setup(t)
	f.CreateStudent(context.Background(), "sam@school.edu")

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{
		"email":     "sam@school.edu",
		"firstName": "Sam",
		"lastName":  "Lee",
		"type":      "student",
	})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(req, admin()))

	rec.AssertStatus(t, http.StatusConflict)
}

func TestServeGet_SelfAndAdmin(t *testing.T) {
	router, _, f := setup(t)
	sam := f.CreateStudent(context.Background(), "sam@school.edu")
	pat := f.CreateStudent(context.Background(), "pat@school.edu")

	// Self.
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/sam@school.edu"), sam))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "sam@school.edu")

	// Another student.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/sam@school.edu"), pat))
	rec.AssertStatus(t, http.StatusForbidden)

	// Admin.
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/sam@school.edu"), admin()))
	rec.AssertStatus(t, http.StatusOK)
}

func TestServeGet_Missing(t *testing.T) {
	router, _, _ := setup(t)

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/ghost@school.edu"), admin()))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeList_RequiresAdmin(t *testing.T) {
	router, _, f := setup(t)
	sam := f.CreateStudent(context.Background(), "sam@school.edu")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/"), sam))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/"), admin()))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "sam@school.edu")
}

func TestHandleUpdate_DirectFieldAsSelf(t *testing.T) {
	router, m, f := setup(t)
	sam := f.CreateStudent(context.Background(), "sam@school.edu")

	req := testutil.NewJSONRequest(t, "PUT", "/sam@school.edu/firstName", map[string]string{"value": "Samuel"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(req, sam))

	rec.AssertStatus(t, http.StatusOK)
	u, _ := m.Users().GetByEmail(context.Background(), "sam@school.edu")
	if u.FirstName != "Samuel" {
		t.Errorf("firstName: got %q", u.FirstName)
	}
}

func TestHandleUpdate_TypeChangeIsAdminOnly(t *testing.T) {
	router, m, f := setup(t)
	sam := f.CreateStudent(context.Background(), "sam@school.edu")

	req := testutil.NewJSONRequest(t, "PUT", "/sam@school.edu/type", map[string]string{"value": "admin"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(req, sam))
	rec.AssertStatus(t, http.StatusForbidden)

	req = testutil.NewJSONRequest(t, "PUT", "/sam@school.edu/type", map[string]string{"value": "teacher"})
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(req, admin()))
	rec.AssertStatus(t, http.StatusOK)

	u, _ := m.Users().GetByEmail(context.Background(), "sam@school.edu")
	if u.Type != models.TypeTeacher {
		t.Errorf("type: got %q", u.Type)
	}
}

func TestHandleUpdate_EmailRename(t *testing.T) {
	router, m, f := setup(t)
	sam := f.CreateStudent(context.Background(), "sam@school.edu")

	req := testutil.NewJSONRequest(t, "PUT", "/sam@school.edu/email", map[string]string{"value": "samuel@school.edu"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(req, sam))

	rec.AssertStatus(t, http.StatusOK)
	if u, _ := m.Users().GetByEmail(context.Background(), "samuel@school.edu"); u == nil {
		t.Error("renamed user not found")
	}
}

func TestHandleUpdate_UnknownField(t *testing.T) {
	router, _, f := setup(t)
	sam := f.CreateStudent(context.Background(), "sam@school.edu")

	req := testutil.NewJSONRequest(t, "PUT", "/sam@school.edu/password", map[string]string{"value": "hunter2"})
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(req, sam))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestHandleDelete_RequiresAdmin(t *testing.T) {
	router, m, f := setup(t)
	sam := f.CreateStudent(context.Background(), "sam@school.edu")

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("DELETE", "/sam@school.edu"), sam))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("DELETE", "/sam@school.edu"), admin()))
	rec.AssertStatus(t, http.StatusOK)

	if u, _ := m.Users().GetByEmail(context.Background(), "sam@school.edu"); u != nil {
		t.Error("user survived deletion")
	}
}
