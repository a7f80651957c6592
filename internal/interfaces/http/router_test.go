package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/juju/clock/testclock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appkennel "github.com/jhoicas/Refugio-api/internal/application/kennel"
	"github.com/jhoicas/Refugio-api/internal/application/usecase"
	"github.com/jhoicas/Refugio-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Refugio-api/internal/interfaces/http"
	"github.com/jhoicas/Refugio-api/pkg/config"
)

type api struct {
	t     *testing.T
	app   *fiber.App
	clock *testclock.Clock
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.NewStore()
	clk := testclock.NewClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	shelter := config.ShelterConfig{OverflowRoles: []string{"admin", "supervisor"}}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		KennelUC:    usecase.NewKennelUseCase(store.Kennels(), store.Stays(), store.Animals(), clk),
		AnimalUC:    usecase.NewAnimalUseCase(store.Animals(), store.Stays(), clk),
		MoveAnimal:  appkennel.NewMoveAnimalUseCase(store, clk, zerolog.Nop(), nil),
		CanOverflow: shelter.CanOverflow,
		JWTSecret:   testJWTSecret,
		Log:         zerolog.Nop(),
	})
	return &api{t: t, app: app, clock: clk}
}

// do ejecuta la petición con un token del rol y organización dados y decodifica el JSON.
func (a *api) do(method, path, orgID, role string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	tok, err := pkgjwtGenerate(orgID, role)
	require.NoError(a.t, err)
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (a *api) kennel(orgID string, capacity int, extra map[string]any) string {
	a.t.Helper()
	body := map[string]any{"name": "Canil", "capacity": capacity}
	for k, v := range extra {
		body[k] = v
	}
	status, out := a.do(http.MethodPost, "/api/kennels", orgID, "admin", body)
	require.Equal(a.t, http.StatusCreated, status, "%v", out)
	return out["id"].(string)
}

func (a *api) animal(orgID, species string) string {
	a.t.Helper()
	status, out := a.do(http.MethodPost, "/api/animals", orgID, "caretaker", map[string]any{"name": "Firulais", "species": species})
	require.Equal(a.t, http.StatusCreated, status, "%v", out)
	return out["id"].(string)
}

func (a *api) move(orgID, role, animalID string, body map[string]any) (int, map[string]any) {
	a.t.Helper()
	a.clock.Advance(time.Minute)
	return a.do(http.MethodPost, "/api/animals/"+animalID+"/move", orgID, role, body)
}

func TestMoveEndpoint_FlujoCompleto(t *testing.T) {
	a := newAPI(t)
	k := a.kennel(testOrgID, 1, nil)
	d1 := a.animal(testOrgID, "dog")
	d2 := a.animal(testOrgID, "dog")

	status, out := a.move(testOrgID, "caretaker", d1, map[string]any{"kennel_id": k, "reason": "intake"})
	require.Equal(t, http.StatusOK, status, "%v", out)
	assert.Equal(t, "moved", out["status"])
	assert.Nil(t, out["from"])
	assert.Equal(t, k, out["to"])
	assert.Equal(t, 1.0, out["occupied"])
	assert.Equal(t, 1.0, out["capacity"])

	status, out = a.move(testOrgID, "caretaker", d1, map[string]any{"kennel_id": k})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"status": "noop", "animal_id": d1, "kennel_id": k}, out)

	status, out = a.move(testOrgID, "caretaker", d2, map[string]any{"kennel_id": k})
	require.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CAPACITY_EXCEEDED", out["code"])
	details := out["details"].(map[string]any)
	assert.Equal(t, 1.0, details["occupied"])
	assert.Equal(t, 1.0, details["capacity"])

	status, out = a.move(testOrgID, "caretaker", d2, map[string]any{"kennel_id": k, "allow_overflow": true})
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "OVERFLOW_FORBIDDEN", out["code"])

	status, out = a.move(testOrgID, "supervisor", d2, map[string]any{"kennel_id": k, "allow_overflow": true})
	require.Equal(t, http.StatusOK, status, "%v", out)
	assert.Equal(t, 2.0, out["occupied"])
	assert.Equal(t, true, out["overflow"])

	status, out = a.move(testOrgID, "caretaker", d1, map[string]any{"kennel_id": nil, "reason": "outcome"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"status": "removed", "animal_id": d1, "from": k}, out)

	status, out = a.do(http.MethodGet, "/api/kennels/"+k+"/occupancy", testOrgID, "volunteer", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1.0, out["occupied"])

	status, out = a.do(http.MethodGet, "/api/animals/"+d1+"/stays", testOrgID, "volunteer", nil)
	require.Equal(t, http.StatusOK, status)
	items := out["items"].([]any)
	require.Len(t, items, 1)
	assert.NotNil(t, items[0].(map[string]any)["end_at"])
	assert.Equal(t, testUserID, items[0].(map[string]any)["moved_by"])
}

func TestMoveEndpoint_Errores(t *testing.T) {
	a := newAPI(t)
	k := a.kennel(testOrgID, 3, map[string]any{"status": "maintenance"})
	d := a.animal(testOrgID, "dog")

	status, out := a.move(testOrgID, "caretaker", d, map[string]any{"kennel_id": k})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "KENNEL_UNAVAILABLE", out["code"])

	status, out = a.move(testOrgID, "caretaker", "no-existe", map[string]any{"kennel_id": k})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ANIMAL_NOT_FOUND", out["code"])

	status, out = a.move(testOrgID, "caretaker", d, map[string]any{"kennel_id": "no-existe"})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "KENNEL_NOT_FOUND", out["code"])

	status, out = a.move(testOrgID, "caretaker", d, map[string]any{"kennel_id": k, "reason": "vacaciones"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])

	status, out = a.move(testOrgID, "caretaker", d, map[string]any{"kennel_id": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])

	// otra organización no ve el canil
	other := "00000000-0000-0000-0000-00000000000f"
	x := a.animal(other, "dog")
	status, out = a.move(other, "caretaker", x, map[string]any{"kennel_id": k})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "KENNEL_NOT_FOUND", out["code"])
	status, _ = a.do(http.MethodGet, "/api/kennels/"+k, other, "admin", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestKennelEndpoints_SoloAdminEscribe(t *testing.T) {
	a := newAPI(t)
	status, out := a.do(http.MethodPost, "/api/kennels", testOrgID, "caretaker", map[string]any{"name": "x", "capacity": 1})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", out["code"])

	k := a.kennel(testOrgID, 2, map[string]any{"capacity_rules": map[string]any{"by_species": map[string]int{"cat": 4}}})
	status, _ = a.do(http.MethodPatch, "/api/kennels/"+k, testOrgID, "caretaker", map[string]any{"status": "closed"})
	assert.Equal(t, http.StatusForbidden, status)

	status, out = a.do(http.MethodPatch, "/api/kennels/"+k, testOrgID, "admin", map[string]any{"status": "closed"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "closed", out["status"])
	assert.Equal(t, map[string]any{"by_species": map[string]any{"cat": 4.0}}, out["capacity_rules"])

	status, out = a.do(http.MethodPost, "/api/kennels", testOrgID, "admin", map[string]any{"name": "x", "capacity": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])

	status, out = a.do(http.MethodGet, "/api/kennels?limit=1", testOrgID, "volunteer", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, out["items"], 1)
}
