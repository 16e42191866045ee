package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"catalog_portal/internal/app/service"
	"catalog_portal/internal/common"
	"catalog_portal/internal/common/security"
	"catalog_portal/internal/domain/repository/repositorytest"

	"github.com/go-chi/jwtauth/v5"
	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSchema(t *testing.T) (*graphqlgo.Schema, *repositorytest.MemUserRepo) {
	t.Helper()
	repo := repositorytest.NewMemUserRepo()
	issuer := security.NewTokenIssuer(jwtauth.New("HS256", []byte("test-secret"), nil), time.Hour)
	return NewSchema(service.NewAuthService(repo, issuer), service.NewUserService(repo)), repo
}

func exec(t *testing.T, schema *graphqlgo.Schema, query string, vars map[string]interface{}) (map[string]json.RawMessage, []string) {
	t.Helper()
	resp := schema.Exec(context.Background(), query, "", vars)
	var msgs []string
	for _, e := range resp.Errors {
		msgs = append(msgs, e.Message)
	}
	var data map[string]json.RawMessage
	if len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, &data))
	}
	return data, msgs
}

const createAna = `mutation {
  createUser(username: "ana", name: "Ana", lastName: "Li", email: "a@x.com", userType: "admin", password: "secret123") {
    id username lastName createDate
  }
}`

func TestCreateUserThenLogin(t *testing.T) {
	schema, _ := newTestSchema(t)

	data, errs := exec(t, schema, createAna, nil)
	require.Empty(t, errs)
	var created struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		LastName   string `json:"lastName"`
		CreateDate string `json:"createDate"`
	}
	require.NoError(t, json.Unmarshal(data["createUser"], &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Li", created.LastName)
	assert.Equal(t, "2024-01-01T00:00:00Z", created.CreateDate)

	data, errs = exec(t, schema, `query($u: String!, $p: String!) { login(username: $u, password: $p) { token user { id username } } }`,
		map[string]interface{}{"u": "ana", "p": "secret123"})
	require.Empty(t, errs)
	var payload struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(data["login"], &payload))
	assert.NotEmpty(t, payload.Token)
	assert.Equal(t, created.ID, payload.User.ID)
}

func TestLogin_FailuresShareOneMessage(t *testing.T) {
	schema, _ := newTestSchema(t)
	_, errs := exec(t, schema, createAna, nil)
	require.Empty(t, errs)

	for _, q := range []string{
		`{ login(username: "nobody", password: "secret123") { token } }`,
		`{ login(username: "ana", password: "nope") { token } }`,
		`{ login(username: "", password: "") { token } }`,
	} {
		_, errs := exec(t, schema, q, nil)
		assert.Equal(t, []string{common.MsgLoginFailed}, errs, q)
	}
}

func TestGetUsersNeverExposesPasswordHash(t *testing.T) {
	schema, _ := newTestSchema(t)
	_, errs := exec(t, schema, createAna, nil)
	require.Empty(t, errs)

	_, errs = exec(t, schema, `{ getUsers { passwordHash } }`, nil)
	assert.NotEmpty(t, errs)

	data, errs := exec(t, schema, `{ getUsers { username email } }`, nil)
	require.Empty(t, errs)
	assert.JSONEq(t, `[{"username":"ana","email":"a@x.com"}]`, string(data["getUsers"]))
}

func TestUpdateUser_OnlyProvidedArgumentsChange(t *testing.T) {
	schema, repo := newTestSchema(t)
	_, errs := exec(t, schema, createAna, nil)
	require.Empty(t, errs)
	ana, err := repo.FindByUsername(context.Background(), "ana")
	require.NoError(t, err)

	data, errs := exec(t, schema, `mutation($id: ID!) { updateUser(id: $id, email: "new@x.com") { username name email } }`,
		map[string]interface{}{"id": ana.ID})
	require.Empty(t, errs)
	assert.JSONEq(t, `{"username":"ana","name":"Ana","email":"new@x.com"}`, string(data["updateUser"]))

	stored, err := repo.FindByID(context.Background(), ana.ID)
	require.NoError(t, err)
	assert.Equal(t, ana.PasswordHash, stored.PasswordHash)
}

func TestUpdateUser_Errors(t *testing.T) {
	schema, repo := newTestSchema(t)
	_, errs := exec(t, schema, createAna, nil)
	require.Empty(t, errs)
	ana, _ := repo.FindByUsername(context.Background(), "ana")

	_, errs = exec(t, schema, `mutation { updateUser(id: "missing", name: "X") { id } }`, nil)
	assert.Equal(t, []string{common.MsgUserNotFound}, errs)

	_, errs = exec(t, schema, `mutation($id: ID!) { updateUser(id: $id, username: "") { id } }`,
		map[string]interface{}{"id": ana.ID})
	assert.Equal(t, []string{common.MsgValidation}, errs)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	schema, _ := newTestSchema(t)
	_, errs := exec(t, schema, createAna, nil)
	require.Empty(t, errs)

	_, errs = exec(t, schema, createAna, nil)
	assert.Equal(t, []string{common.MsgConflict}, errs)
}

func TestDeleteUser(t *testing.T) {
	schema, repo := newTestSchema(t)
	_, errs := exec(t, schema, createAna, nil)
	require.Empty(t, errs)
	ana, _ := repo.FindByUsername(context.Background(), "ana")

	q := `mutation($id: ID!) { deleteUser(id: $id) }`
	data, errs := exec(t, schema, q, map[string]interface{}{"id": ana.ID})
	require.Empty(t, errs)
	assert.Equal(t, "true", string(data["deleteUser"]))

	data, errs = exec(t, schema, q, map[string]interface{}{"id": ana.ID})
	require.Empty(t, errs)
	assert.Equal(t, "false", string(data["deleteUser"]))
}

func TestHandlerServesPost(t *testing.T) {
	schema, _ := newTestSchema(t)
	srv := httptest.NewServer(Handler(schema))
	defer srv.Close()

	body, _ := json.Marshal(map[string]interface{}{"query": `{ getUsers { id } }`})
	resp, err := http.Post(srv.URL, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Data struct {
			GetUsers []interface{} `json:"getUsers"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Empty(t, out.Data.GetUsers)
}

func TestHandlerServesGetFromQueryString(t *testing.T) {
	schema, _ := newTestSchema(t)
	srv := httptest.NewServer(Handler(schema))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?query=" + url.QueryEscape(`{ __schema { queryType { name } } }`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Data struct {
			Schema struct {
				QueryType struct {
					Name string `json:"name"`
				} `json:"queryType"`
			} `json:"__schema"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Query", out.Data.Schema.QueryType.Name)
}

func TestHandlerRefusesMutationsOverGet(t *testing.T) {
	schema, repo := newTestSchema(t)
	srv := httptest.NewServer(Handler(schema))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?query=" + url.QueryEscape(createAna))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))
	var out struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Errors)
	assert.Equal(t, common.MsgMethodNotAllowed, out.Errors[0].Message)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
