// Package graphql exposes the user operations over a GraphQL endpoint.
package graphql

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"time"

	"catalog_portal/internal/app/service"
	"catalog_portal/internal/common"
	"catalog_portal/internal/domain/model"
	"catalog_portal/internal/platform/logger"

	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

//go:embed schema.graphql
var schemaSDL string

// NewSchema parses the embedded schema against a resolver backed by the given services.
func NewSchema(authService *service.AuthService, userService *service.UserService) *graphqlgo.Schema {
	r := &Resolver{authService: authService, userService: userService}
	return graphqlgo.MustParseSchema(schemaSDL, r)
}

// Handler serves POST requests through relay and GET requests from the
// query string (query, operationName, variables). GET only runs queries;
// a mutation sent that way is answered with 405 before any resolver writes.
func Handler(schema *graphqlgo.Schema) http.Handler {
	post := &relay.Handler{Schema: schema}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			post.ServeHTTP(w, r)
			return
		}
		q := r.URL.Query()
		var variables map[string]interface{}
		if raw := q.Get("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &variables); err != nil {
				common.RespondWithError(w, http.StatusBadRequest, common.MsgBadRequest)
				return
			}
		}
		ctx, refused := readOnly(r.Context())
		resp := schema.Exec(ctx, q.Get("query"), q.Get("operationName"), variables)
		if *refused {
			w.Header().Set("Allow", http.MethodPost)
			common.RespondWithJSON(w, http.StatusMethodNotAllowed, resp)
			return
		}
		common.RespondWithJSON(w, http.StatusOK, resp)
	})
}

type readOnlyKey struct{}

func readOnly(ctx context.Context) (context.Context, *bool) {
	refused := new(bool)
	return context.WithValue(ctx, readOnlyKey{}, refused), refused
}

// allowWrite fails mutations executed under a read-only request.
// Mutation fields run serially, so the flag needs no locking.
func allowWrite(ctx context.Context) error {
	refused, ok := ctx.Value(readOnlyKey{}).(*bool)
	if !ok {
		return nil
	}
	*refused = true
	return &publicError{message: common.MsgMethodNotAllowed, code: http.StatusMethodNotAllowed}
}

type Resolver struct {
	authService *service.AuthService
	userService *service.UserService
}

// publicError is what clients see: a Spanish message and a coarse code.
type publicError struct {
	message string
	code    int
}

func (e *publicError) Error() string { return e.message }

func (e *publicError) Extensions() map[string]interface{} {
	return map[string]interface{}{"status": e.code}
}

func toPublic(op string, err error) error {
	status := common.HTTPStatusFromError(err)
	entry := logger.Log.WithError(err).WithField("operation", op)
	if status >= http.StatusInternalServerError {
		entry.Error("graphql resolver failed")
	} else {
		entry.Debug("graphql resolver rejected request")
	}
	return &publicError{message: common.PublicMessage(err), code: status}
}

func (r *Resolver) GetUsers(ctx context.Context) (*[]*userResolver, error) {
	users, err := r.userService.ListUsers(ctx)
	if err != nil {
		return nil, toPublic("getUsers", err)
	}
	out := make([]*userResolver, 0, len(users))
	for _, u := range users {
		out = append(out, &userResolver{u: u.Snapshot()})
	}
	return &out, nil
}

type loginArgs struct {
	Username string
	Password string
}

func (r *Resolver) Login(ctx context.Context, args loginArgs) (*authPayloadResolver, error) {
	resp, err := r.authService.Login(ctx, args.Username, args.Password)
	if err != nil {
		return nil, toPublic("login", err)
	}
	return &authPayloadResolver{token: resp.Token, user: &userResolver{u: resp.User}}, nil
}

type createUserArgs struct {
	Username string
	Name     *string
	LastName *string
	Email    *string
	UserType *string
	Password string
}

func (r *Resolver) CreateUser(ctx context.Context, args createUserArgs) (*userResolver, error) {
	if err := allowWrite(ctx); err != nil {
		return nil, err
	}
	user, err := r.userService.CreateUser(ctx, service.CreateUserRequest{
		Username: args.Username,
		Name:     deref(args.Name),
		LastName: deref(args.LastName),
		Email:    deref(args.Email),
		UserType: deref(args.UserType),
		Password: args.Password,
	})
	if err != nil {
		return nil, toPublic("createUser", err)
	}
	return &userResolver{u: user.Snapshot()}, nil
}

type updateUserArgs struct {
	ID       graphqlgo.ID
	Username *string
	Name     *string
	LastName *string
	Email    *string
	UserType *string
	Password *string
}

// UpdateUser treats an omitted or null argument as absent.
func (r *Resolver) UpdateUser(ctx context.Context, args updateUserArgs) (*userResolver, error) {
	if err := allowWrite(ctx); err != nil {
		return nil, err
	}
	patch := model.UserPatch{
		Username: model.FromPtr(args.Username),
		Name:     model.FromPtr(args.Name),
		LastName: model.FromPtr(args.LastName),
		Email:    model.FromPtr(args.Email),
		UserType: model.FromPtr(args.UserType),
		Password: model.FromPtr(args.Password),
	}
	user, err := r.userService.UpdateUser(ctx, string(args.ID), patch)
	if err != nil {
		return nil, toPublic("updateUser", err)
	}
	return &userResolver{u: user.Snapshot()}, nil
}

func (r *Resolver) DeleteUser(ctx context.Context, args struct{ ID graphqlgo.ID }) (*bool, error) {
	if err := allowWrite(ctx); err != nil {
		return nil, err
	}
	removed, err := r.userService.DeleteUser(ctx, string(args.ID))
	if err != nil {
		return nil, toPublic("deleteUser", err)
	}
	return &removed, nil
}

type userResolver struct {
	u model.UserSnapshot
}

func (r *userResolver) ID() graphqlgo.ID   { return graphqlgo.ID(r.u.ID) }
func (r *userResolver) Username() string   { return r.u.Username }
func (r *userResolver) Name() string       { return r.u.Name }
func (r *userResolver) LastName() string   { return r.u.LastName }
func (r *userResolver) Email() string      { return r.u.Email }
func (r *userResolver) UserType() string   { return r.u.UserType }
func (r *userResolver) CreateDate() string { return r.u.CreateDate.UTC().Format(time.RFC3339Nano) }

type authPayloadResolver struct {
	token string
	user  *userResolver
}

func (r *authPayloadResolver) Token() string       { return r.token }
func (r *authPayloadResolver) User() *userResolver { return r.user }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
