package auth

import (
	"context"
	"errors"
	"testing"
)

func TestAuthorize(t *testing.T) {
	alice := Caller{OwnerID: "alice"}
	anonymous := Caller{}

	tests := []struct {
		name   string
		caller Caller
		op     Operation
		target Target
		want   error
	}{
		{"anonymous list", anonymous, OpList, Missing, ErrUnauthenticated},
		{"anonymous create", anonymous, OpCreate, Missing, ErrUnauthenticated},
		{"anonymous retrieve of own-looking record", anonymous, OpRetrieve, Owned(""), ErrUnauthenticated},
		{"anonymous delete", anonymous, OpDelete, Owned("alice"), ErrUnauthenticated},

		{"list", alice, OpList, Missing, nil},
		{"top-level create", alice, OpCreate, Missing, nil},
		{"create under own parent", alice, OpCreate, Owned("alice"), nil},
		{"create under foreign parent", alice, OpCreate, Owned("bob"), ErrForbidden},

		{"retrieve own", alice, OpRetrieve, Owned("alice"), nil},
		{"update own", alice, OpUpdate, Owned("alice"), nil},
		{"partial update own", alice, OpPartialUpdate, Owned("alice"), nil},
		{"delete own", alice, OpDelete, Owned("alice"), nil},

		{"retrieve foreign is not found", alice, OpRetrieve, Owned("bob"), ErrNotFound},
		{"update foreign is not found", alice, OpUpdate, Owned("bob"), ErrNotFound},
		{"partial update foreign is not found", alice, OpPartialUpdate, Owned("bob"), ErrNotFound},
		{"delete foreign is not found", alice, OpDelete, Owned("bob"), ErrNotFound},
		{"retrieve missing", alice, OpRetrieve, Missing, ErrNotFound},
		{"delete missing", alice, OpDelete, Missing, ErrNotFound},

		{"unknown operation", alice, Operation("archive"), Owned("alice"), ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, tt.op, tt.target)
			if !errors.Is(err, tt.want) || (tt.want == nil && err != nil) {
				t.Errorf("Authorize() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAuthorize_ForeignAndMissingAreIndistinguishable(t *testing.T) {
	alice := Caller{OwnerID: "alice"}
	for _, op := range []Operation{OpRetrieve, OpUpdate, OpPartialUpdate, OpDelete} {
		foreign := Authorize(alice, op, Owned("bob"))
		missing := Authorize(alice, op, Missing)
		if foreign != missing { //nolint:errorlint // identity is the point
			t.Errorf("%s: foreign=%v missing=%v, must be identical", op, foreign, missing)
		}
	}
}

func TestCallerContext(t *testing.T) {
	if c := CallerFromContext(context.Background()); c.Authenticated() {
		t.Errorf("empty context yielded caller %+v", c)
	}

	ctx := WithCaller(context.Background(), Caller{OwnerID: "alice"})
	if c := CallerFromContext(ctx); c.OwnerID != "alice" || !c.Authenticated() {
		t.Errorf("CallerFromContext() = %+v", c)
	}
}
